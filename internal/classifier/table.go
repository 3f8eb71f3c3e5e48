package classifier

// Department is a static department/degree mapping entry.
type Department struct {
	Name   string `json:"name"`
	Degree string `json:"degree"`
}

// departments maps roll-code letter runs to programs. Lookup is exact-match
// on the full extracted run, so two-letter codes can never be shadowed by a
// single-letter entry (AE is never misread as A).
var departments = map[string]Department{
	// B.E. programs
	"A": {Name: "Automobile Engineering", Degree: "B.E."},
	"D": {Name: "Biomedical Engineering", Degree: "B.E."},
	"C": {Name: "Civil Engineering", Degree: "B.E."},
	"Z": {Name: "Computer Science & Engineering", Degree: "B.E."},
	"N": {Name: "Computer Science (AI & ML)", Degree: "B.E."},
	"E": {Name: "Electrical & Electronics", Degree: "B.E."},
	"L": {Name: "Electronics & Communication", Degree: "B.E."},
	"U": {Name: "Instrumentation & Control", Degree: "B.E."},
	"M": {Name: "Mechanical Engineering", Degree: "B.E."},
	"Y": {Name: "Metallurgical Engineering", Degree: "B.E."},
	"P": {Name: "Production Engineering", Degree: "B.E."},
	"R": {Name: "Robotics & Automation", Degree: "B.E."},

	// B.Tech programs
	"B": {Name: "Bio Technology", Degree: "B.Tech"},
	"H": {Name: "Fashion Technology", Degree: "B.Tech"},
	"I": {Name: "Information Technology", Degree: "B.Tech"},
	"T": {Name: "Textile Technology", Degree: "B.Tech"},

	// B.Sc. programs
	"S": {Name: "Applied Science", Degree: "B.Sc."},
	"X": {Name: "Science", Degree: "B.Sc."},

	// M.E. programs (two-letter codes)
	"AE": {Name: "Automotive Engineering", Degree: "M.E."},
	"NB": {Name: "Biometrics & Cybersecurity", Degree: "M.E."},
	"ZC": {Name: "Computer Science & Engineering", Degree: "M.E."},
	"UC": {Name: "Control Systems", Degree: "M.E."},
	"EE": {Name: "Embedded & Real-Time Systems", Degree: "M.E."},
	"MD": {Name: "Engineering Design", Degree: "M.E."},
	"MN": {Name: "Manufacturing Engineering", Degree: "M.E."},
	"PP": {Name: "Power Electronics", Degree: "M.E."},
	"ED": {Name: "Energy Engineering", Degree: "M.E."},
	"CS": {Name: "Communication Systems", Degree: "M.E."},
	"LV": {Name: "VLSI Design", Degree: "M.E."},
	"BT": {Name: "Bio Technology", Degree: "M.E."},
	"LN": {Name: "Engineering", Degree: "M.E."},
	"TT": {Name: "Thermal Engineering", Degree: "M.E."},
	"SE": {Name: "Software Engineering", Degree: "M.E."},

	// MCA
	"MX": {Name: "Computer Applications", Degree: "MCA"},

	// M.Sc. programs
	"SA": {Name: "Applied Science", Degree: "M.Sc."},
	"FD": {Name: "Food Science", Degree: "M.Sc."},
	"XW": {Name: "Science", Degree: "M.Sc."},
	"XT": {Name: "Science & Technology", Degree: "M.Sc."},
	"XD": {Name: "Data Science", Degree: "M.Sc."},
	"XC": {Name: "Science", Degree: "M.Sc."},

	// MBA programs
	"GM": {Name: "Business Administration", Degree: "MBA"},
	"GW": {Name: "Business Administration", Degree: "MBA"},
}

// DepartmentFor returns the program for a letter code, if known.
func DepartmentFor(code string) (Department, bool) {
	dept, ok := departments[code]
	return dept, ok
}
