// Package classifier derives academic year, department, and degree from a
// PSG Tech roll code. Classification is a total function: malformed codes
// degrade to UNKNOWN sentinels and never produce an error.
package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unknown is the sentinel value for unclassifiable year, department, or degree.
const Unknown = "UNKNOWN"

// Alumni is the terminal year label for any year of study outside 1..5.
// Future-dated batches (year of study <= 0) collapse into it as well;
// this matches the institution's published vault behavior.
const Alumni = "Alumni"

// lateralEntryDigit marks direct second-year admission in the digit
// immediately following the department letters (e.g. 25U401).
const lateralEntryDigit = 4

var (
	// entryDigitRe captures the first digit after the leading letter run.
	entryDigitRe = regexp.MustCompile(`[A-Z]+(\d)`)
	// deptCodeRe captures the letter run between the batch and serial digits.
	deptCodeRe = regexp.MustCompile(`[0-9]+([A-Z]+)[0-9]+`)
)

// Classification is the result of classifying a roll code.
type Classification struct {
	RollNo      string `json:"roll_no"`
	Year        string `json:"year"`
	YearOfStudy int    `json:"year_of_study"`
	DeptCode    string `json:"dept_code"`
	Department  string `json:"department"`
	Degree      string `json:"degree"`
}

// Classify derives year of study, department, and degree from a roll code.
// The academic year rolls over every July: a code classified in June still
// belongs to the previous admission cycle.
func Classify(code string, now time.Time) Classification {
	r := strings.ToUpper(strings.TrimSpace(code))

	result := Classification{
		RollNo:     r,
		Year:       Unknown,
		DeptCode:   "?",
		Department: Unknown,
		Degree:     Unknown,
	}

	// Two-digit admission batch prefix. Not parseable means the year
	// stays UNKNOWN; department extraction still runs.
	if len(r) >= 2 {
		if batch, err := strconv.Atoi(r[:2]); err == nil {
			effectiveYear := now.Year()
			if now.Month() < time.July {
				effectiveYear--
			}

			yearOfStudy := effectiveYear - (2000 + batch) + 1

			// Lateral entrants skip first year, so they are one year ahead.
			if m := entryDigitRe.FindStringSubmatch(r); m != nil {
				if digit, _ := strconv.Atoi(m[1]); digit == lateralEntryDigit {
					yearOfStudy++
				}
			}

			result.YearOfStudy = yearOfStudy
			result.Year = yearLabel(yearOfStudy)
		}
	}

	if m := deptCodeRe.FindStringSubmatch(r); m != nil {
		result.DeptCode = m[1]
	}

	if dept, ok := departments[result.DeptCode]; ok {
		result.Department = dept.Name
		result.Degree = dept.Degree
	}

	return result
}

func yearLabel(yearOfStudy int) string {
	switch yearOfStudy {
	case 1:
		return "1st Year"
	case 2:
		return "2nd Year"
	case 3:
		return "3rd Year"
	case 4:
		return "4th Year"
	case 5:
		return "5th Year"
	default:
		return Alumni
	}
}
