package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyRegularEntry(t *testing.T) {
	// Batch 22, classified after the July rollover of 2025.
	c := Classify("22Z301", date(2025, time.August, 1))

	assert.Equal(t, "4th Year", c.Year)
	assert.Equal(t, 4, c.YearOfStudy)
	assert.Equal(t, "Z", c.DeptCode)
	assert.Equal(t, "Computer Science & Engineering", c.Department)
	assert.Equal(t, "B.E.", c.Degree)
}

func TestClassifyLateralEntry(t *testing.T) {
	// January is before the July rollover, so the effective cycle is 2024.
	// Entry digit 4 adds the skipped first year.
	c := Classify("23U401", date(2025, time.January, 1))

	assert.Equal(t, "3rd Year", c.Year)
	assert.Equal(t, "Instrumentation & Control", c.Department)
	assert.Equal(t, "B.E.", c.Degree)
}

func TestClassifyLateralOffsetIsExactlyOneYear(t *testing.T) {
	now := date(2025, time.October, 10)

	regular := Classify("24M201", now)
	lateral := Classify("24M401", now)

	assert.Equal(t, regular.YearOfStudy+1, lateral.YearOfStudy)
}

func TestClassifyJulyRollover(t *testing.T) {
	june := Classify("24Z101", date(2025, time.June, 30))
	july := Classify("24Z101", date(2025, time.July, 1))

	assert.Equal(t, "1st Year", june.Year)
	assert.Equal(t, "2nd Year", july.Year)
}

func TestClassifyNormalizesInput(t *testing.T) {
	c := Classify("  22z301 ", date(2025, time.August, 1))

	assert.Equal(t, "22Z301", c.RollNo)
	assert.Equal(t, "Computer Science & Engineering", c.Department)
}

func TestClassifyDoubleLetterCodeTakesPrecedence(t *testing.T) {
	// AE must resolve to the M.E. Automotive program, never the
	// single-letter Automobile entry.
	c := Classify("24AE101", date(2025, time.August, 1))

	assert.Equal(t, "AE", c.DeptCode)
	assert.Equal(t, "Automotive Engineering", c.Department)
	assert.Equal(t, "M.E.", c.Degree)
}

func TestClassifyUnknownDepartment(t *testing.T) {
	c := Classify("24Q101", date(2025, time.August, 1))

	assert.Equal(t, Unknown, c.Department)
	assert.Equal(t, Unknown, c.Degree)
	assert.Equal(t, "1st Year", c.Year)
}

func TestClassifyMalformedCodesNeverError(t *testing.T) {
	now := date(2025, time.August, 1)

	for _, code := range []string{"", "Z", "ZZ301", "1", "!!", "abc", "22", "9999999", "22Z"} {
		c := Classify(code, now)
		require.NotEmpty(t, c.Year, "code %q", code)
		require.NotEmpty(t, c.Department, "code %q", code)
		require.NotEmpty(t, c.Degree, "code %q", code)
	}
}

func TestClassifyNonNumericBatchYieldsUnknownYear(t *testing.T) {
	c := Classify("ZZ301", date(2025, time.August, 1))

	assert.Equal(t, Unknown, c.Year)
}

func TestClassifyFutureBatchCollapsesToAlumni(t *testing.T) {
	// Batch 99 gives a negative year of study. That collapses into the
	// Alumni catch-all, same as anything past 5th year.
	c := Classify("99Z101", date(2025, time.August, 1))

	assert.Equal(t, Alumni, c.Year)
	assert.Less(t, c.YearOfStudy, 1)
}

func TestClassifyOldBatchIsAlumni(t *testing.T) {
	c := Classify("15Z301", date(2025, time.August, 1))

	assert.Equal(t, Alumni, c.Year)
}

func TestClassifyIdempotent(t *testing.T) {
	now := date(2025, time.August, 1)

	first := Classify("22Z301", now)
	second := Classify("22Z301", now)

	assert.Equal(t, first, second)
}

func TestClassifyMonotonicInTime(t *testing.T) {
	code := "23L201"
	prev := Classify(code, date(2023, time.August, 1))

	for year := 2024; year <= 2035; year++ {
		next := Classify(code, date(year, time.August, 1))
		assert.GreaterOrEqual(t, next.YearOfStudy, prev.YearOfStudy)
		prev = next
	}
}

func TestClassifyYearAlwaysInLabelSet(t *testing.T) {
	labels := map[string]bool{
		"1st Year": true, "2nd Year": true, "3rd Year": true,
		"4th Year": true, "5th Year": true, Alumni: true, Unknown: true,
	}
	now := date(2025, time.August, 1)

	for batch := 0; batch <= 99; batch++ {
		for _, entry := range []string{"1", "2", "3", "4"} {
			code := string(rune('0'+batch/10)) + string(rune('0'+batch%10)) + "Z" + entry + "01"
			c := Classify(code, now)
			require.True(t, labels[c.Year], "code %q year %q", code, c.Year)
		}
	}
}

func TestDepartmentFor(t *testing.T) {
	dept, ok := DepartmentFor("GM")
	require.True(t, ok)
	assert.Equal(t, "MBA", dept.Degree)

	_, ok = DepartmentFor("??")
	assert.False(t, ok)
}
