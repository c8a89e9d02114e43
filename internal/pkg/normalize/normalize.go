// Package normalize holds the pure field normalizers used when turning
// loosely-typed spreadsheet and form input into canonical record values.
// Nothing in here returns an error: unparseable input degrades to a
// best-effort string passthrough.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Trim collapses surrounding whitespace.
func Trim(value string) string {
	return strings.TrimSpace(value)
}

// NonNegativeInt parses value as a non-negative integer, returning 0 for
// anything unparseable or negative.
func NonNegativeInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// YesNo canonicalizes yes/no flag input to "JA" or "NEJ". Unrecognized
// non-empty input is passed through uppercased so the original answer stays
// visible on the dashboard.
func YesNo(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	switch strings.ToLower(v) {
	case "ja", "yes", "y", "true", "1":
		return "JA"
	case "nej", "no", "n", "false", "0":
		return "NEJ"
	}
	return strings.ToUpper(v)
}

var (
	cohortCanonical = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	cohortDayFirst  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// cohortLayouts are tried in order for inputs that match neither the
// canonical nor the day-first pattern.
var cohortLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// CohortDate normalizes a cohort date to "YY/MM/DD". Already-normalized
// input is returned unchanged, which makes the function idempotent. Input
// matching no known pattern is returned trimmed rather than rejected; the
// lossy fallback is deliberate.
func CohortDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if cohortCanonical.MatchString(v) {
		return v
	}
	if m := cohortDayFirst.FindStringSubmatch(v); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := validDate(year, month, day); ok {
			return t.Format("06/01/02")
		}
		return v
	}
	for _, layout := range cohortLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("06/01/02")
		}
	}
	return v
}

// ExpandYear maps a two-digit year to its century: 70 and above are 19xx,
// the rest 20xx.
func ExpandYear(year int) int {
	if year >= 100 {
		return year
	}
	if year >= 70 {
		return 1900 + year
	}
	return 2000 + year
}

func validDate(year, month, day int) (time.Time, bool) {
	year = ExpandYear(year)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// Lower folds a value for case/whitespace-insensitive comparison.
func Lower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// SameFold reports whether two values are equal ignoring case and
// surrounding whitespace.
func SameFold(a, b string) bool {
	return Lower(a) == Lower(b)
}
