package uhmc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// uaMonths are transliterated Ukrainian month stems as they appear in UHMC file
// names. Order matters: the first stem contained in the name wins.
var uaMonths = []struct {
	stem  string
	month time.Month
}{
	{"sichen", time.January}, {"siichen", time.January},
	{"liutii", time.February}, {"lyutiy", time.February},
	{"berezn", time.March}, {"berezne", time.March},
	{"kviten", time.April},
	{"traven", time.May},
	{"cherven", time.June},
	{"lipen", time.July}, {"lypen", time.July},
	{"serpen", time.August},
	{"veresen", time.September},
	{"zhovten", time.October},
	{"listopad", time.November}, {"lystopad", time.November},
	{"gruden", time.December},
}

var enMonths = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	yearRe       = regexp.MustCompile(`20\d{2}`)
	dayMonthRe   = regexp.MustCompile(`^(\d+)([a-zA-Z]+)$`)
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
)

// MonthFromFilename finds the year (20xx) and the transliterated Ukrainian month
// in a file name such as "shchodenni-za-lipen-2024.csv". Missing parts fall
// back to now.
func MonthFromFilename(name string, now time.Time) (int, time.Month) {
	name = strings.ToLower(name)

	year := now.Year()
	if m := yearRe.FindString(name); m != "" {
		year, _ = strconv.Atoi(m)
	}

	month := now.Month()
	for _, um := range uaMonths {
		if strings.Contains(name, um.stem) {
			month = um.month
			break
		}
	}
	return year, month
}

// isDayColumn reports whether a header names a day: "15" or "15July".
func isDayColumn(header string) bool {
	header = strings.TrimSpace(header)
	if digitsOnlyRe.MatchString(header) {
		return true
	}
	m := dayMonthRe.FindStringSubmatch(header)
	if m == nil {
		return false
	}
	_, ok := enMonths[strings.ToLower(m[2])]
	return ok
}

// HeaderDate resolves a day column header. "15July" carries its own month;
// a bare "15" uses the given month. Days that do not exist in the month
// (e.g. 31 in June) are rejected.
func HeaderDate(header string, year int, month time.Month) (time.Time, bool) {
	header = strings.TrimSpace(header)

	dayStr := header
	if m := dayMonthRe.FindStringSubmatch(header); m != nil {
		mm, ok := enMonths[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, false
		}
		dayStr, month = m[1], mm
	} else if !digitsOnlyRe.MatchString(header) {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// parseYearMonth reads a "YYYY-MM" cell.
func parseYearMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}
