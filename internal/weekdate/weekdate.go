// Package weekdate normalizes meeting-week labels and derives meeting dates from them.
//
// A canonical week label looks like "4-10 de NOV, 2024", "28 de OUT - 3 de NOV, 2024"
// or "30 de DEZ, 2024 - 5 de JAN, 2025". Every function in this package is
// best-effort: unparseable input yields a fallback value, never an error.
package weekdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISOLayout matches the millisecond UTC ISO-8601 form stored on records.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// UndefinedWeek prefixes the label given to an empty week heading.
const UndefinedWeek = "Semana Indefinida"

// Epoch is the "unparseable" sentinel returned by ParseWeekDate.
var Epoch = time.Unix(0, 0).UTC()

var monthIndex = map[string]time.Month{
	"JAN": time.January, "JANEIRO": time.January,
	"FEV": time.February, "FEVEREIRO": time.February,
	"MAR": time.March, "MARÇO": time.March, "MARCO": time.March,
	"ABR": time.April, "ABRIL": time.April,
	"MAI": time.May, "MAIO": time.May,
	"JUN": time.June, "JUNHO": time.June,
	"JUL": time.July, "JULHO": time.July,
	"AGO": time.August, "AGOSTO": time.August,
	"SET": time.September, "SETEMBRO": time.September,
	"OUT": time.October, "OUTUBRO": time.October,
	"NOV": time.November, "NOVEMBRO": time.November,
	"DEZ": time.December, "DEZEMBRO": time.December,
}

var monthAbbr = [12]string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

var (
	weekPrefixRe = regexp.MustCompile(`(?i)^\s*SEMANA\s+(DE\s+)?`)
	fourDigitRe  = regexp.MustCompile(`\d{4}`)
	crossMonthRe = regexp.MustCompile(`(\d+)\s+DE\s+(\p{L}+)\s*-\s*(\d+)\s+DE\s+(\p{L}+)`)
	sameMonthRe  = regexp.MustCompile(`(\d+)\s*(?:-|A)\s*(\d+)\s+(?:DE\s+)?(\p{L}+)`)
	tokenSplitRe = regexp.MustCompile(`[\s\-–—]+`)
	yearInTextRe = regexp.MustCompile(`20\d{2}`)
	leadingIntRe = regexp.MustCompile(`^\d+`)
	dashReplacer = strings.NewReplacer("–", "-", "—", "-")
	workbookRe   = regexp.MustCompile(`(\p{L}+)/(\p{L}+)\s+(\d{4})`)
)

// MonthAbbr returns the upper-case three-letter abbreviation for a Portuguese
// month name or abbreviation. Unknown words are truncated to three letters.
func MonthAbbr(word string) string {
	upper := strings.ToUpper(word)
	if m, ok := monthIndex[upper]; ok {
		return monthAbbr[m-1]
	}
	r := []rune(upper)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// StandardizeWeekDate converts a raw heading such as "SEMANA DE 4-10 DE NOVEMBRO"
// into a canonical label using yearContext when the input carries no year.
// Already-normalized labels are returned unchanged.
func StandardizeWeekDate(raw string, yearContext int) string {
	year := strconv.Itoa(yearContext)
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, UndefinedWeek+", ") && fourDigitRe.MatchString(trimmed) {
		return trimmed
	}
	stripped := strings.TrimSpace(weekPrefixRe.ReplaceAllString(trimmed, ""))
	if stripped == "" {
		return UndefinedWeek + ", " + year
	}
	if fourDigitRe.MatchString(stripped) && strings.Contains(stripped, ",") {
		return stripped
	}

	cleaned := dashReplacer.Replace(strings.ToUpper(stripped))

	if m := crossMonthRe.FindStringSubmatch(cleaned); m != nil {
		m1, m2 := MonthAbbr(m[2]), MonthAbbr(m[4])
		if m1 == "DEZ" && m2 == "JAN" {
			return m[1] + " de " + m1 + ", " + year + " - " + m[3] + " de " + m2 + ", " + strconv.Itoa(yearContext+1)
		}
		return m[1] + " de " + m1 + " - " + m[3] + " de " + m2 + ", " + year
	}

	if m := sameMonthRe.FindStringSubmatch(cleaned); m != nil {
		return m[1] + "-" + m[2] + " de " + MonthAbbr(m[3]) + ", " + year
	}

	if !fourDigitRe.MatchString(cleaned) {
		return cleaned + ", " + year
	}
	return cleaned
}

// ParseWeekDate returns the UTC midnight of the first day named in a week label.
// It returns Epoch when no day or month can be found.
func ParseWeekDate(label string) time.Time {
	if strings.TrimSpace(label) == "" {
		return Epoch
	}
	cleaned := strings.ToUpper(strings.ReplaceAll(label, ",", " "))
	var tokens []string
	for _, tok := range tokenSplitRe.Split(cleaned, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return Epoch
	}

	day := 0
	for _, tok := range tokens {
		if d, ok := leadingInt(tok); ok && d > 0 && d <= 31 {
			day = d
			break
		}
	}
	if day == 0 {
		return Epoch
	}

	var month time.Month
	for _, tok := range tokens {
		if m, ok := monthIndex[tok]; ok {
			month = m
			break
		}
	}
	if month == 0 {
		return Epoch
	}

	year := 0
	for _, tok := range tokens {
		if y, ok := leadingInt(tok); ok && y > 2000 && y < 2100 {
			year = y
			break
		}
	}
	if year == 0 {
		if y, ok := leadingInt(tokens[len(tokens)-1]); ok && y > 2000 {
			year = y
		}
	}
	if year == 0 {
		return Epoch
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MeetingWeekday is the midweek meeting day for a calendar year:
// Wednesday in odd years, Thursday in even years.
func MeetingWeekday(year int) time.Weekday {
	if year%2 != 0 {
		return time.Wednesday
	}
	return time.Thursday
}

// MeetingDate returns the meeting day of the week labelled by weekLabel,
// treating the first date of the label as the week's Monday.
// ok is false when the label cannot be parsed.
func MeetingDate(weekLabel string) (time.Time, bool) {
	start := ParseWeekDate(weekLabel)
	if start.Equal(Epoch) {
		return Epoch, false
	}
	offset := int(MeetingWeekday(start.Year()) - time.Monday)
	return start.AddDate(0, 0, offset), true
}

// CalculatePartDate returns the meeting day for weekLabel as an ISO string,
// or the epoch ISO string when the label is unparseable.
func CalculatePartDate(weekLabel string) string {
	d, _ := MeetingDate(weekLabel)
	return d.Format(ISOLayout)
}

// DetectYear finds the first 20xx year in s.
func DetectYear(s string) (int, bool) {
	m := yearInTextRe.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// SortKey orders week labels chronologically; unparseable labels sort first.
func SortKey(label string) int64 {
	return ParseWeekDate(label).Unix()
}

func leadingInt(tok string) (int, bool) {
	digits := leadingIntRe.FindString(tok)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
