package weekdate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// FormatWeekRange renders the canonical label of the Monday-to-Sunday week starting at monday.
func FormatWeekRange(monday time.Time) string {
	end := monday.AddDate(0, 0, 6)
	startMonth, endMonth := monthAbbr[monday.Month()-1], monthAbbr[end.Month()-1]

	switch {
	case monday.Month() == end.Month():
		return fmt.Sprintf("%d-%d de %s, %d", monday.Day(), end.Day(), startMonth, monday.Year())
	case monday.Year() == end.Year():
		return fmt.Sprintf("%d de %s - %d de %s, %d", monday.Day(), startMonth, end.Day(), endMonth, monday.Year())
	default:
		return fmt.Sprintf("%d de %s, %d - %d de %s, %d", monday.Day(), startMonth, monday.Year(), end.Day(), endMonth, end.Year())
	}
}

// MondayOnOrBefore returns the Monday that starts the week containing t.
func MondayOnOrBefore(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -offset)
}

// WeeksBetween lists the labels of every Monday-starting week that overlaps [from, to].
func WeeksBetween(from, to time.Time) ([]string, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("weeks: end %s is before start %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.MO},
		Dtstart:   MondayOnOrBefore(from),
		Until:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("weeks: %w", err)
	}
	var weeks []string
	for _, monday := range r.All() {
		weeks = append(weeks, FormatWeekRange(monday.UTC()))
	}
	return weeks, nil
}

// WeeksForWorkbook lists the week labels covered by a workbook named like
// "NOV/DEZ 2024". A period that wraps the year ("DEZ/JAN 2024") ends in the next year.
// Names that do not match return nil.
func WeeksForWorkbook(name string) []string {
	m := workbookRe.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	startMonth, ok1 := monthIndex[strings.ToUpper(m[1])]
	endMonth, ok2 := monthIndex[strings.ToUpper(m[2])]
	year, err := strconv.Atoi(m[3])
	if !ok1 || !ok2 || err != nil {
		return nil
	}

	endYear := year
	if endMonth < startMonth {
		endYear++
	}
	from := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(endYear, endMonth+1, 0, 0, 0, 0, 0, time.UTC)

	weeks, err := WeeksBetween(from, to)
	if err != nil {
		return nil
	}
	return weeks
}
