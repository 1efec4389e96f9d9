// Package calexport renders a meeting timeline as an iCalendar document.
package calexport

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/rcliao/meeting-planner/internal/schedule"
)

const productID = "-//meeting-planner//timeline//PT"

// Calendar converts a timeline into one VEVENT per timed event. date is the
// meeting day; start times are interpreted in loc.
func Calendar(week string, date time.Time, events []schedule.TimedEvent, loc *time.Location, hall string) (*ical.Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for i, e := range events {
		var hh, mm int
		if _, err := fmt.Sscanf(e.StartTime, "%d:%d", &hh, &mm); err != nil {
			return nil, fmt.Errorf("event %d start %q: %w", i, e.StartTime, err)
		}
		start := day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
		end := start.Add(time.Duration(e.Minutes) * time.Minute)

		ve := cal.AddEvent(fmt.Sprintf("%s-%02d-%s@meeting-planner", day.Format("20060102"), i, e.ID))
		ve.SetDtStampTime(start)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(summary(e))
		ve.SetDescription(fmt.Sprintf("%s %s", week, e.DurationText))
		if hall != "" {
			ve.SetLocation(hall)
		}
	}
	return cal, nil
}

func summary(e schedule.TimedEvent) string {
	if e.PublisherName == "" {
		return e.PartTitle
	}
	return e.PartTitle + " - " + e.PublisherName
}
