package schedule

import (
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

// Default part durations in minutes.
const (
	TreasuresMinutes = 10
	MinistryMinutes  = 5
	LifeMinutes      = 15
	SongMinutes      = 3
	CommentsMinutes  = 3
	PrayerMinutes    = 1
	CounselMinutes   = 1
)

// DefaultDuration is the printed allocation for a part type.
func DefaultDuration(t model.ParticipationType) int {
	switch t {
	case model.Treasures:
		return TreasuresMinutes
	case model.Ministry:
		return MinistryMinutes
	case model.ChristianLife, model.BibleStudyConductor:
		return LifeMinutes
	case model.Song:
		return SongMinutes
	case model.FinalComments:
		return CommentsMinutes
	case model.OpeningPrayer, model.ClosingPrayer:
		return PrayerMinutes
	}
	return 0
}

// overseerKeyword marks templates for the circuit overseer's visit, whose
// speaker also takes the final comments.
const overseerKeyword = "superintendente"

// EventForWeek returns the first special event scheduled for week together
// with its template. Events whose template is unknown are skipped.
func EventForWeek(events []model.SpecialEvent, templates []model.EventTemplate, week string) (*model.SpecialEvent, *model.EventTemplate, bool) {
	for i := range events {
		if events[i].Week != week {
			continue
		}
		for j := range templates {
			if templates[j].ID == events[i].TemplateID {
				ev, tpl := events[i], templates[j]
				return &ev, &tpl, true
			}
		}
	}
	return nil, nil, false
}

// ApplyImpact returns a copy of records transformed by a special event. The
// input slice is not modified. A nil event or template returns the records
// unchanged.
func ApplyImpact(records []model.Participation, event *model.SpecialEvent, tpl *model.EventTemplate) []model.Participation {
	parts := make([]RenderablePart, len(records))
	for i, r := range records {
		parts[i] = RenderablePart{Participation: r}
	}
	parts = applyImpact(parts, event, tpl)
	out := make([]model.Participation, len(parts))
	for i, p := range parts {
		out[i] = p.Participation
	}
	return out
}

// applyImpact transforms already paired parts, so a replaced or removed part
// takes its helper or reader with it. The special part is never paired.
func applyImpact(in []RenderablePart, event *model.SpecialEvent, tpl *model.EventTemplate) []RenderablePart {
	out := make([]RenderablePart, len(in))
	copy(out, in)
	if event == nil || tpl == nil {
		return out
	}

	if tr := event.TimeReduction; tr != nil && tr.Minutes > 0 {
		for i := range out {
			if out[i].Type != tr.TargetType {
				continue
			}
			base := DefaultDuration(out[i].Type)
			if out[i].Duration != nil {
				base = *out[i].Duration
			}
			out[i].Duration = model.IntPtr(max(base-tr.Minutes, 0))
			break
		}
	}

	special := RenderablePart{Participation: model.Participation{
		ID:            event.ID,
		Week:          event.Week,
		Date:          weekdate.CalculatePartDate(event.Week),
		PartTitle:     event.Theme,
		Type:          model.ChristianLife,
		PublisherName: event.AssignedTo,
		Duration:      event.Duration,
	}}

	targets := map[model.ParticipationType]bool{}
	for _, t := range tpl.Impact.TargetTypes {
		targets[t] = true
	}

	switch tpl.Impact.Action {
	case model.ReplacePart:
		replaced := false
		if len(tpl.Impact.TargetTypes) > 0 {
			for i := range out {
				if out[i].Type == tpl.Impact.TargetTypes[0] {
					out[i] = special
					replaced = true
					break
				}
			}
		}
		if !replaced {
			out = insertAt(out, lastIndexOf(out, model.ChristianLife)+1, special)
		}
	case model.ReplaceSection:
		kept := out[:0]
		for _, r := range out {
			if !targets[r.Type] {
				kept = append(kept, r)
			}
		}
		out = append(kept, special)
	case model.AddPart:
		if i := indexOf(out, model.BibleStudyConductor); i >= 0 {
			out = insertAt(out, i, special)
		} else {
			out = append(out, special)
		}
	}

	if strings.Contains(strings.ToLower(tpl.Name), overseerKeyword) && event.AssignedTo != "" {
		for i := range out {
			if out[i].Type == model.FinalComments {
				out[i].PublisherName = event.AssignedTo
			}
		}
	}
	return out
}

func indexOf(parts []RenderablePart, t model.ParticipationType) int {
	for i, r := range parts {
		if r.Type == t {
			return i
		}
	}
	return -1
}

func lastIndexOf(parts []RenderablePart, t model.ParticipationType) int {
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].Type == t {
			return i
		}
	}
	return -1
}

// insertAt inserts r at index i, appending when i is past the end.
func insertAt(parts []RenderablePart, i int, r RenderablePart) []RenderablePart {
	if i >= len(parts) {
		return append(parts, r)
	}
	parts = append(parts, RenderablePart{})
	copy(parts[i+1:], parts[i:])
	parts[i] = r
	return parts
}
