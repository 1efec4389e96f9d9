// Package schedule classifies a week's records into agenda sections, applies
// special events and lays the meeting out on a timeline.
package schedule

import (
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
)

// Section is a block of the meeting agenda.
type Section string

const (
	SectionOpening    Section = "OPENING"
	SectionComments   Section = "COMMENTS"
	SectionTreasures  Section = "TREASURES"
	SectionTransition Section = "TRANSITION"
	SectionMinistry   Section = "MINISTRY"
	SectionLife       Section = "LIFE"
	SectionClosing    Section = "CLOSING"
)

// Sections lists the agenda sections in meeting order. SectionComments only
// tags the initial comments row of a timeline and holds no records.
var Sections = []Section{SectionOpening, SectionTreasures, SectionTransition, SectionMinistry, SectionLife, SectionClosing}

// RenderablePart is a record with its helper or reader attached.
type RenderablePart struct {
	model.Participation
	Pair *model.Participation `json:"pair,omitempty"`
}

// PublisherLabel renders "principal / helper" for paired parts.
func (r RenderablePart) PublisherLabel() string {
	if r.Pair == nil {
		return r.PublisherName
	}
	return r.PublisherName + " / " + r.Pair.PublisherName
}

// SectionOf returns the section of a record. songIndex is the zero-based
// position of the record among the meeting's songs and is ignored for other
// types. Satellites have no section of their own.
func SectionOf(p model.Participation, songIndex int) (Section, bool) {
	switch p.Type {
	case model.President, model.OpeningPrayer:
		return SectionOpening, true
	case model.Treasures:
		return SectionTreasures, true
	case model.Ministry:
		return SectionMinistry, true
	case model.ChristianLife, model.BibleStudyConductor:
		return SectionLife, true
	case model.ClosingPrayer, model.FinalComments:
		return SectionClosing, true
	case model.Song:
		switch songIndex {
		case 0:
			return SectionOpening, true
		case 1:
			return SectionTransition, true
		default:
			return SectionClosing, true
		}
	}
	return "", false
}

// renderableTypes are the types Pair passes through.
var renderableTypes = map[model.ParticipationType]bool{
	model.Treasures:           true,
	model.Ministry:            true,
	model.ChristianLife:       true,
	model.BibleStudyConductor: true,
	model.FinalComments:       true,
}

// Pair attaches the first unconsumed helper to each ministry part that is not
// a talk, and the first unconsumed reader to the study conductor. Only
// treasures, ministry, life, conductor and final-comments records are
// returned; leftover satellites are dropped.
func Pair(records []model.Participation) []RenderablePart {
	return renderable(pairAll(records))
}

func renderable(parts []RenderablePart) []RenderablePart {
	var out []RenderablePart
	for _, r := range parts {
		if renderableTypes[r.Type] {
			out = append(out, r)
		}
	}
	return out
}

func pairAll(records []model.Participation) []RenderablePart {
	used := make([]bool, len(records))
	take := func(t model.ParticipationType) *model.Participation {
		for i := range records {
			if !used[i] && records[i].Type == t {
				used[i] = true
				p := records[i]
				return &p
			}
		}
		return nil
	}

	var out []RenderablePart
	for i, r := range records {
		if used[i] || r.Type.IsSatellite() {
			continue
		}
		part := RenderablePart{Participation: r}
		switch {
		case r.Type == model.Ministry && !strings.Contains(strings.ToLower(r.PartTitle), "discurso"):
			part.Pair = take(model.Helper)
		case r.Type == model.BibleStudyConductor:
			part.Pair = take(model.BibleStudyReader)
		}
		out = append(out, part)
	}
	return out
}

// SectionGroup is one section of a classified meeting.
type SectionGroup struct {
	Section Section          `json:"section"`
	Parts   []RenderablePart `json:"parts"`
}

// Classify pairs the records and groups them by section in meeting order.
// Songs are placed by their position among the meeting's songs.
func Classify(records []model.Participation) []SectionGroup {
	bySection := map[Section][]RenderablePart{}
	songs := 0
	for _, r := range pairAll(records) {
		idx := 0
		if r.Type == model.Song {
			idx = songs
			songs++
		}
		sec, ok := SectionOf(r.Participation, idx)
		if !ok {
			continue
		}
		bySection[sec] = append(bySection[sec], r)
	}

	var groups []SectionGroup
	for _, sec := range Sections {
		if parts := bySection[sec]; len(parts) > 0 {
			groups = append(groups, SectionGroup{Section: sec, Parts: parts})
		}
	}
	return groups
}
