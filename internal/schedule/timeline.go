package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
)

// StartMinutes is the meeting start, 19:30, in minutes after midnight.
const StartMinutes = 19*60 + 30

// TimedEvent is one row of the rendered meeting agenda.
type TimedEvent struct {
	ID            string          `json:"id"`
	StartTime     string          `json:"start_time"`
	PartTitle     string          `json:"part_title"`
	PublisherName string          `json:"publisher_name"`
	DurationText  string          `json:"duration_text"`
	Minutes       int             `json:"minutes"`
	SectionType   Section         `json:"section_type"`
	IsCounseling  bool            `json:"is_counseling"`
	RawPart       *RenderablePart `json:"raw_part,omitempty"`
}

// timeline is the single-pass emitter. cursor only moves forward.
type timeline struct {
	cursor    int
	counter   int
	president *model.Participation
	events    []TimedEvent
}

func (tl *timeline) emit(id, title, publisher string, minutes int, sec Section, raw *RenderablePart) {
	tl.events = append(tl.events, TimedEvent{
		ID:            id,
		StartTime:     clock(tl.cursor),
		PartTitle:     title,
		PublisherName: publisher,
		DurationText:  fmt.Sprintf("(%d min)", minutes),
		Minutes:       minutes,
		SectionType:   sec,
		RawPart:       raw,
	})
	tl.cursor += minutes
}

func (tl *timeline) emitRecord(p *model.Participation, minutes int, sec Section) {
	if p == nil {
		return
	}
	raw := &RenderablePart{Participation: *p}
	tl.emit(p.ID, p.PartTitle, p.PublisherName, minutes, sec, raw)
}

func (tl *timeline) emitPart(p RenderablePart, sec Section) {
	tl.counter++
	minutes := DefaultDuration(p.Type)
	if p.Duration != nil && p.Type != model.FinalComments {
		minutes = *p.Duration
	}
	raw := p
	title := fmt.Sprintf("%d. %s", tl.counter, p.PartTitle)
	tl.emit(p.ID, title, p.PublisherLabel(), minutes, sec, &raw)
}

func (tl *timeline) emitCounsel(p RenderablePart, sec Section) {
	name := ""
	var raw *RenderablePart
	if tl.president != nil {
		name = tl.president.PublisherName
		raw = &RenderablePart{Participation: *tl.president}
	}
	tl.emit("counsel-"+p.ID, model.TitleCounseling, name, CounselMinutes, sec, raw)
	tl.events[len(tl.events)-1].IsCounseling = true
}

// BuildTimeline lays out the records of one week on the agenda, starting at
// 19:30. Helpers and readers are attached first, then a special event
// scheduled for week is applied, so a replaced part drops its helper too.
// Counseling slots are always emitted; without a President they carry an
// empty publisher. The result depends only on its inputs.
func BuildTimeline(week string, records []model.Participation, events []model.SpecialEvent, templates []model.EventTemplate) []TimedEvent {
	var (
		president, openingPrayer, closingPrayer *model.Participation
		songs                                   []*model.Participation
	)
	for i := range records {
		r := &records[i]
		switch r.Type {
		case model.President:
			if president == nil {
				president = r
			}
		case model.OpeningPrayer:
			if openingPrayer == nil {
				openingPrayer = r
			}
		case model.ClosingPrayer:
			closingPrayer = r
		case model.Song:
			songs = append(songs, r)
		}
	}
	song := func(i int) *model.Participation {
		if i < len(songs) {
			return songs[i]
		}
		return nil
	}

	ev, tpl, _ := EventForWeek(events, templates, week)
	parts := renderable(applyImpact(pairAll(records), ev, tpl))

	var treasures, ministry, life, final []RenderablePart
	for _, p := range parts {
		switch p.Type {
		case model.Treasures:
			treasures = append(treasures, p)
		case model.Ministry:
			ministry = append(ministry, p)
		case model.ChristianLife, model.BibleStudyConductor:
			life = append(life, p)
		case model.FinalComments:
			final = append(final, p)
		}
	}
	sort.SliceStable(life, func(i, j int) bool {
		return life[i].Type != model.BibleStudyConductor && life[j].Type == model.BibleStudyConductor
	})

	tl := &timeline{cursor: StartMinutes, president: president}

	tl.emitRecord(song(0), SongMinutes, SectionOpening)
	tl.emitRecord(openingPrayer, PrayerMinutes, SectionOpening)
	if president != nil {
		raw := &RenderablePart{Participation: *president}
		tl.emit("initial-comments-"+president.ID, model.TitleInitialComments, president.PublisherName, 1, SectionComments, raw)
	}

	for _, p := range treasures {
		tl.emitPart(p, SectionTreasures)
		if strings.Contains(strings.ToLower(p.PartTitle), "leitura da bíblia") {
			tl.emitCounsel(p, SectionTreasures)
		}
	}

	tl.emitRecord(song(1), SongMinutes, SectionTransition)

	for _, p := range ministry {
		tl.emitPart(p, SectionMinistry)
		tl.emitCounsel(p, SectionMinistry)
	}

	for _, p := range life {
		tl.emitPart(p, SectionLife)
	}

	for _, p := range final {
		tl.emitPart(p, SectionClosing)
	}
	tl.emitRecord(song(2), SongMinutes, SectionClosing)
	tl.emitRecord(closingPrayer, PrayerMinutes, SectionClosing)

	return tl.events
}

// clock formats minutes after midnight as HH:MM, wrapping at 24h.
func clock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
