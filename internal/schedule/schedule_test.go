package schedule

import (
	"reflect"
	"testing"

	"github.com/rcliao/meeting-planner/internal/model"
)

const week = "4-10 de NOV, 2024"

func rec(id string, t model.ParticipationType, title, name string) model.Participation {
	return model.Participation{ID: id, Week: week, Type: t, PartTitle: title, PublisherName: name}
}

func standardWeek() []model.Participation {
	reading := rec("t3", model.Treasures, "Leitura da Bíblia", "Eli")
	reading.Duration = model.IntPtr(4)
	study := rec("c1", model.BibleStudyConductor, "Estudo bíblico de congregação", "João")
	study.Duration = model.IntPtr(30)
	return []model.Participation{
		rec("p1", model.President, "Presidente", "Ana"),
		rec("s1", model.Song, "Cântico 10", ""),
		rec("op", model.OpeningPrayer, "Oração Inicial", "Bruno"),
		rec("t1", model.Treasures, "Tesouros da Palavra", "Carlos"),
		rec("t2", model.Treasures, "Joias espirituais", "Davi"),
		reading,
		rec("s2", model.Song, "Cântico 20", ""),
		rec("m1", model.Ministry, "Iniciando conversas", "Fabi"),
		rec("h1", model.Helper, "Ajudante", "Gabi"),
		rec("m2", model.Ministry, "Discurso", "Hugo"),
		study,
		rec("r1", model.BibleStudyReader, "Leitor do EBC", "Kaio"),
		rec("l1", model.ChristianLife, "Necessidades locais", "Igor"),
		rec("fc", model.FinalComments, "Comentários Finais", "Ana"),
		rec("s3", model.Song, "Cântico 30", ""),
		rec("cp", model.ClosingPrayer, "Oração Final", "Leo"),
	}
}

func TestBuildTimeline_Standard(t *testing.T) {
	events := BuildTimeline(week, standardWeek(), nil, nil)

	want := []struct {
		start, title, publisher string
	}{
		{"19:30", "Cântico 10", ""},
		{"19:33", "Oração Inicial", "Bruno"},
		{"19:34", "Comentários Iniciais", "Ana"},
		{"19:35", "1. Tesouros da Palavra", "Carlos"},
		{"19:45", "2. Joias espirituais", "Davi"},
		{"19:55", "3. Leitura da Bíblia", "Eli"},
		{"19:59", "Aconselhamento", "Ana"},
		{"20:00", "Cântico 20", ""},
		{"20:03", "4. Iniciando conversas", "Fabi / Gabi"},
		{"20:08", "Aconselhamento", "Ana"},
		{"20:09", "5. Discurso", "Hugo"},
		{"20:14", "Aconselhamento", "Ana"},
		{"20:15", "6. Necessidades locais", "Igor"},
		{"20:30", "7. Estudo bíblico de congregação", "João / Kaio"},
		{"21:00", "8. Comentários Finais", "Ana"},
		{"21:03", "Cântico 30", ""},
		{"21:06", "Oração Final", "Leo"},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		e := events[i]
		if e.StartTime != w.start || e.PartTitle != w.title || e.PublisherName != w.publisher {
			t.Errorf("event %d: expected %s %q %q, got %s %q %q",
				i, w.start, w.title, w.publisher, e.StartTime, e.PartTitle, e.PublisherName)
		}
	}

	if events[2].ID != "initial-comments-p1" {
		t.Errorf("expected initial comments id, got %q", events[2].ID)
	}
	if events[6].ID != "counsel-t3" || !events[6].IsCounseling {
		t.Errorf("expected counseling after reading, got %+v", events[6])
	}
	if events[8].RawPart == nil || events[8].RawPart.Pair == nil || events[8].RawPart.Pair.ID != "h1" {
		t.Errorf("expected raw part with helper, got %+v", events[8].RawPart)
	}
	if events[0].DurationText != "(3 min)" || events[5].DurationText != "(4 min)" {
		t.Errorf("unexpected duration text %q / %q", events[0].DurationText, events[5].DurationText)
	}
	if events[1].SectionType != SectionOpening || events[7].SectionType != SectionTransition || events[16].SectionType != SectionClosing {
		t.Error("unexpected section types")
	}
	if events[2].SectionType != SectionComments {
		t.Errorf("expected initial comments in %s, got %s", SectionComments, events[2].SectionType)
	}
}

func TestBuildTimeline_CounselingRule(t *testing.T) {
	records := []model.Participation{
		rec("p1", model.President, "Presidente", "Ana"),
		rec("t1", model.Treasures, "Joias Espirituais", "Carlos"),
		rec("t2", model.Treasures, "Leitura da Bíblia", "Davi"),
		rec("m1", model.Ministry, "Discurso", "Eli"),
		rec("m2", model.Ministry, "Cultivando o interesse", "Fabi"),
	}
	events := BuildTimeline(week, records, nil, nil)

	counselAfter := map[string]bool{}
	for i, e := range events {
		if e.IsCounseling {
			counselAfter[events[i-1].ID] = true
		}
	}
	for id, want := range map[string]bool{"t1": false, "t2": true, "m1": true, "m2": true} {
		if counselAfter[id] != want {
			t.Errorf("%s: expected counseling=%v, got %v", id, want, counselAfter[id])
		}
	}
}

func TestBuildTimeline_CounselingWithoutPresident(t *testing.T) {
	records := []model.Participation{
		rec("m1", model.Ministry, "Discurso", "Eli"),
	}
	events := BuildTimeline(week, records, nil, nil)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	c := events[1]
	if !c.IsCounseling || c.PublisherName != "" || c.RawPart != nil {
		t.Errorf("expected anonymous counseling slot, got %+v", c)
	}
}

func TestBuildTimeline_Deterministic(t *testing.T) {
	a := BuildTimeline(week, standardWeek(), nil, nil)
	b := BuildTimeline(week, standardWeek(), nil, nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical timelines")
	}
}

func TestBuildTimeline_HardOverrides(t *testing.T) {
	song := rec("s1", model.Song, "Cântico 1", "")
	song.Duration = model.IntPtr(20)
	prayer := rec("op", model.OpeningPrayer, "Oração Inicial", "Bruno")
	prayer.Duration = model.IntPtr(9)
	comments := rec("fc", model.FinalComments, "Comentários Finais", "Ana")
	comments.Duration = model.IntPtr(12)

	events := BuildTimeline(week, []model.Participation{song, prayer, comments}, nil, nil)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[1].StartTime != "19:33" || events[2].StartTime != "19:34" || events[2].Minutes != 3 {
		t.Errorf("expected hard overrides, got %+v", events)
	}
}

func TestBuildTimeline_SpecialEvent(t *testing.T) {
	templates := []model.EventTemplate{{
		ID: "tpl", Name: "Visita do Superintendente de Circuito",
		Impact: model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.BibleStudyConductor}},
	}}
	events := []model.SpecialEvent{{
		ID: "ev", Week: week, TemplateID: "tpl", Theme: "Discurso de serviço",
		AssignedTo: "Paulo", Duration: model.IntPtr(30),
	}}

	timeline := BuildTimeline(week, standardWeek(), events, templates)
	var found bool
	for _, e := range timeline {
		if e.ID == "c1" {
			t.Error("expected conductor to be replaced")
		}
		if e.ID == "ev" {
			found = true
			if e.PublisherName != "Paulo" || e.Minutes != 30 || e.SectionType != SectionLife {
				t.Errorf("unexpected special event %+v", e)
			}
		}
		if e.ID == "fc" && e.PublisherName != "Paulo" {
			t.Errorf("expected overseer to take final comments, got %q", e.PublisherName)
		}
	}
	if !found {
		t.Error("expected special event in timeline")
	}

	other := BuildTimeline("11-17 de NOV, 2024", standardWeek(), events, templates)
	for _, e := range other {
		if e.ID == "ev" {
			t.Error("event must only apply to its own week")
		}
	}
}

func ministryWeek() []model.Participation {
	return []model.Participation{
		rec("p1", model.President, "Presidente", "Ana"),
		rec("m1", model.Ministry, "Iniciando conversas", "Fabi"),
		rec("h1", model.Helper, "Ajudante", "Gabi"),
		rec("m2", model.Ministry, "Cultivando o interesse", "Hugo"),
		rec("h2", model.Helper, "Ajudante", "Iris"),
	}
}

func TestBuildTimeline_SpecialEventKeepsHelpersWithTheirParts(t *testing.T) {
	events := []model.SpecialEvent{{ID: "ev", Week: week, TemplateID: "tpl", Theme: "Tema", AssignedTo: "Paulo"}}

	tests := []struct {
		name      string
		impact    model.Impact
		wantParts map[string]string
		gone      []string
	}{
		{
			name:      "replace part",
			impact:    model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.Ministry}},
			wantParts: map[string]string{"m2": "Hugo / Iris", "ev": "Paulo"},
			gone:      []string{"m1", "counsel-m1"},
		},
		{
			name:      "replace section",
			impact:    model.Impact{Action: model.ReplaceSection, TargetTypes: []model.ParticipationType{model.Ministry}},
			wantParts: map[string]string{"ev": "Paulo"},
			gone:      []string{"m1", "m2", "counsel-m1", "counsel-m2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := []model.EventTemplate{{ID: "tpl", Name: "Evento", Impact: tt.impact}}
			timeline := BuildTimeline(week, ministryWeek(), events, templates)

			byID := map[string]TimedEvent{}
			for _, e := range timeline {
				byID[e.ID] = e
				if e.PublisherName == "Gabi" || (tt.name == "replace section" && e.PublisherName == "Iris") {
					t.Errorf("helper of a removed part must not render, got %+v", e)
				}
			}
			for id, label := range tt.wantParts {
				e, ok := byID[id]
				if !ok {
					t.Errorf("expected %s in timeline", id)
					continue
				}
				if e.PublisherName != label {
					t.Errorf("%s: expected %q, got %q", id, label, e.PublisherName)
				}
			}
			for _, id := range tt.gone {
				if _, ok := byID[id]; ok {
					t.Errorf("expected %s to be removed", id)
				}
			}
			if ev := byID["ev"]; ev.SectionType != SectionLife || ev.RawPart == nil || ev.RawPart.Pair != nil {
				t.Errorf("expected unpaired special part in life section, got %+v", ev)
			}
		})
	}
}

func types(records []model.Participation) []model.ParticipationType {
	var out []model.ParticipationType
	for _, r := range records {
		out = append(out, r.Type)
	}
	return out
}

func TestApplyImpact(t *testing.T) {
	base := []model.Participation{
		rec("t1", model.Treasures, "Tesouros", "A"),
		rec("m1", model.Ministry, "Iniciando conversas", "B"),
		rec("l1", model.ChristianLife, "Necessidades locais", "C"),
		rec("c1", model.BibleStudyConductor, "Estudo", "D"),
	}
	event := &model.SpecialEvent{ID: "ev", Week: week, Theme: "Tema", AssignedTo: "E"}

	tests := []struct {
		name    string
		records []model.Participation
		impact  model.Impact
		want    []model.ParticipationType
		evAt    int
	}{
		{
			name:    "replace part",
			records: base,
			impact:  model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.BibleStudyConductor}},
			want:    []model.ParticipationType{model.Treasures, model.Ministry, model.ChristianLife, model.ChristianLife},
			evAt:    3,
		},
		{
			name:    "replace part without match inserts after last life part",
			records: base[:3],
			impact:  model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.BibleStudyConductor}},
			want:    []model.ParticipationType{model.Treasures, model.Ministry, model.ChristianLife, model.ChristianLife},
			evAt:    3,
		},
		{
			name:    "replace part without any life part goes first",
			records: base[:2],
			impact:  model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.BibleStudyConductor}},
			want:    []model.ParticipationType{model.ChristianLife, model.Treasures, model.Ministry},
			evAt:    0,
		},
		{
			name:    "replace ministry part leaves helpers in place",
			records: ministryWeek(),
			impact:  model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.Ministry}},
			want:    []model.ParticipationType{model.President, model.ChristianLife, model.Helper, model.Ministry, model.Helper},
			evAt:    1,
		},
		{
			name:    "replace ministry section",
			records: ministryWeek(),
			impact:  model.Impact{Action: model.ReplaceSection, TargetTypes: []model.ParticipationType{model.Ministry}},
			want:    []model.ParticipationType{model.President, model.Helper, model.Helper, model.ChristianLife},
			evAt:    3,
		},
		{
			name:    "replace section",
			records: base,
			impact:  model.Impact{Action: model.ReplaceSection, TargetTypes: []model.ParticipationType{model.ChristianLife, model.BibleStudyConductor}},
			want:    []model.ParticipationType{model.Treasures, model.Ministry, model.ChristianLife},
			evAt:    2,
		},
		{
			name:    "add part before conductor",
			records: base,
			impact:  model.Impact{Action: model.AddPart},
			want:    []model.ParticipationType{model.Treasures, model.Ministry, model.ChristianLife, model.ChristianLife, model.BibleStudyConductor},
			evAt:    3,
		},
		{
			name:    "add part without conductor appends",
			records: base[:2],
			impact:  model.Impact{Action: model.AddPart},
			want:    []model.ParticipationType{model.Treasures, model.Ministry, model.ChristianLife},
			evAt:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := &model.EventTemplate{ID: "tpl", Name: "Evento", Impact: tt.impact}
			got := ApplyImpact(tt.records, event, tpl)
			if !reflect.DeepEqual(types(got), tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, types(got))
			}
			if got[tt.evAt].ID != "ev" || got[tt.evAt].PartTitle != "Tema" {
				t.Errorf("expected special record at %d, got %+v", tt.evAt, got[tt.evAt])
			}
		})
	}

	if base[3].ID != "c1" {
		t.Error("input records must not be modified")
	}
}

func TestApplyImpact_TimeReduction(t *testing.T) {
	records := []model.Participation{
		rec("l1", model.ChristianLife, "Necessidades locais", "C"),
		rec("l2", model.ChristianLife, "Realizações", "D"),
	}
	event := &model.SpecialEvent{
		ID: "ev", Week: week, Theme: "Tema",
		TimeReduction: &model.TimeReduction{TargetType: model.ChristianLife, Minutes: 5},
	}
	tpl := &model.EventTemplate{Impact: model.Impact{Action: model.AddPart}}

	got := ApplyImpact(records, event, tpl)
	if got[0].Duration == nil || *got[0].Duration != 10 {
		t.Errorf("expected default 15 reduced to 10, got %v", got[0].Duration)
	}
	if got[1].Duration != nil {
		t.Error("only the first matching record is reduced")
	}
	if records[0].Duration != nil {
		t.Error("input records must not be modified")
	}

	records[0].Duration = model.IntPtr(3)
	got = ApplyImpact(records, event, tpl)
	if *got[0].Duration != 0 {
		t.Errorf("expected reduction floored at 0, got %d", *got[0].Duration)
	}
}

func TestApplyImpact_NilEvent(t *testing.T) {
	records := standardWeek()
	got := ApplyImpact(records, nil, nil)
	if !reflect.DeepEqual(got, records) {
		t.Error("expected records unchanged")
	}
}

func TestPair(t *testing.T) {
	records := []model.Participation{
		rec("p1", model.President, "Presidente", "Ana"),
		rec("h0", model.Helper, "Ajudante", "Solto"),
		rec("m1", model.Ministry, "Discurso", "Hugo"),
		rec("m2", model.Ministry, "Iniciando conversas", "Fabi"),
		rec("h1", model.Helper, "Ajudante", "Gabi"),
		rec("r1", model.BibleStudyReader, "Leitor do EBC", "Kaio"),
		rec("c1", model.BibleStudyConductor, "Estudo bíblico de congregação", "João"),
	}
	parts := Pair(records)
	if len(parts) != 3 {
		t.Fatalf("expected 3 renderable parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].ID != "m1" || parts[0].Pair != nil {
		t.Errorf("talks take no helper, got %+v", parts[0])
	}
	if parts[1].Pair == nil || parts[1].Pair.ID != "h0" {
		t.Errorf("expected first unconsumed helper, got %+v", parts[1].Pair)
	}
	if parts[2].PublisherLabel() != "João / Kaio" {
		t.Errorf("expected conductor paired with reader, got %q", parts[2].PublisherLabel())
	}
}

func TestClassify(t *testing.T) {
	groups := Classify(standardWeek())

	var order []Section
	bySection := map[Section][]string{}
	for _, g := range groups {
		order = append(order, g.Section)
		for _, p := range g.Parts {
			bySection[g.Section] = append(bySection[g.Section], p.ID)
		}
	}
	if !reflect.DeepEqual(order, Sections) {
		t.Errorf("expected %v, got %v", Sections, order)
	}
	if !reflect.DeepEqual(bySection[SectionOpening], []string{"p1", "s1", "op"}) {
		t.Errorf("unexpected opening %v", bySection[SectionOpening])
	}
	if !reflect.DeepEqual(bySection[SectionTransition], []string{"s2"}) {
		t.Errorf("unexpected transition %v", bySection[SectionTransition])
	}
	if !reflect.DeepEqual(bySection[SectionClosing], []string{"fc", "s3", "cp"}) {
		t.Errorf("unexpected closing %v", bySection[SectionClosing])
	}
}

func TestSectionOf_Songs(t *testing.T) {
	song := rec("s", model.Song, "Cântico", "")
	for i, want := range []Section{SectionOpening, SectionTransition, SectionClosing, SectionClosing} {
		got, ok := SectionOf(song, i)
		if !ok || got != want {
			t.Errorf("song %d: expected %s, got %s", i, want, got)
		}
	}
	if _, ok := SectionOf(rec("h", model.Helper, "Ajudante", ""), 0); ok {
		t.Error("helpers have no section")
	}
}

func TestEventForWeek(t *testing.T) {
	templates := []model.EventTemplate{{ID: "tpl"}}
	events := []model.SpecialEvent{
		{ID: "orphan", Week: week, TemplateID: "missing"},
		{ID: "ev", Week: week, TemplateID: "tpl"},
	}
	ev, tpl, ok := EventForWeek(events, templates, week)
	if !ok || ev.ID != "ev" || tpl.ID != "tpl" {
		t.Errorf("expected ev/tpl, got %+v %+v", ev, tpl)
	}
	if _, _, ok := EventForWeek(events, templates, "outra"); ok {
		t.Error("expected no event for other week")
	}
}
