package historic

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rcliao/meeting-planner/internal/layout"
	appLog "github.com/rcliao/meeting-planner/internal/log"
	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

const (
	// fallbackAnchorX is where names start when the duration token cannot be located.
	fallbackAnchorX = 300.0
	// nextLineAnchorX is where names start on the line below a numbered part.
	nextLineAnchorX = 250.0
	// anchorPadding separates the duration token from the first name.
	anchorPadding = 5.0
)

var (
	presidentSplitRe  = regexp.MustCompile(`(?i)presidente:`)
	prayerSplitRe     = regexp.MustCompile(`(?i)ora[çc][ãa]o:`)
	finalCommentsRe   = regexp.MustCompile(`(?i)coment[áa]rios?\s*finais:?`)
	parentheticalRe   = regexp.MustCompile(`\(.*?\)`)
	numberedPartRe    = regexp.MustCompile(`(?i)^.*?(\d+)\.\s*(.*?)\((\d+)\s*min.*?\)`)
	conductorInlineRe = regexp.MustCompile(`(?i)dirigente:\s*(.+?)\s*(?:leitor:|$)`)
	readerInlineRe    = regexp.MustCompile(`(?i)leitor:\s*(.+)`)
)

// pendingPart is a numbered part still waiting for a student or helper name.
type pendingPart struct {
	title      string
	partNumber int
}

// partQueue is a FIFO of parts awaiting names.
type partQueue []pendingPart

func (q *partQueue) push(p pendingPart) { *q = append(*q, p) }

func (q *partQueue) pop() (pendingPart, bool) {
	if len(*q) == 0 {
		return pendingPart{}, false
	}
	p := (*q)[0]
	*q = (*q)[1:]
	return p, true
}

func (q partQueue) empty() bool { return len(q) == 0 }

// line is the view of one block line handed to each rule.
type line struct {
	index  int
	text   string
	upper  string
	source layout.Line
}

// rule is one entry of the dispatch table: the first rule whose match
// returns true handles the line.
type rule struct {
	name  string
	match func(s *blockScan, l line) bool
	apply func(s *blockScan, l line)
}

// rules is evaluated top to bottom for every line; first match wins.
var rules = []rule{
	{"president", matchPresident, applyPresident},
	{"prayer", matchPrayer, applyPrayer},
	{"song", matchSong, applySong},
	{"final-comments", matchComments, applyComments},
	{"numbered-part", matchNumberedPart, applyNumberedPart},
	{"bible-study-inline", matchStudyInline, applyStudyInline},
	{"conductor-heading", matchConductorHeading, applyConductorHeading},
	{"reader-heading", matchReaderHeading, applyReaderHeading},
	{"student-header", matchStudentHeader, applyStudentHeader},
	{"helper-header", matchHelperHeader, applyHelperHeader},
	{"location-header", matchLocationHeader, applyLocationHeader},
	{"standalone-name", matchStandaloneName, applyStandaloneName},
}

// blockScan is the state threaded through a single forward scan of a week block.
type blockScan struct {
	block          layout.Block
	cursor         int
	participations []model.ParsedParticipation
	pendingStudent partQueue
	pendingHelper  partQueue
	presidentName  string
	runningOrder   int
}

func (s *blockScan) push(title, publisher string, partNumber int) {
	p := model.ParsedParticipation{
		PartTitle:     title,
		PublisherName: publisher,
		Order:         float64(s.runningOrder),
	}
	if partNumber > 0 {
		p.PartNumber = model.IntPtr(partNumber)
	}
	s.runningOrder++
	s.participations = append(s.participations, p)
}

// drain assigns names one-for-one to the oldest pending parts of q.
// Helper names get the generic helper title.
func (s *blockScan) drain(names []string, q *partQueue, helper bool) {
	for _, raw := range names {
		name := normalizeCandidate(raw)
		if name == "" {
			continue
		}
		target, ok := q.pop()
		if !ok {
			return
		}
		title := target.title
		if helper {
			title = model.TitleHelper
		}
		s.push(title, name, target.partNumber)
	}
}

// ParseBlock scans one week block and returns its participations ordered by
// discovery. ok is false when the block yields nothing.
func ParseBlock(block layout.Block, yearContext int) (model.HistoricalWeek, bool) {
	if len(block) == 0 {
		return model.HistoricalWeek{}, false
	}
	s := &blockScan{block: block}
	for s.cursor = 0; s.cursor < len(block); s.cursor++ {
		text := block[s.cursor].Spaced()
		l := line{index: s.cursor, text: text, upper: strings.ToUpper(text), source: block[s.cursor]}
		for _, r := range rules {
			if r.match(s, l) {
				appLog.Debug("block line", "rule", r.name, "line", l.text)
				r.apply(s, l)
				break
			}
		}
	}

	// Parts that never received a student keep their slot with no assignee.
	for !s.pendingStudent.empty() {
		p, _ := s.pendingStudent.pop()
		s.push(p.title, "", p.partNumber)
	}

	if len(s.participations) == 0 {
		return model.HistoricalWeek{}, false
	}
	sortByOrder(s.participations)
	return model.HistoricalWeek{
		Week:           weekdate.StandardizeWeekDate(block.Heading(), yearContext),
		Participations: s.participations,
	}, true
}

func matchPresident(_ *blockScan, l line) bool { return strings.Contains(l.upper, "PRESIDENTE:") }

func applyPresident(s *blockScan, l line) {
	parts := presidentSplitRe.Split(l.text, 2)
	if len(parts) < 2 {
		return
	}
	name := strings.TrimSpace(parts[1])
	if name == "" {
		return
	}
	s.presidentName = name
	s.push(model.TitlePresident, name, 0)
}

func matchPrayer(_ *blockScan, l line) bool {
	return strings.Contains(l.upper, "ORAÇÃO:") || strings.Contains(l.upper, "ORACAO:")
}

// applyPrayer classifies a prayer by its position: first half of the block is
// the opening prayer, second half the closing one.
func applyPrayer(s *blockScan, l line) {
	title := model.TitleClosingPrayer
	if float64(l.index) < float64(len(s.block))/2 {
		title = model.TitleOpeningPrayer
	}
	parts := prayerSplitRe.Split(l.text, 2)
	if len(parts) < 2 {
		return
	}
	// A song sharing the prayer's row keeps its own slot.
	if lead := (line{upper: strings.ToUpper(parts[0])}); matchSong(s, lead) {
		s.push(normalizeCandidate(parts[0]), "", 0)
	}
	if name := strings.TrimSpace(parts[1]); name != "" {
		s.push(title, name, 0)
	}
}

func matchSong(_ *blockScan, l line) bool {
	return strings.Contains(l.upper, "CÂNTICO") || strings.Contains(l.upper, "CANTICO")
}

func applySong(s *blockScan, l line) {
	s.push(normalizeCandidate(l.text), "", 0)
}

func matchComments(_ *blockScan, l line) bool { return strings.HasPrefix(l.upper, "COMENT") }

func applyComments(s *blockScan, l line) {
	if strings.Contains(l.upper, "INICIAIS") {
		return
	}
	var owner string
	if parts := finalCommentsRe.Split(l.text, 2); len(parts) == 2 {
		owner = strings.TrimSpace(parentheticalRe.ReplaceAllString(parts[1], ""))
	}
	if owner == "" {
		owner = s.presidentName
	}
	if owner != "" {
		s.push(model.TitleFinalComments, owner, 0)
	}
}

func matchNumberedPart(_ *blockScan, l line) bool { return numberedPartRe.MatchString(l.text) }

func applyNumberedPart(s *blockScan, l line) {
	m := numberedPartRe.FindStringSubmatch(l.source.Text())
	if m == nil {
		m = numberedPartRe.FindStringSubmatch(l.text)
	}
	number, _ := strconv.Atoi(m[1])
	title := normalizeCandidate(m[2])
	needsHelper := partNeedsHelper(title, model.TypeForPartNumber(number) == model.Ministry)

	names := layout.SplitNamesByGap(l.source.Fragments, durationAnchor(l.source)+anchorPadding)
	if len(names) == 0 && l.index+1 < len(s.block) {
		next := s.block[l.index+1]
		if !isStructural(next.Spaced()) {
			names = layout.SplitNamesByGap(next.Fragments, nextLineAnchorX)
			if len(names) > 0 {
				s.cursor = l.index + 1
			}
		}
	}

	if len(names) == 0 {
		s.pendingStudent.push(pendingPart{title: title, partNumber: number})
		if needsHelper {
			s.pendingHelper.push(pendingPart{title: title, partNumber: number})
		}
		return
	}

	s.push(title, names[0], number)
	if isCongregationStudy(title) && len(names) > 1 {
		s.push(model.TitleReader, names[1], 0)
		return
	}
	if !needsHelper {
		return
	}
	if len(names) > 1 {
		s.push(model.TitleHelper, names[1], 0)
		return
	}
	s.pendingHelper.push(pendingPart{title: title, partNumber: number})
}

// isStructural reports whether a line belongs to its own rule and must not
// be read as the names of the part above it.
func isStructural(text string) bool {
	if isSectionBoundary(text) {
		return true
	}
	l := line{text: text, upper: strings.ToUpper(text)}
	return matchPresident(nil, l) || matchPrayer(nil, l) || matchSong(nil, l) || matchComments(nil, l)
}

// durationAnchor returns the X just past the "(N min)" token on the line.
func durationAnchor(l layout.Line) float64 {
	for _, f := range l.Fragments {
		if strings.Contains(f.Text, ")") {
			return f.End()
		}
	}
	return fallbackAnchorX
}

func matchStudyInline(_ *blockScan, l line) bool {
	return strings.Contains(l.upper, "DIRIGENTE:") || strings.Contains(l.upper, "LEITOR:")
}

func applyStudyInline(s *blockScan, l line) {
	if m := conductorInlineRe.FindStringSubmatch(l.text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			s.push(model.TitleBibleStudy, name, 0)
		}
	}
	if m := readerInlineRe.FindStringSubmatch(l.text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			s.push(model.TitleReader, name, 0)
		}
	}
}

func matchConductorHeading(_ *blockScan, l line) bool { return strings.HasPrefix(l.upper, "DIRIGENTE") }

func applyConductorHeading(s *blockScan, l line) {
	s.studyRole(l, model.TitleBibleStudy, conductorStop)
}

func matchReaderHeading(_ *blockScan, l line) bool { return strings.HasPrefix(l.upper, "LEITOR") }

func applyReaderHeading(s *blockScan, l line) {
	s.studyRole(l, model.TitleReader, readerStops)
}

// studyRole resolves a conductor or reader heading: first from the next name
// line, otherwise from a name printed in a column to the right of the label.
// The column fallback is skipped while student parts are still pending so it
// cannot steal a student's name.
func (s *blockScan) studyRole(l line, title string, stops []string) {
	if name, idx := findNextName(s.block, l.index, stops); idx >= 0 {
		s.push(title, name, 0)
		s.cursor = idx
		return
	}
	if !s.pendingStudent.empty() || len(l.source.Fragments) == 0 {
		return
	}
	label := l.source.Fragments[0]
	names := layout.SplitNamesByGap(l.source.Fragments[1:], label.End())
	for _, n := range names {
		if !isSectionBoundary(n) {
			s.push(title, n, 0)
			return
		}
	}
}

func matchStudentHeader(_ *blockScan, l line) bool { return isStudentHeader(strings.TrimSpace(l.text)) }

func applyStudentHeader(s *blockScan, l line) {
	names := inlineColumnName(l.text)
	collected, next := collectNamesAfter(s.block, l.index, studentStops)
	s.drain(append(names, collected...), &s.pendingStudent, false)
	s.cursor = next
}

func matchHelperHeader(_ *blockScan, l line) bool { return isHelperHeader(strings.TrimSpace(l.text)) }

func applyHelperHeader(s *blockScan, l line) {
	names := inlineColumnName(l.text)
	collected, next := collectNamesAfter(s.block, l.index, helperStops)
	s.drain(append(names, collected...), &s.pendingHelper, true)
	s.cursor = next
}

// inlineColumnName returns the name printed after a column header on the same line.
func inlineColumnName(text string) []string {
	trimmed := strings.TrimSpace(text)
	inline := stripColumnLabel(trimmed)
	if inline == "" || strings.EqualFold(inline, trimmed) {
		return nil
	}
	return []string{inline}
}

func matchLocationHeader(s *blockScan, l line) bool {
	return isLocationHeader(strings.TrimSpace(l.text)) && !s.pendingStudent.empty()
}

func applyLocationHeader(s *blockScan, l line) {
	collected, next := collectNamesAfter(s.block, l.index, locationStops)
	s.drain(collected, &s.pendingStudent, false)
	s.cursor = next
}

func matchStandaloneName(s *blockScan, l line) bool {
	return !s.pendingStudent.empty() && isStandaloneName(l.text)
}

func applyStandaloneName(s *blockScan, l line) {
	s.drain([]string{l.text}, &s.pendingStudent, false)
}

func isCongregationStudy(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "estudo bíblico de congregação") || strings.Contains(lower, "estudo biblico de congregacao")
}

func sortByOrder(ps []model.ParsedParticipation) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Order < ps[j].Order
	})
}
