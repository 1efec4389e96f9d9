// Package layout rebuilds visual lines and week blocks from positioned text fragments.
package layout

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// LineTolerance is the maximum baseline distance (exclusive) for two
	// fragments to share a line. It reflects the font leading of the source documents.
	LineTolerance = 5.0

	// ColumnGap is the horizontal gap above which two fragments on one line
	// belong to different columns.
	ColumnGap = 40.0

	// MinBlockLines is the smallest week block worth parsing.
	MinBlockLines = 3
)

// Fragment is one atomic piece of text with its baseline position on the page.
type Fragment struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// End returns the X coordinate just past the fragment.
func (f Fragment) End() float64 {
	return f.X + f.Width
}

// Line is a left-to-right run of fragments sharing a baseline.
type Line struct {
	Y         float64
	Fragments []Fragment
}

// Text joins the fragments with no separator, reconstructing exact titles.
func (l Line) Text() string {
	var b strings.Builder
	for _, f := range l.Fragments {
		b.WriteString(f.Text)
	}
	return strings.TrimSpace(b.String())
}

// Spaced joins the fragments with single spaces, exposing keyword boundaries.
func (l Line) Spaced() string {
	parts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		parts[i] = f.Text
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Block is a run of lines describing one meeting week. The first line is the heading.
type Block []Line

// Heading returns the week heading text of the block.
func (b Block) Heading() string {
	if len(b) == 0 {
		return ""
	}
	return b[0].Spaced()
}

// GroupLines sorts fragments top to bottom (descending Y) and groups those
// whose baseline is within LineTolerance of the line's first fragment.
// Fragments inside a line are ordered by ascending X.
func GroupLines(fragments []Fragment) []Line {
	if len(fragments) == 0 {
		return nil
	}
	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines []Line
	current := Line{Y: sorted[0].Y, Fragments: []Fragment{sorted[0]}}
	for _, f := range sorted[1:] {
		if abs(f.Y-current.Y) < LineTolerance {
			current.Fragments = append(current.Fragments, f)
			continue
		}
		lines = append(lines, closeLine(current))
		current = Line{Y: f.Y, Fragments: []Fragment{f}}
	}
	lines = append(lines, closeLine(current))
	return lines
}

func closeLine(l Line) Line {
	sort.SliceStable(l.Fragments, func(i, j int) bool {
		return l.Fragments[i].X < l.Fragments[j].X
	})
	return l
}

var (
	roleLabelRe = regexp.MustCompile(`(?i)^(Estudante|Ajudante|Leitor|Dirigente):?\s*`)
	numericRe   = regexp.MustCompile(`^\d+$`)
)

// SplitNamesByGap reads the names printed at or right of startX. Consecutive
// fragments form one name until the gap between them exceeds ColumnGap.
// Leading role labels are stripped; candidates of two characters or fewer and
// purely numeric candidates are discarded.
func SplitNamesByGap(fragments []Fragment, startX float64) []string {
	var candidates []Fragment
	for _, f := range fragments {
		if f.X >= startX && strings.TrimSpace(f.Text) != "" {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var raw []string
	current := []string{strings.TrimSpace(candidates[0].Text)}
	lastEnd := candidates[0].End()
	for _, f := range candidates[1:] {
		if f.X-lastEnd > ColumnGap {
			raw = append(raw, strings.Join(current, " "))
			current = nil
		}
		current = append(current, strings.TrimSpace(f.Text))
		lastEnd = f.End()
	}
	raw = append(raw, strings.Join(current, " "))

	var names []string
	for _, n := range raw {
		n = strings.TrimSpace(roleLabelRe.ReplaceAllString(strings.TrimSpace(n), ""))
		if utf8.RuneCountInString(n) <= 2 || numericRe.MatchString(n) {
			continue
		}
		names = append(names, n)
	}
	return names
}

var dayRangeHeadingRe = regexp.MustCompile(`(?i)^\d{1,2}.*\d{1,2}\s+DE\s+\p{L}+`)

// IsWeekHeading reports whether a line's spaced text starts a new week.
func IsWeekHeading(spaced string) bool {
	return strings.Contains(strings.ToUpper(spaced), "SEMANA") || dayRangeHeadingRe.MatchString(spaced)
}

// SplitWeekBlocks cuts a page's lines into week blocks. Lines before the first
// heading are page preamble and never form a block; blocks shorter than
// MinBlockLines are discarded as noise.
func SplitWeekBlocks(lines []Line) []Block {
	var blocks []Block
	var current Block
	flush := func() {
		if len(current) >= MinBlockLines {
			blocks = append(blocks, current)
		}
		current = nil
	}

	for _, line := range lines {
		if IsWeekHeading(line.Spaced()) {
			flush()
			current = Block{line}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	flush()
	return blocks
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
