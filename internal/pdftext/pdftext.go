// Package pdftext extracts positioned text fragments from PDF pages.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rcliao/meeting-planner/internal/layout"
	appLog "github.com/rcliao/meeting-planner/internal/log"
)

// ErrUnreadable is returned when a document cannot be opened or decoded.
var ErrUnreadable = errors.New("pdftext: unreadable document")

const (
	// baselineSlack is the largest Y drift still treated as the same baseline.
	baselineSlack = 1.0
	// phraseGapEm is the largest gap, in font sizes, inside one phrase run.
	phraseGapEm = 1.0
	// spaceGapEm is the gap, in font sizes, that implies a missing space glyph.
	spaceGapEm = 0.2
	// defaultFontSize is used when the content stream reports no size.
	defaultFontSize = 10.0
)

// Glyph is one positioned piece of text as drawn by the content stream.
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	FontSize float64
}

// PDFExtractor reads PDF files from disk.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Pages returns the merged fragments of every page in document order.
// Blank pages yield an empty slice at their position.
func (e *PDFExtractor) Pages(ctx context.Context, path string) (pages [][]layout.Fragment, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	// The decoder panics on some malformed streams.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	n := r.NumPage()
	pages = make([][]layout.Fragment, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		content := p.Content()
		glyphs := make([]Glyph, 0, len(content.Text))
		for _, t := range content.Text {
			glyphs = append(glyphs, Glyph{Text: t.S, X: t.X, Y: t.Y, Width: t.W, FontSize: t.FontSize})
		}
		frags := MergeGlyphs(glyphs)
		appLog.Debug("page extracted", "page", i, "glyphs", len(glyphs), "fragments", len(frags))
		pages = append(pages, frags)
	}
	return pages, nil
}

// MergeGlyphs joins consecutive glyphs on one baseline into phrase runs.
// A run breaks on a baseline change or a gap wider than phraseGapEm; a
// smaller gap with no space glyph becomes a single space.
func MergeGlyphs(glyphs []Glyph) []layout.Fragment {
	var (
		out []layout.Fragment
		cur *run
	)
	for _, g := range glyphs {
		if g.Text == "" {
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}
		if cur != nil {
			out = cur.appendTo(out)
		}
		cur = newRun(g)
	}
	if cur != nil {
		out = cur.appendTo(out)
	}
	return out
}

type run struct {
	text strings.Builder
	x    float64
	y    float64
	end  float64
	size float64
}

func newRun(g Glyph) *run {
	r := &run{x: g.X, y: g.Y, end: g.X + g.Width, size: fontSize(g)}
	r.text.WriteString(g.Text)
	return r
}

func (r *run) accepts(g Glyph) bool {
	if abs(g.Y-r.y) > baselineSlack {
		return false
	}
	gap := g.X - r.end
	return gap >= -r.size && gap <= r.size*phraseGapEm
}

func (r *run) add(g Glyph) {
	gap := g.X - r.end
	if gap > r.size*spaceGapEm && g.Text != " " && !strings.HasSuffix(r.text.String(), " ") {
		r.text.WriteByte(' ')
	}
	r.text.WriteString(g.Text)
	if e := g.X + g.Width; e > r.end {
		r.end = e
	}
}

func (r *run) appendTo(out []layout.Fragment) []layout.Fragment {
	text := strings.TrimSpace(r.text.String())
	if text == "" {
		return out
	}
	return append(out, layout.Fragment{Text: text, X: r.x, Y: r.y, Width: r.end - r.x})
}

func fontSize(g Glyph) float64 {
	if g.FontSize > 0 {
		return g.FontSize
	}
	return defaultFontSize
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
