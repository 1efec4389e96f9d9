package pdftext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// word lays out s one 5-unit glyph per rune starting at x.
func word(s string, x, y float64) []Glyph {
	var gs []Glyph
	for _, r := range s {
		gs = append(gs, Glyph{Text: string(r), X: x, Y: y, Width: 5, FontSize: 10})
		x += 5
	}
	return gs
}

func concat(parts ...[]Glyph) []Glyph {
	var out []Glyph
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestMergeGlyphs_PhraseRuns(t *testing.T) {
	glyphs := concat(
		word("4. Iniciando", 0, 700),
		word("(3 min)", 65, 700),
		word("Ana Lima", 300, 700),
		word("Rui", 300, 680),
	)
	frags := MergeGlyphs(glyphs)
	if len(frags) != 3 {
		t.Fatalf("expected 3 fragments, got %d: %+v", len(frags), frags)
	}
	if frags[0].Text != "4. Iniciando (3 min)" {
		t.Errorf("expected merged phrase, got %q", frags[0].Text)
	}
	if frags[0].X != 0 || frags[0].End() != 100 {
		t.Errorf("unexpected extent %v..%v", frags[0].X, frags[0].End())
	}
	if frags[1].Text != "Ana Lima" || frags[1].X != 300 {
		t.Errorf("expected separate column fragment, got %+v", frags[1])
	}
	if frags[2].Text != "Rui" || frags[2].Y != 680 {
		t.Errorf("expected new baseline fragment, got %+v", frags[2])
	}
}

func TestMergeGlyphs_MissingSpaceGlyph(t *testing.T) {
	frags := MergeGlyphs(concat(word("JOÃO", 0, 100), word("SILVA", 24, 100)))
	if len(frags) != 1 || frags[0].Text != "JOÃO SILVA" {
		t.Errorf("expected implied space, got %+v", frags)
	}
}

func TestMergeGlyphs_Empty(t *testing.T) {
	if got := MergeGlyphs(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := MergeGlyphs(word("   ", 0, 0)); got != nil {
		t.Errorf("expected blanks to be dropped, got %v", got)
	}
}

func TestPages_Unreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewPDFExtractor().Pages(context.Background(), path)
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}

	_, err = NewPDFExtractor().Pages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable for a missing file, got %v", err)
	}
}
