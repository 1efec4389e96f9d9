// Package historic turns positioned text from past meeting schedules into
// per-week participation lists.
package historic

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/meeting-planner/internal/layout"
	appLog "github.com/rcliao/meeting-planner/internal/log"
	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

// ErrNoExtractor is returned when no text-extraction backend is configured.
var ErrNoExtractor = errors.New("historic: no text extractor configured")

// Extractor yields the positioned fragments of every page of a document.
type Extractor interface {
	Pages(ctx context.Context, path string) ([][]layout.Fragment, error)
}

// Parser reads schedule documents through an Extractor.
type Parser struct {
	extractor Extractor
	now       func() time.Time
}

func NewParser(extractor Extractor) *Parser {
	return &Parser{extractor: extractor, now: time.Now}
}

// ParseDocument extracts and parses every page of the document at path.
// A document with no recognizable weeks returns an empty slice, not an error.
func (p *Parser) ParseDocument(ctx context.Context, path string) ([]model.HistoricalWeek, error) {
	if p == nil || p.extractor == nil {
		return nil, ErrNoExtractor
	}
	pages, err := p.extractor.Pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}

	var firstPage []layout.Fragment
	if len(pages) > 0 {
		firstPage = pages[0]
	}
	year := YearContext(filepath.Base(path), firstPage, p.now())

	weeks, err := ParsePages(ctx, pages, year)
	if err != nil {
		return nil, err
	}
	appLog.Info("document parsed", "file", filepath.Base(path), "pages", len(pages), "weeks", len(weeks), "year", year)
	return weeks, nil
}

// YearContext picks the year used to complete week labels: a 20xx year in
// the file name, else one found in the first page's text, else now's year.
func YearContext(filename string, firstPage []layout.Fragment, now time.Time) int {
	if y, ok := weekdate.DetectYear(filename); ok {
		return y
	}
	var b strings.Builder
	for _, f := range firstPage {
		b.WriteString(f.Text)
		b.WriteByte(' ')
	}
	if y, ok := weekdate.DetectYear(b.String()); ok {
		return y
	}
	return now.Year()
}

// ParsePages parses pages concurrently. Pages share no state, so each is
// parsed on its own goroutine; the result keeps page order.
func ParsePages(ctx context.Context, pages [][]layout.Fragment, year int) ([]model.HistoricalWeek, error) {
	results := make([][]model.HistoricalWeek, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ParsePage(page, year)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var weeks []model.HistoricalWeek
	for _, r := range results {
		weeks = append(weeks, r...)
	}
	return weeks, nil
}

// ParsePage groups one page's fragments into lines and week blocks and
// parses each block. Blocks that yield nothing are dropped.
func ParsePage(fragments []layout.Fragment, year int) []model.HistoricalWeek {
	lines := layout.GroupLines(fragments)
	blocks := layout.SplitWeekBlocks(lines)

	var weeks []model.HistoricalWeek
	for _, block := range blocks {
		week, ok := ParseBlock(block, year)
		if !ok {
			appLog.Debug("week block dropped", "heading", block.Heading(), "lines", len(block))
			continue
		}
		weeks = append(weeks, week)
	}
	return weeks
}
