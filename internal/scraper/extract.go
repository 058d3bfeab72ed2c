package scraper

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/logger"
)

// Options controls which listings are accepted and how their times resolve.
type Options struct {
	Year        int
	DefaultTime concert.Clock
	Location    *time.Location
}

// Strategy is one way of reading concerts out of a parsed page.
type Strategy struct {
	Name  string
	Parse func(doc *goquery.Document, opts Options) []concert.Candidate
}

var (
	// StructuredStrategy reads heading/anchor blocks.
	StructuredStrategy = Strategy{Name: "structured", Parse: parseStructured}
	// FallbackStrategy reads dates out of the page's plain text.
	FallbackStrategy = Strategy{Name: "text", Parse: parseFallback}
)

// FirstNonEmpty runs strategies in order and returns the first non-empty
// result along with the name of the strategy that produced it.
func FirstNonEmpty(doc *goquery.Document, opts Options, strategies ...Strategy) ([]concert.Candidate, string) {
	for _, s := range strategies {
		found := s.Parse(doc, opts)
		logger.Debug("Ran extraction strategy", logger.Fields{
			"strategy": s.Name,
			"found":    len(found),
		})
		if len(found) > 0 {
			return found, s.Name
		}
	}
	return nil, ""
}

// Extractor turns listing HTML into candidates.
type Extractor struct {
	opts       Options
	strategies []Strategy
}

// NewExtractor returns an extractor that tries the structured strategy and
// falls back to the plain-text one.
func NewExtractor(opts Options) *Extractor {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Extractor{
		opts:       opts,
		strategies: []Strategy{StructuredStrategy, FallbackStrategy},
	}
}

// Extract parses r and returns the target-year candidates, deduplicated by
// normalized artist and sorted by date. It is free of side effects and
// returns the same result for the same input.
func (e *Extractor) Extract(r io.Reader) ([]concert.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	found, strategy := FirstNonEmpty(doc, e.opts, e.strategies...)
	unique := concert.Dedupe(found)
	concert.SortCandidates(unique)

	logger.Debug("Extracted concerts", logger.Fields{
		"strategy":   strategy,
		"found":      len(found),
		"unique":     len(unique),
		"targetYear": e.opts.Year,
	})

	return unique, nil
}

// resolveMatch builds a candidate from a DatePattern submatch, or reports
// false when the year is not wanted or the date does not resolve.
func resolveMatch(artist string, match []string, clock concert.Clock, opts Options) (concert.Candidate, bool) {
	if year, err := strconv.Atoi(match[3]); err != nil || year != opts.Year {
		return concert.Candidate{}, false
	}

	date, ok := concert.ResolveDate(match[1], match[2], match[3], clock, opts.Location)
	if !ok {
		return concert.Candidate{}, false
	}

	return concert.Candidate{Artist: artist, Date: date}, true
}
