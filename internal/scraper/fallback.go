package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/logger"
)

// lookbehind is how far before a date the text pass searches for an artist.
const lookbehind = 300

var (
	// artistBeforeDate matches a capitalized phrase of up to seven words at the
	// end of the text, optionally followed by separator punctuation. Words may
	// be joined by &, and, with, feat, featuring, the or of. Phrases never span
	// lines, so block elements stay apart.
	artistBeforeDate = regexp.MustCompile(
		`(?:^|[^A-Za-z'.\-])([A-Z][A-Za-z\-'.]+(?:[ \t]+(?:&|and|with|feat\.?|featuring|the|of)?[ \t]*[A-Za-z\-'.]+){0,6})[\s,:|\x{2013}\x{2014}-]*$`)

	// weekdaySuffix strips the "Saturday," that listings put before a date.
	weekdaySuffix = regexp.MustCompile(`(?i)(?:mon|tues|wednes|thurs|fri|satur|sun)day[\s,]*$`)
)

// parseFallback reads the page as plain text and pairs every target-year date
// with the capitalized phrase directly in front of it. All such concerts get
// the default show time.
//
// This is a heuristic: several concerts in one paragraph, or a heading run
// into an artist on the same line, can yield the wrong name.
func parseFallback(doc *goquery.Document, opts Options) []concert.Candidate {
	candidates := make([]concert.Candidate, 0)
	if doc.Length() == 0 {
		return candidates
	}
	text := plainText(doc.Get(0))

	for _, idx := range concert.DatePattern.FindAllStringSubmatchIndex(text, -1) {
		match := []string{text[idx[0]:idx[1]], text[idx[2]:idx[3]], text[idx[4]:idx[5]], text[idx[6]:idx[7]]}

		artist := artistBefore(text, idx[0])
		if artist == "" {
			logger.Debug("No artist before date", logger.Fields{"date": match[0]})
			continue
		}

		if c, ok := resolveMatch(artist, match, opts.DefaultTime, opts); ok {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// artistBefore returns the artist phrase ending at text[:end], or "".
func artistBefore(text string, end int) string {
	start := end - lookbehind
	if start < 0 {
		start = 0
	}
	for start < end && !utf8.RuneStart(text[start]) {
		start++
	}

	window := weekdaySuffix.ReplaceAllString(text[start:end], "")
	m := artistBeforeDate.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(m[1], " -"))
}
