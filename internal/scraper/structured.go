package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/logger"
	"golang.org/x/net/html"
)

const (
	// artistSelector is the listing's event title. Other heading levels hold
	// site chrome such as the logo and section titles.
	artistSelector  = "h4"
	buyTicketsClass = "buy-tickets"
)

// parseStructured treats every h4 whose only content is a link as an artist
// and reads the date and show time from the markup that follows it, up to the
// next heading of any level or buy-tickets link.
func parseStructured(doc *goquery.Document, opts Options) []concert.Candidate {
	candidates := make([]concert.Candidate, 0)

	doc.Find(artistSelector).Each(func(_ int, heading *goquery.Selection) {
		anchor := heading.Find("a").First()
		if anchor.Length() == 0 {
			return
		}
		artist := collapseSpace(anchor.Text())
		if artist == "" {
			return
		}
		if collapseSpace(heading.Text()) != artist {
			logger.Debug("Skipping heading with text outside its link", logger.Fields{"artist": artist})
			return
		}

		details := blockText(heading.Get(0))
		match := concert.DatePattern.FindStringSubmatch(details)
		if match == nil {
			logger.Debug("Skipping block without a date", logger.Fields{"artist": artist})
			return
		}

		clock := opts.DefaultTime
		if showTime, ok := concert.FindShowTime(details); ok {
			clock = showTime
		}

		c, ok := resolveMatch(artist, match, clock, opts)
		if !ok {
			logger.Debug("Skipping block with an unusable date", logger.Fields{
				"artist": artist,
				"date":   match[0],
			})
			return
		}
		candidates = append(candidates, c)
	})

	return candidates
}

// blockText collects the text that follows heading in document order until
// the next heading or buy-tickets element.
func blockText(heading *html.Node) string {
	var b strings.Builder
	for n := nextNode(heading, true); n != nil; {
		if n.Type == html.ElementNode {
			if isHeading(n) || hasClass(n, buyTicketsClass) {
				break
			}
			if skipped[n.DataAtom] {
				n = nextNode(n, true)
				continue
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		n = nextNode(n, false)
	}
	return collapseSpace(b.String())
}
