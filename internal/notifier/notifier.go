package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suitekeep/concert-updater/internal/concert"
)

// Report describes one completed run.
type Report struct {
	Added []concert.Concert
	// Total is the number of concerts in the dataset after the run.
	Total   int
	Scraped int
}

// Names returns the artists that were added, in order.
func (r *Report) Names() []string {
	names := make([]string, len(r.Added))
	for i, c := range r.Added {
		names[i] = c.Artist
	}
	return names
}

// Notifier defines the interface for reporting a run
type Notifier interface {
	// Notify reports the run described by report
	Notify(report *Report) error
}

// Multi fans a report out to several notifiers. Every notifier runs; the
// errors are joined.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(report *Report) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const maxAnnouncementLen = 280

// formatAnnouncement renders one added concert as a short post. The date is
// shown in loc, the venue's local zone.
func formatAnnouncement(c concert.Concert, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := c.Date.Time().In(loc)

	var b strings.Builder
	b.WriteString("🎶 Just announced at Ford Amphitheater!\n\n")
	fmt.Fprintf(&b, "🎤 %s\n", c.Artist)
	fmt.Fprintf(&b, "📅 %s\n", local.Format("Monday, January 2, 2006 · 3:04 PM"))
	b.WriteString("\n🎟️ Suite seats: fordamphitheater.live\n")
	b.WriteString("\n#FordAmp #ColoradoSprings")

	post := b.String()
	if runes := []rune(post); len(runes) > maxAnnouncementLen {
		post = string(runes[:maxAnnouncementLen-3]) + "..."
	}
	return post
}
