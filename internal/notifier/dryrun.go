package notifier

import (
	"fmt"
	"io"
	"time"
)

// DryRunNotifier prints the announcements that would be posted
type DryRunNotifier struct {
	w   io.Writer
	loc *time.Location
}

// NewDryRunNotifier creates a dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer, loc *time.Location) *DryRunNotifier {
	return &DryRunNotifier{w: w, loc: loc}
}

// Notify prints one announcement per added concert
func (n *DryRunNotifier) Notify(report *Report) error {
	for i, c := range report.Added {
		post := formatAnnouncement(c, n.loc)
		fmt.Fprintf(n.w, "--- Announcement %d/%d ---\n", i+1, len(report.Added))
		fmt.Fprintln(n.w, post)
		fmt.Fprintf(n.w, "\n(Length: %d characters)\n\n", len([]rune(post)))
	}
	return nil
}
