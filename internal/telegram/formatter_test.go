package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/suitekeep/concert-updater/internal/concert"
)

var mountain = concert.FixedZone(-6)

func newConcert(id int, artist string, date time.Time) concert.Concert {
	return concert.NewConcert(id, concert.Candidate{Artist: artist, Date: date}, concert.DefaultReconcileOptions())
}

func TestFormatConcert(t *testing.T) {
	msg := FormatConcert(newConcert(1, "Billy Strings", time.Date(2026, 7, 5, 1, 30, 0, 0, time.UTC)), mountain)

	for _, want := range []string{
		"<b>New at Ford Amphitheater!</b>",
		"🎤 <b>Billy Strings</b>",
		"📅 Saturday, July 4, 2026 at 7:30 PM",
		"💺 8 suite seats",
		`<a href="https://www.fordamphitheater.live/">`,
		"#FordAmp",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatConcert_EscapesHTML(t *testing.T) {
	msg := FormatConcert(newConcert(1, "Dead & Company <Live>", time.Date(2026, 6, 19, 23, 0, 0, 0, time.UTC)), nil)

	if !strings.Contains(msg, "<b>Dead &amp; Company &lt;Live&gt;</b>") {
		t.Errorf("artist not escaped:\n%s", msg)
	}
	if !strings.Contains(msg, "Friday, June 19, 2026 at 11:00 PM") {
		t.Errorf("nil location should format in UTC:\n%s", msg)
	}
}

func TestFormatDigest(t *testing.T) {
	concerts := []concert.Concert{
		newConcert(1, "Elton John", time.Date(2026, 6, 13, 2, 0, 0, 0, time.UTC)),
		newConcert(2, "Phish", time.Date(2026, 9, 20, 1, 30, 0, 0, time.UTC)),
	}

	msg := FormatDigest(concerts, mountain)

	if !strings.HasPrefix(msg, "🎶 <b>2 new concerts at Ford Amphitheater</b>") {
		t.Errorf("unexpected header:\n%s", msg)
	}
	first := strings.Index(msg, "Elton John")
	second := strings.Index(msg, "Phish")
	if first < 0 || second < 0 || first > second {
		t.Errorf("concerts missing or out of order:\n%s", msg)
	}
	if !strings.Contains(msg, "• <b>Elton John</b> - Fri Jun 12, 8:00 PM") {
		t.Errorf("unexpected line format:\n%s", msg)
	}
}
