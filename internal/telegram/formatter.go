package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/suitekeep/concert-updater/internal/concert"
)

const venueLink = `<a href="https://www.fordamphitheater.live/">fordamphitheater.live</a>`

// FormatConcert formats a single added concert as a Telegram HTML message.
// The date is shown in loc.
func FormatConcert(c concert.Concert, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var msg strings.Builder

	msg.WriteString("🎶 <b>New at Ford Amphitheater!</b>\n\n")
	msg.WriteString(fmt.Sprintf("🎤 <b>%s</b>\n", html.EscapeString(c.Artist)))
	msg.WriteString(fmt.Sprintf("📅 %s\n", c.Date.Time().In(loc).Format("Monday, January 2, 2006 at 3:04 PM")))
	msg.WriteString(fmt.Sprintf("💺 %d suite seats\n", len(c.Seats)))

	msg.WriteString("\n🔗 " + venueLink + "\n")
	msg.WriteString("\n#FordAmp #ColoradoSprings")

	return msg.String()
}

// FormatDigest formats several added concerts as one message, in the given
// order.
func FormatDigest(concerts []concert.Concert, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("🎶 <b>%d new concerts at Ford Amphitheater</b>\n\n", len(concerts)))
	for _, c := range concerts {
		msg.WriteString(fmt.Sprintf("• <b>%s</b> - %s\n",
			html.EscapeString(c.Artist),
			c.Date.Time().In(loc).Format("Mon Jan 2, 3:04 PM")))
	}

	msg.WriteString("\n🔗 " + venueLink)

	return msg.String()
}
