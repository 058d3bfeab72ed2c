// Package calendar exports the concert schedule as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/suitekeep/concert-updater/internal/concert"
)

const (
	venue       = "Ford Amphitheater"
	venueURL    = "https://www.fordamphitheater.live/"
	showLength  = 3 * time.Hour
	uidDomain   = "fordamphitheater.live"
	productName = "-//Ford Amphitheater Suite//update-concerts//EN"
)

// GenerateICS generates an iCalendar (.ics) document with one event per
// concert. stamp is written as DTSTAMP on every event.
func GenerateICS(concerts []concert.Concert, stamp time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", productName))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(venue+" Concerts")))

	for _, c := range concerts {
		writeEvent(&ics, c, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, c concert.Concert, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// Ids are stable across runs, so calendar clients update in place.
	ics.WriteString(fmt.Sprintf("UID:concert-%d@%s\r\n", c.ID, uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))

	start := c.Date.Time()
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(showLength))))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(c.Artist)))

	available := 0
	for _, s := range c.Seats {
		if s.Status == concert.StatusAvailable {
			available++
		}
	}
	description := fmt.Sprintf("%s at %s\nSuite seats available: %d of %d", c.Artist, venue, available, len(c.Seats))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(venue+", Colorado Springs, CO")))
	ics.WriteString(fmt.Sprintf("URL:%s\r\n", venueURL))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString(fmt.Sprintf("SEQUENCE:%d\r\n", c.SharedVersion))
	ics.WriteString("TRANSP:OPAQUE\r\n")

	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 TEXT escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
