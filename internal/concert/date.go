package concert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock is a local wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// DefaultShowTime is used when a listing carries no time.
var DefaultShowTime = Clock{Hour: 19, Minute: 30}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// FixedZone returns a location offset from UTC by the given number of hours,
// without daylight saving.
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// MonthPattern matches an English month name, case-insensitively.
const MonthPattern = `January|February|March|April|May|June|July|August|September|October|November|December`

// DatePattern matches "Month D, YYYY" with the comma optional.
var DatePattern = regexp.MustCompile(`(?i)(` + MonthPattern + `)\s+(\d{1,2}),?\s*(\d{4})`)

var (
	showTimePattern = regexp.MustCompile(`(?i)show\s*time:?\s*(\d{1,2}):(\d{2})\s*(am|pm)`)
	anyTimePattern  = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)`)
)

// ResolveDate converts a listing date and local clock time into a UTC instant.
// It reports false for an unknown month or an out-of-range day or year.
func ResolveDate(month, day, year string, clock Clock, loc *time.Location) (time.Time, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(month))]
	if !ok {
		return time.Time{}, false
	}

	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}

	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1000 || y > 9999 {
		return time.Time{}, false
	}

	if loc == nil {
		loc = time.UTC
	}
	return time.Date(y, m, d, clock.Hour, clock.Minute, 0, 0, loc).UTC(), true
}

// FindShowTime looks for a time of day in listing text. A time labeled
// "Show Time" wins over any other; otherwise the first h:mm am/pm is used.
func FindShowTime(text string) (Clock, bool) {
	match := showTimePattern.FindStringSubmatch(text)
	if match == nil {
		match = anyTimePattern.FindStringSubmatch(text)
	}
	if match == nil {
		return Clock{}, false
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	return Clock{Hour: to24Hour(hour, match[3]), Minute: minute}, true
}

// to24Hour converts a 12-hour clock hour. Hours that are not valid 12-hour
// values pass through untouched.
func to24Hour(hour int, meridiem string) int {
	switch {
	case strings.EqualFold(meridiem, "pm") && hour != 12:
		return hour + 12
	case strings.EqualFold(meridiem, "am") && hour == 12:
		return 0
	default:
		return hour
	}
}
