// Package slottime converts human slot labels ("6:00 PM", "18:00") into
// timestamps on a calendar day and computes booking end times.
package slottime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the calendar-day format used on the wire.
const DateFormat = "2006-01-02"

// ErrInvalidSlotFormat is returned when a label is neither a 12-hour nor a 24-hour clock time.
var ErrInvalidSlotFormat = errors.New("slottime: invalid slot format")

var (
	// "6:00 PM", "6 PM", "06:00pm", "6:00 p.m."
	twelveHour = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([AaPp])\.?\s*[Mm]\.?$`)
	// "18:00", "6:30"
	twentyFourHour = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseSlotLabel combines a slot label with the calendar day of date.
// The result is in date's location; the clock part of date is ignored.
func ParseSlotLabel(label string, date time.Time) (time.Time, error) {
	hour, minute, err := parseClock(label)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), nil
}

// ValidateLabel reports whether label can be parsed.
func ValidateLabel(label string) error {
	_, _, err := parseClock(label)
	return err
}

// ComputeEndTime returns start + durationHours - cleaningBufferMinutes.
// time arithmetic takes care of midnight roll-over and minute carry.
func ComputeEndTime(start time.Time, durationHours int, cleaningBufferMinutes int) time.Time {
	return start.
		Add(time.Duration(durationHours) * time.Hour).
		Add(-time.Duration(cleaningBufferMinutes) * time.Minute)
}

// FormatLabel renders t as a 12-hour label, e.g. "6:00 PM".
func FormatLabel(t time.Time) string {
	return t.Format("3:04 PM")
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateFormat, strings.TrimSpace(value), loc)
}

func parseClock(label string) (int, int, error) {
	s := strings.TrimSpace(label)

	if m := twelveHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, label)
		}

		pm := strings.EqualFold(m[3], "p")
		switch {
		case hour == 12 && !pm:
			hour = 0
		case hour != 12 && pm:
			hour += 12
		}
		return hour, minute, nil
	}

	if m := twentyFourHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, label)
		}
		return hour, minute, nil
	}

	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotFormat, label)
}
