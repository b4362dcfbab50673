package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
	// LastMinute is the latest representable minute of the day (23:59).
	LastMinute = MinutesPerDay - 1
)

var (
	ErrInvalidTime      = errors.New("invalid time of day")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrInvalidHighlight = errors.New("invalid highlight")
	ErrInvalidDayStart  = errors.New("invalid day start time")
)

var (
	canonicalPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
	clockPattern     = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?\s*(m\.?)?$`)
)

// IsCanonicalTime reports whether s is a zero-padded 24-hour HH:MM value.
func IsCanonicalTime(s string) bool {
	return canonicalPattern.MatchString(s)
}

// ParseTimeOfDay parses "HH:MM", "H:MM", "18:00", "6:00 AM", "6am", "6:30 p.m.",
// "noon" and "midnight" into minutes since midnight (0-1439).
func ParseTimeOfDay(s string) (int, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	switch raw {
	case "":
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	case "noon":
		return 12 * 60, nil
	case "midnight":
		return 0, nil
	}

	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	meridiem := m[3]
	if meridiem == "" && m[4] != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if meridiem == "" && m[2] == "" {
		// A bare number like "6" is ambiguous.
		return 0, fmt.Errorf("%w: %q (use HH:MM)", ErrInvalidTime, s)
	}
	if minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	switch meridiem {
	case "a", "p":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		hour %= 12
		if meridiem == "p" {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	return hour*60 + minute, nil
}

// CanonicalTime parses s and returns it in canonical HH:MM form.
func CanonicalTime(s string) (string, error) {
	mins, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return FormatClock(mins), nil
}

// FormatClock formats minutes since midnight as canonical HH:MM.
// Values outside the day are clamped to 00:00 and 23:59.
func FormatClock(mins int) string {
	mins = ClampMinute(mins)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// FormatDisplay formats minutes since midnight for humans, e.g. "6:00 AM".
func FormatDisplay(mins int) string {
	mins = ClampMinute(mins)
	hour, minute := mins/60, mins%60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, suffix)
}

// FormatSpan formats a duration in minutes as "1h 30m", "2h" or "45m".
func FormatSpan(mins int) string {
	if mins < 0 {
		mins = 0
	}
	h, m := mins/60, mins%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// ClampMinute pins mins into [0, LastMinute].
func ClampMinute(mins int) int {
	if mins < 0 {
		return 0
	}
	if mins > LastMinute {
		return LastMinute
	}
	return mins
}
