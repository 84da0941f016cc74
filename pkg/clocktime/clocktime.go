// Package clocktime handles the clock-of-day strings used by doctor schedules
// and appointments. Times are parsed once at the boundary into a typed
// minutes-since-midnight value and rendered back through a single canonical
// formatter, so the same instant can never produce two different strings.
package clocktime

import (
	"fmt"
	"strings"
)

// Minutes is a clock time expressed as minutes since midnight.
type Minutes int

// MinutesPerDay bounds valid Minutes values to [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

// ParseError reports a clock string that matches neither supported format.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid clock time %q", e.Input)
}

// Parse converts a clock string to minutes since midnight. Two formats are
// accepted: 12-hour "h:mm AM"/"h:mm PM" and 24-hour "H:mm". Detection follows
// the presence of an AM/PM marker in the input.
func Parse(s string) (Minutes, error) {
	if strings.Contains(s, "AM") || strings.Contains(s, "PM") {
		return parse12(s)
	}
	return parse24(s)
}

func parse12(s string) (Minutes, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 || (parts[1] != "AM" && parts[1] != "PM") {
		return 0, &ParseError{Input: s}
	}

	hour, minute, ok := splitClock(parts[0])
	if !ok || hour < 1 || hour > 12 || minute > 59 {
		return 0, &ParseError{Input: s}
	}

	if parts[1] == "PM" && hour != 12 {
		hour += 12
	}
	if parts[1] == "AM" && hour == 12 {
		hour = 0
	}

	return Minutes(hour*60 + minute), nil
}

func parse24(s string) (Minutes, error) {
	hour, minute, ok := splitClock(s)
	if !ok || hour > 23 || minute > 59 {
		return 0, &ParseError{Input: s}
	}
	return Minutes(hour*60 + minute), nil
}

// splitClock splits "h:mm" into its numeric parts. The hour may be one or two
// digits, the minute must be exactly two.
func splitClock(s string) (hour, minute int, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 1 || i > 2 || len(s)-i-1 != 2 {
		return 0, 0, false
	}

	hour, ok = parseDigits(s[:i])
	if !ok {
		return 0, 0, false
	}
	minute, ok = parseDigits(s[i+1:])
	if !ok {
		return 0, 0, false
	}
	return hour, minute, true
}

func parseDigits(s string) (int, bool) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Format renders the canonical 12-hour display form, e.g. "9:00 AM" or
// "12:30 PM". Hours carry no leading zero, minutes are zero-padded. This is
// the only rendering used anywhere, so booked-time comparisons are safe as
// exact string matches.
func (m Minutes) Format() string {
	hours := int(m) / 60
	mins := int(m) % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	hours = hours % 12
	if hours == 0 {
		hours = 12
	}

	return fmt.Sprintf("%d:%02d %s", hours, mins, period)
}

// ParseRange parses a "start-end" window such as a lunch break "12:30-13:00".
func ParseRange(s string) (start, end Minutes, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, &ParseError{Input: s}
	}

	start, err = Parse(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err = Parse(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// InWindow reports whether t falls inside the working window [start, end)
// while staying out of the lunch interval [lunchStart, lunchEnd). The lunch
// interval is half-open: a visit exactly at lunchEnd is allowed, one at
// lunchStart is not. A degenerate lunch interval (start >= end) excludes
// nothing.
func InWindow(t, start, end, lunchStart, lunchEnd Minutes) bool {
	return t >= start && t < end && (t < lunchStart || t >= lunchEnd)
}

// IsValidTime is the string-level window check. Any input that fails to parse
// makes the result false: validation fails closed, never open.
func IsValidTime(t, start, end, lunchStart, lunchEnd string) bool {
	tm, err := Parse(t)
	if err != nil {
		return false
	}
	s, err := Parse(start)
	if err != nil {
		return false
	}
	e, err := Parse(end)
	if err != nil {
		return false
	}
	ls, err := Parse(lunchStart)
	if err != nil {
		return false
	}
	le, err := Parse(lunchEnd)
	if err != nil {
		return false
	}
	return InWindow(tm, s, e, ls, le)
}
