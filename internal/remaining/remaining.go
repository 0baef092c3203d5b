// Package remaining turns a due date into a countdown string.
package remaining

import (
	"fmt"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
)

// Format describes the time left until target as seen at now.
// Months are fixed 30-day blocks; leftover time under a day is dropped.
func Format(target, now time.Time) string {
	diff := target.Sub(now)
	if diff < 0 {
		return "Overdue"
	}

	months := int(diff / month)
	days := int((diff % month) / day)

	var parts []string
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if len(parts) == 0 {
		return "Due today"
	}
	return strings.Join(parts, " and ") + " remaining"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ParseTimeFrame reads a stored time frame. Bare dates are taken at UTC
// midnight, the way a browser date input value parses.
func ParseTimeFrame(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ForTimeFrame formats a stored time frame; no or unreadable dates give "".
func ForTimeFrame(s string, now time.Time) string {
	t, ok := ParseTimeFrame(s)
	if !ok {
		return ""
	}
	return Format(t, now)
}
