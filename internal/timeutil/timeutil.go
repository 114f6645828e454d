package timeutil

import (
	"fmt"
	"time"
)

// DayKeyFormat is the local calendar key used for day bucketing.
const DayKeyFormat = "2006-01-02"

// InProgressMarker is the clock-out placeholder for a shift that is still open.
const InProgressMarker = "In Progress"

// DayKey returns the local calendar key for t.
func DayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

// StartOfDay returns 00:00:00 of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Days enumerates every calendar day from start through end inclusive, as
// local midnights. Both bounds are truncated to their own day first.
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := StartOfDay(start); !d.After(StartOfDay(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FormatClock formats a wall-clock instant like "8:00 AM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatHours formats a millisecond duration for display: "-" for zero,
// "45m" under an hour, "8h" on the exact hour, otherwise "8h 30m".
// Sub-minute remainders are rounded to the nearest minute.
func FormatHours(millis int64) string {
	if millis <= 0 {
		return "-"
	}
	minutes := (millis + 30000) / 60000
	if minutes == 0 {
		return "-"
	}
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// Hours converts a millisecond duration to fractional hours. Durations are
// carried as integer milliseconds everywhere else; this is the one
// presentation-boundary conversion.
func Hours(millis int64) float64 {
	return float64(millis) / float64(time.Hour/time.Millisecond)
}

// Minutes converts a millisecond duration to fractional minutes.
func Minutes(millis int64) float64 {
	return float64(millis) / float64(time.Minute/time.Millisecond)
}
