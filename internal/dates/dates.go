// Package dates holds the calendar-day arithmetic shared by the scheduler
// and the analytics folds. Every habit computation keys days by their UTC
// calendar date so that two instants on the same UTC day always compare
// equal regardless of the wall-clock time or zone they carry.
package dates

import "time"

// KeyFormat is the canonical YYYY-MM-DD day key layout.
const KeyFormat = "2006-01-02"

// Normalize returns UTC midnight of t's UTC calendar day.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Key projects t to its canonical UTC day key.
func Key(t time.Time) string {
	return t.UTC().Format(KeyFormat)
}

// ParseKey parses a YYYY-MM-DD key back into UTC midnight of that day.
func ParseKey(s string) (time.Time, error) {
	return time.Parse(KeyFormat, s)
}

// InRange returns the inclusive day-stepped sequence from start to end,
// both normalized to UTC midnight first. Returns nil when start is after
// end; returns exactly one date when they denote the same day.
func InRange(start, end time.Time) []time.Time {
	cur := Normalize(start)
	last := Normalize(end)

	if cur.After(last) {
		return nil
	}

	days := int(last.Sub(cur).Hours()/24) + 1
	out := make([]time.Time, 0, days)
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}

// DaysBetween returns the number of whole days from a to b on the UTC
// calendar. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}
