// Package schedule decides whether a habit is due on a given calendar day.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/models"
)

// ErrUnknownFrequency is returned when a habit carries a frequency type the
// scheduler does not recognize. That means upstream validation let bad data
// through, so it is surfaced instead of silently treated as unscheduled.
var ErrUnknownFrequency = errors.New("unknown frequency type")

// IsScheduledOn reports whether the habit is due on the given date.
// The decision is purely a function of the habit's frequency rule, its
// creation day, and the date's UTC calendar position.
func IsScheduledOn(h models.Habit, date time.Time) (bool, error) {
	switch h.Frequency.Type {
	case models.FrequencyDaily:
		return true, nil

	case models.FrequencyWeekly:
		wd := date.UTC().Weekday()
		for _, d := range h.Frequency.DaysOfWeek {
			if d == wd {
				return true, nil
			}
		}
		return false, nil

	case models.FrequencyCustom:
		// Partially-migrated rows can lack an interval or unit; treat them
		// as never scheduled rather than failing the whole fold.
		if h.Frequency.Interval <= 0 || h.Frequency.Unit == "" {
			return false, nil
		}

		daysDiff := dates.DaysBetween(h.CreatedAt, date)
		if daysDiff < 0 {
			return false, nil
		}

		intervalDays := h.Frequency.Interval
		if h.Frequency.Unit == models.UnitWeeks {
			intervalDays *= 7
		}
		return daysDiff%intervalDays == 0, nil

	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownFrequency, h.Frequency.Type)
	}
}

// ScheduledDates filters dates down to the days the habit is due.
func ScheduledDates(h models.Habit, days []time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, d := range days {
		due, err := IsScheduledOn(h, d)
		if err != nil {
			return nil, err
		}
		if due {
			out = append(out, d)
		}
	}
	return out, nil
}
