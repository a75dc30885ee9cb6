// Package streaks computes run-length statistics over a habit's scheduled
// days. Streaks are counted over the scheduled sequence, not calendar days:
// a gap in the schedule never breaks a run, only a scheduled day that went
// uncompleted does.
package streaks

import (
	"sort"
	"time"

	"github.com/mtunnicliffe/cadence/internal/dates"
)

// Streaks holds the two run-length metrics for one scheduled sequence.
// There is no ordering invariant between the two values: Current is
// anchored to "today" while Longest is a historical maximum.
type Streaks struct {
	Current int
	Longest int
}

// Calculate derives current and longest streaks from the habit's scheduled
// dates and the set of completed day keys. today anchors the current-streak
// walk and is passed explicitly so tests can pin it.
//
// If the most recent scheduled day is today and today has not been
// completed yet, it is skipped rather than counted as a break: the day is
// still actionable, so an otherwise-intact streak must not read as zero.
// A missed day in the past breaks the streak as usual.
func Calculate(scheduled []time.Time, completed map[string]struct{}, today time.Time) Streaks {
	if len(scheduled) == 0 {
		return Streaks{}
	}

	// De-duplicate by day key so a repeated date cannot count twice, then
	// sort ascending. Callers are not trusted to pre-sort.
	seen := make(map[string]struct{}, len(scheduled))
	days := make([]time.Time, 0, len(scheduled))
	for _, d := range scheduled {
		key := dates.Key(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, dates.Normalize(d))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var longest, run int
	for _, d := range days {
		if _, ok := completed[dates.Key(d)]; ok {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	todayKey := dates.Key(dates.Normalize(today))
	start := len(days) - 1

	if start >= 0 && dates.Key(days[start]) == todayKey {
		if _, done := completed[todayKey]; !done {
			start--
		}
	}

	var current int
	for i := start; i >= 0; i-- {
		if _, ok := completed[dates.Key(days[i])]; ok {
			current++
		} else {
			break
		}
	}

	return Streaks{Current: current, Longest: longest}
}

// CompletedSet collapses a list of day keys into the set form Calculate
// consumes. Duplicate keys from upstream storage collapse harmlessly.
func CompletedSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
