// Package analytics folds habits and their completion history into
// presentation-ready summaries. Everything here is a pure recomputation
// over already-fetched data: no caching, no storage access, no shared
// state, so a Service is safe to use from any number of goroutines.
package analytics

import (
	"math"
	"time"

	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/internal/schedule"
	"github.com/mtunnicliffe/cadence/internal/streaks"
)

// Service computes analytics over an explicit date range. The clock is
// injectable because current-streak math needs "today"; everything else is
// independent of wall time.
type Service struct {
	now func() time.Time
}

// New returns a Service anchored to the system clock.
func New() *Service {
	return &Service{now: time.Now}
}

// NewWithClock returns a Service with a fixed notion of "now" for tests.
func NewWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

// Rate computes round-half-up(100*completed/scheduled), 0 when nothing
// was scheduled.
func Rate(completed, scheduled int) int {
	if scheduled <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(scheduled) * 100))
}

// DayStat is one date's slice of the daily breakdown.
type DayStat struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Scheduled int    `json:"scheduled"`
	Rate      int    `json:"rate"`
}

// DailyBreakdown reports, for every date in [start, end], how many habits
// were scheduled, how many completions were logged, and the resulting rate.
func (s *Service) DailyBreakdown(habits []models.Habit, completions []models.Completion, start, end time.Time) ([]DayStat, error) {
	days := dates.InRange(start, end)

	perDay := make(map[string]int)
	for _, c := range completions {
		perDay[c.Day]++
	}

	out := make([]DayStat, 0, len(days))
	for _, d := range days {
		key := dates.Key(d)

		scheduled := 0
		for _, h := range habits {
			due, err := schedule.IsScheduledOn(h, d)
			if err != nil {
				return nil, err
			}
			if due {
				scheduled++
			}
		}

		completed := perDay[key]
		out = append(out, DayStat{
			Day:       key,
			Completed: completed,
			Scheduled: scheduled,
			Rate:      Rate(completed, scheduled),
		})
	}
	return out, nil
}

// HabitStat is one habit's slice of the per-habit breakdown.
type HabitStat struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Color         string          `json:"color"`
	Icon          string          `json:"icon,omitempty"`
	Category      models.Category `json:"category"`
	Completed     int             `json:"completed"`
	Scheduled     int             `json:"scheduled"`
	Rate          int             `json:"rate"`
	CurrentStreak int             `json:"current_streak"`
	LongestStreak int             `json:"longest_streak"`
}

// HabitBreakdown reports per-habit totals, rate, and streaks over the range.
func (s *Service) HabitBreakdown(habits []models.Habit, completions []models.Completion, start, end time.Time) ([]HabitStat, error) {
	days := dates.InRange(start, end)
	today := s.now()

	out := make([]HabitStat, 0, len(habits))
	for _, h := range habits {
		scheduled, err := schedule.ScheduledDates(h, days)
		if err != nil {
			return nil, err
		}

		var done []string
		for _, c := range completions {
			if c.HabitID == h.ID {
				done = append(done, c.Day)
			}
		}
		completedSet := streaks.CompletedSet(done)

		st := streaks.Calculate(scheduled, completedSet, today)

		out = append(out, HabitStat{
			ID:            h.ID,
			Name:          h.Name,
			Color:         h.Color,
			Icon:          h.Icon,
			Category:      h.Category,
			Completed:     len(done),
			Scheduled:     len(scheduled),
			Rate:          Rate(len(done), len(scheduled)),
			CurrentStreak: st.Current,
			LongestStreak: st.Longest,
		})
	}
	return out, nil
}

// CategoryStat is one category's slice of the category breakdown.
type CategoryStat struct {
	Category   models.Category `json:"category"`
	Completed  int             `json:"completed"`
	Scheduled  int             `json:"scheduled"`
	HabitCount int             `json:"habit_count"`
	Rate       int             `json:"rate"`
}

// CategoryBreakdown folds the per-habit totals by category. Categories
// appear in first-seen habit order so repeated calls return identical
// output for identical input.
func (s *Service) CategoryBreakdown(habits []models.Habit, completions []models.Completion, start, end time.Time) ([]CategoryStat, error) {
	days := dates.InRange(start, end)

	var order []models.Category
	agg := make(map[models.Category]*CategoryStat)

	for _, h := range habits {
		cat := h.Category
		if cat == "" {
			cat = models.CategoryOther
		}

		entry, ok := agg[cat]
		if !ok {
			entry = &CategoryStat{Category: cat}
			agg[cat] = entry
			order = append(order, cat)
		}
		entry.HabitCount++

		scheduled, err := schedule.ScheduledDates(h, days)
		if err != nil {
			return nil, err
		}
		entry.Scheduled += len(scheduled)

		for _, c := range completions {
			if c.HabitID == h.ID {
				entry.Completed++
			}
		}
	}

	out := make([]CategoryStat, 0, len(order))
	for _, cat := range order {
		entry := agg[cat]
		entry.Rate = Rate(entry.Completed, entry.Scheduled)
		out = append(out, *entry)
	}
	return out, nil
}

// WeekdayStat is one weekday's slice of the day-of-week breakdown.
type WeekdayStat struct {
	Day       string `json:"day"` // Sun..Sat
	Weekday   int    `json:"weekday"`
	Completed int    `json:"completed"`
	Scheduled int    `json:"scheduled"`
	Rate      int    `json:"rate"`
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayOfWeekBreakdown sums scheduled and completed counts per weekday over
// the range's dates falling on that weekday.
func (s *Service) DayOfWeekBreakdown(habits []models.Habit, completions []models.Completion, start, end time.Time) ([]WeekdayStat, error) {
	days := dates.InRange(start, end)

	doneOn := make(map[string]map[string]struct{}) // habitID -> day keys
	for _, c := range completions {
		if doneOn[c.HabitID] == nil {
			doneOn[c.HabitID] = make(map[string]struct{})
		}
		doneOn[c.HabitID][c.Day] = struct{}{}
	}

	out := make([]WeekdayStat, 7)
	for dow := 0; dow < 7; dow++ {
		stat := WeekdayStat{Day: weekdayNames[dow], Weekday: dow}

		for _, d := range days {
			if int(d.UTC().Weekday()) != dow {
				continue
			}
			key := dates.Key(d)
			for _, h := range habits {
				due, err := schedule.IsScheduledOn(h, d)
				if err != nil {
					return nil, err
				}
				if !due {
					continue
				}
				stat.Scheduled++
				if _, ok := doneOn[h.ID][key]; ok {
					stat.Completed++
				}
			}
		}

		stat.Rate = Rate(stat.Completed, stat.Scheduled)
		out[dow] = stat
	}
	return out, nil
}

// Overview summarizes the whole account over the range.
type Overview struct {
	TotalHabits      int `json:"total_habits"`
	TotalCompletions int `json:"total_completions"`
	TotalScheduled   int `json:"total_scheduled"`
	OverallRate      int `json:"overall_rate"`
	BestStreak       int `json:"best_streak"`
	PerfectDays      int `json:"perfect_days"`
}

// GetOverview computes account-wide totals: best streak is the maximum
// longest streak across habits, and a perfect day is a date on which every
// scheduled habit has a matching completion (days with nothing scheduled
// do not count).
func (s *Service) GetOverview(habits []models.Habit, completions []models.Completion, start, end time.Time) (Overview, error) {
	days := dates.InRange(start, end)
	today := s.now()

	doneOn := make(map[string]map[string]struct{})
	for _, c := range completions {
		if doneOn[c.HabitID] == nil {
			doneOn[c.HabitID] = make(map[string]struct{})
		}
		doneOn[c.HabitID][c.Day] = struct{}{}
	}

	ov := Overview{
		TotalHabits:      len(habits),
		TotalCompletions: len(completions),
	}

	for _, h := range habits {
		scheduled, err := schedule.ScheduledDates(h, days)
		if err != nil {
			return Overview{}, err
		}
		ov.TotalScheduled += len(scheduled)

		completedSet := doneOn[h.ID]
		if completedSet == nil {
			completedSet = map[string]struct{}{}
		}
		st := streaks.Calculate(scheduled, completedSet, today)
		if st.Longest > ov.BestStreak {
			ov.BestStreak = st.Longest
		}
	}

	ov.OverallRate = Rate(ov.TotalCompletions, ov.TotalScheduled)

	for _, d := range days {
		key := dates.Key(d)
		scheduledAny := false
		perfect := true
		for _, h := range habits {
			due, err := schedule.IsScheduledOn(h, d)
			if err != nil {
				return Overview{}, err
			}
			if !due {
				continue
			}
			scheduledAny = true
			if _, ok := doneOn[h.ID][key]; !ok {
				perfect = false
				break
			}
		}
		if scheduledAny && perfect {
			ov.PerfectDays++
		}
	}

	return ov, nil
}

// DayCount is one date's completion total in a summary timeline.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Summary is the whole-account stats view: totals plus account-level
// streaks computed over every range day versus the set of days that saw at
// least one completion.
type Summary struct {
	TotalHabits      int        `json:"total_habits"`
	TotalCompletions int        `json:"total_completions"`
	TotalScheduled   int        `json:"total_scheduled"`
	CompletionRate   int        `json:"completion_rate"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	CompletionsByDay []DayCount `json:"completions_by_day"`
}

// GetSummary computes the account summary over the range.
func (s *Service) GetSummary(habits []models.Habit, completions []models.Completion, start, end time.Time) (Summary, error) {
	days := dates.InRange(start, end)
	today := s.now()

	sum := Summary{
		TotalHabits:      len(habits),
		TotalCompletions: len(completions),
	}

	completedDays := make(map[string]struct{})
	perDay := make(map[string]int)
	for _, c := range completions {
		completedDays[c.Day] = struct{}{}
		perDay[c.Day]++
	}

	for _, h := range habits {
		scheduled, err := schedule.ScheduledDates(h, days)
		if err != nil {
			return Summary{}, err
		}
		sum.TotalScheduled += len(scheduled)
	}

	sum.CompletionRate = Rate(sum.TotalCompletions, sum.TotalScheduled)

	st := streaks.Calculate(days, completedDays, today)
	sum.CurrentStreak = st.Current
	sum.LongestStreak = st.Longest

	sum.CompletionsByDay = make([]DayCount, 0, len(days))
	for _, d := range days {
		key := dates.Key(d)
		sum.CompletionsByDay = append(sum.CompletionsByDay, DayCount{Day: key, Count: perDay[key]})
	}

	return sum, nil
}

// HabitDay is one date in a single habit's timeline.
type HabitDay struct {
	Day       string `json:"day"`
	Scheduled bool   `json:"scheduled"`
	Completed bool   `json:"completed"`
}

// HabitStats is the single-habit stats view.
type HabitStats struct {
	TotalCompletions int        `json:"total_completions"`
	TotalScheduled   int        `json:"total_scheduled"`
	CompletionRate   int        `json:"completion_rate"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	Days             []HabitDay `json:"days"`
}

// GetHabitStats computes one habit's stats over the range. If completions
// exist before the habit's recorded creation day (the creation time was
// edited after the fact), the effective window starts at the earliest
// completion instead, widening the denominator so early completions do not
// inflate the rate.
func (s *Service) GetHabitStats(habit models.Habit, completions []models.Completion, start, end time.Time) (HabitStats, error) {
	days := dates.InRange(start, end)
	today := s.now()

	scheduled, err := schedule.ScheduledDates(habit, days)
	if err != nil {
		return HabitStats{}, err
	}

	var done []string
	for _, c := range completions {
		if c.HabitID == habit.ID {
			done = append(done, c.Day)
		}
	}
	completedSet := streaks.CompletedSet(done)

	effectiveStart := dates.Key(dates.Normalize(habit.CreatedAt))
	for _, day := range done {
		if day < effectiveStart {
			effectiveStart = day
		}
	}

	var effective []time.Time
	for _, d := range scheduled {
		if dates.Key(d) >= effectiveStart {
			effective = append(effective, d)
		}
	}

	st := streaks.Calculate(effective, completedSet, today)

	stats := HabitStats{
		TotalCompletions: len(done),
		TotalScheduled:   len(effective),
		CompletionRate:   Rate(len(done), len(effective)),
		CurrentStreak:    st.Current,
		LongestStreak:    st.Longest,
		Days:             make([]HabitDay, 0, len(days)),
	}

	scheduledKeys := make(map[string]struct{}, len(scheduled))
	for _, d := range scheduled {
		scheduledKeys[dates.Key(d)] = struct{}{}
	}

	for _, d := range days {
		key := dates.Key(d)
		_, isScheduled := scheduledKeys[key]
		_, isCompleted := completedSet[key]
		stats.Days = append(stats.Days, HabitDay{Day: key, Scheduled: isScheduled, Completed: isCompleted})
	}

	return stats, nil
}
