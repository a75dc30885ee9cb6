package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mtunnicliffe/cadence/internal/analytics"
	"github.com/mtunnicliffe/cadence/internal/backup"
	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/logger"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/internal/storage"
)

type Context struct {
	Store     storage.Provider
	Analytics *analytics.Service
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*storage.PostgresStore); ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	_, err := mgr.CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// parseWeekdays parses a comma-separated list of weekdays
func parseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

func formatFrequency(f models.Frequency) string {
	switch f.Type {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencyWeekly:
		if len(f.DaysOfWeek) > 0 {
			var days []string
			for _, wd := range f.DaysOfWeek {
				days = append(days, wd.String()[:3])
			}
			return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
		}
		return "weekly"
	case models.FrequencyCustom:
		if f.Interval == 1 {
			return fmt.Sprintf("every %s", strings.TrimSuffix(string(f.Unit), "s"))
		}
		return fmt.Sprintf("every %d %s", f.Interval, f.Unit)
	default:
		return "unknown"
	}
}

// parseDay accepts YYYY-MM-DD plus the shorthands "today" and "yesterday".
func parseDay(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return dates.Normalize(time.Now()), nil
	case "yesterday":
		return dates.Normalize(time.Now()).AddDate(0, 0, -1), nil
	}
	d, err := dates.ParseKey(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, or yesterday)", s)
	}
	return d, nil
}

// resolveRange turns --from/--to flags into a concrete inclusive window.
// An empty --to means today; an empty --from means --days back from the end.
func resolveRange(from, to string, fallbackDays int) (time.Time, time.Time, error) {
	end, err := parseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var start time.Time
	if from == "" {
		start = end.AddDate(0, 0, -(fallbackDays - 1))
	} else {
		start, err = parseDay(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is after end date %s", dates.Key(start), dates.Key(end))
	}
	return start, end, nil
}

// resolveHabit finds a habit by full ID, unique ID prefix, or exact name
// (case-insensitive). Archived habits are included so stats on retired
// habits still work.
func resolveHabit(ctx *Context, ref string) (models.Habit, error) {
	if h, err := ctx.Store.GetHabit(ref); err == nil {
		return h, nil
	}

	habits, err := ctx.Store.GetAllHabits(storage.HabitFilter{IncludeArchived: true})
	if err != nil {
		return models.Habit{}, err
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) || strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("no habit matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		var names []string
		for _, h := range matches {
			names = append(names, fmt.Sprintf("%s (%s)", h.Name, h.ID[:8]))
		}
		return models.Habit{}, fmt.Errorf("ambiguous habit %q: matches %s", ref, strings.Join(names, ", "))
	}
}

func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// rangeData fetches habits and all completions for the window. Archived
// habits are included because the completion query spans every habit; a
// mismatched pair would count an archived habit's completions without its
// scheduled days.
func rangeData(ctx *Context, start, end time.Time) ([]models.Habit, []models.Completion, error) {
	habits, err := ctx.Store.GetAllHabits(storage.HabitFilter{IncludeArchived: true})
	if err != nil {
		return nil, nil, err
	}
	completions, err := ctx.Store.GetCompletionsInRange("", dates.Key(start), dates.Key(end))
	if err != nil {
		return nil, nil, err
	}
	return habits, completions, nil
}
