package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mtunnicliffe/cadence/internal/models"
)

func newHabitForm(fm *HabitFormModel) *huh.Form {
	categoryOptions := make([]huh.Option[models.Category], len(models.Categories))
	for i, c := range models.Categories {
		categoryOptions[i] = huh.NewOption(string(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Custom interval", models.FrequencyCustom),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Weekdays (weekly only, e.g. mon,wed,fri)").
				Value(&fm.Days),
			huh.NewInput().
				Title("Interval (custom only)").
				Value(&fm.Interval),
			huh.NewSelect[models.IntervalUnit]().
				Title("Interval unit (custom only)").
				Options(
					huh.NewOption("days", models.UnitDays),
					huh.NewOption("weeks", models.UnitWeeks),
				).
				Value(&fm.Unit),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categoryOptions...).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

// toFrequency converts the form fields into a Frequency for the chosen type.
func (fm *HabitFormModel) toFrequency() (models.Frequency, error) {
	switch fm.Frequency {
	case models.FrequencyWeekly:
		wds, err := parseFormWeekdays(fm.Days)
		if err != nil {
			return models.Frequency{}, err
		}
		if len(wds) == 0 {
			return models.Frequency{}, fmt.Errorf("weekly habits need at least one weekday")
		}
		return models.Weekly(wds...), nil
	case models.FrequencyCustom:
		interval, err := strconv.Atoi(strings.TrimSpace(fm.Interval))
		if err != nil || interval < 1 {
			return models.Frequency{}, fmt.Errorf("interval must be a positive number")
		}
		return models.Custom(interval, fm.Unit), nil
	default:
		return models.Daily(), nil
	}
}

func parseFormWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
		"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
		"sat": time.Saturday,
	}

	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if len(part) > 3 {
			part = part[:3]
		}
		wd, ok := dayMap[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}

func describeFrequency(f models.Frequency) string {
	switch f.Type {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencyWeekly:
		var days []string
		for _, wd := range f.DaysOfWeek {
			days = append(days, wd.String()[:3])
		}
		if len(days) == 0 {
			return "weekly"
		}
		return "weekly: " + strings.Join(days, ",")
	case models.FrequencyCustom:
		return fmt.Sprintf("every %d %s", f.Interval, f.Unit)
	default:
		return "unknown"
	}
}
