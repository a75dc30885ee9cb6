package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/internal/storage"
	"github.com/mtunnicliffe/cadence/internal/validation"
)

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Frequency   string `short:"f" help:"Frequency type (daily|weekly|custom)." default:"daily"`
	Days        string `short:"w" help:"Comma-separated weekdays for weekly habits (e.g. mon,wed,fri)."`
	Interval    int    `short:"i" help:"Interval for custom habits." default:"1"`
	Unit        string `short:"u" help:"Interval unit for custom habits (days|weeks)." default:"days"`
	Category    string `short:"c" help:"Category (health|fitness|productivity|mindfulness|learning|social|finance|creativity|other)." default:"other"`
	Color       string `help:"Hex color (#RRGGBB)."`
	Icon        string `help:"Short icon or emoji."`
	Description string `short:"d" help:"Longer description."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	freq, err := buildFrequency(c.Frequency, c.Days, c.Interval, c.Unit)
	if err != nil {
		return err
	}

	habit := models.Habit{
		ID:          uuid.New().String(),
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		Category:    models.Category(c.Category),
		Frequency:   freq,
		CreatedAt:   time.Now().UTC(),
	}
	if habit.Color == "" {
		habit.Color = models.DefaultColor
	}

	if err := validation.ValidateHabit(habit).Err(); err != nil {
		return err
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s, ID: %s)\n", habit.Name, formatFrequency(habit.Frequency), habit.ID[:8])
	return nil
}

func buildFrequency(kind, days string, interval int, unit string) (models.Frequency, error) {
	switch kind {
	case "daily":
		return models.Daily(), nil
	case "weekly":
		if days == "" {
			return models.Frequency{}, fmt.Errorf("weekly habits need --days (e.g. mon,wed,fri)")
		}
		wds, err := parseWeekdays(days)
		if err != nil {
			return models.Frequency{}, err
		}
		return models.Weekly(wds...), nil
	case "custom":
		switch models.IntervalUnit(unit) {
		case models.UnitDays, models.UnitWeeks:
		default:
			return models.Frequency{}, fmt.Errorf("invalid interval unit: %s", unit)
		}
		return models.Custom(interval, models.IntervalUnit(unit)), nil
	default:
		return models.Frequency{}, fmt.Errorf("invalid frequency type: %s", kind)
	}
}

type HabitListCmd struct {
	All      bool   `short:"a" help:"Include archived habits."`
	Category string `short:"c" help:"Filter by category."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(storage.HabitFilter{
		IncludeArchived: c.All,
		Category:        models.Category(c.Category),
	})
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found")
		return nil
	}

	fmt.Println("Habits:")
	for _, h := range habits {
		status := "active"
		if h.Archived() {
			status = "archived"
		}
		icon := h.Icon
		if icon != "" {
			icon += " "
		}
		fmt.Printf("  [%s] %s%s - %s (%s)  %s\n",
			status, icon, h.Name, formatFrequency(h.Frequency), h.Category, h.ID[:8])
		if h.Description != "" {
			fmt.Printf("      %s\n", h.Description)
		}
	}
	return nil
}

type HabitEditCmd struct {
	Habit       string `arg:"" help:"Habit name or ID."`
	Name        string `help:"New name."`
	Frequency   string `short:"f" help:"New frequency type (daily|weekly|custom)."`
	Days        string `short:"w" help:"Comma-separated weekdays for weekly habits."`
	Interval    int    `short:"i" help:"Interval for custom habits." default:"1"`
	Unit        string `short:"u" help:"Interval unit for custom habits (days|weeks)." default:"days"`
	Category    string `short:"c" help:"New category."`
	Color       string `help:"New hex color (#RRGGBB)."`
	Icon        string `help:"New icon."`
	Description string `short:"d" help:"New description."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if c.Name != "" {
		habit.Name = c.Name
	}
	if c.Frequency != "" {
		freq, err := buildFrequency(c.Frequency, c.Days, c.Interval, c.Unit)
		if err != nil {
			return err
		}
		habit.Frequency = freq
	}
	if c.Category != "" {
		habit.Category = models.Category(c.Category)
	}
	if c.Color != "" {
		habit.Color = c.Color
	}
	if c.Icon != "" {
		habit.Icon = c.Icon
	}
	if c.Description != "" {
		habit.Description = c.Description
	}

	if err := validation.ValidateHabit(habit).Err(); err != nil {
		return err
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if !c.Force {
		ok, err := confirm(fmt.Sprintf("Delete %q and all of its completion history?", habit.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
