package cli

import (
	"fmt"

	"github.com/mtunnicliffe/cadence/internal/dates"
)

type rangeFlags struct {
	From string `help:"Start date (YYYY-MM-DD)."`
	To   string `help:"End date (YYYY-MM-DD)." default:"today"`
	Days int    `help:"Window size when --from is omitted." default:"30"`
}

type AnalyticsDailyCmd struct {
	rangeFlags
}

func (c *AnalyticsDailyCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}
	habits, completions, err := rangeData(ctx, start, end)
	if err != nil {
		return err
	}

	stats, err := ctx.Analytics.DailyBreakdown(habits, completions, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Daily completion, %s to %s:\n", dates.Key(start), dates.Key(end))
	for _, d := range stats {
		fmt.Printf("  %s  %2d/%-2d  %3d%%\n", d.Day, d.Completed, d.Scheduled, d.Rate)
	}
	return nil
}

type AnalyticsHabitsCmd struct {
	rangeFlags
}

func (c *AnalyticsHabitsCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}
	habits, completions, err := rangeData(ctx, start, end)
	if err != nil {
		return err
	}

	stats, err := ctx.Analytics.HabitBreakdown(habits, completions, start, end)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No habits found")
		return nil
	}

	fmt.Printf("Per-habit completion, %s to %s:\n", dates.Key(start), dates.Key(end))
	for _, h := range stats {
		fmt.Printf("  %-24s %3d/%-3d %3d%%  streak %d (best %d)\n",
			h.Name, h.Completed, h.Scheduled, h.Rate, h.CurrentStreak, h.LongestStreak)
	}
	return nil
}

type AnalyticsCategoriesCmd struct {
	rangeFlags
}

func (c *AnalyticsCategoriesCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}
	habits, completions, err := rangeData(ctx, start, end)
	if err != nil {
		return err
	}

	stats, err := ctx.Analytics.CategoryBreakdown(habits, completions, start, end)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No habits found")
		return nil
	}

	fmt.Printf("Per-category completion, %s to %s:\n", dates.Key(start), dates.Key(end))
	for _, cat := range stats {
		fmt.Printf("  %-14s %3d/%-3d %3d%%  (%d habits)\n",
			cat.Category, cat.Completed, cat.Scheduled, cat.Rate, cat.HabitCount)
	}
	return nil
}

type AnalyticsWeekdaysCmd struct {
	rangeFlags
}

func (c *AnalyticsWeekdaysCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}
	habits, completions, err := rangeData(ctx, start, end)
	if err != nil {
		return err
	}

	stats, err := ctx.Analytics.DayOfWeekBreakdown(habits, completions, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Day-of-week completion, %s to %s:\n", dates.Key(start), dates.Key(end))
	for _, d := range stats {
		fmt.Printf("  %s  %3d/%-3d %3d%%\n", d.Day, d.Completed, d.Scheduled, d.Rate)
	}
	return nil
}

type AnalyticsOverviewCmd struct {
	rangeFlags
}

func (c *AnalyticsOverviewCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}
	habits, completions, err := rangeData(ctx, start, end)
	if err != nil {
		return err
	}

	ov, err := ctx.Analytics.GetOverview(habits, completions, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Overview, %s to %s:\n", dates.Key(start), dates.Key(end))
	fmt.Printf("  Habits:       %d\n", ov.TotalHabits)
	fmt.Printf("  Completions:  %d of %d scheduled (%d%%)\n",
		ov.TotalCompletions, ov.TotalScheduled, ov.OverallRate)
	fmt.Printf("  Best streak:  %d\n", ov.BestStreak)
	fmt.Printf("  Perfect days: %d\n", ov.PerfectDays)
	return nil
}

type AnalyticsSummaryCmd struct {
	rangeFlags
}

func (c *AnalyticsSummaryCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}
	habits, completions, err := rangeData(ctx, start, end)
	if err != nil {
		return err
	}

	sum, err := ctx.Analytics.GetSummary(habits, completions, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Summary, %s to %s:\n", dates.Key(start), dates.Key(end))
	fmt.Printf("  Habits:         %d\n", sum.TotalHabits)
	fmt.Printf("  Completions:    %d of %d scheduled (%d%%)\n",
		sum.TotalCompletions, sum.TotalScheduled, sum.CompletionRate)
	fmt.Printf("  Current streak: %d\n", sum.CurrentStreak)
	fmt.Printf("  Longest streak: %d\n", sum.LongestStreak)
	return nil
}
