package cli

import (
	"fmt"
	"strings"

	"github.com/mtunnicliffe/cadence/internal/dates"
)

type StatsCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	From  string `help:"Start date (YYYY-MM-DD)."`
	To    string `help:"End date (YYYY-MM-DD)." default:"today"`
	Days  int    `help:"Window size when --from is omitted." default:"30"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}

	completions, err := ctx.Store.GetCompletionsInRange(habit.ID, dates.Key(start), dates.Key(end))
	if err != nil {
		return err
	}

	stats, err := ctx.Analytics.GetHabitStats(habit, completions, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", habit.Name, formatFrequency(habit.Frequency))
	fmt.Printf("  Range:          %s to %s\n", dates.Key(start), dates.Key(end))
	fmt.Printf("  Completed:      %d of %d scheduled (%d%%)\n",
		stats.TotalCompletions, stats.TotalScheduled, stats.CompletionRate)
	fmt.Printf("  Current streak: %d\n", stats.CurrentStreak)
	fmt.Printf("  Longest streak: %d\n", stats.LongestStreak)

	// One character per day: done, missed, or off-schedule.
	var timeline strings.Builder
	for _, d := range stats.Days {
		switch {
		case d.Completed:
			timeline.WriteByte('#')
		case d.Scheduled:
			timeline.WriteByte('.')
		default:
			timeline.WriteByte(' ')
		}
	}
	fmt.Printf("  Timeline:       [%s]\n", timeline.String())

	return nil
}
