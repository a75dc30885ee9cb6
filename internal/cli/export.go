package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/internal/storage"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to a file instead of stdout." type:"path"`
	From   string `help:"Start date (YYYY-MM-DD)."`
	To     string `help:"End date (YYYY-MM-DD)." default:"today"`
	Days   int    `help:"Window size when --from is omitted." default:"365"`
	All    bool   `short:"a" help:"Include archived habits."`
}

type exportDocument struct {
	ExportedAt  string              `json:"exported_at"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Habits      []models.Habit      `json:"habits"`
	Completions []models.Completion `json:"completions"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	start, end, err := resolveRange(c.From, c.To, c.Days)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(storage.HabitFilter{IncludeArchived: c.All})
	if err != nil {
		return err
	}
	completions, err := ctx.Store.GetCompletionsInRange("", dates.Key(start), dates.Key(end))
	if err != nil {
		return err
	}

	doc := exportDocument{
		ExportedAt:  dates.Key(dates.Normalize(time.Now())),
		From:        dates.Key(start),
		To:          dates.Key(end),
		Habits:      habits,
		Completions: completions,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if c.Output == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(c.Output, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("Exported %d habits and %d completions to %s\n", len(habits), len(completions), c.Output)
	return nil
}
