package cli

import (
	"fmt"

	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/validation"
)

type DoneCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `short:"d" help:"Date to toggle (YYYY-MM-DD, today, yesterday)." default:"today"`
	Note  string `short:"n" help:"Note to attach when marking done."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	day, err := parseDay(c.Date)
	if err != nil {
		return err
	}
	if err := validation.ValidateNote(c.Note).Err(); err != nil {
		return err
	}

	done, err := ctx.Store.ToggleCompletion(habit.ID, dates.Key(day), c.Note)
	if err != nil {
		return err
	}

	if done {
		fmt.Printf("✓ %s marked done for %s\n", habit.Name, dates.Key(day))
	} else {
		fmt.Printf("✗ %s unmarked for %s\n", habit.Name, dates.Key(day))
	}
	return nil
}

type NoteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Note  string `arg:"" help:"Note text. An empty string clears the note."`
	Date  string `short:"d" help:"Date of the completion (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *NoteCmd) Run(ctx *Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	day, err := parseDay(c.Date)
	if err != nil {
		return err
	}
	if err := validation.ValidateNote(c.Note).Err(); err != nil {
		return err
	}

	if err := ctx.Store.UpdateCompletionNote(habit.ID, dates.Key(day), c.Note); err != nil {
		return err
	}

	fmt.Printf("Updated note for %s on %s\n", habit.Name, dates.Key(day))
	return nil
}
