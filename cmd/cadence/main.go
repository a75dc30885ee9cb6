package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mtunnicliffe/cadence/internal/analytics"
	"github.com/mtunnicliffe/cadence/internal/cli"
	"github.com/mtunnicliffe/cadence/internal/logger"
	"github.com/mtunnicliffe/cadence/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path (.db for SQLite, .json for flat file) or a postgres:// connection string." type:"string" default:"~/.config/cadence/cadence.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize cadence storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Done   cli.DoneCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
	Note   cli.NoteCmd   `cmd:"" help:"Set or clear the note on a completion."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show stats for a single habit."`
	Export cli.ExportCmd `cmd:"" help:"Export habits and completions as JSON."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Habit  struct {
		Add       cli.HabitAddCmd       `cmd:"" help:"Add a new habit."`
		List      cli.HabitListCmd      `cmd:"" help:"List habits."`
		Edit      cli.HabitEditCmd      `cmd:"" help:"Edit an existing habit."`
		Archive   cli.HabitArchiveCmd   `cmd:"" help:"Archive a habit, keeping its history."`
		Unarchive cli.HabitUnarchiveCmd `cmd:"" help:"Restore an archived habit."`
		Delete    cli.HabitDeleteCmd    `cmd:"" help:"Delete a habit and its history."`
	} `cmd:"" help:"Manage habits."`
	Analytics struct {
		Daily      cli.AnalyticsDailyCmd      `cmd:"" help:"Per-day completion breakdown."`
		Habits     cli.AnalyticsHabitsCmd     `cmd:"" help:"Per-habit completion breakdown."`
		Categories cli.AnalyticsCategoriesCmd `cmd:"" help:"Per-category completion breakdown."`
		Weekdays   cli.AnalyticsWeekdaysCmd   `cmd:"" help:"Day-of-week completion breakdown."`
		Overview   cli.AnalyticsOverviewCmd   `cmd:"" help:"Account-wide overview." default:"1"`
		Summary    cli.AnalyticsSummaryCmd    `cmd:"" help:"Account-wide summary with streaks."`
	} `cmd:"" help:"Completion analytics."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cadence"),
		kong.Description("Habit tracker with scheduling and streak analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	// Initialize storage based on config format. Connection strings have no
	// directory so their logs land in the default config dir.
	var store storage.Provider
	logDir := filepath.Dir(expandPath("~/.config/cadence/cadence.db"))
	switch {
	case strings.HasPrefix(CLI.Config, "postgres://") || strings.HasPrefix(CLI.Config, "postgresql://"):
		store = storage.NewPostgresStore(CLI.Config)
	case strings.HasSuffix(CLI.Config, ".json"):
		store = storage.NewJSONStore(expandPath(CLI.Config))
		logDir = filepath.Dir(store.GetConfigPath())
	default:
		store = storage.NewSQLiteStore(expandPath(CLI.Config))
		logDir = filepath.Dir(store.GetConfigPath())
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: logDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	appCtx := &cli.Context{
		Store:     store,
		Analytics: analytics.New(),
	}

	// Load the store before running the command (init handles its own setup)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
