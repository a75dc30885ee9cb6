package cli

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/mtunnicliffe/cadence/internal/backup"
	"github.com/mtunnicliffe/cadence/internal/migration"
	"github.com/mtunnicliffe/cadence/internal/storage"
	"github.com/mtunnicliffe/cadence/internal/validation"
	"github.com/mtunnicliffe/cadence/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version valid
	if err := checkSchemaVersion(ctx); err != nil {
		fmt.Printf("❌ Schema version: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Schema version: OK\n")
	}

	// Check 3: Backups present (warning only; file-backed stores only)
	if _, ok := ctx.Store.(*storage.PostgresStore); ok {
		fmt.Printf("⊘ Backups present: SKIPPED (backups are only supported for file-backed stores)\n")
	} else if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 4: Validation passes (only if DB is reachable)
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	// Check 5: Clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 6: Concurrent processes (warning only)
	if err := checkOtherProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	db := diagnosticDB(ctx.Store)
	if db == nil {
		// JSON store has no handle; a successful Load already proved it readable
		return nil
	}

	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	runner, err := diagnosticRunner(ctx.Store)
	if err != nil || runner == nil {
		return err
	}

	currentVersion, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	latestVersion, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}

	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'cadence backup create'")
	}

	return nil
}

func checkValidation(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(storage.HabitFilter{IncludeArchived: true})
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	seen := make(map[string]bool)
	for _, h := range habits {
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit ID: %s", h.ID)
		}
		seen[h.ID] = true

		if err := validation.ValidateHabit(h).Err(); err != nil {
			return fmt.Errorf("habit %q: %w", h.Name, err)
		}
	}

	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	// A clock far in the past usually means an unset RTC
	if now.Year() < 2020 {
		return fmt.Errorf("system clock appears wrong: %s", now.Format(time.RFC3339))
	}

	if _, err := time.LoadLocation("UTC"); err != nil {
		return fmt.Errorf("timezone database unavailable: %w", err)
	}

	return nil
}

// checkOtherProcesses warns when another cadence instance is running, since
// two writers on the same SQLite file can hit lock contention.
func checkOtherProcesses() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	exe := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")

	var others []int
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == exe {
			others = append(others, p.Pid())
		}
	}

	if len(others) > 0 {
		return fmt.Errorf("found %d other running %s process(es): %v", len(others), exe, others)
	}
	return nil
}

func diagnosticDB(store storage.Provider) *sql.DB {
	switch s := store.(type) {
	case *storage.SQLiteStore:
		return s.GetDB()
	case *storage.PostgresStore:
		return s.GetDB()
	default:
		return nil
	}
}

func diagnosticRunner(store storage.Provider) (*migration.Runner, error) {
	db := diagnosticDB(store)
	if db == nil {
		return nil, nil
	}

	dir := "sqlite"
	if _, ok := store.(*storage.PostgresStore); ok {
		dir = "postgres"
	}
	subFS, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(db, subFS), nil
}
