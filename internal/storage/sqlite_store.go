package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mtunnicliffe/cadence/internal/migration"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return s.runMigrations()
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'cadence init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *SQLiteStore) runMigrations() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(nil)
	return err
}

func marshalWeekdays(days []time.Weekday) (string, error) {
	if len(days) == 0 {
		return "", nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to marshal weekdays: %w", err)
	}
	return string(b), nil
}

func unmarshalWeekdays(raw string) []time.Weekday {
	if raw == "" {
		return nil
	}
	var days []time.Weekday
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil
	}
	return days
}

func (s *SQLiteStore) AddHabit(h models.Habit) error {
	return s.UpdateHabit(h)
}

func (s *SQLiteStore) scanHabit(row interface{ Scan(...any) error }) (models.Habit, error) {
	var h models.Habit
	var weekdays, createdAt string
	var archivedAt sql.NullString

	err := row.Scan(
		&h.ID, &h.Name, &h.Description, &h.Color, &h.Icon, &h.Category,
		&h.Frequency.Type, &weekdays, &h.Frequency.Interval, &h.Frequency.Unit,
		&createdAt, &archivedAt,
	)
	if err != nil {
		return models.Habit{}, err
	}

	h.Frequency.DaysOfWeek = unmarshalWeekdays(weekdays)

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if archivedAt.Valid {
		t, err := time.Parse(time.RFC3339, archivedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse archived_at: %w", err)
		}
		h.ArchivedAt = &t
	}

	return h, nil
}

const habitColumns = `id, name, description, color, icon, category,
	frequency_type, frequency_days_of_week, frequency_interval, frequency_unit,
	created_at, archived_at`

func (s *SQLiteStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := s.scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit not found: %s", id)
	}
	return h, err
}

func (s *SQLiteStore) GetAllHabits(filter HabitFilter) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE 1=1`
	var args []any
	if !filter.IncludeArchived {
		query += " AND archived_at IS NULL"
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := s.scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) UpdateHabit(h models.Habit) error {
	weekdays, err := marshalWeekdays(h.Frequency.DaysOfWeek)
	if err != nil {
		return err
	}

	var archivedAt sql.NullString
	if h.ArchivedAt != nil {
		archivedAt = sql.NullString{String: h.ArchivedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (id, name, description, color, icon, category,
			frequency_type, frequency_days_of_week, frequency_interval, frequency_unit,
			created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			icon = excluded.icon,
			category = excluded.category,
			frequency_type = excluded.frequency_type,
			frequency_days_of_week = excluded.frequency_days_of_week,
			frequency_interval = excluded.frequency_interval,
			frequency_unit = excluded.frequency_unit,
			archived_at = excluded.archived_at`,
		h.ID, h.Name, h.Description, h.Color, h.Icon, h.Category,
		h.Frequency.Type, weekdays, h.Frequency.Interval, h.Frequency.Unit,
		h.CreatedAt.UTC().Format(time.RFC3339), archivedAt)

	return err
}

func (s *SQLiteStore) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = ? WHERE id = ? AND archived_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or already archived")
}

func (s *SQLiteStore) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = ? AND archived_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or not archived")
}

func (s *SQLiteStore) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found")
}

func requireRow(result sql.Result, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New(msg)
	}
	return nil
}

func (s *SQLiteStore) ToggleCompletion(habitID, day, note string) (bool, error) {
	if _, err := s.GetHabit(habitID); err != nil {
		return false, err
	}

	result, err := s.db.Exec(`DELETE FROM completions WHERE habit_id = ? AND day = ?`, habitID, day)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO completions (id, habit_id, day, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), habitID, day, note, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) scanCompletion(row interface{ Scan(...any) error }) (models.Completion, error) {
	var c models.Completion
	var createdAt string

	if err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Note, &createdAt); err != nil {
		return models.Completion{}, err
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	c.CreatedAt = t
	return c, nil
}

func (s *SQLiteStore) GetCompletion(habitID, day string) (models.Completion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, note, created_at
		FROM completions WHERE habit_id = ? AND day = ?`, habitID, day)
	c, err := s.scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("no completion for habit %s on %s", habitID, day)
	}
	return c, err
}

func (s *SQLiteStore) GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error) {
	query := `
		SELECT id, habit_id, day, note, created_at
		FROM completions WHERE day >= ? AND day <= ?`
	args := []any{startDay, endDay}
	if habitID != "" {
		query += " AND habit_id = ?"
		args = append(args, habitID)
	}
	query += " ORDER BY day"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		c, err := s.scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *SQLiteStore) UpdateCompletionNote(habitID, day, note string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET note = ? WHERE habit_id = ? AND day = ?`,
		note, habitID, day)
	if err != nil {
		return err
	}
	return requireRow(result, fmt.Sprintf("no completion for habit %s on %s", habitID, day))
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB exposes the underlying handle for diagnostics.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
