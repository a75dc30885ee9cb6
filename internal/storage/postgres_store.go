package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/mtunnicliffe/cadence/internal/migration"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/migrations"
)

// PostgresStore backs the provider with a Postgres database, for setups
// where the tracker is shared across machines. Selected when the config
// path is a postgres:// connection string.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{connStr: connStr}
}

func (s *PostgresStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	_, err = migration.NewRunner(s.db, subFS).Apply(nil)
	return err
}

func (s *PostgresStore) Load() error {
	if err := s.open(); err != nil {
		return err
	}

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) AddHabit(h models.Habit) error {
	return s.UpdateHabit(h)
}

func (s *PostgresStore) scanHabit(row interface{ Scan(...any) error }) (models.Habit, error) {
	var h models.Habit
	var weekdays string
	var archivedAt sql.NullTime

	err := row.Scan(
		&h.ID, &h.Name, &h.Description, &h.Color, &h.Icon, &h.Category,
		&h.Frequency.Type, &weekdays, &h.Frequency.Interval, &h.Frequency.Unit,
		&h.CreatedAt, &archivedAt,
	)
	if err != nil {
		return models.Habit{}, err
	}

	if weekdays != "" {
		var days []time.Weekday
		if err := json.Unmarshal([]byte(weekdays), &days); err == nil {
			h.Frequency.DaysOfWeek = days
		}
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		h.ArchivedAt = &t
	}
	return h, nil
}

func (s *PostgresStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	h, err := s.scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit not found: %s", id)
	}
	return h, err
}

func (s *PostgresStore) GetAllHabits(filter HabitFilter) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE 1=1`
	var args []any
	if !filter.IncludeArchived {
		query += " AND archived_at IS NULL"
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
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

func (s *PostgresStore) UpdateHabit(h models.Habit) error {
	weekdays, err := marshalWeekdays(h.Frequency.DaysOfWeek)
	if err != nil {
		return err
	}

	var archivedAt sql.NullTime
	if h.ArchivedAt != nil {
		archivedAt = sql.NullTime{Time: h.ArchivedAt.UTC(), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (id, name, description, color, icon, category,
			frequency_type, frequency_days_of_week, frequency_interval, frequency_unit,
			created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			color = EXCLUDED.color,
			icon = EXCLUDED.icon,
			category = EXCLUDED.category,
			frequency_type = EXCLUDED.frequency_type,
			frequency_days_of_week = EXCLUDED.frequency_days_of_week,
			frequency_interval = EXCLUDED.frequency_interval,
			frequency_unit = EXCLUDED.frequency_unit,
			archived_at = EXCLUDED.archived_at`,
		h.ID, h.Name, h.Description, h.Color, h.Icon, h.Category,
		h.Frequency.Type, weekdays, h.Frequency.Interval, h.Frequency.Unit,
		h.CreatedAt.UTC(), archivedAt)

	return err
}

func (s *PostgresStore) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NOW() WHERE id = $1 AND archived_at IS NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or already archived")
}

func (s *PostgresStore) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = $1 AND archived_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or not archived")
}

func (s *PostgresStore) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found")
}

func (s *PostgresStore) ToggleCompletion(habitID, day, note string) (bool, error) {
	if _, err := s.GetHabit(habitID); err != nil {
		return false, err
	}

	result, err := s.db.Exec(`DELETE FROM completions WHERE habit_id = $1 AND day = $2`, habitID, day)
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
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), habitID, day, note, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) scanCompletion(row interface{ Scan(...any) error }) (models.Completion, error) {
	var c models.Completion
	if err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Note, &c.CreatedAt); err != nil {
		return models.Completion{}, err
	}
	return c, nil
}

func (s *PostgresStore) GetCompletion(habitID, day string) (models.Completion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, note, created_at
		FROM completions WHERE habit_id = $1 AND day = $2`, habitID, day)
	c, err := s.scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("no completion for habit %s on %s", habitID, day)
	}
	return c, err
}

func (s *PostgresStore) GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error) {
	query := `
		SELECT id, habit_id, day, note, created_at
		FROM completions WHERE day >= $1 AND day <= $2`
	args := []any{startDay, endDay}
	if habitID != "" {
		args = append(args, habitID)
		query += fmt.Sprintf(" AND habit_id = $%d", len(args))
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

func (s *PostgresStore) UpdateCompletionNote(habitID, day, note string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET note = $1 WHERE habit_id = $2 AND day = $3`,
		note, habitID, day)
	if err != nil {
		return err
	}
	return requireRow(result, fmt.Sprintf("no completion for habit %s on %s", habitID, day))
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

// GetDB exposes the underlying handle for diagnostics.
func (s *PostgresStore) GetDB() *sql.DB {
	return s.db
}
