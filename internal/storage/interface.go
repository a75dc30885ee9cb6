package storage

import "github.com/mtunnicliffe/cadence/internal/models"

// HabitFilter narrows GetAllHabits. The zero value means active habits of
// every category.
type HabitFilter struct {
	IncludeArchived bool
	Category        models.Category
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(HabitFilter) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error

	// Completions. Days are YYYY-MM-DD keys; ranges are inclusive and
	// results come back ordered by day ascending.
	ToggleCompletion(habitID, day, note string) (bool, error)
	GetCompletion(habitID, day string) (models.Completion, error)
	GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error)
	UpdateCompletionNote(habitID, day, note string) error

	// Utils
	GetConfigPath() string
}
