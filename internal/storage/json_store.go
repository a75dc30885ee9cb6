package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mtunnicliffe/cadence/internal/models"
)

// document is the on-disk shape of the JSON store: one file holding
// everything, keyed by id.
type document struct {
	Version     int                          `json:"version"`
	Habits      map[string]models.Habit      `json:"habits"`
	Completions map[string]models.Completion `json:"completions"`
}

// JSONStore keeps the whole data set in a single JSON file. It exists for
// portability and debugging; SQLite is the default backend.
//
// Concurrency note: a JSONStore is not safe for concurrent use by multiple
// processes sharing the same file.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{
		Version:     1,
		Habits:      make(map[string]models.Habit),
		Completions: make(map[string]models.Completion),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'cadence init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.doc = &document{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.doc.Habits == nil {
		s.doc.Habits = make(map[string]models.Habit)
	}
	if s.doc.Completions == nil {
		s.doc.Completions = make(map[string]models.Completion)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) AddHabit(h models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Habits[h.ID] = h
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	h, ok := s.doc.Habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit not found: %s", id)
	}
	return h, nil
}

func (s *JSONStore) GetAllHabits(filter HabitFilter) ([]models.Habit, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(s.doc.Habits))
	for _, h := range s.doc.Habits {
		if !filter.IncludeArchived && h.Archived() {
			continue
		}
		if filter.Category != "" && h.Category != filter.Category {
			continue
		}
		habits = append(habits, h)
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *JSONStore) UpdateHabit(h models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Habits[h.ID]; !ok {
		return fmt.Errorf("habit not found: %s", h.ID)
	}
	s.doc.Habits[h.ID] = h
	return s.save()
}

func (s *JSONStore) ArchiveHabit(id string) error {
	h, err := s.GetHabit(id)
	if err != nil {
		return err
	}
	if h.Archived() {
		return fmt.Errorf("habit already archived: %s", id)
	}
	now := time.Now().UTC()
	h.ArchivedAt = &now
	return s.UpdateHabit(h)
}

func (s *JSONStore) UnarchiveHabit(id string) error {
	h, err := s.GetHabit(id)
	if err != nil {
		return err
	}
	if !h.Archived() {
		return fmt.Errorf("habit not archived: %s", id)
	}
	h.ArchivedAt = nil
	return s.UpdateHabit(h)
}

func (s *JSONStore) DeleteHabit(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Habits[id]; !ok {
		return fmt.Errorf("habit not found: %s", id)
	}
	delete(s.doc.Habits, id)
	for cid, c := range s.doc.Completions {
		if c.HabitID == id {
			delete(s.doc.Completions, cid)
		}
	}
	return s.save()
}

func (s *JSONStore) findCompletion(habitID, day string) (string, bool) {
	for id, c := range s.doc.Completions {
		if c.HabitID == habitID && c.Day == day {
			return id, true
		}
	}
	return "", false
}

func (s *JSONStore) ToggleCompletion(habitID, day, note string) (bool, error) {
	if _, err := s.GetHabit(habitID); err != nil {
		return false, err
	}

	if id, ok := s.findCompletion(habitID, day); ok {
		delete(s.doc.Completions, id)
		return false, s.save()
	}

	c := models.Completion{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Day:       day,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	s.doc.Completions[c.ID] = c
	return true, s.save()
}

func (s *JSONStore) GetCompletion(habitID, day string) (models.Completion, error) {
	if err := s.loaded(); err != nil {
		return models.Completion{}, err
	}
	if id, ok := s.findCompletion(habitID, day); ok {
		return s.doc.Completions[id], nil
	}
	return models.Completion{}, fmt.Errorf("no completion for habit %s on %s", habitID, day)
}

func (s *JSONStore) GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var out []models.Completion
	for _, c := range s.doc.Completions {
		if c.Day < startDay || c.Day > endDay {
			continue
		}
		if habitID != "" && c.HabitID != habitID {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *JSONStore) UpdateCompletionNote(habitID, day, note string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	id, ok := s.findCompletion(habitID, day)
	if !ok {
		return fmt.Errorf("no completion for habit %s on %s", habitID, day)
	}
	c := s.doc.Completions[id]
	c.Note = note
	s.doc.Completions[id] = c
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
