package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mtunnicliffe/cadence/internal/models"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store := NewJSONStore(filepath.Join(t.TempDir(), "cadence.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func testHabit(id, name string) models.Habit {
	return models.Habit{
		ID:        id,
		Name:      name,
		Color:     models.DefaultColor,
		Category:  models.CategoryHealth,
		Frequency: models.Daily(),
		CreatedAt: time.Now().UTC(),
	}
}

func TestJSONStore_InitTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("expected second Init to fail")
	}
}

func TestJSONStore_LoadWithoutInitFails(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected Load to fail without prior init")
	}
}

func TestJSONStore_HabitRoundTrip(t *testing.T) {
	store := newTestJSONStore(t)

	h := testHabit("h1", "Morning run")
	h.Frequency = models.Weekly(time.Monday, time.Friday)
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	// Reload from disk to prove persistence
	reloaded := NewJSONStore(store.GetConfigPath())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, err := reloaded.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Morning run" {
		t.Errorf("expected name to survive reload, got %q", got.Name)
	}
	if got.Frequency.Type != models.FrequencyWeekly || len(got.Frequency.DaysOfWeek) != 2 {
		t.Errorf("expected weekly frequency to survive reload, got %+v", got.Frequency)
	}
}

func TestJSONStore_GetAllHabitsFilters(t *testing.T) {
	store := newTestJSONStore(t)

	a := testHabit("h1", "Run")
	a.Category = models.CategoryFitness
	b := testHabit("h2", "Read")
	b.Category = models.CategoryLearning

	for _, h := range []models.Habit{a, b} {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("AddHabit failed: %v", err)
		}
	}
	if err := store.ArchiveHabit("h2"); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	active, err := store.GetAllHabits(HabitFilter{})
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "h1" {
		t.Errorf("expected only the active habit, got %+v", active)
	}

	all, err := store.GetAllHabits(HabitFilter{IncludeArchived: true})
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both habits with IncludeArchived, got %d", len(all))
	}

	fitness, err := store.GetAllHabits(HabitFilter{Category: models.CategoryFitness})
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(fitness) != 1 || fitness[0].ID != "h1" {
		t.Errorf("expected category filter to match h1, got %+v", fitness)
	}
}

func TestJSONStore_ArchiveLifecycle(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddHabit(testHabit("h1", "Run")); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	if err := store.ArchiveHabit("h1"); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}
	if err := store.ArchiveHabit("h1"); err == nil {
		t.Error("expected double archive to fail")
	}

	h, _ := store.GetHabit("h1")
	if !h.Archived() {
		t.Error("expected habit to be archived")
	}

	if err := store.UnarchiveHabit("h1"); err != nil {
		t.Fatalf("UnarchiveHabit failed: %v", err)
	}
	if err := store.UnarchiveHabit("h1"); err == nil {
		t.Error("expected unarchive of active habit to fail")
	}

	h, _ = store.GetHabit("h1")
	if h.Archived() {
		t.Error("expected habit to be active again")
	}
}

func TestJSONStore_ToggleCompletion(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddHabit(testHabit("h1", "Run")); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	done, err := store.ToggleCompletion("h1", "2024-01-01", "felt great")
	if err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if !done {
		t.Error("expected first toggle to mark done")
	}

	c, err := store.GetCompletion("h1", "2024-01-01")
	if err != nil {
		t.Fatalf("GetCompletion failed: %v", err)
	}
	if c.Note != "felt great" {
		t.Errorf("expected note to persist, got %q", c.Note)
	}

	done, err = store.ToggleCompletion("h1", "2024-01-01", "")
	if err != nil {
		t.Fatalf("second ToggleCompletion failed: %v", err)
	}
	if done {
		t.Error("expected second toggle to unmark")
	}
	if _, err := store.GetCompletion("h1", "2024-01-01"); err == nil {
		t.Error("expected completion to be gone after unmark")
	}

	// Toggle twice more: the pair must land back in the done state
	if _, err := store.ToggleCompletion("h1", "2024-01-01", ""); err != nil {
		t.Fatalf("third ToggleCompletion failed: %v", err)
	}
	if _, err := store.GetCompletion("h1", "2024-01-01"); err != nil {
		t.Errorf("expected completion to exist again: %v", err)
	}
}

func TestJSONStore_ToggleUnknownHabitFails(t *testing.T) {
	store := newTestJSONStore(t)
	if _, err := store.ToggleCompletion("ghost", "2024-01-01", ""); err == nil {
		t.Error("expected toggle on unknown habit to fail")
	}
}

func TestJSONStore_GetCompletionsInRange(t *testing.T) {
	store := newTestJSONStore(t)
	for _, id := range []string{"h1", "h2"} {
		if err := store.AddHabit(testHabit(id, id)); err != nil {
			t.Fatalf("AddHabit failed: %v", err)
		}
	}

	days := []string{"2024-01-03", "2024-01-01", "2024-01-05"}
	for _, d := range days {
		if _, err := store.ToggleCompletion("h1", d, ""); err != nil {
			t.Fatalf("ToggleCompletion failed: %v", err)
		}
	}
	if _, err := store.ToggleCompletion("h2", "2024-01-02", ""); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}

	got, err := store.GetCompletionsInRange("h1", "2024-01-01", "2024-01-03")
	if err != nil {
		t.Fatalf("GetCompletionsInRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 completions in range, got %d", len(got))
	}
	if got[0].Day != "2024-01-01" || got[1].Day != "2024-01-03" {
		t.Errorf("expected ascending day order, got %s then %s", got[0].Day, got[1].Day)
	}

	all, err := store.GetCompletionsInRange("", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("GetCompletionsInRange failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 completions across habits, got %d", len(all))
	}
}

func TestJSONStore_UpdateCompletionNote(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddHabit(testHabit("h1", "Run")); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if _, err := store.ToggleCompletion("h1", "2024-01-01", "old"); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}

	if err := store.UpdateCompletionNote("h1", "2024-01-01", "new"); err != nil {
		t.Fatalf("UpdateCompletionNote failed: %v", err)
	}
	c, _ := store.GetCompletion("h1", "2024-01-01")
	if c.Note != "new" {
		t.Errorf("expected updated note, got %q", c.Note)
	}

	if err := store.UpdateCompletionNote("h1", "2024-01-02", "x"); err == nil {
		t.Error("expected note update on missing completion to fail")
	}
}

func TestJSONStore_DeleteHabitCascades(t *testing.T) {
	store := newTestJSONStore(t)
	if err := store.AddHabit(testHabit("h1", "Run")); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if _, err := store.ToggleCompletion("h1", "2024-01-01", ""); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}

	if err := store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	if _, err := store.GetHabit("h1"); err == nil {
		t.Error("expected habit to be gone")
	}
	left, err := store.GetCompletionsInRange("", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("GetCompletionsInRange failed: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected completions to cascade, %d left", len(left))
	}
}
