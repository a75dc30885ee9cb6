package models

import "time"

// MaxNoteLength caps free-text completion notes.
const MaxNoteLength = 500

// Completion records that a habit was done on a specific calendar day.
// The existence of the row is the "done" signal: toggling a day back to
// not-done removes the record entirely. At most one completion exists per
// (HabitID, Day) pair.
type Completion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"` // YYYY-MM-DD, UTC calendar day
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
