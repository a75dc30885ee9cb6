package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/mtunnicliffe/cadence/internal/models"
)

// IssueType categorizes a validation failure
type IssueType string

const (
	IssueEmptyName       IssueType = "empty_name"
	IssueNameTooLong     IssueType = "name_too_long"
	IssueDescTooLong     IssueType = "description_too_long"
	IssueInvalidColor    IssueType = "invalid_color"
	IssueIconTooLong     IssueType = "icon_too_long"
	IssueInvalidCategory IssueType = "invalid_category"
	IssueMissingWeekdays IssueType = "missing_weekdays"
	IssueInvalidWeekday  IssueType = "invalid_weekday"
	IssueMissingInterval IssueType = "missing_interval"
	IssueInvalidUnit     IssueType = "invalid_unit"
	IssueUnknownFreq     IssueType = "unknown_frequency"
	IssueStrayFields     IssueType = "stray_frequency_fields"
	IssueNoteTooLong     IssueType = "note_too_long"
	IssueRangeInverted   IssueType = "range_inverted"
)

// Issue represents a single validation failure
type Issue struct {
	Type        IssueType
	Description string
}

// Result contains all detected issues
type Result struct {
	Issues []Issue
}

// OK returns true if validation found no issues
func (r *Result) OK() bool {
	return len(r.Issues) == 0
}

// Err collapses the result into a single error, nil when OK.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("invalid habit: %s", r.Issues[0].Description)
}

func (r *Result) add(t IssueType, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Type: t, Description: fmt.Sprintf(format, args...)})
}

const (
	maxNameLength = 50
	maxDescLength = 500
	maxIconLength = 10
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateHabit checks a habit payload against the shape its frequency
// type demands, plus the display-field limits. The scheduler and analytics
// assume these invariants hold, so every write path runs through here.
func ValidateHabit(h models.Habit) Result {
	var r Result

	if h.Name == "" {
		r.add(IssueEmptyName, "name is required")
	} else if len(h.Name) > maxNameLength {
		r.add(IssueNameTooLong, "name exceeds %d characters", maxNameLength)
	}

	if len(h.Description) > maxDescLength {
		r.add(IssueDescTooLong, "description exceeds %d characters", maxDescLength)
	}

	if h.Color != "" && !colorPattern.MatchString(h.Color) {
		r.add(IssueInvalidColor, "color %q is not a hex color like #3b82f6", h.Color)
	}

	if len(h.Icon) > maxIconLength {
		r.add(IssueIconTooLong, "icon exceeds %d characters", maxIconLength)
	}

	if h.Category != "" && !validCategory(h.Category) {
		r.add(IssueInvalidCategory, "unknown category %q", h.Category)
	}

	validateFrequency(&r, h.Frequency)

	return r
}

func validCategory(c models.Category) bool {
	for _, known := range models.Categories {
		if c == known {
			return true
		}
	}
	return false
}

func validateFrequency(r *Result, f models.Frequency) {
	switch f.Type {
	case models.FrequencyDaily:
		if len(f.DaysOfWeek) > 0 || f.Interval != 0 || f.Unit != "" {
			r.add(IssueStrayFields, "daily frequency must not carry weekday or interval fields")
		}

	case models.FrequencyWeekly:
		if len(f.DaysOfWeek) == 0 {
			r.add(IssueMissingWeekdays, "weekly frequency requires at least one weekday")
		}
		for _, d := range f.DaysOfWeek {
			if d < time.Sunday || d > time.Saturday {
				r.add(IssueInvalidWeekday, "weekday %d is out of range 0..6", d)
			}
		}
		if f.Interval != 0 || f.Unit != "" {
			r.add(IssueStrayFields, "weekly frequency must not carry interval fields")
		}

	case models.FrequencyCustom:
		if f.Interval <= 0 {
			r.add(IssueMissingInterval, "custom frequency requires a positive interval")
		}
		if f.Unit != models.UnitDays && f.Unit != models.UnitWeeks {
			r.add(IssueInvalidUnit, "custom frequency unit must be days or weeks, got %q", f.Unit)
		}
		if len(f.DaysOfWeek) > 0 {
			r.add(IssueStrayFields, "custom frequency must not carry weekday fields")
		}

	default:
		r.add(IssueUnknownFreq, "unknown frequency type %q", f.Type)
	}
}

// ValidateNote checks a completion note against the length cap.
func ValidateNote(note string) Result {
	var r Result
	if len(note) > models.MaxNoteLength {
		r.add(IssueNoteTooLong, "note exceeds %d characters", models.MaxNoteLength)
	}
	return r
}

// ValidateRange rejects inverted date ranges before they reach the engine.
func ValidateRange(start, end time.Time) Result {
	var r Result
	if start.After(end) {
		r.add(IssueRangeInverted, "start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return r
}
