package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/mtunnicliffe/cadence/internal/models"
)

func validHabit() models.Habit {
	return models.Habit{
		ID:        "h1",
		Name:      "Morning run",
		Color:     models.DefaultColor,
		Category:  models.CategoryFitness,
		Frequency: models.Daily(),
		CreatedAt: time.Now(),
	}
}

func hasIssue(r Result, t IssueType) bool {
	for _, issue := range r.Issues {
		if issue.Type == t {
			return true
		}
	}
	return false
}

func TestValidateHabit_ValidHabitPasses(t *testing.T) {
	r := ValidateHabit(validHabit())
	if !r.OK() {
		t.Errorf("expected valid habit to pass, got issues: %+v", r.Issues)
	}
	if r.Err() != nil {
		t.Errorf("expected nil error, got %v", r.Err())
	}
}

func TestValidateHabit_NameRequired(t *testing.T) {
	h := validHabit()
	h.Name = ""

	r := ValidateHabit(h)
	if !hasIssue(r, IssueEmptyName) {
		t.Error("expected empty_name issue")
	}
	if r.Err() == nil {
		t.Error("expected non-nil error")
	}
}

func TestValidateHabit_NameLengthCap(t *testing.T) {
	h := validHabit()
	h.Name = strings.Repeat("x", 51)

	if r := ValidateHabit(h); !hasIssue(r, IssueNameTooLong) {
		t.Error("expected name_too_long issue for 51 characters")
	}

	h.Name = strings.Repeat("x", 50)
	if r := ValidateHabit(h); !r.OK() {
		t.Errorf("expected 50-character name to pass, got %+v", r.Issues)
	}
}

func TestValidateHabit_DescriptionLengthCap(t *testing.T) {
	h := validHabit()
	h.Description = strings.Repeat("x", 501)

	if r := ValidateHabit(h); !hasIssue(r, IssueDescTooLong) {
		t.Error("expected description_too_long issue")
	}
}

func TestValidateHabit_ColorFormat(t *testing.T) {
	good := []string{"", "#3b82f6", "#FFFFFF", "#000000", "#AbCdEf"}
	for _, c := range good {
		h := validHabit()
		h.Color = c
		if r := ValidateHabit(h); hasIssue(r, IssueInvalidColor) {
			t.Errorf("expected color %q to pass", c)
		}
	}

	bad := []string{"3b82f6", "#3b82f", "#3b82f6a", "#gggggg", "blue", "#3B 2F6"}
	for _, c := range bad {
		h := validHabit()
		h.Color = c
		if r := ValidateHabit(h); !hasIssue(r, IssueInvalidColor) {
			t.Errorf("expected color %q to be rejected", c)
		}
	}
}

func TestValidateHabit_IconLengthCap(t *testing.T) {
	h := validHabit()
	h.Icon = strings.Repeat("x", 11)

	if r := ValidateHabit(h); !hasIssue(r, IssueIconTooLong) {
		t.Error("expected icon_too_long issue")
	}
}

func TestValidateHabit_CategoryMustBeKnown(t *testing.T) {
	h := validHabit()
	h.Category = "gardening"

	if r := ValidateHabit(h); !hasIssue(r, IssueInvalidCategory) {
		t.Error("expected invalid_category issue")
	}

	// Empty category is tolerated; analytics folds it into other
	h.Category = ""
	if r := ValidateHabit(h); !r.OK() {
		t.Errorf("expected empty category to pass, got %+v", r.Issues)
	}
}

func TestValidateHabit_DailyRejectsStrayFields(t *testing.T) {
	h := validHabit()
	h.Frequency = models.Frequency{Type: models.FrequencyDaily, Interval: 3}

	if r := ValidateHabit(h); !hasIssue(r, IssueStrayFields) {
		t.Error("expected stray_frequency_fields issue for daily with interval")
	}
}

func TestValidateHabit_WeeklyRequiresWeekdays(t *testing.T) {
	h := validHabit()
	h.Frequency = models.Frequency{Type: models.FrequencyWeekly}

	if r := ValidateHabit(h); !hasIssue(r, IssueMissingWeekdays) {
		t.Error("expected missing_weekdays issue")
	}

	h.Frequency = models.Weekly(time.Monday, time.Friday)
	if r := ValidateHabit(h); !r.OK() {
		t.Errorf("expected weekly habit to pass, got %+v", r.Issues)
	}
}

func TestValidateHabit_WeeklyRejectsOutOfRangeWeekday(t *testing.T) {
	h := validHabit()
	h.Frequency = models.Frequency{
		Type:       models.FrequencyWeekly,
		DaysOfWeek: []time.Weekday{time.Weekday(7)},
	}

	if r := ValidateHabit(h); !hasIssue(r, IssueInvalidWeekday) {
		t.Error("expected invalid_weekday issue for weekday 7")
	}
}

func TestValidateHabit_CustomRequiresIntervalAndUnit(t *testing.T) {
	h := validHabit()
	h.Frequency = models.Frequency{Type: models.FrequencyCustom, Unit: models.UnitDays}
	if r := ValidateHabit(h); !hasIssue(r, IssueMissingInterval) {
		t.Error("expected missing_interval issue")
	}

	h.Frequency = models.Frequency{Type: models.FrequencyCustom, Interval: 3, Unit: "months"}
	if r := ValidateHabit(h); !hasIssue(r, IssueInvalidUnit) {
		t.Error("expected invalid_unit issue")
	}

	h.Frequency = models.Custom(3, models.UnitDays)
	if r := ValidateHabit(h); !r.OK() {
		t.Errorf("expected custom habit to pass, got %+v", r.Issues)
	}
}

func TestValidateHabit_CustomRejectsWeekdays(t *testing.T) {
	h := validHabit()
	h.Frequency = models.Frequency{
		Type:       models.FrequencyCustom,
		Interval:   2,
		Unit:       models.UnitDays,
		DaysOfWeek: []time.Weekday{time.Monday},
	}

	if r := ValidateHabit(h); !hasIssue(r, IssueStrayFields) {
		t.Error("expected stray_frequency_fields issue for custom with weekdays")
	}
}

func TestValidateHabit_UnknownFrequencyType(t *testing.T) {
	h := validHabit()
	h.Frequency = models.Frequency{Type: "monthly"}

	if r := ValidateHabit(h); !hasIssue(r, IssueUnknownFreq) {
		t.Error("expected unknown_frequency issue")
	}
}

func TestValidateHabit_CollectsMultipleIssues(t *testing.T) {
	h := models.Habit{
		Name:      "",
		Color:     "red",
		Frequency: models.Frequency{Type: models.FrequencyWeekly},
	}

	r := ValidateHabit(h)
	if len(r.Issues) < 3 {
		t.Errorf("expected at least 3 issues, got %d: %+v", len(r.Issues), r.Issues)
	}
}

func TestValidateNote_LengthCap(t *testing.T) {
	if r := ValidateNote(strings.Repeat("x", models.MaxNoteLength)); !r.OK() {
		t.Errorf("expected note at the cap to pass, got %+v", r.Issues)
	}
	if r := ValidateNote(strings.Repeat("x", models.MaxNoteLength+1)); !hasIssue(r, IssueNoteTooLong) {
		t.Error("expected note_too_long issue")
	}
	if r := ValidateNote(""); !r.OK() {
		t.Error("expected empty note to pass")
	}
}

func TestValidateRange(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	if r := ValidateRange(a, b); !r.OK() {
		t.Errorf("expected forward range to pass, got %+v", r.Issues)
	}
	if r := ValidateRange(a, a); !r.OK() {
		t.Errorf("expected single-day range to pass, got %+v", r.Issues)
	}
	if r := ValidateRange(b, a); !hasIssue(r, IssueRangeInverted) {
		t.Error("expected range_inverted issue")
	}
}
