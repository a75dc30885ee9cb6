package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/models"
)

func mustDay(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := dates.ParseKey(key)
	if err != nil {
		t.Fatalf("bad day key %s: %v", key, err)
	}
	return d
}

func TestIsScheduledOn_DailyAlwaysDue(t *testing.T) {
	h := models.Habit{Frequency: models.Daily()}

	for _, key := range []string{"2024-01-01", "2024-02-29", "2025-12-31"} {
		due, err := IsScheduledOn(h, mustDay(t, key))
		if err != nil {
			t.Fatalf("IsScheduledOn failed: %v", err)
		}
		if !due {
			t.Errorf("daily habit should be due on %s", key)
		}
	}
}

func TestIsScheduledOn_WeeklyMatchesWeekday(t *testing.T) {
	h := models.Habit{Frequency: models.Weekly(time.Monday, time.Wednesday, time.Friday)}

	cases := []struct {
		day  string
		want bool
	}{
		{"2025-12-29", true},  // Monday
		{"2025-12-30", false}, // Tuesday
		{"2025-12-31", true},  // Wednesday
		{"2026-01-01", false}, // Thursday
		{"2026-01-02", true},  // Friday
		{"2026-01-03", false}, // Saturday
		{"2026-01-04", false}, // Sunday
	}
	for _, tc := range cases {
		due, err := IsScheduledOn(h, mustDay(t, tc.day))
		if err != nil {
			t.Fatalf("IsScheduledOn failed: %v", err)
		}
		if due != tc.want {
			t.Errorf("%s: expected due=%v, got %v", tc.day, tc.want, due)
		}
	}
}

func TestScheduledDates_WeeklyOverTwoWeeks(t *testing.T) {
	h := models.Habit{Frequency: models.Weekly(time.Monday, time.Wednesday, time.Friday)}

	// 2025-12-29 is a Monday, so 14 days cover exactly two full weeks
	days := dates.InRange(mustDay(t, "2025-12-29"), mustDay(t, "2026-01-11"))
	if len(days) != 14 {
		t.Fatalf("expected 14 days in range, got %d", len(days))
	}

	scheduled, err := ScheduledDates(h, days)
	if err != nil {
		t.Fatalf("ScheduledDates failed: %v", err)
	}
	if len(scheduled) != 6 {
		t.Errorf("expected 6 scheduled days over two weeks, got %d", len(scheduled))
	}
}

func TestIsScheduledOn_WeeklyEmptyDaysNeverDue(t *testing.T) {
	h := models.Habit{Frequency: models.Weekly()}

	due, err := IsScheduledOn(h, mustDay(t, "2025-12-31"))
	if err != nil {
		t.Fatalf("IsScheduledOn failed: %v", err)
	}
	if due {
		t.Error("weekly habit with no weekdays should never be due")
	}
}

func TestIsScheduledOn_CustomIntervalAnchoredToCreation(t *testing.T) {
	h := models.Habit{
		CreatedAt: mustDay(t, "2024-01-01"),
		Frequency: models.Custom(3, models.UnitDays),
	}

	cases := []struct {
		day  string
		want bool
	}{
		{"2024-01-01", true},  // offset 0
		{"2024-01-02", false}, // offset 1
		{"2024-01-03", false}, // offset 2
		{"2024-01-04", true},  // offset 3
		{"2024-01-07", true},  // offset 6
		{"2024-01-08", false}, // offset 7
	}
	for _, tc := range cases {
		due, err := IsScheduledOn(h, mustDay(t, tc.day))
		if err != nil {
			t.Fatalf("IsScheduledOn failed: %v", err)
		}
		if due != tc.want {
			t.Errorf("%s: expected due=%v, got %v", tc.day, tc.want, due)
		}
	}
}

func TestIsScheduledOn_CustomWeeksUnit(t *testing.T) {
	h := models.Habit{
		CreatedAt: mustDay(t, "2024-01-01"),
		Frequency: models.Custom(2, models.UnitWeeks),
	}

	cases := []struct {
		day  string
		want bool
	}{
		{"2024-01-01", true},  // offset 0
		{"2024-01-08", false}, // offset 7
		{"2024-01-15", true},  // offset 14
		{"2024-01-29", true},  // offset 28
	}
	for _, tc := range cases {
		due, err := IsScheduledOn(h, mustDay(t, tc.day))
		if err != nil {
			t.Fatalf("IsScheduledOn failed: %v", err)
		}
		if due != tc.want {
			t.Errorf("%s: expected due=%v, got %v", tc.day, tc.want, due)
		}
	}
}

func TestIsScheduledOn_CustomBeforeCreationNotDue(t *testing.T) {
	h := models.Habit{
		CreatedAt: mustDay(t, "2024-06-01"),
		Frequency: models.Custom(1, models.UnitDays),
	}

	due, err := IsScheduledOn(h, mustDay(t, "2024-05-31"))
	if err != nil {
		t.Fatalf("IsScheduledOn failed: %v", err)
	}
	if due {
		t.Error("custom habit should not be due before its creation day")
	}
}

func TestIsScheduledOn_CustomCreationTimeOfDayIgnored(t *testing.T) {
	// Created late in the evening; the anchor is still the calendar day
	h := models.Habit{
		CreatedAt: time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
		Frequency: models.Custom(3, models.UnitDays),
	}

	due, err := IsScheduledOn(h, mustDay(t, "2024-01-04"))
	if err != nil {
		t.Fatalf("IsScheduledOn failed: %v", err)
	}
	if !due {
		t.Error("expected due on offset 3 regardless of creation time of day")
	}
}

func TestIsScheduledOn_MalformedCustomNeverDue(t *testing.T) {
	created := mustDay(t, "2024-01-01")
	day := mustDay(t, "2024-01-01")

	malformed := []models.Frequency{
		{Type: models.FrequencyCustom, Interval: 0, Unit: models.UnitDays},
		{Type: models.FrequencyCustom, Interval: -2, Unit: models.UnitDays},
		{Type: models.FrequencyCustom, Interval: 3},
	}
	for i, f := range malformed {
		h := models.Habit{CreatedAt: created, Frequency: f}
		due, err := IsScheduledOn(h, day)
		if err != nil {
			t.Fatalf("case %d: IsScheduledOn failed: %v", i, err)
		}
		if due {
			t.Errorf("case %d: malformed custom rule should never be due", i)
		}
	}
}

func TestIsScheduledOn_UnknownFrequencyType(t *testing.T) {
	h := models.Habit{Frequency: models.Frequency{Type: "monthly"}}

	_, err := IsScheduledOn(h, mustDay(t, "2024-01-01"))
	if err == nil {
		t.Fatal("expected error for unknown frequency type")
	}
	if !errors.Is(err, ErrUnknownFrequency) {
		t.Errorf("expected ErrUnknownFrequency, got %v", err)
	}
}

func TestScheduledDates_PropagatesError(t *testing.T) {
	h := models.Habit{Frequency: models.Frequency{Type: "bogus"}}
	days := dates.InRange(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-03"))

	if _, err := ScheduledDates(h, days); err == nil {
		t.Fatal("expected error for unknown frequency type")
	}
}
