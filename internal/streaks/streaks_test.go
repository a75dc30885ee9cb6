package streaks

import (
	"testing"
	"time"

	"github.com/mtunnicliffe/cadence/internal/dates"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := dates.ParseKey(key)
	if err != nil {
		t.Fatalf("bad day key %s: %v", key, err)
	}
	return d
}

func daysOf(t *testing.T, keys ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		out = append(out, day(t, k))
	}
	return out
}

func TestCalculate_EmptySchedule(t *testing.T) {
	got := Calculate(nil, CompletedSet([]string{"2024-01-01"}), day(t, "2024-01-02"))
	if got.Current != 0 || got.Longest != 0 {
		t.Errorf("expected zero streaks, got %+v", got)
	}
}

func TestCalculate_AllCompleted(t *testing.T) {
	scheduled := daysOf(t, "2024-01-01", "2024-01-02", "2024-01-03")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-02", "2024-01-03"})

	got := Calculate(scheduled, completed, day(t, "2024-01-03"))

	if got.Current != 3 {
		t.Errorf("expected current streak 3, got %d", got.Current)
	}
	if got.Longest != 3 {
		t.Errorf("expected longest streak 3, got %d", got.Longest)
	}
}

func TestCalculate_MissedDayBreaksRun(t *testing.T) {
	scheduled := daysOf(t, "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"})

	got := Calculate(scheduled, completed, day(t, "2024-01-05"))

	if got.Current != 2 {
		t.Errorf("expected current streak 2 after the gap, got %d", got.Current)
	}
	if got.Longest != 2 {
		t.Errorf("expected longest streak 2, got %d", got.Longest)
	}
}

func TestCalculate_TodayPendingDoesNotBreakStreak(t *testing.T) {
	// Today is scheduled but not yet completed; the streak built up through
	// yesterday must survive
	scheduled := daysOf(t, "2024-01-01", "2024-01-02", "2024-01-03")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-02"})

	got := Calculate(scheduled, completed, day(t, "2024-01-03"))

	if got.Current != 2 {
		t.Errorf("expected current streak 2 with today pending, got %d", got.Current)
	}
	if got.Longest != 2 {
		t.Errorf("expected longest streak 2, got %d", got.Longest)
	}
}

func TestCalculate_TodayCompletedExtendsStreak(t *testing.T) {
	scheduled := daysOf(t, "2024-01-01", "2024-01-02", "2024-01-03")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-02", "2024-01-03"})

	got := Calculate(scheduled, completed, day(t, "2024-01-03"))

	if got.Current != 3 {
		t.Errorf("expected current streak 3 with today done, got %d", got.Current)
	}
}

func TestCalculate_PastMissNotForgiven(t *testing.T) {
	// The last scheduled day is in the past and was missed; no exception
	// applies and the current streak is zero
	scheduled := daysOf(t, "2024-01-01", "2024-01-02", "2024-01-03")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-02"})

	got := Calculate(scheduled, completed, day(t, "2024-01-10"))

	if got.Current != 0 {
		t.Errorf("expected current streak 0 after a past miss, got %d", got.Current)
	}
	if got.Longest != 2 {
		t.Errorf("expected longest streak 2, got %d", got.Longest)
	}
}

func TestCalculate_ScheduleGapsDoNotBreakRuns(t *testing.T) {
	// Mon/Wed/Fri style schedule: Tue and Thu are not scheduled, so
	// consecutive scheduled completions form one run
	scheduled := daysOf(t, "2024-01-01", "2024-01-03", "2024-01-05")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-03", "2024-01-05"})

	got := Calculate(scheduled, completed, day(t, "2024-01-05"))

	if got.Current != 3 {
		t.Errorf("expected current streak 3 across schedule gaps, got %d", got.Current)
	}
	if got.Longest != 3 {
		t.Errorf("expected longest streak 3, got %d", got.Longest)
	}
}

func TestCalculate_LongestIsHistoricalMaximum(t *testing.T) {
	scheduled := daysOf(t,
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07")
	completed := CompletedSet([]string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-06", "2024-01-07"})

	got := Calculate(scheduled, completed, day(t, "2024-01-07"))

	if got.Current != 2 {
		t.Errorf("expected current streak 2, got %d", got.Current)
	}
	if got.Longest != 4 {
		t.Errorf("expected longest streak 4, got %d", got.Longest)
	}
}

func TestCalculate_UnsortedAndDuplicatedInput(t *testing.T) {
	scheduled := daysOf(t, "2024-01-03", "2024-01-01", "2024-01-02", "2024-01-01")
	completed := CompletedSet([]string{"2024-01-01", "2024-01-02", "2024-01-03"})

	got := Calculate(scheduled, completed, day(t, "2024-01-03"))

	if got.Current != 3 || got.Longest != 3 {
		t.Errorf("expected streaks of 3 from unsorted input, got %+v", got)
	}
}

func TestCalculate_SingleDayToday(t *testing.T) {
	scheduled := daysOf(t, "2024-01-01")

	pending := Calculate(scheduled, CompletedSet(nil), day(t, "2024-01-01"))
	if pending.Current != 0 || pending.Longest != 0 {
		t.Errorf("expected zero streaks for a pending single day, got %+v", pending)
	}

	done := Calculate(scheduled, CompletedSet([]string{"2024-01-01"}), day(t, "2024-01-01"))
	if done.Current != 1 || done.Longest != 1 {
		t.Errorf("expected streaks of 1 for a completed single day, got %+v", done)
	}
}

func TestCompletedSet_CollapsesDuplicates(t *testing.T) {
	set := CompletedSet([]string{"2024-01-01", "2024-01-01", "2024-01-02"})
	if len(set) != 2 {
		t.Errorf("expected 2 distinct keys, got %d", len(set))
	}
}
