package models

import "time"

type FrequencyType string

const (
	FrequencyDaily  FrequencyType = "daily"
	FrequencyWeekly FrequencyType = "weekly"
	FrequencyCustom FrequencyType = "custom"
)

type IntervalUnit string

const (
	UnitDays  IntervalUnit = "days"
	UnitWeeks IntervalUnit = "weeks"
)

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryLearning     Category = "learning"
	CategoryMindfulness  Category = "mindfulness"
	CategoryProductivity Category = "productivity"
	CategorySocial       Category = "social"
	CategoryFinance      Category = "finance"
	CategoryCreativity   Category = "creativity"
	CategoryOther        Category = "other"
)

// Categories lists every valid habit category.
var Categories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryLearning,
	CategoryMindfulness,
	CategoryProductivity,
	CategorySocial,
	CategoryFinance,
	CategoryCreativity,
	CategoryOther,
}

// DefaultColor is assigned to habits created without an explicit color.
const DefaultColor = "#3b82f6"

// Frequency is a tagged variant: only the fields belonging to the active
// Type are populated. Use the constructors to keep that invariant.
type Frequency struct {
	Type       FrequencyType  `json:"type"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"` // weekly only, 0=Sunday..6=Saturday
	Interval   int            `json:"interval,omitempty"`     // custom only, positive
	Unit       IntervalUnit   `json:"unit,omitempty"`         // custom only
}

func Daily() Frequency {
	return Frequency{Type: FrequencyDaily}
}

func Weekly(days ...time.Weekday) Frequency {
	return Frequency{Type: FrequencyWeekly, DaysOfWeek: days}
}

func Custom(interval int, unit IntervalUnit) Frequency {
	return Frequency{Type: FrequencyCustom, Interval: interval, Unit: unit}
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color"`
	Icon        string     `json:"icon,omitempty"`
	Category    Category   `json:"category"`
	Frequency   Frequency  `json:"frequency"`
	CreatedAt   time.Time  `json:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// Archived reports whether the habit is excluded from default views.
func (h Habit) Archived() bool {
	return h.ArchivedAt != nil
}
