package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mtunnicliffe/cadence/internal/analytics"
	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/internal/schedule"
	"github.com/mtunnicliffe/cadence/internal/storage"
	"github.com/mtunnicliffe/cadence/internal/tui/components/habitlist"
	"github.com/mtunnicliffe/cadence/internal/tui/components/statsview"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHabits
	StateStats
	StateAddHabit
	StateConfirmDelete
	StateConfirmArchive
)

// tabCount is the number of top-level tabs cycled by tab/shift+tab.
const tabCount = 3

// statsWindowDays is the range the stats tab covers, ending today.
const statsWindowDays = 30

type HabitFormModel struct {
	Name      string
	Frequency models.FrequencyType
	Days      string
	Interval  string
	Unit      models.IntervalUnit
	Category  models.Category
}

type Model struct {
	store            storage.Provider
	analytics        *analytics.Service
	state            SessionState
	previousState    SessionState
	keys             KeyMap
	help             help.Model
	todayList        habitlist.Model
	habitList        habitlist.Model
	statsView        statsview.Model
	form             *huh.Form
	habitForm        *HabitFormModel
	habitToDeleteID  string
	habitToArchiveID string
	quitting         bool
	width            int
	height           int
}

func NewModel(store storage.Provider, svc *analytics.Service) Model {
	m := Model{
		store:     store,
		analytics: svc,
		state:     StateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		todayList: habitlist.New(nil, 0, 0),
		habitList: habitlist.New(nil, 0, 0),
		statsView: statsview.New(0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads both habit lists and the stats tab from storage.
func (m *Model) refresh() {
	today := dates.Normalize(time.Now())
	todayKey := dates.Key(today)

	doneToday := make(map[string]bool)
	if completions, err := m.store.GetCompletionsInRange("", todayKey, todayKey); err == nil {
		for _, c := range completions {
			doneToday[c.HabitID] = true
		}
	}

	active, err := m.store.GetAllHabits(storage.HabitFilter{})
	if err != nil {
		active = nil
	}

	var todayEntries []habitlist.Entry
	for _, h := range active {
		due, err := schedule.IsScheduledOn(h, today)
		if err != nil || !due {
			continue
		}
		todayEntries = append(todayEntries, habitlist.Entry{
			Habit:     h,
			Done:      doneToday[h.ID],
			Scheduled: true,
			Frequency: describeFrequency(h.Frequency),
		})
	}
	m.todayList.SetEntries(todayEntries)

	all, err := m.store.GetAllHabits(storage.HabitFilter{IncludeArchived: true})
	if err != nil {
		all = nil
	}
	var allEntries []habitlist.Entry
	for _, h := range all {
		due := false
		if h.ArchivedAt == nil {
			due, _ = schedule.IsScheduledOn(h, today)
		}
		allEntries = append(allEntries, habitlist.Entry{
			Habit:     h,
			Done:      doneToday[h.ID] && h.ArchivedAt == nil,
			Scheduled: due,
			Frequency: describeFrequency(h.Frequency),
		})
	}
	m.habitList.SetEntries(allEntries)

	m.refreshStats(all, today)
}

// refreshStats recomputes the stats tab. The habit set must include
// archived habits so their completions in the window stay matched with
// their scheduled days.
func (m *Model) refreshStats(habits []models.Habit, today time.Time) {
	start := today.AddDate(0, 0, -(statsWindowDays - 1))

	completions, err := m.store.GetCompletionsInRange("", dates.Key(start), dates.Key(today))
	if err != nil {
		completions = nil
	}

	overview, err := m.analytics.GetOverview(habits, completions, start, today)
	if err != nil {
		overview = analytics.Overview{}
	}
	stats, err := m.analytics.HabitBreakdown(habits, completions, start, today)
	if err != nil {
		stats = nil
	}

	label := dates.Key(start) + " to " + dates.Key(today)
	m.statsView.SetStats(label, overview, stats)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Toggle)
	case StateHabits:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Archive, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		actions = []key.Binding{m.keys.Toggle}
	case StateHabits:
		actions = []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Archive, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
