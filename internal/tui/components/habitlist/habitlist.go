package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtunnicliffe/cadence/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type UnarchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit       models.Habit
	IsDone      bool
	IsScheduled bool
	Frequency   string
}

func (i Item) Title() string {
	title := i.Habit.Name
	if i.Habit.Icon != "" {
		title = i.Habit.Icon + " " + title
	}
	switch {
	case i.Habit.ArchivedAt != nil:
		title = "[ARCHIVED] " + title
	case i.IsDone:
		title = "✓ " + title
	case i.IsScheduled:
		title = "○ " + title
	default:
		title = "· " + title
	}
	return title
}

func (i Item) Description() string {
	if i.Habit.ArchivedAt != nil {
		return "archived, restore with 'u'"
	}
	desc := fmt.Sprintf("%s | %s", i.Frequency, i.Habit.Category)
	if i.IsDone {
		desc += " | done today"
	} else if !i.IsScheduled {
		desc += " | not due today"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add       key.Binding
	Toggle    key.Binding
	Archive   key.Binding
	Unarchive key.Binding
	Delete    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m", "toggle done"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Unarchive: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unarchive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// Entry pairs a habit with its state for the day being shown.
type Entry struct {
	Habit     models.Habit
	Done      bool
	Scheduled bool
	Frequency string
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []Entry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Archive, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Archive, keys.Unarchive, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toItems(entries []Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{
			Habit:       e.Habit,
			IsDone:      e.Done,
			IsScheduled: e.Scheduled,
			Frequency:   e.Frequency,
		}
	}
	return items
}

func (m *Model) SetEntries(entries []Entry) {
	m.list.SetItems(toItems(entries))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.ArchivedAt == nil {
					return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Archive):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.ArchivedAt == nil {
					return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Unarchive):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Habit.ArchivedAt != nil {
					return m, func() tea.Msg { return UnarchiveHabitMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
