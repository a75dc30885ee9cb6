package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/mtunnicliffe/cadence/internal/dates"
	"github.com/mtunnicliffe/cadence/internal/models"
	"github.com/mtunnicliffe/cadence/internal/tui/components/habitlist"
	"github.com/mtunnicliffe/cadence/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		h, v := docStyle.GetFrameSize()
		listWidth := msg.Width - h
		listHeight := msg.Height - v - 3 // tabs and help line
		m.todayList.SetSize(listWidth, listHeight)
		m.habitList.SetSize(listWidth, listHeight)
		m.statsView.SetSize(listWidth, listHeight)
	}

	// Form state intercepts everything until completed or aborted
	if m.state == StateAddHabit {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = m.previousState
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			if err := m.addHabitFromForm(); err == nil {
				m.refresh()
				m.state = m.previousState
			} else {
				// Stay in form state so the user can fix the input or ESC out
				m.form.State = huh.StateNormal
			}
		case huh.StateAborted:
			m.state = m.previousState
		}
		return m, tea.Batch(cmds...)
	}

	if m.state == StateConfirmDelete || m.state == StateConfirmArchive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y":
				if m.state == StateConfirmDelete {
					_ = m.store.DeleteHabit(m.habitToDeleteID)
				} else {
					_ = m.store.ArchiveHabit(m.habitToArchiveID)
				}
				m.refresh()
				m.state = m.previousState
			case "n", "N", "esc", "q":
				m.state = m.previousState
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Frequency: models.FrequencyDaily,
			Unit:      models.UnitDays,
			Category:  models.CategoryOther,
			Interval:  "1",
		}
		m.form = newHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.ToggleHabitMsg:
		today := dates.Key(dates.Normalize(time.Now()))
		if _, err := m.store.ToggleCompletion(msg.ID, today, ""); err == nil {
			m.refresh()
		}
		return m, nil

	case habitlist.ArchiveHabitMsg:
		m.habitToArchiveID = msg.ID
		m.previousState = m.state
		m.state = StateConfirmArchive
		return m, nil

	case habitlist.UnarchiveHabitMsg:
		if err := m.store.UnarchiveHabit(msg.ID); err == nil {
			m.refresh()
		}
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.todayList, cmd = m.todayList.Update(msg)
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateStats:
		m.statsView, cmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) addHabitFromForm() error {
	freq, err := m.habitForm.toFrequency()
	if err != nil {
		return err
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      m.habitForm.Name,
		Color:     models.DefaultColor,
		Category:  m.habitForm.Category,
		Frequency: freq,
		CreatedAt: time.Now().UTC(),
	}

	if err := validation.ValidateHabit(habit).Err(); err != nil {
		return err
	}
	return m.store.AddHabit(habit)
}
