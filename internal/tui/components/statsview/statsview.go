package statsview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtunnicliffe/cadence/internal/analytics"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	barDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// Model renders an overview plus per-habit completion rates and streaks
// for a date range computed elsewhere.
type Model struct {
	overview analytics.Overview
	habits   []analytics.HabitStat
	label    string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{width: width, height: height}
}

func (m *Model) SetStats(label string, overview analytics.Overview, habits []analytics.HabitStat) {
	m.label = label
	m.overview = overview
	m.habits = habits
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Overview") + "  " + labelStyle.Render(m.label) + "\n\n")
	b.WriteString(fmt.Sprintf("  Habits:       %d\n", m.overview.TotalHabits))
	b.WriteString(fmt.Sprintf("  Completions:  %d of %d scheduled (%d%%)\n",
		m.overview.TotalCompletions, m.overview.TotalScheduled, m.overview.OverallRate))
	b.WriteString(fmt.Sprintf("  Best streak:  %d\n", m.overview.BestStreak))
	b.WriteString(fmt.Sprintf("  Perfect days: %d\n", m.overview.PerfectDays))

	if len(m.habits) > 0 {
		b.WriteString("\n" + titleStyle.Render("Habits") + "\n\n")
		for _, h := range m.habits {
			b.WriteString(fmt.Sprintf("  %-22s %s %3d%%  streak %d (best %d)\n",
				truncate(h.Name, 22), renderBar(h.Rate), h.Rate, h.CurrentStreak, h.LongestStreak))
		}
	}

	return b.String()
}

func renderBar(rate int) string {
	const width = 10
	filled := rate * width / 100
	if filled > width {
		filled = width
	}
	return barDoneStyle.Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
