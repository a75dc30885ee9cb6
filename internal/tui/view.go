package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = docStyle.Render(m.todayList.View())
	case StateHabits:
		content = docStyle.Render(m.habitList.View())
	case StateStats:
		content = docStyle.Render(m.statsView.View())
	case StateAddHabit:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirm(dangerStyle.Render("Delete this habit and all of its completion history?"))
	case StateConfirmArchive:
		content = m.viewConfirm("Archive this habit? Its history is kept.")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Habits", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirm(prompt string) string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			prompt,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
