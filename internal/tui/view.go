package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakfit/internal/view"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.form != nil:
		content = m.form.View()
	case m.tab == TabToday:
		content = m.viewToday()
	case m.tab == TabCalendar:
		content = view.MonthGrid(m.monthView, m.today)
	case m.tab == TabAchievements:
		content = view.Achievements(m.engine.Catalog(), m.achievements)
	}

	var footer string
	switch {
	case m.err != nil:
		footer = errorLine.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = statusLine.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		page.Render(content),
		footer,
		m.help.View(m.keys),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, tabActive.Render(title))
		} else {
			tabs = append(tabs, tabInactive.Render(title))
		}
	}
	return tabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) viewToday() string {
	status := "Not done yet today"
	if m.engine.IsCompleted(m.today) {
		status = "✓ Workout done today"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		view.StreakHeader(m.streak, m.total, m.today),
		"",
		view.WeekStrip(m.week),
		"",
		status,
	)
}
