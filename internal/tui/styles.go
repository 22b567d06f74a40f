package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	muted  = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}

	tabActive = lipgloss.NewStyle().
			Foreground(accent).
			Underline(true).
			Bold(true).
			Padding(0, 2)

	tabInactive = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2)

	tabBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(muted).
		MarginBottom(1)

	statusLine = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	errorLine  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	page       = lipgloss.NewStyle().Padding(1, 2)
)
