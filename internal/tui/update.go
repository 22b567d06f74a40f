package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case dayTickMsg:
		if today := m.now(); today != m.today {
			m.today = today
			m.year, m.month = today.Year, today.Month
			m.status = ""
			m.refresh()
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
	case key.Matches(msg, m.keys.ShiftTab):
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
	case key.Matches(msg, m.keys.Complete):
		m.completeToday()
	case key.Matches(msg, m.keys.Undo):
		if !m.engine.IsCompleted(m.today) {
			m.status = "Nothing to undo today"
			return m, nil
		}
		return m, m.startConfirm()
	case m.tab == TabCalendar && key.Matches(msg, m.keys.PrevMonth):
		m.shiftMonth(-1)
	case m.tab == TabCalendar && key.Matches(msg, m.keys.NextMonth):
		m.shiftMonth(1)
	case m.tab == TabCalendar && key.Matches(msg, m.keys.Today):
		m.shiftMonth((m.today.Year-m.year)*12 + m.today.Month - m.month)
	}
	return m, nil
}

func (m *Model) startConfirm() tea.Cmd {
	m.confirmForm = &ConfirmFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Undo today's workout?").
				Description("Your streak will be recalculated. Unlocked achievements are kept.").
				Affirmative("Yes").
				Negative("No").
				Value(&m.confirmForm.Confirmed),
		),
	)
	return m.form.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.form = nil
		m.confirmForm = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed {
			m.undoToday()
		}
		m.form = nil
		m.confirmForm = nil
	case huh.StateAborted:
		m.form = nil
		m.confirmForm = nil
	}
	return m, cmd
}
