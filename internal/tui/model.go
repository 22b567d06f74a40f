package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/engine"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/projector"
	"github.com/julianstephens/streakfit/internal/streak"
)

type Tab int

const (
	TabToday Tab = iota
	TabCalendar
	TabAchievements
)

var tabTitles = []string{"Today", "Calendar", "Achievements"}

// ConfirmFormModel backs the undo confirmation. It is held by pointer so the
// huh form keeps writing to the same value across model copies.
type ConfirmFormModel struct {
	Confirmed bool
}

type Model struct {
	engine *engine.Engine
	now    func() calendar.Date
	keys   KeyMap
	help   help.Model
	tab    Tab

	today        calendar.Date
	year, month  int
	streak       streak.State
	total        int
	week         projector.WeekView
	monthView    projector.MonthView
	achievements []achievement.Result

	form        *huh.Form
	confirmForm *ConfirmFormModel

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel builds the dashboard for eng. Dates are taken in loc.
func NewModel(eng *engine.Engine, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		engine: eng,
		now:    func() calendar.Date { return calendar.Today(loc) },
		keys:   DefaultKeyMap(),
		help:   help.New(),
		tab:    TabToday,
	}
	m.today = m.now()
	m.year, m.month = m.today.Year, m.today.Month
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// dayTickMsg re-reads the clock so the dashboard rolls over at midnight.
type dayTickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return dayTickMsg(t)
	})
}

// refresh recomputes every projection shown on the dashboard.
func (m *Model) refresh() {
	m.err = nil

	s, err := m.engine.Streak(m.today)
	if err != nil {
		m.err = err
		return
	}
	m.streak = s
	m.total = m.engine.TotalWorkouts()

	if m.week, err = m.engine.Week(m.today); err != nil {
		m.err = err
		return
	}
	if m.monthView, err = m.engine.Month(m.year, m.month); err != nil {
		m.err = err
		return
	}
	if m.achievements, err = m.engine.Achievements(m.today); err != nil {
		m.err = err
	}
}

func (m *Model) completeToday() {
	added, err := m.engine.Complete(eventlog.Event{Date: m.today})
	switch {
	case err != nil:
		m.err = err
		return
	case added:
		m.status = "Workout recorded for " + m.today.String()
	default:
		m.status = "Already completed today"
	}
	before := unlockedIDs(m.achievements)
	m.refresh()
	for _, r := range m.achievements {
		if r.Unlocked && !before[r.DefinitionID] {
			if def, ok := m.engine.Catalog().Lookup(r.DefinitionID); ok {
				m.status = "Achievement unlocked: " + def.Title
			}
		}
	}
}

func (m *Model) undoToday() {
	removed, err := m.engine.Uncomplete(m.today)
	if err != nil {
		m.err = err
		return
	}
	if removed {
		m.status = "Removed workout for " + m.today.String()
	} else {
		m.status = "Nothing to undo today"
	}
	m.refresh()
}

func (m *Model) shiftMonth(delta int) {
	idx := m.year*12 + m.month - 1 + delta
	m.year, m.month = idx/12, idx%12+1
	var err error
	if m.monthView, err = m.engine.Month(m.year, m.month); err != nil {
		m.err = err
	}
}

func unlockedIDs(results []achievement.Result) map[string]bool {
	ids := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Unlocked {
			ids[r.DefinitionID] = true
		}
	}
	return ids
}
