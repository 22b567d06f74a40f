package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/engine"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

func setupModel(t *testing.T, today calendar.Date) Model {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "streakfit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	eng := engine.New(store, engine.Options{WeekStart: time.Monday})
	if err := eng.Open(); err != nil {
		t.Fatalf("failed to open engine: %v", err)
	}

	m := NewModel(eng, time.UTC)
	m.now = func() calendar.Date { return today }
	m.today = today
	m.year, m.month = today.Year, today.Month
	m.refresh()
	return m
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestTabCycling(t *testing.T) {
	m := setupModel(t, calendar.MustNew(2024, 1, 15))

	tests := []struct {
		key  string
		want Tab
	}{
		{"tab", TabCalendar},
		{"tab", TabAchievements},
		{"tab", TabToday},
		{"shift+tab", TabAchievements},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.tab != tt.want {
			t.Errorf("after %s tab = %d, want %d", tt.key, m.tab, tt.want)
		}
	}
}

func TestCompleteToday(t *testing.T) {
	today := calendar.MustNew(2024, 1, 15)
	m := setupModel(t, today)

	m = press(t, m, "d")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.streak.Current != 1 || m.total != 1 {
		t.Errorf("streak = %+v total = %d after completing today", m.streak, m.total)
	}
	if m.status != "Achievement unlocked: First Step" {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, "d")
	if m.status != "Already completed today" || m.total != 1 {
		t.Errorf("second completion: status = %q total = %d", m.status, m.total)
	}

	if !strings.Contains(m.View(), "Workout done today") {
		t.Error("Today tab does not show the completion")
	}
}

func TestUndoRequiresConfirmation(t *testing.T) {
	today := calendar.MustNew(2024, 1, 15)
	m := setupModel(t, today)

	m = press(t, m, "u")
	if m.form != nil || m.status != "Nothing to undo today" {
		t.Fatalf("undo with nothing recorded: form = %v status = %q", m.form != nil, m.status)
	}

	m = press(t, m, "d")
	m = press(t, m, "u")
	if m.form == nil {
		t.Fatal("undo did not open a confirmation")
	}

	m = press(t, m, "esc")
	if m.form != nil {
		t.Error("esc did not dismiss the confirmation")
	}
	if !m.engine.IsCompleted(today) {
		t.Error("cancelled undo removed the workout")
	}

	m.undoToday()
	if m.engine.IsCompleted(today) || m.streak.Current != 0 {
		t.Errorf("undoToday() left streak %+v", m.streak)
	}
}

func TestCalendarNavigation(t *testing.T) {
	m := setupModel(t, calendar.MustNew(2024, 1, 15))
	m = press(t, m, "tab")

	m = press(t, m, "h")
	if m.year != 2023 || m.month != 12 {
		t.Errorf("prev month = %d-%d, want 2023-12", m.year, m.month)
	}
	m = press(t, m, "l")
	m = press(t, m, "l")
	if m.year != 2024 || m.month != 2 {
		t.Errorf("next month = %d-%d, want 2024-2", m.year, m.month)
	}
	m = press(t, m, "t")
	if m.year != 2024 || m.month != 1 {
		t.Errorf("this month = %d-%d, want 2024-1", m.year, m.month)
	}
	if !strings.Contains(m.View(), "January 2024") {
		t.Error("calendar tab does not render the month")
	}
}

func TestDayRollover(t *testing.T) {
	m := setupModel(t, calendar.MustNew(2024, 1, 31))
	m = press(t, m, "d")

	m.now = func() calendar.Date { return calendar.MustNew(2024, 2, 1) }
	next, cmd := m.Update(dayTickMsg(time.Now()))
	m = next.(Model)

	if cmd == nil {
		t.Error("tick was not rescheduled")
	}
	if m.today != calendar.MustNew(2024, 2, 1) || m.month != 2 {
		t.Errorf("today = %s month = %d after rollover", m.today, m.month)
	}
	if m.streak.Current != 0 || m.streak.Longest != 1 {
		t.Errorf("streak after rollover = %+v", m.streak)
	}
}
