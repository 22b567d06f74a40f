// Package view renders engine results for the terminal. All user-facing
// strings for streaks, calendars and achievements are produced here.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/projector"
	"github.com/julianstephens/streakfit/internal/stats"
	"github.com/julianstephens/streakfit/internal/streak"
)

const (
	cellWidth   = 4
	progressBar = 20
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(18).
			Align(lipgloss.Center)

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Underline(true)

	unlockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func card(label string, value int) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		numberStyle.Render(fmt.Sprintf("%d", value)),
		subtleStyle.Render(label),
	))
}

// StreakHeader renders the current, best and total counters, plus a nudge when
// the run ending yesterday is about to break.
func StreakHeader(s streak.State, total int, asOf calendar.Date) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Current Streak", s.Current),
		card("Best Streak", s.Longest),
		card("Total Workouts", total),
	)
	lines := []string{cards}
	if streak.AtRisk(s, asOf) {
		lines = append(lines, warningStyle.Render("Work out today to keep your streak going."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// StreakLine is the one-line form used by the streak command.
func StreakLine(s streak.State, asOf calendar.Date) string {
	line := fmt.Sprintf("Current streak: %s  Best: %s", days(s.Current), days(s.Longest))
	if s.LastCompleted != nil {
		line += subtleStyle.Render(fmt.Sprintf("  (last workout %s)", s.LastCompleted))
	}
	if streak.AtRisk(s, asOf) {
		line += "\n" + warningStyle.Render("Work out today to keep your streak going.")
	}
	return line
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// MonthGrid renders a month as a week-aligned grid. Completed days are marked,
// and today is highlighted when it falls inside the month.
func MonthGrid(v projector.MonthView, today calendar.Date) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", time.Month(v.Month), v.Year)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d/%d days", v.CompletedDays(), v.DaysInMonth())))
	b.WriteString("\n")

	for _, wd := range v.WeekdayHeaders() {
		b.WriteString(subtleStyle.Render(pad(wd.String()[:3])))
	}
	b.WriteString("\n")

	for _, week := range v.Weeks() {
		for _, cell := range week {
			b.WriteString(renderCell(v, cell, today))
		}
		b.WriteString("\n")
	}

	b.WriteString(subtleStyle.Render("✓ workout completed  · missed"))
	return b.String()
}

func renderCell(v projector.MonthView, cell projector.DayCell, today calendar.Date) string {
	if cell.Empty() {
		return pad("")
	}
	isToday := today.Year == v.Year && today.Month == v.Month && today.Day == cell.Day
	switch {
	case cell.Completed && isToday:
		return todayStyle.Inherit(doneStyle).Render(pad(fmt.Sprintf("%2d✓", cell.Day)))
	case cell.Completed:
		return doneStyle.Render(pad(fmt.Sprintf("%2d✓", cell.Day)))
	case isToday:
		return todayStyle.Render(pad(fmt.Sprintf("%2d", cell.Day)))
	default:
		return subtleStyle.Render(pad(fmt.Sprintf("%2d", cell.Day)))
	}
}

func pad(s string) string {
	return lipgloss.NewStyle().Width(cellWidth).Render(s)
}

// WeekStrip renders the seven days of a week on one line.
func WeekStrip(v projector.WeekView) string {
	parts := make([]string, 0, len(v.Days))
	for _, d := range v.Days {
		label := d.Date.Weekday().String()[:3]
		var mark string
		switch {
		case d.Completed:
			mark = doneStyle.Render("●")
		case d.IsFuture:
			mark = subtleStyle.Render("·")
		default:
			mark = subtleStyle.Render("○")
		}
		if d.IsToday {
			label = todayStyle.Render(label)
		} else {
			label = subtleStyle.Render(label)
		}
		parts = append(parts, label+" "+mark)
	}
	return strings.Join(parts, "  ")
}

// Stats renders a completion summary for a date range.
func Stats(s stats.Summary) string {
	return fmt.Sprintf("%s → %s: %d of %d days (%s)",
		s.From, s.To, s.CompletedDays, s.TotalDays, Percent(s.Rate))
}

// Percent formats a ratio in [0, 1] as a whole percentage.
func Percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// AchievementSummary is the "n of m unlocked" line above the list.
func AchievementSummary(results []achievement.Result) string {
	t := achievement.Summarize(results)
	return titleStyle.Render("Achievements") + "  " +
		subtleStyle.Render(fmt.Sprintf("%d of %d unlocked (%s)", t.Unlocked, t.Total, Percent(t.Rate)))
}

// Achievements renders results in catalog order, looking up titles in c.
// Results that failed to evaluate are shown with their error instead of progress.
func Achievements(c achievement.Catalog, results []achievement.Result) string {
	lines := []string{AchievementSummary(results), ""}
	for _, r := range results {
		lines = append(lines, achievementLine(c, r))
	}
	return strings.Join(lines, "\n")
}

func achievementLine(c achievement.Catalog, r achievement.Result) string {
	def, ok := c.Lookup(r.DefinitionID)
	title, desc := r.DefinitionID, ""
	if ok {
		title, desc = def.Title, def.Description
	}

	if r.Err != nil {
		return fmt.Sprintf("  ⚠ %s  %s", title, errorStyle.Render(r.Err.Error()))
	}

	var head string
	if r.Unlocked {
		head = "🏆 " + unlockedStyle.Render(title)
		if r.UnlockedDate != nil {
			head += subtleStyle.Render(fmt.Sprintf("  unlocked %s", r.UnlockedDate))
		}
	} else {
		head = "🔒 " + subtleStyle.Render(title)
	}

	line := "  " + head
	if desc != "" {
		line += "\n     " + subtleStyle.Render(desc)
	}
	line += "\n     " + Progress(r.Progress, r.MaxProgress)
	return line
}

// Progress renders a fixed-width bar. Values above limit fill the bar but the
// counter still shows the real value.
func Progress(value, limit int) string {
	filled := 0
	if limit > 0 {
		filled = min(value, limit) * progressBar / limit
	}
	if filled < 0 {
		filled = 0
	}
	bar := doneStyle.Render(strings.Repeat("█", filled)) +
		subtleStyle.Render(strings.Repeat("░", progressBar-filled))
	return fmt.Sprintf("%s %d / %d", bar, value, limit)
}
