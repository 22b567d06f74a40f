package projector

import (
	"time"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/eventlog"
)

// DayCell is one slot of a month grid. Day is 0 for padding cells.
type DayCell struct {
	Day       int
	Completed bool
}

// Empty reports whether the cell is padding outside the month.
func (c DayCell) Empty() bool {
	return c.Day == 0
}

// MonthView is a month laid out in full weeks starting on WeekStart.
type MonthView struct {
	Year      int
	Month     int
	WeekStart time.Weekday
	Cells     []DayCell
}

// ProjectMonth lays out the given month as full weeks, marking completed days from log.
func ProjectMonth(log eventlog.Reader, year, month int, weekStart time.Weekday) (MonthView, error) {
	if err := calendar.ValidateMonth(year, month); err != nil {
		return MonthView{}, err
	}
	if err := calendar.ValidateWeekday(weekStart); err != nil {
		return MonthView{}, err
	}

	first := calendar.Date{Year: year, Month: month, Day: 1}
	days := calendar.DaysInMonth(year, month)
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	total := lead + days
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	view := MonthView{
		Year:      year,
		Month:     month,
		WeekStart: weekStart,
		Cells:     make([]DayCell, total),
	}
	for day := 1; day <= days; day++ {
		d := calendar.Date{Year: year, Month: month, Day: day}
		view.Cells[lead+day-1] = DayCell{Day: day, Completed: log.Has(d)}
	}
	return view, nil
}

// Weeks splits the cells into rows of seven.
func (v MonthView) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, len(v.Cells)/7)
	for i := 0; i+7 <= len(v.Cells); i += 7 {
		weeks = append(weeks, v.Cells[i:i+7])
	}
	return weeks
}

// DaysInMonth counts the non-padding cells.
func (v MonthView) DaysInMonth() int {
	n := 0
	for _, c := range v.Cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}

func (v MonthView) CompletedDays() int {
	n := 0
	for _, c := range v.Cells {
		if c.Completed {
			n++
		}
	}
	return n
}

// WeekdayHeaders returns the column order of the grid.
func (v MonthView) WeekdayHeaders() []time.Weekday {
	headers := make([]time.Weekday, 7)
	for i := range headers {
		headers[i] = time.Weekday((int(v.WeekStart) + i) % 7)
	}
	return headers
}

// WeekDay is one day of the home-screen week strip.
type WeekDay struct {
	Date      calendar.Date
	Completed bool
	IsToday   bool
	IsFuture  bool
}

// WeekView is the seven days of the week containing a reference date.
type WeekView struct {
	Start calendar.Date
	Days  []WeekDay
}

// ProjectWeek returns the week containing asOf, starting on weekStart.
func ProjectWeek(log eventlog.Reader, asOf calendar.Date, weekStart time.Weekday) (WeekView, error) {
	if err := asOf.Validate(); err != nil {
		return WeekView{}, err
	}
	if err := calendar.ValidateWeekday(weekStart); err != nil {
		return WeekView{}, err
	}

	start := asOf.StartOfWeek(weekStart)
	view := WeekView{Start: start, Days: make([]WeekDay, 7)}
	for i := range view.Days {
		d := start.AddDays(i)
		view.Days[i] = WeekDay{
			Date:      d,
			Completed: log.Has(d),
			IsToday:   d == asOf,
			IsFuture:  d.After(asOf),
		}
	}
	return view, nil
}
