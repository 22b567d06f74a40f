package projector

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/eventlog"
)

func TestProjectMonthShape(t *testing.T) {
	l := eventlog.New()
	weekStarts := []time.Weekday{time.Sunday, time.Monday, time.Saturday}

	for year := 2023; year <= 2025; year++ {
		for month := 1; month <= 12; month++ {
			for _, ws := range weekStarts {
				view, err := ProjectMonth(l, year, month, ws)
				if err != nil {
					t.Fatalf("ProjectMonth(%d, %d) error = %v", year, month, err)
				}
				if len(view.Cells)%7 != 0 {
					t.Errorf("%d-%02d/%v: %d cells, not a multiple of 7", year, month, ws, len(view.Cells))
				}
				if got, want := view.DaysInMonth(), calendar.DaysInMonth(year, month); got != want {
					t.Errorf("%d-%02d/%v: %d day cells, want %d", year, month, ws, got, want)
				}
				if len(view.Cells) > 42 {
					t.Errorf("%d-%02d/%v: %d cells, more than six weeks", year, month, ws, len(view.Cells))
				}
			}
		}
	}
}

func TestProjectMonthLeadingPadding(t *testing.T) {
	// January 2024 starts on a Monday.
	tests := []struct {
		name      string
		weekStart time.Weekday
		wantLead  int
	}{
		{name: "sunday start", weekStart: time.Sunday, wantLead: 1},
		{name: "monday start", weekStart: time.Monday, wantLead: 0},
		{name: "tuesday start", weekStart: time.Tuesday, wantLead: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := ProjectMonth(eventlog.New(), 2024, 1, tt.weekStart)
			if err != nil {
				t.Fatal(err)
			}
			lead := 0
			for _, c := range view.Cells {
				if !c.Empty() {
					break
				}
				lead++
			}
			if lead != tt.wantLead {
				t.Errorf("leading empties = %d, want %d", lead, tt.wantLead)
			}
			if view.Cells[lead].Day != 1 {
				t.Errorf("first day cell = %d, want 1", view.Cells[lead].Day)
			}
		})
	}
}

func TestProjectMonthCompletion(t *testing.T) {
	l := eventlog.New()
	for _, d := range []calendar.Date{
		calendar.MustNew(2024, 2, 1),
		calendar.MustNew(2024, 2, 29),
		calendar.MustNew(2024, 3, 1),
	} {
		if _, err := l.AppendDate(d); err != nil {
			t.Fatal(err)
		}
	}

	view, err := ProjectMonth(l, 2024, 2, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	if got := view.CompletedDays(); got != 2 {
		t.Errorf("CompletedDays() = %d, want 2", got)
	}
	for _, c := range view.Cells {
		if c.Empty() && c.Completed {
			t.Error("padding cell marked completed")
		}
		if !c.Empty() && c.Completed != (c.Day == 1 || c.Day == 29) {
			t.Errorf("day %d completed = %v", c.Day, c.Completed)
		}
	}

	// Deterministic: projecting twice yields the same cells.
	again, _ := ProjectMonth(l, 2024, 2, time.Sunday)
	for i := range view.Cells {
		if view.Cells[i] != again.Cells[i] {
			t.Fatalf("cell %d differs between projections", i)
		}
	}
}

func TestProjectMonthInvalid(t *testing.T) {
	_, err := ProjectMonth(eventlog.New(), 2024, 13, time.Sunday)
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("ProjectMonth() error = %v, want ErrInvalidDate", err)
	}
}

func TestWeeksAndHeaders(t *testing.T) {
	view, err := ProjectMonth(eventlog.New(), 2024, 6, time.Monday)
	if err != nil {
		t.Fatal(err)
	}
	weeks := view.Weeks()
	if len(weeks)*7 != len(view.Cells) {
		t.Errorf("Weeks() returned %d rows for %d cells", len(weeks), len(view.Cells))
	}
	headers := view.WeekdayHeaders()
	if headers[0] != time.Monday || headers[6] != time.Sunday {
		t.Errorf("WeekdayHeaders() = %v", headers)
	}
}

func TestProjectWeek(t *testing.T) {
	l := eventlog.New()
	for _, d := range []calendar.Date{calendar.MustNew(2024, 1, 15), calendar.MustNew(2024, 1, 16)} {
		if _, err := l.AppendDate(d); err != nil {
			t.Fatal(err)
		}
	}

	// Thursday 2024-01-18, week starting Sunday 2024-01-14.
	week, err := ProjectWeek(l, calendar.MustNew(2024, 1, 18), time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	if week.Start != calendar.MustNew(2024, 1, 14) {
		t.Errorf("Start = %v", week.Start)
	}
	if len(week.Days) != 7 {
		t.Fatalf("len(Days) = %d", len(week.Days))
	}
	if !week.Days[1].Completed || !week.Days[2].Completed || week.Days[3].Completed {
		t.Errorf("unexpected completion flags: %+v", week.Days)
	}
	if !week.Days[4].IsToday {
		t.Error("Thursday not flagged as today")
	}
	if !week.Days[5].IsFuture || week.Days[3].IsFuture {
		t.Error("future flags wrong")
	}
}

func TestInvalidWeekStart(t *testing.T) {
	l := eventlog.New()
	for _, ws := range []time.Weekday{-1, 7, 10} {
		if _, err := ProjectMonth(l, 2024, 2, ws); !errors.Is(err, calendar.ErrInvalidWeekday) {
			t.Errorf("ProjectMonth(week start %d) error = %v, want ErrInvalidWeekday", ws, err)
		}
		if _, err := ProjectWeek(l, calendar.MustNew(2024, 2, 14), ws); !errors.Is(err, calendar.ErrInvalidWeekday) {
			t.Errorf("ProjectWeek(week start %d) error = %v, want ErrInvalidWeekday", ws, err)
		}
	}
}
