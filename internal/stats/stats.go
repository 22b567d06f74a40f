package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/eventlog"
)

// ErrInvalidRange is matched by every *InvalidRangeError via errors.Is
var ErrInvalidRange = errors.New("invalid date range")

// InvalidRangeError reports a range whose end precedes its start.
type InvalidRangeError struct {
	From calendar.Date
	To   calendar.Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s is before %s", e.To, e.From)
}

func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// Summary is the completion rate over an inclusive date range.
type Summary struct {
	From          calendar.Date
	To            calendar.Date
	TotalDays     int
	CompletedDays int
	Rate          float64 // in [0, 1]
}

// Compute summarizes completions in [from, to].
func Compute(log eventlog.Reader, from, to calendar.Date) (Summary, error) {
	if err := from.Validate(); err != nil {
		return Summary{}, err
	}
	if err := to.Validate(); err != nil {
		return Summary{}, err
	}
	if to.Before(from) {
		return Summary{}, &InvalidRangeError{From: from, To: to}
	}

	s := Summary{From: from, To: to, TotalDays: from.DaysUntil(to) + 1}
	for _, d := range log.AllDates() {
		if d.Before(from) {
			continue
		}
		if d.After(to) {
			break
		}
		s.CompletedDays++
	}
	if s.TotalDays > 0 {
		s.Rate = float64(s.CompletedDays) / float64(s.TotalDays)
	}
	return s, nil
}

// TotalWorkouts is the lifetime completion count.
func TotalWorkouts(log eventlog.Reader) int {
	return log.Len()
}

// Month summarizes a whole calendar month.
func Month(log eventlog.Reader, year, month int) (Summary, error) {
	if err := calendar.ValidateMonth(year, month); err != nil {
		return Summary{}, err
	}
	from := calendar.Date{Year: year, Month: month, Day: 1}
	to := calendar.Date{Year: year, Month: month, Day: calendar.DaysInMonth(year, month)}
	return Compute(log, from, to)
}

// Week summarizes the seven-day week containing asOf.
func Week(log eventlog.Reader, asOf calendar.Date, weekStart time.Weekday) (Summary, error) {
	if err := asOf.Validate(); err != nil {
		return Summary{}, err
	}
	if err := calendar.ValidateWeekday(weekStart); err != nil {
		return Summary{}, err
	}
	start := asOf.StartOfWeek(weekStart)
	return Compute(log, start, start.AddDays(6))
}

// Year summarizes a calendar year.
func Year(log eventlog.Reader, year int) (Summary, error) {
	if err := calendar.ValidateMonth(year, 1); err != nil {
		return Summary{}, err
	}
	return Compute(log, calendar.Date{Year: year, Month: 1, Day: 1}, calendar.Date{Year: year, Month: 12, Day: 31})
}

// CountTagged counts events whose muscle groups satisfy match.
func CountTagged(log eventlog.Reader, match func(groups []string) bool) int {
	n := 0
	for _, ev := range log.Events() {
		if match(ev.MuscleGroups) {
			n++
		}
	}
	return n
}
