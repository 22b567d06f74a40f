package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat is the canonical text form of a Date (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ErrInvalidDate is matched by every *InvalidDateError via errors.Is
var ErrInvalidDate = errors.New("invalid calendar date")

// InvalidDateError reports a malformed or impossible calendar date.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// Date is a timezone-naive Gregorian calendar day with no time-of-day component.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New returns a validated Date.
func New(year, month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// MustNew is New for literals known to be valid. It panics otherwise.
func MustNew(year, month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, &InvalidDateError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	return New(t.Year(), int(t.Month()), t.Day())
}

// FromTime returns the date part of t in t's own location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Today returns the current date in loc. A nil loc means time.Local.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(time.Now().In(loc))
}

// DaysInMonth returns the number of days in the given month, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ErrInvalidWeekday is returned for a week start outside Sunday..Saturday.
var ErrInvalidWeekday = errors.New("invalid weekday")

// ValidateWeekday checks that wd is one of time.Sunday..time.Saturday.
func ValidateWeekday(wd time.Weekday) error {
	if wd < time.Sunday || wd > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, int(wd))
	}
	return nil
}

// ValidateMonth checks a (year, month) pair.
func ValidateMonth(year, month int) error {
	if year < 1 || year > 9999 {
		return &InvalidDateError{Input: fmt.Sprintf("%04d-%02d", year, month), Reason: "year out of range"}
	}
	if month < 1 || month > 12 {
		return &InvalidDateError{Input: fmt.Sprintf("%04d-%02d", year, month), Reason: "month out of range"}
	}
	return nil
}

// Validate reports whether d names a real Gregorian day.
func (d Date) Validate() error {
	if err := ValidateMonth(d.Year, d.Month); err != nil {
		return &InvalidDateError{Input: d.raw(), Reason: err.(*InvalidDateError).Reason}
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return &InvalidDateError{Input: d.raw(), Reason: "day out of range"}
	}
	return nil
}

func (d Date) raw() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return d.raw()
}

func (d Date) time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.time().AddDate(0, 0, n))
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// FirstOfMonth returns day 1 of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// StartOfWeek returns the most recent weekStart day on or before d.
func (d Date) StartOfWeek(weekStart time.Weekday) Date {
	offset := ((int(d.Weekday())-int(weekStart))%7 + 7) % 7
	return d.AddDays(-offset)
}

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	// Unix seconds avoid the ~292 year range limit of time.Duration.
	return int((other.time().Unix() - d.time().Unix()) / 86400)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(d.Month, other.Month)
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
