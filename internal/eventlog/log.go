package eventlog

import (
	"slices"
	"sync"

	"github.com/julianstephens/streakfit/internal/calendar"
)

// Event is a single day's workout completion.
type Event struct {
	Date         calendar.Date
	WorkoutID    string   // optional
	MuscleGroups []string // optional tagging supplied by the caller
}

// Reader is the read side of a Log consumed by the projections.
type Reader interface {
	Has(d calendar.Date) bool
	AllDates() []calendar.Date
	Events() []Event
	Len() int
}

// Log is an ordered-by-date set of completion events with at most one event per day.
// Mutations are serialized; any number of readers may run concurrently.
type Log struct {
	mu      sync.RWMutex
	events  map[calendar.Date]Event
	version uint64
}

// New returns an empty Log.
func New() *Log {
	return &Log{events: make(map[calendar.Date]Event)}
}

// NewFromEvents builds a Log from persisted events. Duplicate dates keep the first event.
func NewFromEvents(events []Event) (*Log, error) {
	l := New()
	for _, ev := range events {
		if _, err := l.Append(ev); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append records a completion. It reports false without changing anything
// when the day already has one.
func (l *Log) Append(ev Event) (bool, error) {
	if err := ev.Date.Validate(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.events[ev.Date]; ok {
		return false, nil
	}
	ev.MuscleGroups = slices.Clone(ev.MuscleGroups)
	l.events[ev.Date] = ev
	l.version++
	return true, nil
}

// AppendDate records an untagged completion for d.
func (l *Log) AppendDate(d calendar.Date) (bool, error) {
	return l.Append(Event{Date: d})
}

// Remove deletes the completion for d if present.
func (l *Log) Remove(d calendar.Date) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.events[d]; !ok {
		return false, nil
	}
	delete(l.events, d)
	l.version++
	return true, nil
}

func (l *Log) Has(d calendar.Date) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.events[d]
	return ok
}

// Get returns the event recorded for d.
func (l *Log) Get(d calendar.Date) (Event, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ev, ok := l.events[d]
	if ok {
		ev.MuscleGroups = slices.Clone(ev.MuscleGroups)
	}
	return ev, ok
}

// AllDates returns every completed day in ascending order.
func (l *Log) AllDates() []calendar.Date {
	l.mu.RLock()
	dates := make([]calendar.Date, 0, len(l.events))
	for d := range l.events {
		dates = append(dates, d)
	}
	l.mu.RUnlock()

	slices.SortFunc(dates, calendar.Date.Compare)
	return dates
}

// Events returns copies of every event in ascending date order.
func (l *Log) Events() []Event {
	l.mu.RLock()
	events := make([]Event, 0, len(l.events))
	for _, ev := range l.events {
		ev.MuscleGroups = slices.Clone(ev.MuscleGroups)
		events = append(events, ev)
	}
	l.mu.RUnlock()

	slices.SortFunc(events, func(a, b Event) int { return a.Date.Compare(b.Date) })
	return events
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Version increases with every effective mutation. No-op appends and removes leave it unchanged.
func (l *Log) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}
