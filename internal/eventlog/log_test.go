package eventlog

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/julianstephens/streakfit/internal/calendar"
)

func TestAppendIsIdempotent(t *testing.T) {
	l := New()
	d := calendar.MustNew(2024, 1, 15)

	added, err := l.AppendDate(d)
	if err != nil {
		t.Fatalf("AppendDate() error = %v", err)
	}
	if !added {
		t.Error("first AppendDate() reported no insert")
	}
	if !l.Has(d) {
		t.Error("Has() = false after AppendDate()")
	}

	version := l.Version()
	added, err = l.Append(Event{Date: d, WorkoutID: "second"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if added {
		t.Error("second Append() for same day reported an insert")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
	if l.Version() != version {
		t.Errorf("no-op Append changed version from %d to %d", version, l.Version())
	}
	ev, _ := l.Get(d)
	if ev.WorkoutID != "" {
		t.Errorf("duplicate append replaced the original event: %+v", ev)
	}
}

func TestAppendRejectsInvalidDate(t *testing.T) {
	l := New()
	_, err := l.AppendDate(calendar.Date{Year: 2024, Month: 1, Day: 32})
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("AppendDate() error = %v, want ErrInvalidDate", err)
	}
	if l.Len() != 0 || l.Version() != 0 {
		t.Error("invalid append mutated the log")
	}
}

func TestRemove(t *testing.T) {
	t.Run("absent date is a no-op", func(t *testing.T) {
		l := New()
		removed, err := l.Remove(calendar.MustNew(2024, 1, 15))
		if err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if removed {
			t.Error("Remove() on empty log reported a removal")
		}
		if l.Version() != 0 {
			t.Error("no-op Remove changed version")
		}
	})

	t.Run("append then remove round-trips", func(t *testing.T) {
		l := New()
		base := []calendar.Date{calendar.MustNew(2024, 1, 10), calendar.MustNew(2024, 1, 12)}
		for _, d := range base {
			if _, err := l.AppendDate(d); err != nil {
				t.Fatal(err)
			}
		}
		before := l.AllDates()

		d := calendar.MustNew(2024, 1, 11)
		if _, err := l.AppendDate(d); err != nil {
			t.Fatal(err)
		}
		if _, err := l.Remove(d); err != nil {
			t.Fatal(err)
		}

		after := l.AllDates()
		if len(after) != len(before) {
			t.Fatalf("AllDates() = %v, want %v", after, before)
		}
		for i := range before {
			if before[i] != after[i] {
				t.Errorf("AllDates()[%d] = %v, want %v", i, after[i], before[i])
			}
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		l := New()
		if _, err := l.Remove(calendar.Date{Year: 2024, Month: 2, Day: 30}); err == nil {
			t.Error("Remove() accepted an invalid date")
		}
	})
}

func TestAllDatesAscending(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	l := New()
	start := calendar.MustNew(2023, 1, 1)
	for i := 0; i < 200; i++ {
		if _, err := l.AppendDate(start.AddDays(rng.Intn(730))); err != nil {
			t.Fatal(err)
		}
	}

	dates := l.AllDates()
	if len(dates) != l.Len() {
		t.Fatalf("len(AllDates()) = %d, Len() = %d", len(dates), l.Len())
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Fatalf("AllDates() not strictly ascending at %d: %v, %v", i, dates[i-1], dates[i])
		}
	}

	events := l.Events()
	for i := range events {
		if events[i].Date != dates[i] {
			t.Fatalf("Events()[%d].Date = %v, want %v", i, events[i].Date, dates[i])
		}
	}
}

func TestNewFromEventsDedupes(t *testing.T) {
	d := calendar.MustNew(2024, 3, 1)
	l, err := NewFromEvents([]Event{
		{Date: d, WorkoutID: "a"},
		{Date: d, WorkoutID: "b"},
		{Date: d.AddDays(1)},
	})
	if err != nil {
		t.Fatalf("NewFromEvents() error = %v", err)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if ev, _ := l.Get(d); ev.WorkoutID != "a" {
		t.Errorf("kept event %q, want first event", ev.WorkoutID)
	}
}

func TestConcurrentAppendsSameDay(t *testing.T) {
	l := New()
	d := calendar.MustNew(2024, 5, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	inserts := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := l.AppendDate(d)
			if err != nil {
				t.Error(err)
				return
			}
			if added {
				mu.Lock()
				inserts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if inserts != 1 {
		t.Errorf("concurrent appends inserted %d times, want 1", inserts)
	}
	if l.Version() != 1 {
		t.Errorf("Version() = %d, want 1", l.Version())
	}
}

func TestMuscleGroupsAreCopied(t *testing.T) {
	l := New()
	groups := []string{"chest"}
	d := calendar.MustNew(2024, 1, 1)
	if _, err := l.Append(Event{Date: d, MuscleGroups: groups}); err != nil {
		t.Fatal(err)
	}
	groups[0] = "legs"

	ev, _ := l.Get(d)
	if ev.MuscleGroups[0] != "chest" {
		t.Errorf("stored muscle groups aliased caller slice: %v", ev.MuscleGroups)
	}
}
