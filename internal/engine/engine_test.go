package engine

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

func newStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("store Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func openEngine(t *testing.T, path string, opts Options) *Engine {
	t.Helper()
	e := New(newStore(t, path), opts)
	if err := e.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return e
}

func completeDays(t *testing.T, e *Engine, days ...calendar.Date) {
	t.Helper()
	for _, d := range days {
		if _, err := e.Complete(eventlog.Event{Date: d}); err != nil {
			t.Fatalf("Complete(%s) error = %v", d, err)
		}
	}
}

func TestNotOpened(t *testing.T) {
	e := New(sqlite.NewStore(filepath.Join(t.TempDir(), "x.db")), Options{})
	if _, err := e.Complete(eventlog.Event{Date: calendar.MustNew(2024, 1, 1)}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Complete() before Open error = %v, want ErrNotOpen", err)
	}
	if _, err := e.Streak(calendar.MustNew(2024, 1, 1)); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Streak() before Open error = %v, want ErrNotOpen", err)
	}
}

func TestCompleteReadYourWrites(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})
	today := calendar.MustNew(2024, 1, 15)

	s, err := e.Streak(today)
	if err != nil {
		t.Fatal(err)
	}
	if s.Current != 0 {
		t.Fatalf("initial Current = %d", s.Current)
	}

	added, err := e.Complete(eventlog.Event{Date: today, MuscleGroups: []string{"chest"}})
	if err != nil || !added {
		t.Fatalf("Complete() = %v, %v", added, err)
	}

	s, err = e.Streak(today)
	if err != nil {
		t.Fatal(err)
	}
	if s.Current != 1 || s.Longest != 1 {
		t.Errorf("Streak() after Complete = %+v, want 1/1", s)
	}
	if e.TotalWorkouts() != 1 || !e.IsCompleted(today) {
		t.Error("completion not visible to reads")
	}

	again, err := e.Complete(eventlog.Event{Date: today})
	if err != nil || again {
		t.Errorf("second Complete() = %v, %v; want false, nil", again, err)
	}
	if e.TotalWorkouts() != 1 {
		t.Errorf("TotalWorkouts() = %d after duplicate, want 1", e.TotalWorkouts())
	}
}

func TestCompleteValidation(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})

	if _, err := e.Complete(eventlog.Event{Date: calendar.Date{Year: 2023, Month: 2, Day: 29}}); !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("Complete(invalid date) error = %v, want ErrInvalidDate", err)
	}

	_, err := e.Complete(eventlog.Event{Date: calendar.MustNew(2024, 1, 1), MuscleGroups: []string{"wings"}})
	var groupErr *UnknownMuscleGroupError
	if !errors.As(err, &groupErr) || groupErr.Group != "wings" {
		t.Errorf("Complete(unknown group) error = %v", err)
	}
	if e.TotalWorkouts() != 0 {
		t.Error("rejected completion was recorded")
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streakfit.db")
	start := calendar.MustNew(2024, 1, 10)

	first := openEngine(t, path, Options{})
	completeDays(t, first, start, start.AddDays(1), start.AddDays(2))
	if _, err := first.Complete(eventlog.Event{Date: start.AddDays(3), WorkoutID: "legs-1", MuscleGroups: []string{"legs", "glutes"}}); err != nil {
		t.Fatal(err)
	}

	second := openEngine(t, path, Options{})
	s, err := second.Streak(start.AddDays(3))
	if err != nil {
		t.Fatal(err)
	}
	if s.Current != 4 {
		t.Errorf("Current after restart = %d, want 4", s.Current)
	}

	events := second.Events()
	last := events[len(events)-1]
	if last.WorkoutID != "legs-1" || len(last.MuscleGroups) != 2 {
		t.Errorf("tags lost across restart: %+v", last)
	}
}

func TestUncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streakfit.db")
	e := openEngine(t, path, Options{})
	d := calendar.MustNew(2024, 1, 15)
	completeDays(t, e, d.AddDays(-1), d)

	removed, err := e.Uncomplete(d)
	if err != nil || !removed {
		t.Fatalf("Uncomplete() = %v, %v", removed, err)
	}
	s, _ := e.Streak(d)
	if s.Current != 0 || s.Longest != 1 {
		t.Errorf("Streak() after Uncomplete = %+v", s)
	}

	removed, err = e.Uncomplete(d)
	if err != nil || removed {
		t.Errorf("second Uncomplete() = %v, %v; want false, nil", removed, err)
	}

	reopened := openEngine(t, path, Options{})
	if reopened.IsCompleted(d) {
		t.Error("removal was not persisted")
	}
}

func TestStickyUnlockPersistedAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streakfit.db")
	catalog := achievement.Catalog{Definitions: []achievement.Definition{
		{ID: "week-warrior", Title: "Week Warrior", Category: achievement.CategoryStreak, Metric: "current_streak", Threshold: 7},
	}}
	unlockDay := calendar.MustNew(2024, 1, 21)

	e := openEngine(t, path, Options{Catalog: catalog})
	for i := 6; i >= 0; i-- {
		completeDays(t, e, unlockDay.AddDays(-i))
	}

	results, err := e.Achievements(unlockDay)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Unlocked || *results[0].UnlockedDate != unlockDay {
		t.Fatalf("Achievements() = %+v", results[0].State)
	}

	// Break the streak, then reopen against the same database.
	if _, err := e.Uncomplete(unlockDay.AddDays(-3)); err != nil {
		t.Fatal(err)
	}

	reopened := openEngine(t, path, Options{Catalog: catalog})
	later := unlockDay.AddDays(30)
	results, err = reopened.Achievements(later)
	if err != nil {
		t.Fatal(err)
	}
	got := results[0]
	if !got.Unlocked {
		t.Error("unlock revoked after restart")
	}
	if got.UnlockedDate == nil || *got.UnlockedDate != unlockDay {
		t.Errorf("UnlockedDate = %v, want %v", got.UnlockedDate, unlockDay)
	}
	if got.Progress != 0 {
		t.Errorf("Progress = %d, want 0 with no current streak", got.Progress)
	}
}

func TestResetAchievements(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})
	d := calendar.MustNew(2024, 1, 15)
	completeDays(t, e, d)

	results, err := e.Achievements(d)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Unlocked {
		t.Fatal("first-step should unlock after one workout")
	}

	if _, err := e.Uncomplete(d); err != nil {
		t.Fatal(err)
	}
	if err := e.ResetAchievements(); err != nil {
		t.Fatal(err)
	}
	results, err = e.Achievements(d)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Unlocked {
		t.Error("first-step still unlocked after reset with an empty log")
	}
}

func TestAchievementsReturnsCopies(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})
	d := calendar.MustNew(2024, 1, 15)
	completeDays(t, e, d)

	first, err := e.Achievements(d)
	if err != nil {
		t.Fatal(err)
	}
	*first[0].UnlockedDate = calendar.MustNew(1999, 1, 1)
	first[0].Progress = 999

	second, err := e.Achievements(d)
	if err != nil {
		t.Fatal(err)
	}
	if *second[0].UnlockedDate != d || second[0].Progress != 1 {
		t.Errorf("cached results were mutated through a returned slice: %+v", second[0].State)
	}
}

func TestProjectionsUseWeekStart(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{WeekStart: time.Monday})
	completeDays(t, e, calendar.MustNew(2024, 1, 1), calendar.MustNew(2024, 1, 2))

	// January 2024 starts on a Monday: no leading padding with a Monday start.
	month, err := e.Month(2024, 1)
	if err != nil {
		t.Fatal(err)
	}
	if month.Cells[0].Day != 1 || month.CompletedDays() != 2 {
		t.Errorf("Month() first cell = %+v, completed = %d", month.Cells[0], month.CompletedDays())
	}

	week, err := e.Week(calendar.MustNew(2024, 1, 3))
	if err != nil {
		t.Fatal(err)
	}
	if week.Start != calendar.MustNew(2024, 1, 1) || !week.Days[0].Completed || week.Days[2].Completed {
		t.Errorf("Week() = %+v", week)
	}

	summary, err := e.Stats(calendar.MustNew(2024, 1, 1), calendar.MustNew(2024, 1, 4))
	if err != nil {
		t.Fatal(err)
	}
	if summary.CompletedDays != 2 || summary.Rate != 0.5 {
		t.Errorf("Stats() = %+v", summary)
	}
}

func TestImport(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})
	d := calendar.MustNew(2024, 1, 15)
	completeDays(t, e, d)

	n, err := e.Import([]eventlog.Event{{Date: d}, {Date: d.AddDays(1)}, {Date: d.AddDays(2)}})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Import() added %d, want 2", n)
	}

	_, err = e.Import([]eventlog.Event{{Date: calendar.Date{Year: 2024, Month: 13, Day: 1}}})
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("Import(invalid) error = %v", err)
	}
}

func TestImportValidatesWholeBatch(t *testing.T) {
	d := calendar.MustNew(2024, 1, 15)
	tests := []struct {
		name    string
		events  []eventlog.Event
		wantErr error
	}{
		{
			"invalid date after valid rows",
			[]eventlog.Event{{Date: d}, {Date: d.AddDays(1)}, {Date: calendar.Date{Year: 2024, Month: 2, Day: 30}}},
			calendar.ErrInvalidDate,
		},
		{
			"unknown muscle group after valid rows",
			[]eventlog.Event{{Date: d, MuscleGroups: []string{"legs"}}, {Date: d.AddDays(1), MuscleGroups: []string{"wings"}}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "streakfit.db")
			e := openEngine(t, path, Options{})

			n, err := e.Import(tt.events)
			if err == nil {
				t.Fatal("expected Import to fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Import() error = %v, want %v", err, tt.wantErr)
			}
			var groupErr *UnknownMuscleGroupError
			if tt.wantErr == nil && !errors.As(err, &groupErr) {
				t.Errorf("Import() error = %v, want UnknownMuscleGroupError", err)
			}
			if n != 0 || e.TotalWorkouts() != 0 {
				t.Errorf("Import() added %d, log has %d; want nothing", n, e.TotalWorkouts())
			}
			stored, err := e.store.GetAllCompletions()
			if err != nil {
				t.Fatal(err)
			}
			if len(stored) != 0 {
				t.Errorf("%d completions stored by a rejected import", len(stored))
			}
		})
	}
}

func TestRestoreUnlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streakfit.db")
	e := openEngine(t, path, Options{})

	bad := []struct {
		name    string
		unlocks []models.AchievementUnlock
	}{
		{"bad day", []models.AchievementUnlock{{AchievementID: "first-step", Day: "not-a-day"}}},
		{"unknown id", []models.AchievementUnlock{{AchievementID: "retired-badge", Day: "2024-01-01"}}},
		{"bad row after good", []models.AchievementUnlock{
			{AchievementID: "first-step", Day: "2024-01-01"},
			{AchievementID: "week-warrior", Day: "2024-02-31"},
		}},
	}
	for _, tt := range bad {
		if _, err := e.RestoreUnlocks(tt.unlocks); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
	if unlocks, _ := e.store.GetAchievementUnlocks(); len(unlocks) != 0 {
		t.Fatalf("rejected unlocks were stored: %+v", unlocks)
	}

	n, err := e.RestoreUnlocks([]models.AchievementUnlock{{AchievementID: "first-step", Day: "2023-06-01"}})
	if err != nil || n != 1 {
		t.Fatalf("RestoreUnlocks() = %d, %v", n, err)
	}
	// An existing unlock keeps its date.
	if n, _ := e.RestoreUnlocks([]models.AchievementUnlock{{AchievementID: "first-step", Day: "2024-01-01"}}); n != 0 {
		t.Errorf("second RestoreUnlocks() = %d, want 0", n)
	}

	results, err := e.Achievements(calendar.MustNew(2024, 1, 15))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.DefinitionID != "first-step" {
			continue
		}
		if !r.Unlocked || r.UnlockedDate == nil || *r.UnlockedDate != calendar.MustNew(2023, 6, 1) {
			t.Errorf("first-step = %+v, want unlocked on 2023-06-01", r.State)
		}
	}
}

func TestOpenSkipsUnlockWithInvalidDay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streakfit.db")
	store := newStore(t, path)
	if err := store.SaveAchievementUnlock(models.AchievementUnlock{AchievementID: "first-step", Day: "not-a-day"}); err != nil {
		t.Fatal(err)
	}

	e := New(store, Options{})
	if err := e.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := e.ResetAchievements(); err != nil {
		t.Errorf("ResetAchievements() error = %v", err)
	}
}

func TestEventFromCompletion(t *testing.T) {
	ev, err := EventFromCompletion(models.Completion{ID: "a", Day: "2024-01-15", MuscleGroups: []string{"core"}})
	if err != nil || ev.Date != calendar.MustNew(2024, 1, 15) || ev.MuscleGroups[0] != "core" {
		t.Errorf("EventFromCompletion() = %+v, %v", ev, err)
	}
	if _, err := EventFromCompletion(models.Completion{ID: "b", Day: "15/01/2024"}); err == nil {
		t.Error("expected error for malformed stored day")
	}
}

func TestConcurrentCompletes(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})
	start := calendar.MustNew(2024, 1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Two goroutines per day.
			if _, err := e.Complete(eventlog.Event{Date: start.AddDays(i % 10)}); err != nil {
				t.Errorf("Complete() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := e.TotalWorkouts(); got != 10 {
		t.Errorf("TotalWorkouts() = %d, want 10", got)
	}
	s, err := e.Streak(start.AddDays(9))
	if err != nil {
		t.Fatal(err)
	}
	if s.Current != 10 {
		t.Errorf("Current = %d, want 10", s.Current)
	}
}

func TestCountTagged(t *testing.T) {
	e := openEngine(t, filepath.Join(t.TempDir(), "streakfit.db"), Options{})
	d := calendar.MustNew(2024, 1, 1)
	for i, groups := range [][]string{{"chest"}, {"legs"}, {"arms", "core"}, nil} {
		if _, err := e.Complete(eventlog.Event{Date: d.AddDays(i), MuscleGroups: groups}); err != nil {
			t.Fatal(err)
		}
	}
	upper := e.CountTagged(func(groups []string) bool { return models.InArea(groups, models.AreaUpper) })
	if upper != 2 {
		t.Errorf("CountTagged(upper) = %d, want 2", upper)
	}
}
