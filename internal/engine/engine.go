// Package engine binds the event log and its projections to persistent storage.
//
// Every mutation is written to the store before it is applied to the in-memory
// log, so a successful Complete is visible to the next read. Derived streak and
// achievement results are cached until the log changes or a different as-of
// date is requested.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/logger"
	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/projector"
	"github.com/julianstephens/streakfit/internal/stats"
	"github.com/julianstephens/streakfit/internal/storage"
	"github.com/julianstephens/streakfit/internal/streak"
)

var (
	// ErrNotOpen is returned by operations that need Open to have succeeded.
	ErrNotOpen = errors.New("engine not opened")
	// ErrUnknownAchievement marks an unlock for an ID missing from the catalog.
	ErrUnknownAchievement = errors.New("achievement not in catalog")
)

// UnknownMuscleGroupError reports a completion tagged with an unsupported group.
type UnknownMuscleGroupError struct {
	Group string
}

func (e *UnknownMuscleGroupError) Error() string {
	return fmt.Sprintf("unknown muscle group %q", e.Group)
}

type Options struct {
	WeekStart time.Weekday
	// Catalog defaults to achievement.DefaultCatalog when empty.
	Catalog achievement.Catalog
}

type Engine struct {
	mu    sync.Mutex
	store storage.Provider
	opts  Options
	log   *eventlog.Log
	prior map[string]achievement.State

	cache derived
}

// derived holds projections valid for one (log version, as-of) pair.
type derived struct {
	valid        bool
	version      uint64
	asOf         calendar.Date
	streak       *streak.State
	achievements []achievement.Result
}

func (d *derived) lookup(version uint64, asOf calendar.Date) bool {
	if !d.valid || d.version != version || d.asOf != asOf {
		*d = derived{valid: true, version: version, asOf: asOf}
		return false
	}
	return true
}

func New(store storage.Provider, opts Options) *Engine {
	if len(opts.Catalog.Definitions) == 0 {
		opts.Catalog = achievement.DefaultCatalog()
	}
	return &Engine{
		store: store,
		opts:  opts,
	}
}

// Open hydrates the log and the recorded unlocks from the store.
// The store must already be loaded.
func (e *Engine) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	completions, err := e.store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}
	events := make([]eventlog.Event, 0, len(completions))
	for _, c := range completions {
		ev, err := EventFromCompletion(c)
		if err != nil {
			return err
		}
		events = append(events, ev)
	}
	l, err := eventlog.NewFromEvents(events)
	if err != nil {
		return err
	}

	unlocks, err := e.store.GetAchievementUnlocks()
	if err != nil {
		return fmt.Errorf("failed to load achievement unlocks: %w", err)
	}
	prior := make(map[string]achievement.State, len(unlocks))
	for _, u := range unlocks {
		day, err := calendar.Parse(u.Day)
		if err != nil {
			// A bad row must not lock the user out; doctor reports it and reset clears it.
			logger.Warn("Ignoring unlock with invalid day", "id", u.AchievementID, "day", u.Day)
			continue
		}
		prior[u.AchievementID] = achievement.State{DefinitionID: u.AchievementID, Unlocked: true, UnlockedDate: &day}
	}

	e.log = l
	e.prior = prior
	e.cache = derived{}
	logger.Debug("Engine opened", "completions", l.Len(), "unlocks", len(prior))
	return nil
}

// ValidateEvent checks the date and muscle groups of ev.
func ValidateEvent(ev eventlog.Event) error {
	if err := ev.Date.Validate(); err != nil {
		return err
	}
	for _, g := range ev.MuscleGroups {
		if _, ok := models.LookupMuscleGroup(g); !ok {
			return &UnknownMuscleGroupError{Group: g}
		}
	}
	return nil
}

// EventFromCompletion converts a stored record into a log event.
func EventFromCompletion(c models.Completion) (eventlog.Event, error) {
	d, err := calendar.Parse(c.Day)
	if err != nil {
		return eventlog.Event{}, fmt.Errorf("completion %s: %w", c.ID, err)
	}
	return eventlog.Event{Date: d, WorkoutID: c.WorkoutID, MuscleGroups: c.MuscleGroups}, nil
}

func (e *Engine) ready() error {
	if e.log == nil {
		return ErrNotOpen
	}
	return nil
}

// WeekStart is the configured first day of the week.
func (e *Engine) WeekStart() time.Weekday {
	return e.opts.WeekStart
}

// Catalog returns the achievement definitions in display order.
func (e *Engine) Catalog() achievement.Catalog {
	return e.opts.Catalog
}

// Complete records ev. Completing an already completed day is a no-op that
// reports false.
func (e *Engine) Complete(ev eventlog.Event) (bool, error) {
	if err := ValidateEvent(ev); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return false, err
	}

	if e.log.Has(ev.Date) {
		return false, nil
	}

	added, err := e.store.AddCompletion(models.Completion{
		Day:          ev.Date.String(),
		WorkoutID:    ev.WorkoutID,
		MuscleGroups: ev.MuscleGroups,
	})
	if err != nil {
		return false, err
	}
	if !added {
		// Another writer got there first; the log still has to reflect it.
		logger.Warn("Completion already stored", "day", ev.Date)
	}

	if _, err := e.log.Append(ev); err != nil {
		return false, err
	}
	logger.Debug("Completion recorded", "day", ev.Date, "groups", ev.MuscleGroups)
	return true, nil
}

// Uncomplete removes the completion for d, reporting false if there was none.
// Achievements already unlocked stay unlocked.
func (e *Engine) Uncomplete(d calendar.Date) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return false, err
	}

	if !e.log.Has(d) {
		return false, nil
	}
	if err := e.store.DeleteCompletion(d.String()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	if _, err := e.log.Remove(d); err != nil {
		return false, err
	}
	logger.Debug("Completion removed", "day", d)
	return true, nil
}

// IsCompleted reports whether d has a completion.
func (e *Engine) IsCompleted(d calendar.Date) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log != nil && e.log.Has(d)
}

// Events returns a snapshot of all completions in ascending date order.
func (e *Engine) Events() []eventlog.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.log == nil {
		return nil
	}
	return e.log.Events()
}

// Streak returns the streak state as of asOf.
func (e *Engine) Streak(asOf calendar.Date) (streak.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streakLocked(asOf)
}

func (e *Engine) streakLocked(asOf calendar.Date) (streak.State, error) {
	if err := e.ready(); err != nil {
		return streak.State{}, err
	}
	if e.cache.lookup(e.log.Version(), asOf) && e.cache.streak != nil {
		return *e.cache.streak, nil
	}
	s, err := streak.Compute(e.log, asOf)
	if err != nil {
		return streak.State{}, err
	}
	e.cache.streak = &s
	return s, nil
}

// Resumable returns the run that completing asOf would extend.
func (e *Engine) Resumable(asOf calendar.Date) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return 0, err
	}
	return streak.Resumable(e.log, asOf), nil
}

// Month returns the calendar grid for the given month.
func (e *Engine) Month(year, month int) (projector.MonthView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return projector.MonthView{}, err
	}
	return projector.ProjectMonth(e.log, year, month, e.opts.WeekStart)
}

// Week returns the week strip containing asOf.
func (e *Engine) Week(asOf calendar.Date) (projector.WeekView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return projector.WeekView{}, err
	}
	return projector.ProjectWeek(e.log, asOf, e.opts.WeekStart)
}

// Stats returns the completion rate over [from, to].
func (e *Engine) Stats(from, to calendar.Date) (stats.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return stats.Summary{}, err
	}
	return stats.Compute(e.log, from, to)
}

// TotalWorkouts returns the lifetime completion count.
func (e *Engine) TotalWorkouts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.log == nil {
		return 0
	}
	return stats.TotalWorkouts(e.log)
}

// CountTagged counts lifetime completions whose muscle groups satisfy match.
func (e *Engine) CountTagged(match func(groups []string) bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.log == nil {
		return 0
	}
	return stats.CountTagged(e.log, match)
}

// Achievements evaluates the catalog as of asOf. Newly crossed thresholds are
// persisted before returning, so their unlock date survives restarts.
func (e *Engine) Achievements(asOf calendar.Date) ([]achievement.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.cache.lookup(e.log.Version(), asOf) && e.cache.achievements != nil {
		return cloneResults(e.cache.achievements), nil
	}

	eval := achievement.Evaluator{WeekStart: e.opts.WeekStart}
	results, err := eval.Evaluate(e.opts.Catalog.Definitions, e.log, asOf, e.prior)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Err != nil {
			logger.Warn("Achievement could not be evaluated", "id", r.DefinitionID, "error", r.Err)
			continue
		}
		if !r.Unlocked {
			continue
		}
		if _, known := e.prior[r.DefinitionID]; known {
			continue
		}
		unlock := models.AchievementUnlock{AchievementID: r.DefinitionID, Day: r.UnlockedDate.String()}
		if err := e.store.SaveAchievementUnlock(unlock); err != nil {
			return nil, err
		}
		e.prior[r.DefinitionID] = r.State
		logger.Info("Achievement unlocked", "id", r.DefinitionID, "day", unlock.Day)
	}

	e.cache.achievements = results
	return cloneResults(results), nil
}

// ResetAchievements forgets every recorded unlock.
func (e *Engine) ResetAchievements() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.store.DeleteAchievementUnlocks(); err != nil {
		return err
	}
	e.prior = make(map[string]achievement.State)
	e.cache = derived{}
	return nil
}

func cloneResults(in []achievement.Result) []achievement.Result {
	out := make([]achievement.Result, len(in))
	for i, r := range in {
		out[i] = r
		if r.UnlockedDate != nil {
			d := *r.UnlockedDate
			out[i].UnlockedDate = &d
		}
	}
	return out
}

// Import completes every event, skipping days that already have one, and
// returns how many were added. The whole batch is validated first, so an
// invalid event leaves the store untouched.
func (e *Engine) Import(events []eventlog.Event) (int, error) {
	if err := ValidateEvents(events); err != nil {
		return 0, err
	}
	added := 0
	for _, ev := range events {
		ok, err := e.Complete(ev)
		if err != nil {
			return added, fmt.Errorf("import %s: %w", ev.Date, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// ValidateEvents runs ValidateEvent over a batch, naming the first bad entry.
func ValidateEvents(events []eventlog.Event) error {
	for i, ev := range events {
		if err := ValidateEvent(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Date, err)
		}
	}
	return nil
}

// ValidateUnlocks checks that every unlock names a catalog achievement and a valid day.
func (e *Engine) ValidateUnlocks(unlocks []models.AchievementUnlock) error {
	for _, u := range unlocks {
		if _, ok := e.opts.Catalog.Lookup(u.AchievementID); !ok {
			return fmt.Errorf("unlock %q: %w", u.AchievementID, ErrUnknownAchievement)
		}
		if _, err := calendar.Parse(u.Day); err != nil {
			return fmt.Errorf("unlock %q: %w", u.AchievementID, err)
		}
	}
	return nil
}

// RestoreUnlocks records previously earned unlocks. Achievements that are
// already unlocked keep their date. It returns how many were added.
func (e *Engine) RestoreUnlocks(unlocks []models.AchievementUnlock) (int, error) {
	if err := e.ValidateUnlocks(unlocks); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return 0, err
	}

	restored := 0
	for _, u := range unlocks {
		if _, known := e.prior[u.AchievementID]; known {
			continue
		}
		if err := e.store.SaveAchievementUnlock(u); err != nil {
			return restored, err
		}
		day, _ := calendar.Parse(u.Day) // checked by ValidateUnlocks
		e.prior[u.AchievementID] = achievement.State{DefinitionID: u.AchievementID, Unlocked: true, UnlockedDate: &day}
		restored++
	}
	if restored > 0 {
		e.cache = derived{}
	}
	return restored, nil
}
