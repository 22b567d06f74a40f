package achievement

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/constants"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/stats"
	"github.com/julianstephens/streakfit/internal/streak"
)

// ErrUnknownMetric is matched by every *UnknownMetricError via errors.Is
var ErrUnknownMetric = errors.New("unknown achievement metric")

// UnknownMetricError reports a definition whose metric cannot be computed.
type UnknownMetricError struct {
	DefinitionID string
	Metric       string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("achievement %q: unknown metric %q", e.DefinitionID, e.Metric)
}

func (e *UnknownMetricError) Is(target error) bool {
	return target == ErrUnknownMetric
}

// State is the derived unlock and progress state of one definition.
// Progress is the raw metric value and may exceed MaxProgress.
type State struct {
	DefinitionID string
	Unlocked     bool
	Progress     int
	MaxProgress  int
	UnlockedDate *calendar.Date
}

// Result pairs a State with the per-definition evaluation error, if any.
type Result struct {
	State
	Err error
}

// Evaluator computes achievement state from an event log.
type Evaluator struct {
	// WeekStart bounds the week used by the week_workouts metric.
	WeekStart time.Weekday
}

// Evaluate uses a Sunday-start week.
func Evaluate(defs []Definition, log eventlog.Reader, asOf calendar.Date, prior map[string]State) ([]Result, error) {
	return Evaluator{WeekStart: time.Sunday}.Evaluate(defs, log, asOf, prior)
}

// Evaluate returns one Result per definition in definition order.
//
// Unlocks are sticky: a definition unlocked in prior stays unlocked with its
// original date, even if the metric has since regressed or asOf is earlier.
// The first evaluation that meets the threshold stamps UnlockedDate with asOf.
// A definition with an unknown metric gets an error Result; the others still evaluate.
func (e Evaluator) Evaluate(defs []Definition, log eventlog.Reader, asOf calendar.Date, prior map[string]State) ([]Result, error) {
	if err := asOf.Validate(); err != nil {
		return nil, err
	}

	m := &metrics{log: log, asOf: asOf, weekStart: e.WeekStart, cache: make(map[string]int)}
	results := make([]Result, 0, len(defs))
	for _, def := range defs {
		previous, hasPrior := prior[def.ID]

		state := State{DefinitionID: def.ID, MaxProgress: def.Threshold}
		if hasPrior && previous.Unlocked {
			state.Unlocked = true
			state.UnlockedDate = copyDate(previous.UnlockedDate)
		}

		value, err := m.value(def)
		if err != nil {
			results = append(results, Result{State: state, Err: err})
			continue
		}

		state.Progress = value
		if value >= def.Threshold && !state.Unlocked {
			state.Unlocked = true
			unlocked := asOf
			state.UnlockedDate = &unlocked
		}
		results = append(results, Result{State: state})
	}
	return results, nil
}

func copyDate(d *calendar.Date) *calendar.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

type metrics struct {
	log       eventlog.Reader
	asOf      calendar.Date
	weekStart time.Weekday
	streak    *streak.State
	cache     map[string]int
}

func (m *metrics) value(def Definition) (int, error) {
	if v, ok := m.cache[def.Metric]; ok {
		return v, nil
	}
	v, err := m.compute(def)
	if err != nil {
		return 0, err
	}
	m.cache[def.Metric] = v
	return v, nil
}

func (m *metrics) compute(def Definition) (int, error) {
	switch def.Metric {
	case constants.MetricCurrentStreak, constants.MetricLongestStreak:
		if m.streak == nil {
			s, err := streak.Compute(m.log, m.asOf)
			if err != nil {
				return 0, err
			}
			m.streak = &s
		}
		if def.Metric == constants.MetricCurrentStreak {
			return m.streak.Current, nil
		}
		return m.streak.Longest, nil
	case constants.MetricTotalWorkouts:
		return stats.TotalWorkouts(m.log), nil
	case constants.MetricMonthWorkouts:
		s, err := stats.Month(m.log, m.asOf.Year, m.asOf.Month)
		return s.CompletedDays, err
	case constants.MetricWeekWorkouts:
		s, err := stats.Week(m.log, m.asOf, m.weekStart)
		return s.CompletedDays, err
	case constants.MetricYearWorkouts:
		s, err := stats.Year(m.log, m.asOf.Year)
		return s.CompletedDays, err
	}

	if area, ok := strings.CutPrefix(def.Metric, constants.MetricAreaPrefix); ok && models.ValidArea(area) {
		return stats.CountTagged(m.log, func(groups []string) bool {
			return models.InArea(groups, models.BodyArea(area))
		}), nil
	}
	if id, ok := strings.CutPrefix(def.Metric, constants.MetricMusclePrefix); ok {
		if _, known := models.LookupMuscleGroup(id); known {
			return stats.CountTagged(m.log, func(groups []string) bool {
				return slices.Contains(groups, id)
			}), nil
		}
	}
	return 0, &UnknownMetricError{DefinitionID: def.ID, Metric: def.Metric}
}

// Totals summarizes a batch of results for the achievements header.
type Totals struct {
	Unlocked int
	Total    int
	Rate     float64
}

func Summarize(results []Result) Totals {
	t := Totals{Total: len(results)}
	for _, r := range results {
		if r.Unlocked {
			t.Unlocked++
		}
	}
	if t.Total > 0 {
		t.Rate = float64(t.Unlocked) / float64(t.Total)
	}
	return t
}
