package streak

import (
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/eventlog"
)

// State is the streak summary of a log as of a reference date.
type State struct {
	Current       int
	Longest       int
	LastCompleted *calendar.Date
}

// Compute derives the streak state of log as of asOf.
//
// Current counts consecutive completed days ending at asOf inclusive, so an
// incomplete asOf yields 0 even when the previous day was completed. Longest is
// the longest run anywhere in the log and is never less than Current.
func Compute(log eventlog.Reader, asOf calendar.Date) (State, error) {
	if err := asOf.Validate(); err != nil {
		return State{}, err
	}

	var state State
	for day := asOf; log.Has(day); day = day.AddDays(-1) {
		state.Current++
	}

	dates := log.AllDates()
	run := 0
	var prev calendar.Date
	for i, d := range dates {
		if i > 0 && prev.DaysUntil(d) == 1 {
			run++
		} else {
			run = 1
		}
		state.Longest = max(state.Longest, run)
		prev = d

		if !d.After(asOf) {
			last := d
			state.LastCompleted = &last
		}
	}
	state.Longest = max(state.Longest, state.Current)

	return state, nil
}

// Resumable returns the length of the run ending the day before asOf. It is
// what Current becomes once asOf is completed, minus one.
func Resumable(log eventlog.Reader, asOf calendar.Date) int {
	n := 0
	for day := asOf.AddDays(-1); log.Has(day); day = day.AddDays(-1) {
		n++
	}
	return n
}

// AtRisk reports whether the run ending yesterday will break if asOf stays incomplete.
func AtRisk(state State, asOf calendar.Date) bool {
	if state.Current > 0 || state.LastCompleted == nil {
		return false
	}
	return *state.LastCompleted == asOf.AddDays(-1)
}
