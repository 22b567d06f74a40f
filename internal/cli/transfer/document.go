package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/constants"
	"github.com/julianstephens/streakfit/internal/engine"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/models"
)

// formatVersion is bumped when the document layout changes incompatibly.
const formatVersion = 1

// Document is the portable JSON form of a workout history.
type Document struct {
	Version     int                        `json:"version"`
	App         string                     `json:"app"`
	ExportedAt  time.Time                  `json:"exported_at"`
	Completions []Completion               `json:"completions"`
	Unlocks     []models.AchievementUnlock `json:"unlocks,omitempty"`
}

type Completion struct {
	Day          string   `json:"day"`
	WorkoutID    string   `json:"workout_id,omitempty"`
	MuscleGroups []string `json:"muscle_groups,omitempty"`
}

func newDocument(events []eventlog.Event, unlocks []models.AchievementUnlock, now time.Time) Document {
	doc := Document{
		Version:     formatVersion,
		App:         constants.AppName,
		ExportedAt:  now.UTC(),
		Completions: make([]Completion, 0, len(events)),
		Unlocks:     unlocks,
	}
	for _, ev := range events {
		doc.Completions = append(doc.Completions, Completion{
			Day:          ev.Date.String(),
			WorkoutID:    ev.WorkoutID,
			MuscleGroups: ev.MuscleGroups,
		})
	}
	return doc
}

func (d Document) encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func decode(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse export file: %w", err)
	}
	if doc.Version != formatVersion {
		return Document{}, fmt.Errorf("unsupported export version %d (expected %d)", doc.Version, formatVersion)
	}
	return doc, nil
}

// events converts and validates every completion before anything is written.
func (d Document) events() ([]eventlog.Event, error) {
	out := make([]eventlog.Event, 0, len(d.Completions))
	for i, c := range d.Completions {
		day, err := calendar.Parse(c.Day)
		if err != nil {
			return nil, fmt.Errorf("completion %d: %w", i+1, err)
		}
		ev := eventlog.Event{Date: day, WorkoutID: c.WorkoutID, MuscleGroups: c.MuscleGroups}
		if err := engine.ValidateEvent(ev); err != nil {
			return nil, fmt.Errorf("completion %d (%s): %w", i+1, c.Day, err)
		}
		out = append(out, ev)
	}
	return out, nil
}
