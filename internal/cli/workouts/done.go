package workouts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/engine"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/view"
)

type DoneCmd struct {
	Day     string   `arg:"" optional:"" help:"Day to mark complete: today, yesterday or YYYY-MM-DD." default:"today"`
	Workout string   `help:"Optional workout identifier."`
	Muscles []string `help:"Muscle groups trained (comma-separated)." sep:","`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}
	if today := ctx.Today(); day.After(today) {
		return fmt.Errorf("cannot complete %s: it is after today (%s)", day, today)
	}

	groups := make([]string, 0, len(c.Muscles))
	for _, g := range c.Muscles {
		groups = append(groups, strings.ToLower(strings.TrimSpace(g)))
	}

	before, err := eng.Achievements(ctx.Today())
	if err != nil {
		return err
	}

	added, err := eng.Complete(eventlog.Event{Date: day, WorkoutID: c.Workout, MuscleGroups: groups})
	if err != nil {
		var groupErr *engine.UnknownMuscleGroupError
		if errors.As(err, &groupErr) {
			return fmt.Errorf("%w (valid groups: %s)", err, validGroups())
		}
		return err
	}
	if !added {
		fmt.Printf("%s is already marked complete.\n", day)
		return nil
	}
	fmt.Printf("✓ Workout recorded for %s\n", day)

	s, err := eng.Streak(ctx.Today())
	if err != nil {
		return err
	}
	fmt.Println(view.StreakLine(s, ctx.Today()))

	after, err := eng.Achievements(ctx.Today())
	if err != nil {
		return err
	}
	for _, title := range newlyUnlocked(eng, before, after) {
		fmt.Printf("🏆 Achievement unlocked: %s\n", title)
	}
	return nil
}

func validGroups() string {
	ids := make([]string, len(models.MuscleGroups))
	for i, g := range models.MuscleGroups {
		ids[i] = g.ID
	}
	return strings.Join(ids, ", ")
}

// newlyUnlocked returns titles of achievements unlocked in after but not before.
func newlyUnlocked(eng *engine.Engine, before, after []achievement.Result) []string {
	had := make(map[string]bool, len(before))
	for _, r := range before {
		if r.Unlocked {
			had[r.DefinitionID] = true
		}
	}
	var titles []string
	for _, r := range after {
		if !r.Unlocked || had[r.DefinitionID] {
			continue
		}
		if def, ok := eng.Catalog().Lookup(r.DefinitionID); ok {
			titles = append(titles, def.Title)
		} else {
			titles = append(titles, r.DefinitionID)
		}
	}
	return titles
}
