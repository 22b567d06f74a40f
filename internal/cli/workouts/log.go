package workouts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/eventlog"
	"github.com/julianstephens/streakfit/internal/models"
)

type LogCmd struct {
	Days int `help:"Number of days to show, ending today." default:"14"`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	today := ctx.Today()
	from := today.AddDays(-(c.Days - 1))
	fmt.Printf("Workouts from %s to %s:\n\n", from, today)

	byDay := make(map[calendar.Date]eventlog.Event)
	for _, ev := range eng.Events() {
		byDay[ev.Date] = ev
	}

	count := 0
	for d := today; !d.Before(from); d = d.AddDays(-1) {
		ev, ok := byDay[d]
		if !ok {
			fmt.Printf("  %s  %s  ·\n", d, d.Weekday().String()[:3])
			continue
		}
		count++
		line := fmt.Sprintf("  %s  %s  ✓", d, d.Weekday().String()[:3])
		if ev.WorkoutID != "" {
			line += "  " + ev.WorkoutID
		}
		if len(ev.MuscleGroups) > 0 {
			line += "  [" + strings.Join(groupNames(ev.MuscleGroups), ", ") + "]"
		}
		fmt.Println(line)
	}

	fmt.Printf("\n%d of %d days completed\n", count, c.Days)
	return nil
}

func groupNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if g, ok := models.LookupMuscleGroup(id); ok {
			names[i] = g.Name
		} else {
			names[i] = id
		}
	}
	return names
}
