package progress

import (
	"fmt"

	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/view"
)

type StreakCmd struct {
	AsOf string `help:"Reference day: today, yesterday or YYYY-MM-DD." default:"today"`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	asOf, err := ctx.ParseDay(c.AsOf)
	if err != nil {
		return err
	}

	s, err := eng.Streak(asOf)
	if err != nil {
		return err
	}
	fmt.Println(view.StreakHeader(s, eng.TotalWorkouts(), asOf))

	week, err := eng.Week(asOf)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(view.WeekStrip(week))
	return nil
}
