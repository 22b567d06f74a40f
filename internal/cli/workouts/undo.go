package workouts

import (
	"fmt"

	"github.com/julianstephens/streakfit/internal/cli"
)

type UndoCmd struct {
	Day string `arg:"" optional:"" help:"Day to un-mark: today, yesterday or YYYY-MM-DD." default:"today"`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}

	removed, err := eng.Uncomplete(day)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No workout recorded for %s.\n", day)
		return nil
	}
	fmt.Printf("✓ Removed workout for %s\n", day)
	fmt.Println("  Achievements already unlocked are kept.")
	return nil
}
