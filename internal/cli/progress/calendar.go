package progress

import (
	"fmt"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/view"
)

type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month to show as YYYY-MM. Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	today := ctx.Today()
	year, month := today.Year, today.Month
	if c.Month != "" {
		first, err := calendar.Parse(c.Month + "-01")
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM: %w", c.Month, err)
		}
		year, month = first.Year, first.Month
	}

	grid, err := eng.Month(year, month)
	if err != nil {
		return err
	}
	fmt.Println(view.MonthGrid(grid, today))

	rate := float64(grid.CompletedDays()) / float64(grid.DaysInMonth())
	fmt.Printf("\nMonthly progress: %s\n", view.Percent(rate))
	return nil
}
