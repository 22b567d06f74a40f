package progress

import (
	"fmt"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/view"
)

type StatsCmd struct {
	Period string `help:"Range ending today: week, month or year." enum:"week,month,year" default:"month"`
	From   string `help:"Start day (YYYY-MM-DD). Overrides --period together with --to."`
	To     string `help:"End day (YYYY-MM-DD). Defaults to today when --from is set."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	from, to, err := c.resolveRange(ctx)
	if err != nil {
		return err
	}

	summary, err := eng.Stats(from, to)
	if err != nil {
		return err
	}
	fmt.Println(view.Stats(summary))

	fmt.Printf("\nLifetime workouts: %d\n", eng.TotalWorkouts())
	for _, area := range []models.BodyArea{models.AreaUpper, models.AreaLower, models.AreaCore} {
		n := eng.CountTagged(func(groups []string) bool { return models.InArea(groups, area) })
		fmt.Printf("  %-6s %d\n", area, n)
	}
	return nil
}

func (c *StatsCmd) resolveRange(ctx *cli.Context) (calendar.Date, calendar.Date, error) {
	today := ctx.Today()
	if c.From != "" || c.To != "" {
		if c.From == "" {
			return calendar.Date{}, calendar.Date{}, fmt.Errorf("--to requires --from")
		}
		from, err := ctx.ParseDay(c.From)
		if err != nil {
			return calendar.Date{}, calendar.Date{}, err
		}
		to := today
		if c.To != "" {
			if to, err = ctx.ParseDay(c.To); err != nil {
				return calendar.Date{}, calendar.Date{}, err
			}
		}
		return from, to, nil
	}

	switch c.Period {
	case "week":
		eng, err := ctx.Engine()
		if err != nil {
			return calendar.Date{}, calendar.Date{}, err
		}
		start := today.StartOfWeek(eng.WeekStart())
		return start, today, nil
	case "year":
		return calendar.Date{Year: today.Year, Month: 1, Day: 1}, today, nil
	default:
		return today.FirstOfMonth(), today, nil
	}
}
