package progress

import (
	"fmt"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/view"
)

type AchievementsCmd struct {
	List  AchievementsListCmd  `cmd:"" help:"Show achievement progress." default:"1"`
	Reset AchievementsResetCmd `cmd:"" help:"Forget recorded unlocks and re-evaluate from history."`
}

type AchievementsListCmd struct {
	Category string `help:"Only show one category: streak, workout, milestone or special."`
	AsOf     string `help:"Reference day: today, yesterday or YYYY-MM-DD." default:"today"`
}

func (c *AchievementsListCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	asOf, err := ctx.ParseDay(c.AsOf)
	if err != nil {
		return err
	}

	results, err := eng.Achievements(asOf)
	if err != nil {
		return err
	}

	if c.Category != "" {
		cat := achievement.Category(c.Category)
		if !cat.Valid() {
			return fmt.Errorf("unknown category %q", c.Category)
		}
		results = filterCategory(eng.Catalog(), results, cat)
	}

	fmt.Println(view.Achievements(eng.Catalog(), results))
	return nil
}

func filterCategory(c achievement.Catalog, results []achievement.Result, cat achievement.Category) []achievement.Result {
	var out []achievement.Result
	for _, r := range results {
		if def, ok := c.Lookup(r.DefinitionID); ok && def.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

type AchievementsResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *AchievementsResetCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(
		"Reset all achievements?",
		"Unlock dates are forgotten. Achievements are re-evaluated against your current history.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Reset cancelled.")
		return nil
	}

	if err := eng.ResetAchievements(); err != nil {
		return fmt.Errorf("failed to reset achievements: %w", err)
	}
	results, err := eng.Achievements(ctx.Today())
	if err != nil {
		return err
	}
	t := achievement.Summarize(results)
	fmt.Printf("✓ Achievements reset. %d of %d unlocked from current history.\n", t.Unlocked, t.Total)
	return nil
}
