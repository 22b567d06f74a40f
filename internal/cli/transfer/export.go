package transfer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/streakfit/internal/cli"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write. Defaults to stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	unlocks, err := ctx.Store.GetAchievementUnlocks()
	if err != nil {
		return fmt.Errorf("failed to get achievement unlocks: %w", err)
	}

	now := time.Now
	if ctx.Now != nil {
		now = ctx.Now
	}
	doc := newDocument(eng.Events(), unlocks, now())

	var w io.Writer = os.Stdout
	if c.Output != "" && c.Output != "-" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := doc.encode(w); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if w != os.Stdout {
		fmt.Printf("✓ Exported %d completions and %d unlocks to %s\n", len(doc.Completions), len(doc.Unlocks), c.Output)
	}
	return nil
}
