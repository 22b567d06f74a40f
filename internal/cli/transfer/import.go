package transfer

import (
	"fmt"
	"os"

	"github.com/julianstephens/streakfit/internal/cli"
)

type ImportCmd struct {
	File string `arg:"" help:"Export file produced by 'streakfit export'." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	doc, err := decode(f)
	if err != nil {
		return err
	}
	events, err := doc.events()
	if err != nil {
		return err
	}

	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := eng.ValidateUnlocks(doc.Unlocks); err != nil {
		return err
	}

	// Nothing is written until the whole document has been checked.
	ctx.PerformAutomaticBackup()

	restored, err := eng.RestoreUnlocks(doc.Unlocks)
	if err != nil {
		return err
	}
	added, err := eng.Import(events)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Imported %d of %d completions (%d already recorded)\n", added, len(events), len(events)-added)
	if restored > 0 {
		fmt.Printf("✓ Restored %d achievement unlocks\n", restored)
	}
	return nil
}
