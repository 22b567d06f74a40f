package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/storage"
	"github.com/julianstephens/streakfit/internal/storage/postgres"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Yes    bool   `short:"y" help:"Do not ask for confirmation when used with --force."`
	Source string `help:"Source database path or connection string to copy history from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized streakfit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()

	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ok, err := cli.Confirm(
		"Delete the existing database?",
		fmt.Sprintf("%s and all recorded workouts will be removed.", dbPath),
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("initialization cancelled")
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyData copies settings, completions and unlocks from another store.
// Rows that already exist in the destination are kept.
func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	var src storage.Provider
	if postgres.IsConnString(source) {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return errors.New("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		src = postgres.New(source)
	} else {
		src = sqlite.NewStore(source)
	}

	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying completions...")
	completions, err := src.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions from source: %w", err)
	}
	copied := 0
	for _, comp := range completions {
		added, err := ctx.Store.AddCompletion(comp)
		if err != nil {
			return fmt.Errorf("failed to add completion for %s: %w", comp.Day, err)
		}
		if added {
			copied++
		}
	}
	fmt.Printf("    Copied %d of %d completions\n", copied, len(completions))

	fmt.Println("  Copying achievement unlocks...")
	unlocks, err := src.GetAchievementUnlocks()
	if err != nil {
		return fmt.Errorf("failed to get achievement unlocks from source: %w", err)
	}
	for _, u := range unlocks {
		if err := ctx.Store.SaveAchievementUnlock(u); err != nil {
			return fmt.Errorf("failed to save unlock %s: %w", u.AchievementID, err)
		}
	}
	fmt.Printf("    Copied %d achievement unlocks\n", len(unlocks))
	return nil
}
