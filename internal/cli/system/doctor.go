package system

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/streakfit/internal/backup"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/config"
	"github.com/julianstephens/streakfit/internal/constants"
	"github.com/julianstephens/streakfit/internal/keyring"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

var (
	processesFunc = ps.Processes
	getpidFunc    = os.Getpid
)

// errWarning marks a check that should not fail the whole run.
var errWarning = errors.New("warning")

type check struct {
	name     string
	needsDB  bool
	run      func(ctx *cli.Context) error
	warnOnly bool
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Completion records", needsDB: true, run: checkCompletions},
		{name: "Achievement unlocks", needsDB: true, run: checkUnlocks},
		{name: "Settings", needsDB: true, run: checkSettings},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Single writer", run: checkSingleWriter, warnOnly: true},
		{name: "Keyring", run: checkKeyring, warnOnly: true},
	}

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly || errors.Is(err, errWarning):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	_, err := m.MigrationStatus()
	return err
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if !status.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'streakfit migrate')", status.Current, status.Latest)
	}
	return nil
}

func checkCompletions(ctx *cli.Context) error {
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	seen := make(map[string]bool, len(completions))
	var bad []string
	for _, c := range completions {
		if _, err := calendar.Parse(c.Day); err != nil {
			bad = append(bad, c.Day)
			continue
		}
		if seen[c.Day] {
			return fmt.Errorf("duplicate completion found for %s", c.Day)
		}
		seen[c.Day] = true
	}
	if len(bad) > 0 {
		return fmt.Errorf("found %d completions with invalid day format: %s", len(bad), strings.Join(bad, ", "))
	}
	return nil
}

func checkUnlocks(ctx *cli.Context) error {
	eng, err := ctx.Engine()
	if err != nil {
		return err
	}
	unlocks, err := ctx.Store.GetAchievementUnlocks()
	if err != nil {
		return fmt.Errorf("failed to get achievement unlocks: %w", err)
	}

	var unknown []string
	for _, u := range unlocks {
		if _, err := calendar.Parse(u.Day); err != nil {
			return fmt.Errorf("unlock %s has invalid day %q", u.AchievementID, u.Day)
		}
		if _, ok := eng.Catalog().Lookup(u.AchievementID); !ok {
			unknown = append(unknown, u.AchievementID)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unlocks for achievements not in the catalog: %s", errWarning, strings.Join(unknown, ", "))
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if _, err := config.LoadLocation(settings.Timezone); err != nil {
		return err
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'streakfit backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config.Timezone != "" {
		if _, err := config.LoadLocation(ctx.Config.Timezone); err != nil {
			return err
		}
	}
	return nil
}

// checkSingleWriter warns when another streakfit process could be writing to
// the same database.
func checkSingleWriter(ctx *cli.Context) error {
	others, err := otherInstances()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}
	if len(others) > 0 {
		return fmt.Errorf("%d other %s process(es) running (pid %s); close them before restoring backups",
			len(others), constants.AppName, joinInts(others))
	}
	return nil
}

func otherInstances() ([]int, error) {
	procs, err := processesFunc()
	if err != nil {
		return nil, err
	}
	self := getpidFunc()
	var pids []int
	for _, p := range procs {
		if p == nil || p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == constants.AppName {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

func checkKeyring(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); ok {
		return nil
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; set %s instead", constants.EnvDBConnection)
	}
	return nil
}
