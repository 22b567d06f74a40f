package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/cli/backups"
	"github.com/julianstephens/streakfit/internal/cli/progress"
	"github.com/julianstephens/streakfit/internal/cli/settings"
	"github.com/julianstephens/streakfit/internal/cli/system"
	"github.com/julianstephens/streakfit/internal/cli/transfer"
	"github.com/julianstephens/streakfit/internal/cli/workouts"
	"github.com/julianstephens/streakfit/internal/config"
	"github.com/julianstephens/streakfit/internal/constants"
	apperrors "github.com/julianstephens/streakfit/internal/errors"
	"github.com/julianstephens/streakfit/internal/keyring"
	"github.com/julianstephens/streakfit/internal/logger"
	"github.com/julianstephens/streakfit/internal/storage"
	"github.com/julianstephens/streakfit/internal/storage/postgres"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `name:"db" help:"SQLite file path or PostgreSQL connection string. PostgreSQL passwords belong in the keyring, ${env_conn} or .pgpass, never in this flag." default:"${db}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize streakfit storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`

	Done workouts.DoneCmd `cmd:"" help:"Record a workout for a day."`
	Undo workouts.UndoCmd `cmd:"" help:"Remove the workout recorded for a day."`
	Log  workouts.LogCmd  `cmd:"" help:"Show recent days."`

	Streak       progress.StreakCmd       `cmd:"" help:"Show current and best streak."`
	Calendar     progress.CalendarCmd     `cmd:"" help:"Show a month of workouts."`
	Stats        progress.StatsCmd        `cmd:"" help:"Show completion rate for a range."`
	Achievements progress.AchievementsCmd `cmd:"" help:"Show or reset achievements."`

	Export transfer.ExportCmd `cmd:"" help:"Export history as JSON."`
	Import transfer.ImportCmd `cmd:"" help:"Import history from a JSON export."`

	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage persisted settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// noLoad lists commands that run without an initialized store.
var noLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		apperrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Workout streaks, calendar and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"db":       cfg.DB,
			"env_conn": constants.EnvDBConnection,
		},
	)

	cfg.DB = CLI.DB
	cfg.Debug = cfg.Debug || CLI.Debug
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.ConfigDir(cfg.DB)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	if !noLoad[commandName(ctx.Command())] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	apperrors.Fatal(ctx.Run(&cli.Context{Store: store, Config: cfg, Command: commandName(ctx.Command())}))
}

func commandName(cmd string) string {
	name, _, _ := strings.Cut(cmd, " ")
	return name
}

// openStore picks the backend. An explicit connection string in --db wins.
// With the default SQLite path, a connection string from the environment or
// keyring switches to PostgreSQL.
func openStore(cfg config.Config) (storage.Provider, error) {
	if postgres.IsConnString(cfg.DB) {
		if _, err := postgres.ValidateConnString(cfg.DB); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w\n  use 'streakfit keyring set', %s or a .pgpass file instead", err, constants.EnvDBConnection)
			}
			return nil, err
		}
		logger.Debug("Using PostgreSQL from --db")
		return postgres.New(cfg.DB), nil
	}

	if cfg.DB == constants.DefaultConfigPath {
		connStr, source, err := keyring.ResolveConnectionString(cfg.DBConnection)
		if err != nil {
			logger.Debug("Keyring lookup failed, using SQLite", "error", err)
		} else if source != keyring.SourceNone {
			if !postgres.IsConnString(connStr) {
				return nil, fmt.Errorf("connection string from %s is not a PostgreSQL connection string", source)
			}
			logger.Debug("Using PostgreSQL", "source", source)
			return postgres.New(connStr), nil
		}
	}

	path := config.ExpandHome(cfg.DB)
	logger.Debug("Using SQLite", "path", path)
	return sqlite.NewStore(path), nil
}
