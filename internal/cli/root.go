package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/streakfit/internal/achievement"
	"github.com/julianstephens/streakfit/internal/backup"
	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/config"
	"github.com/julianstephens/streakfit/internal/engine"
	"github.com/julianstephens/streakfit/internal/logger"
	"github.com/julianstephens/streakfit/internal/storage"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

type Context struct {
	Store  storage.Provider
	Config config.Config

	// Command is the name of the running command, attached to log records.
	Command string
	// Now defaults to time.Now.
	Now func() time.Time

	engine   *engine.Engine
	location *time.Location
}

// Engine returns the engine over Store, building and opening it on first use.
// Persisted settings are combined with environment overrides.
func (c *Context) Engine() (*engine.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}

	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	settings = c.Config.ApplySettings(settings)

	loc, err := config.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, err
	}

	catalog := achievement.DefaultCatalog()
	if c.Config.Catalog != "" {
		catalog, err = achievement.LoadCatalog(config.ExpandHome(c.Config.Catalog))
		if err != nil {
			return nil, err
		}
	}

	eng := engine.New(c.Store, engine.Options{WeekStart: settings.WeekStart, Catalog: catalog})
	if err := eng.Open(); err != nil {
		return nil, err
	}
	c.engine = eng
	c.location = loc
	if l := logger.With("command", c.Command); l != nil {
		l.Debug("Engine ready", "week_start", settings.WeekStart, "timezone", settings.Timezone)
	}
	return eng, nil
}

// Location is the timezone used to decide what "today" is.
func (c *Context) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() calendar.Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return calendar.FromTime(now().In(c.Location()))
}

// ParseDay accepts "today", "yesterday", an empty string (today) or YYYY-MM-DD.
func (c *Context) ParseDay(s string) (calendar.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return c.Today().AddDays(-1), nil
	}
	return calendar.Parse(s)
}

// PerformAutomaticBackup creates a backup of a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		c.warn("Automatic backup failed", "error", err)
	}
}

// warn logs through a child logger tagged with the running command.
func (c *Context) warn(msg string, keyvals ...interface{}) {
	if l := logger.With("command", c.Command); l != nil {
		l.Warn(msg, keyvals...)
	}
}
