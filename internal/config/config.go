// Package config reads process configuration from STREAKFIT_* environment variables.
// Command-line flags override these values; persisted user preferences live in
// the settings table instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/streakfit/internal/constants"
	"github.com/julianstephens/streakfit/internal/models"
)

type Config struct {
	// DB is a SQLite file path or a PostgreSQL connection string without a password.
	DB           string `env:"STREAKFIT_DB" envDefault:"~/.config/streakfit/streakfit.db"`
	Debug        bool   `env:"STREAKFIT_DEBUG" envDefault:"false"`
	Catalog      string `env:"STREAKFIT_CATALOG"`
	WeekStart    string `env:"STREAKFIT_WEEK_START"`
	Timezone     string `env:"STREAKFIT_TIMEZONE"`
	DBConnection string `env:"STREAKFIT_DB_CONNECTION"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment configuration with defaults applied.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late, mid-command.
func (c Config) Validate() error {
	if c.WeekStart != "" {
		if _, err := models.ParseWeekday(c.WeekStart); err != nil {
			return fmt.Errorf("STREAKFIT_WEEK_START: %w", err)
		}
	}
	if c.Timezone != "" {
		if _, err := LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("STREAKFIT_TIMEZONE: %w", err)
		}
	}
	return nil
}

// ApplySettings overlays environment overrides on persisted settings.
func (c Config) ApplySettings(s models.Settings) models.Settings {
	if wd, err := models.ParseWeekday(c.WeekStart); err == nil && c.WeekStart != "" {
		s.WeekStart = wd
	}
	if c.Timezone != "" {
		s.Timezone = c.Timezone
	}
	return s
}

// ConfigDir is the directory holding logs and backups for a SQLite path.
// PostgreSQL users get the default directory.
func ConfigDir(dbPath string) string {
	if dbPath == "" || strings.Contains(dbPath, "://") || strings.Contains(dbPath, "=") {
		dbPath = constants.DefaultConfigPath
	}
	return filepath.Dir(ExpandHome(dbPath))
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// LoadLocation resolves an IANA name; "Local" and "" mean the system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
