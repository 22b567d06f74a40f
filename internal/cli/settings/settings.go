package settings

import (
	"fmt"

	"github.com/julianstephens/streakfit/internal/cli"
	"github.com/julianstephens/streakfit/internal/config"
	"github.com/julianstephens/streakfit/internal/models"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change persisted settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Week Start: %s\n", settings.WeekStart)
	fmt.Printf("  Timezone:   %s\n", settings.Timezone)

	effective := ctx.Config.ApplySettings(settings)
	if effective != settings {
		fmt.Println("\nEnvironment overrides in effect:")
		fmt.Printf("  Week Start: %s\n", effective.WeekStart)
		fmt.Printf("  Timezone:   %s\n", effective.Timezone)
	}
	return nil
}

type SettingsSetCmd struct {
	WeekStart *string `help:"First day of the week: sunday, monday, ... or 0-6."`
	Timezone  *string `help:"IANA timezone name used to decide what today is, or Local."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.WeekStart != nil {
		wd, err := models.ParseWeekday(*c.WeekStart)
		if err != nil {
			return err
		}
		settings.WeekStart = wd
		updated = true
	}
	if c.Timezone != nil {
		if _, err := config.LoadLocation(*c.Timezone); err != nil {
			return err
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --week-start or --timezone.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
