package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/streakfit/internal/constants"
)

// Settings represents persisted user preferences
type Settings struct {
	WeekStart time.Weekday `json:"week_start"` // first column of the calendar grid
	Timezone  string       `json:"timezone"`   // IANA timezone name, or "Local"
}

// DefaultSettings returns the settings a fresh store is initialized with.
func DefaultSettings() Settings {
	return Settings{
		WeekStart: constants.DefaultWeekStart,
		Timezone:  constants.DefaultTimezone,
	}
}

// ParseWeekday accepts full or three-letter English weekday names, or 0-6 (0=Sunday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 0 && n <= 6 && len(s) == 1 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday: %q", s)
}

// MapToSettings converts stored key-value pairs to Settings, applying defaults for missing keys.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingWeekStart:
			wd, err := ParseWeekday(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.WeekStart = wd
		case constants.SettingTimezone:
			if value != "" {
				settings.Timezone = value
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts Settings to key-value pairs for storage.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingWeekStart: strings.ToLower(settings.WeekStart.String()),
		constants.SettingTimezone:  settings.Timezone,
	}
}
