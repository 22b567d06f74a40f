package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/streakfit/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Completions. At most one per day; adding an existing day is a no-op
	// and reports false.
	AddCompletion(models.Completion) (bool, error)
	GetCompletion(day string) (models.Completion, error)
	// GetAllCompletions returns every completion in ascending day order.
	GetAllCompletions() ([]models.Completion, error)
	// GetCompletions returns completions with startDay <= day <= endDay, ascending.
	GetCompletions(startDay, endDay string) ([]models.Completion, error)
	DeleteCompletion(day string) error

	// Achievement unlocks
	GetAchievementUnlocks() ([]models.AchievementUnlock, error)
	// SaveAchievementUnlock stores u unless the achievement is already unlocked.
	SaveAchievementUnlock(u models.AchievementUnlock) error
	DeleteAchievementUnlocks() error

	// Utils
	GetConfigPath() string
}

// JoinGroups encodes muscle group IDs for a single text column.
func JoinGroups(groups []string) string {
	return strings.Join(groups, ",")
}

// SplitGroups reverses JoinGroups. An empty column yields nil.
func SplitGroups(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
