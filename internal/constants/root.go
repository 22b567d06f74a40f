package constants

import "time"

const (
	AppName            = "streakfit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/streakfit/streakfit.db"
	Version            = "v0.1.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streakfit-"
	BackupFileSuffix = ".db"

	// Environment variables
	EnvDBConnection = "STREAKFIT_DB_CONNECTION"

	// Metric names understood by the achievement engine
	MetricCurrentStreak = "current_streak"
	MetricLongestStreak = "longest_streak"
	MetricTotalWorkouts = "total_workouts"
	MetricMonthWorkouts = "month_workouts"
	MetricWeekWorkouts  = "week_workouts"
	MetricYearWorkouts  = "year_workouts"
	MetricAreaPrefix    = "area:"
	MetricMusclePrefix  = "muscle:"
)

// DefaultWeekStart is the first column of the calendar grid unless configured otherwise.
const DefaultWeekStart = time.Sunday
