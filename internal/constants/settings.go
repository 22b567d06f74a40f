package constants

const (
	SettingWeekStart = "week_start"
	SettingTimezone  = "timezone"

	DefaultTimezone = "Local" // Use system local timezone by default
)
