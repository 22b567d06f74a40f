package models

import "time"

// Completion is the persisted form of a day's workout completion.
type Completion struct {
	ID           string    `json:"id"`
	Day          string    `json:"day"` // YYYY-MM-DD format
	WorkoutID    string    `json:"workout_id,omitempty"`
	MuscleGroups []string  `json:"muscle_groups,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AchievementUnlock records the first day an achievement's threshold was met.
// Unlocks are sticky: once stored they are never moved or revoked by evaluation.
type AchievementUnlock struct {
	AchievementID string    `json:"achievement_id"`
	Day           string    `json:"day"` // YYYY-MM-DD format
	CreatedAt     time.Time `json:"created_at"`
}
