package postgres

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakfit/internal/models"
)

func (s *Store) GetAchievementUnlocks() ([]models.AchievementUnlock, error) {
	rows, err := s.db.Query("SELECT achievement_id, day, created_at FROM achievement_unlocks ORDER BY day, achievement_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []models.AchievementUnlock
	for rows.Next() {
		var u models.AchievementUnlock
		var createdAt string
		if err := rows.Scan(&u.AchievementID, &u.Day, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// SaveAchievementUnlock keeps the first recorded unlock day.
func (s *Store) SaveAchievementUnlock(u models.AchievementUnlock) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO achievement_unlocks (achievement_id, day, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (achievement_id) DO NOTHING`,
		u.AchievementID, u.Day, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save achievement unlock: %w", err)
	}
	return nil
}

func (s *Store) DeleteAchievementUnlocks() error {
	if _, err := s.db.Exec("DELETE FROM achievement_unlocks"); err != nil {
		return fmt.Errorf("failed to delete achievement unlocks: %w", err)
	}
	return nil
}
