package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/storage"
)

const completionColumns = "id, day, workout_id, muscle_groups, created_at"

func (s *Store) AddCompletion(c models.Completion) (bool, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO completions (id, day, workout_id, muscle_groups, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		c.ID, c.Day, c.WorkoutID, storage.JoinGroups(c.MuscleGroups), c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to add completion: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) GetCompletion(day string) (models.Completion, error) {
	row := s.db.QueryRow("SELECT "+completionColumns+" FROM completions WHERE day = $1", day)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion for %s: %w", day, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	return s.queryCompletions("SELECT " + completionColumns + " FROM completions ORDER BY day")
}

func (s *Store) GetCompletions(startDay, endDay string) ([]models.Completion, error) {
	return s.queryCompletions(
		"SELECT "+completionColumns+" FROM completions WHERE day >= $1 AND day <= $2 ORDER BY day",
		startDay, endDay)
}

func (s *Store) DeleteCompletion(day string) error {
	res, err := s.db.Exec("DELETE FROM completions WHERE day = $1", day)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("completion for %s: %w", day, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) queryCompletions(query string, args ...any) ([]models.Completion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func scanCompletion(row interface{ Scan(...any) error }) (models.Completion, error) {
	var c models.Completion
	var groups, createdAt string
	if err := row.Scan(&c.ID, &c.Day, &c.WorkoutID, &groups, &createdAt); err != nil {
		return models.Completion{}, err
	}

	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	c.MuscleGroups = storage.SplitGroups(groups)
	return c, nil
}
