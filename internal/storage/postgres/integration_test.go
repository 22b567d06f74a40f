package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/streakfit/internal/models"
	"github.com/julianstephens/streakfit/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

// TestStore_Integration runs the store against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://streakfit_user@localhost:5432/streakfit_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Cleanup(func() {
		if store.db != nil {
			store.db.Exec("DELETE FROM completions")
			store.db.Exec("DELETE FROM achievement_unlocks")
		}
	})

	t.Run("Settings", func(t *testing.T) {
		want := models.Settings{WeekStart: time.Monday, Timezone: "UTC"}
		if err := store.SaveSettings(want); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}
		got, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if got != want {
			t.Errorf("GetSettings() = %+v, want %+v", got, want)
		}
	})

	t.Run("Completions", func(t *testing.T) {
		added, err := store.AddCompletion(models.Completion{Day: "2024-01-15", MuscleGroups: []string{"legs"}})
		if err != nil || !added {
			t.Fatalf("AddCompletion() = %v, %v", added, err)
		}
		added, err = store.AddCompletion(models.Completion{Day: "2024-01-15"})
		if err != nil || added {
			t.Errorf("duplicate AddCompletion() = %v, %v; want false, nil", added, err)
		}
		if _, err := store.AddCompletion(models.Completion{Day: "2024-01-14"}); err != nil {
			t.Fatal(err)
		}

		all, err := store.GetAllCompletions()
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 || all[0].Day != "2024-01-14" {
			t.Errorf("GetAllCompletions() = %+v", all)
		}

		if err := store.DeleteCompletion("2024-01-15"); err != nil {
			t.Fatal(err)
		}
		if _, err := store.GetCompletion("2024-01-15"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetCompletion() after delete error = %v", err)
		}
	})

	t.Run("Unlocks", func(t *testing.T) {
		for _, day := range []string{"2024-01-15", "2024-02-01"} {
			if err := store.SaveAchievementUnlock(models.AchievementUnlock{AchievementID: "first-step", Day: day}); err != nil {
				t.Fatal(err)
			}
		}
		unlocks, err := store.GetAchievementUnlocks()
		if err != nil {
			t.Fatal(err)
		}
		if len(unlocks) != 1 || unlocks[0].Day != "2024-01-15" {
			t.Errorf("GetAchievementUnlocks() = %+v", unlocks)
		}
	})
}
