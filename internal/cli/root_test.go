package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakfit/internal/calendar"
	"github.com/julianstephens/streakfit/internal/logger"
	"github.com/julianstephens/streakfit/internal/storage/sqlite"
)

func TestPerformAutomaticBackupLogsCommand(t *testing.T) {
	var console bytes.Buffer
	t.Cleanup(func() { logger.Logger = nil })
	if err := logger.Init(logger.Config{Debug: true, ConfigDir: t.TempDir(), Console: &console}); err != nil {
		t.Fatal(err)
	}

	// The database file was never created, so the backup fails.
	ctx := &Context{
		Store:   sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db")),
		Command: "import",
	}
	ctx.PerformAutomaticBackup()

	out := console.String()
	if !strings.Contains(out, "Automatic backup failed") || !strings.Contains(out, "command=import") {
		t.Errorf("log output = %q, want a backup warning tagged with the command", out)
	}
}

func TestParseDay(t *testing.T) {
	ctx := &Context{Now: func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local) }}

	tests := []struct {
		in      string
		want    calendar.Date
		wantErr bool
	}{
		{"", calendar.MustNew(2024, 3, 1), false},
		{"Today", calendar.MustNew(2024, 3, 1), false},
		{"yesterday", calendar.MustNew(2024, 2, 29), false},
		{"2023-12-31", calendar.MustNew(2023, 12, 31), false},
		{"31/12/2023", calendar.Date{}, true},
	}
	for _, tt := range tests {
		got, err := ctx.ParseDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
