package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
)

// NewTestDB opens a migrated in-memory call-sheet database that is closed
// when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewFileTestDB opens a migrated database file in t.TempDir. Unlike
// :memory:, every pooled connection sees the same data, so concurrent
// writers really contend for the lock.
func NewFileTestDB(t *testing.T, opts ...db.OpenOption) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "callsheet.db"), opts...)
}

// ReopenTestDB opens a second pool on the file behind an existing test
// database, for tests that need two independent writers.
func ReopenTestDB(t *testing.T, database *sql.DB, opts ...db.OpenOption) *sql.DB {
	t.Helper()
	var seq int
	var name, file string
	if err := database.QueryRow(`PRAGMA database_list`).Scan(&seq, &name, &file); err != nil {
		t.Fatalf("locating test database file: %v", err)
	}
	if file == "" {
		t.Fatalf("cannot reopen an in-memory test database")
	}
	return openTestDB(t, file, opts...)
}

func openTestDB(t *testing.T, path string, opts ...db.OpenOption) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path, opts...)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedSchedule stores a schedule with default settings and the named
// tracks in order. With no names it gets a single "Primary" track, as
// ScheduleService.Create would give it.
func SeedSchedule(t *testing.T, database *sql.DB, name string, trackNames ...string) (*domain.Schedule, []domain.Track) {
	t.Helper()
	if len(trackNames) == 0 {
		trackNames = []string{"Primary"}
	}

	s := NewTestSchedule(name)
	ctx := context.Background()
	_, err := database.ExecContext(ctx,
		`INSERT INTO schedules (id, name, date, cascade_changes, day_start_time,
			default_entry_duration_min, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Date.Format("2006-01-02"), s.Settings.CascadeChanges,
		s.Settings.DayStartTime, s.Settings.DefaultEntryDurationMin,
		s.CreatedAt.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("seeding schedule %q: %v", name, err)
	}

	for i, trackName := range trackNames {
		tr := NewTestTrack(s.ID, trackName, i)
		_, err := database.ExecContext(ctx,
			`INSERT INTO tracks (id, schedule_id, name, order_index, created_at) VALUES (?, ?, ?, ?, ?)`,
			tr.ID, tr.ScheduleID, tr.Name, tr.Order, tr.CreatedAt.Format(time.RFC3339))
		if err != nil {
			t.Fatalf("seeding track %q: %v", trackName, err)
		}
		s.Tracks = append(s.Tracks, *tr)
	}
	return s, s.Tracks
}
