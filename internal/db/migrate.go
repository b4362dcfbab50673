package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateEntryTypeBanner(db); err != nil {
		return fmt.Errorf("migrating schedule_entries type constraint: %w", err)
	}
	if err := migrateBackfillPrimaryTracks(db); err != nil {
		return fmt.Errorf("backfilling primary tracks: %w", err)
	}
	return nil
}

const entriesTableSQL = `CREATE TABLE %s (
		id                   TEXT PRIMARY KEY,
		schedule_id          TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		type                 TEXT NOT NULL
		                     CHECK(type IN ('shot','setup','break','move','banner')),
		title                TEXT NOT NULL,
		notes                TEXT NOT NULL DEFAULT '',
		track_id             TEXT NOT NULL DEFAULT '',
		order_index          INTEGER NOT NULL DEFAULT 0,
		start_time           TEXT NOT NULL DEFAULT '',
		duration_min         INTEGER CHECK(duration_min IS NULL OR duration_min > 0),
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL,
		highlight_variant    TEXT NOT NULL DEFAULT '',
		highlight_color      TEXT NOT NULL DEFAULT '',
		highlight_emoji      TEXT NOT NULL DEFAULT '',
		applies_to_track_ids TEXT NOT NULL DEFAULT '[]'
	)`

const entriesColumnList = `id, schedule_id, type, title, notes, track_id, order_index,
		start_time, duration_min, created_at, updated_at,
		highlight_variant, highlight_color, highlight_emoji, applies_to_track_ids`

// migrateEntryTypeBanner rebuilds schedule_entries when its type CHECK
// predates banner entries. SQLite cannot alter a CHECK in place.
func migrateEntryTypeBanner(db *sql.DB) error {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring db connection: %w", err)
	}
	defer conn.Close()

	var createSQL string
	if err := conn.QueryRowContext(ctx, `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'schedule_entries'`).Scan(&createSQL); err != nil {
		return fmt.Errorf("loading schedule_entries schema: %w", err)
	}
	if strings.Contains(strings.ToLower(createSQL), "'banner'") {
		return nil
	}

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disabling foreign keys: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS schedule_entries_new`); err != nil {
		return fmt.Errorf("dropping stale schedule_entries_new: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(entriesTableSQL, "schedule_entries_new")); err != nil {
		return fmt.Errorf("creating schedule_entries_new: %w", err)
	}
	copySQL := fmt.Sprintf(`INSERT INTO schedule_entries_new (%s) SELECT %s FROM schedule_entries`,
		entriesColumnList, entriesColumnList)
	if _, err := tx.ExecContext(ctx, copySQL); err != nil {
		return fmt.Errorf("copying schedule_entries data: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DROP TABLE schedule_entries`); err != nil {
		return fmt.Errorf("dropping old schedule_entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE schedule_entries_new RENAME TO schedule_entries`); err != nil {
		return fmt.Errorf("renaming schedule_entries_new: %w", err)
	}
	for _, idx := range entryIndexes {
		if _, err := tx.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("recreating entry index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schedule_entries migration: %w", err)
	}
	committed = true
	return nil
}

// migrateBackfillPrimaryTracks gives every schedule without tracks a
// "Primary" track. Older databases stored entries before tracks existed.
// Idempotent: schedules that already have a track are skipped.
func migrateBackfillPrimaryTracks(db *sql.DB) error {
	ctx := context.Background()

	query := `INSERT INTO tracks (id, schedule_id, name, order_index, created_at)
		SELECT s.id || ':primary', s.id, 'Primary', 0, s.created_at
		FROM schedules s
		WHERE NOT EXISTS (SELECT 1 FROM tracks t WHERE t.schedule_id = s.id)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("inserting primary tracks: %w", err)
	}
	return nil
}

var entryIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_entries_schedule ON schedule_entries(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_track ON schedule_entries(schedule_id, track_id, order_index)`,
}

var migrations = append([]string{
	`CREATE TABLE IF NOT EXISTS schedules (
		id                         TEXT PRIMARY KEY,
		name                       TEXT NOT NULL,
		date                       TEXT NOT NULL DEFAULT '',
		cascade_changes            INTEGER NOT NULL DEFAULT 1,
		day_start_time             TEXT NOT NULL DEFAULT '06:00',
		default_entry_duration_min INTEGER NOT NULL DEFAULT 30
		                           CHECK(default_entry_duration_min >= 0),
		created_at                 TEXT NOT NULL,
		updated_at                 TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tracks (
		id          TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tracks_schedule ON tracks(schedule_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS schedule_entries (
		id           TEXT PRIMARY KEY,
		schedule_id  TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		type         TEXT NOT NULL
		             CHECK(type IN ('shot','setup','break','move','banner')),
		title        TEXT NOT NULL,
		notes        TEXT NOT NULL DEFAULT '',
		track_id     TEXT NOT NULL DEFAULT '',
		order_index  INTEGER NOT NULL DEFAULT 0,
		start_time   TEXT NOT NULL DEFAULT '',
		duration_min INTEGER CHECK(duration_min IS NULL OR duration_min > 0),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	// Auto-duration change detection
	`ALTER TABLE schedules ADD COLUMN duration_fingerprint TEXT NOT NULL DEFAULT ''`,

	// Cosmetic highlight and banner applicability
	`ALTER TABLE schedule_entries ADD COLUMN highlight_variant TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE schedule_entries ADD COLUMN highlight_color TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE schedule_entries ADD COLUMN highlight_emoji TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE schedule_entries ADD COLUMN applies_to_track_ids TEXT NOT NULL DEFAULT '[]'`,
}, entryIndexes...)
