package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema simulates a database created before
// tracks, banners, highlights and fingerprints existed. Verifies that:
// 1. Data inserted under the old schema survives migration
// 2. New columns are added with correct defaults
// 3. The widened type CHECK accepts banners
// 4. Every schedule gains a primary track
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacy := []string{
		`CREATE TABLE schedules (
			id                         TEXT PRIMARY KEY,
			name                       TEXT NOT NULL,
			date                       TEXT NOT NULL DEFAULT '',
			cascade_changes            INTEGER NOT NULL DEFAULT 1,
			day_start_time             TEXT NOT NULL DEFAULT '06:00',
			default_entry_duration_min INTEGER NOT NULL DEFAULT 30,
			created_at                 TEXT NOT NULL,
			updated_at                 TEXT NOT NULL
		)`,
		`CREATE TABLE schedule_entries (
			id           TEXT PRIMARY KEY,
			schedule_id  TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
			type         TEXT NOT NULL CHECK(type IN ('shot','setup','break','move')),
			title        TEXT NOT NULL,
			notes        TEXT NOT NULL DEFAULT '',
			track_id     TEXT NOT NULL DEFAULT '',
			order_index  INTEGER NOT NULL DEFAULT 0,
			start_time   TEXT NOT NULL DEFAULT '',
			duration_min INTEGER,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`INSERT INTO schedules (id, name, created_at, updated_at) VALUES ('s1', 'Day 1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		`INSERT INTO schedule_entries (id, schedule_id, type, title, order_index, start_time, duration_min, created_at, updated_at)
			VALUES ('e1', 's1', 'shot', 'Wide master', 3, 'after lunch', 45, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "second run must be a no-op")

	var title, start, applies, variant string
	var order, dur int
	err = db.QueryRow(`SELECT title, order_index, start_time, duration_min, applies_to_track_ids, highlight_variant
		FROM schedule_entries WHERE id = 'e1'`).Scan(&title, &order, &start, &dur, &applies, &variant)
	require.NoError(t, err)
	assert.Equal(t, "Wide master", title)
	assert.Equal(t, 3, order)
	assert.Equal(t, "after lunch", start, "legacy free-text call times survive")
	assert.Equal(t, 45, dur)
	assert.Equal(t, "[]", applies)
	assert.Equal(t, "", variant)

	_, err = db.Exec(`INSERT INTO schedule_entries (id, schedule_id, type, title, created_at, updated_at)
		VALUES ('e2', 's1', 'banner', 'Lunch', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err, "banner entries are accepted after the upgrade")

	var fingerprint string
	require.NoError(t, db.QueryRow(`SELECT duration_fingerprint FROM schedules WHERE id = 's1'`).Scan(&fingerprint))
	assert.Equal(t, "", fingerprint)

	var trackName string
	require.NoError(t, db.QueryRow(`SELECT name FROM tracks WHERE schedule_id = 's1'`).Scan(&trackName))
	assert.Equal(t, "Primary", trackName)

	for _, idx := range []string{"idx_entries_schedule", "idx_entries_track"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist after the rebuild", idx)
	}
}
