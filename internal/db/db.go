package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long a write waits for another writer to
// release the database before failing with ErrBusy.
const DefaultBusyTimeout = 5 * time.Second

type openOptions struct {
	busyTimeout time.Duration
}

// OpenOption configures OpenDB.
type OpenOption func(*openOptions)

// WithBusyTimeout overrides DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) OpenOption {
	return func(o *openOptions) { o.busyTimeout = d }
}

// OpenDB opens the call-sheet database at path (":memory:" for a throwaway
// one) and runs migrations.
//
// Every pooled connection gets WAL, foreign keys and a busy timeout, and
// transactions begin IMMEDIATE so a patch batch takes the write lock up
// front instead of failing when it upgrades from a read.
func OpenDB(path string, opts ...OpenOption) (*sql.DB, error) {
	o := openOptions{busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path, o))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func dsn(path string, o openOptions) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.busyTimeout.Milliseconds()))
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}
