package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/callsheet/internal/db"
)

// Statement prefixes for FailOnNthExecUoW.Match.
const (
	MatchEntryUpdate = "UPDATE schedule_entries"
	MatchEntryInsert = "INSERT INTO schedule_entries"
	MatchTrackInsert = "INSERT INTO tracks"
)

// FailOnNthExecUoW injects Err on the FailOn-th write inside a transaction,
// then rolls back like the real unit of work. Counting starts at 1.
//
// With Match empty every ExecContext counts. Otherwise only statements
// starting with Match count, so FailOn: 2 with MatchEntryUpdate fails the
// second patch of a batch no matter how many other writes precede it.
// Reads are never counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	// Seen is the number of counted statements in the last transaction.
	Seen int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, match: u.Match, err: u.Err}
	fnErr := fn(ctx, wrapped)
	u.Seen = wrapped.count.Load()
	if fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	match  string
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match == "" || strings.HasPrefix(strings.TrimSpace(query), f.match) {
		if f.count.Add(1) == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
