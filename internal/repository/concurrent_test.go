package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedScheduleWithTrack(t *testing.T, database *sql.DB) (*domain.Schedule, domain.Track) {
	t.Helper()
	s, tracks := testutil.SeedSchedule(t, database, "Concurrency", "Main Unit")
	return s, tracks[0]
}

// TestConcurrentAccess_ReadDuringWrite verifies that concurrent ListBySchedule
// calls do not block or corrupt data while writes are in progress.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	s, tr := seedScheduleWithTrack(t, database)
	entries := NewSQLiteEntryRepo(database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			e := testutil.NewTestEntry(s.ID, tr.ID, fmt.Sprintf("Shot-%d", i), testutil.WithOrder(i))
			if err := entries.Create(ctx, e); err != nil {
				t.Errorf("writer: create entry %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := entries.ListBySchedule(ctx, s.ID)
				if err != nil {
					t.Errorf("reader %d: list entries: %v", reader, err)
					return
				}
				for _, e := range list {
					if e.ID == "" || e.Title == "" {
						t.Errorf("reader %d: got half-written entry", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	list, err := entries.ListBySchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

// TestConcurrentAccess_PatchBatchesAreAtomic runs many transactional patch
// batches that each move two entries to the same start. Whatever batch
// commits last, both entries must agree.
func TestConcurrentAccess_PatchBatchesAreAtomic(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	s, tr := seedScheduleWithTrack(t, database)
	entries := NewSQLiteEntryRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	a := testutil.NewTestEntry(s.ID, tr.ID, "A", testutil.WithStart("06:00"))
	b := testutil.NewTestEntry(s.ID, tr.ID, "B", testutil.WithStart("06:00"), testutil.WithOrder(1))
	require.NoError(t, entries.Create(ctx, a))
	require.NoError(t, entries.Create(ctx, b))

	const workers = 40
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := domain.FormatClock(360 + i*10)
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				return NewSQLiteEntryRepo(tx).ApplyPatches(ctx, []domain.EntryPatch{
					{EntryID: a.ID, Patch: domain.Patch{StartTime: &start}},
					{EntryID: b.ID, Patch: domain.Patch{StartTime: &start}},
				})
			})
			if err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	gotA, err := entries.GetByID(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := entries.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, gotA.StartTime, gotB.StartTime, "a batch must never be half-applied")
}
