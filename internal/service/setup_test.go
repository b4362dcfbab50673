package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db        *sql.DB
	schedules repository.ScheduleRepo
	tracks    repository.TrackRepo
	entries   repository.EntryRepo
	uow       db.UnitOfWork
}

func setupRepos(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:        database,
		schedules: repository.NewSQLiteScheduleRepo(database),
		tracks:    repository.NewSQLiteTrackRepo(database),
		entries:   repository.NewSQLiteEntryRepo(database),
		uow:       testutil.NewTestUoW(database),
	}
}

// seedSchedule stores a schedule with a "Main Unit" and a "Second Unit" track.
func (env *testEnv) seedSchedule(t *testing.T, opts ...testutil.ScheduleOption) (*domain.Schedule, *domain.Track, *domain.Track) {
	t.Helper()
	ctx := context.Background()
	s := testutil.NewTestSchedule("Day 1", opts...)
	require.NoError(t, env.schedules.Create(ctx, s))
	mainUnit := testutil.NewTestTrack(s.ID, "Main Unit", 0)
	second := testutil.NewTestTrack(s.ID, "Second Unit", 1)
	require.NoError(t, env.tracks.Create(ctx, mainUnit))
	require.NoError(t, env.tracks.Create(ctx, second))
	s.Tracks = []domain.Track{*mainUnit, *second}
	return s, mainUnit, second
}

func (env *testEnv) seedEntry(t *testing.T, e *domain.Entry) *domain.Entry {
	t.Helper()
	require.NoError(t, env.entries.Create(context.Background(), e))
	return e
}

func (env *testEnv) reload(t *testing.T, id string) *domain.Entry {
	t.Helper()
	e, err := env.entries.GetByID(context.Background(), id)
	require.NoError(t, err)
	return e
}

func ptrInt(i int) *int    { return &i }
func ptrBool(b bool) *bool { return &b }
