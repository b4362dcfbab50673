package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleCreate_AddsPrimaryTrackAndDefaults(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)

	s := &domain.Schedule{Name: "Day 1"}
	require.NoError(t, svc.Create(ctx, s))
	assert.NotEmpty(t, s.ID)

	got, err := svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got.Settings)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, domain.PrimaryTrackName, got.Tracks[0].Name)
	assert.Equal(t, 0, got.Tracks[0].Order)
}

func TestScheduleCreate_KeepsSuppliedTracks(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)

	s := &domain.Schedule{
		Name:   "Day 2",
		Tracks: []domain.Track{{Name: "Main Unit"}, {Name: "Splinter"}},
	}
	require.NoError(t, svc.Create(ctx, s))

	tracks, err := svc.ListTracks(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Main Unit", tracks[0].Name)
	assert.Equal(t, "Splinter", tracks[1].Name)
	assert.Equal(t, 1, tracks[1].Order)
}

func TestScheduleCreate_RejectsInvalidSettings(t *testing.T) {
	env := setupRepos(t)
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)

	s := &domain.Schedule{Name: "Bad", Settings: domain.Settings{DayStartTime: "6am", DefaultEntryDurationMin: 30}}
	err := svc.Create(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDayStart)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScheduleCreate_RollbackOnTrackFailure(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()

	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 1, Match: testutil.MatchTrackInsert, Err: fmt.Errorf("injected track failure")}
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, failUoW)

	err := svc.Create(ctx, &domain.Schedule{Name: "Day 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected track failure")

	list, err := env.schedules.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "schedule insert should be rolled back")
}

func TestScheduleUpdateSettings(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)
	s, _, _ := env.seedSchedule(t)

	updated, err := svc.UpdateSettings(ctx, s.ID, domain.Settings{CascadeChanges: false, DayStartTime: "07:30", DefaultEntryDurationMin: 15})
	require.NoError(t, err)
	assert.False(t, updated.Settings.CascadeChanges)

	got, err := svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "07:30", got.Settings.DayStartTime)
	assert.Equal(t, 15, got.Settings.DefaultEntryDurationMin)
	assert.Len(t, got.Tracks, 2)

	_, err = svc.UpdateSettings(ctx, s.ID, domain.Settings{DayStartTime: "07:30", DefaultEntryDurationMin: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = svc.UpdateSettings(ctx, "missing", domain.DefaultSettings())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScheduleDelete_RemovesTracksAndEntries(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)
	s, mainUnit, _ := env.seedSchedule(t)
	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "Wide"))

	require.NoError(t, svc.Delete(ctx, s.ID))

	_, err := svc.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	entries, err := env.entries.ListBySchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrackAddRename(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)
	s, _, _ := env.seedSchedule(t)

	added, err := svc.AddTrack(ctx, s.ID, "  Drone Unit ")
	require.NoError(t, err)
	assert.Equal(t, "Drone Unit", added.Name)
	assert.Equal(t, 2, added.Order)

	require.NoError(t, svc.RenameTrack(ctx, added.ID, "Aerial Unit"))
	tracks, err := svc.ListTracks(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "Aerial Unit", tracks[2].Name)

	_, err = svc.AddTrack(ctx, s.ID, " ")
	assert.Error(t, err)
	_, err = svc.AddTrack(ctx, "missing", "X")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoveTrack_ReassignsEntriesToPrimary(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)
	s, mainUnit, second := env.seedSchedule(t)

	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "M0", testutil.WithOrder(0)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "M1", testutil.WithOrder(1)))
	s1 := env.seedEntry(t, testutil.NewTestEntry(s.ID, second.ID, "S1", testutil.WithOrder(1)))
	s0 := env.seedEntry(t, testutil.NewTestEntry(s.ID, second.ID, "S0", testutil.WithOrder(0)))
	banner := env.seedEntry(t, testutil.NewTestEntry(s.ID, domain.SharedTrackID, "Lunch",
		testutil.WithEntryType(domain.EntryBanner), testutil.WithOrder(0)))

	require.NoError(t, svc.RemoveTrack(ctx, second.ID))

	got := env.reload(t, s0.ID)
	assert.Equal(t, mainUnit.ID, got.TrackID)
	assert.Equal(t, 2, got.Order)
	got = env.reload(t, s1.ID)
	assert.Equal(t, mainUnit.ID, got.TrackID)
	assert.Equal(t, 3, got.Order)
	got = env.reload(t, banner.ID)
	assert.Equal(t, domain.SharedTrackID, got.TrackID)

	tracks, err := svc.ListTracks(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}

func TestRemoveTrack_RefusesLastTrack(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewScheduleService(env.schedules, env.tracks, env.entries, env.uow)

	s := &domain.Schedule{Name: "Solo"}
	require.NoError(t, svc.Create(ctx, s))

	err := svc.RemoveTrack(ctx, s.Tracks[0].ID)
	assert.ErrorIs(t, err, ErrLastTrack)

	tracks, err := svc.ListTracks(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}
