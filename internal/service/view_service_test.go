package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/alexanderramin/callsheet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewProject_MergesTracksAndBanners(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewViewService(env.schedules, env.tracks, env.entries)
	s, mainUnit, second := env.seedSchedule(t)

	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "Wide", testutil.WithOrder(0), testutil.WithStart("09:00"), testutil.WithDuration(30)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "Close", testutil.WithOrder(1), testutil.WithDuration(15)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, second.ID, "Inserts", testutil.WithOrder(0), testutil.WithStart("09:10"), testutil.WithDuration(20)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, domain.SharedTrackID, "Crew call",
		testutil.WithEntryType(domain.EntryBanner), testutil.WithStart("08:30"), testutil.WithDuration(15)))

	view, err := svc.Project(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, view.Schedule.ID)
	require.Len(t, view.Rows, 4)

	var titles []string
	for _, r := range view.Rows {
		titles = append(titles, r.Entry.Title)
	}
	assert.Equal(t, []string{"Crew call", "Wide", "Inserts", "Close"}, titles)
	assert.Equal(t, domain.TimeDerived, view.Rows[3].TimeSource)
	assert.Equal(t, "09:30", view.Rows[3].StartClock())

	_, err = svc.Project(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestViewConflicts(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewViewService(env.schedules, env.tracks, env.entries)
	s, mainUnit, second := env.seedSchedule(t)

	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "A", testutil.WithOrder(0), testutil.WithStart("09:00"), testutil.WithDuration(60)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "B", testutil.WithOrder(1), testutil.WithStart("09:30"), testutil.WithDuration(30)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, second.ID, "C", testutil.WithOrder(0), testutil.WithStart("09:00"), testutil.WithDuration(60)))

	all, err := svc.Conflicts(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, mainUnit.ID, all[0].TrackID)

	scoped, err := svc.Conflicts(ctx, s.ID, second.ID)
	require.NoError(t, err)
	assert.Empty(t, scoped)

	_, err = svc.Conflicts(ctx, s.ID, "ghost")
	assert.ErrorIs(t, err, scheduler.ErrTrackNotFound)
}

func TestViewSegment(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewViewService(env.schedules, env.tracks, env.entries)
	s, mainUnit, _ := env.seedSchedule(t)

	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "Morning", testutil.WithOrder(0), testutil.WithStart("08:00"), testutil.WithDuration(30)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, domain.SharedTrackID, "Lunch",
		testutil.WithEntryType(domain.EntryBanner), testutil.WithStart("12:00"), testutil.WithDuration(60)))
	env.seedEntry(t, testutil.NewTestEntry(s.ID, mainUnit.ID, "Afternoon", testutil.WithOrder(1), testutil.WithStart("13:00"), testutil.WithDuration(30)))

	seg, err := svc.Segment(ctx, s.ID, scheduler.DefaultSegmentOptions())
	require.NoError(t, err)

	var kinds []scheduler.SegmentKind
	for _, sg := range seg.Segments {
		kinds = append(kinds, sg.Kind)
	}
	assert.Equal(t, []scheduler.SegmentKind{
		scheduler.SegmentDense, scheduler.SegmentGap, scheduler.SegmentBanner, scheduler.SegmentDense,
	}, kinds)
	assert.Empty(t, seg.Unscheduled)
}
