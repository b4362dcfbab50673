package scheduler

import (
	"testing"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDuration_CascadesIntoUntimedSuccessor(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "", 15),
	)

	patches, err := SetDuration(s, "a", 45)
	require.NoError(t, err)

	require.Len(t, patches, 2)
	pa, ok := patchFor(patches, "a")
	require.True(t, ok)
	require.NotNil(t, pa.DurationMin)
	assert.Equal(t, 45, *pa.DurationMin)
	assert.Nil(t, pa.StartTime, "edited entry keeps its start")

	pb, ok := patchFor(patches, "b")
	require.True(t, ok)
	require.NotNil(t, pb.StartTime)
	assert.Equal(t, "09:45", *pb.StartTime)
}

func TestSetDuration_KeepsPlannedGaps(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "10:00", 30), // half-hour hole before B
		mkEntry("c", "t1", 2, "10:30", 30),
	)

	patches, err := SetDuration(s, "a", 45)
	require.NoError(t, err)
	assert.Equal(t, "10:15", applied(s, patches, "b").StartTime)
	assert.Equal(t, "10:45", applied(s, patches, "c").StartTime)

	patches, err = SetDuration(s, "a", 15)
	require.NoError(t, err)
	assert.Equal(t, "09:45", applied(s, patches, "b").StartTime, "shrinking pulls successors earlier")
	assert.Equal(t, "10:15", applied(s, patches, "c").StartTime)
}

func TestSetDuration_CascadeOffOnlyEditsEntry(t *testing.T) {
	s := noCascade(mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 15),
	))

	patches, err := SetDuration(s, "a", 45)
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, "a", patches[0].EntryID)
}

func TestSetDuration_RejectsNonPositive(t *testing.T) {
	s := mkSnapshot(mkEntry("a", "t1", 0, "09:00", 30))
	for _, d := range []int{0, -5} {
		_, err := SetDuration(s, "a", d)
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	}
}

func TestSetStartTime_CascadesLaterEntriesOnly(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "08:00", 60),
		mkEntry("b", "t1", 1, "09:00", 30),
		mkEntry("c", "t1", 2, "09:30", 15),
		mkEntry("d", "t1", 3, "09:45", 0), // default 30
		mkEntry("other", "t2", 0, "09:30", 30),
	)

	patches, err := SetStartTime(s, "b", "10:00")
	require.NoError(t, err)

	_, touched := patchFor(patches, "a")
	assert.False(t, touched, "earlier entries are never touched")
	_, touched = patchFor(patches, "other")
	assert.False(t, touched, "other tracks are never touched")

	assert.Equal(t, "10:00", applied(s, patches, "b").StartTime)
	assert.Equal(t, "10:30", applied(s, patches, "c").StartTime)
	assert.Equal(t, "10:45", applied(s, patches, "d").StartTime)
}

func TestSetStartTime_CascadeOff(t *testing.T) {
	s := noCascade(mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
	))

	patches, err := SetStartTime(s, "a", "07:00")
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, "07:00", *patches[0].Patch.StartTime)
}

func TestSetStartTime_SharedNeverCascades(t *testing.T) {
	s := mkSnapshot(
		mkBanner("lunch", 0, "12:00", 60),
		mkEntry("a", "t1", 0, "12:30", 30),
	)

	patches, err := SetStartTime(s, "lunch", "13:00")
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, "lunch", patches[0].EntryID)
}

func TestSetStartTime_TrackEditIgnoresSharedEntries(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
		mkBanner("lunch", 0, "10:00", 60),
	)

	patches, err := SetStartTime(s, "a", "09:15")
	require.NoError(t, err)
	_, touched := patchFor(patches, "lunch")
	assert.False(t, touched)
	assert.Equal(t, "09:45", applied(s, patches, "b").StartTime)
}

func TestSetStartTime_Unschedule(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
	)

	patches, err := SetStartTime(s, "a", "")
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, "", *patches[0].Patch.StartTime)
}

func TestSetStartTime_Errors(t *testing.T) {
	s := mkSnapshot(mkEntry("a", "t1", 0, "09:00", 30))

	_, err := SetStartTime(s, "a", "9am")
	assert.ErrorIs(t, err, domain.ErrInvalidTime, "engine accepts canonical HH:MM only")

	_, err = SetStartTime(s, "a", "24:00")
	assert.ErrorIs(t, err, domain.ErrInvalidTime)

	_, err = SetStartTime(s, "nope", "09:00")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSetStartTime_NoOpProducesNoPatches(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
	)

	patches, err := SetStartTime(s, "a", "09:00")
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestSetStartTime_ClampsPastMidnight(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "22:00", 60),
		mkEntry("b", "t1", 1, "23:00", 120),
		mkEntry("c", "t1", 2, "", 30),
	)

	patches, err := SetStartTime(s, "a", "23:00")
	require.NoError(t, err)
	assert.Equal(t, "23:59", applied(s, patches, "c").StartTime)
}

func TestReorder_RenumbersAndCascadesFromAnchor(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 15),
		mkEntry("c", "t1", 2, "09:45", 30),
	)

	patches, err := Reorder(s, "t1", []string{"c", "a", "b"})
	require.NoError(t, err)

	c, a, b := applied(s, patches, "c"), applied(s, patches, "a"), applied(s, patches, "b")
	assert.Equal(t, 0, c.Order)
	assert.Equal(t, 1, a.Order)
	assert.Equal(t, 2, b.Order)
	assert.Equal(t, "09:00", c.StartTime)
	assert.Equal(t, "09:30", a.StartTime)
	assert.Equal(t, "10:00", b.StartTime)
}

func TestReorder_UntimedTrackAnchorsAtDayStart(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "", 30),
		mkEntry("b", "t1", 1, "", 30),
	)

	patches, err := Reorder(s, "t1", []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, "06:00", applied(s, patches, "b").StartTime)
	assert.Equal(t, "06:30", applied(s, patches, "a").StartTime)
}

func TestReorder_CascadeOffOnlyOrders(t *testing.T) {
	s := noCascade(mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
	))

	patches, err := Reorder(s, "t1", []string{"b", "a"})
	require.NoError(t, err)
	for _, p := range patches {
		assert.Nil(t, p.Patch.StartTime)
		assert.NotNil(t, p.Patch.Order)
	}
}

func TestReorder_SharedGroupOrderOnly(t *testing.T) {
	s := mkSnapshot(
		mkBanner("lunch", 0, "12:00", 60),
		mkBanner("wrap", 1, "18:00", 15),
	)

	patches, err := Reorder(s, domain.AllTracksID, []string{"wrap", "lunch"})
	require.NoError(t, err)
	require.Len(t, patches, 2)
	for _, p := range patches {
		assert.Nil(t, p.Patch.StartTime)
	}
	assert.Equal(t, 0, applied(s, patches, "wrap").Order)
}

func TestReorder_RejectsBadPermutations(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "", 0),
		mkEntry("b", "t1", 1, "", 0),
		mkEntry("x", "t2", 0, "", 0),
	)

	tests := []struct {
		name string
		ids  []string
	}{
		{"missing", []string{"a"}},
		{"duplicate", []string{"a", "a"}},
		{"foreign", []string{"a", "x"}},
		{"extra", []string{"a", "b", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reorder(s, "t1", tt.ids)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}

	_, err := Reorder(s, "t9", nil)
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestMoveToTrack_AdoptsTargetAnchor(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("x", "t1", 1, "09:30", 30),
		mkEntry("e", "t1", 2, "11:00", 20),
		mkEntry("f", "t2", 0, "10:00", 30),
		mkEntry("g", "t2", 1, "10:30", 30),
	)

	patches, err := MoveToTrack(s, "e", "t2", 0)
	require.NoError(t, err)

	e := applied(s, patches, "e")
	assert.Equal(t, "t2", e.TrackID)
	assert.Equal(t, 0, e.Order)
	assert.Equal(t, "10:00", e.StartTime)

	f, g := applied(s, patches, "f"), applied(s, patches, "g")
	assert.Equal(t, 1, f.Order)
	assert.Equal(t, "10:20", f.StartTime)
	assert.Equal(t, 2, g.Order)
	assert.Equal(t, "10:50", g.StartTime)

	_, touched := patchFor(patches, "a")
	assert.False(t, touched, "source entries before the moved one keep their slots")
}

func TestMoveToTrack_SourceClosesGap(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("e", "t1", 1, "09:30", 30),
		mkEntry("c", "t1", 2, "10:00", 30),
	)

	patches, err := MoveToTrack(s, "e", "t2", 0)
	require.NoError(t, err)

	c := applied(s, patches, "c")
	assert.Equal(t, 1, c.Order)
	assert.Equal(t, "09:30", c.StartTime)

	e := applied(s, patches, "e")
	assert.Equal(t, "t2", e.TrackID)
	assert.Equal(t, "09:30", e.StartTime, "empty target keeps the moved entry's own start")
}

func TestMoveToTrack_IndexIsClamped(t *testing.T) {
	s := mkSnapshot(
		mkEntry("e", "t1", 0, "", 30),
		mkEntry("f", "t2", 0, "", 30),
	)

	patches, err := MoveToTrack(s, "e", "t2", 99)
	require.NoError(t, err)
	e := applied(s, patches, "e")
	assert.Equal(t, 1, e.Order)
	assert.Equal(t, "06:30", e.StartTime)
}

func TestMoveToTrack_SameTrackIsReorder(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
	)

	patches, err := MoveToTrack(s, "b", "t1", 0)
	require.NoError(t, err)
	b := applied(s, patches, "b")
	assert.Equal(t, 0, b.Order)
	assert.Equal(t, "09:00", b.StartTime)
	assert.Equal(t, "09:30", applied(s, patches, "a").StartTime)
}

func TestMoveToTrack_StaleTrackIDIsPinned(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "gone", 1, "09:30", 30),
	)

	patches, err := MoveToTrack(s, "b", "t1", 1)
	require.NoError(t, err)
	p, ok := patchFor(patches, "b")
	require.True(t, ok)
	require.NotNil(t, p.TrackID)
	assert.Equal(t, "t1", *p.TrackID)
}

func TestMoveToTrack_CascadeOff(t *testing.T) {
	s := noCascade(mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("e", "t1", 1, "09:30", 30),
		mkEntry("f", "t2", 0, "10:00", 30),
	))

	patches, err := MoveToTrack(s, "e", "t2", 0)
	require.NoError(t, err)
	for _, p := range patches {
		assert.Nil(t, p.Patch.StartTime)
	}
	assert.Equal(t, "09:30", applied(s, patches, "e").StartTime)
}

func TestMoveToTrack_Errors(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkBanner("lunch", 0, "12:00", 60),
	)

	_, err := MoveToTrack(s, "lunch", "t1", 0)
	assert.ErrorIs(t, err, ErrSharedEntry)

	_, err = MoveToTrack(s, "a", "t9", 0)
	assert.ErrorIs(t, err, ErrTrackNotFound)

	_, err = MoveToTrack(s, "nope", "t1", 0)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestCloseGap(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "09:30", 30),
		mkEntry("c", "t1", 2, "10:00", 30),
	)

	patches, err := CloseGap(s, "a")
	require.NoError(t, err)

	b, c := applied(s, patches, "b"), applied(s, patches, "c")
	assert.Equal(t, 0, b.Order)
	assert.Equal(t, "09:00", b.StartTime, "remainder re-laid from the original anchor")
	assert.Equal(t, 1, c.Order)
	assert.Equal(t, "09:30", c.StartTime)

	_, err = CloseGap(s, "nope")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}
