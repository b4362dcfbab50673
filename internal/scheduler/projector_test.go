package scheduler

import (
	"testing"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Entry.ID
	}
	return ids
}

func rowByID(t *testing.T, rows []Row, id string) Row {
	t.Helper()
	for _, r := range rows {
		if r.Entry.ID == id {
			return r
		}
	}
	require.FailNow(t, "row not found", id)
	return Row{}
}

func TestProject_MergesTracksChronologically(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("b", "t1", 1, "", 15),
		mkEntry("c", "t2", 0, "", 45),
		mkEntry("d", "t2", 1, "after lunch", 30),
		mkEntry("e", "t2", 2, "", 30),
		mkBanner("lunch", 0, "12:00", 60),
		mkBanner("wrap", 1, "", 15),
	)

	rows := Project(s)

	assert.Equal(t, []string{"c", "a", "b", "lunch", "d", "e", "wrap"}, rowIDs(rows))

	c := rowByID(t, rows, "c")
	assert.Equal(t, domain.TimeDerived, c.TimeSource, "first entry anchors to the day start")
	assert.Equal(t, "06:00", c.StartClock())
	assert.Equal(t, "06:45", c.EndClock())
	assert.Equal(t, "Second Unit", c.TrackName)

	a := rowByID(t, rows, "a")
	assert.Equal(t, domain.TimeExplicit, a.TimeSource)

	b := rowByID(t, rows, "b")
	assert.Equal(t, domain.TimeDerived, b.TimeSource)
	assert.Equal(t, "09:30", b.StartClock())
	assert.Equal(t, 15, b.DurationMin)

	lunch := rowByID(t, rows, "lunch")
	assert.True(t, lunch.Shared)
	assert.Equal(t, "All tracks", lunch.TrackName)
	assert.Equal(t, 780, lunch.EndMin)

	d := rowByID(t, rows, "d")
	assert.False(t, d.HasTime)
	assert.Equal(t, "after lunch", d.CallText())
	assert.Equal(t, "", d.StartClock())

	e := rowByID(t, rows, "e")
	assert.False(t, e.HasTime, "legacy text breaks the derivation chain")
	assert.Equal(t, domain.TimeNone, e.TimeSource)
}

func TestProject_TiesPutSharedFirst(t *testing.T) {
	s := mkSnapshot(
		mkEntry("x", "t2", 0, "12:00", 30),
		mkEntry("y", "t1", 0, "12:00", 30),
		mkBanner("lunch", 0, "12:00", 60),
	)

	assert.Equal(t, []string{"lunch", "y", "x"}, rowIDs(Project(s)))
}

func TestProject_EveryEntryExactlyOnce(t *testing.T) {
	s := mkSnapshot(
		mkEntry("a", "t1", 0, "09:00", 30),
		mkEntry("a", "t2", 0, "09:00", 30),
		mkEntry("stale", "gone", 1, "", 30),
		mkBanner("lunch", 0, "12:00", 60),
	)

	rows := Project(s)
	assert.ElementsMatch(t, []string{"a", "stale", "lunch"}, rowIDs(rows))
	assert.Equal(t, "t1", rowByID(t, rows, "stale").TrackID)
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(mkSnapshot()))
}

func TestProject_DerivedStartPastMidnightIsUntimed(t *testing.T) {
	rows := Project(mkSnapshot(
		mkEntry("a", "t1", 0, "23:00", 30),
		mkEntry("b", "t1", 1, "", 45),
		mkEntry("c", "t1", 2, "", 30),
	))
	require.Len(t, rows, 3)

	b := rowByID(t, rows, "b")
	assert.True(t, b.HasTime)
	assert.Equal(t, "23:30", b.StartClock())
	assert.Equal(t, domain.LastMinute, b.EndMin, "end is clamped to the last minute of the day")
	assert.Equal(t, 45, b.DurationMin)

	c := rowByID(t, rows, "c")
	assert.False(t, c.HasTime, "a derived start at 00:15 the next day is not on this sheet")
	assert.Equal(t, "", c.StartClock())
	assert.Equal(t, "c", rows[2].Entry.ID, "untimed rows follow the timed ones")
}
