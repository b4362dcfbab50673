package scheduler

import (
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
)

var testTracks = []domain.Track{
	{ID: "t1", Name: "Main Unit", Order: 0},
	{ID: "t2", Name: "Second Unit", Order: 1},
}

func mkEntry(id, track string, order int, start string, dur int) domain.Entry {
	return domain.Entry{
		ID:          id,
		Type:        domain.EntryShot,
		Title:       strings.ToUpper(id),
		TrackID:     track,
		Order:       order,
		StartTime:   start,
		DurationMin: dur,
	}
}

func mkBanner(id string, order int, start string, dur int) domain.Entry {
	return domain.Entry{
		ID:          id,
		Type:        domain.EntryBanner,
		Title:       strings.ToUpper(id),
		TrackID:     domain.SharedTrackID,
		Order:       order,
		StartTime:   start,
		DurationMin: dur,
	}
}

func mkSnapshot(entries ...domain.Entry) Snapshot {
	return Snapshot{Tracks: testTracks, Entries: entries, Settings: domain.DefaultSettings()}
}

func noCascade(s Snapshot) Snapshot {
	s.Settings.CascadeChanges = false
	return s
}

func patchFor(patches []domain.EntryPatch, id string) (domain.Patch, bool) {
	for _, p := range patches {
		if p.EntryID == id {
			return p.Patch, true
		}
	}
	return domain.Patch{}, false
}

// applied returns the post-patch entry for id.
func applied(s Snapshot, patches []domain.EntryPatch, id string) domain.Entry {
	for _, e := range ApplyPatches(s.Entries, patches) {
		if e.ID == id {
			return e
		}
	}
	return domain.Entry{}
}
