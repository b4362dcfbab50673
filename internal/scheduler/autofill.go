package scheduler

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/mitchellh/hashstructure/v2"
)

// FillDurations infers a duration for every track entry that lacks one: the
// gap to the next entry's start when that start is later, else the settings
// default. Shared entries are left alone. Running it on its own output
// yields no patches.
func FillDurations(snap Snapshot) []domain.EntryPatch {
	lanes := snap.Lanes()
	ps := newPatchSet(lanes)
	for _, t := range lanes.Tracks() {
		seq := lanes.Entries(t.ID)
		for i, e := range seq {
			if e.HasDuration() {
				continue
			}
			d := 0
			if start, ok := e.StartMinute(); ok && i+1 < len(seq) {
				if next, ok := seq[i+1].StartMinute(); ok && next > start {
					d = next - start
				}
			}
			if d == 0 {
				d = snap.Settings.DefaultEntryDurationMin
			}
			if d <= 0 {
				continue
			}
			ps.put(e.ID, domain.Patch{DurationMin: &d})
		}
	}
	return ps.list()
}

type durationPair struct {
	ID          string
	DurationMin int
}

// DurationFingerprint digests the (entry id, duration) pairs of entries.
// Input order does not matter.
func DurationFingerprint(entries []domain.Entry) (string, error) {
	pairs := make([]durationPair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, durationPair{ID: e.ID, DurationMin: e.DurationMin})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].ID < pairs[j].ID })

	h, err := hashstructure.Hash(pairs, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing durations: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}
