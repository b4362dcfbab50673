package scheduler

import (
	"sort"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// Conflict is a time overlap between two entries of the same track.
type Conflict struct {
	TrackID       string
	TrackName     string
	FirstEntryID  string
	SecondEntryID string
	FirstTitle    string
	SecondTitle   string
}

// ConflictKey identifies a conflict regardless of which entry is "first".
type ConflictKey struct {
	TrackID string
	Low     string
	High    string
}

// Key returns the order-independent identity of c.
func (c Conflict) Key() ConflictKey {
	lo, hi := c.FirstEntryID, c.SecondEntryID
	if hi < lo {
		lo, hi = hi, lo
	}
	return ConflictKey{TrackID: c.TrackID, Low: lo, High: hi}
}

// Involves reports whether entryID is one side of the conflict.
func (c Conflict) Involves(entryID string) bool {
	return c.FirstEntryID == entryID || c.SecondEntryID == entryID
}

type interval struct {
	entry domain.Entry
	start int
	end   int
}

// FindOverlapConflicts reports every pair of entries in the same track whose
// [start, start+duration) intervals intersect. Only entries with an explicit
// start take part; durations fall back to the settings default. When
// trackIDs is empty every track is checked. Different tracks never conflict.
func FindOverlapConflicts(snap Snapshot, trackIDs ...string) []Conflict {
	lanes := snap.Lanes()
	want := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		want[id] = true
	}

	var out []Conflict
	seen := make(map[ConflictKey]bool)
	for _, t := range lanes.Tracks() {
		if len(want) > 0 && !want[t.ID] {
			continue
		}
		ivs := intervals(lanes.Entries(t.ID), snap.Settings)
		for i := range ivs {
			for j := i + 1; j < len(ivs); j++ {
				if ivs[j].start >= ivs[i].end {
					break
				}
				c := Conflict{
					TrackID:       t.ID,
					TrackName:     t.Name,
					FirstEntryID:  ivs[i].entry.ID,
					SecondEntryID: ivs[j].entry.ID,
					FirstTitle:    ivs[i].entry.Title,
					SecondTitle:   ivs[j].entry.Title,
				}
				if seen[c.Key()] {
					continue
				}
				seen[c.Key()] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func intervals(seq []domain.Entry, s domain.Settings) []interval {
	var ivs []interval
	for _, e := range seq {
		start, ok := e.StartMinute()
		if !ok {
			continue
		}
		dur := e.EffectiveDuration(s)
		if dur <= 0 {
			continue
		}
		ivs = append(ivs, interval{entry: e, start: start, end: start + dur})
	}
	sort.SliceStable(ivs, func(i, j int) bool {
		if ivs[i].start != ivs[j].start {
			return ivs[i].start < ivs[j].start
		}
		if ivs[i].entry.Order != ivs[j].entry.Order {
			return ivs[i].entry.Order < ivs[j].entry.Order
		}
		return ivs[i].entry.ID < ivs[j].entry.ID
	})
	return ivs
}
