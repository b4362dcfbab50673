package scheduler

import (
	"fmt"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// patchSet accumulates desired field values per entry and emits only the
// fields that differ from the snapshot.
type patchSet struct {
	lanes   *Lanes
	touched []string
	patches map[string]domain.Patch
}

func newPatchSet(l *Lanes) *patchSet {
	return &patchSet{lanes: l, patches: make(map[string]domain.Patch)}
}

func (ps *patchSet) put(id string, p domain.Patch) {
	cur, ok := ps.patches[id]
	if !ok {
		ps.touched = append(ps.touched, id)
	}
	ps.patches[id] = cur.Merge(p)
}

func (ps *patchSet) setStart(id string, mins int) {
	s := domain.FormatClock(mins)
	ps.put(id, domain.Patch{StartTime: &s})
}

func (ps *patchSet) setOrder(id string, order int) {
	ps.put(id, domain.Patch{Order: &order})
}

func (ps *patchSet) list() []domain.EntryPatch {
	out := make([]domain.EntryPatch, 0, len(ps.touched))
	for _, id := range ps.touched {
		p := ps.patches[id]
		if orig, ok := ps.lanes.Entry(id); ok {
			p = dropUnchanged(orig, p)
		}
		if p.IsEmpty() {
			continue
		}
		out = append(out, domain.EntryPatch{EntryID: id, Patch: p})
	}
	return out
}

func dropUnchanged(e domain.Entry, p domain.Patch) domain.Patch {
	if p.TrackID != nil && *p.TrackID == e.TrackID {
		p.TrackID = nil
	}
	if p.Order != nil && *p.Order == e.Order {
		p.Order = nil
	}
	if p.StartTime != nil && *p.StartTime == e.StartTime {
		p.StartTime = nil
	}
	if p.DurationMin != nil && *p.DurationMin == e.DurationMin {
		p.DurationMin = nil
	}
	return p
}

// cascadeFrom lays seq[from:] out back to back starting at startMin. Each
// entry occupies its effective duration.
func cascadeFrom(seq []domain.Entry, from, startMin int, s domain.Settings, ps *patchSet) {
	cursor := startMin
	for i := from; i < len(seq); i++ {
		ps.setStart(seq[i].ID, cursor)
		cursor += seq[i].EffectiveDuration(s)
	}
}

// shiftFrom moves seq[from:] by delta minutes and keeps the gaps between
// them. An entry without a resolved start is placed at prevEnd, the end of
// the entry before it.
func shiftFrom(seq []domain.Entry, slots []slot, from, delta, prevEnd int, s domain.Settings, ps *patchSet) {
	for i := from; i < len(seq); i++ {
		start := prevEnd
		if slots[i].ok {
			start = slots[i].start + delta
		}
		ps.setStart(seq[i].ID, start)
		prevEnd = start + seq[i].EffectiveDuration(s)
	}
}

// trackAnchor is the earliest explicit start in seq, or the day start.
func trackAnchor(seq []domain.Entry, s domain.Settings) int {
	best, found := 0, false
	for _, e := range seq {
		if m, ok := e.StartMinute(); ok && (!found || m < best) {
			best, found = m, true
		}
	}
	if !found {
		return s.DayStartMinute()
	}
	return best
}

// SetStartTime pins one entry to start (canonical HH:MM, or "" to unschedule).
// With cascading on, every later entry in the same track is laid out back to
// back after it. Shared entries never cascade.
func SetStartTime(snap Snapshot, entryID, start string) ([]domain.EntryPatch, error) {
	if start != "" && !domain.IsCanonicalTime(start) {
		return nil, fmt.Errorf("%w: %q (expected HH:MM)", domain.ErrInvalidTime, start)
	}
	lanes := snap.Lanes()
	if _, ok := lanes.Entry(entryID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	ps := newPatchSet(lanes)
	ps.put(entryID, domain.Patch{StartTime: &start})

	container, _ := lanes.Container(entryID)
	if container == domain.SharedTrackID || !snap.Settings.CascadeChanges || start == "" {
		return ps.list(), nil
	}

	seq := lanes.Entries(container)
	idx := indexOf(seq, entryID)
	seq[idx].StartTime = start
	mins, _ := seq[idx].StartMinute()
	cascadeFrom(seq, idx+1, mins+seq[idx].EffectiveDuration(snap.Settings), snap.Settings, ps)
	return ps.list(), nil
}

// SetDuration changes one entry's duration. With cascading on, every later
// entry in the track shifts by the same delta, so planned holes such as a
// lunch gap survive the edit. Successors that only had a derived position
// follow the entry before them.
func SetDuration(snap Snapshot, entryID string, minutes int) ([]domain.EntryPatch, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("duration %d: %w", minutes, domain.ErrInvalidDuration)
	}
	lanes := snap.Lanes()
	if _, ok := lanes.Entry(entryID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	ps := newPatchSet(lanes)
	ps.put(entryID, domain.Patch{DurationMin: &minutes})

	container, _ := lanes.Container(entryID)
	if container == domain.SharedTrackID || !snap.Settings.CascadeChanges {
		return ps.list(), nil
	}

	seq := lanes.Entries(container)
	idx := indexOf(seq, entryID)
	slots := resolveStarts(seq, snap.Settings)
	if !slots[idx].ok {
		return ps.list(), nil
	}
	delta := minutes - seq[idx].EffectiveDuration(snap.Settings)
	shiftFrom(seq, slots, idx+1, delta, slots[idx].start+minutes, snap.Settings, ps)
	return ps.list(), nil
}

// Reorder applies a new order permutation to a container. Orders become
// 0..n-1 in the given sequence; with cascading on the track is re-laid from
// its anchor. The shared group may be reordered but never cascades.
func Reorder(snap Snapshot, trackID string, orderedIDs []string) ([]domain.EntryPatch, error) {
	lanes := snap.Lanes()
	container := trackID
	if !domain.IsSharedTrackID(trackID) {
		if _, ok := lanes.Track(trackID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
		}
	} else {
		container = domain.SharedTrackID
	}

	seq := lanes.Entries(container)
	reordered, err := permute(seq, orderedIDs)
	if err != nil {
		return nil, err
	}

	ps := newPatchSet(lanes)
	renumber(reordered, ps)
	if container != domain.SharedTrackID && snap.Settings.CascadeChanges && len(reordered) > 0 {
		cascadeFrom(reordered, 0, trackAnchor(seq, snap.Settings), snap.Settings, ps)
	}
	return ps.list(), nil
}

// MoveToTrack moves an entry to targetTrackID at insertion index. The source
// track closes the gap, the target track makes room, and with cascading on
// both are re-laid from their anchors.
func MoveToTrack(snap Snapshot, entryID, targetTrackID string, index int) ([]domain.EntryPatch, error) {
	lanes := snap.Lanes()
	entry, ok := lanes.Entry(entryID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	source, _ := lanes.Container(entryID)
	if source == domain.SharedTrackID {
		return nil, fmt.Errorf("moving %s: %w", entryID, ErrSharedEntry)
	}
	if _, ok := lanes.Track(targetTrackID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, targetTrackID)
	}

	if source == targetTrackID {
		seq := lanes.Entries(source)
		ids := make([]string, 0, len(seq))
		for _, e := range seq {
			if e.ID != entryID {
				ids = append(ids, e.ID)
			}
		}
		ids = insertAt(ids, clampIndex(index, len(ids)), entryID)
		patches, err := Reorder(snap, source, ids)
		if err != nil {
			return nil, err
		}
		if entry.TrackID != targetTrackID {
			// Stale track id resolved to the primary track; pin it.
			patches = withTrack(patches, entryID, targetTrackID)
		}
		return patches, nil
	}

	ps := newPatchSet(lanes)
	cascade := snap.Settings.CascadeChanges

	srcSeq := lanes.Entries(source)
	srcAnchor := trackAnchor(srcSeq, snap.Settings)
	remaining := make([]domain.Entry, 0, len(srcSeq))
	for _, e := range srcSeq {
		if e.ID != entryID {
			remaining = append(remaining, e)
		}
	}
	renumber(remaining, ps)
	if cascade && len(remaining) > 0 {
		cascadeFrom(remaining, 0, srcAnchor, snap.Settings, ps)
	}

	dstSeq := lanes.Entries(targetTrackID)
	dstAnchor := snap.Settings.DayStartMinute()
	if hasExplicitStart(dstSeq) {
		dstAnchor = trackAnchor(dstSeq, snap.Settings)
	} else if m, ok := entry.StartMinute(); ok {
		dstAnchor = m
	}
	moved := entry
	moved.TrackID = targetTrackID
	dst := make([]domain.Entry, 0, len(dstSeq)+1)
	dst = append(dst, dstSeq...)
	dst = insertEntryAt(dst, clampIndex(index, len(dstSeq)), moved)

	target := targetTrackID
	ps.put(entryID, domain.Patch{TrackID: &target})
	renumber(dst, ps)
	if cascade {
		cascadeFrom(dst, 0, dstAnchor, snap.Settings, ps)
	}
	return ps.list(), nil
}

// CloseGap returns the patches that keep a container consistent once
// removedID is deleted: orders are renumbered 0..n-1 and, for tracks with
// cascading on, the remainder is re-laid from the original anchor.
func CloseGap(snap Snapshot, removedID string) ([]domain.EntryPatch, error) {
	lanes := snap.Lanes()
	container, ok := lanes.Container(removedID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, removedID)
	}

	seq := lanes.Entries(container)
	anchor := trackAnchor(seq, snap.Settings)
	remaining := make([]domain.Entry, 0, len(seq))
	for _, e := range seq {
		if e.ID != removedID {
			remaining = append(remaining, e)
		}
	}

	ps := newPatchSet(lanes)
	renumber(remaining, ps)
	if container != domain.SharedTrackID && snap.Settings.CascadeChanges && len(remaining) > 0 {
		cascadeFrom(remaining, 0, anchor, snap.Settings, ps)
	}
	return ps.list(), nil
}

func renumber(seq []domain.Entry, ps *patchSet) {
	for i, e := range seq {
		ps.setOrder(e.ID, i)
	}
}

func permute(seq []domain.Entry, orderedIDs []string) ([]domain.Entry, error) {
	if len(orderedIDs) != len(seq) {
		return nil, fmt.Errorf("%w: got %d ids for %d entries", ErrInvalidOrder, len(orderedIDs), len(seq))
	}
	byID := make(map[string]domain.Entry, len(seq))
	for _, e := range seq {
		byID[e.ID] = e
	}
	out := make([]domain.Entry, 0, len(seq))
	seen := make(map[string]bool, len(seq))
	for _, id := range orderedIDs {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not in the track", ErrInvalidOrder, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalidOrder, id)
		}
		seen[id] = true
		out = append(out, e)
	}
	return out, nil
}

func hasExplicitStart(seq []domain.Entry) bool {
	for _, e := range seq {
		if _, ok := e.StartMinute(); ok {
			return true
		}
	}
	return false
}

func clampIndex(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n {
		return n
	}
	return index
}

func insertAt(ids []string, index int, id string) []string {
	ids = append(ids, "")
	copy(ids[index+1:], ids[index:])
	ids[index] = id
	return ids
}

func insertEntryAt(seq []domain.Entry, index int, e domain.Entry) []domain.Entry {
	seq = append(seq, domain.Entry{})
	copy(seq[index+1:], seq[index:])
	seq[index] = e
	return seq
}

func withTrack(patches []domain.EntryPatch, entryID, trackID string) []domain.EntryPatch {
	for i := range patches {
		if patches[i].EntryID == entryID {
			patches[i].Patch.TrackID = &trackID
			return patches
		}
	}
	return append(patches, domain.EntryPatch{EntryID: entryID, Patch: domain.Patch{TrackID: &trackID}})
}
