package scheduler

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// ChangeKind names the mutation that produced a patch set.
type ChangeKind string

const (
	ChangeStartTime   ChangeKind = "set_start_time"
	ChangeDuration    ChangeKind = "set_duration"
	ChangeReorder     ChangeKind = "reorder"
	ChangeMoveToTrack ChangeKind = "move_to_track"
	ChangeCloseGap    ChangeKind = "close_gap"
	ChangeFill        ChangeKind = "fill_durations"
)

// ProposedChange is phase one of the optimistic commit protocol: the
// snapshot the patches were computed against, and the patches themselves.
type ProposedChange struct {
	Kind    ChangeKind
	Before  Snapshot
	Patches []domain.EntryPatch
}

// Propose wraps a patch set for validation.
func Propose(kind ChangeKind, before Snapshot, patches []domain.EntryPatch) ProposedChange {
	return ProposedChange{Kind: kind, Before: before, Patches: patches}
}

// After simulates the patches on a copy of the snapshot.
func (c ProposedChange) After() Snapshot {
	return Snapshot{
		Tracks:   c.Before.Tracks,
		Entries:  ApplyPatches(c.Before.Entries, c.Patches),
		Settings: c.Before.Settings,
	}
}

// EditedIDs returns the ids of every patched entry.
func (c ProposedChange) EditedIDs() []string {
	ids := make([]string, 0, len(c.Patches))
	for _, p := range c.Patches {
		ids = append(ids, p.EntryID)
	}
	return ids
}

// AffectedTrackIDs lists the tracks a patched entry lives in before or after
// the change, in track order. The shared group is never included.
func (c ProposedChange) AffectedTrackIDs() []string {
	before := c.Before.Lanes()
	after := c.After().Lanes()
	hit := make(map[string]bool)
	for _, p := range c.Patches {
		if id, ok := before.Container(p.EntryID); ok {
			hit[id] = true
		}
		if id, ok := after.Container(p.EntryID); ok {
			hit[id] = true
		}
	}
	var out []string
	for _, t := range before.Tracks() {
		if hit[t.ID] {
			out = append(out, t.ID)
		}
	}
	return out
}

// ValidationResult is phase two: conflicts before and after the change on
// the affected tracks, and those the change introduces.
type ValidationResult struct {
	Change     ProposedChange
	Before     []Conflict
	After      []Conflict
	Introduced []Conflict
}

// Validate compares conflicts on the current and simulated state, restricted
// to the affected tracks. A conflict counts as introduced when it is absent
// before and touches one of the patched entries.
func Validate(c ProposedChange) ValidationResult {
	res := ValidationResult{Change: c}
	if len(c.Patches) == 0 {
		return res
	}
	tracks := c.AffectedTrackIDs()
	if len(tracks) == 0 {
		return res
	}
	res.Before = FindOverlapConflicts(c.Before, tracks...)
	res.After = FindOverlapConflicts(c.After(), tracks...)

	existing := make(map[ConflictKey]bool, len(res.Before))
	for _, cf := range res.Before {
		existing[cf.Key()] = true
	}
	edited := make(map[string]bool, len(c.Patches))
	for _, id := range c.EditedIDs() {
		edited[id] = true
	}
	for _, cf := range res.After {
		if existing[cf.Key()] {
			continue
		}
		if edited[cf.FirstEntryID] || edited[cf.SecondEntryID] {
			res.Introduced = append(res.Introduced, cf)
		}
	}
	return res
}

// OK reports whether the change introduces no conflicts.
func (v ValidationResult) OK() bool {
	return len(v.Introduced) == 0
}

// CommitDecision is phase three: commit the patches, or reject with a reason.
type CommitDecision struct {
	Commit  bool
	Patches []domain.EntryPatch
	Err     error
}

// Decide turns the validation into a commit decision.
func (v ValidationResult) Decide() CommitDecision {
	if !v.OK() {
		return CommitDecision{Err: &ConflictError{Kind: v.Change.Kind, Conflicts: v.Introduced}}
	}
	return CommitDecision{Commit: true, Patches: v.Change.Patches}
}

// ConflictError rejects a change that would overlap entries. It matches ErrOverlap.
type ConflictError struct {
	Kind      ChangeKind
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%q overlaps %q on %s", c.FirstTitle, c.SecondTitle, c.TrackName))
	}
	return fmt.Sprintf("%s rejected: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrOverlap
}

// ApplyPatches returns a copy of entries with patches applied in order.
// Patches for unknown entries are ignored.
func ApplyPatches(entries []domain.Entry, patches []domain.EntryPatch) []domain.Entry {
	merged := make(map[string]domain.Patch, len(patches))
	for _, p := range patches {
		merged[p.EntryID] = merged[p.EntryID].Merge(p.Patch)
	}
	out := make([]domain.Entry, len(entries))
	for i, e := range entries {
		if p, ok := merged[e.ID]; ok {
			out[i] = p.Apply(e)
			continue
		}
		out[i] = e.Clone()
	}
	return out
}
