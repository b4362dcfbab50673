package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/scheduler"
)

// repoSet groups the repositories a use case reads a schedule through.
type repoSet struct {
	schedules repository.ScheduleRepo
	tracks    repository.TrackRepo
	entries   repository.EntryRepo
}

// txRepos builds tx-scoped repositories.
func txRepos(tx db.DBTX) repoSet {
	return repoSet{
		schedules: repository.NewSQLiteScheduleRepo(tx),
		tracks:    repository.NewSQLiteTrackRepo(tx),
		entries:   repository.NewSQLiteEntryRepo(tx),
	}
}

// loadSchedule reads a schedule together with its tracks.
func (r repoSet) loadSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	s, err := r.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tracks, err := r.tracks.ListBySchedule(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading tracks: %w", err)
	}
	s.Tracks = tracks
	return s, nil
}

// loadSnapshot reads everything the engine needs for one schedule.
func (r repoSet) loadSnapshot(ctx context.Context, scheduleID string) (*domain.Schedule, scheduler.Snapshot, error) {
	s, err := r.loadSchedule(ctx, scheduleID)
	if err != nil {
		return nil, scheduler.Snapshot{}, err
	}
	entries, err := r.entries.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, scheduler.Snapshot{}, fmt.Errorf("loading entries: %w", err)
	}
	return s, scheduler.Snapshot{Tracks: s.Tracks, Entries: entries, Settings: s.Settings}, nil
}

// commitChange runs the validation and decision phases over a proposed patch
// set and writes it only when the decision is to commit.
func commitChange(ctx context.Context, entries repository.EntryRepo, kind scheduler.ChangeKind, snap scheduler.Snapshot, patches []domain.EntryPatch) (*EditResult, error) {
	change := scheduler.Propose(kind, snap, patches)
	decision := scheduler.Validate(change).Decide()
	res := &EditResult{Kind: kind, Patches: patches, Decision: decision}
	if !decision.Commit {
		return res, decision.Err
	}
	if err := entries.ApplyPatches(ctx, decision.Patches); err != nil {
		return nil, fmt.Errorf("applying %s: %w", kind, err)
	}
	return res, nil
}

func conflictsOf(err error) []scheduler.Conflict {
	var ce *scheduler.ConflictError
	if errors.As(err, &ce) {
		return ce.Conflicts
	}
	return nil
}
