package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
)

type editService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewEditService runs timeline edits. Every edit reads, validates and writes
// inside one transaction, so it only needs the unit of work.
func NewEditService(uow db.UnitOfWork, observers ...UseCaseObserver) EditService {
	return &editService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

type cascadeFunc func(snap scheduler.Snapshot) ([]domain.EntryPatch, error)

func (s *editService) SetStartTime(ctx context.Context, entryID, start string) (*EditResult, error) {
	if start != "" {
		canonical, err := domain.CanonicalTime(start)
		if err != nil {
			return nil, fmt.Errorf("start time: %w", err)
		}
		start = canonical
	}
	return s.editEntry(ctx, scheduler.ChangeStartTime, entryID, func(snap scheduler.Snapshot) ([]domain.EntryPatch, error) {
		return scheduler.SetStartTime(snap, entryID, start)
	})
}

func (s *editService) SetDuration(ctx context.Context, entryID string, minutes int) (*EditResult, error) {
	return s.editEntry(ctx, scheduler.ChangeDuration, entryID, func(snap scheduler.Snapshot) ([]domain.EntryPatch, error) {
		return scheduler.SetDuration(snap, entryID, minutes)
	})
}

func (s *editService) MoveToTrack(ctx context.Context, entryID, targetTrackID string, index int) (*EditResult, error) {
	return s.editEntry(ctx, scheduler.ChangeMoveToTrack, entryID, func(snap scheduler.Snapshot) ([]domain.EntryPatch, error) {
		return scheduler.MoveToTrack(snap, entryID, targetTrackID, index)
	})
}

func (s *editService) Reorder(ctx context.Context, scheduleID, trackID string, orderedIDs []string) (*EditResult, error) {
	return s.edit(ctx, scheduler.ChangeReorder, map[string]any{"track_id": trackID}, func(repos repoSet) (string, error) {
		return scheduleID, nil
	}, func(snap scheduler.Snapshot) ([]domain.EntryPatch, error) {
		return scheduler.Reorder(snap, trackID, orderedIDs)
	})
}

// editEntry resolves the entry's schedule inside the transaction before
// running the edit.
func (s *editService) editEntry(ctx context.Context, kind scheduler.ChangeKind, entryID string, fn cascadeFunc) (*EditResult, error) {
	return s.edit(ctx, kind, map[string]any{"entry_id": entryID}, func(repos repoSet) (string, error) {
		e, err := repos.entries.GetByID(ctx, entryID)
		if err != nil {
			return "", err
		}
		return e.ScheduleID, nil
	}, fn)
}

// edit is the optimistic commit protocol: snapshot, compute patches, propose,
// validate against the affected tracks, then commit or reject.
func (s *editService) edit(
	ctx context.Context,
	kind scheduler.ChangeKind,
	fields map[string]any,
	scheduleOf func(repos repoSet) (string, error),
	fn cascadeFunc,
) (res *EditResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		if res != nil {
			fields["patches"] = len(res.Patches)
			fields["conflicts"] = len(conflictsOf(res.Decision.Err))
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      string(kind),
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		scheduleID, err := scheduleOf(repos)
		if err != nil {
			return err
		}
		fields["schedule_id"] = scheduleID
		_, snap, err := repos.loadSnapshot(ctx, scheduleID)
		if err != nil {
			return err
		}
		patches, err := fn(snap)
		if err != nil {
			return err
		}
		res, err = commitChange(ctx, repos.entries, kind, snap, patches)
		return err
	})
	return res, err
}
