package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/scheduler"
)

type backfillService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewBackfillService(uow db.UnitOfWork, observers ...UseCaseObserver) BackfillService {
	return &backfillService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// FillDurations infers missing durations for a schedule. The pass is skipped
// when the (entry id, duration) fingerprint matches the one stored after the
// previous pass, unless force is set.
func (s *backfillService) FillDurations(ctx context.Context, scheduleID string, force bool) (res *BackfillResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"schedule_id": scheduleID, "force": force}
	defer func() {
		if res != nil {
			fields["skipped"] = res.Skipped
			fields["patches"] = len(res.Patches)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      string(scheduler.ChangeFill),
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		sched, snap, err := repos.loadSnapshot(ctx, scheduleID)
		if err != nil {
			return err
		}
		current, err := scheduler.DurationFingerprint(snap.Entries)
		if err != nil {
			return err
		}
		if !force && sched.DurationFingerprint != "" && current == sched.DurationFingerprint {
			res = &BackfillResult{Skipped: true, Fingerprint: current}
			return nil
		}

		patches := scheduler.FillDurations(snap)
		if err := repos.entries.ApplyPatches(ctx, patches); err != nil {
			return fmt.Errorf("applying durations: %w", err)
		}
		after, err := scheduler.DurationFingerprint(scheduler.ApplyPatches(snap.Entries, patches))
		if err != nil {
			return err
		}
		if err := repos.schedules.SetDurationFingerprint(ctx, scheduleID, after); err != nil {
			return err
		}
		res = &BackfillResult{Patches: patches, Fingerprint: after}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
