package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/google/uuid"
)

type entryService struct {
	repos    repoSet
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewEntryService(
	schedules repository.ScheduleRepo,
	tracks repository.TrackRepo,
	entries repository.EntryRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) EntryService {
	return &entryService{
		repos:    repoSet{schedules: schedules, tracks: tracks, entries: entries},
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add appends an entry to the end of its container. The start time is
// canonicalised; an empty track id means the primary track.
func (s *entryService) Add(ctx context.Context, e *domain.Entry) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "add-entry",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"schedule_id": e.ScheduleID, "entry_id": e.ID, "track_id": e.TrackID, "order": e.Order},
		})
	}()

	if err = e.Validate(); err != nil {
		return err
	}
	if e.StartTime != "" {
		if e.StartTime, err = domain.CanonicalTime(e.StartTime); err != nil {
			return fmt.Errorf("start time: %w", err)
		}
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		_, snap, err := repos.loadSnapshot(ctx, e.ScheduleID)
		if err != nil {
			return err
		}
		lanes := snap.Lanes()

		switch {
		case e.Type.Lane() == domain.LaneShared || domain.IsSharedTrackID(e.TrackID):
			e.TrackID = domain.SharedTrackID
		case e.TrackID == "":
			e.TrackID = lanes.Primary().ID
		default:
			if _, ok := lanes.Track(e.TrackID); !ok {
				return fmt.Errorf("%w: %s", scheduler.ErrTrackNotFound, e.TrackID)
			}
		}
		for _, id := range e.AppliesToTrackIDs {
			if _, ok := lanes.Track(id); !ok {
				return fmt.Errorf("applies to %s: %w", id, scheduler.ErrTrackNotFound)
			}
		}
		e.Order = lanes.NextOrder(lanes.ContainerFor(*e))
		return repos.entries.Create(ctx, e)
	})
}

func (s *entryService) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return s.repos.entries.GetByID(ctx, id)
}

func (s *entryService) ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Entry, error) {
	if _, err := s.repos.schedules.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.repos.entries.ListBySchedule(ctx, scheduleID)
}

// UpdateDetails writes the descriptive fields of e: title, notes, highlight
// and applies-to. Type and timeline fields are left as stored. Every
// applies-to id must be a track of the entry's schedule.
func (s *entryService) UpdateDetails(ctx context.Context, e *domain.Entry) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entry_id": e.ID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-entry",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		existing, err := repos.entries.GetByID(ctx, e.ID)
		if err != nil {
			return err
		}
		fields["schedule_id"] = existing.ScheduleID

		existing.Title = e.Title
		existing.Notes = e.Notes
		existing.Highlight = e.Highlight
		existing.AppliesToTrackIDs = e.AppliesToTrackIDs
		existing.UpdatedAt = time.Now().UTC()
		if err := existing.Validate(); err != nil {
			return err
		}

		if len(existing.AppliesToTrackIDs) > 0 {
			tracks, err := repos.tracks.ListBySchedule(ctx, existing.ScheduleID)
			if err != nil {
				return fmt.Errorf("loading tracks: %w", err)
			}
			lanes := scheduler.BuildLanes(tracks, nil)
			for _, id := range existing.AppliesToTrackIDs {
				if _, ok := lanes.Track(id); !ok {
					return fmt.Errorf("applies to %s: %w", id, scheduler.ErrTrackNotFound)
				}
			}
		}

		if err := repos.entries.Update(ctx, existing); err != nil {
			return err
		}
		*e = *existing
		return nil
	})
}

// Remove deletes an entry and closes the gap it leaves in its container.
func (s *entryService) Remove(ctx context.Context, id string) (patches []domain.EntryPatch, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entry_id": id}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "remove-entry",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		entry, err := repos.entries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		_, snap, err := repos.loadSnapshot(ctx, entry.ScheduleID)
		if err != nil {
			return err
		}
		patches, err = scheduler.CloseGap(snap, id)
		if err != nil {
			return err
		}
		if err := repos.entries.Delete(ctx, id); err != nil {
			return err
		}
		return repos.entries.ApplyPatches(ctx, patches)
	})
	if err != nil {
		return nil, err
	}
	fields["patches"] = len(patches)
	return patches, nil
}
