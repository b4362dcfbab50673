package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/google/uuid"
)

type scheduleService struct {
	repos    repoSet
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewScheduleService(
	schedules repository.ScheduleRepo,
	tracks repository.TrackRepo,
	entries repository.EntryRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		repos:    repoSet{schedules: schedules, tracks: tracks, entries: entries},
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores the schedule and its tracks. A schedule without tracks gets
// a primary track; zero settings are replaced by the defaults.
func (s *scheduleService) Create(ctx context.Context, sched *domain.Schedule) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"schedule_id": sched.ID, "tracks": len(sched.Tracks)},
		})
	}()

	if strings.TrimSpace(sched.Name) == "" {
		return fmt.Errorf("schedule name is required")
	}
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	if sched.Settings == (domain.Settings{}) {
		sched.Settings = domain.DefaultSettings()
	}
	if err = sched.Settings.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	sched.CreatedAt = now
	sched.UpdatedAt = now

	if len(sched.Tracks) == 0 {
		sched.Tracks = []domain.Track{{Name: domain.PrimaryTrackName}}
	}
	for i := range sched.Tracks {
		t := &sched.Tracks[i]
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		t.ScheduleID = sched.ID
		t.Order = i
		t.CreatedAt = now
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		if err := repos.schedules.Create(ctx, sched); err != nil {
			return err
		}
		for i := range sched.Tracks {
			if err := repos.tracks.Create(ctx, &sched.Tracks[i]); err != nil {
				return fmt.Errorf("creating track %q: %w", sched.Tracks[i].Name, err)
			}
		}
		return nil
	})
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.repos.loadSchedule(ctx, id)
}

func (s *scheduleService) List(ctx context.Context) ([]*domain.Schedule, error) {
	schedules, err := s.repos.schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, sched := range schedules {
		tracks, err := s.repos.tracks.ListBySchedule(ctx, sched.ID)
		if err != nil {
			return nil, fmt.Errorf("loading tracks for %s: %w", sched.ID, err)
		}
		sched.Tracks = tracks
	}
	return schedules, nil
}

func (s *scheduleService) UpdateSettings(ctx context.Context, id string, settings domain.Settings) (sched *domain.Schedule, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-settings",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"schedule_id": id},
		})
	}()

	if err = settings.Validate(); err != nil {
		return nil, err
	}
	sched, err = s.repos.loadSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	sched.Settings = settings
	sched.UpdatedAt = time.Now().UTC()
	if err = s.repos.schedules.Update(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Delete removes the schedule; tracks and entries go with it.
func (s *scheduleService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "delete-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"schedule_id": id},
		})
	}()
	return s.repos.schedules.Delete(ctx, id)
}

func (s *scheduleService) AddTrack(ctx context.Context, scheduleID, name string) (track *domain.Track, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "add-track",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"schedule_id": scheduleID, "track": name},
		})
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("track name is required")
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		sched, err := repos.loadSchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		order := 0
		for _, t := range sched.Tracks {
			if t.Order >= order {
				order = t.Order + 1
			}
		}
		track = &domain.Track{
			ID:         uuid.New().String(),
			ScheduleID: scheduleID,
			Name:       name,
			Order:      order,
			CreatedAt:  time.Now().UTC(),
		}
		return repos.tracks.Create(ctx, track)
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (s *scheduleService) ListTracks(ctx context.Context, scheduleID string) ([]domain.Track, error) {
	if _, err := s.repos.schedules.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.repos.tracks.ListBySchedule(ctx, scheduleID)
}

func (s *scheduleService) RenameTrack(ctx context.Context, trackID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("track name is required")
	}
	t, err := s.repos.tracks.GetByID(ctx, trackID)
	if err != nil {
		return err
	}
	t.Name = name
	return s.repos.tracks.Update(ctx, t)
}

// RemoveTrack deletes a track. Its entries are appended to the primary track
// of what remains, keeping their relative order.
func (s *scheduleService) RemoveTrack(ctx context.Context, trackID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"track_id": trackID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "remove-track",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		track, err := repos.tracks.GetByID(ctx, trackID)
		if err != nil {
			return err
		}
		_, snap, err := repos.loadSnapshot(ctx, track.ScheduleID)
		if err != nil {
			return err
		}

		var remaining []domain.Track
		for _, t := range snap.Tracks {
			if t.ID != trackID {
				remaining = append(remaining, t)
			}
		}
		if len(remaining) == 0 {
			return ErrLastTrack
		}

		var orphans, kept []domain.Entry
		for _, e := range snap.Entries {
			if !e.IsShared() && e.TrackID == trackID {
				orphans = append(orphans, e)
			} else {
				kept = append(kept, e)
			}
		}

		lanes := scheduler.BuildLanes(remaining, kept)
		primary := lanes.Primary()
		next := lanes.NextOrder(primary.ID)
		patches := make([]domain.EntryPatch, 0, len(orphans))
		for i, e := range scheduler.SortByOrder(orphans) {
			target, order := primary.ID, next+i
			patches = append(patches, domain.EntryPatch{
				EntryID: e.ID,
				Patch:   domain.Patch{TrackID: &target, Order: &order},
			})
		}
		fields["reassigned"] = len(patches)

		if err := repos.tracks.Delete(ctx, trackID); err != nil {
			return err
		}
		return repos.entries.ApplyPatches(ctx, patches)
	})
}
