package service

import (
	"context"

	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/scheduler"
)

type viewService struct {
	repos repoSet
}

// NewViewService serves read-only projections of a schedule.
func NewViewService(schedules repository.ScheduleRepo, tracks repository.TrackRepo, entries repository.EntryRepo) ViewService {
	return &viewService{repos: repoSet{schedules: schedules, tracks: tracks, entries: entries}}
}

func (s *viewService) Project(ctx context.Context, scheduleID string) (*ScheduleView, error) {
	sched, snap, err := s.repos.loadSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return &ScheduleView{Schedule: sched, Rows: scheduler.Project(snap)}, nil
}

func (s *viewService) Segment(ctx context.Context, scheduleID string, opts scheduler.SegmentOptions) (*scheduler.Segmentation, error) {
	_, snap, err := s.repos.loadSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	seg := scheduler.BuildSegments(snap, opts)
	return &seg, nil
}

func (s *viewService) Conflicts(ctx context.Context, scheduleID string, trackIDs ...string) ([]scheduler.Conflict, error) {
	_, snap, err := s.repos.loadSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	lanes := snap.Lanes()
	for _, id := range trackIDs {
		if _, ok := lanes.Track(id); !ok {
			return nil, scheduler.ErrTrackNotFound
		}
	}
	return scheduler.FindOverlapConflicts(snap, trackIDs...), nil
}
