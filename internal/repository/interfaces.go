package repository

import (
	"context"

	"github.com/alexanderramin/callsheet/internal/domain"
)

type ScheduleRepo interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	SetDurationFingerprint(ctx context.Context, id, fingerprint string) error
	Delete(ctx context.Context, id string) error
}

type TrackRepo interface {
	Create(ctx context.Context, t *domain.Track) error
	GetByID(ctx context.Context, id string) (*domain.Track, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Track, error)
	Update(ctx context.Context, t *domain.Track) error
	Delete(ctx context.Context, id string) error
}

type EntryRepo interface {
	Create(ctx context.Context, e *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Entry, error)
	// Update writes the descriptive fields: type, title, notes, highlight
	// and applies-to. Timeline fields change only through ApplyPatches.
	Update(ctx context.Context, e *domain.Entry) error
	// ApplyPatches writes only the fields present in each patch. Run it
	// inside a UnitOfWork so a batch is all-or-nothing.
	ApplyPatches(ctx context.Context, patches []domain.EntryPatch) error
	Delete(ctx context.Context, id string) error
}
