package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/importer"
	"github.com/alexanderramin/callsheet/internal/scheduler"
)

// ErrLastTrack is returned when removing the only track of a schedule.
var ErrLastTrack = errors.New("a schedule must keep at least one track")

type ScheduleService interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	UpdateSettings(ctx context.Context, id string, settings domain.Settings) (*domain.Schedule, error)
	Delete(ctx context.Context, id string) error

	AddTrack(ctx context.Context, scheduleID, name string) (*domain.Track, error)
	ListTracks(ctx context.Context, scheduleID string) ([]domain.Track, error)
	RenameTrack(ctx context.Context, trackID, name string) error
	RemoveTrack(ctx context.Context, trackID string) error
}

type EntryService interface {
	Add(ctx context.Context, e *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Entry, error)
	UpdateDetails(ctx context.Context, e *domain.Entry) error
	Remove(ctx context.Context, id string) ([]domain.EntryPatch, error)
}

// EditResult reports the patches an edit produced and the commit decision.
// A rejected edit returns the result together with the decision's error.
type EditResult struct {
	Kind     scheduler.ChangeKind
	Patches  []domain.EntryPatch
	Decision scheduler.CommitDecision
}

// Committed reports whether the edit was written.
func (r *EditResult) Committed() bool {
	return r != nil && r.Decision.Commit
}

type EditService interface {
	SetStartTime(ctx context.Context, entryID, start string) (*EditResult, error)
	SetDuration(ctx context.Context, entryID string, minutes int) (*EditResult, error)
	Reorder(ctx context.Context, scheduleID, trackID string, orderedIDs []string) (*EditResult, error)
	MoveToTrack(ctx context.Context, entryID, targetTrackID string, index int) (*EditResult, error)
}

// BackfillResult holds the outcome of an auto-duration pass.
type BackfillResult struct {
	Skipped     bool
	Patches     []domain.EntryPatch
	Fingerprint string
}

type BackfillService interface {
	FillDurations(ctx context.Context, scheduleID string, force bool) (*BackfillResult, error)
}

// ScheduleView is a schedule with its projected rows.
type ScheduleView struct {
	Schedule *domain.Schedule
	Rows     []scheduler.Row
}

type ViewService interface {
	Project(ctx context.Context, scheduleID string) (*ScheduleView, error)
	Segment(ctx context.Context, scheduleID string, opts scheduler.SegmentOptions) (*scheduler.Segmentation, error)
	Conflicts(ctx context.Context, scheduleID string, trackIDs ...string) ([]scheduler.Conflict, error)
}

// ImportResult holds the outcome of a call-sheet import.
type ImportResult struct {
	Schedule   *domain.Schedule
	TrackCount int
	EntryCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	Import(ctx context.Context, doc *importer.Document) (*ImportResult, error)
	ExportSchedule(ctx context.Context, scheduleID string) (*importer.Document, error)
}
