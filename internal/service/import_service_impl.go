package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/importer"
	"github.com/alexanderramin/callsheet/internal/repository"
)

type importService struct {
	repos    repoSet
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(
	schedules repository.ScheduleRepo,
	tracks repository.TrackRepo,
	entries repository.EntryRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		repos:    repoSet{schedules: schedules, tracks: tracks, entries: entries},
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	doc, err := importer.LoadDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.Import(ctx, doc)
}

func (s *importService) Import(ctx context.Context, doc *importer.Document) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": doc.Name}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateDocument(doc); len(errs) > 0 {
		return nil, fmt.Errorf("import validation failed (%d errors): %w", len(errs), errors.Join(errs...))
	}

	var generated *importer.Generated
	generated, err = importer.Convert(doc)
	if err != nil {
		return nil, fmt.Errorf("converting document: %w", err)
	}
	fields["schedule_id"] = generated.Schedule.ID
	fields["track_count"] = len(generated.Tracks)
	fields["entry_count"] = len(generated.Entries)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := txRepos(tx)
		if err := repos.schedules.Create(ctx, generated.Schedule); err != nil {
			return fmt.Errorf("creating schedule: %w", err)
		}
		for i := range generated.Tracks {
			if err := repos.tracks.Create(ctx, &generated.Tracks[i]); err != nil {
				return fmt.Errorf("creating track %q: %w", generated.Tracks[i].Name, err)
			}
		}
		for _, e := range generated.Entries {
			if err := repos.entries.Create(ctx, e); err != nil {
				return fmt.Errorf("creating entry %q: %w", e.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Schedule:   generated.Schedule,
		TrackCount: len(generated.Tracks),
		EntryCount: len(generated.Entries),
	}, nil
}

func (s *importService) ExportSchedule(ctx context.Context, scheduleID string) (*importer.Document, error) {
	sched, snap, err := s.repos.loadSnapshot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return importer.Export(sched, snap.Entries), nil
}
