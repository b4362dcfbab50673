package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/google/uuid"
)

// Generated holds the domain objects produced from a document.
type Generated struct {
	Schedule *domain.Schedule
	Tracks   []domain.Track
	Entries  []*domain.Entry
}

// Convert transforms a validated Document into domain objects ready for persistence.
// Call ValidateDocument first; Convert assumes the document is valid.
func Convert(doc *Document) (*Generated, error) {
	now := time.Now().UTC()

	var date time.Time
	if doc.Date != "" {
		d, err := time.Parse("2006-01-02", doc.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		date = d
	}

	settings, err := convertSettings(doc.Settings)
	if err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		ID:        uuid.New().String(),
		Name:      doc.Name,
		Date:      date,
		Settings:  settings,
		CreatedAt: now,
		UpdatedAt: now,
	}

	refMap := make(map[string]string) // ref -> UUID
	declared := doc.Tracks
	if len(declared) == 0 {
		declared = []TrackImport{{Ref: "primary", Name: domain.PrimaryTrackName}}
	}
	tracks := make([]domain.Track, 0, len(declared))
	for i, t := range declared {
		realID := uuid.New().String()
		refMap[t.Ref] = realID
		tracks = append(tracks, domain.Track{
			ID:         realID,
			ScheduleID: schedule.ID,
			Name:       t.Name,
			Order:      i,
			CreatedAt:  now,
		})
	}
	schedule.Tracks = tracks

	nextOrder := make(map[string]int)
	entries := make([]*domain.Entry, 0, len(doc.Entries))
	for i, ei := range doc.Entries {
		typ, err := domain.ParseEntryType(ei.Type)
		if err != nil {
			return nil, fmt.Errorf("entries[%d]: %w", i, err)
		}

		e := &domain.Entry{
			ID:         uuid.New().String(),
			ScheduleID: schedule.ID,
			Type:       typ,
			Title:      ei.Title,
			Notes:      ei.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		switch {
		case typ.Lane() == domain.LaneShared || domain.IsSharedTrackID(ei.Track):
			e.TrackID = domain.SharedTrackID
		case ei.Track == "":
			e.TrackID = tracks[0].ID
		default:
			id, ok := refMap[ei.Track]
			if !ok {
				return nil, fmt.Errorf("track %q not found for entry %q", ei.Track, ei.Title)
			}
			e.TrackID = id
		}
		e.Order = nextOrder[e.TrackID]
		nextOrder[e.TrackID]++

		switch {
		case ei.Start != "":
			start, err := domain.CanonicalTime(ei.Start)
			if err != nil {
				return nil, fmt.Errorf("entries[%d].start: %w", i, err)
			}
			e.StartTime = start
		case ei.CallText != "":
			e.StartTime = ei.CallText
		}
		if ei.DurationMin != nil {
			e.DurationMin = *ei.DurationMin
		}
		if h := ei.Highlight; h != nil {
			e.Highlight = &domain.Highlight{Variant: domain.HighlightVariant(h.Variant), Color: h.Color, Emoji: h.Emoji}
		}
		for _, ref := range ei.AppliesTo {
			if id, ok := refMap[ref]; ok {
				e.AppliesToTrackIDs = append(e.AppliesToTrackIDs, id)
			}
		}
		entries = append(entries, e)
	}

	return &Generated{Schedule: schedule, Tracks: tracks, Entries: entries}, nil
}

func convertSettings(s *SettingsImport) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if s == nil {
		return settings, nil
	}
	if s.CascadeChanges != nil {
		settings.CascadeChanges = *s.CascadeChanges
	}
	if s.DayStartTime != "" {
		start, err := domain.CanonicalTime(s.DayStartTime)
		if err != nil {
			return settings, fmt.Errorf("settings.day_start_time: %w", err)
		}
		settings.DayStartTime = start
	}
	if s.DefaultEntryDurationMin != nil {
		settings.DefaultEntryDurationMin = *s.DefaultEntryDurationMin
	}
	return settings, nil
}
