package testutil

import (
	"time"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/google/uuid"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Schedule options
type ScheduleOption func(*domain.Schedule)

func WithDate(d time.Time) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Date = d
	}
}

func WithSettings(settings domain.Settings) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Settings = settings
	}
}

func WithCascade(on bool) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Settings.CascadeChanges = on
	}
}

func WithDayStart(hhmm string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Settings.DayStartTime = hhmm
	}
}

func NewTestSchedule(name string, opts ...ScheduleOption) *domain.Schedule {
	ts := now()
	s := &domain.Schedule{
		ID:        uuid.New().String(),
		Name:      name,
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Settings:  domain.DefaultSettings(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestTrack(scheduleID, name string, order int) *domain.Track {
	return &domain.Track{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		Name:       name,
		Order:      order,
		CreatedAt:  now(),
	}
}

// Entry options
type EntryOption func(*domain.Entry)

func WithEntryType(t domain.EntryType) EntryOption {
	return func(e *domain.Entry) {
		e.Type = t
	}
}

func WithStart(hhmm string) EntryOption {
	return func(e *domain.Entry) {
		e.StartTime = hhmm
	}
}

func WithDuration(min int) EntryOption {
	return func(e *domain.Entry) {
		e.DurationMin = min
	}
}

func WithOrder(order int) EntryOption {
	return func(e *domain.Entry) {
		e.Order = order
	}
}

func WithNotes(notes string) EntryOption {
	return func(e *domain.Entry) {
		e.Notes = notes
	}
}

func WithHighlight(v domain.HighlightVariant, color, emoji string) EntryOption {
	return func(e *domain.Entry) {
		e.Highlight = &domain.Highlight{Variant: v, Color: color, Emoji: emoji}
	}
}

func WithAppliesTo(trackIDs ...string) EntryOption {
	return func(e *domain.Entry) {
		e.AppliesToTrackIDs = trackIDs
	}
}

// NewTestEntry builds a shot in trackID. Banners built with
// WithEntryType(domain.EntryBanner) should pass domain.SharedTrackID.
func NewTestEntry(scheduleID, trackID, title string, opts ...EntryOption) *domain.Entry {
	ts := now()
	e := &domain.Entry{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		Type:       domain.EntryShot,
		Title:      title,
		TrackID:    trackID,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
