package domain

import (
	"fmt"
	"sort"
	"time"
)

// Default schedule policy.
const (
	DefaultDayStartTime     = "06:00"
	DefaultEntryDurationMin = 30
	DefaultCascadeChanges   = true
	PrimaryTrackName        = "Primary"

	defaultDayStartMinute = 6 * 60
	maxDefaultDurationMin = MinutesPerDay
)

// Settings is the schedule-level policy consulted by the timeline engine.
type Settings struct {
	CascadeChanges          bool
	DayStartTime            string
	DefaultEntryDurationMin int
}

// DefaultSettings returns the policy new schedules start with.
func DefaultSettings() Settings {
	return Settings{
		CascadeChanges:          DefaultCascadeChanges,
		DayStartTime:            DefaultDayStartTime,
		DefaultEntryDurationMin: DefaultEntryDurationMin,
	}
}

// Validate checks that DayStartTime is canonical and the default duration is positive.
func (s Settings) Validate() error {
	if !IsCanonicalTime(s.DayStartTime) {
		return fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidDayStart, s.DayStartTime)
	}
	if s.DefaultEntryDurationMin <= 0 || s.DefaultEntryDurationMin > maxDefaultDurationMin {
		return fmt.Errorf("default entry duration %d: %w", s.DefaultEntryDurationMin, ErrInvalidDuration)
	}
	return nil
}

// DayStartMinute returns the day start as minutes since midnight,
// falling back to 06:00 when the stored value is not canonical.
func (s Settings) DayStartMinute() int {
	if mins, ok := canonicalMinutes(s.DayStartTime); ok {
		return mins
	}
	return defaultDayStartMinute
}

// Track is a lane of sequential, non-overlapping work.
type Track struct {
	ID         string
	ScheduleID string
	Name       string
	Order      int
	CreatedAt  time.Time
}

// SortTracks returns a copy of tracks ordered by (Order, ID).
func SortTracks(tracks []Track) []Track {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Schedule is one shooting day.
type Schedule struct {
	ID       string
	Name     string
	Date     time.Time
	Settings Settings
	Tracks   []Track

	// DurationFingerprint is the digest of (entry id, duration) pairs recorded
	// after the last auto-duration back-fill.
	DurationFingerprint string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrimaryTrack returns the first track by order.
func (s *Schedule) PrimaryTrack() (Track, bool) {
	if len(s.Tracks) == 0 {
		return Track{}, false
	}
	return SortTracks(s.Tracks)[0], true
}

// DisplayDate formats the shoot date for headers.
func (s *Schedule) DisplayDate() string {
	if s.Date.IsZero() {
		return "Undated"
	}
	return s.Date.Format("Mon Jan 2, 2006")
}
