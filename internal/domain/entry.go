package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel track ids for entries visible across every track.
const (
	SharedTrackID = "shared"
	AllTracksID   = "all"
)

// IsSharedTrackID reports whether id is one of the shared sentinels.
func IsSharedTrackID(id string) bool {
	return id == SharedTrackID || id == AllTracksID
}

// Highlight is a cosmetic display style. It never affects scheduling.
type Highlight struct {
	Variant HighlightVariant
	Color   string
	Emoji   string
}

// Entry is one scheduled unit on a call sheet.
type Entry struct {
	ID         string
	ScheduleID string
	Type       EntryType
	Title      string
	Notes      string

	// TrackID is the owning track, or SharedTrackID/AllTracksID.
	TrackID string
	Order   int

	// StartTime is canonical HH:MM when scheduled. Empty means unscheduled;
	// any other text is a legacy display-only call time.
	StartTime string
	// DurationMin is positive when set; zero means absent.
	DurationMin int

	Highlight         *Highlight
	AppliesToTrackIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsShared reports whether the entry lives outside the per-track lanes.
func (e Entry) IsShared() bool {
	switch e.Type.Lane() {
	case LaneShared:
		return true
	case LaneTrack:
		return IsSharedTrackID(e.TrackID)
	default:
		panic(fmt.Sprintf("unhandled lane for entry type %q", string(e.Type)))
	}
}

// StartMinute returns the schedulable start. Legacy free-text values are not schedulable.
func (e Entry) StartMinute() (int, bool) {
	return canonicalMinutes(e.StartTime)
}

// HasDuration reports whether an explicit duration is set.
func (e Entry) HasDuration() bool {
	return e.DurationMin > 0
}

// EffectiveDuration is the entry's own duration, or the settings default.
func (e Entry) EffectiveDuration(s Settings) int {
	if e.DurationMin > 0 {
		return e.DurationMin
	}
	if s.DefaultEntryDurationMin > 0 {
		return s.DefaultEntryDurationMin
	}
	return 0
}

// CallText returns the legacy free-text call value, if the start time is one.
func (e Entry) CallText() string {
	if e.StartTime == "" || IsCanonicalTime(e.StartTime) {
		return ""
	}
	return e.StartTime
}

// Validate checks the structural invariants of a single entry.
func (e *Entry) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, string(e.Type))
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("entry title is required")
	}
	if e.DurationMin < 0 {
		return fmt.Errorf("duration %d: %w", e.DurationMin, ErrInvalidDuration)
	}
	if e.Order < 0 {
		return fmt.Errorf("entry order %d must not be negative", e.Order)
	}
	if h := e.Highlight; h != nil {
		if !ValidHighlightVariants[string(h.Variant)] {
			return fmt.Errorf("%w: variant %q", ErrInvalidHighlight, string(h.Variant))
		}
	}
	return nil
}

// Clone returns a deep copy so callers can patch without aliasing.
func (e Entry) Clone() Entry {
	out := e
	if e.Highlight != nil {
		h := *e.Highlight
		out.Highlight = &h
	}
	if e.AppliesToTrackIDs != nil {
		out.AppliesToTrackIDs = append([]string(nil), e.AppliesToTrackIDs...)
	}
	return out
}

// Patch is a partial field update. Nil fields are left unchanged.
type Patch struct {
	TrackID     *string
	Order       *int
	StartTime   *string
	DurationMin *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.TrackID == nil && p.Order == nil && p.StartTime == nil && p.DurationMin == nil
}

// Merge overlays o on p; fields set in o win.
func (p Patch) Merge(o Patch) Patch {
	if o.TrackID != nil {
		p.TrackID = o.TrackID
	}
	if o.Order != nil {
		p.Order = o.Order
	}
	if o.StartTime != nil {
		p.StartTime = o.StartTime
	}
	if o.DurationMin != nil {
		p.DurationMin = o.DurationMin
	}
	return p
}

// Apply returns a copy of e with the patch applied.
func (p Patch) Apply(e Entry) Entry {
	out := e.Clone()
	if p.TrackID != nil {
		out.TrackID = *p.TrackID
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.StartTime != nil {
		out.StartTime = *p.StartTime
	}
	if p.DurationMin != nil {
		out.DurationMin = *p.DurationMin
	}
	return out
}

// String renders the patch as "field=value" pairs, e.g. "start=09:45 order=2".
func (p Patch) String() string {
	var parts []string
	if p.TrackID != nil {
		parts = append(parts, "track="+*p.TrackID)
	}
	if p.Order != nil {
		parts = append(parts, fmt.Sprintf("order=%d", *p.Order))
	}
	if p.StartTime != nil {
		v := *p.StartTime
		if v == "" {
			v = "unscheduled"
		}
		parts = append(parts, "start="+v)
	}
	if p.DurationMin != nil {
		parts = append(parts, fmt.Sprintf("duration=%d", *p.DurationMin))
	}
	return strings.Join(parts, " ")
}

// EntryPatch addresses a Patch to one entry.
type EntryPatch struct {
	EntryID string
	Patch   Patch
}

func canonicalMinutes(s string) (int, bool) {
	if !IsCanonicalTime(s) {
		return 0, false
	}
	return int(s[0]-'0')*600 + int(s[1]-'0')*60 + int(s[3]-'0')*10 + int(s[4]-'0'), true
}
