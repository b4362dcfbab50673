package scheduler

import (
	"errors"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// Engine errors.
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrTrackNotFound = errors.New("track not found")
	ErrInvalidOrder  = errors.New("order must be a permutation of the track's entries")
	ErrSharedEntry   = errors.New("shared entries do not belong to a track")
	ErrOverlap       = errors.New("change introduces an overlap")
)

// FallbackTrackID names the synthetic primary track used when a snapshot
// declares no tracks at all.
const FallbackTrackID = "primary"

// Snapshot is an immutable view of one schedule handed to the engine.
type Snapshot struct {
	Tracks   []domain.Track
	Entries  []domain.Entry
	Settings domain.Settings
}

// Lanes returns the track-keyed ownership structure for the snapshot.
func (s Snapshot) Lanes() *Lanes {
	return BuildLanes(s.Tracks, s.Entries)
}

// Lanes assigns every entry to exactly one container: a declared track or
// the shared group (keyed domain.SharedTrackID). Entries whose track id is
// stale or missing resolve to the primary track.
type Lanes struct {
	tracks    []domain.Track
	trackRank map[string]int
	entries   map[string][]domain.Entry
	owner     map[string]string
	byID      map[string]domain.Entry
}

// BuildLanes validates ownership once so call sites never compare track ids ad hoc.
func BuildLanes(tracks []domain.Track, entries []domain.Entry) *Lanes {
	sorted := domain.SortTracks(tracks)
	if len(sorted) == 0 {
		sorted = []domain.Track{{ID: FallbackTrackID, Name: domain.PrimaryTrackName}}
	}

	l := &Lanes{
		tracks:    sorted,
		trackRank: make(map[string]int, len(sorted)),
		entries:   make(map[string][]domain.Entry, len(sorted)+1),
		owner:     make(map[string]string, len(entries)),
		byID:      make(map[string]domain.Entry, len(entries)),
	}
	for i, t := range sorted {
		l.trackRank[t.ID] = i
	}

	grouped := make(map[string][]domain.Entry, len(sorted)+1)
	for _, e := range entries {
		if _, dup := l.byID[e.ID]; dup {
			continue
		}
		c := l.resolve(e)
		l.owner[e.ID] = c
		l.byID[e.ID] = e
		grouped[c] = append(grouped[c], e)
	}
	for c, seq := range grouped {
		l.entries[c] = SortByOrder(seq)
	}
	return l
}

func (l *Lanes) resolve(e domain.Entry) string {
	if e.IsShared() {
		return domain.SharedTrackID
	}
	if _, ok := l.trackRank[e.TrackID]; ok {
		return e.TrackID
	}
	return l.tracks[0].ID
}

// Tracks returns the tracks in display order.
func (l *Lanes) Tracks() []domain.Track {
	out := make([]domain.Track, len(l.tracks))
	copy(out, l.tracks)
	return out
}

// Primary returns the first track.
func (l *Lanes) Primary() domain.Track {
	return l.tracks[0]
}

// Track looks up a declared track.
func (l *Lanes) Track(id string) (domain.Track, bool) {
	rank, ok := l.trackRank[id]
	if !ok {
		return domain.Track{}, false
	}
	return l.tracks[rank], true
}

// Entries returns a copy of a container's entries sorted by (order, id).
func (l *Lanes) Entries(container string) []domain.Entry {
	seq := l.entries[container]
	out := make([]domain.Entry, len(seq))
	copy(out, seq)
	return out
}

// Shared returns the shared group.
func (l *Lanes) Shared() []domain.Entry {
	return l.Entries(domain.SharedTrackID)
}

// Entry looks up an entry by id.
func (l *Lanes) Entry(id string) (domain.Entry, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// Container returns the container an entry resolved to.
func (l *Lanes) Container(entryID string) (string, bool) {
	c, ok := l.owner[entryID]
	return c, ok
}

// trackName returns the display name for a container.
func (l *Lanes) trackName(container string) string {
	if container == domain.SharedTrackID {
		return "All tracks"
	}
	if t, ok := l.Track(container); ok {
		return t.Name
	}
	return ""
}

// rank orders containers for display; the shared group sorts first.
func (l *Lanes) rank(container string) int {
	if container == domain.SharedTrackID {
		return -1
	}
	return l.trackRank[container]
}

// NextOrder is "max order in the container + 1", or 0 for an empty container.
func (l *Lanes) NextOrder(container string) int {
	next := 0
	for _, e := range l.entries[container] {
		if e.Order+1 > next {
			next = e.Order + 1
		}
	}
	return next
}

// ContainerFor resolves where a not-yet-created entry would live.
func (l *Lanes) ContainerFor(e domain.Entry) string {
	return l.resolve(e)
}
