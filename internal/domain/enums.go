package domain

import "fmt"

type EntryType string

const (
	EntryShot   EntryType = "shot"
	EntrySetup  EntryType = "setup"
	EntryBreak  EntryType = "break"
	EntryMove   EntryType = "move"
	EntryBanner EntryType = "banner"
)

// AllEntryTypes is the closed set of entry types, in display order.
var AllEntryTypes = []EntryType{EntryShot, EntrySetup, EntryBreak, EntryMove, EntryBanner}

// Lane says where an entry of a given type lives on the timeline.
type Lane int

const (
	// LaneTrack entries belong to exactly one track and take part in
	// cascades and conflict checks.
	LaneTrack Lane = iota
	// LaneShared entries span every track and never cascade.
	LaneShared
)

// Lane classifies the entry type. Every type must be listed here; an
// unclassified type is a programming error.
func (t EntryType) Lane() Lane {
	switch t {
	case EntryShot, EntrySetup, EntryBreak, EntryMove:
		return LaneTrack
	case EntryBanner:
		return LaneShared
	default:
		panic(fmt.Sprintf("unclassified entry type %q", string(t)))
	}
}

// Label returns the human label used in documents and forms.
func (t EntryType) Label() string {
	switch t {
	case EntryShot:
		return "Shot"
	case EntrySetup:
		return "Setup"
	case EntryBreak:
		return "Break"
	case EntryMove:
		return "Company Move"
	case EntryBanner:
		return "Banner"
	default:
		panic(fmt.Sprintf("unlabelled entry type %q", string(t)))
	}
}

// Valid reports whether t is a member of the closed set.
func (t EntryType) Valid() bool {
	for _, v := range AllEntryTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseEntryType validates a raw type string.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (expected shot, setup, break, move or banner)", ErrInvalidEntryType, s)
	}
	return t, nil
}

type HighlightVariant string

const (
	HighlightSolid   HighlightVariant = "solid"
	HighlightOutline HighlightVariant = "outline"
)

// ValidHighlightVariants is the canonical set of accepted highlight variants.
var ValidHighlightVariants = map[string]bool{
	"solid": true, "outline": true,
}

// TimeSource tags how a projected row obtained its start time.
type TimeSource string

const (
	TimeExplicit TimeSource = "explicit"
	TimeDerived  TimeSource = "derived"
	TimeNone     TimeSource = "none"
)
