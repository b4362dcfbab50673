package scheduler

import (
	"github.com/alexanderramin/callsheet/internal/domain"
)

// Row is one entry of the flat chronological projection.
type Row struct {
	Entry       domain.Entry
	TrackID     string
	TrackName   string
	Shared      bool
	HasTime     bool
	StartMin    int
	EndMin      int
	DurationMin int
	TimeSource  domain.TimeSource

	trackRank int
	inputIdx  int
}

// StartClock returns the resolved start as HH:MM, or "" when untimed.
func (r Row) StartClock() string {
	if !r.HasTime {
		return ""
	}
	return domain.FormatClock(r.StartMin)
}

// EndClock returns the resolved end as HH:MM, or "" when untimed.
func (r Row) EndClock() string {
	if !r.HasTime {
		return ""
	}
	return domain.FormatClock(r.EndMin)
}

// CallText is the legacy free-text call value shown instead of a time.
func (r Row) CallText() string {
	return r.Entry.CallText()
}

type slot struct {
	start  int
	ok     bool
	source domain.TimeSource
}

// resolveStarts walks a track in order and resolves every entry's start:
// explicit when set, otherwise the previous entry's end, with the first entry
// anchored to the day start. A legacy free-text call time breaks the chain,
// and a derived start that would fall after 23:59 stays unresolved.
func resolveStarts(seq []domain.Entry, s domain.Settings) []slot {
	slots := make([]slot, len(seq))
	cursor, haveCursor := 0, false
	for i, e := range seq {
		dur := e.EffectiveDuration(s)
		if m, ok := e.StartMinute(); ok {
			slots[i] = slot{start: m, ok: true, source: domain.TimeExplicit}
			cursor, haveCursor = m+dur, true
			continue
		}
		if e.StartTime != "" {
			slots[i] = slot{source: domain.TimeNone}
			haveCursor = false
			continue
		}
		if !haveCursor && i == 0 {
			cursor, haveCursor = s.DayStartMinute(), true
		}
		if !haveCursor || cursor > domain.LastMinute {
			slots[i] = slot{source: domain.TimeNone}
			continue
		}
		slots[i] = slot{start: cursor, ok: true, source: domain.TimeDerived}
		cursor += dur
	}
	return slots
}

// Project merges every track with the shared group into one list ordered
// by resolved start. Rows without a resolvable time follow all timed rows
// in input order.
func Project(snap Snapshot) []Row {
	lanes := snap.Lanes()
	inputIdx := make(map[string]int, len(snap.Entries))
	for i, e := range snap.Entries {
		if _, seen := inputIdx[e.ID]; !seen {
			inputIdx[e.ID] = i
		}
	}

	var timed, untimed []Row
	emit := func(container string, e domain.Entry, sl slot) {
		r := Row{
			Entry:       e,
			TrackID:     container,
			TrackName:   lanes.trackName(container),
			Shared:      container == domain.SharedTrackID,
			DurationMin: e.EffectiveDuration(snap.Settings),
			TimeSource:  sl.source,
			trackRank:   lanes.rank(container),
			inputIdx:    inputIdx[e.ID],
		}
		if sl.ok {
			r.HasTime = true
			r.StartMin = sl.start
			// The day has no 24:00; an entry running past midnight ends at 23:59.
			r.EndMin = min(sl.start+r.DurationMin, domain.LastMinute)
			timed = append(timed, r)
			return
		}
		untimed = append(untimed, r)
	}

	for _, t := range lanes.Tracks() {
		seq := lanes.Entries(t.ID)
		slots := resolveStarts(seq, snap.Settings)
		for i, e := range seq {
			emit(t.ID, e, slots[i])
		}
	}
	for _, e := range lanes.Shared() {
		sl := slot{source: domain.TimeNone}
		if m, ok := e.StartMinute(); ok {
			sl = slot{start: m, ok: true, source: domain.TimeExplicit}
		}
		emit(domain.SharedTrackID, e, sl)
	}

	sortRows(timed)
	sortByInput(untimed)
	return append(timed, untimed...)
}
