package importer

import (
	"fmt"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
)

// Export builds a document from a stored schedule. Entries are written per
// track in running order, then the shared entries, so that importing the
// document reproduces the same orders.
func Export(s *domain.Schedule, entries []domain.Entry) *Document {
	settings := s.Settings
	doc := &Document{
		Name: s.Name,
		Settings: &SettingsImport{
			CascadeChanges:          &settings.CascadeChanges,
			DayStartTime:            settings.DayStartTime,
			DefaultEntryDurationMin: &settings.DefaultEntryDurationMin,
		},
		Entries: []EntryImport{},
	}
	if !s.Date.IsZero() {
		doc.Date = s.Date.Format("2006-01-02")
	}

	lanes := scheduler.BuildLanes(s.Tracks, entries)
	refs := make(map[string]string)
	for i, t := range lanes.Tracks() {
		ref := fmt.Sprintf("t%d", i+1)
		refs[t.ID] = ref
		doc.Tracks = append(doc.Tracks, TrackImport{Ref: ref, Name: t.Name})
	}

	for _, t := range lanes.Tracks() {
		for _, e := range lanes.Entries(t.ID) {
			doc.Entries = append(doc.Entries, exportEntry(e, refs[t.ID], refs))
		}
	}
	for _, e := range lanes.Shared() {
		doc.Entries = append(doc.Entries, exportEntry(e, domain.SharedTrackID, refs))
	}
	return doc
}

func exportEntry(e domain.Entry, track string, refs map[string]string) EntryImport {
	out := EntryImport{
		Type:  string(e.Type),
		Title: e.Title,
		Notes: e.Notes,
		Track: track,
	}
	if e.Type.Lane() == domain.LaneShared {
		out.Track = ""
	}
	if _, ok := e.StartMinute(); ok {
		out.Start = e.StartTime
	} else {
		out.CallText = e.CallText()
	}
	if e.HasDuration() {
		d := e.DurationMin
		out.DurationMin = &d
	}
	if h := e.Highlight; h != nil {
		out.Highlight = &HighlightImport{Variant: string(h.Variant), Color: h.Color, Emoji: h.Emoji}
	}
	for _, id := range e.AppliesToTrackIDs {
		if ref, ok := refs[id]; ok {
			out.AppliesTo = append(out.AppliesTo, ref)
		}
	}
	return out
}
