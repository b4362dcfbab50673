package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int    { return &i }
func ptrBool(b bool) *bool { return &b }

func validMinimalDocument() *Document {
	return &Document{
		Name: "Day 1",
		Entries: []EntryImport{
			{Type: "shot", Title: "Wide master", Start: "09:00", DurationMin: ptrInt(30)},
		},
	}
}

func TestValidateDocument_ValidMinimal(t *testing.T) {
	errs := ValidateDocument(validMinimalDocument())
	assert.Empty(t, errs)
}

func TestValidateDocument_ValidFull(t *testing.T) {
	doc := &Document{
		Name: "Day 4 - Harbour",
		Date: "2026-03-14",
		Settings: &SettingsImport{
			CascadeChanges:          ptrBool(false),
			DayStartTime:            "6am",
			DefaultEntryDurationMin: ptrInt(20),
		},
		Tracks: []TrackImport{
			{Ref: "main", Name: "Main Unit"},
			{Ref: "second", Name: "Second Unit"},
		},
		Entries: []EntryImport{
			{Type: "banner", Title: "Crew call", Start: "06:30", DurationMin: ptrInt(15), AppliesTo: []string{"main", "second"}},
			{Type: "setup", Title: "Light the dock", Track: "main", Start: "7:00"},
			{Type: "shot", Title: "Dock wide", Track: "main", DurationMin: ptrInt(45),
				Highlight: &HighlightImport{Variant: "solid", Color: "#ffcc00", Emoji: "🎬"}},
			{Type: "shot", Title: "Inserts", Track: "second", CallText: "after lunch"},
			{Type: "break", Title: "Lunch", Track: "shared", Start: "noon"},
		},
	}
	errs := ValidateDocument(doc)
	assert.Empty(t, errs)
}

func TestValidateDocument_MissingName(t *testing.T) {
	doc := validMinimalDocument()
	doc.Name = "  "
	errs := ValidateDocument(doc)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "name is required")
}

func TestValidateDocument_InvalidDate(t *testing.T) {
	doc := validMinimalDocument()
	doc.Date = "14/03/2026"
	errs := ValidateDocument(doc)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid date format")
}

func TestValidateDocument_InvalidSettings(t *testing.T) {
	doc := validMinimalDocument()
	doc.Settings = &SettingsImport{DayStartTime: "sunrise", DefaultEntryDurationMin: ptrInt(0)}
	errs := ValidateDocument(doc)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "settings.day_start_time")
	assert.Contains(t, errs[1].Error(), "default_entry_duration_min")
}

func TestValidateDocument_TrackRefs(t *testing.T) {
	tests := []struct {
		name   string
		tracks []TrackImport
		want   string
	}{
		{"missing ref", []TrackImport{{Name: "Main"}}, "tracks[0].ref is required"},
		{"reserved shared", []TrackImport{{Ref: "shared", Name: "Main"}}, "is reserved"},
		{"reserved all", []TrackImport{{Ref: "all", Name: "Main"}}, "is reserved"},
		{"duplicate", []TrackImport{{Ref: "a", Name: "A"}, {Ref: "a", Name: "B"}}, "tracks[1].ref \"a\" is duplicated"},
		{"missing name", []TrackImport{{Ref: "a"}}, "tracks[0].name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validMinimalDocument()
			doc.Tracks = tt.tracks
			errs := ValidateDocument(doc)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}

func TestValidateDocument_EntryErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryImport
		want  string
	}{
		{"missing title", EntryImport{Type: "shot"}, "entries[0].title is required"},
		{"bad type", EntryImport{Type: "scene", Title: "X"}, "entries[0].type"},
		{"unknown track", EntryImport{Type: "shot", Title: "X", Track: "ghost"}, "track \"ghost\" not found"},
		{"bad start", EntryImport{Type: "shot", Title: "X", Start: "25:00"}, "entries[0].start"},
		{"start and call text", EntryImport{Type: "shot", Title: "X", Start: "09:00", CallText: "tbc"}, "mutually exclusive"},
		{"zero duration", EntryImport{Type: "shot", Title: "X", DurationMin: ptrInt(0)}, "duration_min must be positive"},
		{"bad highlight", EntryImport{Type: "shot", Title: "X", Highlight: &HighlightImport{Variant: "neon"}}, "highlight.variant"},
		{"unknown applies_to", EntryImport{Type: "banner", Title: "X", AppliesTo: []string{"ghost"}}, "applies_to \"ghost\" not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Name: "Day", Entries: []EntryImport{tt.entry}}
			errs := ValidateDocument(doc)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}

func TestValidateDocument_CollectsAllErrors(t *testing.T) {
	doc := &Document{
		Entries: []EntryImport{
			{Type: "scene"},
			{Type: "shot", Title: "Ok", Track: "ghost"},
		},
	}
	errs := ValidateDocument(doc)
	assert.Len(t, errs, 4)
}
