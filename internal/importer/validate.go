package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// ValidateDocument checks the document for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateDocument(doc *Document) []error {
	var errs []error

	if strings.TrimSpace(doc.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if doc.Date != "" {
		if _, err := time.Parse("2006-01-02", doc.Date); err != nil {
			errs = append(errs, fmt.Errorf("date: invalid date format %q (expected YYYY-MM-DD)", doc.Date))
		}
	}
	errs = append(errs, validateSettings(doc.Settings)...)

	trackRefs := make(map[string]bool)
	errs = append(errs, validateTracks(doc.Tracks, trackRefs)...)
	errs = append(errs, validateEntries(doc.Entries, trackRefs)...)

	return errs
}

func validateSettings(s *SettingsImport) []error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.DayStartTime != "" {
		if _, err := domain.CanonicalTime(s.DayStartTime); err != nil {
			errs = append(errs, fmt.Errorf("settings.day_start_time: %w", err))
		}
	}
	if s.DefaultEntryDurationMin != nil && *s.DefaultEntryDurationMin <= 0 {
		errs = append(errs, fmt.Errorf("settings.default_entry_duration_min must be positive"))
	}
	return errs
}

func validateTracks(tracks []TrackImport, refs map[string]bool) []error {
	var errs []error
	for i, t := range tracks {
		prefix := fmt.Sprintf("tracks[%d]", i)
		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if domain.IsSharedTrackID(t.Ref) {
			errs = append(errs, fmt.Errorf("%s.ref %q is reserved", prefix, t.Ref))
		} else if refs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref %q is duplicated", prefix, t.Ref))
		}
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		refs[t.Ref] = true
	}
	return errs
}

func validateEntries(entries []EntryImport, trackRefs map[string]bool) []error {
	var errs []error
	for i, e := range entries {
		prefix := fmt.Sprintf("entries[%d]", i)
		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if _, err := domain.ParseEntryType(e.Type); err != nil {
			errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
		}
		if e.Track != "" && !domain.IsSharedTrackID(e.Track) && !trackRefs[e.Track] {
			errs = append(errs, fmt.Errorf("%s.track %q not found", prefix, e.Track))
		}
		if e.Start != "" {
			if _, err := domain.CanonicalTime(e.Start); err != nil {
				errs = append(errs, fmt.Errorf("%s.start: %w", prefix, err))
			}
			if e.CallText != "" {
				errs = append(errs, fmt.Errorf("%s: start and call_text are mutually exclusive", prefix))
			}
		}
		if e.DurationMin != nil && *e.DurationMin <= 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must be positive", prefix))
		}
		if h := e.Highlight; h != nil && !domain.ValidHighlightVariants[h.Variant] {
			errs = append(errs, fmt.Errorf("%s.highlight.variant: invalid value %q", prefix, h.Variant))
		}
		for _, ref := range e.AppliesTo {
			if !trackRefs[ref] {
				errs = append(errs, fmt.Errorf("%s.applies_to %q not found", prefix, ref))
			}
		}
	}
	return errs
}
