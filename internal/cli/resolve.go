package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/callsheet/internal/domain"
)

// matchPrefix picks the single id that equals input or starts with it.
func matchPrefix(kind, input string, ids []string) (string, error) {
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// resolveScheduleID accepts a full schedule UUID or a unique prefix.
func resolveScheduleID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("schedule ID is required")
	}
	schedules, err := app.Schedules.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID)
	}
	return matchPrefix("schedule", input, ids)
}

// resolveTrackID accepts a track UUID, a unique prefix, or a track name
// (case-insensitive) within the schedule.
func resolveTrackID(ctx context.Context, app *App, scheduleID, input string) (string, error) {
	if domain.IsSharedTrackID(strings.ToLower(input)) {
		return domain.SharedTrackID, nil
	}
	tracks, err := app.Schedules.ListTracks(ctx, scheduleID)
	if err != nil {
		return "", err
	}
	for _, t := range tracks {
		if strings.EqualFold(t.Name, input) {
			return t.ID, nil
		}
	}
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return matchPrefix("track", input, ids)
}

// resolveEntryID resolves an entry identifier which can be:
//   - A unique ID prefix (requires scheduleID context)
//   - A full UUID (passed through directly)
func resolveEntryID(ctx context.Context, app *App, scheduleID, input string) (string, error) {
	if scheduleID == "" {
		return input, nil
	}
	entries, err := app.Entries.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return matchPrefix("entry", input, ids)
}

// resolveEntryIDs resolves every input against the same schedule.
func resolveEntryIDs(ctx context.Context, app *App, scheduleID string, inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := resolveEntryID(ctx, app, scheduleID, in)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
