package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/spf13/pflag"
)

func addScheduleFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "schedule", "s", "", "Schedule ID or unique prefix")
}

// requireSchedule resolves the --schedule value, or the single schedule when
// exactly one exists.
func requireSchedule(ctx context.Context, app *App, input string) (string, error) {
	if input != "" {
		return resolveScheduleID(ctx, app, input)
	}
	schedules, err := app.Schedules.List(ctx)
	if err != nil {
		return "", err
	}
	if len(schedules) == 1 {
		return schedules[0].ID, nil
	}
	return "", fmt.Errorf("--schedule is required (%d schedules exist)", len(schedules))
}

// settingsFlags carries the schedule policy flags. Only flags the user set
// are applied on top of the base settings.
type settingsFlags struct {
	cascade         bool
	dayStart        string
	defaultDuration int
}

func addSettingsFlags(fs *pflag.FlagSet, f *settingsFlags) {
	defaults := domain.DefaultSettings()
	fs.BoolVar(&f.cascade, "cascade", defaults.CascadeChanges, "Shift later entries when a time or duration changes")
	fs.StringVar(&f.dayStart, "day-start", defaults.DayStartTime, "Anchor for the first untimed entry (e.g. 06:00, 6am)")
	fs.IntVar(&f.defaultDuration, "default-duration", defaults.DefaultEntryDurationMin, "Minutes assumed for entries without a duration")
}

func (f *settingsFlags) apply(fs *pflag.FlagSet, base domain.Settings) (domain.Settings, error) {
	out := base
	if fs.Changed("cascade") {
		out.CascadeChanges = f.cascade
	}
	if fs.Changed("day-start") {
		canon, err := domain.CanonicalTime(f.dayStart)
		if err != nil {
			return out, fmt.Errorf("invalid --day-start: %w", err)
		}
		out.DayStartTime = canon
	}
	if fs.Changed("default-duration") {
		out.DefaultEntryDurationMin = f.defaultDuration
	}
	return out, out.Validate()
}

// entryFlags carries the editable fields of an entry.
type entryFlags struct {
	entryType string
	title     string
	notes     string
	track     string
	start     string
	duration  int
	color     string
	emoji     string
	outline   bool
	appliesTo []string
}

func addEntryFlags(fs *pflag.FlagSet, f *entryFlags) {
	fs.StringVarP(&f.entryType, "type", "t", string(domain.EntryShot), "Entry type: shot, setup, break, move or banner")
	fs.StringVar(&f.title, "title", "", "Entry title")
	fs.StringVar(&f.notes, "notes", "", "Free-text notes")
	fs.StringVar(&f.track, "track", "", "Track name or ID (default: primary; \"shared\" spans every track)")
	fs.StringVar(&f.start, "start", "", "Start time (HH:MM, 6:30pm, noon)")
	fs.IntVar(&f.duration, "duration", 0, "Duration in minutes")
	fs.StringVar(&f.color, "color", "", "Highlight color (e.g. #fabd2f)")
	fs.StringVar(&f.emoji, "emoji", "", "Highlight emoji")
	fs.BoolVar(&f.outline, "outline", false, "Use an outlined highlight instead of a solid one")
	fs.StringSliceVar(&f.appliesTo, "applies-to", nil, "Tracks a shared entry is relevant to (names or IDs)")
}

func (f *entryFlags) highlight() *domain.Highlight {
	if f.color == "" && f.emoji == "" && !f.outline {
		return nil
	}
	h := &domain.Highlight{Variant: domain.HighlightSolid, Color: f.color, Emoji: f.emoji}
	if f.outline {
		h.Variant = domain.HighlightOutline
	}
	return h
}
