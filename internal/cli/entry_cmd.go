package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Add, edit and reschedule call sheet entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
		newEntryEditCmd(app),
		newEntryTimeCmd(app),
		newEntryDurationCmd(app),
		newEntryMoveCmd(app),
		newEntryReorderCmd(app),
		newEntryRemoveCmd(app),
	)

	return cmd
}

// entryScope returns the schedule that entry ID prefixes are resolved in:
// the --schedule value, or the only schedule. Empty means IDs must be full.
func entryScope(ctx context.Context, app *App, schedule string) (string, error) {
	if schedule != "" {
		return resolveScheduleID(ctx, app, schedule)
	}
	schedules, err := app.Schedules.List(ctx)
	if err != nil {
		return "", err
	}
	if len(schedules) == 1 {
		return schedules[0].ID, nil
	}
	return "", nil
}

// lookupEntry resolves input and loads the entry.
func lookupEntry(ctx context.Context, app *App, schedule, input string) (*domain.Entry, error) {
	scope, err := entryScope(ctx, app, schedule)
	if err != nil {
		return nil, err
	}
	id, err := resolveEntryID(ctx, app, scope, input)
	if err != nil {
		return nil, err
	}
	return app.Entries.GetByID(ctx, id)
}

func resolveTrackList(ctx context.Context, app *App, scheduleID string, inputs []string) ([]string, error) {
	var out []string
	for _, in := range inputs {
		id, err := resolveTrackID(ctx, app, scheduleID, in)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func newEntryAddCmd(app *App) *cobra.Command {
	var (
		schedule string
		flags    entryFlags
		useForm  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an entry to a track",
		Long: `Append an entry to the end of a track. Without --start the entry follows
the previous one; banners always span every track.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}

			e := &domain.Entry{ScheduleID: scheduleID}
			if useForm || (flags.title == "" && app.interactive()) {
				tracks, err := app.Schedules.ListTracks(ctx, scheduleID)
				if err != nil {
					return err
				}
				values := &entryFormValues{entryType: flags.entryType, title: flags.title, start: flags.start}
				if err := entryForm(tracks, values).Run(); err != nil {
					return err
				}
				if err := values.apply(e); err != nil {
					return err
				}
			} else {
				if flags.title == "" {
					return fmt.Errorf("--title is required")
				}
				t, err := domain.ParseEntryType(flags.entryType)
				if err != nil {
					return err
				}
				e.Type = t
				e.Title = flags.title
				e.Notes = flags.notes
				e.StartTime = flags.start
				e.DurationMin = flags.duration
				if flags.track != "" {
					if e.TrackID, err = resolveTrackID(ctx, app, scheduleID, flags.track); err != nil {
						return err
					}
				}
			}
			e.Highlight = flags.highlight()
			if e.AppliesToTrackIDs, err = resolveTrackList(ctx, app, scheduleID, flags.appliesTo); err != nil {
				return err
			}

			if err := app.Entries.Add(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n",
				formatter.TypeBadge(e.Type), formatter.Bold(e.Title), formatter.TruncID(e.ID))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	addEntryFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&useForm, "form", false, "Fill in the entry interactively")

	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var schedule, track string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries in chronological order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			view, err := app.Views.Project(ctx, scheduleID)
			if err != nil {
				return err
			}

			rows := view.Rows
			if track != "" {
				trackID, err := resolveTrackID(ctx, app, scheduleID, track)
				if err != nil {
					return err
				}
				rows = filterRows(rows, trackID)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgenda(rows))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().StringVar(&track, "track", "", "Only show one track (name or ID)")

	return cmd
}

func filterRows(rows []scheduler.Row, trackID string) []scheduler.Row {
	var out []scheduler.Row
	for _, r := range rows {
		if r.TrackID == trackID {
			out = append(out, r)
		}
	}
	return out
}

func newEntryEditCmd(app *App) *cobra.Command {
	var (
		schedule       string
		flags          entryFlags
		clearHighlight bool
	)

	cmd := &cobra.Command{
		Use:   "edit ENTRY",
		Short: "Change an entry's title, notes, highlight or applicable tracks",
		Long: `Change descriptive fields only. Use "entry time", "entry duration",
"entry move" and "entry reorder" to reschedule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := lookupEntry(ctx, app, schedule, args[0])
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			if fs.Changed("title") {
				e.Title = flags.title
			}
			if fs.Changed("notes") {
				e.Notes = flags.notes
			}
			if h := flags.highlight(); h != nil {
				e.Highlight = h
			}
			if clearHighlight {
				e.Highlight = nil
			}
			if fs.Changed("applies-to") {
				if e.AppliesToTrackIDs, err = resolveTrackList(ctx, app, e.ScheduleID, flags.appliesTo); err != nil {
					return err
				}
			}

			if err := app.Entries.UpdateDetails(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.Bold(e.Title))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().StringVar(&flags.title, "title", "", "New title")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "New notes")
	cmd.Flags().StringVar(&flags.color, "color", "", "Highlight color")
	cmd.Flags().StringVar(&flags.emoji, "emoji", "", "Highlight emoji")
	cmd.Flags().BoolVar(&flags.outline, "outline", false, "Outlined highlight")
	cmd.Flags().BoolVar(&clearHighlight, "clear-highlight", false, "Remove the highlight")
	cmd.Flags().StringSliceVar(&flags.appliesTo, "applies-to", nil, "Tracks the entry is relevant to")

	return cmd
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "remove ENTRY",
		Short: "Delete an entry and close the gap it leaves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := lookupEntry(ctx, app, schedule, args[0])
			if err != nil {
				return err
			}
			patches, err := app.Entries.Remove(ctx, e.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %s\n", formatter.Bold(e.Title))
			if len(patches) > 0 {
				titles, err := entryTitles(ctx, app, e.ScheduleID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.FormatPatches(patches, titles))
			}
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}

func entryTitles(ctx context.Context, app *App, scheduleID string) (map[string]string, error) {
	entries, err := app.Entries.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(entries))
	for _, e := range entries {
		titles[e.ID] = e.Title
	}
	return titles, nil
}
