package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/alexanderramin/callsheet/internal/service"
	"github.com/spf13/cobra"
)

// reportEdit prints the outcome of an edit. A rejected edit prints the
// conflicts it would have introduced and returns the rejection.
func reportEdit(cmd *cobra.Command, app *App, scheduleID, summary string, res *service.EditResult, err error) error {
	out := cmd.OutOrStdout()
	var conflict *scheduler.ConflictError
	if errors.As(err, &conflict) {
		fmt.Fprintln(out, formatter.FormatConflicts(conflict.Conflicts))
		fmt.Fprintln(out, formatter.Dim("Nothing was changed."))
		return err
	}
	if err != nil {
		return err
	}
	if !res.Committed() {
		return fmt.Errorf("%s was not committed", res.Kind)
	}

	fmt.Fprintln(out, summary)
	titles, err := entryTitles(cmd.Context(), app, scheduleID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.FormatPatches(res.Patches, titles))
	return nil
}

func newEntryTimeCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "time ENTRY TIME",
		Short: "Set an entry's start time and cascade later entries",
		Long: `Set an entry's start time. TIME accepts 09:00, 9:00, 6:30pm, 6am, noon
or midnight; "none" clears the start so the entry follows its predecessor.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := lookupEntry(ctx, app, schedule, args[0])
			if err != nil {
				return err
			}
			start := args[1]
			if strings.EqualFold(start, "none") {
				start = ""
			}
			res, err := app.Edits.SetStartTime(ctx, e.ID, start)
			return reportEdit(cmd, app, e.ScheduleID,
				fmt.Sprintf("Rescheduled %s", formatter.Bold(e.Title)), res, err)
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}

func newEntryDurationCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "duration ENTRY MINUTES",
		Short: "Set an entry's duration and cascade later entries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			minutes, err := strconv.Atoi(args[1])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("invalid duration %q: expected a positive number of minutes", args[1])
			}
			e, err := lookupEntry(ctx, app, schedule, args[0])
			if err != nil {
				return err
			}
			res, err := app.Edits.SetDuration(ctx, e.ID, minutes)
			return reportEdit(cmd, app, e.ScheduleID,
				fmt.Sprintf("Set %s to %d min", formatter.Bold(e.Title), minutes), res, err)
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}

func newEntryMoveCmd(app *App) *cobra.Command {
	var (
		schedule string
		index    int
	)

	cmd := &cobra.Command{
		Use:   "move ENTRY TRACK",
		Short: "Move an entry to another track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := lookupEntry(ctx, app, schedule, args[0])
			if err != nil {
				return err
			}
			trackID, err := resolveTrackID(ctx, app, e.ScheduleID, args[1])
			if err != nil {
				return err
			}
			at := index
			if at < 0 {
				at = math.MaxInt32
			}
			res, err := app.Edits.MoveToTrack(ctx, e.ID, trackID, at)
			return reportEdit(cmd, app, e.ScheduleID,
				fmt.Sprintf("Moved %s to %s", formatter.Bold(e.Title), args[1]), res, err)
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().IntVar(&index, "index", -1, "Position in the target track (default: append)")

	return cmd
}

func newEntryReorderCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "reorder TRACK ENTRY...",
		Short: "Set the order of every entry in a track",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			trackID, err := resolveTrackID(ctx, app, scheduleID, args[0])
			if err != nil {
				return err
			}
			ids, err := resolveEntryIDs(ctx, app, scheduleID, args[1:])
			if err != nil {
				return err
			}
			res, err := app.Edits.Reorder(ctx, scheduleID, trackID, ids)
			return reportEdit(cmd, app, scheduleID,
				fmt.Sprintf("Reordered %s", formatter.Bold(args[0])), res, err)
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}
