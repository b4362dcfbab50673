package cli

import (
	"fmt"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Manage the parallel tracks (units) of a schedule",
	}

	cmd.AddCommand(
		newTrackAddCmd(app),
		newTrackListCmd(app),
		newTrackRenameCmd(app),
		newTrackRemoveCmd(app),
	)

	return cmd
}

func newTrackAddCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Append a track to a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			t, err := app.Schedules.AddTrack(ctx, scheduleID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added track %s %s\n", formatter.Bold(t.Name), formatter.TruncID(t.ID))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}

func newTrackListCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracks in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			tracks, err := app.Schedules.ListTracks(ctx, scheduleID)
			if err != nil {
				return err
			}
			entries, err := app.Entries.ListBySchedule(ctx, scheduleID)
			if err != nil {
				return err
			}
			counts := make(map[string]int, len(tracks))
			for _, e := range entries {
				counts[e.TrackID]++
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrackList(tracks, counts))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}

func newTrackRenameCmd(app *App) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "rename TRACK NAME",
		Short: "Rename a track",
		Args:  cobra.ExactArgs(2),
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
			if err := app.Schedules.RenameTrack(ctx, trackID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed track to %s\n", formatter.Bold(args[1]))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)

	return cmd
}

func newTrackRemoveCmd(app *App) *cobra.Command {
	var (
		schedule string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "remove TRACK",
		Short: "Remove a track, moving its entries to the primary track",
		Args:  cobra.ExactArgs(1),
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
			if !force {
				ok, err := confirm(app, fmt.Sprintf("Remove track %q?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Schedules.RemoveTrack(ctx, trackID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed track %s\n", formatter.Bold(args[0]))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}
