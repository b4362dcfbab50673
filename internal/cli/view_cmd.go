package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newConflictsCmd(app *App) *cobra.Command {
	var (
		schedule string
		tracks   []string
	)

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Report overlapping entries within each track",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			trackIDs, err := resolveTrackList(ctx, app, scheduleID, tracks)
			if err != nil {
				return err
			}
			conflicts, err := app.Views.Conflicts(ctx, scheduleID, trackIDs...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatConflicts(conflicts))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().StringSliceVar(&tracks, "track", nil, "Only check these tracks (names or IDs)")

	return cmd
}

func newAutofillCmd(app *App) *cobra.Command {
	var (
		schedule string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Fill missing durations from the gap to the next entry",
		Long: `Give every entry without a duration the gap to the next entry's start,
or the schedule default. The pass is skipped when durations have not changed
since the last fill.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			res, err := app.Backfill.FillDurations(ctx, scheduleID, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintln(out, formatter.Dim("Durations unchanged since the last fill; nothing to do (use --force to rerun)."))
				return nil
			}
			fmt.Fprintf(out, "Filled %d duration(s)\n", len(res.Patches))
			if len(res.Patches) > 0 {
				titles, err := entryTitles(ctx, app, scheduleID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.FormatPatches(res.Patches, titles))
			}
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Run even if durations are unchanged")

	return cmd
}

func newPrintCmd(app *App) *cobra.Command {
	var schedule, format, output string

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render a printable call sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := formatter.ParseDocumentFormat(format)
			if err != nil {
				return err
			}
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}
			view, err := app.Views.Project(ctx, scheduleID)
			if err != nil {
				return err
			}
			doc, err := formatter.RenderDocument(view.Schedule, view.Rows, f)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().StringVar(&format, "format", string(formatter.DocumentText), "Output format: text, markdown, csv or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func newTimelineCmd(app *App) *cobra.Command {
	var (
		schedule    string
		pxPerMin    float64
		width       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Draw the adaptive multi-track timeline",
		Long: `Draw the schedule as banners, collapsed gaps and dense blocks with one
column per track. --interactive opens a scrollable viewer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scheduleID, err := requireSchedule(ctx, app, schedule)
			if err != nil {
				return err
			}

			opts := app.Config.SegmentOptions()
			if cmd.Flags().Changed("px-per-min") {
				if pxPerMin <= 0 {
					return fmt.Errorf("--px-per-min must be positive")
				}
				opts.PxPerMin = pxPerMin
			}
			view, err := app.Views.Project(ctx, scheduleID)
			if err != nil {
				return err
			}
			seg, err := app.Views.Segment(ctx, scheduleID, opts)
			if err != nil {
				return err
			}

			layout := formatter.DefaultTimelineLayout()
			if width > 0 {
				layout.Width = width
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				return runTimelineViewer(newTimelineModel(view.Schedule, *seg, layout))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header(view.Schedule.Name+" · "+view.Schedule.DisplayDate()))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(*seg, layout))
			return nil
		},
	}

	addScheduleFlag(cmd.Flags(), &schedule)
	cmd.Flags().Float64Var(&pxPerMin, "px-per-min", 0, "Vertical scale (default from config)")
	cmd.Flags().IntVar(&width, "width", 0, "Render width in columns (default 80)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the scrollable viewer")

	return cmd
}
