package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/cli/formatter"
	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"sched"},
		Short:   "Manage shooting days",
	}

	cmd.AddCommand(
		newScheduleCreateCmd(app),
		newScheduleListCmd(app),
		newScheduleShowCmd(app),
		newScheduleSettingsCmd(app),
		newScheduleRemoveCmd(app),
	)

	return cmd
}

func newScheduleCreateCmd(app *App) *cobra.Command {
	var (
		date     string
		tracks   []string
		settings settingsFlags
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Schedule{
				ID:   uuid.New().String(),
				Name: args[0],
			}
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				s.Date = d
			}
			var err error
			if s.Settings, err = settings.apply(cmd.Flags(), domain.DefaultSettings()); err != nil {
				return err
			}
			for _, name := range tracks {
				s.Tracks = append(s.Tracks, domain.Track{Name: name})
			}

			if err := app.Schedules.Create(cmd.Context(), s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %s %s with %d track(s)\n",
				formatter.Bold(s.Name), formatter.TruncID(s.ID), len(s.Tracks))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Shoot date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tracks, "track", nil, "Track names in order (default: a single primary track)")
	addSettingsFlags(cmd.Flags(), &settings)

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := app.Schedules.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No schedules found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleList(schedules))
			return nil
		},
	}
}

func newScheduleShowCmd(app *App) *cobra.Command {
	var agenda bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a schedule with its tracks and entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Views.Project(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if agenda {
				fmt.Fprintln(out, formatter.Header(view.Schedule.Name))
				fmt.Fprintln(out, formatter.FormatAgenda(view.Rows))
				return nil
			}
			fmt.Fprintln(out, formatter.FormatScheduleDetail(view.Schedule, view.Rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&agenda, "agenda", false, "Show a flat chronological table instead of the track tree")

	return cmd
}

func newScheduleSettingsCmd(app *App) *cobra.Command {
	var settings settingsFlags

	cmd := &cobra.Command{
		Use:   "settings ID",
		Short: "Show or change schedule policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("cascade") && !flags.Changed("day-start") && !flags.Changed("default-duration") {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSettings(s.Settings))
				return nil
			}

			next, err := settings.apply(flags, s.Settings)
			if err != nil {
				return err
			}
			updated, err := app.Schedules.UpdateSettings(ctx, id, next)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated settings for %s\n%s\n",
				formatter.Bold(updated.Name), formatter.FormatSettings(updated.Settings))
			return nil
		},
	}

	addSettingsFlags(cmd.Flags(), &settings)

	return cmd
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a schedule with all of its tracks and entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if !force {
				ok, err := confirm(app, fmt.Sprintf("Delete schedule %q and all of its entries?", s.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Schedules.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed schedule %s\n", formatter.Bold(s.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}
