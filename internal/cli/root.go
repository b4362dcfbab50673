package cli

import (
	"github.com/alexanderramin/callsheet/internal/config"
	"github.com/alexanderramin/callsheet/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Schedules service.ScheduleService
	Entries   service.EntryService
	Edits     service.EditService
	Backfill  service.BackfillService
	Views     service.ViewService
	Import    service.ImportService

	Config config.Config

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// timeline viewer are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "callsheet" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "callsheet",
		Short:         "Multi-track shooting schedules with cascading call times",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScheduleCmd(app),
		newTrackCmd(app),
		newEntryCmd(app),
		newConflictsCmd(app),
		newAutofillCmd(app),
		newPrintCmd(app),
		newTimelineCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}
