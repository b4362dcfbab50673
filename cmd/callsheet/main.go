package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/callsheet/internal/cli"
	"github.com/alexanderramin/callsheet/internal/config"
	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/repository"
	"github.com/alexanderramin/callsheet/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Defaults, then ~/.callsheet/config.yaml or $CALLSHEET_CONFIG, then CALLSHEET_* env.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	trackRepo := repository.NewSQLiteTrackRepo(database)
	entryRepo := repository.NewSQLiteEntryRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Schedules: service.NewScheduleService(scheduleRepo, trackRepo, entryRepo, uow, observer),
		Entries:   service.NewEntryService(scheduleRepo, trackRepo, entryRepo, uow, observer),
		Edits:     service.NewEditService(uow, observer),
		Backfill:  service.NewBackfillService(uow, observer),
		Views:     service.NewViewService(scheduleRepo, trackRepo, entryRepo),
		Import:    service.NewImportService(scheduleRepo, trackRepo, entryRepo, uow, observer),
		Config:    cfg,
	}

	// Forms and the timeline viewer need a real terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
