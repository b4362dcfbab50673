package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/callsheet/internal/domain"
	"github.com/alexanderramin/callsheet/internal/importer"
	"github.com/alexanderramin/callsheet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImportDocument() *importer.Document {
	return &importer.Document{
		Name: "Day 4 - Harbour",
		Date: "2026-03-14",
		Settings: &importer.SettingsImport{
			DayStartTime: "06:00",
		},
		Tracks: []importer.TrackImport{
			{Ref: "main", Name: "Main Unit"},
			{Ref: "second", Name: "Second Unit"},
		},
		Entries: []importer.EntryImport{
			{Type: "banner", Title: "Crew call", Start: "06:30", DurationMin: ptrInt(15)},
			{Type: "setup", Title: "Light the dock", Track: "main", Start: "07:00", DurationMin: ptrInt(45)},
			{Type: "shot", Title: "Dock wide", Track: "main", DurationMin: ptrInt(30)},
			{Type: "shot", Title: "Inserts", Track: "second", CallText: "after lunch"},
		},
	}
}

func writeImportYAML(t *testing.T, doc *importer.Document) string {
	t.Helper()
	data, err := importer.Marshal(doc, importer.FormatYAML)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "day4.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestImportFile_FullDocument(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewImportService(env.schedules, env.tracks, env.entries, env.uow)

	res, err := svc.ImportFile(ctx, writeImportYAML(t, validImportDocument()))
	require.NoError(t, err)
	assert.Equal(t, 2, res.TrackCount)
	assert.Equal(t, 4, res.EntryCount)

	stored, err := env.schedules.GetByID(ctx, res.Schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day 4 - Harbour", stored.Name)
	assert.Equal(t, "2026-03-14", stored.Date.Format("2006-01-02"))

	entries, err := env.entries.ListBySchedule(ctx, res.Schedule.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byTitle := make(map[string]domain.Entry)
	for _, e := range entries {
		byTitle[e.Title] = e
	}
	assert.Equal(t, domain.SharedTrackID, byTitle["Crew call"].TrackID)
	assert.Equal(t, 1, byTitle["Dock wide"].Order)
	assert.Equal(t, "after lunch", byTitle["Inserts"].CallText())
}

func TestImport_ValidationErrorsAreJoined(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewImportService(env.schedules, env.tracks, env.entries, env.uow)

	doc := validImportDocument()
	doc.Name = ""
	doc.Entries[1].Type = "scene"

	_, err := svc.Import(ctx, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "name is required")
	assert.ErrorIs(t, err, domain.ErrInvalidEntryType)

	list, err := env.schedules.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImport_RollbackOnEntryFailure(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()

	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Match: testutil.MatchEntryInsert, Err: fmt.Errorf("injected entry failure")}
	svc := NewImportService(env.schedules, env.tracks, env.entries, failUoW)

	_, err := svc.Import(ctx, validImportDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected entry failure")

	list, err := env.schedules.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "schedule should be rolled back")
}

func TestExportSchedule_RoundTrip(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewImportService(env.schedules, env.tracks, env.entries, env.uow)

	first, err := svc.Import(ctx, validImportDocument())
	require.NoError(t, err)

	doc, err := svc.ExportSchedule(ctx, first.Schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day 4 - Harbour", doc.Name)
	require.Len(t, doc.Tracks, 2)
	assert.Equal(t, "t1", doc.Tracks[0].Ref)

	second, err := svc.Import(ctx, doc)
	require.NoError(t, err)
	again, err := svc.ExportSchedule(ctx, second.Schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}
