package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty dir so a real ~/.callsheet/config.yaml
// never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CALLSHEET_CONFIG", "")
	return home
}

func TestDefault_MatchesSegmenterDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, scheduler.DefaultSegmentOptions(), cfg.SegmentOptions())
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, "callsheet.db", filepath.Base(cfg.DBPath))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".callsheet", "callsheet.db"), cfg.DBPath)
	assert.Equal(t, 2.0, cfg.PxPerMin)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CALLSHEET_DB", "/tmp/other.db")
	t.Setenv("CALLSHEET_LOG_USE_CASES", "true")
	t.Setenv("CALLSHEET_TIMELINE_PX_PER_MIN", "3.5")
	t.Setenv("CALLSHEET_TIMELINE_GAP_THRESHOLD_MIN", "90")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 3.5, cfg.PxPerMin)
	assert.Equal(t, 90, cfg.GapThresholdMin)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "callsheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /data/shoot.db
log_use_cases: true
timeline:
  px_per_min: 1.5
  banner_height_px: 48
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/shoot.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 1.5, cfg.PxPerMin)
	assert.Equal(t, 48.0, cfg.BannerHeightPx)
	assert.Equal(t, 60, cfg.GapThresholdMin, "unset keys keep defaults")
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "callsheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /data/file.db\n"), 0644))
	t.Setenv("CALLSHEET_CONFIG", path)
	t.Setenv("CALLSHEET_DB", "/data/env.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/env.db", cfg.DBPath)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	isolate(t)
	t.Setenv("CALLSHEET_TIMELINE_PX_PER_MIN", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeline.px_per_min must be positive")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"db path", "px_per_min", "gap_threshold_min", "gap_height_px", "banner_height_px", "min_card_height_px"} {
		assert.Contains(t, err.Error(), want)
	}
}
