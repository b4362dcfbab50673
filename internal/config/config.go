package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/callsheet/internal/scheduler"
	"github.com/spf13/viper"
)

// Config holds process-wide settings. Schedule policy (cascade, day start,
// default duration) is stored per schedule and is not configured here.
type Config struct {
	DBPath      string
	LogUseCases bool

	// Timeline geometry.
	PxPerMin        float64
	GapThresholdMin int
	GapHeightPx     float64
	BannerHeightPx  float64
	MinCardHeightPx float64
}

const envPrefix = "CALLSHEET"

// Config keys. Nested keys map to env vars with "_", e.g.
// timeline.px_per_min -> CALLSHEET_TIMELINE_PX_PER_MIN.
const (
	keyDB              = "db"
	keyLogUseCases     = "log_use_cases"
	keyPxPerMin        = "timeline.px_per_min"
	keyGapThresholdMin = "timeline.gap_threshold_min"
	keyGapHeightPx     = "timeline.gap_height_px"
	keyBannerHeightPx  = "timeline.banner_height_px"
	keyMinCardHeightPx = "timeline.min_card_height_px"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	seg := scheduler.DefaultSegmentOptions()
	return Config{
		DBPath:          filepath.Join(homeDir(), ".callsheet", "callsheet.db"),
		LogUseCases:     false,
		PxPerMin:        seg.PxPerMin,
		GapThresholdMin: seg.GapThresholdMin,
		GapHeightPx:     seg.GapHeightPx,
		BannerHeightPx:  seg.BannerHeightPx,
		MinCardHeightPx: seg.MinCardHeightPx,
	}
}

// Load layers defaults, an optional YAML file and CALLSHEET_* environment
// variables. An explicit path (or CALLSHEET_CONFIG) must exist; the default
// ~/.callsheet/config.yaml is optional.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault(keyDB, def.DBPath)
	v.SetDefault(keyLogUseCases, def.LogUseCases)
	v.SetDefault(keyPxPerMin, def.PxPerMin)
	v.SetDefault(keyGapThresholdMin, def.GapThresholdMin)
	v.SetDefault(keyGapHeightPx, def.GapHeightPx)
	v.SetDefault(keyBannerHeightPx, def.BannerHeightPx)
	v.SetDefault(keyMinCardHeightPx, def.MinCardHeightPx)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir(), ".callsheet"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := Config{
		DBPath:          v.GetString(keyDB),
		LogUseCases:     v.GetBool(keyLogUseCases),
		PxPerMin:        v.GetFloat64(keyPxPerMin),
		GapThresholdMin: v.GetInt(keyGapThresholdMin),
		GapHeightPx:     v.GetFloat64(keyGapHeightPx),
		BannerHeightPx:  v.GetFloat64(keyBannerHeightPx),
		MinCardHeightPx: v.GetFloat64(keyMinCardHeightPx),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects empty paths and non-positive timeline scales.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, fmt.Errorf("db path is required"))
	}
	if c.PxPerMin <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", keyPxPerMin, c.PxPerMin))
	}
	if c.GapThresholdMin <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", keyGapThresholdMin, c.GapThresholdMin))
	}
	if c.GapHeightPx <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", keyGapHeightPx, c.GapHeightPx))
	}
	if c.BannerHeightPx <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", keyBannerHeightPx, c.BannerHeightPx))
	}
	if c.MinCardHeightPx <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", keyMinCardHeightPx, c.MinCardHeightPx))
	}
	return errors.Join(errs...)
}

// SegmentOptions returns the timeline geometry for the segmenter.
func (c Config) SegmentOptions() scheduler.SegmentOptions {
	return scheduler.SegmentOptions{
		PxPerMin:        c.PxPerMin,
		GapThresholdMin: c.GapThresholdMin,
		GapHeightPx:     c.GapHeightPx,
		BannerHeightPx:  c.BannerHeightPx,
		MinCardHeightPx: c.MinCardHeightPx,
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
