package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the top-level structure of a call-sheet import or export file.
type Document struct {
	Name     string          `json:"name" yaml:"name"`
	Date     string          `json:"date,omitempty" yaml:"date,omitempty"`
	Settings *SettingsImport `json:"settings,omitempty" yaml:"settings,omitempty"`
	Tracks   []TrackImport   `json:"tracks,omitempty" yaml:"tracks,omitempty"`
	Entries  []EntryImport   `json:"entries" yaml:"entries"`
}

// SettingsImport overrides the schedule policy. Missing fields keep defaults.
type SettingsImport struct {
	CascadeChanges          *bool  `json:"cascade_changes,omitempty" yaml:"cascade_changes,omitempty"`
	DayStartTime            string `json:"day_start_time,omitempty" yaml:"day_start_time,omitempty"`
	DefaultEntryDurationMin *int   `json:"default_entry_duration_min,omitempty" yaml:"default_entry_duration_min,omitempty"`
}

// TrackImport declares a track. Entries refer to it by Ref.
type TrackImport struct {
	Ref  string `json:"ref" yaml:"ref"`
	Name string `json:"name" yaml:"name"`
}

// EntryImport is one entry. Entries appear in running order per track.
type EntryImport struct {
	Type  string `json:"type" yaml:"type"`
	Title string `json:"title" yaml:"title"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
	// Track is a track ref, "shared"/"all", or empty for the first track.
	Track string `json:"track,omitempty" yaml:"track,omitempty"`
	// Start accepts any time-of-day phrase ("9:30", "6am", "noon").
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	// CallText keeps a free-text call time that is shown but never scheduled.
	CallText    string           `json:"call_text,omitempty" yaml:"call_text,omitempty"`
	DurationMin *int             `json:"duration_min,omitempty" yaml:"duration_min,omitempty"`
	Highlight   *HighlightImport `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	AppliesTo   []string         `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`
}

type HighlightImport struct {
	Variant string `json:"variant" yaml:"variant"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
	Emoji   string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

// Format is a document serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format %q (expected json or yaml)", s)
	}
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadDocument reads and parses a call-sheet file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data, FormatForPath(path))
}

// ParseDocument decodes data in the given format.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml document: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing json document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", string(format))
	}
	return &doc, nil
}

// Marshal encodes doc in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", string(format))
	}
}
