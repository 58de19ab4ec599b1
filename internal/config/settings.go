package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/handiism/goprocat/internal/ffmpeg"
	"github.com/handiism/goprocat/internal/track"
)

// FileName is the name of the optional settings file.
const FileName = ".goprocat.yaml"

// Settings holds all configuration options.
type Settings struct {
	// External tools
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Recognized recordings
	Modes     []string `yaml:"modes"`
	Extension string   `yaml:"extension"`

	// Output
	TrackExtension string `yaml:"track_extension"`
	Creator        string `yaml:"creator"`
	KeepTelemetry  bool   `yaml:"keep_telemetry"`
	PreserveTimes  bool   `yaml:"preserve_times"`

	Verbose bool `yaml:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		Modes:     []string{"GX", "GH"},
		Extension: "MP4",

		TrackExtension: track.Extension,
		Creator:        "goprocat",
		KeepTelemetry:  false,
		PreserveTimes:  true,
	}
}

// SearchPaths returns the settings files checked by LoadDefault, in order.
func SearchPaths() []string {
	var paths []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, FileName))
	}
	return append(paths, filepath.Join(".", FileName))
}

// LoadDefault loads the first settings file found in SearchPaths, or the
// defaults when there is none.
func LoadDefault() (*Settings, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return DefaultSettings(), nil
}

// Load reads settings from a YAML file. Fields missing from the file keep
// their default values; a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("error parsing YAML file (%s): %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return settings, nil
}

// Validate checks that the settings can be used.
func (s *Settings) Validate() error {
	if len(s.Modes) == 0 {
		return fmt.Errorf("modes must not be empty")
	}
	for _, m := range s.Modes {
		if len(m) != 2 {
			return fmt.Errorf("mode %q must be two characters", m)
		}
	}
	if s.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	if s.TrackExtension == "" {
		return fmt.Errorf("track_extension must not be empty")
	}
	if strings.EqualFold(s.TrackExtension, s.Extension) {
		return fmt.Errorf("track_extension must differ from extension %q", s.Extension)
	}
	return nil
}

// ToRunner creates the ffmpeg runner described by the settings.
func (s *Settings) ToRunner() *ffmpeg.Runner {
	r := ffmpeg.NewRunner(s.FFmpegPath, s.FFprobePath)
	r.KeepTelemetry = s.KeepTelemetry
	return r
}
