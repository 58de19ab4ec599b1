package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if len(s.Modes) != 2 || s.Modes[0] != "GX" || s.Modes[1] != "GH" {
		t.Errorf("Modes = %v, want [GX GH]", s.Modes)
	}
	if s.Extension != "MP4" {
		t.Errorf("Extension = %q, want MP4", s.Extension)
	}
	if s.TrackExtension != "gpx" {
		t.Errorf("TrackExtension = %q, want gpx", s.TrackExtension)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "ffmpeg_path: /opt/ffmpeg/bin/ffmpeg\nkeep_telemetry: true\nverbose: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", s.FFmpegPath)
	}
	if !s.KeepTelemetry || !s.Verbose {
		t.Errorf("KeepTelemetry/Verbose = %v/%v, want true/true", s.KeepTelemetry, s.Verbose)
	}
	// Unset fields keep their defaults.
	if s.FFprobePath != "ffprobe" || s.Extension != "MP4" || !s.PreserveTimes {
		t.Errorf("defaults lost: %+v", s)
	}

	r := s.ToRunner()
	if r.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" || !r.KeepTelemetry {
		t.Errorf("ToRunner() = %+v", r)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.FFmpegPath != "ffmpeg" {
		t.Errorf("missing file should give defaults, got %+v", s)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: "modes: [GX\n"},
		{name: "empty modes", content: "modes: []\n"},
		{name: "long mode", content: "modes: [GXX]\n"},
		{name: "empty extension", content: "extension: \"\"\n"},
		{name: "track extension equals extension", content: "track_extension: mp4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}
