// Package config provides configuration management for goprocat.
//
// This package handles:
//   - Loading settings from an optional YAML file
//   - Default configuration values
//   - Conversion to the ffmpeg Runner used by other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Recognizes GX and GH recordings with the MP4 extension
//	// Writes .gpx tracks
//	// Uses ffmpeg and ffprobe from PATH
//
// # Settings File
//
// LoadDefault looks for ~/.goprocat.yaml, then ./.goprocat.yaml, and loads
// the first one it finds:
//
//	ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
//	modes: [GX, GH]
//	keep_telemetry: true
//	verbose: true
//
// Fields not present in the file keep their defaults.
package config
