package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Recording represents a single chapter file written by the camera.
//
// GoPro names chapter files as {mode}{chapter}{media}.{ext}:
//   - mode: two-letter recording mode, e.g. "GX" (HEVC) or "GH" (AVC)
//   - chapter: two digits, incremented every time the camera splits the recording
//   - media: four digits shared by all chapters of one recording
//
// Example:
//
//	rec, err := ParseRecording("/DCIM/100GOPRO/GX020123.MP4", []string{"GX", "GH"}, "MP4")
//	// rec.Mode = "GX", rec.Chapter = 2, rec.Media = "0123", rec.Session = "123"
type Recording struct {
	// Path is the file path as found on disk.
	Path string

	// Name is the bare file name, e.g. "GX020123.MP4".
	Name string

	// Mode is the two-letter recording mode prefix.
	Mode string

	// Chapter is the parsed chapter number (1-indexed).
	Chapter int

	// Media is the four-digit media number.
	Media string

	// Session is the session identifier used for grouping: the last three
	// characters of the file stem. Media numbers that differ only in their
	// first digit share a session.
	Session string

	// Ext is the file extension without the dot.
	Ext string
}

var recordingPattern = regexp.MustCompile(`^([A-Z]{2})(\d{2})(\d{4})$`)

// ParseRecording parses a camera file name into a Recording.
//
// The mode must be one of modes and the extension must equal ext exactly
// (camera output is upper case, so "MP4" does not match "mp4").
func ParseRecording(path string, modes []string, ext string) (*Recording, error) {
	name := filepath.Base(path)
	fileExt := strings.TrimPrefix(filepath.Ext(name), ".")
	if fileExt != ext {
		return nil, fmt.Errorf("%s: unexpected extension %q", name, fileExt)
	}

	stem := strings.TrimSuffix(name, "."+fileExt)
	m := recordingPattern.FindStringSubmatch(stem)
	if m == nil {
		return nil, fmt.Errorf("%s: not a chaptered recording name", name)
	}

	if !containsMode(modes, m[1]) {
		return nil, fmt.Errorf("%s: unknown recording mode %q", name, m[1])
	}

	chapter, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("%s: invalid chapter: %w", name, err)
	}

	return &Recording{
		Path:    path,
		Name:    name,
		Mode:    m[1],
		Chapter: chapter,
		Media:   m[3],
		Session: stem[len(stem)-3:],
		Ext:     fileExt,
	}, nil
}

// Stem returns the file name without its extension.
func (r *Recording) Stem() string {
	return strings.TrimSuffix(r.Name, filepath.Ext(r.Name))
}

func containsMode(modes []string, mode string) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
