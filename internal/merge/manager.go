package merge

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/handiism/goprocat/internal/config"
	ioutils "github.com/handiism/goprocat/internal/io"
	"github.com/handiism/goprocat/internal/model"
	"github.com/handiism/goprocat/internal/session"
	"github.com/handiism/goprocat/internal/telemetry"
	"github.com/handiism/goprocat/internal/track"
)

// ErrOverwritesInput is returned when an output path is one of the recordings
// being merged.
var ErrOverwritesInput = errors.New("output would overwrite an input recording")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a merge progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Group is the key of the group being processed, if any.
	Group string
	// File is the chapter or output file the event is about, if any.
	File string
}

// Tools is the external tooling a Manager drives. *ffmpeg.Runner implements it.
type Tools interface {
	// ExtractTelemetry returns the raw telemetry stream of a recording.
	// A recording without one yields an error wrapping telemetry.ErrNoData.
	ExtractTelemetry(ctx context.Context, path string) ([]byte, error)

	// Concat joins inputs, in order, into output without re-encoding.
	Concat(ctx context.Context, inputs []string, output string) error
}

// Manager coordinates session merges.
type Manager struct {
	settings *config.Settings
	tools    Tools

	groups     []*model.Group
	doneGroups int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new merge Manager.
func NewManager(settings *config.Settings, tools Tools, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		tools:      tools,
		onProgress: onProgress,
	}
}

// Initialize scans dir for recordings and groups them by session.
func (m *Manager) Initialize(dir string) error {
	groups, err := session.Scan(dir, m.settings.Modes, m.settings.Extension)
	if err != nil {
		return err
	}

	m.groups = groups
	atomic.StoreInt32(&m.doneGroups, 0)

	for _, g := range groups {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Found session %s: %s (%d chapters)", g.Key(), g, len(g.Recordings)),
			Level:   LevelInfo,
			Group:   g.Key(),
		})
	}

	return nil
}

// Run merges every initialized group into outDir, one group at a time.
// The first error aborts the run.
func (m *Manager) Run(ctx context.Context, outDir string) error {
	for _, g := range m.groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.mergeGroup(ctx, g, outDir); err != nil {
			return fmt.Errorf("session %s: %w", g.Key(), err)
		}
		atomic.AddInt32(&m.doneGroups, 1)
	}
	return nil
}

// GetProgress returns the number of merged groups and the total.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.doneGroups), int32(len(m.groups))
}

// GetGroupNames returns a display name for every initialized group.
func (m *Manager) GetGroupNames() []string {
	names := make([]string, len(m.groups))
	for i, g := range m.groups {
		names[i] = fmt.Sprintf("%s (%d chapters)", g, len(g.Recordings))
	}
	return names
}

func (m *Manager) mergeGroup(ctx context.Context, g *model.Group, outDir string) error {
	output := g.VideoPath(outDir)
	trackPath := g.TrackPath(outDir, m.settings.TrackExtension)
	for _, input := range g.Paths() {
		if ioutils.SameFile(input, output) || ioutils.SameFile(input, trackPath) {
			return fmt.Errorf("%s: %w", input, ErrOverwritesInput)
		}
	}

	if err := m.writeTrack(ctx, g, trackPath); err != nil {
		return err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Concatenating %d chapters into %s", len(g.Recordings), output),
		Level:   LevelVerbose,
		Group:   g.Key(),
		File:    output,
	})
	if err := m.tools.Concat(ctx, g.Paths(), output); err != nil {
		return fmt.Errorf("concatenating: %w", err)
	}

	if m.settings.PreserveTimes {
		if err := ioutils.CopyTimes(g.First().Path, output); err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Could not copy file times to %s: %v", output, err),
				Level:   LevelWarning,
				Group:   g.Key(),
				File:    output,
			})
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Merged session %s: %s", g.Key(), output),
		Level:   LevelSuccess,
		Group:   g.Key(),
		File:    output,
	})
	return nil
}

// writeTrack builds the group's track with one segment per chapter that has
// GPS data and writes it to path, even when no chapter contributed a segment.
func (m *Manager) writeTrack(ctx context.Context, g *model.Group, path string) error {
	b := track.NewBuilder(m.settings.Creator, g.First().Stem())

	for _, rec := range g.Recordings {
		blocks, err := m.readGPS(ctx, rec.Path)
		switch {
		case errors.Is(err, telemetry.ErrNoData):
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("GPS data is not contained: %s", rec.Path),
				Level:   LevelWarning,
				Group:   g.Key(),
				File:    rec.Path,
			})
			continue
		case errors.Is(err, telemetry.ErrMalformed):
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("malformed telemetry: %s (%v)", rec.Path, err),
				Level:   LevelWarning,
				Group:   g.Key(),
				File:    rec.Path,
			})
			continue
		case err != nil:
			return fmt.Errorf("reading telemetry of %s: %w", rec.Name, err)
		}

		b.AddSegment(blocks)
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Extracted %d GPS blocks from %s", len(blocks), rec.Name),
			Level:   LevelVerbose,
			Group:   g.Key(),
			File:    rec.Path,
		})
	}

	if err := b.WriteFile(path); err != nil {
		return fmt.Errorf("writing track: %w", err)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Wrote track %s (%d segments, %d points)", path, b.Segments(), b.Points()),
		Level:   LevelVerbose,
		Group:   g.Key(),
		File:    path,
	})
	return nil
}

func (m *Manager) readGPS(ctx context.Context, path string) ([]telemetry.GPSData, error) {
	stream, err := m.tools.ExtractTelemetry(ctx, path)
	if err != nil {
		return nil, err
	}
	return telemetry.ParseGPS(stream)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
