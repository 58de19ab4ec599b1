package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/handiism/goprocat/internal/config"
	ioutils "github.com/handiism/goprocat/internal/io"
	"github.com/handiism/goprocat/internal/merge"
)

func newRootCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "goprocat",
		Short: "Join chaptered GoPro recordings and extract their GPS tracks.",
		Long: `goprocat groups the chaptered recordings of an input directory by session,
joins each session into one video without re-encoding and writes the GPS
telemetry of every chapter into one GPX track next to it.

Settings are read from ~/.goprocat.yaml or ./.goprocat.yaml when present.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), input, output)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input directory containing the recordings")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory for videos and tracks (must exist)")

	return cmd
}

func run(ctx context.Context, input, output string) error {
	settings, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	if settings.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := ioutils.CheckDir(input); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := ioutils.CheckDir(output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if ioutils.SameFile(input, output) {
		return fmt.Errorf("output directory %s is the input directory: %w", output, merge.ErrOverwritesInput)
	}

	runner := settings.ToRunner()
	if err := runner.Check(); err != nil {
		return err
	}

	progress := &barLogger{}
	manager := merge.NewManager(settings, runner, progress.handle)

	if err := manager.Initialize(input); err != nil {
		return err
	}

	_, total := manager.GetProgress()
	progress.bar = newBar(int(total), os.Stderr)
	_ = progress.bar.RenderBlank()

	if err := manager.Run(ctx, output); err != nil {
		progress.abort()
		return err
	}
	_ = progress.bar.Finish()

	done, _ := manager.GetProgress()
	log.WithField("sessions", done).Info("complete")
	return nil
}

func newBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("merging"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// barLogger logs manager events above a progress bar over the sessions.
// The bar shares stderr with the log, so it is cleared before every entry
// and drawn again after it.
type barLogger struct {
	bar *progressbar.ProgressBar
}

func (l *barLogger) handle(event merge.ProgressEvent) {
	if l.bar == nil {
		logEvent(event)
		return
	}

	_ = l.bar.Clear()
	logEvent(event)
	if event.Level == merge.LevelSuccess {
		_ = l.bar.Add(1)
	} else {
		_ = l.bar.RenderBlank()
	}
}

// abort erases the bar and stops it without filling it.
func (l *barLogger) abort() {
	if l.bar == nil {
		return
	}
	_ = l.bar.Clear()
	_ = l.bar.Exit()
}

// logEvent maps a manager event to a log entry.
func logEvent(event merge.ProgressEvent) {
	fields := log.Fields{}
	if event.Group != "" {
		fields["group"] = event.Group
	}
	if event.File != "" {
		fields["file"] = event.File
	}
	entry := log.WithFields(fields)

	switch event.Level {
	case merge.LevelVerbose:
		entry.Debug(event.Message)
	case merge.LevelWarning:
		entry.Warn(event.Message)
	case merge.LevelError:
		entry.Error(event.Message)
	default:
		entry.Info(event.Message)
	}
}
