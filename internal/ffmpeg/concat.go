package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/handiism/goprocat/internal/telemetry"
)

// ffmpeg -f concat -safe 0 -i filelist.txt -c copy output.mp4
//
// The concat demuxer joins the chapters at the container level, so the
// bitstreams are copied untouched and the output has continuous timestamps.

// Concat joins inputs, in order, into output without re-encoding.
// An existing output file is overwritten.
func (r *Runner) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("concat: no inputs")
	}

	list, err := concatList(inputs)
	if err != nil {
		return err
	}

	// The concat demuxer exposes the streams of the first input.
	telemetryIndex := -1
	if r.KeepTelemetry {
		telemetryIndex, err = r.telemetryStream(ctx, inputs[0])
		if err != nil && !errors.Is(err, telemetry.ErrNoData) {
			return err
		}
	}

	listFile, err := os.CreateTemp("", "goprocat-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listFile.Name())

	if _, err := listFile.WriteString(list); err != nil {
		listFile.Close()
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	if err := listFile.Close(); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}

	_, err = r.run(ctx, r.FFmpeg, concatArgs(listFile.Name(), output, telemetryIndex)...)
	return err
}

// concatList renders the concat demuxer directive for inputs, one
// absolute path per line.
func concatList(inputs []string) (string, error) {
	var sb strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", input, err)
		}
		sb.WriteString("file '" + escapeQuoted(abs) + "'\n")
	}
	return sb.String(), nil
}

// escapeQuoted escapes single quotes for a single-quoted concat list entry.
func escapeQuoted(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// concatArgs builds the ffmpeg arguments. A telemetryIndex of -1 keeps the
// default stream selection; otherwise video, audio and only that data stream
// are mapped.
func concatArgs(list, output string, telemetryIndex int) []string {
	args := []string{
		"-y", "-hide_banner",
		"-v", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
	}
	if telemetryIndex >= 0 {
		args = append(args,
			"-map", "0:v",
			"-map", "0:a?",
			"-map", "0:"+strconv.Itoa(telemetryIndex),
			"-tag:d", telemetryTag,
		)
	}
	args = append(args,
		"-c", "copy",
		output,
	)
	return args
}
