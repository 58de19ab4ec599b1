package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/goprocat/internal/telemetry"
)

// telemetryTag is the codec tag of the GPMF track in GoPro files.
const telemetryTag = "gpmd"

// Stream is one stream reported by ffprobe.
type Stream struct {
	Index     int
	CodecType string
	CodecName string
	CodecTag  string

	// Fields holds every key=value pair ffprobe printed for the stream.
	Fields map[string]string
}

// Probe lists the streams of a media file.
func (r *Runner) Probe(ctx context.Context, path string) ([]Stream, error) {
	out, err := r.run(ctx, r.FFprobe,
		"-v", "error",
		"-show_streams",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	if err != nil {
		return nil, err
	}
	return parseStreams(out)
}

// ExtractTelemetry returns the raw GPMF stream of a GoPro file.
//
// Returns telemetry.ErrNoData (wrapped) when the file has no gpmd stream.
func (r *Runner) ExtractTelemetry(ctx context.Context, path string) ([]byte, error) {
	index, err := r.telemetryStream(ctx, path)
	if err != nil {
		return nil, err
	}

	return r.run(ctx, r.FFmpeg,
		"-v", "error",
		"-i", path,
		"-map", "0:"+strconv.Itoa(index),
		"-codec", "copy",
		"-f", "rawvideo",
		"-",
	)
}

// telemetryStream returns the index of the gpmd stream of path, or an error
// wrapping telemetry.ErrNoData when there is none.
func (r *Runner) telemetryStream(ctx context.Context, path string) (int, error) {
	streams, err := r.Probe(ctx, path)
	if err != nil {
		return -1, err
	}
	for _, s := range streams {
		if s.CodecTag == telemetryTag {
			return s.Index, nil
		}
	}
	return -1, fmt.Errorf("%s has no %s stream: %w", path, telemetryTag, telemetry.ErrNoData)
}

// parseStreams parses ffprobe -show_streams output in
// default=noprint_wrappers=1 form. Each stream starts with its index= line.
func parseStreams(out []byte) ([]Stream, error) {
	var streams []Stream
	var current map[string]string

	flush := func() error {
		if current == nil {
			return nil
		}
		index, err := strconv.Atoi(current["index"])
		if err != nil {
			return fmt.Errorf("ffprobe stream index %q: %w", current["index"], err)
		}
		streams = append(streams, Stream{
			Index:     index,
			CodecType: current["codec_type"],
			CodecName: current["codec_name"],
			CodecTag:  current["codec_tag_string"],
			Fields:    current,
		})
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		key, value := getKeyStringValue(text, "=")
		if key == "index" {
			if err := flush(); err != nil {
				return nil, err
			}
			current = make(map[string]string)
		}
		if current == nil {
			continue
		}
		current[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return streams, nil
}

func getKeyStringValue(input string, sep string) (string, string) {
	arr := strings.SplitN(input, sep, 2)
	if len(arr) == 2 {
		return strings.TrimSpace(arr[0]), strings.TrimSpace(arr[1])
	}
	return strings.TrimSpace(arr[0]), ""
}
