package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// stderrTailLines is how many trailing stderr lines a CommandError keeps.
const stderrTailLines = 5

// Runner invokes the ffmpeg and ffprobe binaries.
//
// Runner provides:
//   - Stream probing via ffprobe
//   - Raw extraction of the GPMF telemetry stream
//   - Lossless concatenation with the concat demuxer
//
// Example usage:
//
//	r := NewRunner("ffmpeg", "ffprobe")
//	if err := r.Check(); err != nil {
//	    log.Fatal(err)
//	}
//	stream, err := r.ExtractTelemetry(ctx, "GX010123.MP4")
//	err = r.Concat(ctx, []string{"GX010123.MP4", "GX020123.MP4"}, "/out/GX010123.MP4")
type Runner struct {
	// FFmpeg is the ffmpeg binary name or path.
	FFmpeg string

	// FFprobe is the ffprobe binary name or path.
	FFprobe string

	// KeepTelemetry maps the GPMF stream of the first input into concatenated
	// output alongside video and audio.
	KeepTelemetry bool
}

// NewRunner creates a Runner for the given binaries.
func NewRunner(ffmpegPath, ffprobePath string) *Runner {
	return &Runner{
		FFmpeg:  ffmpegPath,
		FFprobe: ffprobePath,
	}
}

// Check verifies that both binaries can be found.
func (r *Runner) Check() error {
	for _, bin := range []string{r.FFmpeg, r.FFprobe} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s is not installed or not in PATH: %w", bin, err)
		}
	}
	return nil
}

// CommandError reports a failed external command together with the end of
// its stderr output.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Name, e.Err)
	if tail := lastLines(e.Stderr, stderrTailLines); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// run executes name with args and returns its stdout. Stdout and stderr are
// drained concurrently so neither pipe can fill up and stall the process.
func (r *Runner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stdout: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stderr: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Name: name, Args: args, Err: err}
	}

	var out, errOut bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errOut, stderr)
		return err
	})
	copyErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		return nil, &CommandError{Name: name, Args: args, Stderr: errOut.String(), Err: err}
	}
	if copyErr != nil {
		return nil, fmt.Errorf("reading %s output: %w", name, copyErr)
	}

	return out.Bytes(), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
