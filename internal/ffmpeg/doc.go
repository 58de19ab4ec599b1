// Package ffmpeg runs the ffmpeg and ffprobe command line tools.
//
// All invocations go through Runner, which captures stdout, keeps the tail
// of stderr for error messages and honours context cancellation by killing
// the child process. No output is ever re-encoded: concatenation and
// telemetry extraction both use stream copy.
package ffmpeg
