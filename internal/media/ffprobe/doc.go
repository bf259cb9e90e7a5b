// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key entry points:
//   - ProbeDuration: requests only format=duration and returns it in seconds
//   - Inspect: executes a full format/stream inspection and returns Result
//
// Failures are tagged with the services markers: a non-zero ffprobe exit is
// ErrProbe (with ffprobe's stderr attached), malformed or incomplete output is
// ErrParse.
package ffprobe
