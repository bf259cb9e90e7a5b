// Package services defines shared utilities consumed by the compression
// pipeline stages and the external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag each stage failure
//     (probe, parse, encode, validation, configuration) so a single top-level
//     boundary can report it without string matching.
//   - ToolError, which carries the exit status and diagnostic text of a failed
//     ffprobe or ffmpeg invocation.
//   - Context helpers that stamp run identifiers and stage names for logging.
package services
