// Package main hosts the vidfit CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, builds the slog
// logger, and hands requests to the internal packages: encoding for
// size-targeted compression, media/ffprobe for probing, preflight for the
// dependency report and history for the run log. Every command returns its
// error; main reports it once and exits non-zero.
package main
