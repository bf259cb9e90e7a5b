// Package logging assembles structured slog loggers and formatting helpers used
// across vidfit.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code can tag log lines with the
// run identifier and stage name. Console output goes to stderr by default; when
// a log directory is configured every record is also appended as JSON to
// vidfit.log through a fanout handler.
package logging
