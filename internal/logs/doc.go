// Package logs reads back the JSON log file written under paths.log_dir.
//
// Tail returns the last N lines with bounded memory, optionally narrowed to a
// single run ID, and can keep following the file until the context ends. It
// backs `vidfit logs`.
package logs
