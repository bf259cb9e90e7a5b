// Package preflight provides readiness checks for the filesystem paths and
// external tools vidfit depends on.
//
// The CLI "vidfit deps" command runs RunAll and CheckSystemDeps to display
// environment health. Checks for optional features (log directory, run
// history) are skipped when the feature is not configured.
package preflight
