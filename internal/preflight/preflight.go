package preflight

import (
	"path/filepath"
	"strings"

	"vidfit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", dir))
	}

	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.Paths.HistoryPath)))
	}

	return results
}

// CheckCompression verifies that input can be read and that the directory
// receiving output accepts new files.
func CheckCompression(input, output string) []Result {
	return []Result{
		CheckFileReadable("Input file", input),
		CheckDirectoryAccess("Output directory", outputDir(output)),
	}
}

func outputDir(output string) string {
	dir := filepath.Dir(strings.TrimSpace(output))
	if dir == "" {
		return "."
	}
	return dir
}
