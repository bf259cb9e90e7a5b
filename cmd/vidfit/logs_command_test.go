package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"vidfit/internal/encoding"
)

func TestLogsCommandFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t)

	var runIDs []string
	for _, name := range []string{"first.mp4", "second.mp4"} {
		stdout, stderr, code := runCLI(t, []string{"compress", env.input, filepath.Join(env.baseDir, name), "--size", "180", "--json"}, env.configPath)
		if code != 0 {
			t.Fatalf("compress %s: exit %d\nstderr:\n%s", name, code, stderr)
		}
		var result encoding.Result
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("decode json: %v", err)
		}
		runIDs = append(runIDs, result.RunID)
	}

	stdout, stderr, code := runCLI(t, []string{"logs", "--lines", "100", "--run", runIDs[0]}, env.configPath)
	if code != 0 {
		t.Fatalf("logs: exit %d\nstderr:\n%s", code, stderr)
	}
	requireContains(t, stdout, "encoding completed")
	requireContains(t, stdout, runIDs[0])
	requireNotContains(t, stdout, runIDs[1])
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		if !json.Valid([]byte(line)) {
			t.Fatalf("expected JSON log line, got %q", line)
		}
	}
}

func TestLogsCommandLimitsLines(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, stderr, code := runCLI(t, []string{"compress", env.input, filepath.Join(env.baseDir, "out.mp4"), "--size", "180"}, env.configPath); code != 0 {
		t.Fatalf("compress: exit %d\nstderr:\n%s", code, stderr)
	}

	stdout, _, code := runCLI(t, []string{"logs", "-n", "1"}, env.configPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if lines := strings.Split(strings.TrimSpace(stdout), "\n"); len(lines) != 1 {
		t.Fatalf("expected one line, got %d:\n%s", len(lines), stdout)
	}
}

func TestLogsCommandRejectsNegativeLines(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, code := runCLI(t, []string{"logs", "--lines=-1"}, env.configPath)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Error:")
}
