package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidfit/internal/encoding"
	"vidfit/internal/history"
)

func TestCompressCommandPrintsReport(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.baseDir, "out", "small.mp4")
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, []string{"compress", env.input, output, "--size", "180"}, env.configPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr:\n%s", code, stderr)
	}
	want := strings.Join([]string{
		"Original Size: 1.50 MB",
		"Target Size: 180 MB",
		"Target Bitrate: 12288.00 kbps",
		"Compression finished. File saved as " + output,
		"",
	}, "\n")
	if stdout != want {
		t.Fatalf("unexpected stdout:\n%s\nwant:\n%s", stdout, want)
	}

	args, err := os.ReadFile(output + ".args")
	if err != nil {
		t.Fatalf("expected ffmpeg to run: %v", err)
	}
	wantArgs := "-y -i " + env.input + " -b:v 12288k -b:a 128k -c:v libx264 -preset slow -crf 24 " + output
	if strings.TrimSpace(string(args)) != wantArgs {
		t.Fatalf("unexpected ffmpeg args:\n got %s\nwant %s", strings.TrimSpace(string(args)), wantArgs)
	}
	if _, err := os.Stat(filepath.Join(env.logDir, "vidfit.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestCompressCommandWithFrameRate(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.baseDir, "slow.mp4")

	stdout, stderr, code := runCLI(t, []string{"compress", env.input, output, "--size", "40", "--fps", "2"}, env.configPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr:\n%s", code, stderr)
	}
	requireContains(t, stdout, "Target Bitrate: 2730.67 kbps")
	requireContains(t, stdout, "Frame Rate: 2 fps")

	args, err := os.ReadFile(output + ".args")
	if err != nil {
		t.Fatalf("expected ffmpeg to run: %v", err)
	}
	for _, want := range []string{"-b:v 2730k", "-crf 28", "-r 2", "-vf fps=2"} {
		requireContains(t, string(args), want)
	}
}

func TestCompressCommandProbeFailure(t *testing.T) {
	env := setupCLITestEnv(t, withFailingProbe())
	output := filepath.Join(env.baseDir, "never.mp4")

	stdout, stderr, code := runCLI(t, []string{"compress", env.input, output, "--size", "10"}, env.configPath)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Error: probe failure")
	requireContains(t, stderr, "Invalid data found when processing input")
	requireNotContains(t, stderr, "Unexpected error")
	if stdout != "" {
		t.Fatalf("expected no report output, got %q", stdout)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
}

func TestCompressCommandEncodeFailure(t *testing.T) {
	env := setupCLITestEnv(t, withFailingEncoder())
	output := filepath.Join(env.baseDir, "never.mp4")

	stdout, stderr, code := runCLI(t, []string{"compress", env.input, output, "--size", "10"}, env.configPath)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stdout, "Target Size: 10 MB")
	requireNotContains(t, stdout, "Compression finished")
	requireContains(t, stderr, "Error: encode failure")
	requireContains(t, stderr, "Unknown encoder 'libx264'")
}

func TestCompressCommandMissingInputIsUnexpected(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, code := runCLI(t, []string{"compress", filepath.Join(env.baseDir, "nope.mp4"), "out.mp4", "--size", "10"}, env.configPath)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Unexpected error:")
}

func TestCompressCommandValidation(t *testing.T) {
	env := setupCLITestEnv(t)
	cases := map[string][]string{
		"missing size":   {"compress", env.input, "out.mp4"},
		"negative size":  {"compress", env.input, "out.mp4", "--size", "-3"},
		"negative fps":   {"compress", env.input, "out.mp4", "--size", "3", "--fps", "-1"},
		"missing output": {"compress", env.input, "--size", "3"},
		"bad flag value": {"compress", env.input, "out.mp4", "--size", "big"},
		"same path":      {"compress", env.input, env.input, "--size", "3"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, stderr, code := runCLI(t, args, env.configPath)
			if code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			requireContains(t, stderr, "Error: validation error")
		})
	}
}

func TestCompressCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.baseDir, "dry.mp4")

	stdout, stderr, code := runCLI(t, []string{"compress", env.input, output, "--size", "180", "--dry-run"}, env.configPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr:\n%s", code, stderr)
	}
	requireContains(t, stdout, "12,288.00 kbps")
	requireContains(t, stdout, "1.5 MiB")
	requireContains(t, stdout, "Preflight")
	requireContains(t, stdout, "Command: "+env.ffmpeg+" -y -i ")
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("dry run must not encode, stat err=%v", err)
	}
}

func TestCompressCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.baseDir, "json.mp4")

	stdout, stderr, code := runCLI(t, []string{"compress", env.input, output, "--size", "180", "--json"}, env.configPath)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr:\n%s", code, stderr)
	}
	var result encoding.Result
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decode json: %v\n%s", err, stdout)
	}
	if result.Plan.VideoBitrateKbps != 12288 || result.DurationSeconds != 120 || result.RunID == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.OutputSizeBytes != int64(len("encoded")) {
		t.Fatalf("unexpected output size %d", result.OutputSizeBytes)
	}
}

func TestCompressCommandRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, withHistoryEnabled())
	ok := filepath.Join(env.baseDir, "ok.mp4")

	if _, stderr, code := runCLI(t, []string{"compress", env.input, ok, "--size", "180"}, env.configPath); code != 0 {
		t.Fatalf("compress failed: %s", stderr)
	}

	stdout, stderr, code := runCLI(t, []string{"history", "--json"}, env.configPath)
	if code != 0 {
		t.Fatalf("history failed: %s", stderr)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, stdout)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if !runs[0].Succeeded() || runs[0].VideoBitrateKbps != 12288 || runs[0].Output != ok {
		t.Fatalf("unexpected run: %+v", runs[0])
	}

	table, _, code := runCLI(t, []string{"history"}, env.configPath)
	if code != 0 {
		t.Fatalf("history table failed")
	}
	requireContains(t, table, "input.mp4")
	requireContains(t, table, "12,288 kbps")
}

func TestCompressCommandRecordsFailedRun(t *testing.T) {
	env := setupCLITestEnv(t, withHistoryEnabled(), withFailingEncoder())
	if _, _, code := runCLI(t, []string{"compress", env.input, filepath.Join(env.baseDir, "x.mp4"), "--size", "5"}, env.configPath); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	stdout, _, code := runCLI(t, []string{"history", "--json"}, env.configPath)
	if code != 0 {
		t.Fatal("history failed")
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != history.StatusFailed || runs[0].ErrorKind != "encode" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestShellJoin(t *testing.T) {
	got := shellJoin([]string{"ffmpeg", "-i", "my clip.mp4", "it's.mp4"})
	want := `ffmpeg -i 'my clip.mp4' 'it'\''s.mp4'`
	if got != want {
		t.Fatalf("shellJoin = %s, want %s", got, want)
	}

	for _, arg := range []string{"a;rm -rf x.mp4", "a&b.mp4", "a|b.mp4", "<in>.mp4", "(1).mp4", "*.mp4", "what?.mp4", "#1.mp4", "~/x.mp4"} {
		if got := shellJoin([]string{arg}); got != "'"+arg+"'" {
			t.Fatalf("expected %q to be quoted, got %s", arg, got)
		}
	}
	if got := shellJoin([]string{"-b:v", "12288k", "-vf", "fps=2", "/tmp/out_1.mp4"}); got != "-b:v 12288k -vf fps=2 /tmp/out_1.mp4" {
		t.Fatalf("expected plain arguments to stay unquoted, got %s", got)
	}
}
