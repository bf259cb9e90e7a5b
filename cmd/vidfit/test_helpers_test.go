package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidfit/internal/testsupport"
)

const ffprobeScript = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffprobe version 6.1.1 Copyright (c) 2007-2023 the FFmpeg developers"
  exit 0
fi
for arg in "$@"; do
  if [ "$arg" = "-show_streams" ]; then
    echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1280,"height":720,"avg_frame_rate":"30/1","r_frame_rate":"30/1"},{"index":1,"codec_type":"audio","codec_name":"aac","channels":2}],"format":{"filename":"in.mp4","format_name":"mov,mp4,m4a,3gp,3g2,mj2","duration":"120.000000","size":"1572864","bit_rate":"104857"}}'
    exit 0
  fi
done
echo '{'
echo '    "format": {'
echo '        "duration": "120.000000"'
echo '    }'
echo '}'
`

const ffprobeFailScript = `#!/bin/sh
echo "broken.mp4: Invalid data found when processing input" >&2
exit 1
`

const ffmpegScript = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers"
  exit 0
fi
for last in "$@"; do :; done
printf 'encoded' > "$last"
echo "$@" > "$last.args"
`

const ffmpegFailScript = `#!/bin/sh
echo "Unknown encoder 'libx264'" >&2
exit 1
`

type cliTestEnv struct {
	baseDir    string
	configPath string
	input      string
	ffmpeg     string
	ffprobe    string
	logDir     string
	historyDB  string
}

type envOption func(*envSettings)

type envSettings struct {
	ffmpegScript  string
	ffprobeScript string
	history       bool
}

func withFailingProbe() envOption {
	return func(s *envSettings) { s.ffprobeScript = ffprobeFailScript }
}

func withFailingEncoder() envOption {
	return func(s *envSettings) { s.ffmpegScript = ffmpegFailScript }
}

func withHistoryEnabled() envOption {
	return func(s *envSettings) { s.history = true }
}

func setupCLITestEnv(t *testing.T, opts ...envOption) *cliTestEnv {
	t.Helper()

	settings := envSettings{ffmpegScript: ffmpegScript, ffprobeScript: ffprobeScript}
	for _, opt := range opts {
		opt(&settings)
	}

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("VIDFIT_FFMPEG", "")
	t.Setenv("VIDFIT_FFPROBE", "")
	t.Chdir(base)

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "vidfit-test.toml"),
		input:      filepath.Join(base, "media", "input.mp4"),
		ffmpeg:     filepath.Join(binDir, "ffmpeg"),
		ffprobe:    filepath.Join(binDir, "ffprobe"),
		logDir:     filepath.Join(base, "logs"),
		historyDB:  filepath.Join(base, "state", "history.db"),
	}
	writeScript(t, env.ffmpeg, settings.ffmpegScript)
	writeScript(t, env.ffprobe, settings.ffprobeScript)
	testsupport.WriteMedia(t, env.input, 3*1024*1024/2)

	content := fmt.Sprintf(
		"[tools]\nffmpeg_binary = %q\nffprobe_binary = %q\n\n[encoding]\nshow_progress = false\n\n[paths]\nlog_dir = %q\nhistory_path = %q\n\n[history]\nenabled = %t\n",
		env.ffmpeg,
		env.ffprobe,
		env.logDir,
		env.historyDB,
		settings.history,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// runCLI executes the command tree through run and returns stdout, stderr and the exit code.
func runCLI(t *testing.T, args []string, configPath string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	code := run(append(flags, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", substr, output)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected output not to contain %q\noutput:\n%s", substr, output)
	}
}
