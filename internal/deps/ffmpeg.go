package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

const versionTimeout = 5 * time.Second

// MediaTools returns the ffmpeg/ffprobe requirements for the configured binaries.
func MediaTools(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "Required for encoding",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobeBinary,
			Description: "Required for duration probing",
		},
	}
}

// CheckMediaTools resolves ffmpeg and ffprobe and records their reported versions.
func CheckMediaTools(ctx context.Context, ffmpegBinary, ffprobeBinary string) []Status {
	statuses := CheckBinaries(MediaTools(ffmpegBinary, ffprobeBinary))
	for i := range statuses {
		if !statuses[i].Available {
			continue
		}
		version, err := ToolVersion(ctx, statuses[i].Command)
		if err != nil {
			statuses[i].Detail = "version check failed: " + err.Error()
			continue
		}
		statuses[i].Version = version
	}
	return statuses
}

// ToolVersion runs `<binary> -version` and returns the version token from the
// first line ("ffmpeg version 6.1.1 Copyright ..." yields "6.1.1").
func ToolVersion(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	cmd := commandContext(ctx, binary, "-version") //nolint:gosec
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return parseVersion(stdout.String()), nil
}

func parseVersion(output string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	if !scanner.Scan() {
		return ""
	}
	fields := strings.Fields(scanner.Text())
	for i, field := range fields {
		if field == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return strings.TrimSpace(scanner.Text())
}
