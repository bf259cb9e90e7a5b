package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"vidfit/internal/services"
)

var commandContext = exec.CommandContext

const stage = "probe"

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Duration     string `json:"duration"`
	BitRate      string `json:"bit_rate"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// ProbeDuration asks ffprobe for the container duration only and returns it in
// seconds exactly as reported. A non-zero exit yields services.ErrProbe carrying
// ffprobe's stderr; unreadable output or a missing duration yields services.ErrParse.
func ProbeDuration(ctx context.Context, binary string, path string) (float64, error) {
	output, err := run(ctx, binary, path, "-v", "error", "-show_entries", "format=duration", "-of", "json")
	if err != nil {
		return 0, err
	}
	return parseDuration(output)
}

// Inspect executes ffprobe against the provided path and decodes the full
// format and stream listing.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	output, err := run(ctx, binary, path, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json")
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, services.Wrap(services.ErrParse, stage, "inspect", "ffprobe returned malformed JSON", err)
	}
	result.raw = append([]byte(nil), output...)
	return result, nil
}

func run(ctx context.Context, binary, path string, args ...string) ([]byte, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, stage, "ffprobe", "empty input path", nil)
	}

	full := append(append([]string(nil), args...), "--", path)
	cmd := commandContext(ctx, binary, full...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(
			services.ErrProbe,
			stage,
			"ffprobe",
			fmt.Sprintf("failed to get video information for %s", path),
			services.NewToolError(binary, err, stderr.Bytes()),
		)
	}
	return stdout.Bytes(), nil
}

func parseDuration(output []byte) (float64, error) {
	var payload struct {
		Format *struct {
			Duration json.RawMessage `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return 0, services.Wrap(services.ErrParse, stage, "duration", "ffprobe returned malformed JSON", err)
	}
	if payload.Format == nil {
		return 0, services.Wrap(services.ErrParse, stage, "duration", "ffprobe output has no format section", nil)
	}
	raw := bytes.TrimSpace(payload.Format.Duration)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, services.Wrap(services.ErrParse, stage, "duration", "ffprobe output has no format.duration field", nil)
	}

	// ffprobe emits numbers as JSON strings; accept bare numbers too.
	text := string(raw)
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		text = quoted
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrParse, stage, "duration", fmt.Sprintf("format.duration %q is not a number", text), err)
	}
	return seconds, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.countStreams("video")
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countStreams("audio")
}

func (r Result) countStreams(kind string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

// FrameRate returns the frame rate of the first video stream, preferring the
// average rate over the container's base rate. It returns 0 when unknown.
func (r Result) FrameRate() float64 {
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if rate, err := parseFraction(stream.AvgFrameRate); err == nil && rate > 0 {
			return rate
		}
		if rate, err := parseFraction(stream.RFrameRate); err == nil && rate > 0 {
			return rate
		}
		return 0
	}
	return 0
}

func parseFraction(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty rate")
	}
	num, den, found := strings.Cut(value, "/")
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, err
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, errors.New("zero denominator")
	}
	return n / d, nil
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
