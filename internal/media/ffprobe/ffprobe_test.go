package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"testing"

	"vidfit/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", AvgFrameRate: "30000/1001", RFrameRate: "30/1"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
	if got := result.FrameRate(); math.Abs(got-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate: %v", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "25/1"}},
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if result.FrameRate() != 25 {
		t.Fatalf("expected fallback to r_frame_rate, got %v", result.FrameRate())
	}
}

func TestParseDurationReturnsFieldUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   float64
	}{
		{"string", `{"format":{"duration":"120.000000"}}`, 120},
		{"fractional", `{"format":{"duration":"1638.4"}}`, 1638.4},
		{"tiny", `{"format":{"duration":"0.040000"}}`, 0.04},
		{"bare number", `{"format":{"duration":200.5}}`, 200.5},
		{"padded", "{\n  \"format\": {\n    \"duration\": \" 42.5 \"\n  }\n}\n", 42.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration([]byte(tt.output))
			if err != nil {
				t.Fatalf("parseDuration returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseDuration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDurationFailures(t *testing.T) {
	for _, output := range []string{
		``,
		`not json`,
		`{}`,
		`{"format":{}}`,
		`{"format":{"duration":null}}`,
		`{"format":{"duration":"N/A"}}`,
		`{"streams":[]}`,
	} {
		_, err := parseDuration([]byte(output))
		if !errors.Is(err, services.ErrParse) {
			t.Fatalf("expected parse failure for %q, got %v", output, err)
		}
	}
}

func TestProbeDurationRunsFFprobe(t *testing.T) {
	var gotName string
	var gotArgs []string
	stubCommand(t, "duration", func(name string, args []string) {
		gotName = name
		gotArgs = args
	})

	seconds, err := ProbeDuration(context.Background(), "/opt/bin/ffprobe", "clip.mp4")
	if err != nil {
		t.Fatalf("ProbeDuration returned error: %v", err)
	}
	if seconds != 120.5 {
		t.Fatalf("expected 120.5 seconds, got %v", seconds)
	}
	if gotName != "/opt/bin/ffprobe" {
		t.Fatalf("expected configured binary, got %q", gotName)
	}
	want := "-v error -show_entries format=duration -of json -- clip.mp4"
	if strings.Join(gotArgs, " ") != want {
		t.Fatalf("unexpected args:\n got %v\nwant %s", gotArgs, want)
	}
}

func TestProbeDurationDefaultsBinary(t *testing.T) {
	var gotName string
	stubCommand(t, "duration", func(name string, _ []string) { gotName = name })
	if _, err := ProbeDuration(context.Background(), "  ", "clip.mp4"); err != nil {
		t.Fatalf("ProbeDuration returned error: %v", err)
	}
	if gotName != "ffprobe" {
		t.Fatalf("expected default ffprobe binary, got %q", gotName)
	}
}

func TestProbeDurationToolFailureCarriesStderr(t *testing.T) {
	stubCommand(t, "failure", nil)

	_, err := ProbeDuration(context.Background(), "ffprobe", "missing.mp4")
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected probe failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.mp4: No such file or directory") {
		t.Fatalf("expected stderr text in error, got %v", err)
	}
	var toolErr *services.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError in chain, got %T", err)
	}
	if toolErr.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", toolErr.ExitCode)
	}
}

func TestProbeDurationMalformedOutput(t *testing.T) {
	stubCommand(t, "garbage", nil)
	_, err := ProbeDuration(context.Background(), "ffprobe", "clip.mp4")
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

func TestProbeDurationRequiresPath(t *testing.T) {
	called := false
	stubCommand(t, "duration", func(string, []string) { called = true })
	_, err := ProbeDuration(context.Background(), "ffprobe", " ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatal("expected no process to be spawned for an empty path")
	}
}

func TestInspectDecodesStreams(t *testing.T) {
	var gotArgs []string
	stubCommand(t, "inspect", func(_ string, args []string) { gotArgs = args })

	result, err := Inspect(context.Background(), "ffprobe", "clip.mkv")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.VideoStreamCount() != 1 || result.AudioStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: %+v", result.Streams)
	}
	if result.DurationSeconds() != 60 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if len(result.RawJSON()) == 0 {
		t.Fatal("expected raw JSON to be retained")
	}
	if gotArgs[len(gotArgs)-1] != "clip.mkv" || gotArgs[len(gotArgs)-2] != "--" {
		t.Fatalf("expected path after --, got %v", gotArgs)
	}
}

func stubCommand(t *testing.T, mode string, capture func(name string, args []string)) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			capture(name, append([]string(nil), args...))
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFPROBE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "duration":
		fmt.Println(`{`)
		fmt.Println(`    "format": {`)
		fmt.Println(`        "duration": "120.500000"`)
		fmt.Println(`    }`)
		fmt.Println(`}`)
		os.Exit(0)
	case "inspect":
		fmt.Println(`{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"avg_frame_rate":"24/1"},{"index":1,"codec_type":"audio","codec_name":"aac","channels":2}],"format":{"duration":"60.000000","size":"1048576","bit_rate":"139810"}}`)
		os.Exit(0)
	case "garbage":
		fmt.Println("Duration: 00:02:00.50")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "missing.mp4: No such file or directory")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
