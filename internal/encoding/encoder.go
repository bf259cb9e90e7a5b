package encoding

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidfit/internal/config"
	"vidfit/internal/logging"
	"vidfit/internal/services"
)

const bytesPerMB = 1024 * 1024

// Result summarizes one compression attempt.
type Result struct {
	RunID             string        `json:"run_id"`
	Input             string        `json:"input"`
	Output            string        `json:"output"`
	TargetSizeMB      float64       `json:"target_size_mb"`
	OriginalSizeBytes int64         `json:"original_size_bytes"`
	DurationSeconds   float64       `json:"duration_seconds"`
	Plan              Plan          `json:"plan"`
	Command           []string      `json:"command"`
	OutputSizeBytes   int64         `json:"output_size_bytes,omitempty"`
	Elapsed           time.Duration `json:"elapsed"`
	DryRun            bool          `json:"dry_run,omitempty"`
}

// Compressor runs size-targeted encodes.
type Compressor struct {
	cfg      *config.Config
	logger   *slog.Logger
	out      io.Writer
	settings Settings
	progress bool
}

// Option customizes a Compressor.
type Option func(*Compressor)

// WithProgress forces the ffmpeg progress bar on or off regardless of terminal detection.
func WithProgress(enabled bool) Option {
	return func(c *Compressor) {
		c.progress = enabled
	}
}

// NewCompressor builds a Compressor that prints operator progress lines to out.
func NewCompressor(cfg *config.Config, logger *slog.Logger, out io.Writer, opts ...Option) *Compressor {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	if out == nil {
		out = io.Discard
	}
	c := &Compressor{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "encoder"),
		out:      out,
		settings: SettingsFromConfig(cfg),
		progress: cfg.Encoding.ShowProgress && terminalWriter(out),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Prepare validates req, probes the input and derives the plan without encoding.
func (c *Compressor) Prepare(ctx context.Context, req Request) (Result, error) {
	result := Result{
		RunID:        runIDFromContext(ctx),
		Input:        req.Input,
		Output:       req.Output,
		TargetSizeMB: req.TargetSizeMB,
	}
	if err := req.Validate(); err != nil {
		return result, err
	}

	info, err := os.Stat(req.Input)
	if err != nil {
		return result, services.Wrap(services.ErrUnexpected, stageName, "stat input", fmt.Sprintf("cannot read %s", req.Input), err)
	}
	result.OriginalSizeBytes = info.Size()

	duration, err := probeDuration(ctx, c.cfg.FFprobeBinary(), req.Input)
	if err != nil {
		return result, err
	}
	result.DurationSeconds = duration

	plan, err := BuildPlan(req, duration, c.settings)
	if err != nil {
		return result, err
	}
	result.Plan = plan
	result.Command = append([]string{c.cfg.FFmpegBinary()}, plan.Args(req.Input, req.Output)...)
	return result, nil
}

// Compress runs the full pipeline for req: probe, plan, one ffmpeg run.
func (c *Compressor) Compress(ctx context.Context, req Request) (Result, error) {
	ctx = ensureRunID(ctx)
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()

	result, err := c.Prepare(ctx, req)
	if err != nil {
		logger.Error("compression not started",
			logging.String("input", req.Input),
			logging.ErrorKind(err),
			logging.Error(err),
		)
		return result, err
	}

	if c.cfg.Encoding.LockOutput {
		release, err := lockOutput(req.Output)
		if err != nil {
			return result, err
		}
		defer release()
	}

	c.report(result)
	logger.Info("encoding started",
		logging.String("input", req.Input),
		logging.String("output", req.Output),
		logging.Int64("original_size_bytes", result.OriginalSizeBytes),
		logging.Float64("duration_seconds", result.DurationSeconds),
		logging.Int("video_bitrate_kbps", result.Plan.VideoBitrateKbps),
		logging.Int("crf", result.Plan.CRF),
		logging.Int("fps", result.Plan.FrameRate),
	)

	runner := ffmpegRunner{binary: c.cfg.FFmpegBinary(), logger: logger}
	if c.progress {
		runner.progress = c.out
	}
	if err := runner.Run(ctx, result.Command[1:], result.DurationSeconds); err != nil {
		result.Elapsed = time.Since(start)
		logger.Error("encoding failed",
			logging.ErrorKind(err),
			logging.Duration("elapsed", result.Elapsed),
			logging.Error(err),
		)
		return result, err
	}

	result.Elapsed = time.Since(start)
	if info, statErr := os.Stat(req.Output); statErr == nil {
		result.OutputSizeBytes = info.Size()
	}
	fmt.Fprintf(c.out, "Compression finished. File saved as %s\n", req.Output)
	logger.Info("encoding completed",
		logging.String("output", req.Output),
		logging.Int64("output_size_bytes", result.OutputSizeBytes),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (c *Compressor) report(result Result) {
	fmt.Fprintf(c.out, "Original Size: %.2f MB\n", float64(result.OriginalSizeBytes)/bytesPerMB)
	fmt.Fprintf(c.out, "Target Size: %s MB\n", formatSizeMB(result.TargetSizeMB))
	fmt.Fprintf(c.out, "Target Bitrate: %.2f kbps\n", result.Plan.TargetBitrateKbps)
	if result.Plan.FrameRate > 0 {
		fmt.Fprintf(c.out, "Frame Rate: %d fps\n", result.Plan.FrameRate)
	}
}

// formatSizeMB prints whole sizes without a decimal part.
func formatSizeMB(size float64) string {
	text := fmt.Sprintf("%.2f", size)
	text = strings.TrimRight(text, "0")
	return strings.TrimSuffix(text, ".")
}

func ensureRunID(ctx context.Context) context.Context {
	if _, ok := services.RunIDFromContext(ctx); ok {
		return ctx
	}
	return services.WithRunID(ctx, uuid.NewString())
}

func runIDFromContext(ctx context.Context) string {
	id, _ := services.RunIDFromContext(ctx)
	return id
}
