package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidfit/internal/config"
	"vidfit/internal/encoding"
	"vidfit/internal/history"
	"vidfit/internal/logging"
	"vidfit/internal/preflight"
	"vidfit/internal/services"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var sizeMB float64
	var fps int
	var dryRun bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "compress <input> <output>",
		Short: "Re-encode a video so it lands near a target size",
		Long: "Probe the input duration with ffprobe, derive the bitrate that fits --size\n" +
			"megabytes, and re-encode with ffmpeg (libx264). --fps additionally lowers the\n" +
			"output frame rate.",
		Args: exactArgs(2, "<input> <output>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			req := encoding.Request{
				Input:        args[0],
				Output:       args[1],
				TargetSizeMB: sizeMB,
				FrameRate:    fps,
			}
			out := cmd.OutOrStdout()

			if dryRun {
				compressor := encoding.NewCompressor(cfg, logger, io.Discard)
				result, err := compressor.Prepare(cmd.Context(), req)
				if err != nil {
					return err
				}
				if jsonOut {
					result.DryRun = true
					return writeJSON(out, result)
				}
				printDryRun(out, result, preflight.CheckCompression(req.Input, req.Output), shouldColorize(out))
				return nil
			}

			reportTo := out
			var opts []encoding.Option
			if jsonOut {
				reportTo = io.Discard
				opts = append(opts, encoding.WithProgress(false))
			}
			compressor := encoding.NewCompressor(cfg, logger, reportTo, opts...)
			started := time.Now()
			result, runErr := compressor.Compress(cmd.Context(), req)
			recordRun(cmd.Context(), cfg, logger, started, req, result, runErr)
			if runErr != nil {
				return runErr
			}
			if jsonOut {
				return writeJSON(out, result)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&sizeMB, "size", "s", 0, "Target output size in megabytes")
	cmd.Flags().IntVar(&fps, "fps", 0, "Output frame rate (0 keeps the source rate)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Probe and print the plan without encoding")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}

func printDryRun(w io.Writer, result encoding.Result, checks []preflight.Result, colorize bool) {
	plan := result.Plan
	pairs := [][2]string{
		{"Input", result.Input},
		{"Output", result.Output},
		{"Original size", humanize.IBytes(uint64(max(result.OriginalSizeBytes, 0)))},
		{"Duration", formatSeconds(result.DurationSeconds)},
		{"Target size", fmt.Sprintf("%s MB", humanize.Ftoa(result.TargetSizeMB))},
		{"Target bitrate", formatKbps(plan.TargetBitrateKbps)},
		{"Video bitrate", formatKbpsInt(plan.VideoBitrateKbps)},
		{"Audio bitrate", formatKbpsInt(plan.AudioBitrateKbps)},
		{"Codec", plan.VideoCodec},
		{"Preset", plan.Preset},
		{"CRF", fmt.Sprintf("%d", plan.CRF)},
	}
	if plan.FrameRate > 0 {
		pairs = append(pairs, [2]string{"Frame rate", fmt.Sprintf("%d fps", plan.FrameRate)})
	}
	fmt.Fprintln(w, renderKeyValues(pairs))
	fmt.Fprintln(w)
	for _, line := range renderSectionHeader("Preflight", colorize) {
		fmt.Fprintln(w, line)
	}
	for _, line := range preflightLines(checks, colorize) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Command: %s\n", shellJoin(result.Command))
}

// recordRun stores the outcome in the run history when it is enabled.
// History failures are logged and never change the command result.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, started time.Time, req encoding.Request, result encoding.Result, runErr error) {
	if cfg == nil || !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	run := history.Run{
		RunID:             result.RunID,
		StartedAt:         started,
		Input:             req.Input,
		Output:            req.Output,
		TargetSizeMB:      req.TargetSizeMB,
		FrameRate:         req.FrameRate,
		DurationSeconds:   result.DurationSeconds,
		OriginalSizeBytes: result.OriginalSizeBytes,
		OutputSizeBytes:   result.OutputSizeBytes,
		VideoBitrateKbps:  result.Plan.VideoBitrateKbps,
		Status:            history.StatusSucceeded,
		Elapsed:           time.Since(started),
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorKind = string(services.Classify(runErr))
		run.ErrorMessage = runErr.Error()
	}
	if _, err := store.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}

func shellJoin(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "" || strings.ContainsFunc(arg, needsShellQuote) {
			quoted = append(quoted, "'"+strings.ReplaceAll(arg, "'", `'\''`)+"'")
			continue
		}
		quoted = append(quoted, arg)
	}
	return strings.Join(quoted, " ")
}

// needsShellQuote reports runes outside the set a POSIX shell passes through literally.
func needsShellQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_./:=+-,@%", r):
		return false
	}
	return true
}
