package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidfit/internal/logging"
	"vidfit/internal/logs"
	"vidfit/internal/services"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the vidfit log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			dir := strings.TrimSpace(cfg.Paths.LogDir)
			if dir == "" {
				fmt.Fprintln(out, "File logging is disabled (set [paths] log_dir to keep a log file)")
				return nil
			}
			if lines < 0 {
				return services.Wrap(services.ErrValidation, "logs", "flags", "--lines must not be negative", nil)
			}

			path := filepath.Join(dir, logging.LogFileName)
			opts := logs.Options{Lines: lines, Follow: follow, RunID: strings.TrimSpace(runID)}
			if err := logs.Tail(cmd.Context(), path, opts, func(line string) {
				fmt.Fprintln(out, line)
			}); err != nil {
				return services.Wrap(services.ErrUnexpected, "logs", "tail", path, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new log lines")
	cmd.Flags().StringVar(&runID, "run", "", "Only show records for this run ID")
	return cmd
}
