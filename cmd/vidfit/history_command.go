package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidfit/internal/history"
	"vidfit/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent compression runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (set [history] enabled = true to record runs)")
				return nil
			}

			store, err := history.Open(cfg)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "history", "open", "", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return services.Wrap(services.ErrUnexpected, "history", "list", "", err)
			}
			if jsonOut {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(out, runs)
			}
			printHistory(out, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit runs as JSON")
	return cmd
}

func printHistory(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		result := "ok"
		if !run.Succeeded() {
			result = "failed"
			if run.ErrorKind != "" {
				result = "failed (" + run.ErrorKind + ")"
			}
		}
		size := "-"
		if run.OutputSizeBytes > 0 {
			size = humanize.IBytes(uint64(run.OutputSizeBytes))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.ID),
			humanize.Time(run.StartedAt),
			filepath.Base(run.Input),
			humanize.Ftoa(run.TargetSizeMB) + " MB",
			size,
			formatKbpsInt(run.VideoBitrateKbps),
			result,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]column{num("ID"), col("Started"), col("Input"), num("Target"), num("Output"), num("Bitrate"), col("Result")},
		rows,
	))
}
