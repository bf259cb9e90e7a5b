package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidfit/internal/deps"
	"vidfit/internal/preflight"
	"vidfit/internal/services"
)

type depsReport struct {
	Tools       []deps.Status      `json:"tools"`
	Directories []preflight.Result `json:"directories,omitempty"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check that ffmpeg and ffprobe are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := depsReport{
				Tools:       preflight.CheckSystemDeps(cmd.Context(), cfg),
				Directories: preflight.RunAll(cfg),
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range dependencyLines(report.Tools, colorize) {
					fmt.Fprintln(out, line)
				}
				if len(report.Directories) > 0 {
					fmt.Fprintln(out)
					for _, line := range renderSectionHeader("Directories", colorize) {
						fmt.Fprintln(out, line)
					}
					for _, line := range preflightLines(report.Directories, colorize) {
						fmt.Fprintln(out, line)
					}
				}
			}

			if !deps.AllRequiredAvailable(report.Tools) {
				return services.Wrap(services.ErrConfiguration, "deps", "check", "required media tools are missing", nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	return cmd
}
