package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidfit/internal/media/ffprobe"
)

type probeSummary struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type probeDetail struct {
	Path    string           `json:"path"`
	Format  ffprobe.Format   `json:"format"`
	Streams []ffprobe.Stream `json:"streams"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var detail bool

	cmd := &cobra.Command{
		Use:   "probe <input>",
		Short: "Report a video's duration as seen by ffprobe",
		Args:  exactArgs(1, "<input>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := args[0]
			out := cmd.OutOrStdout()

			if !detail {
				seconds, err := ffprobe.ProbeDuration(cmd.Context(), cfg.FFprobeBinary(), path)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(out, probeSummary{Path: path, DurationSeconds: seconds})
				}
				fmt.Fprintf(out, "Duration: %s seconds\n", strconv.FormatFloat(seconds, 'f', -1, 64))
				return nil
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(out, probeDetail{Path: path, Format: result.Format, Streams: result.Streams})
			}
			printProbeDetail(out, path, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the probe result as JSON")
	cmd.Flags().BoolVar(&detail, "detail", false, "Run a full format and stream inspection")
	return cmd
}

func printProbeDetail(w io.Writer, path string, result ffprobe.Result) {
	pairs := [][2]string{
		{"Path", path},
		{"Container", valueOrDash(result.Format.FormatName)},
		{"Duration", formatFinite(result.DurationSeconds(), formatSeconds)},
		{"Size", humanize.IBytes(uint64(result.SizeBytes()))},
		{"Bitrate", formatKbps(float64(result.BitRate()) / 1000)},
		{"Video streams", strconv.Itoa(result.VideoStreamCount())},
		{"Audio streams", strconv.Itoa(result.AudioStreamCount())},
	}
	if rate := result.FrameRate(); rate > 0 {
		pairs = append(pairs, [2]string{"Frame rate", fmt.Sprintf("%.3f fps", rate)})
	}
	fmt.Fprintln(w, renderKeyValues(pairs))

	if len(result.Streams) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.Streams))
	for _, stream := range result.Streams {
		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			valueOrDash(stream.CodecType),
			valueOrDash(stream.CodecName),
			streamShape(stream),
			valueOrDash(stream.AvgFrameRate),
		})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable(
		[]column{num("#"), col("Type"), col("Codec"), col("Shape"), num("Rate")},
		rows,
	))
}

func streamShape(stream ffprobe.Stream) string {
	switch {
	case stream.Width > 0 && stream.Height > 0:
		return fmt.Sprintf("%dx%d", stream.Width, stream.Height)
	case stream.Channels > 0:
		return fmt.Sprintf("%d ch", stream.Channels)
	default:
		return "-"
	}
}

func formatFinite(value float64, format func(float64) string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return format(value)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
