package encoding

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressUpdate is one key=value block of ffmpeg's -progress feed.
type progressUpdate struct {
	OutTime time.Duration
	Speed   float64
	Done    bool
}

// readProgress parses ffmpeg -progress output and calls fn once per block.
// Blocks end with a progress=continue or progress=end line.
func readProgress(r io.Reader, fn func(progressUpdate)) {
	scanner := bufio.NewScanner(r)
	var current progressUpdate
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		// ffmpeg reports out_time_ms in microseconds as well.
		case "out_time_us", "out_time_ms":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				current.OutTime = time.Duration(us) * time.Microsecond
			}
		case "speed":
			if speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
				current.Speed = speed
			}
		case "progress":
			current.Done = value == "end"
			if fn != nil {
				fn(current)
			}
			if current.Done {
				return
			}
		}
	}
}

type progressBar struct {
	bar   *progressbar.ProgressBar
	total int64
}

func newProgressBar(w io.Writer, durationSeconds float64) *progressBar {
	total := int64(durationSeconds * 1000)
	if total < 1 {
		total = 1
	}
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Encoding"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	return &progressBar{bar: bar, total: total}
}

func (p *progressBar) Update(update progressUpdate) {
	if p == nil {
		return
	}
	position := update.OutTime.Milliseconds()
	if update.Done || position > p.total {
		position = p.total
	}
	_ = p.bar.Set64(position)
}

func (p *progressBar) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}

// terminalWriter reports whether w is an interactive terminal.
func terminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
