package encoding

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"vidfit/internal/logging"
	"vidfit/internal/services"
)

var commandContext = exec.CommandContext

// stderrTailBytes bounds how much ffmpeg diagnostic output is kept for error reports.
const stderrTailBytes = 4096

var progressArgs = []string{"-progress", "pipe:1", "-nostats"}

type ffmpegRunner struct {
	binary string
	logger *slog.Logger
	// progress receives the rendered bar; nil disables ffmpeg's progress feed.
	progress io.Writer
}

func (r ffmpegRunner) Run(ctx context.Context, args []string, durationSeconds float64) error {
	binary := strings.TrimSpace(r.binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	full := args
	if r.progress != nil {
		full = append(append([]string(nil), progressArgs...), args...)
	}

	cmd := commandContext(ctx, binary, full...) //nolint:gosec
	stderr := newTailBuffer(stderrTailBytes)
	cmd.Stderr = stderr

	var stdout io.ReadCloser
	if r.progress != nil {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return services.Wrap(services.ErrUnexpected, stageName, "ffmpeg", "failed to attach progress pipe", err)
		}
		stdout = pipe
	}

	if r.logger != nil {
		r.logger.Debug("launching ffmpeg",
			logging.String("binary", binary),
			logging.String("command", strings.Join(full, " ")),
		)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrEncode, stageName, "ffmpeg", "failed to start encoder", services.NewToolError(binary, err, nil))
	}

	var wg sync.WaitGroup
	if stdout != nil {
		bar := newProgressBar(r.progress, durationSeconds)
		wg.Add(1)
		go func() {
			defer wg.Done()
			readProgress(stdout, bar.Update)
			_, _ = io.Copy(io.Discard, stdout)
			bar.Finish()
		}()
	}
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.Wrap(services.ErrEncode, stageName, "ffmpeg", "encode interrupted", ctxErr)
		}
		return services.Wrap(
			services.ErrEncode,
			stageName,
			"ffmpeg",
			"encoder exited unsuccessfully",
			services.NewToolError(binary, err, stderr.Bytes()),
		)
	}
	return nil
}

// tailBuffer keeps only the most recent bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	data  []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if over := len(b.data) - b.limit; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}
