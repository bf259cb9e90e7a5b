package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Status values stored for each run.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// Run is one recorded compression attempt.
type Run struct {
	ID                int64         `json:"id"`
	RunID             string        `json:"run_id"`
	StartedAt         time.Time     `json:"started_at"`
	Input             string        `json:"input"`
	Output            string        `json:"output"`
	TargetSizeMB      float64       `json:"target_size_mb"`
	FrameRate         int           `json:"frame_rate,omitempty"`
	DurationSeconds   float64       `json:"duration_seconds"`
	OriginalSizeBytes int64         `json:"original_size_bytes"`
	OutputSizeBytes   int64         `json:"output_size_bytes"`
	VideoBitrateKbps  int           `json:"video_bitrate_kbps"`
	Status            string        `json:"status"`
	ErrorKind         string        `json:"error_kind,omitempty"`
	ErrorMessage      string        `json:"error_message,omitempty"`
	Elapsed           time.Duration `json:"elapsed"`
}

// Succeeded reports whether the run finished without error.
func (r Run) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Record inserts run and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(run.Status) == "" {
		run.Status = StatusSucceeded
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			`INSERT INTO runs (
				run_id, started_at, input_path, output_path, target_size_mb, frame_rate,
				duration_seconds, original_size_bytes, output_size_bytes, video_bitrate_kbps,
				status, error_kind, error_message, elapsed_ms
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.Input,
			run.Output,
			run.TargetSizeMB,
			run.FrameRate,
			run.DurationSeconds,
			run.OriginalSizeBytes,
			run.OutputSizeBytes,
			run.VideoBitrateKbps,
			run.Status,
			run.ErrorKind,
			run.ErrorMessage,
			run.Elapsed.Milliseconds(),
		)
		return execErr
	})
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("read run id: %w", err)
	}
	run.ID = id
	return run, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, started_at, input_path, output_path, target_size_mb, frame_rate,
			duration_seconds, original_size_bytes, output_size_bytes, video_bitrate_kbps,
			status, error_kind, error_message, elapsed_ms
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run       Run
		startedAt string
		elapsedMS int64
	)
	if err := rows.Scan(
		&run.ID,
		&run.RunID,
		&startedAt,
		&run.Input,
		&run.Output,
		&run.TargetSizeMB,
		&run.FrameRate,
		&run.DurationSeconds,
		&run.OriginalSizeBytes,
		&run.OutputSizeBytes,
		&run.VideoBitrateKbps,
		&run.Status,
		&run.ErrorKind,
		&run.ErrorMessage,
		&elapsedMS,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = ts
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return run, nil
}
