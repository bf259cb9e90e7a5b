package encoding

import (
	"math"
	"path/filepath"
	"strings"

	"vidfit/internal/services"
)

const stageName = "encoding"

// Request describes one size-targeted compression.
type Request struct {
	Input        string
	Output       string
	TargetSizeMB float64
	// FrameRate is the requested output frame rate; zero keeps the source rate.
	FrameRate int
}

// Validate rejects requests that cannot produce a sensible encode.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return services.Wrap(services.ErrValidation, stageName, "validate request", "input path is required", nil)
	}
	if strings.TrimSpace(r.Output) == "" {
		return services.Wrap(services.ErrValidation, stageName, "validate request", "output path is required", nil)
	}
	if !(r.TargetSizeMB > 0) {
		return services.Wrap(services.ErrValidation, stageName, "validate request", "target size must be greater than zero", nil)
	}
	if math.IsInf(r.TargetSizeMB, 0) {
		return services.Wrap(services.ErrValidation, stageName, "validate request", "target size must be finite", nil)
	}
	if r.FrameRate < 0 {
		return services.Wrap(services.ErrValidation, stageName, "validate request", "frame rate must not be negative", nil)
	}
	if samePath(r.Input, r.Output) {
		return services.Wrap(services.ErrValidation, stageName, "validate request", "output must differ from input", nil)
	}
	return nil
}

// ReducesFrameRate reports whether the request asks for a new output frame rate.
func (r Request) ReducesFrameRate() bool {
	return r.FrameRate > 0
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
