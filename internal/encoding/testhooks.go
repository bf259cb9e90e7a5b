package encoding

import (
	"context"

	"vidfit/internal/media/ffprobe"
)

// probeDuration is the ffprobe function used by the encoding package.
// It is a package-level variable so tests can override it.
var probeDuration = ffprobe.ProbeDuration

// SetProbeForTests overrides the duration prober during tests.
func SetProbeForTests(fn func(context.Context, string, string) (float64, error)) func() {
	previous := probeDuration
	probeDuration = fn
	return func() {
		probeDuration = previous
	}
}
