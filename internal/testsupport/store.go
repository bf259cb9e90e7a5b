package testsupport

import (
	"testing"

	"vidfit/internal/config"
	"vidfit/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
// The config must have history enabled.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
