package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandContextClosesLogFile(t *testing.T) {
	env := setupCLITestEnv(t)
	configPath := env.configPath
	var level, format string
	ctx := newCommandContext(&configPath, &level, &format)

	cmd := &cobra.Command{}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	logger, err := ctx.logger(cmd)
	if err != nil {
		t.Fatalf("logger returned error: %v", err)
	}
	logger.Info("encoding started")
	if len(ctx.closers) != 1 {
		t.Fatalf("expected one registered closer, got %d", len(ctx.closers))
	}

	if err := ctx.close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
	if len(ctx.closers) != 0 {
		t.Fatal("expected closers to be cleared")
	}
	if err := ctx.close(); err != nil {
		t.Fatalf("second close returned error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(env.logDir, "vidfit.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"encoding started"`) {
		t.Fatalf("expected record in log file, got %q", content)
	}
}

func TestLogFormatFlagValidatedLikeConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, code := runCLI(t, []string{"--log-format", "xml", "config", "validate"}, env.configPath)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	requireContains(t, stderr, "Error:")
	requireContains(t, stderr, "logging.format")
}
