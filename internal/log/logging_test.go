package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupSplitsStdoutAndStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, tool, closers, err := Setup(Config{Level: "info"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Debug("hidden")
	logger.Info("generated", "file", "lapack.rs")
	logger.Error("bindgen failed")
	tool.Log("bindgen", []byte("warning: unused\n"))

	assert.Contains(t, stdout.String(), "generated")
	assert.NotContains(t, stdout.String(), "hidden")
	assert.NotContains(t, stdout.String(), "bindgen failed")
	assert.NotContains(t, stdout.String(), "warning: unused")
	assert.Contains(t, stderr.String(), "bindgen failed")
	assert.NotContains(t, stderr.String(), "generated")
}

func TestSetupTraceEchoesToolOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, tool, _, err := Setup(Config{Level: "trace"}, &stdout, &stderr)
	require.NoError(t, err)

	tool.Log("rustfmt", []byte("line one\nline two"))
	assert.Equal(t, "rustfmt | line one\nrustfmt | line two\n", stdout.String())
}

func TestSetupFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Level:    "debug",
		File:     filepath.Join(dir, "run.log"),
		ToolFile: filepath.Join(dir, "tools.log"),
	}
	var stdout, stderr bytes.Buffer
	logger, tool, closers, err := Setup(cfg, &stdout, &stderr)
	require.NoError(t, err)
	require.Len(t, closers, 2)

	logger.Debug("preprocessed")
	tool.Log("bindgen", []byte("ok"))
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	runLog, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(runLog), "preprocessed")

	toolLog, err := os.ReadFile(cfg.ToolFile)
	require.NoError(t, err)
	assert.Equal(t, "bindgen | ok\n", string(toolLog))
	assert.Empty(t, stdout.String())
}

func TestToolLoggerNilWriter(t *testing.T) {
	assert.NotPanics(t, func() {
		NewToolLogger(nil).Log("bindgen", []byte("x"))
	})
}
