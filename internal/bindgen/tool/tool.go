// Package tool invokes the external programs the pipeline depends on:
// bindgen to generate the raw binding module and rustfmt to format it.
package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Alia5/lapackbind/internal/log"
)

// Runner runs an external program to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec. Every non-zero exit is an error.
type ExecRunner struct {
	Logger *slog.Logger
	Output log.ToolLogger
}

// NewExecRunner returns an ExecRunner. output may be nil.
func NewExecRunner(logger *slog.Logger, output log.ToolLogger) *ExecRunner {
	if output == nil {
		output = log.NewToolLogger(nil)
	}
	return &ExecRunner{Logger: logger, Output: output}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))
	r.Logger.Debug("Running external tool", "cmd", cmdline)

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	r.Output.Log(name, out)
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: not found in PATH: %w", name, err)
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%s: %s: %w", cmdline, lastLines(msg, 10), err)
	}
	return fmt.Errorf("%s: %w", cmdline, err)
}

// lastLines keeps error messages short when a tool dumps a long log.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return "...\n" + strings.Join(lines[len(lines)-n:], "\n")
}

// LookPath resolves every binary up front so a missing tool fails before
// any file is written.
func LookPath(binaries ...string) error {
	var errs []error
	for _, b := range binaries {
		if b == "" {
			continue
		}
		if _, err := exec.LookPath(b); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b, err))
		}
	}
	return errors.Join(errs...)
}
