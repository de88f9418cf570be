package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Alia5/lapackbind/internal/bindgen/tool"
)

// ErrStale reports that the placed module differs from a fresh generation.
var ErrStale = errors.New("generated bindings are out of date")

// CheckResult is the outcome of comparing a fresh generation with the placed module.
type CheckResult struct {
	Placed string
	Fresh  *Result
	Diff   string
}

// Check generates into a temporary directory and diffs the result against the
// module currently placed in cfg.Dest. The placed module is never modified.
func Check(ctx context.Context, cfg Config, runner tool.Runner, logger *slog.Logger) (*CheckResult, error) {
	placed := filepath.Join(cfg.Dest, filepath.Base(cfg.Output))

	tmp, err := os.MkdirTemp("", "lapackbind-check-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	fresh := cfg
	fresh.IntermediateHeader = filepath.Join(tmp, filepath.Base(cfg.IntermediateHeader))
	fresh.Output = filepath.Join(tmp, "work", filepath.Base(cfg.Output))
	fresh.Dest = filepath.Join(tmp, "dest")

	res, err := New(fresh, runner, logger).Run(ctx)
	if err != nil {
		return nil, err
	}

	want, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, err
	}
	have, err := os.ReadFile(placed)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	out := &CheckResult{Placed: placed, Fresh: res}
	if string(have) == string(want) {
		return out, nil
	}

	out.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: placed,
		ToFile:   "generated",
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return out, fmt.Errorf("%s: %w", placed, ErrStale)
}
