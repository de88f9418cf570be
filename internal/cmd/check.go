package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/lapackbind/internal/bindgen/pipeline"
	"github.com/Alia5/lapackbind/internal/bindgen/tool"
	"github.com/Alia5/lapackbind/internal/log"
)

// Check fails when the placed module is not what generate would produce.
type Check struct {
	pipeline.Config `embed:""`
	NoColor         bool `help:"Never colour the diff" env:"LAPACKBIND_NO_COLOR"`
}

func (c *Check) Run(logger *slog.Logger, toolLog log.ToolLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tool.LookPath(c.Binaries()...); err != nil {
		return fmt.Errorf("required tools missing: %w", err)
	}

	res, err := pipeline.Check(ctx, c.Config, tool.NewExecRunner(logger, toolLog), logger)
	if errors.Is(err, pipeline.ErrStale) {
		color := !c.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
		writeDiff(os.Stdout, res.Diff, color)
		return err
	}
	if err != nil {
		return err
	}
	logger.Info("Bindings are up to date", "file", res.Placed)
	return nil
}

func writeDiff(w io.Writer, diff string, color bool) {
	if !color {
		_, _ = io.WriteString(w, diff)
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, _ = io.WriteString(w, "\x1b[1m"+strings.TrimSuffix(line, "\n")+"\x1b[0m\n")
		case strings.HasPrefix(line, "+"):
			_, _ = io.WriteString(w, "\x1b[32m"+strings.TrimSuffix(line, "\n")+"\x1b[0m\n")
		case strings.HasPrefix(line, "-"):
			_, _ = io.WriteString(w, "\x1b[31m"+strings.TrimSuffix(line, "\n")+"\x1b[0m\n")
		default:
			_, _ = io.WriteString(w, line)
		}
	}
}

// Watch regenerates on every header change until interrupted.
type Watch struct {
	pipeline.Config `embed:""`
	Debounce        time.Duration `help:"Quiet period after a header change before regenerating" default:"500ms" env:"LAPACKBIND_WATCH_DEBOUNCE"`
}

func (w *Watch) Run(logger *slog.Logger, toolLog log.ToolLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tool.LookPath(w.Binaries()...); err != nil {
		return fmt.Errorf("required tools missing: %w", err)
	}
	return pipeline.NewWatcher(w.Config, tool.NewExecRunner(logger, toolLog), logger, w.Debounce).Watch(ctx)
}
