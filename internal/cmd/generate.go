package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/lapackbind/internal/bindgen/pipeline"
	"github.com/Alia5/lapackbind/internal/bindgen/tool"
	"github.com/Alia5/lapackbind/internal/log"
)

type Generate struct {
	pipeline.Config `embed:""`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, toolLog log.ToolLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tool.LookPath(g.Binaries()...); err != nil {
		return fmt.Errorf("required tools missing: %w", err)
	}

	logger.Info("Generating LAPACK bindings", "header", g.Header, "dest", g.Dest)
	_, err := pipeline.New(g.Config, tool.NewExecRunner(logger, toolLog), logger).Run(ctx)
	return err
}
