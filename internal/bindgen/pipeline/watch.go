package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Alia5/lapackbind/internal/bindgen/tool"
)

// Watcher regenerates the bindings whenever the header changes. Runs are
// serialized on the watch loop; a change arriving mid-run schedules one more run.
type Watcher struct {
	cfg      Config
	runner   tool.Runner
	logger   *slog.Logger
	debounce time.Duration

	// OnRun is called after each run; used by tests.
	OnRun func(*Result, error)
}

func NewWatcher(cfg Config, runner tool.Runner, logger *slog.Logger, debounce time.Duration) *Watcher {
	return &Watcher{cfg: cfg, runner: runner, logger: logger, debounce: debounce}
}

// Watch runs once immediately and then on every header change until ctx is done.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	headerPath, err := filepath.Abs(w.cfg.Header)
	if err != nil {
		return fmt.Errorf("resolve header path: %w", err)
	}
	// Editors replace files on save; watching the directory survives that.
	if err := fw.Add(filepath.Dir(headerPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(headerPath), err)
	}
	w.logger.Info("Watching header", "file", headerPath)

	w.run(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(headerPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Header changed", "event", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", "error", err)
		case <-timer.C:
			w.run(ctx)
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	res, err := New(w.cfg, w.runner, w.logger).Run(ctx)
	if err != nil {
		w.logger.Error("Generation failed", "error", err)
	}
	if w.OnRun != nil {
		w.OnRun(res, err)
	}
}
