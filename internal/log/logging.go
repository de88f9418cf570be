// Package log builds the slog.Logger used by every lapackbind command.
//
// Without a log file, records below error go to stdout and errors go to
// stderr, so a failed generation is visible even when stdout is redirected.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below Debug and additionally echoes external tool output.
const LevelTrace slog.Level = -8

// Config holds the logging flags shared by all commands.
type Config struct {
	Level    string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"LAPACKBIND_LOG_LEVEL"`
	File     string `help:"Also write logs to this file" env:"LAPACKBIND_LOG_FILE"`
	ToolFile string `help:"Write bindgen/rustfmt output to this file" env:"LAPACKBIND_LOG_TOOL_FILE"`
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// levelRange passes records with min <= level < max to h.
type levelRange struct {
	min, max slog.Level
	h        slog.Handler
}

func (l levelRange) in(level slog.Level) bool { return level >= l.min && level < l.max }

func (l levelRange) Enabled(ctx context.Context, level slog.Level) bool {
	return l.in(level) && l.h.Enabled(ctx, level)
}

func (l levelRange) Handle(ctx context.Context, r slog.Record) error {
	if !l.in(r.Level) {
		return nil
	}
	return l.h.Handle(ctx, r)
}

func (l levelRange) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelRange{min: l.min, max: l.max, h: l.h.WithAttrs(attrs)}
}

func (l levelRange) WithGroup(name string) slog.Handler {
	return levelRange{min: l.min, max: l.max, h: l.h.WithGroup(name)}
}

const maxLevel slog.Level = 1 << 10

// Setup builds the logger and tool logger described by cfg. The returned
// closers must be closed by the caller once the command finished.
func Setup(cfg Config, stdout, stderr io.Writer) (*slog.Logger, ToolLogger, []io.Closer, error) {
	level := ParseLevel(cfg.Level)
	var closers []io.Closer

	var handlers fanout
	if cfg.File == "" {
		handlers = append(handlers,
			levelRange{min: level, max: slog.LevelError, h: slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level})},
			levelRange{min: slog.LevelError, max: maxLevel, h: slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelError})},
		)
	} else {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, f)
		handlers = append(handlers,
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
		)
	}
	logger := slog.New(handlers)

	var tool ToolLogger
	switch {
	case cfg.ToolFile != "":
		f, err := os.OpenFile(cfg.ToolFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, nil, nil, err
		}
		closers = append(closers, f)
		tool = NewToolLogger(f)
	case level <= LevelTrace:
		tool = NewToolLogger(stdout)
	default:
		tool = NewToolLogger(nil)
	}
	return logger, tool, closers, nil
}
