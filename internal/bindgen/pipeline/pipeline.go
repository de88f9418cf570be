// Package pipeline runs the lapack.h -> lapack.rs generation end to end.
//
// Stages run strictly one after another and hand data over through two
// files: the preprocessed header and the binding module. Any failure aborts
// the run; nothing is retried.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/Alia5/lapackbind/internal/bindgen/binding"
	"github.com/Alia5/lapackbind/internal/bindgen/header"
	"github.com/Alia5/lapackbind/internal/bindgen/tool"
)

// Result summarizes a finished run.
type Result struct {
	Path    string
	SHA256  string
	Header  header.Report
	Binding binding.Report
}

type Pipeline struct {
	cfg    Config
	runner tool.Runner
	logger *slog.Logger
}

func New(cfg Config, runner tool.Runner, logger *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, runner: runner, logger: logger}
}

// Run executes every stage and returns where the module was placed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	var res Result
	var err error

	if res.Header, err = p.Preprocess(); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	if err := p.Generate(ctx); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if res.Binding, err = p.Postprocess(); err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}
	if err := p.Format(ctx); err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	if res.Path, err = p.Place(); err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	if res.SHA256, err = fileSHA256(res.Path); err != nil {
		return nil, fmt.Errorf("hash %s: %w", res.Path, err)
	}

	if !p.cfg.KeepIntermediate {
		if err := os.Remove(p.cfg.IntermediateHeader); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("Failed to remove intermediate header", "file", p.cfg.IntermediateHeader, "error", err)
		}
	}

	p.logger.Info("Binding module generated", "file", res.Path, "sha256", res.SHA256)
	return &res, nil
}

// Preprocess reads the header and writes the intermediate header.
func (p *Pipeline) Preprocess() (header.Report, error) {
	width, err := header.ParseWidth(p.cfg.IntWidth)
	if err != nil {
		return header.Report{}, err
	}

	src, err := os.ReadFile(p.cfg.Header)
	if err != nil {
		return header.Report{}, fmt.Errorf("read header: %w", err)
	}

	out, rep, err := header.Preprocess(string(src), header.Options{Width: width})
	if err != nil {
		return rep, fmt.Errorf("%s: %w", p.cfg.Header, err)
	}
	if err := writeFile(p.cfg.IntermediateHeader, out); err != nil {
		return rep, err
	}

	p.logger.Info("Preprocessed header",
		"header", p.cfg.Header,
		"output", p.cfg.IntermediateHeader,
		"lapack_int", rep.Width.CType(),
		"strlen_directives", rep.StrlenDirective)
	return rep, nil
}

// Generate runs bindgen on the intermediate header.
func (p *Pipeline) Generate(ctx context.Context) error {
	if err := os.Remove(p.cfg.Output); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.cfg.Output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := p.cfg.bindgen().Generate(ctx, p.runner, p.cfg.IntermediateHeader, p.cfg.Output); err != nil {
		return err
	}
	if _, err := os.Stat(p.cfg.Output); err != nil {
		return fmt.Errorf("bindgen produced no output: %w", err)
	}
	p.logger.Info("Generated raw bindings", "file", p.cfg.Output)
	return nil
}

// Postprocess rewrites the binding module in place.
func (p *Pipeline) Postprocess() (binding.Report, error) {
	return PostprocessFile(p.logger, p.cfg.Output, p.cfg.bindingOptions())
}

// PostprocessFile applies the binding rewrites to path in place.
func PostprocessFile(logger *slog.Logger, path string, opts binding.Options) (binding.Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return binding.Report{}, fmt.Errorf("read bindings: %w", err)
	}
	out, rep, err := binding.Postprocess(logger, string(raw), opts)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", path, err)
	}
	if err := writeFile(path, out); err != nil {
		return rep, err
	}
	logger.Info("Postprocessed bindings", "file", path, "field_lines", rep.FieldLines, "skipped", len(rep.SkippedFields))
	return rep, nil
}

// Format runs rustfmt unless disabled.
func (p *Pipeline) Format(ctx context.Context) error {
	if p.cfg.SkipFormat {
		p.logger.Debug("Skipping rustfmt")
		return nil
	}
	return p.cfg.rustfmt().Format(ctx, p.runner, p.cfg.Output)
}

// Place moves the module into the destination directory, replacing any
// previous version.
func (p *Pipeline) Place() (string, error) {
	dest := filepath.Join(p.cfg.Dest, filepath.Base(p.cfg.Output))
	if err := Move(p.cfg.Output, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Move renames src to dst, falling back to copy and remove across devices.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
