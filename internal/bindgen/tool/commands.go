package tool

import "context"

const (
	DefaultBindgen   = "bindgen"
	DefaultRustfmt   = "rustfmt"
	DefaultAllowlist = "^.*_$"
)

// Bindgen describes the rust-bindgen invocation.
type Bindgen struct {
	Binary    string
	Allowlist string
	UseCore   bool
	ExtraArgs []string
}

// Args returns the command line for generating output from header.
func (b Bindgen) Args(header, output string) []string {
	allow := b.Allowlist
	if allow == "" {
		allow = DefaultAllowlist
	}
	args := []string{header, "-o", output, "--allowlist-function", allow}
	if b.UseCore {
		args = append(args, "--use-core")
	}
	return append(args, b.ExtraArgs...)
}

func (b Bindgen) binary() string {
	if b.Binary == "" {
		return DefaultBindgen
	}
	return b.Binary
}

// Generate runs bindgen on header, writing the raw module to output.
func (b Bindgen) Generate(ctx context.Context, r Runner, header, output string) error {
	return r.Run(ctx, b.binary(), b.Args(header, output)...)
}

// Rustfmt describes the in-place formatter invocation.
type Rustfmt struct {
	Binary  string
	Edition string
}

func (f Rustfmt) Args(file string) []string {
	var args []string
	if f.Edition != "" {
		args = append(args, "--edition", f.Edition)
	}
	return append(args, file)
}

func (f Rustfmt) binary() string {
	if f.Binary == "" {
		return DefaultRustfmt
	}
	return f.Binary
}

// Format rewrites file in place.
func (f Rustfmt) Format(ctx context.Context, r Runner, file string) error {
	return r.Run(ctx, f.binary(), f.Args(file)...)
}
