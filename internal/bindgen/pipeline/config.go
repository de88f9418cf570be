package pipeline

import (
	"github.com/Alia5/lapackbind/internal/bindgen/binding"
	"github.com/Alia5/lapackbind/internal/bindgen/header"
	"github.com/Alia5/lapackbind/internal/bindgen/tool"
)

// Config represents the generation settings shared by generate, check and watch.
type Config struct {
	Header             string `help:"LAPACK C header to read" default:"lapack.h" type:"path" env:"LAPACKBIND_HEADER"`
	IntermediateHeader string `help:"Preprocessed header handed to bindgen" default:"lapack_bindgen.h" type:"path" env:"LAPACKBIND_INTERMEDIATE_HEADER"`
	Output             string `help:"Binding module written by bindgen and rewritten in place" default:"lapack.rs" type:"path" env:"LAPACKBIND_OUTPUT"`
	Dest               string `help:"Directory the finished module is moved into" default:"../src/ffi" type:"path" env:"LAPACKBIND_DEST"`
	KeepIntermediate   bool   `help:"Keep the preprocessed header after a successful run" env:"LAPACKBIND_KEEP_INTERMEDIATE"`

	IntWidth string `help:"lapack_int width the header is generated with: auto, 32 or 64. The stock lapack.h defines both widths and needs 32" default:"auto" enum:"auto,32,64" env:"LAPACKBIND_INT_WIDTH"`

	Bindgen    string   `help:"bindgen executable" default:"bindgen" env:"LAPACKBIND_BINDGEN"`
	Allowlist  string   `help:"bindgen --allowlist-function pattern" default:"^.*_$" env:"LAPACKBIND_ALLOWLIST"`
	UseCore    bool     `help:"Pass --use-core to bindgen" default:"true" negatable:"" env:"LAPACKBIND_USE_CORE"`
	BindgenArg []string `help:"Extra argument passed to bindgen (repeatable)" env:"LAPACKBIND_BINDGEN_ARGS"`

	Rustfmt    string `help:"rustfmt executable" default:"rustfmt" env:"LAPACKBIND_RUSTFMT"`
	Edition    string `help:"Rust edition passed to rustfmt; empty uses rustfmt's default" env:"LAPACKBIND_EDITION"`
	SkipFormat bool   `help:"Do not run rustfmt on the generated module" env:"LAPACKBIND_SKIP_FORMAT"`

	Feature       string `help:"Cargo feature selecting the 64 bit lapack_int" default:"ilp64" env:"LAPACKBIND_FEATURE"`
	ComplexCrate  string `help:"Crate glob-imported for Complex<T>" default:"num_complex" env:"LAPACKBIND_COMPLEX_CRATE"`
	Prefix        string `help:"bindgen collision-avoidance prefix to erase" default:"__Bindgen" env:"LAPACKBIND_PREFIX"`
	LenientFields bool   `help:"Skip field lines with an unexpected shape instead of failing" env:"LAPACKBIND_LENIENT_FIELDS"`
}

// DefaultConfig mirrors the flag defaults for callers outside kong.
func DefaultConfig() Config {
	return Config{
		Header:             "lapack.h",
		IntermediateHeader: "lapack_bindgen.h",
		Output:             "lapack.rs",
		Dest:               "../src/ffi",
		IntWidth:           string(header.WidthAuto),
		Bindgen:            tool.DefaultBindgen,
		Allowlist:          tool.DefaultAllowlist,
		UseCore:            true,
		Rustfmt:            tool.DefaultRustfmt,
		Feature:            binding.DefaultFeature,
		ComplexCrate:       binding.DefaultComplexCrate,
		Prefix:             binding.DefaultPrefix,
	}
}

func (c Config) bindgen() tool.Bindgen {
	return tool.Bindgen{Binary: c.Bindgen, Allowlist: c.Allowlist, UseCore: c.UseCore, ExtraArgs: c.BindgenArg}
}

func (c Config) rustfmt() tool.Rustfmt {
	return tool.Rustfmt{Binary: c.Rustfmt, Edition: c.Edition}
}

func (c Config) bindingOptions() binding.Options {
	return binding.Options{
		Feature:       c.Feature,
		ComplexCrate:  c.ComplexCrate,
		Prefix:        c.Prefix,
		LenientFields: c.LenientFields,
	}
}

// Binaries lists the external programs a run with this config needs.
func (c Config) Binaries() []string {
	bins := []string{c.bindgen().Binary}
	if bins[0] == "" {
		bins[0] = tool.DefaultBindgen
	}
	if !c.SkipFormat {
		fmtBin := c.Rustfmt
		if fmtBin == "" {
			fmtBin = tool.DefaultRustfmt
		}
		bins = append(bins, fmtBin)
	}
	return bins
}
