package cmd

import (
	"log/slog"

	"github.com/Alia5/lapackbind/internal/bindgen/binding"
	"github.com/Alia5/lapackbind/internal/bindgen/pipeline"
)

// Preprocess only rewrites the header, for inspecting what bindgen will see.
type Preprocess struct {
	Header   string `help:"LAPACK C header to read" default:"lapack.h" type:"path" env:"LAPACKBIND_HEADER"`
	Output   string `help:"Where to write the preprocessed header" default:"lapack_bindgen.h" type:"path" env:"LAPACKBIND_INTERMEDIATE_HEADER"`
	IntWidth string `help:"lapack_int width: auto, 32 or 64" default:"auto" enum:"auto,32,64" env:"LAPACKBIND_INT_WIDTH"`
}

func (p *Preprocess) Run(logger *slog.Logger) error {
	cfg := pipeline.DefaultConfig()
	cfg.Header = p.Header
	cfg.IntermediateHeader = p.Output
	cfg.IntWidth = p.IntWidth

	_, err := pipeline.New(cfg, nil, logger).Preprocess()
	return err
}

// Postprocess rewrites an existing raw bindgen module in place.
type Postprocess struct {
	File          string `arg:"" help:"Raw binding module produced by bindgen" type:"existingfile"`
	Feature       string `help:"Cargo feature selecting the 64 bit lapack_int" default:"ilp64" env:"LAPACKBIND_FEATURE"`
	ComplexCrate  string `help:"Crate glob-imported for Complex<T>" default:"num_complex" env:"LAPACKBIND_COMPLEX_CRATE"`
	Prefix        string `help:"bindgen collision-avoidance prefix to erase" default:"__Bindgen" env:"LAPACKBIND_PREFIX"`
	LenientFields bool   `help:"Skip field lines with an unexpected shape instead of failing" env:"LAPACKBIND_LENIENT_FIELDS"`
}

func (p *Postprocess) Run(logger *slog.Logger) error {
	_, err := pipeline.PostprocessFile(logger, p.File, binding.Options{
		Feature:       p.Feature,
		ComplexCrate:  p.ComplexCrate,
		Prefix:        p.Prefix,
		LenientFields: p.LenientFields,
	})
	return err
}
