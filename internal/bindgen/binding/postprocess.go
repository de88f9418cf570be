// Package binding rewrites raw bindgen output into the published lapack.rs.
package binding

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"text/template"

	"github.com/Alia5/lapackbind/internal/bindgen/rewrite"
)

const (
	DefaultFeature      = "ilp64"
	DefaultComplexCrate = "num_complex"
	DefaultPrefix       = "__Bindgen"

	fieldIndent = "        "
	fieldSep    = ": "
)

const preludeTemplate = `#![allow(non_camel_case_types)]

use {{.ComplexCrate}}::*;

#[cfg(not(feature = "{{.Feature}}"))]
pub type lapack_int = i32;
#[cfg(feature = "{{.Feature}}")]
pub type lapack_int = i64;
`

var prelude = template.Must(template.New("prelude").Parse(preludeTemplate))

// ErrFieldShape is returned in strict mode when an indented, comma-terminated
// line does not split into exactly one name and one type.
var ErrFieldShape = errors.New("unexpected field line shape")

// Options configures the postprocessor.
type Options struct {
	// Feature is the cargo feature switching lapack_int to i64.
	Feature string
	// ComplexCrate is glob-imported to provide Complex<T>.
	ComplexCrate string
	// Prefix is bindgen's collision-avoidance prefix.
	Prefix string
	// LenientFields skips malformed field lines with a warning instead of failing.
	LenientFields bool
}

func (o Options) withDefaults() Options {
	if o.Feature == "" {
		o.Feature = DefaultFeature
	}
	if o.ComplexCrate == "" {
		o.ComplexCrate = DefaultComplexCrate
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	return o
}

// Report holds per-pass statistics.
type Report struct {
	Counts        rewrite.Counts
	FieldLines    int
	SkippedFields []int
}

// Postprocess runs the four rewrite passes in order: integer width, complex
// type, prefix erasure, field names. The order is fixed: the complex struct is
// removed only once its replacement import exists, and the prefix is erased
// only once the struct it would collide with is gone.
func Postprocess(logger *slog.Logger, text string, opts Options) (string, Report, error) {
	opts = opts.withDefaults()
	var rep Report

	text, n, err := NormalizeIntWidth(text, opts)
	rep.Counts = append(rep.Counts, rewrite.NamedCount{Rule: intWidthRule, Count: n})
	if err != nil {
		return "", rep, err
	}
	logger.Debug("Normalized lapack_int", "feature", opts.Feature)

	text, n, err = UnifyComplex(text, opts)
	rep.Counts = append(rep.Counts, rewrite.NamedCount{Rule: complexRule, Count: n})
	if err != nil {
		return "", rep, err
	}
	if n == 0 {
		logger.Debug("No generator complex struct found", "prefix", opts.Prefix)
	}

	text, n = ErasePrefix(text, opts)
	rep.Counts = append(rep.Counts, rewrite.NamedCount{Rule: prefixRule, Count: n})
	logger.Debug("Erased generator prefix", "prefix", opts.Prefix, "count", n)

	text, fr, err := LowerFieldNames(text, opts.LenientFields)
	rep.FieldLines = fr.Lines
	rep.SkippedFields = fr.Skipped
	if err != nil {
		return "", rep, err
	}
	for _, line := range fr.Skipped {
		logger.Warn("Skipped field line with unexpected shape", "line", line)
	}
	if fr.Lines == 0 && !opts.LenientFields {
		return "", rep, fmt.Errorf("%w: no field lines found", ErrFieldShape)
	}
	return text, rep, nil
}

const (
	intWidthRule = "lapack_int alias"
	complexRule  = "complex struct"
	prefixRule   = "generator prefix"
)

var genAlias = rewrite.Regexp(intWidthRule, `(?m)^pub type lapack_int = i(?:32|64);\n`, "", rewrite.ExactlyOnce)

// NormalizeIntWidth drops bindgen's fixed lapack_int alias and prepends the
// feature-gated one together with the complex crate import.
func NormalizeIntWidth(text string, opts Options) (string, int, error) {
	opts = opts.withDefaults()
	res, err := genAlias.Apply(text)
	if err != nil {
		return text, res.Count, err
	}

	var b strings.Builder
	if err := prelude.Execute(&b, opts); err != nil {
		return text, res.Count, fmt.Errorf("render prelude: %w", err)
	}
	b.WriteString("\n")
	b.WriteString(res.Text)
	return b.String(), res.Count, nil
}

// UnifyComplex removes bindgen's own generic complex struct. Absence is
// fine; a struct of that name in any other shape is an error.
func UnifyComplex(text string, opts Options) (string, int, error) {
	opts = opts.withDefaults()
	name := regexp.QuoteMeta(opts.Prefix + "Complex")
	rule := rewrite.Regexp(complexRule,
		`(?m)^#\[derive\([^)\n]*\)\]\n#\[repr\(C\)\]\npub struct `+name+`<T> \{\n {4}pub re: T,\n {4}pub im: T,\n\}`,
		"", rewrite.AtMostOnce)
	res, err := rule.Apply(text)
	if err != nil {
		return text, res.Count, err
	}
	if strings.Contains(res.Text, "pub struct "+opts.Prefix+"Complex") {
		return text, res.Count, fmt.Errorf("%s: definition of %sComplex has an unexpected shape", complexRule, opts.Prefix)
	}
	return res.Text, res.Count, nil
}

// ErasePrefix strips the generator prefix from every identifier.
func ErasePrefix(text string, opts Options) (string, int) {
	opts = opts.withDefaults()
	res := rewrite.Literal(prefixRule, opts.Prefix, "", rewrite.Any).Replace(text)
	return res.Text, res.Count
}

// FieldReport counts normalized lines and lists skipped ones (1-based).
type FieldReport struct {
	Lines   int
	Skipped []int
}

// LowerFieldNames lower-cases the name part of every line indented by two
// levels and terminated by a comma, e.g. "        LDA: *const lapack_int,".
func LowerFieldNames(text string, lenient bool) (string, FieldReport, error) {
	var rep FieldReport
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if !strings.HasPrefix(l, fieldIndent) || !strings.HasSuffix(l, ",") {
			continue
		}
		parts := strings.Split(l, fieldSep)
		if len(parts) != 2 {
			if lenient {
				rep.Skipped = append(rep.Skipped, i+1)
				continue
			}
			return text, rep, fmt.Errorf("line %d %q: %w", i+1, strings.TrimSpace(l), ErrFieldShape)
		}
		parts[0] = strings.ToLower(parts[0])
		lines[i] = strings.Join(parts, fieldSep)
		rep.Lines++
	}
	return strings.Join(lines, "\n"), rep, nil
}
