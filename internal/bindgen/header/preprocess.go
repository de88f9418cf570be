// Package header rewrites the LAPACK C header before it is handed to bindgen.
//
// Two things are changed: the lapack_int width macro becomes a plain typedef
// so bindgen emits a type alias, and the Fortran string-length directive is
// removed so prototypes are generated without trailing length parameters.
package header

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Alia5/lapackbind/internal/bindgen/rewrite"
)

// StrlenDirective is the directive enabling trailing Fortran string-length
// parameters in lapack.h.
const StrlenDirective = "#define LAPACK_FORTRAN_STRLEN_END"

// Width is the bit width of lapack_int.
type Width string

const (
	WidthAuto Width = "auto"
	Width32   Width = "32"
	Width64   Width = "64"
)

// CType returns the C fixed-width type for w.
func (w Width) CType() string {
	if w == Width64 {
		return "int64_t"
	}
	return "int32_t"
}

// ParseWidth accepts "auto", "32", "64" and the C type names.
func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return WidthAuto, nil
	case "32", "int32_t":
		return Width32, nil
	case "64", "int64_t", "ilp64":
		return Width64, nil
	default:
		return "", fmt.Errorf("invalid lapack_int width %q (expected auto, 32 or 64)", s)
	}
}

var (
	ErrNoIntWidth        = errors.New("header defines no lapack_int width macro")
	ErrAmbiguousIntWidth = errors.New("header defines both 32 and 64 bit lapack_int; select a width explicitly (the stock lapack.h needs --int-width 32)")
)

const widthRuleName = "lapack_int width define"

var (
	widthDefine = regexp.MustCompile(`(?m)^([ \t]*)#define[ \t]+lapack_int[ \t]+(int32_t|int64_t)\b`)
	strlenRule  = rewrite.Regexp("fortran strlen directive", regexp.QuoteMeta(StrlenDirective)+`\b`, "", rewrite.Any)
)

// Options controls preprocessing.
type Options struct {
	Width Width
}

// Report describes what the preprocessor found and changed.
type Report struct {
	Defines32       int
	Defines64       int
	Width           Width
	StrlenDirective int
}

// Preprocess rewrites header text. It fails when the width macro is missing,
// or when both widths are defined and opts.Width is auto.
func Preprocess(text string, opts Options) (string, Report, error) {
	var rep Report
	for _, m := range widthDefine.FindAllStringSubmatch(text, -1) {
		if m[2] == "int64_t" {
			rep.Defines64++
		} else {
			rep.Defines32++
		}
	}

	width := opts.Width
	if width == "" {
		width = WidthAuto
	}
	switch {
	case rep.Defines32+rep.Defines64 == 0:
		return text, rep, ErrNoIntWidth
	case width == WidthAuto && rep.Defines32 > 0 && rep.Defines64 > 0:
		return text, rep, ErrAmbiguousIntWidth
	}

	repl := "${1}typedef ${2} lapack_int;"
	rep.Width = width
	switch {
	case width != WidthAuto:
		repl = "${1}typedef " + width.CType() + " lapack_int;"
	case rep.Defines64 > 0:
		rep.Width = Width64
	default:
		rep.Width = Width32
	}

	out, counts, err := rewrite.ApplyAll(text,
		rewrite.Rule{Name: widthRuleName, Pattern: widthDefine, Replacement: repl, Expect: rewrite.AtLeastOnce},
		strlenRule,
	)
	if err != nil {
		return text, rep, err
	}
	rep.StrlenDirective = counts.Get(strlenRule.Name)
	return out, rep, nil
}
