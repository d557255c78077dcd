package compress

import (
	"context"
	"strconv"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// Minify compresses stylesheets and scripts with tdewolff/minify.
type Minify struct{}

// NewMinify creates the minify engine.
func NewMinify() *Minify { return &Minify{} }

// Name implements ports.Compressor.
func (*Minify) Name() string { return "minify" }

// Supports implements ports.Compressor.
func (*Minify) Supports(kind domain.Kind) bool {
	return kind == domain.KindStyle || kind == domain.KindScript
}

// Validate implements ports.Compressor.
func (*Minify) Validate(_ domain.Kind, options map[string]string) error {
	if err := unknownOptions(options, "precision", "keep-var-names"); err != nil {
		return err
	}
	if v, ok := options["precision"]; ok {
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			return invalidOption("precision must be a non-negative integer", "precision", v)
		}
	}
	if v, ok := options["keep-var-names"]; ok {
		if _, err := strconv.ParseBool(v); err != nil {
			return invalidOption("keep-var-names must be a boolean", "keep-var-names", v)
		}
	}
	return nil
}

// Compress implements ports.Compressor.
func (*Minify) Compress(_ context.Context, content string, kind domain.Kind, options map[string]string) (string, error) {
	precision, _ := strconv.Atoi(options["precision"])
	keepVarNames, _ := strconv.ParseBool(options["keep-var-names"])

	m := minify.New()
	m.Add(domain.KindStyle.MediaType(), &css.Minifier{Precision: precision})
	m.Add(domain.KindScript.MediaType(), &js.Minifier{KeepVarNames: keepVarNames})

	out, err := m.String(kind.MediaType(), content)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "minify failed"), "kind", kind.String())
	}
	return out, nil
}
