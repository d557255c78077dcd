package compress

import (
	"context"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/zerr"
)

var esbuildTargets = map[string]api.Target{
	"esnext": api.ESNext,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

var esbuildLegalComments = map[string]api.LegalComments{
	"none":   api.LegalCommentsNone,
	"inline": api.LegalCommentsInline,
	"eof":    api.LegalCommentsEndOfFile,
}

// Esbuild compresses stylesheets and scripts with the esbuild transform API.
type Esbuild struct{}

// NewEsbuild creates the esbuild engine.
func NewEsbuild() *Esbuild { return &Esbuild{} }

// Name implements ports.Compressor.
func (*Esbuild) Name() string { return "esbuild" }

// Supports implements ports.Compressor.
func (*Esbuild) Supports(kind domain.Kind) bool {
	return kind == domain.KindStyle || kind == domain.KindScript
}

// Validate implements ports.Compressor.
func (*Esbuild) Validate(_ domain.Kind, options map[string]string) error {
	if err := unknownOptions(options, "target", "keep-names", "legal-comments"); err != nil {
		return err
	}
	if v, ok := options["target"]; ok {
		if _, known := esbuildTargets[strings.ToLower(v)]; !known {
			return invalidOption("unknown esbuild target", "target", v)
		}
	}
	if v, ok := options["keep-names"]; ok {
		if _, err := strconv.ParseBool(v); err != nil {
			return invalidOption("keep-names must be a boolean", "keep-names", v)
		}
	}
	if v, ok := options["legal-comments"]; ok {
		if _, known := esbuildLegalComments[strings.ToLower(v)]; !known {
			return invalidOption("unknown legal-comments mode", "legal-comments", v)
		}
	}
	return nil
}

// Compress implements ports.Compressor.
func (*Esbuild) Compress(_ context.Context, content string, kind domain.Kind, options map[string]string) (string, error) {
	opts := api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	}
	if kind == domain.KindStyle {
		opts.Loader = api.LoaderCSS
	}
	if t, ok := esbuildTargets[strings.ToLower(options["target"])]; ok {
		opts.Target = t
	}
	if keep, err := strconv.ParseBool(options["keep-names"]); err == nil {
		opts.KeepNames = keep
	}
	if lc, ok := esbuildLegalComments[strings.ToLower(options["legal-comments"])]; ok {
		opts.LegalComments = lc
	}

	result := api.Transform(content, opts)
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return "", zerr.With(zerr.With(zerr.New("esbuild transform failed"), "kind", kind.String()), "errors", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}
