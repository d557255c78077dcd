// Package bundler resolves, fingerprints, combines and renders asset packages.
package bundler

import (
	"context"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// StyleRewriter rewrites url() references of one stylesheet served at base.
type StyleRewriter interface {
	Rewrite(stylesheet, base string) (string, error)
}

// Engine is a compressor bound to its configured options.
type Engine struct {
	Compressor ports.Compressor
	Options    map[string]string
}

// Combiner concatenates the files of a package and minifies the result.
type Combiner struct {
	fetcher  ports.SourceFetcher
	rewriter StyleRewriter
	engines  map[domain.Kind]Engine
}

// NewCombiner creates a Combiner. A nil rewriter leaves stylesheets untouched,
// which is the case when sources are fetched already rewritten.
func NewCombiner(fetcher ports.SourceFetcher, rewriter StyleRewriter, engines map[domain.Kind]Engine) *Combiner {
	return &Combiner{fetcher: fetcher, rewriter: rewriter, engines: engines}
}

// Combine reads every entry of files in order, rewrites stylesheets and joins
// the results with newlines.
func (c *Combiner) Combine(ctx context.Context, files *domain.FileSet, kind domain.Kind) (string, error) {
	parts := make([]string, 0, files.Len())
	for _, entry := range files.Entries() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		data, err := c.fetcher.Fetch(ctx, entry)
		if err != nil {
			return "", err
		}

		content := string(data)
		if kind == domain.KindStyle && c.rewriter != nil {
			content, err = c.rewriter.Rewrite(content, entry.Route)
			if err != nil {
				return "", zerr.With(err, "route", entry.Route)
			}
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n"), nil
}

// Minify runs content through the engine configured for kind.
func (c *Combiner) Minify(ctx context.Context, content string, kind domain.Kind) (string, error) {
	engine, ok := c.engines[kind]
	if !ok || engine.Compressor == nil {
		return content, nil
	}
	out, err := engine.Compressor.Compress(ctx, content, kind, engine.Options)
	if err != nil {
		return "", zerr.With(err, "engine", engine.Compressor.Name())
	}
	return out, nil
}
