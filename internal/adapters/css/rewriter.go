// Package css rewrites url() references inside stylesheets.
package css

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	urlPattern    = regexp.MustCompile(`(?i)url\(\s*(['"]?)([^'")]*?)(['"]?)\s*\)`)
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// Types the platform mime table may lack or report inconsistently.
var fallbackTypes = map[string]string{
	".eot":   "application/vnd.ms-fontobject",
	".otf":   "font/otf",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".gif":   "image/gif",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
}

// Rewriter replaces local url() references with busted routes or data URIs.
type Rewriter struct {
	resolver ports.GlobResolver
	buster   ports.Buster
	host     string
}

// NewRewriter creates a Rewriter. host prefixes busted references and is
// empty in development.
func NewRewriter(resolver ports.GlobResolver, buster ports.Buster, host string) *Rewriter {
	return &Rewriter{resolver: resolver, buster: buster, host: strings.TrimSuffix(host, "/")}
}

// Rewrite transforms every url() reference in stylesheet. base is the route of
// the stylesheet and anchors relative references. References that do not
// resolve to a local file are left unchanged.
func (r *Rewriter) Rewrite(stylesheet, base string) (string, error) {
	var firstErr error
	out := urlPattern.ReplaceAllStringFunc(stylesheet, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := urlPattern.FindStringSubmatch(match)
		ref := sub[2]

		replaced, err := r.rewriteRef(ref, base)
		if err != nil {
			firstErr = err
			return match
		}
		if replaced == ref {
			return match
		}
		return "url(" + sub[1] + replaced + sub[3] + ")"
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (r *Rewriter) rewriteRef(ref, base string) (string, error) {
	if ref == "" || isExternal(ref) {
		return ref, nil
	}

	rest, fragment, hasFragment := strings.Cut(ref, "#")
	p, query, hasQuery := strings.Cut(rest, "?")
	if p == "" {
		return ref, nil
	}

	route := p
	if !strings.HasPrefix(route, "/") {
		route = path.Join(path.Dir("/"+strings.TrimPrefix(base, "/")), route)
	}
	route = path.Clean(route)

	local, ok := r.resolver.LocalFileFor(route)
	if !ok {
		return ref, nil
	}

	if hasEmbed(query) {
		return DataURI(local)
	}

	busted, err := r.buster.Bust(route, []string{local})
	if err != nil {
		return "", err
	}

	out := r.host + busted
	if hasQuery {
		out += "?" + query
	}
	if hasFragment {
		out += "#" + fragment
	}
	return out, nil
}

func isExternal(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(ref, "//") ||
		schemePattern.MatchString(ref)
}

func hasEmbed(query string) bool {
	if query == "" {
		return false
	}
	for _, token := range strings.Split(query, "&") {
		key, _, _ := strings.Cut(token, "=")
		if key == "embed" {
			return true
		}
	}
	return false
}

// DataURI returns the base64 data URI for the file at local.
func DataURI(local string) (string, error) {
	data, err := os.ReadFile(local) //nolint:gosec // Path resolved through mounts
	if err != nil {
		return "", zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err), "failed to embed file"), "path", local)
	}
	return "data:" + MimeType(local) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// MimeType returns the media type for the extension of p without parameters.
func MimeType(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	if t, ok := fallbackTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mediaType, _, _ := strings.Cut(t, ";")
		return strings.TrimSpace(mediaType)
	}
	return "application/octet-stream"
}
