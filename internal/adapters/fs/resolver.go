package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GlobResolver = (*Resolver)(nil)

// Resolver expands route glob patterns against the configured mounts.
type Resolver struct {
	walker *Walker
	mounts []domain.Mount
	ignore []string
	strict bool
	open   func(dir string) iofs.FS
}

// NewResolver creates a Resolver over mounts. Mount sources must be absolute.
func NewResolver(walker *Walker, mounts []domain.Mount, ignore []string, strict bool) *Resolver {
	normalized := make([]domain.Mount, 0, len(mounts))
	for _, m := range mounts {
		normalized = append(normalized, domain.Mount{Route: normalizeRoute(m.Route), From: m.From})
	}
	return &Resolver{walker: walker, mounts: normalized, ignore: ignore, strict: strict, open: os.DirFS}
}

// WithFS replaces how mount sources are opened for globbing.
func (r *Resolver) WithFS(open func(dir string) iofs.FS) *Resolver {
	r.open = open
	return r
}

// Resolve expands specs in order into a deduplicated file set. Within one
// pattern matches are ordered lexically; across patterns the first
// occurrence of a route wins.
func (r *Resolver) Resolve(specs []string) (*domain.FileSet, error) {
	set := domain.NewFileSet()

	for _, spec := range specs {
		pattern := normalizeRoute(spec)
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidFilespec, err.Error()), "filespec", spec)
		}

		matched := 0
		for _, m := range r.mounts {
			rest, ok := mountRemainder(m.Route, pattern)
			if !ok {
				continue
			}

			matches, err := r.glob(m.From, rest)
			if err != nil {
				return nil, zerr.With(err, "filespec", spec)
			}

			for _, rel := range matches {
				route := joinRoute(m.Route, rel)
				if r.Ignored(route) {
					continue
				}
				matched++
				set.Add(route, filepath.Join(m.From, filepath.FromSlash(rel)))
			}
		}

		if matched == 0 && r.strict {
			return nil, zerr.With(zerr.Wrap(domain.ErrNoMatches, "strict mode"), "filespec", spec)
		}
	}

	return set, nil
}

// LocalFileFor maps a route to the regular file serving it.
func (r *Resolver) LocalFileFor(route string) (string, bool) {
	route = path.Clean(normalizeRoute(route))
	for _, m := range r.mounts {
		rest, ok := mountRemainder(m.Route, route)
		if !ok || rest == "" {
			continue
		}
		local := filepath.Join(m.From, filepath.FromSlash(rest))
		info, err := os.Stat(local)
		if err == nil && info.Mode().IsRegular() {
			return local, true
		}
	}
	return "", false
}

// Ignored reports whether any segment of route matches an ignore pattern.
func (r *Resolver) Ignored(route string) bool {
	for _, segment := range strings.Split(route, "/") {
		if segment == "" {
			continue
		}
		if r.walker.ignored(segment, r.ignore) {
			return true
		}
	}
	return false
}

func (r *Resolver) glob(dir, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}

	segments := strings.Split(pattern, "/")
	descend := func(rel string) bool {
		return canContain(segments, strings.Split(rel, "/"))
	}

	var files []string
	for rel, err := range r.walker.WalkFS(r.open(dir), r.ignore, descend) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err), "failed to resolve filespec"), "dir", dir)
		}
		if matchSegments(segments, strings.Split(rel, "/")) {
			files = append(files, rel)
		}
	}
	return files, nil
}

// canContain reports whether files below dir can match pattern.
func canContain(pattern, dir []string) bool {
	for i, segment := range dir {
		if i >= len(pattern) || pattern[i] == "**" {
			return i < len(pattern)
		}
		if ok, _ := path.Match(pattern[i], segment); !ok {
			return false
		}
	}
	return len(dir) < len(pattern)
}

// matchSegments matches path segments against pattern segments where a
// "**" segment matches zero or more whole segments.
func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}

func normalizeRoute(route string) string {
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}

// mountRemainder returns the part of route below mount, without a leading slash.
func mountRemainder(mount, route string) (string, bool) {
	mount = strings.TrimSuffix(mount, "/")
	if mount == "" {
		return strings.TrimPrefix(route, "/"), true
	}
	if route == mount {
		return "", true
	}
	if strings.HasPrefix(route, mount+"/") {
		return route[len(mount)+1:], true
	}
	return "", false
}

func joinRoute(mount, rel string) string {
	return path.Join("/", mount, rel)
}
