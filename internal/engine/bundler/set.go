package bundler

import (
	"path"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// EngineResolver validates and returns the compressor configured for a kind.
type EngineResolver interface {
	Resolve(kind domain.Kind, engine domain.Engine) (ports.Compressor, error)
}

// Deps are the collaborators shared by every package of a Set.
type Deps struct {
	Resolver ports.GlobResolver
	Buster   ports.Buster
	Fetcher  ports.SourceFetcher
	Rewriter StyleRewriter
	Engines  EngineResolver
	Prober   ports.RemoteProber
	Verifier ports.Verifier
	Logger   ports.Logger
}

// Set holds every package of a configuration.
type Set struct {
	packages map[string]*Package
	names    []string
}

// NewSet builds the packages of cfg. Compression engines and filespecs are
// validated here so configuration errors never surface at request time.
func NewSet(cfg *domain.Config, mode domain.Mode, deps Deps) (*Set, error) {
	engines := make(map[domain.Kind]Engine, 2)
	for _, kind := range []domain.Kind{domain.KindStyle, domain.KindScript} {
		engine := cfg.EngineFor(kind)
		c, err := deps.Engines.Resolve(kind, engine)
		if err != nil {
			return nil, err
		}
		engines[kind] = Engine{Compressor: c, Options: engine.Options}
	}

	combiner := NewCombiner(deps.Fetcher, deps.Rewriter, engines)

	s := &Set{packages: make(map[string]*Package, len(cfg.Packages))}
	for _, def := range cfg.Packages {
		for _, spec := range def.Filespecs {
			pattern := spec
			if !strings.HasPrefix(pattern, "/") {
				pattern = "/" + pattern
			}
			if _, err := path.Match(pattern, ""); err != nil {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidFilespec, err.Error()), "filespec", spec), "package", def.Name)
			}
		}
		if _, dup := s.packages[def.Name]; dup {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "duplicate package name"), "package", def.Name)
		}

		s.packages[def.Name] = NewPackage(def, cfg, mode, deps, combiner)
		s.names = append(s.names, def.Name)
	}

	return s, nil
}

// Get returns the package named name.
func (s *Set) Get(name string) (*Package, error) {
	p, ok := s.packages[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "unknown package"), "package", name)
	}
	return p, nil
}

// Names returns the package names in configuration order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Packages returns the packages in configuration order.
func (s *Set) Packages() []*Package {
	out := make([]*Package, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.packages[name])
	}
	return out
}

// Select returns the named packages, or all packages when names is empty.
func (s *Set) Select(names []string) ([]*Package, error) {
	if len(names) == 0 {
		return s.Packages(), nil
	}
	out := make([]*Package, 0, len(names))
	for _, name := range names {
		p, err := s.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Match returns the package whose bundle route matches route.
func (s *Set) Match(route string) (*Package, bool) {
	for _, name := range s.names {
		if p := s.packages[name]; p.Matches(route) {
			return p, true
		}
	}
	return nil, false
}
