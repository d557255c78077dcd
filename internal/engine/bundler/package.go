package bundler

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Package orchestrates resolution, fingerprinting, building and rendering of
// one package definition.
type Package struct {
	def      domain.Package
	cfg      *domain.Config
	mode     domain.Mode
	route    *regexp.Regexp
	resolver ports.GlobResolver
	buster   ports.Buster
	combiner *Combiner
	prober   ports.RemoteProber
	verifier ports.Verifier
	logger   ports.Logger

	mu          sync.Mutex
	fingerprint string
}

// NewPackage creates a Package. Fingerprints are memoized for the lifetime of
// the Package in production mode and recomputed on every call otherwise.
func NewPackage(def domain.Package, cfg *domain.Config, mode domain.Mode, deps Deps, combiner *Combiner) *Package {
	return &Package{
		def:      def,
		cfg:      cfg,
		mode:     mode,
		route:    domain.RoutePattern(def.Path),
		resolver: deps.Resolver,
		buster:   deps.Buster,
		combiner: combiner,
		prober:   deps.Prober,
		verifier: deps.Verifier,
		logger:   deps.Logger,
	}
}

// Name returns the package name.
func (p *Package) Name() string { return p.def.Name }

// Kind returns the asset kind.
func (p *Package) Kind() domain.Kind { return p.def.Kind }

// Path returns the declared output path.
func (p *Package) Path() string { return p.def.Path }

// Mode returns the mode the package was constructed with.
func (p *Package) Mode() domain.Mode { return p.mode }

// FilesAndPaths resolves the filespecs against the live filesystem.
func (p *Package) FilesAndPaths() (*domain.FileSet, error) {
	set, err := p.resolver.Resolve(p.def.Filespecs)
	if err != nil {
		return nil, p.annotate(err)
	}
	return set, nil
}

// Fingerprint returns the fingerprint of the resolved files.
func (p *Package) Fingerprint() (string, error) {
	return p.fingerprintOf(nil)
}

// fingerprintOf returns the memoized fingerprint in production mode, otherwise
// the fingerprint of set, resolving the files when set is nil.
func (p *Package) fingerprintOf(set *domain.FileSet) (string, error) {
	if p.mode.IsProduction() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.fingerprint != "" {
			return p.fingerprint, nil
		}
	}

	if set == nil {
		var err error
		if set, err = p.FilesAndPaths(); err != nil {
			return "", err
		}
	}

	fp, err := p.buster.Fingerprint(set.Locals())
	if err != nil {
		return "", p.annotate(err)
	}

	if p.mode.IsProduction() {
		p.fingerprint = fp
	}
	return fp, nil
}

// ProductionPath returns the declared output path busted with the fingerprint.
func (p *Package) ProductionPath() (string, error) {
	fp, err := p.Fingerprint()
	if err != nil {
		return "", err
	}
	return domain.BustPath(p.def.Path, fp), nil
}

// RouteRegex matches the output path with or without a fingerprint.
func (p *Package) RouteRegex() *regexp.Regexp {
	return p.route
}

// Matches reports whether route requests this package's bundle.
func (p *Package) Matches(route string) bool {
	return p.route.MatchString(route)
}

// AlreadyBuilt reports whether the production bundle exists in the output
// directory or on the remote host. Errors of any kind mean false.
func (p *Package) AlreadyBuilt(ctx context.Context) bool {
	path, err := p.ProductionPath()
	if err != nil {
		p.debug("cannot determine production path: " + err.Error())
		return false
	}

	if p.verifier != nil {
		exists, err := p.verifier.Exists(p.cfg.OutputDir, path)
		if err != nil {
			p.debug("local check failed: " + err.Error())
		} else if exists {
			return true
		}
	}

	return p.prober != nil && p.prober.Exists(ctx, path)
}

// RenderDevelopment renders one tag per resolved file, each referencing the
// file's own busted route.
func (p *Package) RenderDevelopment(attrs map[string]string) (string, error) {
	set, err := p.FilesAndPaths()
	if err != nil {
		return "", err
	}

	tags := make([]string, 0, set.Len())
	for _, entry := range set.Entries() {
		busted, err := p.buster.Bust(entry.Route, []string{entry.Local})
		if err != nil {
			return "", p.annotate(err)
		}
		tags = append(tags, Tag(p.def.Kind, busted, attrs))
	}
	return strings.Join(tags, "\n"), nil
}

// RenderProduction renders one tag referencing the host-prefixed production path.
func (p *Package) RenderProduction(attrs map[string]string) (string, error) {
	path, err := p.ProductionPath()
	if err != nil {
		return "", err
	}
	return Tag(p.def.Kind, p.cfg.Host+path, attrs), nil
}

// Render renders the markup for the package's mode.
func (p *Package) Render(attrs map[string]string) (string, error) {
	if p.mode.IsProduction() {
		return p.RenderProduction(attrs)
	}
	return p.RenderDevelopment(attrs)
}

// Build combines and minifies the resolved files. Writing the artifact is
// left to the caller.
func (p *Package) Build(ctx context.Context) (*domain.Artifact, error) {
	set, err := p.FilesAndPaths()
	if err != nil {
		return nil, err
	}

	fp, err := p.fingerprintOf(set)
	if err != nil {
		return nil, err
	}

	combined, err := p.combiner.Combine(ctx, set, p.def.Kind)
	if err != nil {
		return nil, p.annotate(zerr.Wrap(err, "failed to combine package"))
	}

	minified, err := p.combiner.Minify(ctx, combined, p.def.Kind)
	if err != nil {
		return nil, p.annotate(zerr.Wrap(err, "failed to minify package"))
	}

	return &domain.Artifact{
		Package:     p.def.Name,
		Kind:        p.def.Kind,
		Fingerprint: fp,
		Path:        domain.BustPath(p.def.Path, fp),
		Content:     []byte(minified),
	}, nil
}

// CacheKey identifies the package in external caches. Development keys change
// with every fingerprint change; production keys are stable.
func (p *Package) CacheKey() (string, error) {
	key := p.def.Name + "." + p.def.Kind.String()
	if p.mode.IsProduction() {
		return key, nil
	}
	fp, err := p.Fingerprint()
	if err != nil {
		return "", err
	}
	return key + "/" + fp, nil
}

func (p *Package) annotate(err error) error {
	return zerr.With(zerr.With(err, "package", p.def.Name), "kind", p.def.Kind.String())
}

func (p *Package) debug(msg string) {
	if p.logger != nil {
		p.logger.Debug(p.def.Name + ": " + msg)
	}
}
