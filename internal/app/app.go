// Package app implements the application layer for assetpack.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"go.trai.ch/assetpack/internal/adapters/cas"
	"go.trai.ch/assetpack/internal/adapters/config"
	"go.trai.ch/assetpack/internal/adapters/css"
	"go.trai.ch/assetpack/internal/adapters/fs"
	"go.trai.ch/assetpack/internal/adapters/metrics"
	"go.trai.ch/assetpack/internal/adapters/probe"
	"go.trai.ch/assetpack/internal/adapters/server"
	"go.trai.ch/assetpack/internal/adapters/source"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/assetpack/internal/engine/bundler"
	"go.trai.ch/assetpack/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Adapters are the configuration independent collaborators of the App.
type Adapters struct {
	Loader    ports.ConfigLoader
	Logger    ports.Logger
	Tracer    ports.Tracer
	Telemetry ports.Telemetry
	Scheduler *scheduler.Scheduler
	Engines   bundler.EngineResolver
	Walker    *fs.Walker
	Verifier  ports.Verifier
	Writer    *fs.Writer
	Fetcher   ports.SourceFetcher
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Settings are the global command line settings.
type Settings struct {
	// ConfigPath is a configuration file or a directory to search from.
	ConfigPath string
	// Env overrides the configured mode when set.
	Env     string
	Verbose bool
}

// App represents the main application logic.
type App struct {
	adapters Adapters
	settings Settings
	mode     domain.Mode
	out      io.Writer
}

// New creates a new App instance.
func New(adapters Adapters) *App {
	return &App{adapters: adapters, out: os.Stdout}
}

// WithOutput redirects command output. This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Configure applies the global settings.
func (a *App) Configure(s Settings) error {
	a.settings = s
	a.mode = ""
	if s.Env != "" {
		mode, err := config.ParseMode(s.Env)
		if err != nil {
			return err
		}
		a.mode = mode
	}
	if v, ok := a.adapters.Logger.(interface{ SetVerbose(bool) }); ok {
		v.SetVerbose(s.Verbose)
	}
	return nil
}

// Close flushes the progress recording.
func (a *App) Close() error {
	if a.adapters.Telemetry == nil {
		return nil
	}
	return a.adapters.Telemetry.Close()
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	Force       bool
	Parallelism int
}

// Build builds the named packages, or every package when names is empty.
func (a *App) Build(ctx context.Context, names []string, opts BuildOptions) error {
	ctx, span := a.adapters.Tracer.Start(ctx, "assetpack.command.build")
	defer span.End()

	ws, err := a.open(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	results, err := a.build(ctx, ws, names, opts)
	a.printResults(results)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (a *App) build(ctx context.Context, ws *workspace, names []string, opts BuildOptions) ([]scheduler.Result, error) {
	packages, err := ws.packages.Select(names)
	if err != nil {
		return nil, err
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	targets := make([]scheduler.Target, 0, len(packages))
	for _, p := range packages {
		targets = append(targets, p)
	}

	return a.adapters.Scheduler.Build(ctx, targets, scheduler.Options{
		OutputDir:   ws.cfg.OutputDir,
		Force:       opts.Force,
		Parallelism: parallelism,
		Writer:      a.adapters.Writer,
		Store:       ws.store,
	})
}

func (a *App) printResults(results []scheduler.Result) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, r := range results {
		switch r.Status {
		case domain.BuildStatusFailed:
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Package, r.Status, "-")
		default:
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Package, r.Status, r.Path)
		}
	}
	_ = tw.Flush()
}

// Render writes the markup of the named package for the current mode.
func (a *App) Render(ctx context.Context, name string, attrs map[string]string) error {
	ctx, span := a.adapters.Tracer.Start(ctx, "assetpack.command.render")
	defer span.End()

	ws, err := a.open(ctx)
	if err != nil {
		return err
	}

	pkg, err := ws.packages.Get(name)
	if err != nil {
		return err
	}

	html, err := pkg.Render(attrs)
	if err != nil {
		span.RecordError(err)
		return err
	}
	_, _ = fmt.Fprintln(a.out, html)
	return nil
}

// Status writes the fingerprint, production path and build state of every package.
func (a *App) Status(ctx context.Context) error {
	ctx, span := a.adapters.Tracer.Start(ctx, "assetpack.command.status")
	defer span.End()

	ws, err := a.open(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PACKAGE\tKIND\tPATH\tSTATE\tLAST BUILD")
	for _, pkg := range ws.packages.Packages() {
		path, err := pkg.ProductionPath()
		if err != nil {
			a.adapters.Logger.Error(err)
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t-\n", pkg.Name(), pkg.Kind(), pkg.Path(), "error")
			continue
		}

		state := "missing"
		if pkg.AlreadyBuilt(ctx) {
			state = "built"
		}

		last := "-"
		if info, _ := ws.store.Get(pkg.Name()); info != nil {
			last = fmt.Sprintf("%s (%d bytes)", info.Timestamp.Format("2006-01-02 15:04:05"), info.Size)
			if info.Path != path {
				last += " stale"
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", pkg.Name(), pkg.Kind(), path, state, last)
	}
	return tw.Flush()
}

// Serve runs the development server on addr until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string) error {
	ws, err := a.open(ctx)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Config:    ws.cfg,
		Packages:  ws.packages,
		Scheduler: a.adapters.Scheduler,
		Resolver:  ws.resolver,
		Fetcher:   a.adapters.Fetcher,
		Rewriter:  ws.sourceRewriter,
		Writer:    a.adapters.Writer,
		Store:     ws.store,
		Metrics:   a.adapters.Metrics,
		Logger:    a.adapters.Logger,
	})
	return srv.ListenAndServe(ctx, addr)
}

// Publish builds the named packages where needed and uploads them to the
// configured bucket.
func (a *App) Publish(ctx context.Context, names []string) error {
	ctx, span := a.adapters.Tracer.Start(ctx, "assetpack.command.publish")
	defer span.End()

	ws, err := a.open(ctx)
	if err != nil {
		return err
	}
	if ws.publisher == nil {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "publishing requires a remote bucket"), "field", "remote.bucket")
	}

	packages, err := ws.packages.Select(names)
	if err != nil {
		return err
	}

	var errs []error
	for _, pkg := range packages {
		if err := a.publish(ctx, ws, pkg); err != nil {
			span.RecordError(err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (a *App) publish(ctx context.Context, ws *workspace, pkg *bundler.Package) error {
	path, err := pkg.ProductionPath()
	if err != nil {
		return err
	}

	var content []byte
	local := filepath.Join(ws.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if data, err := os.ReadFile(local); err == nil {
		content = data
	} else {
		artifact, err := pkg.Build(ctx)
		if err != nil {
			return err
		}
		if _, err := a.adapters.Writer.Write(ws.cfg.OutputDir, artifact.Path, artifact.Content); err != nil {
			return err
		}
		path, content = artifact.Path, artifact.Content
	}

	uploaded, err := ws.publisher.Put(ctx, path, content, pkg.Kind().MediaType())
	if err != nil {
		return zerr.With(err, "package", pkg.Name())
	}
	if uploaded {
		a.adapters.Logger.Info(fmt.Sprintf("%s: uploaded %s", pkg.Name(), path))
	} else {
		a.adapters.Logger.Info(fmt.Sprintf("%s: %s already published", pkg.Name(), path))
	}
	return nil
}

// Clean removes the bundles recorded in the build manifest and the manifest itself.
func (a *App) Clean(ctx context.Context) error {
	ws, err := a.open(ctx)
	if err != nil {
		return err
	}

	var errs error
	for _, info := range ws.store.All() {
		p := filepath.Join(ws.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(info.Path, "/")))
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove bundle"), "path", p))
			continue
		}
		a.adapters.Logger.Info("removed " + info.Path)
	}

	manifest := cas.ManifestPath(ws.cfg.OutputDir)
	if err := os.RemoveAll(filepath.Dir(manifest)); err != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove build manifest"), "path", manifest))
	}
	return errs
}

// workspace holds the collaborators built from one loaded configuration.
type workspace struct {
	cfg      *domain.Config
	mode     domain.Mode
	resolver *fs.Resolver
	packages *bundler.Set
	store    *cas.Store
	// sourceRewriter rewrites stylesheets served one by one. It carries the
	// host in production only.
	sourceRewriter *css.Rewriter
	publisher      ports.Publisher
}

func (a *App) open(ctx context.Context) (*workspace, error) {
	cwd := a.settings.ConfigPath
	if cwd == "" {
		cwd = "."
	}
	cfg, err := a.adapters.Loader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	mode := cfg.Mode
	if a.mode != "" {
		mode = a.mode
	}

	resolver := fs.NewResolver(a.adapters.Walker, cfg.Mounts, cfg.Ignore, cfg.Strict)
	buster := fs.NewBuster(cfg.Fingerprint)

	host := ""
	if mode.IsProduction() {
		host = cfg.Host
	}

	ws := &workspace{
		cfg:            cfg,
		mode:           mode,
		resolver:       resolver,
		sourceRewriter: css.NewRewriter(resolver, buster, host),
	}

	fetcher := a.adapters.Fetcher
	var rewriter bundler.StyleRewriter = ws.sourceRewriter
	if cfg.Source != "" {
		// Sources fetched from a running server arrive busted; only the host is missing
		// when that server runs in development.
		fetcher = source.NewHTTP(cfg.Source, 0)
		rewriter = css.NewHostPrefixer(host)
	}

	var observer probe.Observer
	if a.adapters.Metrics != nil {
		observer = a.adapters.Metrics
	}

	var probers []ports.RemoteProber
	if cfg.Host != "" {
		probers = append(probers, probe.NewHTTPProber(cfg.Host, cfg.ProbeTimeout, a.adapters.Logger, observer))
	}
	if cfg.Remote != nil && cfg.Remote.Bucket != "" {
		s3, err := probe.NewS3Store(ctx, *cfg.Remote, cfg.ProbeTimeout, a.adapters.Logger, observer)
		if err != nil {
			return nil, err
		}
		probers = append(probers, s3)
		ws.publisher = s3
	}
	var prober ports.RemoteProber
	if len(probers) > 0 {
		prober = probe.NewComposite(probers...)
	}

	store, err := cas.NewStore(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	ws.store = store

	set, err := bundler.NewSet(cfg, mode, bundler.Deps{
		Resolver: resolver,
		Buster:   buster,
		Fetcher:  fetcher,
		Rewriter: rewriter,
		Engines:  a.adapters.Engines,
		Prober:   prober,
		Verifier: a.adapters.Verifier,
		Logger:   a.adapters.Logger,
	})
	if err != nil {
		return nil, err
	}
	ws.packages = set

	return ws, nil
}
