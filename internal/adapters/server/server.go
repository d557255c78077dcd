// Package server implements the development HTTP server for packages and their sources.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/assetpack/internal/adapters/css"
	"go.trai.ch/assetpack/internal/adapters/metrics"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/assetpack/internal/engine/bundler"   //nolint:depguard // The server hosts the engine
	"go.trai.ch/assetpack/internal/engine/scheduler" //nolint:depguard // The server hosts the engine
	"go.trai.ch/zerr"
)

const (
	// MarkupPrefix is the route prefix of the package markup endpoint.
	MarkupPrefix = "/_assetpack/packages"
	// StatusPath reports the build state of every package.
	StatusPath = "/_assetpack/status"

	immutableCache = "public, max-age=31536000"
	shutdownGrace  = 5 * time.Second
)

// Options are the collaborators of a Server.
type Options struct {
	Config    *domain.Config
	Packages  *bundler.Set
	Scheduler *scheduler.Scheduler
	Resolver  ports.GlobResolver
	Fetcher   ports.SourceFetcher
	// Rewriter rewrites served stylesheets; nil serves them verbatim.
	Rewriter bundler.StyleRewriter
	Writer   scheduler.ArtifactWriter
	Store    ports.BuildInfoStore
	// Metrics is optional; when set, /metrics is served.
	Metrics *metrics.Metrics
	Logger  ports.Logger
}

// Server serves package bundles, source files and rendered markup.
type Server struct {
	opts   Options
	router chi.Router
}

// New creates a Server with all routes configured.
func New(opts Options) *Server {
	s := &Server{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get(MarkupPrefix+"/{name}", s.handleMarkup)
	r.Get(StatusPath, s.handleStatus)
	r.Get("/*", s.handleAsset)

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.opts.Logger.Info("serving assets on " + addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "failed to shut down server")
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "server failed"), "addr", addr)
	}
}

func (s *Server) handleMarkup(w http.ResponseWriter, r *http.Request) {
	pkg, err := s.opts.Packages.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}

	attrs := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			attrs[k] = v[0]
		}
	}

	html, err := pkg.Render(attrs)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintln(w, html)
}

// PackageStatus is one entry of the status endpoint.
type PackageStatus struct {
	Name  string             `json:"name"`
	Kind  string             `json:"kind"`
	Path  string             `json:"path"`
	State domain.BuildStatus `json:"state"`
	Done  bool               `json:"done"`
}

// handleStatus lists the packages with the state of their last build in this
// process. The state query parameter filters by state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("state")

	statuses := make([]PackageStatus, 0, len(s.opts.Packages.Names()))
	for _, pkg := range s.opts.Packages.Packages() {
		state := s.opts.Scheduler.Status(pkg.Name())
		if filter != "" && state != domain.NormalizeBuildStatus(filter) {
			continue
		}
		path, err := pkg.ProductionPath()
		if err != nil {
			s.fail(w, err)
			return
		}
		statuses = append(statuses, PackageStatus{
			Name:  pkg.Name(),
			Kind:  pkg.Kind().String(),
			Path:  path,
			State: state,
			Done:  state.IsTerminal(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		s.opts.Logger.Error(zerr.Wrap(err, "failed to encode status"))
	}
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Path
	if pkg, ok := s.opts.Packages.Match(route); ok {
		s.serveBundle(w, r, pkg, route)
		return
	}
	s.serveSource(w, r, route)
}

func (s *Server) serveBundle(w http.ResponseWriter, r *http.Request, pkg *bundler.Package, route string) {
	content, err := s.bundle(r.Context(), pkg)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", pkg.Kind().MediaType()+"; charset=utf-8")
	if _, _, busted := domain.UnbustPath(route); busted {
		w.Header().Set("Cache-Control", immutableCache)
	}
	_, _ = w.Write(content)
}

// bundle returns the current bundle of pkg, building it when the output
// directory does not hold it yet.
func (s *Server) bundle(ctx context.Context, pkg *bundler.Package) ([]byte, error) {
	path, err := pkg.ProductionPath()
	if err != nil {
		return nil, err
	}

	local := filepath.Join(s.opts.Config.OutputDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if data, err := os.ReadFile(local); err == nil {
		return data, nil
	}

	res, err := s.opts.Scheduler.Ensure(ctx, pkg, scheduler.Options{
		OutputDir: s.opts.Config.OutputDir,
		Force:     true,
		Writer:    s.opts.Writer,
		Store:     s.opts.Store,
	})
	if err != nil {
		return nil, err
	}
	if res.Artifact != nil {
		return res.Artifact.Content, nil
	}
	data, err := os.ReadFile(res.LocalPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err), "failed to read bundle"), "path", res.LocalPath)
	}
	return data, nil
}

func (s *Server) serveSource(w http.ResponseWriter, r *http.Request, route string) {
	lookup, busted := route, false
	local, ok := s.opts.Resolver.LocalFileFor(route)
	if !ok {
		if unbusted, _, isBusted := domain.UnbustPath(route); isBusted {
			local, ok = s.opts.Resolver.LocalFileFor(unbusted)
			lookup, busted = unbusted, true
		}
	}
	if !ok || s.opts.Resolver.Ignored(lookup) {
		http.NotFound(w, r)
		return
	}

	data, err := s.opts.Fetcher.Fetch(r.Context(), domain.Entry{Route: lookup, Local: local})
	if err != nil {
		s.fail(w, err)
		return
	}

	contentType := css.MimeType(lookup)
	if strings.HasPrefix(contentType, "text/css") && s.opts.Rewriter != nil {
		rewritten, err := s.opts.Rewriter.Rewrite(string(data), lookup)
		if err != nil {
			s.fail(w, err)
			return
		}
		data = []byte(rewritten)
	}

	w.Header().Set("Content-Type", contentType)
	if busted {
		w.Header().Set("Cache-Control", immutableCache)
	}
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrPackageNotFound) {
		status = http.StatusNotFound
	}
	s.opts.Logger.Error(err)
	http.Error(w, http.StatusText(status), status)
}

// logRequests logs every request and records it in the request metrics.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.opts.Logger.Info(fmt.Sprintf("%s %s %d %s [%s]",
			r.Method, r.URL.Path, status, elapsed.Round(time.Microsecond), middleware.GetReqID(r.Context())))
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObserveRequest(s.routeKind(r.URL.Path), status, elapsed)
		}
	})
}

func (s *Server) routeKind(route string) string {
	switch {
	case route == "/metrics":
		return "metrics"
	case route == StatusPath:
		return "status"
	case strings.HasPrefix(route, MarkupPrefix+"/"):
		return "markup"
	}
	if _, ok := s.opts.Packages.Match(route); ok {
		return "bundle"
	}
	return "source"
}
