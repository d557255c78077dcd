// Package scheduler builds packages concurrently and at most once per fingerprint.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Target is a buildable package.
type Target interface {
	Name() string
	Kind() domain.Kind
	Fingerprint() (string, error)
	ProductionPath() (string, error)
	CacheKey() (string, error)
	AlreadyBuilt(ctx context.Context) bool
	Build(ctx context.Context) (*domain.Artifact, error)
}

// ArtifactWriter stores built bundles below an output directory.
type ArtifactWriter interface {
	Write(root, route string, content []byte) (string, error)
}

// Observer receives build outcomes.
type Observer interface {
	ObserveBuild(pkg, outcome string, elapsed time.Duration)
}

// Options control one scheduling run.
type Options struct {
	// OutputDir receives the built bundles.
	OutputDir string
	// Force rebuilds packages that already exist.
	Force bool
	// Parallelism bounds concurrent builds; values below one mean one.
	Parallelism int
	Writer      ArtifactWriter
	Store       ports.BuildInfoStore
}

// Result is the outcome of scheduling one package.
type Result struct {
	Package   string
	Status    domain.BuildStatus
	Path      string
	LocalPath string
	Artifact  *domain.Artifact
	Duration  time.Duration
	Err       error
}

// Scheduler builds packages and records their status.
type Scheduler struct {
	tracer    ports.Tracer
	telemetry ports.Telemetry
	logger    ports.Logger
	observer  Observer

	group singleflight.Group

	mu     sync.RWMutex
	status map[string]domain.BuildStatus
}

// NewScheduler creates a new Scheduler. observer may be nil.
func NewScheduler(tracer ports.Tracer, telemetry ports.Telemetry, logger ports.Logger, observer Observer) *Scheduler {
	return &Scheduler{
		tracer:    tracer,
		telemetry: telemetry,
		logger:    logger,
		observer:  observer,
		status:    make(map[string]domain.BuildStatus),
	}
}

// Build builds targets concurrently. A failing package does not cancel its
// siblings; all failures are joined into the returned error.
func (s *Scheduler) Build(ctx context.Context, targets []Target, opts Options) ([]Result, error) {
	for _, t := range targets {
		s.updateStatus(t.Name(), domain.BuildStatusPending)
	}

	limit := opts.Parallelism
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(targets))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, t := range targets {
		g.Go(func() error {
			results[i] = s.buildOne(ctx, t, opts)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		failed := zerr.With(zerr.Wrap(domain.ErrBuildFailed, "one or more packages failed"), "failed", len(errs))
		return results, errors.Join(append([]error{failed}, errs...)...)
	}
	return results, nil
}

// Ensure builds target unless an identical build is already running, in which
// case it waits for that build and shares its result.
func (s *Scheduler) Ensure(ctx context.Context, target Target, opts Options) (Result, error) {
	key, err := target.CacheKey()
	if err != nil {
		return Result{Package: target.Name(), Status: domain.BuildStatusFailed, Err: err}, err
	}
	fp, err := target.Fingerprint()
	if err != nil {
		return Result{Package: target.Name(), Status: domain.BuildStatusFailed, Err: err}, err
	}

	v, err, _ := s.group.Do(key+"@"+fp, func() (any, error) {
		r := s.buildOne(ctx, target, opts)
		return r, r.Err
	})
	return v.(Result), err //nolint:forcetypeassert // The flight function always returns a Result
}

// Status returns the last known status of a package.
func (s *Scheduler) Status(name string) domain.BuildStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.status[name]; ok {
		return st
	}
	return domain.BuildStatusPending
}

func (s *Scheduler) updateStatus(name string, status domain.BuildStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

func (s *Scheduler) buildOne(ctx context.Context, t Target, opts Options) Result {
	name := t.Name()
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "assetpack.build",
		ports.WithAttribute("package", name),
		ports.WithAttribute("kind", t.Kind().String()),
	)
	defer span.End()

	ctx, vertex := s.telemetry.Record(ctx, name)

	if !opts.Force && t.AlreadyBuilt(ctx) {
		path, _ := t.ProductionPath()
		vertex.Cached()
		vertex.Complete(nil)
		span.SetAttribute("cached", true)
		s.finish(name, domain.BuildStatusCached, start)
		s.logger.Info(fmt.Sprintf("%s: already built at %s", name, path))
		return Result{Package: name, Status: domain.BuildStatusCached, Path: path, Duration: time.Since(start)}
	}

	artifact, local, err := s.produce(ctx, t, opts)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "package build failed"), "package", name)
		span.RecordError(err)
		vertex.Complete(err)
		s.finish(name, domain.BuildStatusFailed, start)
		return Result{Package: name, Status: domain.BuildStatusFailed, Duration: time.Since(start), Err: err}
	}

	span.SetAttribute("fingerprint", artifact.Fingerprint)
	span.SetAttribute("size", len(artifact.Content))
	vertex.Log(domain.LogLevelInfo, fmt.Sprintf("wrote %d bytes to %s", len(artifact.Content), local))
	vertex.Complete(nil)
	s.finish(name, domain.BuildStatusBuilt, start)
	s.logger.Info(fmt.Sprintf("%s: built %s", name, artifact.Path))

	return Result{
		Package:   name,
		Status:    domain.BuildStatusBuilt,
		Path:      artifact.Path,
		LocalPath: local,
		Artifact:  artifact,
		Duration:  time.Since(start),
	}
}

func (s *Scheduler) produce(ctx context.Context, t Target, opts Options) (*domain.Artifact, string, error) {
	artifact, err := t.Build(ctx)
	if err != nil {
		return nil, "", err
	}

	var local string
	if opts.Writer != nil {
		local, err = opts.Writer.Write(opts.OutputDir, artifact.Path, artifact.Content)
		if err != nil {
			return nil, "", err
		}
	}

	if opts.Store != nil {
		info := domain.BuildInfo{
			Package:     artifact.Package,
			Kind:        artifact.Kind,
			Fingerprint: artifact.Fingerprint,
			Path:        artifact.Path,
			OutputHash:  fmt.Sprintf("%016x", xxhash.Sum64(artifact.Content)),
			Size:        len(artifact.Content),
			Timestamp:   time.Now(),
		}
		if err := opts.Store.Put(info); err != nil {
			return nil, "", zerr.Wrap(err, "failed to store build info")
		}
	}

	return artifact, local, nil
}

func (s *Scheduler) finish(name string, status domain.BuildStatus, start time.Time) {
	s.updateStatus(name, status)
	if s.observer != nil {
		s.observer.ObserveBuild(name, string(status), time.Since(start))
	}
}
