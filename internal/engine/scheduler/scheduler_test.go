package scheduler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/adapters/fs"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/assetpack/internal/core/ports/mocks"
	"go.trai.ch/assetpack/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fakeTarget struct {
	name    string
	kind    domain.Kind
	path    string
	fp      string
	built   bool
	err     error
	content string
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeTarget) Name() string                    { return f.name }
func (f *fakeTarget) Kind() domain.Kind               { return f.kind }
func (f *fakeTarget) Fingerprint() (string, error)    { return f.fp, nil }
func (f *fakeTarget) ProductionPath() (string, error) { return domain.BustPath(f.path, f.fp), nil }
func (f *fakeTarget) CacheKey() (string, error)       { return f.name + "." + f.kind.String(), nil }
func (f *fakeTarget) AlreadyBuilt(context.Context) bool {
	return f.built
}

func (f *fakeTarget) Build(context.Context) (*domain.Artifact, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Artifact{
		Package:     f.name,
		Kind:        f.kind,
		Fingerprint: f.fp,
		Path:        domain.BustPath(f.path, f.fp),
		Content:     []byte(f.content),
	}, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]string
}

func (r *recordingObserver) ObserveBuild(pkg, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]string)
	}
	r.outcomes[pkg] = outcome
}

func newScheduler(t *testing.T, ctrl *gomock.Controller, observer scheduler.Observer) *scheduler.Scheduler {
	t.Helper()

	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	tracer.EXPECT().Start(gomock.Any(), "assetpack.build", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()

	progress := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	progress.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).AnyTimes()
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	return scheduler.NewScheduler(tracer, progress, logger, observer)
}

func TestScheduler_Build_WritesAndRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	out := t.TempDir()
	observer := &recordingObserver{}
	s := newScheduler(t, ctrl, observer)
	store := mocks.NewMockBuildInfoStore(ctrl)

	app := &fakeTarget{name: "app", kind: domain.KindStyle, path: "/css/app.css", fp: "abc123", content: "body{}"}

	store.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.BuildInfo) error {
		assert.Equal(t, "app", info.Package)
		assert.Equal(t, "abc123", info.Fingerprint)
		assert.Equal(t, "/css/app.abc123.css", info.Path)
		assert.Equal(t, 6, info.Size)
		assert.Len(t, info.OutputHash, 16)
		return nil
	})

	results, err := s.Build(context.Background(), []scheduler.Target{app}, scheduler.Options{
		OutputDir:   out,
		Parallelism: 2,
		Writer:      fs.NewWriter(),
		Store:       store,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.BuildStatusBuilt, results[0].Status)
	assert.Equal(t, "/css/app.abc123.css", results[0].Path)

	data, err := os.ReadFile(filepath.Join(out, "css", "app.abc123.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))

	assert.Equal(t, domain.BuildStatusBuilt, s.Status("app"))
	assert.Equal(t, "built", observer.outcomes["app"])
}

func TestScheduler_Build_SkipsAlreadyBuilt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newScheduler(t, ctrl, nil)
	app := &fakeTarget{name: "app", kind: domain.KindScript, path: "/js/app.js", fp: "f00", built: true}

	results, err := s.Build(context.Background(), []scheduler.Target{app}, scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.BuildStatusCached, results[0].Status)
	assert.Equal(t, "/js/app.f00.js", results[0].Path)
	assert.Zero(t, app.calls.Load())
}

func TestScheduler_Build_ForceRebuilds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newScheduler(t, ctrl, nil)
	app := &fakeTarget{name: "app", kind: domain.KindScript, path: "/js/app.js", fp: "f00", built: true, content: "x"}

	results, err := s.Build(context.Background(), []scheduler.Target{app}, scheduler.Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, domain.BuildStatusBuilt, results[0].Status)
	assert.Equal(t, int32(1), app.calls.Load())
}

func TestScheduler_Build_FailureDoesNotCancelSiblings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	observer := &recordingObserver{}
	s := newScheduler(t, ctrl, observer)

	readErr := errors.Join(domain.ErrUnreadableSource, errors.New("permission denied"))
	bad := &fakeTarget{name: "bad", kind: domain.KindStyle, path: "/css/bad.css", fp: "1", err: readErr}
	good := &fakeTarget{name: "good", kind: domain.KindScript, path: "/js/good.js", fp: "2", content: "ok"}

	results, err := s.Build(context.Background(), []scheduler.Target{bad, good}, scheduler.Options{Parallelism: 1})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	require.ErrorIs(t, err, domain.ErrUnreadableSource)

	assert.Equal(t, domain.BuildStatusFailed, results[0].Status)
	assert.Equal(t, domain.BuildStatusBuilt, results[1].Status)
	assert.Equal(t, int32(1), good.calls.Load())

	statuses := s.GetStatusMap()
	assert.Equal(t, domain.BuildStatusFailed, statuses["bad"])
	assert.Equal(t, domain.BuildStatusBuilt, statuses["good"])
	assert.Equal(t, "failed", observer.outcomes["bad"])
}

func TestScheduler_Build_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newScheduler(t, ctrl, nil)
	store := mocks.NewMockBuildInfoStore(ctrl)
	store.EXPECT().Put(gomock.Any()).Return(errors.New("disk full"))

	app := &fakeTarget{name: "app", kind: domain.KindStyle, path: "/css/app.css", fp: "1", content: "a"}
	results, err := s.Build(context.Background(), []scheduler.Target{app}, scheduler.Options{Store: store})
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Equal(t, domain.BuildStatusFailed, results[0].Status)
}

func TestScheduler_Ensure_SharesConcurrentBuilds(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s := newScheduler(t, ctrl, nil)
		app := &fakeTarget{
			name:    "app",
			kind:    domain.KindScript,
			path:    "/js/app.js",
			fp:      "beef",
			content: "let a;",
			delay:   time.Second,
		}

		var wg sync.WaitGroup
		results := make([]scheduler.Result, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := s.Ensure(context.Background(), app, scheduler.Options{Force: true})
				assert.NoError(t, err)
				results[i] = r
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), app.calls.Load())
		for _, r := range results {
			assert.Equal(t, "/js/app.beef.js", r.Path)
		}
	})
}

func TestScheduler_Ensure_RebuildsAfterFingerprintChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newScheduler(t, ctrl, nil)
	app := &fakeTarget{name: "app", kind: domain.KindScript, path: "/js/app.js", fp: "1", content: "a"}

	_, err := s.Ensure(context.Background(), app, scheduler.Options{Force: true})
	require.NoError(t, err)

	app.fp = "2"
	r, err := s.Ensure(context.Background(), app, scheduler.Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "/js/app.2.js", r.Path)
	assert.Equal(t, int32(2), app.calls.Load())
}

func TestScheduler_Status_DefaultsToPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newScheduler(t, ctrl, nil)
	assert.Equal(t, domain.BuildStatusPending, s.Status("unknown"))
}
