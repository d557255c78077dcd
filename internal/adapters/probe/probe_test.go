package probe_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/adapters/probe"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []bool
}

func (o *recordingObserver) ObserveProbe(_ string, found bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, found)
}

func TestHTTPProber_Exists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/css/site.abc.css":
			w.WriteHeader(http.StatusOK)
		case "/css/cached.abc.css":
			w.WriteHeader(http.StatusNotModified)
		case "/css/broken.abc.css":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)
	observer := &recordingObserver{}

	prober := probe.NewHTTPProber(srv.URL+"/", time.Second, logger, observer)

	assert.True(t, prober.Exists(context.Background(), "/css/site.abc.css"))
	assert.True(t, prober.Exists(context.Background(), "/css/cached.abc.css"))
	assert.False(t, prober.Exists(context.Background(), "/css/missing.abc.css"))
	assert.False(t, prober.Exists(context.Background(), "/css/broken.abc.css"))
	assert.Equal(t, []bool{true, true, false, false}, observer.outcomes)
}

func TestHTTPProber_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any())

	prober := probe.NewHTTPProber(srv.URL, 50*time.Millisecond, logger, nil)
	start := time.Now()
	assert.False(t, prober.Exists(context.Background(), "/css/site.abc.css"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPProber_Unreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any())

	prober := probe.NewHTTPProber("http://127.0.0.1:1", time.Second, logger, nil)
	assert.False(t, prober.Exists(context.Background(), "/css/site.abc.css"))
}

func TestComposite_Exists(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockRemoteProber(ctrl)
	second := mocks.NewMockRemoteProber(ctrl)

	first.EXPECT().Exists(gomock.Any(), "/a.css").Return(false)
	second.EXPECT().Exists(gomock.Any(), "/a.css").Return(true)
	assert.True(t, probe.NewComposite(first, second).Exists(context.Background(), "/a.css"))

	first.EXPECT().Exists(gomock.Any(), "/b.css").Return(true)
	assert.True(t, probe.NewComposite(first, second).Exists(context.Background(), "/b.css"))

	assert.False(t, probe.NewComposite().Exists(context.Background(), "/c.css"))
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, errors.New("NotFound")
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_PutAndExists(t *testing.T) {
	objects := newFakeObjects()
	observer := &recordingObserver{}
	store := probe.NewS3StoreWithClient(objects, domain.Remote{Bucket: "assets", Prefix: "static/"}, time.Second, nil, observer)

	assert.Equal(t, "static/css/site.abc.css", store.Key("/css/site.abc.css"))
	assert.False(t, store.Exists(context.Background(), "/css/site.abc.css"))

	uploaded, err := store.Put(context.Background(), "/css/site.abc.css", []byte("body{}"), "text/css")
	require.NoError(t, err)
	assert.True(t, uploaded)
	assert.Equal(t, "body{}", string(objects.objects["static/css/site.abc.css"]))
	assert.Equal(t, "text/css", objects.types["static/css/site.abc.css"])

	uploaded, err = store.Put(context.Background(), "/css/site.abc.css", []byte("changed"), "text/css")
	require.NoError(t, err)
	assert.False(t, uploaded, "existing objects are not overwritten")

	assert.True(t, store.Exists(context.Background(), "/css/site.abc.css"))
	assert.Equal(t, []bool{false, true}, observer.outcomes)
}

func TestS3Store_PutError(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.New("access denied")
	store := probe.NewS3StoreWithClient(objects, domain.Remote{Bucket: "assets"}, 0, nil, nil)

	_, err := store.Put(context.Background(), "/js/app.abc.js", []byte("x"), "text/javascript")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
