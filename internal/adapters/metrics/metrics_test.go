package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpack/internal/adapters/metrics"
)

func TestMetrics_Observe(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest("bundle", http.StatusOK, 10*time.Millisecond)
	m.ObserveBuild("site", "built", time.Second)
	m.ObserveBuild("site", "cached", 0)
	m.ObserveProbe("http", true)
	m.ObserveProbe("s3", false)

	count, err := testutil.GatherAndCount(m.Registry(),
		"assetpack_requests_total", "assetpack_builds_total", "assetpack_probes_total")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveProbe("http", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `assetpack_probes_total{backend="http",outcome="found"} 1`)
}
