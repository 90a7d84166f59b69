package observability_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythribanda/ClaimWatch/pkg/observability"
)

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestIntakeMetrics(t *testing.T) {
	m, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "claimwatch"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	intake, err := observability.NewIntakeMetrics(m.Provider)
	require.NoError(t, err)

	ctx := context.Background()
	intake.RecordIntake(ctx, "persisted")
	intake.RecordIntake(ctx, "persisted")
	intake.RecordIntake(ctx, "rejected")
	intake.RecordScorerLatency(ctx, 120*time.Millisecond, true)

	body := scrape(t, m)
	assert.Contains(t, body, "claimwatch_claims_intake_total")
	assert.Contains(t, body, `outcome="persisted"`)
	assert.Contains(t, body, `outcome="rejected"`)
	assert.Contains(t, body, "claimwatch_scorer_latency_seconds_bucket")
}

func TestInitMetrics_SeparateRegistries(t *testing.T) {
	a, err := observability.InitMetrics(observability.MetricsConfig{})
	require.NoError(t, err)
	b, err := observability.InitMetrics(observability.MetricsConfig{GoCollectors: true})
	require.NoError(t, err)

	assert.NotSame(t, a.Registry, b.Registry)
	assert.Contains(t, scrape(t, b), "go_goroutines")
	assert.NotContains(t, scrape(t, a), "go_goroutines")
}

func TestHTTPMetrics_Instrument(t *testing.T) {
	m, err := observability.InitMetrics(observability.MetricsConfig{})
	require.NoError(t, err)
	httpMetrics := observability.NewHTTPMetrics(m.Registry)

	h := httpMetrics.Instrument("predict", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/predict", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{handler="predict",method="POST",status="201"} 1`)
	assert.Contains(t, body, "http_request_duration_seconds_count")
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := &observability.StatusRecorder{ResponseWriter: httptest.NewRecorder(), Status: http.StatusOK}

	_, _ = rec.Write([]byte("ok"))
	rec.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusOK, rec.Status)
}
