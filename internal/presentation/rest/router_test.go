package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythribanda/ClaimWatch/internal/application/usecase"
	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/service"
	"github.com/mythribanda/ClaimWatch/pkg/observability"
	"github.com/mythribanda/ClaimWatch/pkg/testutil"
)

// --- Mock implementations ---

type mockClaimRepository struct {
	inserted    []*model.PersistedClaim
	insertErr   error
	findAllFunc func(ctx context.Context) ([]*model.PersistedClaim, error)
}

func (m *mockClaimRepository) Insert(_ context.Context, claim *model.PersistedClaim) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, claim)
	return nil
}

func (m *mockClaimRepository) FindAllByRecency(ctx context.Context) ([]*model.PersistedClaim, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	out := make([]*model.PersistedClaim, 0, len(m.inserted))
	for i := len(m.inserted) - 1; i >= 0; i-- {
		out = append(out, m.inserted[i])
	}
	return out, nil
}

type mockPredictionClient struct {
	err error
}

func (m *mockPredictionClient) Predict(_ context.Context, claim model.CanonicalClaim) (model.PredictionVerdict, error) {
	if m.err != nil {
		return model.PredictionVerdict{}, m.err
	}
	return service.NewHeuristicScorer().Score(claim), nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// --- Helpers ---

type testServer struct {
	handler http.Handler
	repo    *mockClaimRepository
	scorer  *mockPredictionClient
	db      *mockPinger
	metrics *observability.Metrics
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		repo:   &mockClaimRepository{},
		scorer: &mockPredictionClient{},
		db:     &mockPinger{},
	}

	metrics, err := observability.InitMetrics(observability.MetricsConfig{})
	require.NoError(t, err)
	ts.metrics = metrics

	logger := testLogger()
	submit := usecase.NewSubmitClaim(
		service.NewNormalizer(service.NormalizerConfig{}),
		ts.scorer, ts.repo, nil, nil, logger,
		usecase.SubmitClaimConfig{ScorerTimeout: time.Second, StoreTimeout: time.Second},
	)
	claims := NewClaimHandler(submit, usecase.NewListClaims(ts.repo), logger)

	ts.handler = NewRouter(claims, NewHealthHandler(ts.db, logger), logger, RouterConfig{
		AllowedOrigin:  "http://localhost:5173",
		Metrics:        observability.NewHTTPMetrics(metrics.Registry),
		MetricsHandler: metrics.Handler,
	})
	return ts
}

func (ts *testServer) do(method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// --- Tests ---

func TestRoot(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fraud Detection Backend is running", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/nope", nil).Code)
}

func TestPredict(t *testing.T) {
	t.Run("valid claim returns 201 with the verdict", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ValidClaimPayload()))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(10), body["riskScore"])
		assert.Equal(t, float64(0), body["fraud"])
		assert.Equal(t, "Low Risk", body["status"])
		assert.Equal(t, "Heuristic", body["explanation_method"])
		assert.Len(t, ts.repo.inserted, 1)
	})

	t.Run("validation errors return 400 with the field", func(t *testing.T) {
		tests := []struct {
			name      string
			overrides map[string]any
			message   string
		}{
			{name: "missing field", overrides: map[string]any{"incident_city": nil}, message: "Missing required field: incident_city"},
			{name: "empty string is missing", overrides: map[string]any{"auto_make": ""}, message: "Missing required field: auto_make"},
			{name: "not a number", overrides: map[string]any{"age": "forty"}, message: "Invalid numeric value for field: age"},
			{name: "bad date", overrides: map[string]any{"incident_date": "yesterday"}, message: "Invalid date value for field: incident_date"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ts := newTestServer(t)

				rec := ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ClaimPayloadWith(tt.overrides)))

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				testutil.AssertJSONMessage(t, rec.Body.Bytes(), tt.message)
				assert.Empty(t, ts.repo.inserted)
			})
		}
	})

	t.Run("number beyond float64 range is a numeric error", func(t *testing.T) {
		ts := newTestServer(t)
		body := jsonBody(t, testutil.ClaimPayloadWith(map[string]any{"age": json.RawMessage(`1e400`)}))

		rec := ts.do(http.MethodPost, "/api/predict", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		testutil.AssertJSONMessage(t, rec.Body.Bytes(), "Invalid numeric value for field: age")
		assert.Empty(t, ts.repo.inserted)
	})

	t.Run("empty body reports the first required field", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/api/predict", strings.NewReader(""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		testutil.AssertJSONMessage(t, rec.Body.Bytes(), "Missing required field: policy_state")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		for _, body := range []string{`{"policy_state":`, `[1,2]`, `null`, `"claim"`} {
			ts := newTestServer(t)

			rec := ts.do(http.MethodPost, "/api/predict", strings.NewReader(body))

			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			testutil.AssertJSONMessage(t, rec.Body.Bytes(), "invalid JSON body")
		}
	})

	t.Run("oversized body returns 413", func(t *testing.T) {
		ts := newTestServer(t)
		big := `{"policy_state":"` + strings.Repeat("a", MaxBodyBytes) + `"}`

		rec := ts.do(http.MethodPost, "/api/predict", strings.NewReader(big))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("scorer unavailable returns 500 without the cause", func(t *testing.T) {
		ts := newTestServer(t)
		ts.scorer.err = model.ErrPredictionUnavailable

		rec := ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ValidClaimPayload()))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		testutil.AssertJSONMessage(t, rec.Body.Bytes(), "Server error while predicting fraud")
		assert.Empty(t, ts.repo.inserted)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		ts := newTestServer(t)
		ts.repo.insertErr = model.NewPersistenceError("insert", errors.New("disk full"))

		rec := ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ValidClaimPayload()))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		testutil.AssertJSONMessage(t, rec.Body.Bytes(), "Server error while predicting fraud")
		assert.NotContains(t, rec.Body.String(), "disk full")
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		ts := newTestServer(t)
		assert.Equal(t, http.StatusMethodNotAllowed, ts.do(http.MethodGet, "/api/predict", nil).Code)
	})
}

func TestListClaims(t *testing.T) {
	t.Run("empty history is an empty array", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodGet, "/api/claims", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("returns submitted claims newest first", func(t *testing.T) {
		ts := newTestServer(t)
		first := ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ValidClaimPayload()))
		require.Equal(t, http.StatusCreated, first.Code)
		second := ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ClaimPayloadWith(map[string]any{"policy_state": "IN"})))
		require.Equal(t, http.StatusCreated, second.Code)

		rec := ts.do(http.MethodGet, "/api/claims", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var claims []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
		require.Len(t, claims, 2)
		assert.Equal(t, "IN", claims[0]["policy_state"])
		assert.Equal(t, "OH", claims[1]["policy_state"])
		assert.Equal(t, float64(521585), claims[1]["policy_number"])
		assert.Contains(t, claims[0], "riskScore")
		assert.Contains(t, claims[0], "_id")
		assert.Contains(t, claims[0], "createdAt")
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		ts := newTestServer(t)
		ts.repo.findAllFunc = func(context.Context) ([]*model.PersistedClaim, error) {
			return nil, model.NewPersistenceError("list", errors.New("connection refused"))
		}

		rec := ts.do(http.MethodGet, "/api/claims", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		testutil.AssertJSONMessage(t, rec.Body.Bytes(), "Server error while fetching claims")
	})
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	t.Run("preflight is answered with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		rec := httptest.NewRecorder()

		ts.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET,POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("simple requests carry the allowed origin", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/claims", nil)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodGet, "/healthz", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "claimwatch", resp.Service)
	})

	t.Run("readyz with reachable database", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodGet, "/readyz", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
	})

	t.Run("readyz with unreachable database", func(t *testing.T) {
		ts := newTestServer(t)
		ts.db.err = errors.New("dial tcp: connection refused")

		rec := ts.do(http.MethodGet, "/readyz", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not ready", resp.Status)
		assert.Equal(t, "unreachable", resp.Checks["database"])
	})

	t.Run("readyz without database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler(nil, testLogger()).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/predict", jsonBody(t, testutil.ValidClaimPayload())).Code)

	rec := ts.do(http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{handler="predict",method="POST",status="201"} 1`)
}
