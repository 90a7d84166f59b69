package rest

import (
	"log/slog"
	"net/http"

	"github.com/mythribanda/ClaimWatch/pkg/observability"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// RouterConfig wires the optional parts of the HTTP surface.
type RouterConfig struct {
	AllowedOrigin string
	// Metrics instruments each route when set.
	Metrics *observability.HTTPMetrics
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter builds the full HTTP handler.
func NewRouter(claims *ClaimHandler, health *HealthHandler, logger *slog.Logger, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, name string, h http.HandlerFunc) {
		var handler http.Handler = h
		if cfg.Metrics != nil {
			handler = cfg.Metrics.Instrument(name, handler)
		}
		mux.Handle(pattern, handler)
	}

	route("GET /{$}", "root", claims.Root)
	route("POST /api/predict", "predict", claims.Predict)
	route("GET /api/claims", "claims", claims.ListClaims)
	route("GET /healthz", "healthz", health.Healthz)
	route("GET /readyz", "readyz", health.Readyz)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	return Chain(mux,
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigin),
		MaxBytesMiddleware(MaxBodyBytes),
	)
}
