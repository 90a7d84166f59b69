package ml

import (
	"context"
	"log/slog"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
	"github.com/mythribanda/ClaimWatch/internal/domain/service"
)

// Compile-time interface check.
var _ port.PredictionClient = (*HeuristicClient)(nil)

// HeuristicClient implements port.PredictionClient in-process with the
// rule-based scorer, for running without a model deployment.
type HeuristicClient struct {
	scorer *service.HeuristicScorer
	logger *slog.Logger
}

// NewHeuristicClient creates a new in-process heuristic client.
func NewHeuristicClient(scorer *service.HeuristicScorer, logger *slog.Logger) *HeuristicClient {
	return &HeuristicClient{scorer: scorer, logger: logger}
}

// Predict scores the claim locally. It only fails if ctx is already done.
func (c *HeuristicClient) Predict(ctx context.Context, claim model.CanonicalClaim) (model.PredictionVerdict, error) {
	if err := ctx.Err(); err != nil {
		c.logger.ErrorContext(ctx, "Error calling ML API", slog.String("error", err.Error()))
		return model.PredictionVerdict{}, model.ErrPredictionUnavailable
	}

	v := c.scorer.Score(claim)
	c.logger.DebugContext(ctx, "heuristic prediction",
		slog.Float64("risk_score", v.RiskScore),
		slog.Int("fraud", v.Fraud),
	)
	return v, nil
}
