package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
	"github.com/mythribanda/ClaimWatch/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.PredictionClient = (*HTTPPredictionClient)(nil)

// maxVerdictBytes bounds how much of a scorer response is read.
const maxVerdictBytes = 1 << 20

// LatencyRecorder observes scorer round trips.
type LatencyRecorder interface {
	RecordScorerLatency(ctx context.Context, d time.Duration, ok bool)
}

// HTTPPredictionClient implements port.PredictionClient against the external
// scoring service. Every failure collapses into model.ErrPredictionUnavailable;
// the cause is only logged.
type HTTPPredictionClient struct {
	client  *http.Client
	logger  *slog.Logger
	metrics LatencyRecorder
	url     string
}

// NewHTTPPredictionClient creates a client that POSTs claims to url with the
// given per-request timeout. metrics may be nil.
func NewHTTPPredictionClient(url string, timeout time.Duration, logger *slog.Logger, metrics LatencyRecorder) *HTTPPredictionClient {
	return &HTTPPredictionClient{
		url:     url,
		logger:  logger,
		metrics: metrics,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends one canonical claim and returns the decoded verdict.
func (c *HTTPPredictionClient) Predict(ctx context.Context, claim model.CanonicalClaim) (model.PredictionVerdict, error) {
	start := time.Now()
	verdict, err := c.predict(ctx, claim)
	if c.metrics != nil {
		c.metrics.RecordScorerLatency(ctx, time.Since(start), err == nil)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "Error calling ML API",
			slog.String("url", c.url),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return model.PredictionVerdict{}, model.ErrPredictionUnavailable
	}
	return verdict, nil
}

func (c *HTTPPredictionClient) predict(ctx context.Context, claim model.CanonicalClaim) (model.PredictionVerdict, error) {
	payload, err := json.Marshal(claim)
	if err != nil {
		return model.PredictionVerdict{}, fmt.Errorf("failed to encode claim: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return model.PredictionVerdict{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.PredictionVerdict{}, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerdictBytes))
	if err != nil {
		return model.PredictionVerdict{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.PredictionVerdict{}, fmt.Errorf("scorer error (status %d): %s", resp.StatusCode, truncate(body, 256))
	}

	return decodeVerdict(body)
}

// wireFactor is one entry of top_contributing_factors as the scorer sends it.
type wireFactor struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Impact     string  `json:"impact"`
}

// wireVerdict is the scorer's response body. Pointers distinguish an absent
// key from a zero value.
type wireVerdict struct {
	RiskScore         *float64           `json:"riskScore"`
	Fraud             *float64           `json:"fraud"`
	Probability       *float64           `json:"probability"`
	Status            *string            `json:"status"`
	Confidence        *float64           `json:"confidence"`
	Reasons           []string           `json:"reasons"`
	TopFactors        []wireFactor       `json:"top_contributing_factors"`
	AnomalyScore      *float64           `json:"anomaly_score"`
	IsAnomaly         *bool              `json:"is_anomaly"`
	EnsembleVotes     map[string]float64 `json:"ensemble_votes"`
	ModelAgreement    *float64           `json:"model_agreement"`
	ModelVersion      *string            `json:"model_version"`
	ExplanationMethod *string            `json:"explanation_method"`
}

var knownVerdictKeys = map[string]struct{}{
	"riskScore": {}, "fraud": {}, "probability": {}, "status": {},
	"confidence": {}, "reasons": {}, "top_contributing_factors": {},
	"anomaly_score": {}, "is_anomaly": {}, "ensemble_votes": {},
	"model_agreement": {}, "model_version": {}, "explanation_method": {},
}

// decodeVerdict parses and checks a scorer response. A missing or out of
// range mandatory field, an unknown status or an unknown impact tier makes
// the whole verdict unusable. A factor without an impact is tiered by its
// importance. Unknown keys that collide with claim fields are discarded.
func decodeVerdict(body []byte) (model.PredictionVerdict, error) {
	var w wireVerdict
	if err := json.Unmarshal(body, &w); err != nil {
		return model.PredictionVerdict{}, fmt.Errorf("failed to parse response: %w", err)
	}

	switch {
	case w.RiskScore == nil:
		return model.PredictionVerdict{}, errors.New("verdict missing riskScore")
	case w.Fraud == nil:
		return model.PredictionVerdict{}, errors.New("verdict missing fraud")
	case w.Probability == nil:
		return model.PredictionVerdict{}, errors.New("verdict missing probability")
	}
	if *w.RiskScore < 0 || *w.RiskScore > 100 {
		return model.PredictionVerdict{}, fmt.Errorf("riskScore %v out of range", *w.RiskScore)
	}
	if *w.Fraud != 0 && *w.Fraud != 1 {
		return model.PredictionVerdict{}, fmt.Errorf("fraud %v is not 0 or 1", *w.Fraud)
	}
	if *w.Probability < 0 || *w.Probability > 1 {
		return model.PredictionVerdict{}, fmt.Errorf("probability %v out of range", *w.Probability)
	}

	v := model.PredictionVerdict{
		RiskScore:         *w.RiskScore,
		Fraud:             int(*w.Fraud),
		Probability:       *w.Probability,
		Confidence:        w.Confidence,
		Reasons:           w.Reasons,
		AnomalyScore:      w.AnomalyScore,
		IsAnomaly:         w.IsAnomaly,
		EnsembleVotes:     w.EnsembleVotes,
		ModelAgreement:    w.ModelAgreement,
		ModelVersion:      w.ModelVersion,
		ExplanationMethod: w.ExplanationMethod,
	}

	// An empty status counts as absent and takes the default.
	if w.Status != nil && *w.Status != "" {
		status, err := valueobject.RiskStatusFromString(*w.Status)
		if err != nil {
			return model.PredictionVerdict{}, err
		}
		v.Status = &status
	}

	if w.TopFactors != nil {
		v.TopFactors = make([]model.ContributingFactor, 0, len(w.TopFactors))
		for _, f := range w.TopFactors {
			impact := valueobject.ImpactTierFromImportance(f.Importance)
			if f.Impact != "" {
				var err error
				if impact, err = valueobject.ImpactTierFromString(f.Impact); err != nil {
					return model.PredictionVerdict{}, fmt.Errorf("factor %q: %w", f.Feature, err)
				}
			}
			v.TopFactors = append(v.TopFactors, model.ContributingFactor{
				Feature:    f.Feature,
				Importance: f.Importance,
				Impact:     impact,
			})
		}
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(body, &all); err != nil {
		return model.PredictionVerdict{}, fmt.Errorf("failed to parse response: %w", err)
	}
	for k, raw := range all {
		if _, known := knownVerdictKeys[k]; known || model.IsRecordKey(k) {
			continue
		}
		if v.Extensions == nil {
			v.Extensions = make(map[string]json.RawMessage)
		}
		v.Extensions[k] = raw
	}

	return v, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
