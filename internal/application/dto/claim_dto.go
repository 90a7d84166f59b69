package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
)

// SubmitClaimRequest is the input DTO for the SubmitClaim use case.
type SubmitClaimRequest struct {
	Claim model.ClaimRequest
}

// FactorResponse is one ranked contributing factor.
type FactorResponse struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Impact     string  `json:"impact"`
}

// VerdictResponse is the defaulted verdict returned to callers. Keys the
// scorer sent outside the known schema are carried in Extensions and written
// alongside the known keys.
type VerdictResponse struct {
	EnsembleVotes     map[string]float64         `json:"ensemble_votes"`
	Extensions        map[string]json.RawMessage `json:"-"`
	Status            string                     `json:"status"`
	ModelVersion      string                     `json:"model_version"`
	ExplanationMethod string                     `json:"explanation_method"`
	Reasons           []string                   `json:"reasons"`
	TopFactors        []FactorResponse           `json:"top_contributing_factors"`
	RiskScore         float64                    `json:"riskScore"`
	Probability       float64                    `json:"probability"`
	Confidence        float64                    `json:"confidence"`
	AnomalyScore      float64                    `json:"anomaly_score"`
	ModelAgreement    float64                    `json:"model_agreement"`
	Fraud             int                        `json:"fraud"`
	IsAnomaly         bool                       `json:"is_anomaly"`
}

// verdictFields aliases VerdictResponse without its MarshalJSON method.
type verdictFields VerdictResponse

// MarshalJSON writes the known verdict keys plus any extensions. A known key
// always wins over an extension of the same name.
func (v VerdictResponse) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(verdictFields(v))
	if err != nil {
		return nil, err
	}
	if len(v.Extensions) == 0 {
		return known, nil
	}

	out := make(map[string]json.RawMessage, len(v.Extensions)+14)
	for k, raw := range v.Extensions {
		out[k] = raw
	}
	if err := json.Unmarshal(known, &out); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the known keys and keeps everything else in Extensions.
func (v *VerdictResponse) UnmarshalJSON(b []byte) error {
	var fields verdictFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range verdictKeys {
		delete(all, k)
	}
	*v = VerdictResponse(fields)
	if len(all) > 0 {
		v.Extensions = all
	}
	return nil
}

var verdictKeys = []string{
	"riskScore", "fraud", "probability", "status", "confidence", "reasons",
	"top_contributing_factors", "anomaly_score", "is_anomaly", "ensemble_votes",
	"model_agreement", "model_version", "explanation_method",
}

// ClaimResponse is one stored claim: the canonical fields, the defaulted
// verdict, the identifier and the creation time, flattened into one object.
type ClaimResponse struct {
	CreatedAt time.Time
	Claim     model.CanonicalClaim
	Verdict   VerdictResponse
	ID        uuid.UUID
}

// MarshalJSON flattens the claim fields and the verdict into one object keyed
// the way the web client reads it. Extensions named like a claim field or an
// identity key are dropped so stored values are never shadowed.
func (c ClaimResponse) MarshalJSON() ([]byte, error) {
	verdict := c.Verdict
	verdict.Extensions = withoutRecordKeys(verdict.Extensions)

	out := make(map[string]json.RawMessage, 60)
	if err := mergeInto(out, verdict); err != nil {
		return nil, err
	}
	if err := mergeInto(out, c.Claim); err != nil {
		return nil, err
	}

	id, _ := json.Marshal(c.ID.String())
	created, _ := json.Marshal(c.CreatedAt.UTC().Format(time.RFC3339Nano))
	out["_id"] = id
	out["id"] = id
	out["createdAt"] = created
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *ClaimResponse) UnmarshalJSON(b []byte) error {
	var meta struct {
		CreatedAt time.Time `json:"createdAt"`
		ID        uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return err
	}
	var claim model.CanonicalClaim
	if err := json.Unmarshal(b, &claim); err != nil {
		return err
	}
	var verdict VerdictResponse
	if err := json.Unmarshal(b, &verdict); err != nil {
		return err
	}
	verdict.Extensions = withoutRecordKeys(verdict.Extensions)

	*c = ClaimResponse{CreatedAt: meta.CreatedAt, Claim: claim, Verdict: verdict, ID: meta.ID}
	return nil
}

func withoutRecordKeys(ext map[string]json.RawMessage) map[string]json.RawMessage {
	var out map[string]json.RawMessage
	for k, raw := range ext {
		if model.IsRecordKey(k) {
			continue
		}
		if out == nil {
			out = make(map[string]json.RawMessage, len(ext))
		}
		out[k] = raw
	}
	return out
}

func mergeInto(dst map[string]json.RawMessage, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode claim response: %w", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("failed to flatten claim response: %w", err)
	}
	for k, raw := range m {
		dst[k] = raw
	}
	return nil
}

// VerdictFromModel maps a resolved verdict to its response DTO.
func VerdictFromModel(v model.ScoredVerdict) VerdictResponse {
	factors := make([]FactorResponse, 0, len(v.TopFactors))
	for _, f := range v.TopFactors {
		factors = append(factors, FactorResponse{
			Feature:    f.Feature,
			Importance: f.Importance,
			Impact:     f.Impact.String(),
		})
	}

	reasons := make([]string, len(v.Reasons))
	copy(reasons, v.Reasons)

	votes := make(map[string]float64, len(v.EnsembleVotes))
	for k, vote := range v.EnsembleVotes {
		votes[k] = vote
	}

	var ext map[string]json.RawMessage
	if len(v.Extensions) > 0 {
		ext = make(map[string]json.RawMessage, len(v.Extensions))
		for k, raw := range v.Extensions {
			ext[k] = raw
		}
	}

	return VerdictResponse{
		RiskScore:         v.RiskScore,
		Fraud:             v.Fraud,
		Probability:       v.Probability,
		Status:            v.Status.String(),
		Confidence:        v.Confidence,
		Reasons:           reasons,
		TopFactors:        factors,
		AnomalyScore:      v.AnomalyScore,
		IsAnomaly:         v.IsAnomaly,
		EnsembleVotes:     votes,
		ModelAgreement:    v.ModelAgreement,
		ModelVersion:      v.ModelVersion,
		ExplanationMethod: v.ExplanationMethod,
		Extensions:        ext,
	}
}

// FromModel maps a persisted claim to the response DTO.
func FromModel(p *model.PersistedClaim) ClaimResponse {
	return ClaimResponse{
		ID:        p.ID(),
		CreatedAt: p.CreatedAt(),
		Claim:     p.Claim(),
		Verdict:   VerdictFromModel(p.Verdict()),
	}
}

// FromModels maps a slice of persisted claims, preserving order. The result
// is never nil.
func FromModels(claims []*model.PersistedClaim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(claims))
	for _, c := range claims {
		out = append(out, FromModel(c))
	}
	return out
}
