package model

import (
	"encoding/json"

	"github.com/mythribanda/ClaimWatch/internal/domain/valueobject"
)

// Defaults applied by the merge step when the scorer omits an optional field.
const (
	DefaultModelVersion      = "2.0-XAI"
	DefaultExplanationMethod = "Heuristic"
)

// ContributingFactor is one ranked feature in a verdict explanation.
type ContributingFactor struct {
	Feature    string
	Importance float64
	Impact     valueobject.ImpactTier
}

// PredictionVerdict is the scorer's output for one claim. RiskScore, Fraud and
// Probability are always present; nil optional fields mean the scorer omitted
// them. Extensions holds any keys outside the known schema.
type PredictionVerdict struct {
	RiskScore   float64
	Fraud       int
	Probability float64

	Status            *valueobject.RiskStatus
	Confidence        *float64
	Reasons           []string
	TopFactors        []ContributingFactor
	AnomalyScore      *float64
	IsAnomaly         *bool
	EnsembleVotes     map[string]float64
	ModelAgreement    *float64
	ModelVersion      *string
	ExplanationMethod *string

	Extensions map[string]json.RawMessage
}

// IsFraud reports whether the scorer flagged the claim.
func (v PredictionVerdict) IsFraud() bool { return v.Fraud == 1 }

// ScoredVerdict is a verdict with every optional field resolved.
type ScoredVerdict struct {
	RiskScore         float64
	Fraud             int
	Probability       float64
	Status            valueobject.RiskStatus
	Confidence        float64
	Reasons           []string
	TopFactors        []ContributingFactor
	AnomalyScore      float64
	IsAnomaly         bool
	EnsembleVotes     map[string]float64
	ModelAgreement    float64
	ModelVersion      string
	ExplanationMethod string
	Extensions        map[string]json.RawMessage
}

// WithDefaults resolves every optional field, substituting the documented
// default where the scorer left it out.
func (v PredictionVerdict) WithDefaults() ScoredVerdict {
	s := ScoredVerdict{
		RiskScore:         v.RiskScore,
		Fraud:             v.Fraud,
		Probability:       v.Probability,
		Status:            valueobject.RiskStatusLow,
		Reasons:           make([]string, 0),
		TopFactors:        make([]ContributingFactor, 0),
		EnsembleVotes:     make(map[string]float64),
		ModelVersion:      DefaultModelVersion,
		ExplanationMethod: DefaultExplanationMethod,
		Extensions:        make(map[string]json.RawMessage),
	}

	if v.Status != nil && !v.Status.IsZero() {
		s.Status = *v.Status
	}
	if v.Confidence != nil {
		s.Confidence = *v.Confidence
	}
	if v.Reasons != nil {
		s.Reasons = append(s.Reasons, v.Reasons...)
	}
	if v.TopFactors != nil {
		s.TopFactors = append(s.TopFactors, v.TopFactors...)
	}
	if v.AnomalyScore != nil {
		s.AnomalyScore = *v.AnomalyScore
	}
	if v.IsAnomaly != nil {
		s.IsAnomaly = *v.IsAnomaly
	}
	for k, vote := range v.EnsembleVotes {
		s.EnsembleVotes[k] = vote
	}
	if v.ModelAgreement != nil {
		s.ModelAgreement = *v.ModelAgreement
	}
	if v.ModelVersion != nil {
		s.ModelVersion = *v.ModelVersion
	}
	if v.ExplanationMethod != nil {
		s.ExplanationMethod = *v.ExplanationMethod
	}
	for k, raw := range v.Extensions {
		s.Extensions[k] = raw
	}

	return s
}
