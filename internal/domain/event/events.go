package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/mythribanda/ClaimWatch/pkg/events"
)

const (
	// AggregateTypeClaim is the aggregate type carried by every claim event.
	AggregateTypeClaim = "Claim"

	// EventTypeClaimScored is emitted once a scored claim has been stored.
	EventTypeClaimScored = "claimwatch.claim.scored"

	// EventTypeHighRiskClaimDetected is emitted for High Risk and Critical verdicts.
	EventTypeHighRiskClaimDetected = "claimwatch.claim.high_risk_detected"
)

// ClaimScored is published after a claim and its verdict were persisted.
type ClaimScored struct {
	events.BaseEvent
	ClaimID      uuid.UUID `json:"claim_id"`
	PolicyNumber float64   `json:"policy_number"`
	RiskScore    float64   `json:"risk_score"`
	Fraud        int       `json:"fraud"`
	Probability  float64   `json:"probability"`
	Status       string    `json:"status"`
	ModelVersion string    `json:"model_version"`
	ScoredAt     time.Time `json:"scored_at"`
}

// NewClaimScored builds a ClaimScored event.
func NewClaimScored(
	claimID uuid.UUID,
	policyNumber, riskScore float64,
	fraud int,
	probability float64,
	status, modelVersion string,
	scoredAt time.Time,
) ClaimScored {
	return ClaimScored{
		BaseEvent:    events.NewBaseEvent(EventTypeClaimScored, claimID, AggregateTypeClaim),
		ClaimID:      claimID,
		PolicyNumber: policyNumber,
		RiskScore:    riskScore,
		Fraud:        fraud,
		Probability:  probability,
		Status:       status,
		ModelVersion: modelVersion,
		ScoredAt:     scoredAt,
	}
}

// HighRiskClaimDetected is published when a verdict lands in High Risk or
// Critical, so investigators can pick the claim up.
type HighRiskClaimDetected struct {
	events.BaseEvent
	ClaimID      uuid.UUID `json:"claim_id"`
	PolicyNumber float64   `json:"policy_number"`
	RiskScore    float64   `json:"risk_score"`
	Status       string    `json:"status"`
	Reasons      []string  `json:"reasons"`
	DetectedAt   time.Time `json:"detected_at"`
}

// NewHighRiskClaimDetected builds a HighRiskClaimDetected event.
func NewHighRiskClaimDetected(
	claimID uuid.UUID,
	policyNumber, riskScore float64,
	status string,
	reasons []string,
	detectedAt time.Time,
) HighRiskClaimDetected {
	return HighRiskClaimDetected{
		BaseEvent:    events.NewBaseEvent(EventTypeHighRiskClaimDetected, claimID, AggregateTypeClaim),
		ClaimID:      claimID,
		PolicyNumber: policyNumber,
		RiskScore:    riskScore,
		Status:       status,
		Reasons:      reasons,
		DetectedAt:   detectedAt,
	}
}
