package model

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mythribanda/ClaimWatch/internal/domain/event"
	"github.com/mythribanda/ClaimWatch/pkg/events"
)

// PersistedClaim is the aggregate root for a scored claim. It is created once
// by MergeClaim and never modified afterwards.
type PersistedClaim struct {
	events.EventCollector
	createdAt time.Time
	claim     CanonicalClaim
	verdict   ScoredVerdict
	id        uuid.UUID
}

// MergeClaim combines a canonical claim with the scorer's verdict, applying
// the optional-field defaults and assigning a fresh identity.
func MergeClaim(claim CanonicalClaim, verdict PredictionVerdict, now time.Time) *PersistedClaim {
	pc := &PersistedClaim{
		id:        uuid.New(),
		createdAt: now.UTC(),
		claim:     claim,
		verdict:   verdict.WithDefaults(),
	}

	policyNumber := finiteOrZero(claim.PolicyNumber.Float())

	pc.Raise(event.NewClaimScored(
		pc.id, policyNumber,
		pc.verdict.RiskScore, pc.verdict.Fraud, pc.verdict.Probability,
		pc.verdict.Status.String(), pc.verdict.ModelVersion,
		pc.createdAt,
	))

	if pc.verdict.Status.IsElevated() {
		pc.Raise(event.NewHighRiskClaimDetected(
			pc.id, policyNumber, pc.verdict.RiskScore,
			pc.verdict.Status.String(), pc.verdict.Reasons,
			pc.createdAt,
		))
	}

	return pc
}

// Reconstruct rebuilds a PersistedClaim from storage (no events).
func Reconstruct(id uuid.UUID, createdAt time.Time, claim CanonicalClaim, verdict ScoredVerdict) *PersistedClaim {
	return &PersistedClaim{
		id:        id,
		createdAt: createdAt,
		claim:     claim,
		verdict:   verdict,
	}
}

func (p *PersistedClaim) ID() uuid.UUID          { return p.id }
func (p *PersistedClaim) CreatedAt() time.Time   { return p.createdAt }
func (p *PersistedClaim) Claim() CanonicalClaim  { return p.claim }
func (p *PersistedClaim) Verdict() ScoredVerdict { return p.verdict }
func (p *PersistedClaim) PolicyNumber() float64  { return p.claim.PolicyNumber.Float() }
func (p *PersistedClaim) RiskScore() float64     { return p.verdict.RiskScore }
func (p *PersistedClaim) Fraud() int             { return p.verdict.Fraud }

// DomainEvents returns all accumulated domain events and clears them.
func (p *PersistedClaim) DomainEvents() []events.DomainEvent {
	return p.Drain()
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
