package port

import (
	"context"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/pkg/events"
)

// ClaimRepository is the append-only persistence port for scored claims.
// Implementations return *model.PersistenceError on failure.
type ClaimRepository interface {
	// Insert durably appends a new claim.
	Insert(ctx context.Context, claim *model.PersistedClaim) error

	// FindAllByRecency returns every stored claim, newest first. An empty
	// store yields an empty slice, not an error.
	FindAllByRecency(ctx context.Context) ([]*model.PersistedClaim, error)
}

// PredictionClient sends a canonical claim to the fraud scorer.
type PredictionClient interface {
	// Predict returns the scorer's verdict or model.ErrPredictionUnavailable.
	Predict(ctx context.Context, claim model.CanonicalClaim) (model.PredictionVerdict, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
