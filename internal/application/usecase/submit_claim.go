package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mythribanda/ClaimWatch/internal/application/dto"
	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
	"github.com/mythribanda/ClaimWatch/internal/domain/service"
	"github.com/mythribanda/ClaimWatch/internal/domain/valueobject"
)

// IntakeRecorder counts finished submissions by outcome.
type IntakeRecorder interface {
	RecordIntake(ctx context.Context, outcome string)
}

// SubmitClaimConfig tunes the intake pipeline.
type SubmitClaimConfig struct {
	// RelaxedDurability returns the verdict even when the store write fails.
	RelaxedDurability bool
	ScorerTimeout     time.Duration
	StoreTimeout      time.Duration
}

// SubmitClaim is the intake use case: normalize, score, store.
type SubmitClaim struct {
	normalizer *service.Normalizer
	scorer     port.PredictionClient
	repo       port.ClaimRepository
	publisher  port.EventPublisher
	metrics    IntakeRecorder
	logger     *slog.Logger
	now        func() time.Time
	cfg        SubmitClaimConfig
}

// NewSubmitClaim creates a new SubmitClaim use case. publisher and metrics may be nil.
func NewSubmitClaim(
	normalizer *service.Normalizer,
	scorer port.PredictionClient,
	repo port.ClaimRepository,
	publisher port.EventPublisher,
	metrics IntakeRecorder,
	logger *slog.Logger,
	cfg SubmitClaimConfig,
) *SubmitClaim {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitClaim{
		normalizer: normalizer,
		scorer:     scorer,
		repo:       repo,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// intakeRun tracks one submission through the intake states.
type intakeRun struct {
	logger *slog.Logger
	policy any
	state  valueobject.IntakeState
}

func (r *intakeRun) step(next valueobject.IntakeState) {
	state, err := r.state.TransitionTo(next)
	if err != nil {
		r.logger.Error("intake state machine violated", "policy_number", r.policy, "error", err)
	}
	r.state = state
}

// Execute runs one claim through the pipeline. On success the verdict is
// returned only after the claim has been stored, unless relaxed durability
// is configured.
func (uc *SubmitClaim) Execute(ctx context.Context, req dto.SubmitClaimRequest) (dto.VerdictResponse, error) {
	run := &intakeRun{
		logger: uc.logger,
		policy: req.Claim["policy_number"],
		state:  valueobject.IntakeValidating,
	}

	// 1. Validate and coerce.
	claim, err := uc.normalizer.Normalize(req.Claim)
	if err != nil {
		uc.finish(ctx, run, valueobject.IntakeRejected)
		return dto.VerdictResponse{}, fmt.Errorf("failed to normalize claim: %w", err)
	}
	run.step(valueobject.IntakeNormalized)
	run.policy = claim.PolicyNumber.Float()

	// 2. Score. A client disconnect does not abort a started call.
	run.step(valueobject.IntakeScoring)
	scoreCtx, cancel := detached(ctx, uc.cfg.ScorerTimeout)
	verdict, err := uc.scorer.Predict(scoreCtx, claim)
	cancel()
	if err != nil {
		uc.finish(ctx, run, valueobject.IntakeScoringFailed)
		return dto.VerdictResponse{}, fmt.Errorf("failed to score claim: %w", err)
	}
	run.step(valueobject.IntakeScored)

	// 3. Merge and store.
	persisted := model.MergeClaim(claim, verdict, uc.now())
	resp := dto.VerdictFromModel(persisted.Verdict())

	storeCtx, cancel := detached(ctx, uc.cfg.StoreTimeout)
	err = uc.repo.Insert(storeCtx, persisted)
	cancel()
	if err != nil {
		uc.finish(ctx, run, valueobject.IntakePersistFailed)
		if uc.cfg.RelaxedDurability {
			uc.logger.Warn("claim scored but not stored",
				"policy_number", run.policy,
				"claim_id", persisted.ID(),
				"error", err,
			)
			return resp, nil
		}
		return dto.VerdictResponse{}, fmt.Errorf("failed to save claim: %w", err)
	}
	uc.finish(ctx, run, valueobject.IntakePersisted)

	// 4. Publish domain events. Delivery is best effort.
	uc.publish(ctx, persisted)

	return resp, nil
}

func (uc *SubmitClaim) finish(ctx context.Context, run *intakeRun, terminal valueobject.IntakeState) {
	run.step(terminal)
	uc.logger.Debug("claim intake finished",
		"policy_number", run.policy,
		"state", run.state.String(),
	)
	if uc.metrics != nil {
		uc.metrics.RecordIntake(ctx, strings.ToLower(run.state.String()))
	}
}

func (uc *SubmitClaim) publish(ctx context.Context, claim *model.PersistedClaim) {
	evts := claim.DomainEvents()
	if uc.publisher == nil || len(evts) == 0 {
		return
	}

	pubCtx, cancel := detached(ctx, uc.cfg.StoreTimeout)
	defer cancel()
	if err := uc.publisher.Publish(pubCtx, evts...); err != nil {
		uc.logger.Warn("failed to publish claim events",
			"claim_id", claim.ID(),
			"count", len(evts),
			"error", err,
		)
	}
}

// detached returns a context that keeps ctx's values but not its
// cancellation, bounded by timeout when one is set.
func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, timeout)
}
