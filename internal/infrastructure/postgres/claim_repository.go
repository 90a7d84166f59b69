package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
	"github.com/mythribanda/ClaimWatch/internal/domain/valueobject"
	pkgpostgres "github.com/mythribanda/ClaimWatch/pkg/postgres"
)

// Migrations holds the schema for the claims table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the SQL files.
const MigrationsDir = "migrations"

// Compile-time interface check.
var _ port.ClaimRepository = (*ClaimRepository)(nil)

var verdictColumns = []string{
	"risk_score", "fraud", "probability", "status", "confidence",
	"reasons", "top_factors", "anomaly_score", "is_anomaly",
	"ensemble_votes", "model_agreement", "model_version",
	"explanation_method", "extensions",
}

// claimColumns is every column in insert and select order.
var claimColumns = func() []string {
	cols := []string{"id", "created_at"}
	cols = append(cols, model.FieldNames()...)
	return append(cols, verdictColumns...)
}()

var (
	insertClaimSQL = fmt.Sprintf(
		"INSERT INTO claims (%s) VALUES (%s)",
		strings.Join(claimColumns, ", "), placeholders(len(claimColumns)),
	)
	selectClaimsSQL = fmt.Sprintf(
		"SELECT %s FROM claims ORDER BY created_at DESC, seq DESC",
		strings.Join(claimColumns, ", "),
	)
)

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}

// storedFactor is the JSONB shape of one contributing factor.
type storedFactor struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Impact     string  `json:"impact"`
}

// ClaimRepository implements port.ClaimRepository using PostgreSQL.
type ClaimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository creates a new PostgreSQL-backed claim repository.
func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// Insert appends a scored claim in its own transaction.
func (r *ClaimRepository) Insert(ctx context.Context, claim *model.PersistedClaim) error {
	args, err := insertArgs(claim)
	if err != nil {
		return model.NewPersistenceError("insert", err)
	}

	err = pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertClaimSQL, args...); err != nil {
			return fmt.Errorf("failed to insert claim: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.NewPersistenceError("insert", err)
	}
	return nil
}

// FindAllByRecency returns every stored claim, newest first.
func (r *ClaimRepository) FindAllByRecency(ctx context.Context) ([]*model.PersistedClaim, error) {
	rows, err := r.pool.Query(ctx, selectClaimsSQL)
	if err != nil {
		return nil, model.NewPersistenceError("list", fmt.Errorf("failed to query claims: %w", err))
	}
	defer rows.Close()

	claims := make([]*model.PersistedClaim, 0)
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, model.NewPersistenceError("list", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewPersistenceError("list", fmt.Errorf("failed to iterate claims: %w", err))
	}

	return claims, nil
}

func insertArgs(p *model.PersistedClaim) ([]any, error) {
	claim := p.Claim()
	v := p.Verdict()

	args := make([]any, 0, len(claimColumns))
	args = append(args, p.ID(), p.CreatedAt())
	for _, f := range model.ClaimFields {
		val, _ := claim.FieldValue(f.Name)
		args = append(args, val)
	}

	factors := make([]storedFactor, 0, len(v.TopFactors))
	for _, f := range v.TopFactors {
		factors = append(factors, storedFactor{Feature: f.Feature, Importance: f.Importance, Impact: f.Impact.String()})
	}

	reasons, err := json.Marshal(v.Reasons)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reasons: %w", err)
	}
	topFactors, err := json.Marshal(factors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode factors: %w", err)
	}
	votes, err := json.Marshal(v.EnsembleVotes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ensemble votes: %w", err)
	}
	extensions, err := json.Marshal(v.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extensions: %w", err)
	}

	return append(args,
		v.RiskScore,
		v.Fraud,
		v.Probability,
		v.Status.String(),
		v.Confidence,
		reasons,
		topFactors,
		v.AnomalyScore,
		v.IsAnomaly,
		votes,
		v.ModelAgreement,
		v.ModelVersion,
		v.ExplanationMethod,
		extensions,
	), nil
}

func scanClaim(row pgx.Row) (*model.PersistedClaim, error) {
	var (
		id         uuid.UUID
		createdAt  time.Time
		v          model.ScoredVerdict
		status     string
		reasons    []byte
		topFactors []byte
		votes      []byte
		extensions []byte
	)
	texts := make([]string, 0, len(model.ClaimFields))
	numbers := make([]float64, 0, len(model.ClaimFields))
	dates := make([]pgtype.Date, 0, len(model.ClaimFields))
	dest := make([]any, 0, len(claimColumns))

	// The backing arrays never grow, so pointers into them stay valid.
	dest = append(dest, &id, &createdAt)
	for _, f := range model.ClaimFields {
		switch f.Kind {
		case model.KindCategorical:
			texts = append(texts, "")
			dest = append(dest, &texts[len(texts)-1])
		case model.KindNumeric:
			numbers = append(numbers, 0)
			dest = append(dest, &numbers[len(numbers)-1])
		case model.KindDate:
			dates = append(dates, pgtype.Date{})
			dest = append(dest, &dates[len(dates)-1])
		}
	}
	dest = append(dest,
		&v.RiskScore, &v.Fraud, &v.Probability, &status, &v.Confidence,
		&reasons, &topFactors, &v.AnomalyScore, &v.IsAnomaly,
		&votes, &v.ModelAgreement, &v.ModelVersion,
		&v.ExplanationMethod, &extensions,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan claim: %w", err)
	}

	var claim model.CanonicalClaim
	var ti, ni, di int
	for _, f := range model.ClaimFields {
		var err error
		switch f.Kind {
		case model.KindCategorical:
			err = claim.SetText(f.Name, texts[ti])
			ti++
		case model.KindNumeric:
			err = claim.SetNumber(f.Name, model.Number(numbers[ni]))
			ni++
		case model.KindDate:
			d := model.ClaimDate{}
			if dates[di].Valid {
				d = model.ClaimDateFromTime(dates[di].Time)
			}
			err = claim.SetDate(f.Name, d)
			di++
		}
		if err != nil {
			return nil, err
		}
	}

	var err error
	if v.Status, err = valueobject.RiskStatusFromString(status); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}
	if err := json.Unmarshal(reasons, &v.Reasons); err != nil {
		return nil, fmt.Errorf("failed to decode reasons: %w", err)
	}
	if err := json.Unmarshal(votes, &v.EnsembleVotes); err != nil {
		return nil, fmt.Errorf("failed to decode ensemble votes: %w", err)
	}
	if err := json.Unmarshal(extensions, &v.Extensions); err != nil {
		return nil, fmt.Errorf("failed to decode extensions: %w", err)
	}

	var factors []storedFactor
	if err := json.Unmarshal(topFactors, &factors); err != nil {
		return nil, fmt.Errorf("failed to decode factors: %w", err)
	}
	v.TopFactors = make([]model.ContributingFactor, 0, len(factors))
	for _, f := range factors {
		impact, err := valueobject.ImpactTierFromString(f.Impact)
		if err != nil {
			return nil, fmt.Errorf("failed to parse impact: %w", err)
		}
		v.TopFactors = append(v.TopFactors, model.ContributingFactor{Feature: f.Feature, Importance: f.Importance, Impact: impact})
	}

	if v.Reasons == nil {
		v.Reasons = make([]string, 0)
	}
	if v.EnsembleVotes == nil {
		v.EnsembleVotes = make(map[string]float64)
	}
	if v.Extensions == nil {
		v.Extensions = make(map[string]json.RawMessage)
	}

	return model.Reconstruct(id, createdAt.UTC(), claim, v), nil
}
