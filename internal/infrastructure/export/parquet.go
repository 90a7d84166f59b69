package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
)

// batchSize is the number of rows handed to the parquet writer at once.
const batchSize = 512

// ClaimRow is one stored claim flattened for columnar analysis. The full
// canonical claim is kept as JSON next to the columns analysts filter on.
type ClaimRow struct {
	ID                string    `parquet:"id"`
	CreatedAt         time.Time `parquet:"created_at"`
	PolicyNumber      float64   `parquet:"policy_number"`
	PolicyState       string    `parquet:"policy_state,dict"`
	IncidentDate      string    `parquet:"incident_date"`
	IncidentType      string    `parquet:"incident_type,dict"`
	IncidentSeverity  string    `parquet:"incident_severity,dict"`
	TotalClaimAmount  float64   `parquet:"total_claim_amount"`
	RiskScore         float64   `parquet:"risk_score"`
	Fraud             int32     `parquet:"fraud"`
	Probability       float64   `parquet:"probability"`
	Status            string    `parquet:"status,dict"`
	Confidence        float64   `parquet:"confidence"`
	IsAnomaly         bool      `parquet:"is_anomaly"`
	ModelVersion      string    `parquet:"model_version,dict"`
	ExplanationMethod string    `parquet:"explanation_method,dict"`
	Reasons           string    `parquet:"reasons"`
	Claim             string    `parquet:"claim_json"`
}

// NewClaimRow flattens a persisted claim.
func NewClaimRow(pc *model.PersistedClaim) (ClaimRow, error) {
	claim := pc.Claim()
	v := pc.Verdict()

	claimJSON, err := json.Marshal(claim)
	if err != nil {
		return ClaimRow{}, fmt.Errorf("failed to encode claim %s: %w", pc.ID(), err)
	}

	return ClaimRow{
		ID:                pc.ID().String(),
		CreatedAt:         pc.CreatedAt(),
		PolicyNumber:      claim.PolicyNumber.Float(),
		PolicyState:       claim.PolicyState,
		IncidentDate:      claim.IncidentDate.String(),
		IncidentType:      claim.IncidentType,
		IncidentSeverity:  claim.IncidentSeverity,
		TotalClaimAmount:  claim.TotalClaimAmount.Float(),
		RiskScore:         v.RiskScore,
		Fraud:             int32(v.Fraud),
		Probability:       v.Probability,
		Status:            v.Status.String(),
		Confidence:        v.Confidence,
		IsAnomaly:         v.IsAnomaly,
		ModelVersion:      v.ModelVersion,
		ExplanationMethod: v.ExplanationMethod,
		Reasons:           strings.Join(v.Reasons, "; "),
		Claim:             string(claimJSON),
	}, nil
}

// WriteClaims writes claims to w as a single parquet file.
func WriteClaims(w io.Writer, claims []*model.PersistedClaim) error {
	writer := parquet.NewGenericWriter[ClaimRow](w)

	batch := make([]ClaimRow, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.Write(batch); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for _, pc := range claims {
		row, err := NewClaimRow(pc)
		if err != nil {
			return err
		}
		batch = append(batch, row)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// Exporter dumps the claim history as parquet.
type Exporter struct {
	repo   port.ClaimRepository
	logger *slog.Logger
}

// NewExporter creates a new history exporter.
func NewExporter(repo port.ClaimRepository, logger *slog.Logger) *Exporter {
	return &Exporter{repo: repo, logger: logger}
}

// Export writes every stored claim, newest first, and returns the row count.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	claims, err := e.repo.FindAllByRecency(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list claims: %w", err)
	}
	if err := WriteClaims(w, claims); err != nil {
		return 0, err
	}

	e.logger.InfoContext(ctx, "claims exported", slog.Int("rows", len(claims)))
	return len(claims), nil
}
