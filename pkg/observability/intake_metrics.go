package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/mythribanda/ClaimWatch"

// IntakeMetrics records claim intake outcomes and scorer round trips.
type IntakeMetrics struct {
	intake        metric.Int64Counter
	scorerLatency metric.Float64Histogram
}

// NewIntakeMetrics registers the intake instruments on provider.
func NewIntakeMetrics(provider metric.MeterProvider) (*IntakeMetrics, error) {
	meter := provider.Meter(meterName)

	intake, err := meter.Int64Counter("claims_intake",
		metric.WithDescription("Claim submissions by final intake state"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake counter: %w", err)
	}

	latency, err := meter.Float64Histogram("scorer_latency",
		metric.WithDescription("Round trip time of prediction requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer latency histogram: %w", err)
	}

	return &IntakeMetrics{intake: intake, scorerLatency: latency}, nil
}

// RecordIntake counts one finished submission.
func (m *IntakeMetrics) RecordIntake(ctx context.Context, outcome string) {
	m.intake.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordScorerLatency observes one scorer call.
func (m *IntakeMetrics) RecordScorerLatency(ctx context.Context, d time.Duration, ok bool) {
	m.scorerLatency.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("ok", ok)))
}
