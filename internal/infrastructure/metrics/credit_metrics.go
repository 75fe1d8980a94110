package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/coopcredit/coopcredit/internal/domain/port"
)

const meterName = "github.com/coopcredit/coopcredit/credit"

var _ port.CreditMetrics = (*CreditMetrics)(nil)

// CreditMetrics records credit application counters and the evaluation
// duration on an OpenTelemetry meter.
type CreditMetrics struct {
	submitted          metric.Int64Counter
	approved           metric.Int64Counter
	rejected           metric.Int64Counter
	evaluationFailures metric.Int64Counter
	evaluationDuration metric.Float64Histogram
}

// NewCreditMetrics registers the credit instruments on the provider's meter.
func NewCreditMetrics(provider metric.MeterProvider) (*CreditMetrics, error) {
	meter := provider.Meter(meterName)

	var (
		m   CreditMetrics
		err error
	)
	if m.submitted, err = meter.Int64Counter("credit_applications_submitted",
		metric.WithDescription("Credit applications submitted")); err != nil {
		return nil, fmt.Errorf("submitted counter: %w", err)
	}
	if m.approved, err = meter.Int64Counter("credit_applications_approved",
		metric.WithDescription("Credit applications approved")); err != nil {
		return nil, fmt.Errorf("approved counter: %w", err)
	}
	if m.rejected, err = meter.Int64Counter("credit_applications_rejected",
		metric.WithDescription("Credit applications rejected, including evaluation failures")); err != nil {
		return nil, fmt.Errorf("rejected counter: %w", err)
	}
	if m.evaluationFailures, err = meter.Int64Counter("credit_evaluation_failures",
		metric.WithDescription("Evaluations that could not be completed and were rejected")); err != nil {
		return nil, fmt.Errorf("evaluation failures counter: %w", err)
	}
	if m.evaluationDuration, err = meter.Float64Histogram("credit_evaluation_duration",
		metric.WithDescription("Time spent evaluating a credit application"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("evaluation duration histogram: %w", err)
	}
	return &m, nil
}

// ApplicationSubmitted counts one submitted application.
func (m *CreditMetrics) ApplicationSubmitted(ctx context.Context) {
	m.submitted.Add(ctx, 1)
}

// ApplicationEvaluated counts the decision and records how long it took.
func (m *CreditMetrics) ApplicationEvaluated(ctx context.Context, status string, evaluationFailure bool, elapsed time.Duration) {
	switch status {
	case "APPROVED":
		m.approved.Add(ctx, 1)
	case "REJECTED":
		m.rejected.Add(ctx, 1)
	}
	if evaluationFailure {
		m.evaluationFailures.Add(ctx, 1)
	}
	m.evaluationDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("status", status)))
}
