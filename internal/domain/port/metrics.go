package port

import (
	"context"
	"time"
)

// CreditMetrics records business counters for credit applications.
type CreditMetrics interface {
	ApplicationSubmitted(ctx context.Context)
	ApplicationEvaluated(ctx context.Context, status string, evaluationFailure bool, elapsed time.Duration)
}
