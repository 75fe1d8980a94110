package port

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// ErrConcurrentUpdate is returned by Save when the stored version no longer
// matches the aggregate's version, or when a terminal application would be
// overwritten.
var ErrConcurrentUpdate = errors.New("concurrent update")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// AffiliateRepository persists and retrieves affiliates. Finders return
// model.ErrNotFound when nothing matches.
type AffiliateRepository interface {
	Save(ctx context.Context, affiliate model.Affiliate) error
	FindByID(ctx context.Context, id string) (model.Affiliate, error)
	FindByDocument(ctx context.Context, document string) (model.Affiliate, error)
	ExistsByDocument(ctx context.Context, document string) (bool, error)
	FindAll(ctx context.Context) ([]model.Affiliate, error)
}

// CreditApplicationRepository persists and retrieves credit applications
// together with their attached risk evaluation.
type CreditApplicationRepository interface {
	Save(ctx context.Context, app model.CreditApplication) error
	FindByID(ctx context.Context, id string) (model.CreditApplication, error)
	FindAll(ctx context.Context) ([]model.CreditApplication, error)
	FindByAffiliateID(ctx context.Context, affiliateID string) ([]model.CreditApplication, error)
	FindByStatus(ctx context.Context, status valueobject.ApplicationStatus) ([]model.CreditApplication, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// RiskScorer asks the risk central for a creditworthiness verdict. It is
// called at most once per evaluation and never retried.
type RiskScorer interface {
	EvaluateRisk(ctx context.Context, document string, amount decimal.Decimal, termMonths int) (model.RiskEvaluation, error)
}
