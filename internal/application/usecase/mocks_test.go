package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockAffiliateRepository struct {
	saveFunc             func(ctx context.Context, a model.Affiliate) error
	findByIDFunc         func(ctx context.Context, id string) (model.Affiliate, error)
	findByDocumentFunc   func(ctx context.Context, document string) (model.Affiliate, error)
	existsByDocumentFunc func(ctx context.Context, document string) (bool, error)
	findAllFunc          func(ctx context.Context) ([]model.Affiliate, error)
	saved                []model.Affiliate
}

func (m *mockAffiliateRepository) Save(ctx context.Context, a model.Affiliate) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAffiliateRepository) FindByID(ctx context.Context, id string) (model.Affiliate, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Affiliate{}, model.NotFoundError("affiliate %s", id)
}

func (m *mockAffiliateRepository) FindByDocument(ctx context.Context, document string) (model.Affiliate, error) {
	if m.findByDocumentFunc != nil {
		return m.findByDocumentFunc(ctx, document)
	}
	return model.Affiliate{}, model.NotFoundError("affiliate with document %s", document)
}

func (m *mockAffiliateRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	if m.existsByDocumentFunc != nil {
		return m.existsByDocumentFunc(ctx, document)
	}
	return false, nil
}

func (m *mockAffiliateRepository) FindAll(ctx context.Context) ([]model.Affiliate, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

type mockCreditApplicationRepository struct {
	saveFunc              func(ctx context.Context, app model.CreditApplication) error
	findByIDFunc          func(ctx context.Context, id string) (model.CreditApplication, error)
	findAllFunc           func(ctx context.Context) ([]model.CreditApplication, error)
	findByAffiliateIDFunc func(ctx context.Context, affiliateID string) ([]model.CreditApplication, error)
	findByStatusFunc      func(ctx context.Context, status valueobject.ApplicationStatus) ([]model.CreditApplication, error)
	savedApps             []model.CreditApplication
}

func (m *mockCreditApplicationRepository) Save(ctx context.Context, app model.CreditApplication) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, app)
	}
	m.savedApps = append(m.savedApps, app)
	return nil
}

func (m *mockCreditApplicationRepository) FindByID(ctx context.Context, id string) (model.CreditApplication, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.CreditApplication{}, model.NotFoundError("credit application %s", id)
}

func (m *mockCreditApplicationRepository) FindAll(ctx context.Context) ([]model.CreditApplication, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockCreditApplicationRepository) FindByAffiliateID(ctx context.Context, affiliateID string) ([]model.CreditApplication, error) {
	if m.findByAffiliateIDFunc != nil {
		return m.findByAffiliateIDFunc(ctx, affiliateID)
	}
	return nil, nil
}

func (m *mockCreditApplicationRepository) FindByStatus(ctx context.Context, status valueobject.ApplicationStatus) ([]model.CreditApplication, error) {
	if m.findByStatusFunc != nil {
		return m.findByStatusFunc(ctx, status)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockRiskScorer struct {
	evaluateRiskFunc func(ctx context.Context, document string, amount decimal.Decimal, termMonths int) (model.RiskEvaluation, error)
	calls            int
}

func (m *mockRiskScorer) EvaluateRisk(ctx context.Context, document string, amount decimal.Decimal, termMonths int) (model.RiskEvaluation, error) {
	m.calls++
	if m.evaluateRiskFunc != nil {
		return m.evaluateRiskFunc(ctx, document, amount, termMonths)
	}
	score := 750
	return model.NewRiskEvaluation(document, &score, valueobject.RiskLevelMedium, "stub", time.Now()), nil
}

type evaluatedCall struct {
	status            string
	evaluationFailure bool
}

type mockCreditMetrics struct {
	submitted int
	evaluated []evaluatedCall
}

func (m *mockCreditMetrics) ApplicationSubmitted(context.Context) { m.submitted++ }

func (m *mockCreditMetrics) ApplicationEvaluated(_ context.Context, status string, evaluationFailure bool, _ time.Duration) {
	m.evaluated = append(m.evaluated, evaluatedCall{status: status, evaluationFailure: evaluationFailure})
}

// --- Fixtures ---

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeAffiliate(monthsAgo int, salary string) model.Affiliate {
	now := time.Now().UTC()
	return model.ReconstructAffiliate(
		"affiliate-001", "1017234567", "Carlos Pérez", dec(salary),
		now.AddDate(0, -monthsAgo, 0), valueobject.AffiliateStatusActive,
		1, now, now,
	)
}

func inactiveAffiliate() model.Affiliate {
	now := time.Now().UTC()
	return model.ReconstructAffiliate(
		"affiliate-002", "52987654", "Lucía Gómez", dec("3000000"),
		now.AddDate(-2, 0, 0), valueobject.AffiliateStatusInactive,
		3, now, now,
	)
}

func pendingApplication(amount string, term int, rate string) model.CreditApplication {
	now := time.Now().UTC()
	return model.ReconstructCreditApplication(
		"app-001", "affiliate-001", dec(amount), term, dec(rate), now,
		model.Pending{}, nil, 1, now,
	)
}
