package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
)

// SubmitCreditApplicationUseCase records a new credit application for an
// active affiliate. Evaluation is a separate step.
type SubmitCreditApplicationUseCase struct {
	appRepo       port.CreditApplicationRepository
	affiliateRepo port.AffiliateRepository
	publisher     port.EventPublisher
	metrics       port.CreditMetrics
	logger        *slog.Logger
}

// NewSubmitCreditApplicationUseCase wires dependencies. metrics and logger
// may be nil.
func NewSubmitCreditApplicationUseCase(
	appRepo port.CreditApplicationRepository,
	affiliateRepo port.AffiliateRepository,
	publisher port.EventPublisher,
	metrics port.CreditMetrics,
	logger *slog.Logger,
) *SubmitCreditApplicationUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitCreditApplicationUseCase{
		appRepo:       appRepo,
		affiliateRepo: affiliateRepo,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute validates the request, checks the affiliate and persists the
// application as PENDING.
func (uc *SubmitCreditApplicationUseCase) Execute(
	ctx context.Context,
	req dto.SubmitApplicationRequest,
) (dto.CreditApplicationResponse, error) {
	now := time.Now().UTC()

	// 1. Create the application aggregate; status is forced to PENDING.
	app, err := model.NewCreditApplication(
		req.AffiliateID, req.RequestedAmount, req.TermMonths, req.ProposedRate, now,
	)
	if err != nil {
		return dto.CreditApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	// 2. The affiliate must exist and be active.
	affiliate, err := uc.affiliateRepo.FindByID(ctx, req.AffiliateID)
	if err != nil {
		return dto.CreditApplicationResponse{}, fmt.Errorf("find affiliate: %w", err)
	}
	if !affiliate.IsActive() {
		return dto.CreditApplicationResponse{}, model.BusinessRuleError("affiliate must be ACTIVE to request credit")
	}

	// 3. Persist.
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.CreditApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	uc.metrics.ApplicationSubmitted(ctx)

	// 4. Publish. The application is already stored; failing here would
	// invite a retry that submits it twice.
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish submission events",
			"application_id", app.ID(),
			"affiliate_id", app.AffiliateID(),
			"error", err,
		)
	}

	return toApplicationResponse(app), nil
}

type nopMetrics struct{}

func (nopMetrics) ApplicationSubmitted(context.Context) {}

func (nopMetrics) ApplicationEvaluated(context.Context, string, bool, time.Duration) {}
