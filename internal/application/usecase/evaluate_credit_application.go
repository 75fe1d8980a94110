package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/service"
)

// EvaluateCreditApplicationUseCase decides a pending application and stores
// the decision.
type EvaluateCreditApplicationUseCase struct {
	appRepo       port.CreditApplicationRepository
	affiliateRepo port.AffiliateRepository
	evaluator     *service.CreditEvaluator
	publisher     port.EventPublisher
	metrics       port.CreditMetrics
	logger        *slog.Logger
}

// NewEvaluateCreditApplicationUseCase wires dependencies. metrics may be nil.
func NewEvaluateCreditApplicationUseCase(
	appRepo port.CreditApplicationRepository,
	affiliateRepo port.AffiliateRepository,
	evaluator *service.CreditEvaluator,
	publisher port.EventPublisher,
	metrics port.CreditMetrics,
	logger *slog.Logger,
) *EvaluateCreditApplicationUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluateCreditApplicationUseCase{
		appRepo:       appRepo,
		affiliateRepo: affiliateRepo,
		evaluator:     evaluator,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute loads the application and its affiliate, runs the evaluation chain
// and persists the outcome. Only a missing application or affiliate, or an
// application that is no longer pending, is returned as an error; anything
// that goes wrong while evaluating becomes a rejection.
func (uc *EvaluateCreditApplicationUseCase) Execute(
	ctx context.Context,
	req dto.EvaluateApplicationRequest,
) (dto.CreditApplicationResponse, error) {
	start := time.Now()

	// 1. Load the application; it must still be pending.
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.CreditApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}
	if !app.IsPending() {
		return dto.CreditApplicationResponse{}, alreadyEvaluated(app)
	}

	// 2. Load the owning affiliate and run the checks.
	now := time.Now().UTC()
	var result service.EvaluationResult
	affiliate, err := uc.affiliateRepo.FindByID(ctx, app.AffiliateID())
	switch {
	case errors.Is(err, model.ErrNotFound):
		return dto.CreditApplicationResponse{}, fmt.Errorf("find affiliate: %w", err)
	case err != nil:
		result = service.FailedEvaluation(fmt.Errorf("find affiliate: %w", err))
	default:
		result = uc.evaluator.Evaluate(ctx, app, affiliate, now)
	}

	// 3. Apply the decision.
	decided, err := applyEvaluation(app, result, now)
	if err != nil {
		return dto.CreditApplicationResponse{}, fmt.Errorf("apply decision: %w", err)
	}

	// 4. Persist. A concurrent evaluation that won the race leaves this one
	// looking at a terminal application.
	if err := uc.appRepo.Save(ctx, decided); err != nil {
		if errors.Is(err, port.ErrConcurrentUpdate) {
			return dto.CreditApplicationResponse{}, model.BusinessRuleError("application %s already evaluated", app.ID())
		}
		return dto.CreditApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	uc.record(ctx, decided, result, time.Since(start))

	// 5. Publish. The decision is already stored, so a broker failure is
	// only logged.
	if err := uc.publisher.Publish(ctx, decided.DomainEvents()...); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish evaluation events",
			"application_id", decided.ID(),
			"error", err,
		)
	}

	return toApplicationResponse(decided), nil
}

func (uc *EvaluateCreditApplicationUseCase) record(
	ctx context.Context,
	app model.CreditApplication,
	result service.EvaluationResult,
	elapsed time.Duration,
) {
	uc.metrics.ApplicationEvaluated(ctx, app.Status().String(), result.EvaluationFailure, elapsed)

	attrs := []any{
		"application_id", app.ID(),
		"affiliate_id", app.AffiliateID(),
		"status", app.Status().String(),
		"elapsed", elapsed,
	}
	switch {
	case result.EvaluationFailure:
		uc.logger.ErrorContext(ctx, "credit evaluation failed",
			append(attrs, "check", result.FailedCheck, "reason", result.Reason)...)
	case result.Approved:
		uc.logger.InfoContext(ctx, "credit application approved", attrs...)
	default:
		uc.logger.InfoContext(ctx, "credit application rejected",
			append(attrs, "check", result.FailedCheck, "reason", result.Reason)...)
	}
}

func applyEvaluation(app model.CreditApplication, result service.EvaluationResult, now time.Time) (model.CreditApplication, error) {
	var err error
	if result.RiskEvaluation != nil {
		if app, err = app.AttachRiskEvaluation(*result.RiskEvaluation); err != nil {
			return app, err
		}
	}
	if result.Approved {
		return app.Approve(now)
	}
	return app.Reject(result.Reason, result.EvaluationFailure, now)
}

func alreadyEvaluated(app model.CreditApplication) error {
	return model.BusinessRuleError("application %s already evaluated. Current status: %s", app.ID(), app.Status())
}
