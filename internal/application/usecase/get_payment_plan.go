package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
)

// GetPaymentPlanUseCase previews the installments of a credit application
// against its affiliate's salary.
type GetPaymentPlanUseCase struct {
	appRepo       port.CreditApplicationRepository
	affiliateRepo port.AffiliateRepository
}

// NewGetPaymentPlanUseCase wires dependencies.
func NewGetPaymentPlanUseCase(
	appRepo port.CreditApplicationRepository,
	affiliateRepo port.AffiliateRepository,
) *GetPaymentPlanUseCase {
	return &GetPaymentPlanUseCase{appRepo: appRepo, affiliateRepo: affiliateRepo}
}

// Execute returns the monthly payment, payment/income ratio and full
// amortization schedule. The first installment falls one month after
// StartDate, which defaults to today.
func (uc *GetPaymentPlanUseCase) Execute(
	ctx context.Context,
	req dto.GetPaymentPlanRequest,
) (dto.PaymentPlanResponse, error) {
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.PaymentPlanResponse{}, fmt.Errorf("find application: %w", err)
	}
	affiliate, err := uc.affiliateRepo.FindByID(ctx, app.AffiliateID())
	if err != nil {
		return dto.PaymentPlanResponse{}, fmt.Errorf("find affiliate: %w", err)
	}

	start := req.StartDate
	if start.IsZero() {
		y, m, d := time.Now().UTC().Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	schedule := model.GenerateAmortizationSchedule(app.RequestedAmount(), app.ProposedRate(), app.TermMonths(), start)

	resp := dto.PaymentPlanResponse{
		ApplicationID:        app.ID(),
		MonthlyPayment:       app.MonthlyPayment(),
		PaymentToIncomeRatio: app.PaymentToIncomeRatio(affiliate.Salary()),
		TotalPayment:         decimal.Zero,
		TotalInterest:        decimal.Zero,
		Schedule:             make([]dto.AmortizationEntryResponse, 0, len(schedule)),
	}
	for _, e := range schedule {
		resp.TotalPayment = resp.TotalPayment.Add(e.Total)
		resp.TotalInterest = resp.TotalInterest.Add(e.Interest)
		resp.Schedule = append(resp.Schedule, dto.AmortizationEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		})
	}
	return resp, nil
}
