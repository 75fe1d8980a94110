package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

func intPtr(v int) *int { return &v }

func newPendingApplication(t *testing.T) model.CreditApplication {
	t.Helper()
	app, err := model.NewCreditApplication("affiliate-1", dec("10000000"), 60, dec("12.5"), time.Now().UTC())
	require.NoError(t, err)
	return app
}

func TestCreditApplication_FullLifecycle_Approved(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	app, err := model.NewCreditApplication("affiliate-1", dec("10000000"), 60, dec("12.5"), now)
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID())
	assert.Equal(t, "affiliate-1", app.AffiliateID())
	assert.Equal(t, 60, app.TermMonths())
	assert.Equal(t, now, app.RequestedAt())
	assert.True(t, app.Status().Equal(valueobject.ApplicationStatusPending))
	assert.True(t, app.IsPending())
	assert.Empty(t, app.RejectionReason())
	assert.Nil(t, app.RiskEvaluation())
	assert.Len(t, app.DomainEvents(), 1, "should have CreditApplicationSubmitted event")

	eval := model.NewRiskEvaluation("1234567890", intPtr(750), valueobject.RiskLevelMedium, "ok", now)
	app, err = app.AttachRiskEvaluation(eval)
	require.NoError(t, err)
	require.NotNil(t, app.RiskEvaluation())

	app, err = app.Approve(now)
	require.NoError(t, err)
	assert.True(t, app.Status().Equal(valueobject.ApplicationStatusApproved))
	assert.Empty(t, app.RejectionReason())
	require.Len(t, app.DomainEvents(), 2, "should have submitted + approved events")
	approved, ok := app.DomainEvents()[1].(event.CreditApplicationApproved)
	require.True(t, ok)
	assert.Equal(t, 750, approved.Score)
	assert.Equal(t, "MEDIUM", approved.RiskLevel)

	app = app.ClearEvents()
	assert.Empty(t, app.DomainEvents())
}

func TestCreditApplication_Reject(t *testing.T) {
	app := newPendingApplication(t)

	rejected, err := app.Reject("affiliate not active", false, time.Now())
	require.NoError(t, err)
	assert.True(t, rejected.Status().Equal(valueobject.ApplicationStatusRejected))
	assert.Equal(t, "affiliate not active", rejected.RejectionReason())
	assert.False(t, rejected.EvaluationFailed())

	decision, ok := rejected.Decision().(model.Rejected)
	require.True(t, ok)
	assert.Equal(t, "affiliate not active", decision.Reason())

	// the pending copy is untouched
	assert.True(t, app.IsPending())
}

func TestCreditApplication_RejectRequiresReason(t *testing.T) {
	app := newPendingApplication(t)

	_, err := app.Reject("", false, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreditApplication_InvalidTransitions(t *testing.T) {
	now := time.Now().UTC()

	approved, err := newPendingApplication(t).Approve(now)
	require.NoError(t, err)

	_, err = approved.Approve(now)
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

	_, err = approved.Reject("late rejection", false, now)
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

	_, err = approved.AttachRiskEvaluation(model.NewRiskEvaluation("1", intPtr(900), valueobject.RiskLevelLow, "", now))
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

	rejected, err := newPendingApplication(t).Reject("no", true, now)
	require.NoError(t, err)
	assert.True(t, rejected.EvaluationFailed())

	_, err = rejected.Approve(now)
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}

func TestNewCreditApplication_Validation(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		affiliateID string
		amount      decimal.Decimal
		term        int
		rate        decimal.Decimal
		errMsg      string
	}{
		{"missing affiliate", "", dec("100"), 12, dec("10"), "affiliate ID is required"},
		{"zero amount", "a-1", decimal.Zero, 12, dec("10"), "requested amount must be greater than zero"},
		{"zero term", "a-1", dec("100"), 0, dec("10"), "term must be greater than zero"},
		{"term too long", "a-1", dec("100"), 121, dec("10"), "cannot exceed 120 months"},
		{"negative rate", "a-1", dec("100"), 12, dec("-0.1"), "rate must be zero or greater"},
		{"rate above 100", "a-1", dec("100"), 12, dec("100.01"), "cannot exceed 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewCreditApplication(tt.affiliateID, tt.amount, tt.term, tt.rate, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("boundaries are inclusive", func(t *testing.T) {
		_, err := model.NewCreditApplication("a-1", dec("100"), 120, dec("100"), now)
		require.NoError(t, err)
		_, err = model.NewCreditApplication("a-1", dec("100"), 1, decimal.Zero, now)
		require.NoError(t, err)
	})
}

func TestCreditApplication_PaymentToIncomeRatio(t *testing.T) {
	app, err := model.NewCreditApplication("affiliate-1", dec("10000"), 12, dec("12"), time.Now())
	require.NoError(t, err)

	assert.True(t, app.MonthlyPayment().Equal(dec("888.49")))
	assert.True(t, app.PaymentToIncomeRatio(dec("2000")).Equal(dec("44.42")))
}

func TestRiskEvaluation_Checks(t *testing.T) {
	now := time.Now()

	medium := model.NewRiskEvaluation("1", intPtr(500), valueobject.RiskLevelMedium, "", now)
	assert.True(t, medium.ScoreMeetsMinimum(500))
	assert.False(t, medium.ScoreMeetsMinimum(501))
	assert.True(t, medium.RiskLevelAcceptable())

	high := model.NewRiskEvaluation("1", intPtr(900), valueobject.RiskLevelHigh, "", now)
	assert.False(t, high.RiskLevelAcceptable())

	low := model.NewRiskEvaluation("1", intPtr(900), valueobject.RiskLevelLow, "", now)
	assert.True(t, low.RiskLevelAcceptable())

	unscored := model.NewRiskEvaluation("1", nil, valueobject.RiskLevelLow, "", now)
	assert.False(t, unscored.ScoreMeetsMinimum(0))
	assert.Nil(t, unscored.ScoreOrNil())
	_, ok := unscored.Score()
	assert.False(t, ok)
}

func TestDecisionFromStatus(t *testing.T) {
	d, err := model.DecisionFromStatus(valueobject.ApplicationStatusRejected, "too risky", false)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusRejected, d.Status())

	_, err = model.DecisionFromStatus(valueobject.ApplicationStatusRejected, "", false)
	assert.ErrorIs(t, err, model.ErrValidation)

	d, err = model.DecisionFromStatus(valueobject.ApplicationStatusApproved, "", false)
	require.NoError(t, err)
	assert.IsType(t, model.Approved{}, d)

	_, err = model.DecisionFromStatus(valueobject.ApplicationStatus{}, "", false)
	assert.Error(t, err)
}
