package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
)

// ---------------------------------------------------------------------------
// CreditPolicy – thresholds applied by the evaluator
// ---------------------------------------------------------------------------

// CreditPolicy holds the configurable thresholds of the evaluation chain.
type CreditPolicy struct {
	MinTenureMonths         int
	SalaryMultiplier        float64
	MinScore                int
	MaxPaymentToIncomeRatio float64 // percent
}

// DefaultCreditPolicy returns the cooperative's standard thresholds.
func DefaultCreditPolicy() CreditPolicy {
	return CreditPolicy{
		MinTenureMonths:         6,
		SalaryMultiplier:        3.0,
		MinScore:                500,
		MaxPaymentToIncomeRatio: 40.0,
	}
}

// ---------------------------------------------------------------------------
// CreditEvaluator – ordered eligibility and risk checks
// ---------------------------------------------------------------------------

// Check names, in evaluation order.
const (
	CheckAffiliateActive = "affiliate_active"
	CheckMinimumTenure   = "minimum_tenure"
	CheckMaximumAmount   = "maximum_amount"
	CheckRiskCentral     = "risk_central"
	CheckMinimumScore    = "minimum_score"
	CheckRiskLevel       = "risk_level"
	CheckPaymentToIncome = "payment_to_income"
)

const evaluationFailurePrefix = "error during evaluation process: "

// ErrRiskCentralUnavailable is reported when no risk scorer is wired.
var ErrRiskCentralUnavailable = errors.New("risk central is not configured")

// EvaluationResult is the outcome of running the check chain once.
type EvaluationResult struct {
	// RiskEvaluation is set whenever the risk central answered.
	RiskEvaluation *model.RiskEvaluation
	Reason         string
	FailedCheck    string
	Approved       bool
	// EvaluationFailure is true when the rejection comes from an error
	// raised while evaluating, not from a failed credit rule.
	EvaluationFailure bool
}

// evaluation is the state threaded through the checks of a single run.
type evaluation struct {
	app       model.CreditApplication
	affiliate model.Affiliate
	now       time.Time
	risk      *model.RiskEvaluation
}

// check returns a non-empty reason to reject, or an error that aborts the run.
type check struct {
	name string
	run  func(ctx context.Context, ev *evaluation) (string, error)
}

// CreditEvaluator decides a pending application. Local checks run before the
// risk central is consulted, and the first failing check wins.
type CreditEvaluator struct {
	policy CreditPolicy
	scorer port.RiskScorer
	checks []check
}

// NewCreditEvaluator returns an evaluator bound to a policy and risk scorer.
func NewCreditEvaluator(policy CreditPolicy, scorer port.RiskScorer) *CreditEvaluator {
	e := &CreditEvaluator{policy: policy, scorer: scorer}
	e.checks = []check{
		{name: CheckAffiliateActive, run: e.affiliateActive},
		{name: CheckMinimumTenure, run: e.minimumTenure},
		{name: CheckMaximumAmount, run: e.maximumAmount},
		{name: CheckRiskCentral, run: e.consultRiskCentral},
		{name: CheckMinimumScore, run: e.minimumScore},
		{name: CheckRiskLevel, run: e.riskLevel},
		{name: CheckPaymentToIncome, run: e.paymentToIncome},
	}
	return e
}

// Policy returns the thresholds in use.
func (e *CreditEvaluator) Policy() CreditPolicy { return e.policy }

// CheckOrder lists the check names in the order they run.
func (e *CreditEvaluator) CheckOrder() []string {
	names := make([]string, len(e.checks))
	for i, c := range e.checks {
		names[i] = c.name
	}
	return names
}

// Evaluate runs every check against the application and its affiliate. It
// never returns an error: failures while evaluating, panics included, become
// a rejection whose reason describes the failure.
func (e *CreditEvaluator) Evaluate(
	ctx context.Context,
	app model.CreditApplication,
	affiliate model.Affiliate,
	now time.Time,
) (result EvaluationResult) {
	ev := &evaluation{app: app, affiliate: affiliate, now: now}
	current := ""

	defer func() {
		if r := recover(); r != nil {
			result = failed(current, fmt.Errorf("%v", r), ev.risk)
		}
	}()

	for _, c := range e.checks {
		current = c.name
		reason, err := c.run(ctx, ev)
		if err != nil {
			return failed(c.name, err, ev.risk)
		}
		if reason != "" {
			return EvaluationResult{
				RiskEvaluation: ev.risk,
				Reason:         reason,
				FailedCheck:    c.name,
			}
		}
	}

	return EvaluationResult{RiskEvaluation: ev.risk, Approved: true}
}

// FailedEvaluation is the rejection for an error raised before the chain
// could run, such as a broken affiliate lookup.
func FailedEvaluation(err error) EvaluationResult {
	return failed("", err, nil)
}

func failed(checkName string, err error, risk *model.RiskEvaluation) EvaluationResult {
	return EvaluationResult{
		RiskEvaluation:    risk,
		Reason:            evaluationFailurePrefix + err.Error(),
		FailedCheck:       checkName,
		EvaluationFailure: true,
	}
}

// ---------------------------------------------------------------------------
// checks
// ---------------------------------------------------------------------------

func (e *CreditEvaluator) affiliateActive(_ context.Context, ev *evaluation) (string, error) {
	if !ev.affiliate.IsActive() {
		return "affiliate not active", nil
	}
	return "", nil
}

func (e *CreditEvaluator) minimumTenure(_ context.Context, ev *evaluation) (string, error) {
	if !ev.affiliate.MeetsMinimumTenure(e.policy.MinTenureMonths, ev.now) {
		return fmt.Sprintf("does not meet minimum tenure of %d months", e.policy.MinTenureMonths), nil
	}
	return "", nil
}

func (e *CreditEvaluator) maximumAmount(_ context.Context, ev *evaluation) (string, error) {
	maxAmount := ev.affiliate.MaxCreditAmount(e.policy.SalaryMultiplier)
	if ev.app.RequestedAmount().GreaterThan(maxAmount) {
		return fmt.Sprintf("requested amount exceeds maximum allowed of $%s (%.1f times salary)",
			maxAmount.StringFixed(2), e.policy.SalaryMultiplier), nil
	}
	return "", nil
}

func (e *CreditEvaluator) consultRiskCentral(ctx context.Context, ev *evaluation) (string, error) {
	if e.scorer == nil {
		return "", ErrRiskCentralUnavailable
	}
	risk, err := e.scorer.EvaluateRisk(ctx, ev.affiliate.Document(), ev.app.RequestedAmount(), ev.app.TermMonths())
	if err != nil {
		return "", err
	}
	ev.risk = &risk
	return "", nil
}

func (e *CreditEvaluator) minimumScore(_ context.Context, ev *evaluation) (string, error) {
	if !ev.risk.ScoreMeetsMinimum(e.policy.MinScore) {
		score := "none"
		if s, ok := ev.risk.Score(); ok {
			score = fmt.Sprintf("%d", s)
		}
		return fmt.Sprintf("insufficient credit score: %s (minimum required: %d)", score, e.policy.MinScore), nil
	}
	return "", nil
}

func (e *CreditEvaluator) riskLevel(_ context.Context, ev *evaluation) (string, error) {
	if !ev.risk.RiskLevelAcceptable() {
		return fmt.Sprintf("credit risk level too high: %s", ev.risk.Level()), nil
	}
	return "", nil
}

func (e *CreditEvaluator) paymentToIncome(_ context.Context, ev *evaluation) (string, error) {
	ratio := ev.app.PaymentToIncomeRatio(ev.affiliate.Salary())
	if ratio.GreaterThan(decimal.NewFromFloat(e.policy.MaxPaymentToIncomeRatio)) {
		return fmt.Sprintf("payment/income ratio exceeds maximum allowed: %s%% (maximum: %.1f%%)",
			ratio.StringFixed(2), e.policy.MaxPaymentToIncomeRatio), nil
	}
	return "", nil
}
