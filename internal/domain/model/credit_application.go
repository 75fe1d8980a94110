package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

const (
	// MaxTermMonths is the longest term a cooperative loan may run (10 years).
	MaxTermMonths = 120
)

var maxAnnualRate = decimal.NewFromInt(100)

// ---------------------------------------------------------------------------
// CreditApplication aggregate root
// ---------------------------------------------------------------------------

// CreditApplication is an immutable aggregate. Every mutation returns a new copy.
type CreditApplication struct {
	id              string
	affiliateID     string
	requestedAmount decimal.Decimal
	termMonths      int
	proposedRate    decimal.Decimal
	requestedAt     time.Time
	decision        Decision
	riskEvaluation  *RiskEvaluation
	version         int
	updatedAt       time.Time
	domainEvents    []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewCreditApplication creates a brand-new application. The status is always
// PENDING no matter what the caller asked for.
func NewCreditApplication(
	affiliateID string,
	requestedAmount decimal.Decimal,
	termMonths int,
	proposedRate decimal.Decimal,
	now time.Time,
) (CreditApplication, error) {
	if affiliateID == "" {
		return CreditApplication{}, ValidationError("affiliate ID is required")
	}
	if requestedAmount.LessThanOrEqual(decimal.Zero) {
		return CreditApplication{}, ValidationError("requested amount must be greater than zero")
	}
	if termMonths <= 0 {
		return CreditApplication{}, ValidationError("term must be greater than zero months")
	}
	if termMonths > MaxTermMonths {
		return CreditApplication{}, ValidationError("term cannot exceed %d months", MaxTermMonths)
	}
	if proposedRate.IsNegative() {
		return CreditApplication{}, ValidationError("proposed rate must be zero or greater")
	}
	if proposedRate.GreaterThan(maxAnnualRate) {
		return CreditApplication{}, ValidationError("proposed rate cannot exceed 100%%")
	}

	id := uuid.New().String()
	app := CreditApplication{
		id:              id,
		affiliateID:     affiliateID,
		requestedAmount: requestedAmount,
		termMonths:      termMonths,
		proposedRate:    proposedRate,
		requestedAt:     now,
		decision:        Pending{},
		version:         1,
		updatedAt:       now,
	}
	app.domainEvents = append(app.domainEvents,
		event.NewCreditApplicationSubmitted(id, affiliateID, requestedAmount, termMonths, proposedRate))
	return app, nil
}

// ReconstructCreditApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructCreditApplication(
	id, affiliateID string,
	requestedAmount decimal.Decimal,
	termMonths int,
	proposedRate decimal.Decimal,
	requestedAt time.Time,
	decision Decision,
	riskEvaluation *RiskEvaluation,
	version int,
	updatedAt time.Time,
) CreditApplication {
	if decision == nil {
		decision = Pending{}
	}
	return CreditApplication{
		id:              id,
		affiliateID:     affiliateID,
		requestedAmount: requestedAmount,
		termMonths:      termMonths,
		proposedRate:    proposedRate,
		requestedAt:     requestedAt,
		decision:        decision,
		riskEvaluation:  riskEvaluation,
		version:         version,
		updatedAt:       updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// AttachRiskEvaluation records the risk central's verdict while the
// application is still being evaluated.
func (a CreditApplication) AttachRiskEvaluation(eval RiskEvaluation) (CreditApplication, error) {
	if !a.IsPending() {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.riskEvaluation = &eval
	next.domainEvents = copyEvents(a.domainEvents)
	return next, nil
}

// Approve transitions PENDING -> APPROVED and emits CreditApplicationApproved.
func (a CreditApplication) Approve(now time.Time) (CreditApplication, error) {
	if !a.IsPending() {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.decision = Approved{}
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)

	var (
		score int
		level string
	)
	if a.riskEvaluation != nil {
		score, _ = a.riskEvaluation.Score()
		level = a.riskEvaluation.Level().String()
	}
	next.domainEvents = append(next.domainEvents,
		event.NewCreditApplicationApproved(a.id, a.affiliateID, score, level))
	return next, nil
}

// Reject transitions PENDING -> REJECTED and emits CreditApplicationRejected.
// evaluationFailure marks rejections caused by an error during evaluation.
func (a CreditApplication) Reject(reason string, evaluationFailure bool, now time.Time) (CreditApplication, error) {
	if !a.IsPending() {
		return a, valueobject.ErrInvalidStatusTransition
	}
	rejected, err := newRejected(reason, evaluationFailure)
	if err != nil {
		return a, err
	}
	next := a
	next.decision = rejected
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewCreditApplicationRejected(a.id, a.affiliateID, reason, evaluationFailure))
	return next, nil
}

// ---------------------------------------------------------------------------
// Amortization
// ---------------------------------------------------------------------------

// MonthlyPayment is the fixed installment for the requested amount, term and rate.
func (a CreditApplication) MonthlyPayment() decimal.Decimal {
	return MonthlyPayment(a.requestedAmount, a.proposedRate, a.termMonths)
}

// PaymentToIncomeRatio is the monthly payment as a percentage of salary.
func (a CreditApplication) PaymentToIncomeRatio(salary decimal.Decimal) decimal.Decimal {
	return PaymentToIncomeRatio(a.MonthlyPayment(), salary)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a CreditApplication) ID() string                        { return a.id }
func (a CreditApplication) AffiliateID() string               { return a.affiliateID }
func (a CreditApplication) RequestedAmount() decimal.Decimal  { return a.requestedAmount }
func (a CreditApplication) TermMonths() int                   { return a.termMonths }
func (a CreditApplication) ProposedRate() decimal.Decimal     { return a.proposedRate }
func (a CreditApplication) RequestedAt() time.Time            { return a.requestedAt }
func (a CreditApplication) Decision() Decision                { return a.decision }
func (a CreditApplication) RiskEvaluation() *RiskEvaluation   { return a.riskEvaluation }
func (a CreditApplication) Version() int                      { return a.version }
func (a CreditApplication) UpdatedAt() time.Time              { return a.updatedAt }
func (a CreditApplication) DomainEvents() []event.DomainEvent { return a.domainEvents }

// Status is derived from the decision.
func (a CreditApplication) Status() valueobject.ApplicationStatus {
	if a.decision == nil {
		return valueobject.ApplicationStatusPending
	}
	return a.decision.Status()
}

// IsPending reports whether the application still awaits a decision.
func (a CreditApplication) IsPending() bool {
	return a.Status().Equal(valueobject.ApplicationStatusPending)
}

// RejectionReason is empty unless the application was rejected.
func (a CreditApplication) RejectionReason() string {
	if r, ok := a.decision.(Rejected); ok {
		return r.Reason()
	}
	return ""
}

// EvaluationFailed reports whether a rejection stems from an evaluation error.
func (a CreditApplication) EvaluationFailed() bool {
	if r, ok := a.decision.(Rejected); ok {
		return r.EvaluationFailure()
	}
	return false
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a CreditApplication) ClearEvents() CreditApplication {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
