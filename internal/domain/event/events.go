package event

import (
	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateAffiliate         = "Affiliate"
	aggregateCreditApplication = "CreditApplication"
)

// ---------------------------------------------------------------------------
// Affiliate Events
// ---------------------------------------------------------------------------

// AffiliateRegistered is raised when a new affiliate joins the cooperative.
type AffiliateRegistered struct {
	events.BaseEvent
	Document string          `json:"document"`
	Name     string          `json:"name"`
	Salary   decimal.Decimal `json:"salary"`
	Status   string          `json:"status"`
}

func NewAffiliateRegistered(affiliateID, document, name string, salary decimal.Decimal, status string) AffiliateRegistered {
	return AffiliateRegistered{
		BaseEvent: events.NewBaseEvent("credit.affiliate.registered", affiliateID, aggregateAffiliate),
		Document:  document,
		Name:      name,
		Salary:    salary,
		Status:    status,
	}
}

// AffiliateUpdated is raised when an affiliate's profile changes.
type AffiliateUpdated struct {
	events.BaseEvent
	Document string          `json:"document"`
	Salary   decimal.Decimal `json:"salary"`
	Status   string          `json:"status"`
}

func NewAffiliateUpdated(affiliateID, document string, salary decimal.Decimal, status string) AffiliateUpdated {
	return AffiliateUpdated{
		BaseEvent: events.NewBaseEvent("credit.affiliate.updated", affiliateID, aggregateAffiliate),
		Document:  document,
		Salary:    salary,
		Status:    status,
	}
}

// AffiliateStatusChanged is raised when an affiliate is activated or deactivated.
type AffiliateStatusChanged struct {
	events.BaseEvent
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

func NewAffiliateStatusChanged(affiliateID, previous, next string) AffiliateStatusChanged {
	return AffiliateStatusChanged{
		BaseEvent:      events.NewBaseEvent("credit.affiliate.status_changed", affiliateID, aggregateAffiliate),
		PreviousStatus: previous,
		NewStatus:      next,
	}
}

// ---------------------------------------------------------------------------
// Credit Application Events
// ---------------------------------------------------------------------------

// CreditApplicationSubmitted is raised when a new application enters the system.
type CreditApplicationSubmitted struct {
	events.BaseEvent
	AffiliateID     string          `json:"affiliate_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	TermMonths      int             `json:"term_months"`
	ProposedRate    decimal.Decimal `json:"proposed_rate"`
}

func NewCreditApplicationSubmitted(
	applicationID, affiliateID string,
	amount decimal.Decimal, termMonths int, rate decimal.Decimal,
) CreditApplicationSubmitted {
	return CreditApplicationSubmitted{
		BaseEvent:       events.NewBaseEvent("credit.application.submitted", applicationID, aggregateCreditApplication),
		AffiliateID:     affiliateID,
		RequestedAmount: amount,
		TermMonths:      termMonths,
		ProposedRate:    rate,
	}
}

// CreditApplicationApproved is raised when an application passes every check.
type CreditApplicationApproved struct {
	events.BaseEvent
	AffiliateID string `json:"affiliate_id"`
	Score       int    `json:"score"`
	RiskLevel   string `json:"risk_level"`
}

func NewCreditApplicationApproved(applicationID, affiliateID string, score int, riskLevel string) CreditApplicationApproved {
	return CreditApplicationApproved{
		BaseEvent:   events.NewBaseEvent("credit.application.approved", applicationID, aggregateCreditApplication),
		AffiliateID: affiliateID,
		Score:       score,
		RiskLevel:   riskLevel,
	}
}

// CreditApplicationRejected is raised when an application fails a check or
// when its evaluation could not be completed. EvaluationFailure separates the
// two so consumers can tell a credit denial from an infrastructure outage.
type CreditApplicationRejected struct {
	events.BaseEvent
	AffiliateID       string `json:"affiliate_id"`
	Reason            string `json:"reason"`
	EvaluationFailure bool   `json:"evaluation_failure"`
}

func NewCreditApplicationRejected(applicationID, affiliateID, reason string, evaluationFailure bool) CreditApplicationRejected {
	return CreditApplicationRejected{
		BaseEvent:         events.NewBaseEvent("credit.application.rejected", applicationID, aggregateCreditApplication),
		AffiliateID:       affiliateID,
		Reason:            reason,
		EvaluationFailure: evaluationFailure,
	}
}
