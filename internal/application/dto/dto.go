package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterAffiliateRequest carries the profile of a new affiliate.
type RegisterAffiliateRequest struct {
	Document        string          `json:"document"`
	Name            string          `json:"name"`
	Salary          decimal.Decimal `json:"salary"`
	AffiliationDate time.Time       `json:"affiliation_date"`
	// Status defaults to ACTIVE when empty.
	Status string `json:"status,omitempty"`
}

// UpdateAffiliateRequest replaces the profile of an existing affiliate.
type UpdateAffiliateRequest struct {
	ID              string          `json:"id"`
	Document        string          `json:"document"`
	Name            string          `json:"name"`
	Salary          decimal.Decimal `json:"salary"`
	AffiliationDate time.Time       `json:"affiliation_date"`
	Status          string          `json:"status"`
}

// ChangeAffiliateStatusRequest activates or deactivates an affiliate.
type ChangeAffiliateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GetAffiliateRequest identifies an affiliate by id or, when ID is empty, by document.
type GetAffiliateRequest struct {
	ID       string `json:"id,omitempty"`
	Document string `json:"document,omitempty"`
}

// SubmitApplicationRequest carries the data needed to submit a credit application.
// Any status sent by the caller is ignored.
type SubmitApplicationRequest struct {
	AffiliateID     string          `json:"affiliate_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	TermMonths      int             `json:"term_months"`
	ProposedRate    decimal.Decimal `json:"proposed_rate"`
	Status          string          `json:"status,omitempty"`
}

// EvaluateApplicationRequest identifies a pending application to evaluate.
type EvaluateApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

// GetApplicationRequest identifies a credit application to retrieve.
type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

// ListApplicationsRequest filters the application listing. At most one of
// AffiliateID and Status is honoured, AffiliateID first.
type ListApplicationsRequest struct {
	AffiliateID string `json:"affiliate_id,omitempty"`
	Status      string `json:"status,omitempty"`
}

// GetPaymentPlanRequest asks for the amortization plan of an application.
type GetPaymentPlanRequest struct {
	ApplicationID string    `json:"application_id"`
	StartDate     time.Time `json:"start_date,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AffiliateResponse is the external representation of an affiliate.
type AffiliateResponse struct {
	ID              string          `json:"id"`
	Document        string          `json:"document"`
	Name            string          `json:"name"`
	Salary          decimal.Decimal `json:"salary"`
	AffiliationDate time.Time       `json:"affiliation_date"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RiskEvaluationResponse is the external representation of a risk verdict.
type RiskEvaluationResponse struct {
	Document    string    `json:"document"`
	Score       *int      `json:"score,omitempty"`
	RiskLevel   string    `json:"risk_level"`
	Detail      string    `json:"detail,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// CreditApplicationResponse is the external representation of a credit application.
type CreditApplicationResponse struct {
	ID                string                  `json:"id"`
	AffiliateID       string                  `json:"affiliate_id"`
	RequestedAmount   decimal.Decimal         `json:"requested_amount"`
	TermMonths        int                     `json:"term_months"`
	ProposedRate      decimal.Decimal         `json:"proposed_rate"`
	RequestedAt       time.Time               `json:"requested_at"`
	Status            string                  `json:"status"`
	RejectionReason   string                  `json:"rejection_reason,omitempty"`
	EvaluationFailure bool                    `json:"evaluation_failure,omitempty"`
	RiskEvaluation    *RiskEvaluationResponse `json:"risk_evaluation,omitempty"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// PaymentPlanResponse summarises what an application would cost the affiliate.
type PaymentPlanResponse struct {
	ApplicationID        string                      `json:"application_id"`
	MonthlyPayment       decimal.Decimal             `json:"monthly_payment"`
	PaymentToIncomeRatio decimal.Decimal             `json:"payment_to_income_ratio"`
	TotalPayment         decimal.Decimal             `json:"total_payment"`
	TotalInterest        decimal.Decimal             `json:"total_interest"`
	Schedule             []AmortizationEntryResponse `json:"schedule"`
}
