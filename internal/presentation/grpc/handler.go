package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/pkg/auth"
)

const dateLayout = "2006-01-02"

// Role sets per operation family.
var (
	manageRoles   = []string{auth.RoleAdmin, auth.RoleAnalyst}
	submitRoles   = []string{auth.RoleAffiliate, auth.RoleAdmin}
	evaluateRoles = []string{auth.RoleAnalyst, auth.RoleAdmin}
	readRoles     = []string{auth.RoleAdmin, auth.RoleAnalyst, auth.RoleAffiliate}
)

// Executor is the shape shared by the application use cases.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// AffiliateLister lists every affiliate.
type AffiliateLister interface {
	Execute(ctx context.Context) ([]dto.AffiliateResponse, error)
}

// ApplicationLister lists applications, filtered or pending only.
type ApplicationLister interface {
	Execute(ctx context.Context, req dto.ListApplicationsRequest) ([]dto.CreditApplicationResponse, error)
	Pending(ctx context.Context) ([]dto.CreditApplicationResponse, error)
}

// UseCases groups the application layer entry points served over gRPC.
type UseCases struct {
	RegisterAffiliate     Executor[dto.RegisterAffiliateRequest, dto.AffiliateResponse]
	UpdateAffiliate       Executor[dto.UpdateAffiliateRequest, dto.AffiliateResponse]
	ChangeAffiliateStatus Executor[dto.ChangeAffiliateStatusRequest, dto.AffiliateResponse]
	GetAffiliate          Executor[dto.GetAffiliateRequest, dto.AffiliateResponse]
	ListAffiliates        AffiliateLister
	SubmitApplication     Executor[dto.SubmitApplicationRequest, dto.CreditApplicationResponse]
	EvaluateApplication   Executor[dto.EvaluateApplicationRequest, dto.CreditApplicationResponse]
	GetApplication        Executor[dto.GetApplicationRequest, dto.CreditApplicationResponse]
	ListApplications      ApplicationLister
	GetPaymentPlan        Executor[dto.GetPaymentPlanRequest, dto.PaymentPlanResponse]
}

// Compile-time assertion that Handler implements CreditServiceServer.
var _ CreditServiceServer = (*Handler)(nil)

// Handler implements the CreditServiceServer gRPC interface.
type Handler struct {
	UnimplementedCreditServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates a new gRPC Handler.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	return &Handler{uc: uc, logger: logger}
}

// ---------------------------------------------------------------------------
// Affiliates
// ---------------------------------------------------------------------------

func (h *Handler) RegisterAffiliate(ctx context.Context, req *RegisterAffiliateRequest) (*AffiliateResponse, error) {
	if err := auth.RequireRole(ctx, manageRoles...); err != nil {
		return nil, err
	}
	salary, err := parseDecimal("salary", req.Salary)
	if err != nil {
		return nil, err
	}
	affiliationDate, err := parseDate("affiliation_date", req.AffiliationDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.RegisterAffiliate.Execute(ctx, dto.RegisterAffiliateRequest{
		Document:        req.Document,
		Name:            req.Name,
		Salary:          salary,
		AffiliationDate: affiliationDate,
		Status:          req.Status,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "RegisterAffiliate", err)
	}
	return &AffiliateResponse{Affiliate: toProtoAffiliate(resp)}, nil
}

func (h *Handler) UpdateAffiliate(ctx context.Context, req *UpdateAffiliateRequest) (*AffiliateResponse, error) {
	if err := auth.RequireRole(ctx, manageRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	salary, err := parseDecimal("salary", req.Salary)
	if err != nil {
		return nil, err
	}
	affiliationDate, err := parseDate("affiliation_date", req.AffiliationDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UpdateAffiliate.Execute(ctx, dto.UpdateAffiliateRequest{
		ID:              req.ID,
		Document:        req.Document,
		Name:            req.Name,
		Salary:          salary,
		AffiliationDate: affiliationDate,
		Status:          req.Status,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "UpdateAffiliate", err)
	}
	return &AffiliateResponse{Affiliate: toProtoAffiliate(resp)}, nil
}

func (h *Handler) ChangeAffiliateStatus(ctx context.Context, req *ChangeAffiliateStatusRequest) (*AffiliateResponse, error) {
	if err := auth.RequireRole(ctx, manageRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	resp, err := h.uc.ChangeAffiliateStatus.Execute(ctx, dto.ChangeAffiliateStatusRequest{ID: req.ID, Status: req.Status})
	if err != nil {
		return nil, h.toStatus(ctx, "ChangeAffiliateStatus", err)
	}
	return &AffiliateResponse{Affiliate: toProtoAffiliate(resp)}, nil
}

func (h *Handler) GetAffiliate(ctx context.Context, req *GetAffiliateRequest) (*AffiliateResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	resp, err := h.uc.GetAffiliate.Execute(ctx, dto.GetAffiliateRequest{ID: req.ID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetAffiliate", err)
	}
	return &AffiliateResponse{Affiliate: toProtoAffiliate(resp)}, nil
}

func (h *Handler) GetAffiliateByDocument(ctx context.Context, req *GetAffiliateByDocumentRequest) (*AffiliateResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	document := strings.TrimSpace(req.Document)
	if document == "" {
		return nil, status.Error(codes.InvalidArgument, "document is required")
	}

	resp, err := h.uc.GetAffiliate.Execute(ctx, dto.GetAffiliateRequest{Document: document})
	if err != nil {
		return nil, h.toStatus(ctx, "GetAffiliateByDocument", err)
	}
	return &AffiliateResponse{Affiliate: toProtoAffiliate(resp)}, nil
}

func (h *Handler) ListAffiliates(ctx context.Context, _ *ListAffiliatesRequest) (*ListAffiliatesResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}

	list, err := h.uc.ListAffiliates.Execute(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "ListAffiliates", err)
	}
	out := make([]*Affiliate, 0, len(list))
	for _, a := range list {
		out = append(out, toProtoAffiliate(a))
	}
	return &ListAffiliatesResponse{Affiliates: out}, nil
}

// ---------------------------------------------------------------------------
// Credit applications
// ---------------------------------------------------------------------------

func (h *Handler) SubmitApplication(ctx context.Context, req *SubmitApplicationRequest) (*ApplicationResponse, error) {
	if err := auth.RequireRole(ctx, submitRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AffiliateID) == "" {
		return nil, status.Error(codes.InvalidArgument, "affiliate_id is required")
	}
	amount, err := parseDecimal("requested_amount", req.RequestedAmount)
	if err != nil {
		return nil, err
	}
	rate, err := parseDecimal("proposed_rate", req.ProposedRate)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.SubmitApplication.Execute(ctx, dto.SubmitApplicationRequest{
		AffiliateID:     req.AffiliateID,
		RequestedAmount: amount,
		TermMonths:      int(req.TermMonths),
		ProposedRate:    rate,
		Status:          req.Status,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "SubmitApplication", err)
	}
	return &ApplicationResponse{Application: toProtoApplication(resp)}, nil
}

func (h *Handler) EvaluateApplication(ctx context.Context, req *EvaluateApplicationRequest) (*ApplicationResponse, error) {
	if err := auth.RequireRole(ctx, evaluateRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ApplicationID) == "" {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}

	resp, err := h.uc.EvaluateApplication.Execute(ctx, dto.EvaluateApplicationRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		return nil, h.toStatus(ctx, "EvaluateApplication", err)
	}
	return &ApplicationResponse{Application: toProtoApplication(resp)}, nil
}

func (h *Handler) GetApplication(ctx context.Context, req *GetApplicationRequest) (*ApplicationResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ApplicationID) == "" {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}

	resp, err := h.uc.GetApplication.Execute(ctx, dto.GetApplicationRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetApplication", err)
	}
	return &ApplicationResponse{Application: toProtoApplication(resp)}, nil
}

func (h *Handler) ListApplications(ctx context.Context, _ *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	return h.listApplications(ctx, "ListApplications", dto.ListApplicationsRequest{})
}

func (h *Handler) ListApplicationsByAffiliate(ctx context.Context, req *ListApplicationsByAffiliateRequest) (*ListApplicationsResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AffiliateID) == "" {
		return nil, status.Error(codes.InvalidArgument, "affiliate_id is required")
	}
	return h.listApplications(ctx, "ListApplicationsByAffiliate", dto.ListApplicationsRequest{AffiliateID: req.AffiliateID})
}

func (h *Handler) ListPendingApplications(ctx context.Context, _ *ListPendingApplicationsRequest) (*ListApplicationsResponse, error) {
	if err := auth.RequireRole(ctx, evaluateRoles...); err != nil {
		return nil, err
	}

	list, err := h.uc.ListApplications.Pending(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "ListPendingApplications", err)
	}
	return &ListApplicationsResponse{Applications: toProtoApplications(list)}, nil
}

func (h *Handler) ListApplicationsByStatus(ctx context.Context, req *ListApplicationsByStatusRequest) (*ListApplicationsResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Status) == "" {
		return nil, status.Error(codes.InvalidArgument, "status is required")
	}
	return h.listApplications(ctx, "ListApplicationsByStatus", dto.ListApplicationsRequest{Status: req.Status})
}

func (h *Handler) listApplications(ctx context.Context, method string, req dto.ListApplicationsRequest) (*ListApplicationsResponse, error) {
	list, err := h.uc.ListApplications.Execute(ctx, req)
	if err != nil {
		return nil, h.toStatus(ctx, method, err)
	}
	return &ListApplicationsResponse{Applications: toProtoApplications(list)}, nil
}

func (h *Handler) GetPaymentPlan(ctx context.Context, req *GetPaymentPlanRequest) (*GetPaymentPlanResponse, error) {
	if err := auth.RequireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ApplicationID) == "" {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}

	plan, err := h.uc.GetPaymentPlan.Execute(ctx, dto.GetPaymentPlanRequest{
		ApplicationID: req.ApplicationID,
		StartDate:     startDate,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "GetPaymentPlan", err)
	}

	schedule := make([]*AmortizationEntry, 0, len(plan.Schedule))
	for _, e := range plan.Schedule {
		schedule = append(schedule, &AmortizationEntry{
			Period:           int32(e.Period),
			DueDate:          formatDate(e.DueDate),
			Principal:        e.Principal.StringFixed(2),
			Interest:         e.Interest.StringFixed(2),
			Total:            e.Total.StringFixed(2),
			RemainingBalance: e.RemainingBalance.StringFixed(2),
		})
	}
	return &GetPaymentPlanResponse{
		ApplicationID:        plan.ApplicationID,
		MonthlyPayment:       plan.MonthlyPayment.StringFixed(2),
		PaymentToIncomeRatio: plan.PaymentToIncomeRatio.StringFixed(2),
		TotalPayment:         plan.TotalPayment.StringFixed(2),
		TotalInterest:        plan.TotalInterest.StringFixed(2),
		Schedule:             schedule,
	}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// toStatus maps application errors onto gRPC status codes. Unclassified
// errors are logged and hidden behind a generic message.
func (h *Handler) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrBusinessRule):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// parseDecimal parses a decimal field; an empty value is zero and left to
// domain validation.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s: %q", field, value)
	}
	return d, nil
}

// parseDate parses a YYYY-MM-DD field; an empty value is the zero time.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s: %q (expected YYYY-MM-DD)", field, value)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toProtoAffiliate(a dto.AffiliateResponse) *Affiliate {
	return &Affiliate{
		ID:              a.ID,
		Document:        a.Document,
		Name:            a.Name,
		Salary:          a.Salary.StringFixed(2),
		AffiliationDate: formatDate(a.AffiliationDate),
		Status:          a.Status,
		CreatedAt:       formatTimestamp(a.CreatedAt),
		UpdatedAt:       formatTimestamp(a.UpdatedAt),
	}
}

func toProtoApplication(app dto.CreditApplicationResponse) *CreditApplication {
	out := &CreditApplication{
		ID:                app.ID,
		AffiliateID:       app.AffiliateID,
		RequestedAmount:   app.RequestedAmount.StringFixed(2),
		TermMonths:        int32(app.TermMonths),
		ProposedRate:      app.ProposedRate.String(),
		RequestedAt:       formatTimestamp(app.RequestedAt),
		Status:            app.Status,
		RejectionReason:   app.RejectionReason,
		EvaluationFailure: app.EvaluationFailure,
		UpdatedAt:         formatTimestamp(app.UpdatedAt),
	}
	if r := app.RiskEvaluation; r != nil {
		out.RiskEvaluation = &RiskEvaluation{
			Document:    r.Document,
			RiskLevel:   r.RiskLevel,
			Detail:      r.Detail,
			EvaluatedAt: formatTimestamp(r.EvaluatedAt),
		}
		if r.Score != nil {
			score := int32(*r.Score)
			out.RiskEvaluation.Score = &score
		}
	}
	return out
}

func toProtoApplications(list []dto.CreditApplicationResponse) []*CreditApplication {
	out := make([]*CreditApplication, 0, len(list))
	for _, app := range list {
		out = append(out, toProtoApplication(app))
	}
	return out
}
