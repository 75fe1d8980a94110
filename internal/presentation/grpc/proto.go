package grpc

// proto.go defines the gRPC server interface and messages of
// coopcredit.credit.v1.CreditService. Messages travel with the JSON codec
// registered in json_codec.go; decimals are carried as strings and dates as
// "2006-01-02", timestamps as RFC 3339.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "coopcredit.credit.v1.CreditService"

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// Affiliate is the wire form of an affiliate.
type Affiliate struct {
	ID              string `json:"id"`
	Document        string `json:"document"`
	Name            string `json:"name"`
	Salary          string `json:"salary"`
	AffiliationDate string `json:"affiliation_date"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// RiskEvaluation is the wire form of a risk central verdict.
type RiskEvaluation struct {
	Document    string `json:"document"`
	Score       *int32 `json:"score,omitempty"`
	RiskLevel   string `json:"risk_level"`
	Detail      string `json:"detail,omitempty"`
	EvaluatedAt string `json:"evaluated_at"`
}

// CreditApplication is the wire form of a credit application.
type CreditApplication struct {
	ID                string          `json:"id"`
	AffiliateID       string          `json:"affiliate_id"`
	RequestedAmount   string          `json:"requested_amount"`
	TermMonths        int32           `json:"term_months"`
	ProposedRate      string          `json:"proposed_rate"`
	RequestedAt       string          `json:"requested_at"`
	Status            string          `json:"status"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
	EvaluationFailure bool            `json:"evaluation_failure,omitempty"`
	RiskEvaluation    *RiskEvaluation `json:"risk_evaluation,omitempty"`
	UpdatedAt         string          `json:"updated_at"`
}

// AmortizationEntry is one installment of a payment plan.
type AmortizationEntry struct {
	Period           int32  `json:"period"`
	DueDate          string `json:"due_date"`
	Principal        string `json:"principal"`
	Interest         string `json:"interest"`
	Total            string `json:"total"`
	RemainingBalance string `json:"remaining_balance"`
}

type RegisterAffiliateRequest struct {
	Document        string `json:"document"`
	Name            string `json:"name"`
	Salary          string `json:"salary"`
	AffiliationDate string `json:"affiliation_date"`
	Status          string `json:"status,omitempty"`
}

type UpdateAffiliateRequest struct {
	ID              string `json:"id"`
	Document        string `json:"document"`
	Name            string `json:"name"`
	Salary          string `json:"salary"`
	AffiliationDate string `json:"affiliation_date"`
	Status          string `json:"status"`
}

type ChangeAffiliateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type GetAffiliateRequest struct {
	ID string `json:"id"`
}

type GetAffiliateByDocumentRequest struct {
	Document string `json:"document"`
}

type ListAffiliatesRequest struct{}

// AffiliateResponse carries a single affiliate.
type AffiliateResponse struct {
	Affiliate *Affiliate `json:"affiliate"`
}

type ListAffiliatesResponse struct {
	Affiliates []*Affiliate `json:"affiliates"`
}

type SubmitApplicationRequest struct {
	AffiliateID     string `json:"affiliate_id"`
	RequestedAmount string `json:"requested_amount"`
	TermMonths      int32  `json:"term_months"`
	ProposedRate    string `json:"proposed_rate"`
	// Status is accepted for compatibility and ignored.
	Status string `json:"status,omitempty"`
}

type EvaluateApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

type ListApplicationsRequest struct{}

type ListApplicationsByAffiliateRequest struct {
	AffiliateID string `json:"affiliate_id"`
}

type ListPendingApplicationsRequest struct{}

type ListApplicationsByStatusRequest struct {
	Status string `json:"status"`
}

// ApplicationResponse carries a single credit application.
type ApplicationResponse struct {
	Application *CreditApplication `json:"application"`
}

type ListApplicationsResponse struct {
	Applications []*CreditApplication `json:"applications"`
}

type GetPaymentPlanRequest struct {
	ApplicationID string `json:"application_id"`
	StartDate     string `json:"start_date,omitempty"`
}

type GetPaymentPlanResponse struct {
	ApplicationID        string               `json:"application_id"`
	MonthlyPayment       string               `json:"monthly_payment"`
	PaymentToIncomeRatio string               `json:"payment_to_income_ratio"`
	TotalPayment         string               `json:"total_payment"`
	TotalInterest        string               `json:"total_interest"`
	Schedule             []*AmortizationEntry `json:"schedule"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// CreditServiceServer is the server API for CreditService.
type CreditServiceServer interface {
	RegisterAffiliate(context.Context, *RegisterAffiliateRequest) (*AffiliateResponse, error)
	UpdateAffiliate(context.Context, *UpdateAffiliateRequest) (*AffiliateResponse, error)
	ChangeAffiliateStatus(context.Context, *ChangeAffiliateStatusRequest) (*AffiliateResponse, error)
	GetAffiliate(context.Context, *GetAffiliateRequest) (*AffiliateResponse, error)
	GetAffiliateByDocument(context.Context, *GetAffiliateByDocumentRequest) (*AffiliateResponse, error)
	ListAffiliates(context.Context, *ListAffiliatesRequest) (*ListAffiliatesResponse, error)
	SubmitApplication(context.Context, *SubmitApplicationRequest) (*ApplicationResponse, error)
	EvaluateApplication(context.Context, *EvaluateApplicationRequest) (*ApplicationResponse, error)
	GetApplication(context.Context, *GetApplicationRequest) (*ApplicationResponse, error)
	ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error)
	ListApplicationsByAffiliate(context.Context, *ListApplicationsByAffiliateRequest) (*ListApplicationsResponse, error)
	ListPendingApplications(context.Context, *ListPendingApplicationsRequest) (*ListApplicationsResponse, error)
	ListApplicationsByStatus(context.Context, *ListApplicationsByStatusRequest) (*ListApplicationsResponse, error)
	GetPaymentPlan(context.Context, *GetPaymentPlanRequest) (*GetPaymentPlanResponse, error)
	mustEmbedUnimplementedCreditServiceServer()
}

// UnimplementedCreditServiceServer provides forward-compatible default implementations.
type UnimplementedCreditServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedCreditServiceServer) RegisterAffiliate(context.Context, *RegisterAffiliateRequest) (*AffiliateResponse, error) {
	return nil, unimplemented("RegisterAffiliate")
}
func (UnimplementedCreditServiceServer) UpdateAffiliate(context.Context, *UpdateAffiliateRequest) (*AffiliateResponse, error) {
	return nil, unimplemented("UpdateAffiliate")
}
func (UnimplementedCreditServiceServer) ChangeAffiliateStatus(context.Context, *ChangeAffiliateStatusRequest) (*AffiliateResponse, error) {
	return nil, unimplemented("ChangeAffiliateStatus")
}
func (UnimplementedCreditServiceServer) GetAffiliate(context.Context, *GetAffiliateRequest) (*AffiliateResponse, error) {
	return nil, unimplemented("GetAffiliate")
}
func (UnimplementedCreditServiceServer) GetAffiliateByDocument(context.Context, *GetAffiliateByDocumentRequest) (*AffiliateResponse, error) {
	return nil, unimplemented("GetAffiliateByDocument")
}
func (UnimplementedCreditServiceServer) ListAffiliates(context.Context, *ListAffiliatesRequest) (*ListAffiliatesResponse, error) {
	return nil, unimplemented("ListAffiliates")
}
func (UnimplementedCreditServiceServer) SubmitApplication(context.Context, *SubmitApplicationRequest) (*ApplicationResponse, error) {
	return nil, unimplemented("SubmitApplication")
}
func (UnimplementedCreditServiceServer) EvaluateApplication(context.Context, *EvaluateApplicationRequest) (*ApplicationResponse, error) {
	return nil, unimplemented("EvaluateApplication")
}
func (UnimplementedCreditServiceServer) GetApplication(context.Context, *GetApplicationRequest) (*ApplicationResponse, error) {
	return nil, unimplemented("GetApplication")
}
func (UnimplementedCreditServiceServer) ListApplications(context.Context, *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	return nil, unimplemented("ListApplications")
}
func (UnimplementedCreditServiceServer) ListApplicationsByAffiliate(context.Context, *ListApplicationsByAffiliateRequest) (*ListApplicationsResponse, error) {
	return nil, unimplemented("ListApplicationsByAffiliate")
}
func (UnimplementedCreditServiceServer) ListPendingApplications(context.Context, *ListPendingApplicationsRequest) (*ListApplicationsResponse, error) {
	return nil, unimplemented("ListPendingApplications")
}
func (UnimplementedCreditServiceServer) ListApplicationsByStatus(context.Context, *ListApplicationsByStatusRequest) (*ListApplicationsResponse, error) {
	return nil, unimplemented("ListApplicationsByStatus")
}
func (UnimplementedCreditServiceServer) GetPaymentPlan(context.Context, *GetPaymentPlanRequest) (*GetPaymentPlanResponse, error) {
	return nil, unimplemented("GetPaymentPlan")
}
func (UnimplementedCreditServiceServer) mustEmbedUnimplementedCreditServiceServer() {}

// RegisterCreditServiceServer registers the CreditServiceServer with the gRPC server.
func RegisterCreditServiceServer(s grpclib.ServiceRegistrar, srv CreditServiceServer) {
	s.RegisterService(&creditServiceDesc, srv)
}

// FullMethod returns the fully qualified gRPC method name.
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unaryMethod builds a MethodDesc whose handler decodes Req and dispatches to call.
func unaryMethod[Req any, Resp any](
	name string,
	call func(CreditServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	return grpclib.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CreditServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CreditServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var creditServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CreditServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unaryMethod("RegisterAffiliate", CreditServiceServer.RegisterAffiliate),
		unaryMethod("UpdateAffiliate", CreditServiceServer.UpdateAffiliate),
		unaryMethod("ChangeAffiliateStatus", CreditServiceServer.ChangeAffiliateStatus),
		unaryMethod("GetAffiliate", CreditServiceServer.GetAffiliate),
		unaryMethod("GetAffiliateByDocument", CreditServiceServer.GetAffiliateByDocument),
		unaryMethod("ListAffiliates", CreditServiceServer.ListAffiliates),
		unaryMethod("SubmitApplication", CreditServiceServer.SubmitApplication),
		unaryMethod("EvaluateApplication", CreditServiceServer.EvaluateApplication),
		unaryMethod("GetApplication", CreditServiceServer.GetApplication),
		unaryMethod("ListApplications", CreditServiceServer.ListApplications),
		unaryMethod("ListApplicationsByAffiliate", CreditServiceServer.ListApplicationsByAffiliate),
		unaryMethod("ListPendingApplications", CreditServiceServer.ListPendingApplications),
		unaryMethod("ListApplicationsByStatus", CreditServiceServer.ListApplicationsByStatus),
		unaryMethod("GetPaymentPlan", CreditServiceServer.GetPaymentPlan),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "coopcredit/credit/v1/credit.proto",
}
