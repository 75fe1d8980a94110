package usecase

import (
	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
)

func toAffiliateResponse(a model.Affiliate) dto.AffiliateResponse {
	return dto.AffiliateResponse{
		ID:              a.ID(),
		Document:        a.Document(),
		Name:            a.Name(),
		Salary:          a.Salary(),
		AffiliationDate: a.AffiliationDate(),
		Status:          a.Status().String(),
		CreatedAt:       a.CreatedAt(),
		UpdatedAt:       a.UpdatedAt(),
	}
}

func toAffiliateResponses(affiliates []model.Affiliate) []dto.AffiliateResponse {
	out := make([]dto.AffiliateResponse, 0, len(affiliates))
	for _, a := range affiliates {
		out = append(out, toAffiliateResponse(a))
	}
	return out
}

func toApplicationResponse(app model.CreditApplication) dto.CreditApplicationResponse {
	resp := dto.CreditApplicationResponse{
		ID:                app.ID(),
		AffiliateID:       app.AffiliateID(),
		RequestedAmount:   app.RequestedAmount(),
		TermMonths:        app.TermMonths(),
		ProposedRate:      app.ProposedRate(),
		RequestedAt:       app.RequestedAt(),
		Status:            app.Status().String(),
		RejectionReason:   app.RejectionReason(),
		EvaluationFailure: app.EvaluationFailed(),
		UpdatedAt:         app.UpdatedAt(),
	}
	if r := app.RiskEvaluation(); r != nil {
		resp.RiskEvaluation = &dto.RiskEvaluationResponse{
			Document:    r.Document(),
			Score:       r.ScoreOrNil(),
			RiskLevel:   r.Level().String(),
			Detail:      r.Detail(),
			EvaluatedAt: r.EvaluatedAt(),
		}
	}
	return resp
}

func toApplicationResponses(apps []model.CreditApplication) []dto.CreditApplicationResponse {
	out := make([]dto.CreditApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return out
}
