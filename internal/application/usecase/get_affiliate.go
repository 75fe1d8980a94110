package usecase

import (
	"context"
	"fmt"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
)

// GetAffiliateUseCase retrieves an affiliate by ID or document.
type GetAffiliateUseCase struct {
	affiliateRepo port.AffiliateRepository
}

// NewGetAffiliateUseCase wires dependencies.
func NewGetAffiliateUseCase(affiliateRepo port.AffiliateRepository) *GetAffiliateUseCase {
	return &GetAffiliateUseCase{affiliateRepo: affiliateRepo}
}

// Execute looks the affiliate up by ID, falling back to the document.
func (uc *GetAffiliateUseCase) Execute(
	ctx context.Context,
	req dto.GetAffiliateRequest,
) (dto.AffiliateResponse, error) {
	var (
		affiliate model.Affiliate
		err       error
	)
	switch {
	case req.ID != "":
		affiliate, err = uc.affiliateRepo.FindByID(ctx, req.ID)
	case req.Document != "":
		affiliate, err = uc.affiliateRepo.FindByDocument(ctx, req.Document)
	default:
		return dto.AffiliateResponse{}, model.ValidationError("affiliate ID or document is required")
	}
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("find affiliate: %w", err)
	}
	return toAffiliateResponse(affiliate), nil
}

// ListAffiliatesUseCase lists every affiliate.
type ListAffiliatesUseCase struct {
	affiliateRepo port.AffiliateRepository
}

// NewListAffiliatesUseCase wires dependencies.
func NewListAffiliatesUseCase(affiliateRepo port.AffiliateRepository) *ListAffiliatesUseCase {
	return &ListAffiliatesUseCase{affiliateRepo: affiliateRepo}
}

// Execute returns all affiliates.
func (uc *ListAffiliatesUseCase) Execute(ctx context.Context) ([]dto.AffiliateResponse, error) {
	affiliates, err := uc.affiliateRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list affiliates: %w", err)
	}
	return toAffiliateResponses(affiliates), nil
}
