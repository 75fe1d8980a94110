package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// RegisterAffiliateUseCase registers a new cooperative member.
type RegisterAffiliateUseCase struct {
	affiliateRepo port.AffiliateRepository
	publisher     port.EventPublisher
}

// NewRegisterAffiliateUseCase wires dependencies.
func NewRegisterAffiliateUseCase(
	affiliateRepo port.AffiliateRepository,
	publisher port.EventPublisher,
) *RegisterAffiliateUseCase {
	return &RegisterAffiliateUseCase{
		affiliateRepo: affiliateRepo,
		publisher:     publisher,
	}
}

// Execute validates the profile, rejects duplicate documents and persists the affiliate.
func (uc *RegisterAffiliateUseCase) Execute(
	ctx context.Context,
	req dto.RegisterAffiliateRequest,
) (dto.AffiliateResponse, error) {
	status, err := parseAffiliateStatus(req.Status)
	if err != nil {
		return dto.AffiliateResponse{}, err
	}

	affiliate, err := model.NewAffiliate(req.Document, req.Name, req.Salary, req.AffiliationDate, status, time.Now().UTC())
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("create affiliate: %w", err)
	}

	exists, err := uc.affiliateRepo.ExistsByDocument(ctx, affiliate.Document())
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("check document: %w", err)
	}
	if exists {
		return dto.AffiliateResponse{}, model.BusinessRuleError("an affiliate with document %s already exists", affiliate.Document())
	}

	if err := uc.affiliateRepo.Save(ctx, affiliate); err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("save affiliate: %w", err)
	}

	if err := uc.publisher.Publish(ctx, affiliate.DomainEvents()...); err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toAffiliateResponse(affiliate), nil
}

// parseAffiliateStatus requires a status. A blank one is a validation error;
// an unrecognised one breaks a business rule.
func parseAffiliateStatus(raw string) (valueobject.AffiliateStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return valueobject.AffiliateStatus{}, model.ValidationError("affiliate status is required")
	}
	status, err := valueobject.NewAffiliateStatus(raw)
	if err != nil {
		return valueobject.AffiliateStatus{}, model.BusinessRuleError("%v", err)
	}
	return status, nil
}
