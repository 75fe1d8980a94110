package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
)

// UpdateAffiliateUseCase replaces an affiliate's profile.
type UpdateAffiliateUseCase struct {
	affiliateRepo port.AffiliateRepository
	publisher     port.EventPublisher
}

// NewUpdateAffiliateUseCase wires dependencies.
func NewUpdateAffiliateUseCase(
	affiliateRepo port.AffiliateRepository,
	publisher port.EventPublisher,
) *UpdateAffiliateUseCase {
	return &UpdateAffiliateUseCase{
		affiliateRepo: affiliateRepo,
		publisher:     publisher,
	}
}

// Execute loads the affiliate, re-checks document uniqueness when the
// document changes, and persists the new profile.
func (uc *UpdateAffiliateUseCase) Execute(
	ctx context.Context,
	req dto.UpdateAffiliateRequest,
) (dto.AffiliateResponse, error) {
	current, err := uc.affiliateRepo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("find affiliate: %w", err)
	}

	status, err := parseAffiliateStatus(req.Status)
	if err != nil {
		return dto.AffiliateResponse{}, err
	}

	updated, err := current.Update(req.Document, req.Name, req.Salary, req.AffiliationDate, status, time.Now().UTC())
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("update affiliate: %w", err)
	}

	if updated.Document() != current.Document() {
		exists, err := uc.affiliateRepo.ExistsByDocument(ctx, updated.Document())
		if err != nil {
			return dto.AffiliateResponse{}, fmt.Errorf("check document: %w", err)
		}
		if exists {
			return dto.AffiliateResponse{}, model.BusinessRuleError("an affiliate with document %s already exists", updated.Document())
		}
	}

	if err := uc.affiliateRepo.Save(ctx, updated); err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("save affiliate: %w", err)
	}

	if err := uc.publisher.Publish(ctx, updated.DomainEvents()...); err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toAffiliateResponse(updated), nil
}

// ChangeAffiliateStatusUseCase activates or deactivates an affiliate.
type ChangeAffiliateStatusUseCase struct {
	affiliateRepo port.AffiliateRepository
	publisher     port.EventPublisher
}

// NewChangeAffiliateStatusUseCase wires dependencies.
func NewChangeAffiliateStatusUseCase(
	affiliateRepo port.AffiliateRepository,
	publisher port.EventPublisher,
) *ChangeAffiliateStatusUseCase {
	return &ChangeAffiliateStatusUseCase{
		affiliateRepo: affiliateRepo,
		publisher:     publisher,
	}
}

// Execute parses the requested status and applies it. A blank status fails
// validation and an unknown one is a business rule violation.
func (uc *ChangeAffiliateStatusUseCase) Execute(
	ctx context.Context,
	req dto.ChangeAffiliateStatusRequest,
) (dto.AffiliateResponse, error) {
	status, err := parseAffiliateStatus(req.Status)
	if err != nil {
		return dto.AffiliateResponse{}, err
	}

	current, err := uc.affiliateRepo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("find affiliate: %w", err)
	}

	updated, err := current.ChangeStatus(status, time.Now().UTC())
	if err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("change status: %w", err)
	}

	if err := uc.affiliateRepo.Save(ctx, updated); err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("save affiliate: %w", err)
	}

	if err := uc.publisher.Publish(ctx, updated.DomainEvents()...); err != nil {
		return dto.AffiliateResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toAffiliateResponse(updated), nil
}
