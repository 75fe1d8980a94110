package usecase

import (
	"context"
	"fmt"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// GetApplicationUseCase retrieves a credit application by ID.
type GetApplicationUseCase struct {
	appRepo port.CreditApplicationRepository
}

// NewGetApplicationUseCase wires dependencies.
func NewGetApplicationUseCase(appRepo port.CreditApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{appRepo: appRepo}
}

// Execute returns a credit application response for the given ID.
func (uc *GetApplicationUseCase) Execute(
	ctx context.Context,
	req dto.GetApplicationRequest,
) (dto.CreditApplicationResponse, error) {
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.CreditApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}
	return toApplicationResponse(app), nil
}

// ListApplicationsUseCase lists credit applications, optionally filtered by
// affiliate or status.
type ListApplicationsUseCase struct {
	appRepo port.CreditApplicationRepository
}

// NewListApplicationsUseCase wires dependencies.
func NewListApplicationsUseCase(appRepo port.CreditApplicationRepository) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{appRepo: appRepo}
}

// Execute returns the applications matching the request. An unknown status
// string is a business rule violation.
func (uc *ListApplicationsUseCase) Execute(
	ctx context.Context,
	req dto.ListApplicationsRequest,
) ([]dto.CreditApplicationResponse, error) {
	var (
		apps []model.CreditApplication
		err  error
	)
	switch {
	case req.AffiliateID != "":
		apps, err = uc.appRepo.FindByAffiliateID(ctx, req.AffiliateID)
	case req.Status != "":
		status, parseErr := valueobject.NewApplicationStatus(req.Status)
		if parseErr != nil {
			return nil, model.BusinessRuleError("%v. Allowed values: PENDING, APPROVED, REJECTED", parseErr)
		}
		apps, err = uc.appRepo.FindByStatus(ctx, status)
	default:
		apps, err = uc.appRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return toApplicationResponses(apps), nil
}

// Pending lists the applications still awaiting evaluation.
func (uc *ListApplicationsUseCase) Pending(ctx context.Context) ([]dto.CreditApplicationResponse, error) {
	apps, err := uc.appRepo.FindByStatus(ctx, valueobject.ApplicationStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending applications: %w", err)
	}
	return toApplicationResponses(apps), nil
}
