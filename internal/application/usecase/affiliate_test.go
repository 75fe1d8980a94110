package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/application/usecase"
	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/model"
)

func validRegisterRequest() dto.RegisterAffiliateRequest {
	return dto.RegisterAffiliateRequest{
		Document:        " 1017234567 ",
		Name:            "Carlos Pérez",
		Salary:          dec("5000000"),
		AffiliationDate: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:          "ACTIVE",
	}
}

func TestRegisterAffiliate_Execute(t *testing.T) {
	t.Run("registers an active affiliate", func(t *testing.T) {
		repo := &mockAffiliateRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewRegisterAffiliateUseCase(repo, publisher)

		resp, err := uc.Execute(context.Background(), validRegisterRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "1017234567", resp.Document)
		assert.Equal(t, "ACTIVE", resp.Status)
		require.Len(t, repo.saved, 1)
		require.Len(t, publisher.publishedEvents, 1)
		_, ok := publisher.publishedEvents[0].(event.AffiliateRegistered)
		assert.True(t, ok)
	})

	t.Run("accepts an explicit status in any case", func(t *testing.T) {
		uc := usecase.NewRegisterAffiliateUseCase(&mockAffiliateRepository{}, &mockEventPublisher{})

		req := validRegisterRequest()
		req.Status = "inactive"
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "INACTIVE", resp.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		uc := usecase.NewRegisterAffiliateUseCase(&mockAffiliateRepository{}, &mockEventPublisher{})

		req := validRegisterRequest()
		req.Status = "SUSPENDED"
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrBusinessRule)
	})

	t.Run("rejects a duplicate document", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			existsByDocumentFunc: func(_ context.Context, document string) (bool, error) {
				assert.Equal(t, "1017234567", document)
				return true, nil
			},
		}
		uc := usecase.NewRegisterAffiliateUseCase(repo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), validRegisterRequest())

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrBusinessRule)
		assert.Contains(t, err.Error(), "already exists")
		assert.Empty(t, repo.saved)
	})

	tests := []struct {
		name   string
		mutate func(*dto.RegisterAffiliateRequest)
	}{
		{"blank document", func(r *dto.RegisterAffiliateRequest) { r.Document = "  " }},
		{"blank name", func(r *dto.RegisterAffiliateRequest) { r.Name = "" }},
		{"zero salary", func(r *dto.RegisterAffiliateRequest) { r.Salary = dec("0") }},
		{"negative salary", func(r *dto.RegisterAffiliateRequest) { r.Salary = dec("-1") }},
		{"missing affiliation date", func(r *dto.RegisterAffiliateRequest) { r.AffiliationDate = time.Time{} }},
		{"missing status", func(r *dto.RegisterAffiliateRequest) { r.Status = "" }},
		{"blank status", func(r *dto.RegisterAffiliateRequest) { r.Status = "   " }},
	}
	for _, tt := range tests {
		t.Run("validation: "+tt.name, func(t *testing.T) {
			repo := &mockAffiliateRepository{}
			uc := usecase.NewRegisterAffiliateUseCase(repo, &mockEventPublisher{})

			req := validRegisterRequest()
			tt.mutate(&req)
			_, err := uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Empty(t, repo.saved)
		})
	}
}

func TestUpdateAffiliate_Execute(t *testing.T) {
	existing := activeAffiliate(12, "5000000")

	t.Run("replaces the profile", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc: func(context.Context, string) (model.Affiliate, error) { return existing, nil },
			existsByDocumentFunc: func(context.Context, string) (bool, error) {
				t.Fatal("document unchanged, uniqueness must not be re-checked")
				return false, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewUpdateAffiliateUseCase(repo, publisher)

		resp, err := uc.Execute(context.Background(), dto.UpdateAffiliateRequest{
			ID:              existing.ID(),
			Document:        existing.Document(),
			Name:            "Carlos A. Pérez",
			Salary:          dec("6500000"),
			AffiliationDate: existing.AffiliationDate(),
			Status:          "ACTIVE",
		})

		require.NoError(t, err)
		assert.Equal(t, "Carlos A. Pérez", resp.Name)
		assert.True(t, resp.Salary.Equal(dec("6500000")))
		require.Len(t, repo.saved, 1)
		require.Len(t, publisher.publishedEvents, 1)
	})

	t.Run("rejects a document owned by someone else", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc:         func(context.Context, string) (model.Affiliate, error) { return existing, nil },
			existsByDocumentFunc: func(context.Context, string) (bool, error) { return true, nil },
		}
		uc := usecase.NewUpdateAffiliateUseCase(repo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.UpdateAffiliateRequest{
			ID:              existing.ID(),
			Document:        "99999999",
			Name:            existing.Name(),
			Salary:          existing.Salary(),
			AffiliationDate: existing.AffiliationDate(),
			Status:          "ACTIVE",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrBusinessRule)
		assert.Empty(t, repo.saved)
	})

	t.Run("requires a status", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc: func(context.Context, string) (model.Affiliate, error) { return existing, nil },
		}
		uc := usecase.NewUpdateAffiliateUseCase(repo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.UpdateAffiliateRequest{
			ID:              existing.ID(),
			Document:        existing.Document(),
			Name:            existing.Name(),
			Salary:          existing.Salary(),
			AffiliationDate: existing.AffiliationDate(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrValidation)
		assert.NotErrorIs(t, err, model.ErrBusinessRule)
		assert.Contains(t, err.Error(), "affiliate status is required")
		assert.Empty(t, repo.saved)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc: func(context.Context, string) (model.Affiliate, error) { return existing, nil },
		}
		uc := usecase.NewUpdateAffiliateUseCase(repo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.UpdateAffiliateRequest{
			ID:              existing.ID(),
			Document:        existing.Document(),
			Name:            existing.Name(),
			Salary:          existing.Salary(),
			AffiliationDate: existing.AffiliationDate(),
			Status:          "RETIRED",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrBusinessRule)
		assert.Empty(t, repo.saved)
	})

	t.Run("unknown affiliate", func(t *testing.T) {
		uc := usecase.NewUpdateAffiliateUseCase(&mockAffiliateRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.UpdateAffiliateRequest{ID: "missing", Status: "ACTIVE"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestChangeAffiliateStatus_Execute(t *testing.T) {
	t.Run("deactivates an affiliate", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc: func(context.Context, string) (model.Affiliate, error) {
				return activeAffiliate(12, "5000000"), nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewChangeAffiliateStatusUseCase(repo, publisher)

		resp, err := uc.Execute(context.Background(), dto.ChangeAffiliateStatusRequest{ID: "affiliate-001", Status: "INACTIVE"})

		require.NoError(t, err)
		assert.Equal(t, "INACTIVE", resp.Status)
		require.Len(t, publisher.publishedEvents, 1)
		changed, ok := publisher.publishedEvents[0].(event.AffiliateStatusChanged)
		require.True(t, ok)
		assert.Equal(t, "ACTIVE", changed.PreviousStatus)
		assert.Equal(t, "INACTIVE", changed.NewStatus)
	})

	t.Run("rejects an unknown status before loading", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc: func(context.Context, string) (model.Affiliate, error) {
				t.Fatal("lookup should not happen")
				return model.Affiliate{}, nil
			},
		}
		uc := usecase.NewChangeAffiliateStatusUseCase(repo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.ChangeAffiliateStatusRequest{ID: "affiliate-001", Status: "BANNED"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrBusinessRule)
	})

	t.Run("requires a status", func(t *testing.T) {
		uc := usecase.NewChangeAffiliateStatusUseCase(&mockAffiliateRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.ChangeAffiliateStatusRequest{ID: "affiliate-001"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("propagates save failures", func(t *testing.T) {
		repo := &mockAffiliateRepository{
			findByIDFunc: func(context.Context, string) (model.Affiliate, error) {
				return activeAffiliate(12, "5000000"), nil
			},
			saveFunc: func(context.Context, model.Affiliate) error { return errors.New("timeout") },
		}
		uc := usecase.NewChangeAffiliateStatusUseCase(repo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.ChangeAffiliateStatusRequest{ID: "affiliate-001", Status: "INACTIVE"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save affiliate: timeout")
	})
}

func TestGetAffiliate_Execute(t *testing.T) {
	repo := &mockAffiliateRepository{
		findByIDFunc: func(context.Context, string) (model.Affiliate, error) {
			return activeAffiliate(12, "5000000"), nil
		},
		findByDocumentFunc: func(_ context.Context, document string) (model.Affiliate, error) {
			if document == "1017234567" {
				return activeAffiliate(12, "5000000"), nil
			}
			return model.Affiliate{}, model.NotFoundError("affiliate with document %s", document)
		},
	}
	uc := usecase.NewGetAffiliateUseCase(repo)

	t.Run("by id", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetAffiliateRequest{ID: "affiliate-001"})
		require.NoError(t, err)
		assert.Equal(t, "affiliate-001", resp.ID)
	})

	t.Run("by document", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetAffiliateRequest{Document: "1017234567"})
		require.NoError(t, err)
		assert.Equal(t, "Carlos Pérez", resp.Name)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetAffiliateRequest{Document: "000"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("no identifier", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetAffiliateRequest{})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestListAffiliates_Execute(t *testing.T) {
	repo := &mockAffiliateRepository{
		findAllFunc: func(context.Context) ([]model.Affiliate, error) {
			return []model.Affiliate{activeAffiliate(12, "5000000"), inactiveAffiliate()}, nil
		},
	}

	resp, err := usecase.NewListAffiliatesUseCase(repo).Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "ACTIVE", resp[0].Status)
	assert.Equal(t, "INACTIVE", resp[1].Status)
}
