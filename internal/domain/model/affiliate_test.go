package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopcredit/coopcredit/internal/domain/event"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newActiveAffiliate(t *testing.T, affiliated time.Time) model.Affiliate {
	t.Helper()
	a, err := model.NewAffiliate("1234567890", "Ana Torres", dec("5000000"),
		affiliated, valueobject.AffiliateStatusActive, time.Now().UTC())
	require.NoError(t, err)
	return a
}

func TestNewAffiliate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	a, err := model.NewAffiliate(" 1234567890 ", "Ana Torres", dec("5000000"),
		time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC), valueobject.AffiliateStatusActive, now)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID())
	assert.Equal(t, "1234567890", a.Document())
	assert.Equal(t, "Ana Torres", a.Name())
	assert.Equal(t, date(2024, 1, 10), a.AffiliationDate(), "affiliation date keeps only the calendar day")
	assert.Equal(t, 1, a.Version())
	require.Len(t, a.DomainEvents(), 1)
	registered, ok := a.DomainEvents()[0].(event.AffiliateRegistered)
	require.True(t, ok)
	assert.Equal(t, a.ID(), registered.AggregateID())
	assert.Equal(t, "ACTIVE", registered.Status)
}

func TestNewAffiliate_Validation(t *testing.T) {
	now := time.Now().UTC()
	affiliated := date(2024, 1, 1)

	tests := []struct {
		name     string
		document string
		fullName string
		salary   decimal.Decimal
		date     time.Time
		status   valueobject.AffiliateStatus
		errMsg   string
	}{
		{"blank document", "  ", "Ana", dec("100"), affiliated, valueobject.AffiliateStatusActive, "document is required"},
		{"blank name", "123", "", dec("100"), affiliated, valueobject.AffiliateStatusActive, "name is required"},
		{"zero salary", "123", "Ana", decimal.Zero, affiliated, valueobject.AffiliateStatusActive, "salary must be greater than zero"},
		{"negative salary", "123", "Ana", dec("-1"), affiliated, valueobject.AffiliateStatusActive, "salary must be greater than zero"},
		{"missing date", "123", "Ana", dec("100"), time.Time{}, valueobject.AffiliateStatusActive, "affiliation date is required"},
		{"missing status", "123", "Ana", dec("100"), affiliated, valueobject.AffiliateStatus{}, "status is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewAffiliate(tt.document, tt.fullName, tt.salary, tt.date, tt.status, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAffiliate_IsActive(t *testing.T) {
	a := newActiveAffiliate(t, date(2024, 1, 1))
	assert.True(t, a.IsActive())

	a, err := a.ChangeStatus(valueobject.AffiliateStatusInactive, time.Now())
	require.NoError(t, err)
	assert.False(t, a.IsActive())
	require.Len(t, a.DomainEvents(), 2)
	changed, ok := a.DomainEvents()[1].(event.AffiliateStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", changed.PreviousStatus)
	assert.Equal(t, "INACTIVE", changed.NewStatus)
}

func TestAffiliate_MeetsMinimumTenure(t *testing.T) {
	today := time.Date(2025, 6, 15, 18, 45, 0, 0, time.UTC)

	tests := []struct {
		name       string
		affiliated time.Time
		today      time.Time
		minMonths  int
		expected   bool
	}{
		{"exact boundary counts", date(2024, 12, 15), today, 6, true},
		{"one day short", date(2024, 12, 16), today, 6, false},
		{"well past the threshold", date(2024, 6, 15), today, 6, true},
		{"three months only", date(2025, 3, 15), today, 6, false},
		{"zero months always met for past dates", date(2025, 6, 15), today, 0, true},
		{"month end clamps to shorter month", date(2025, 2, 28), date(2025, 8, 31), 6, true},
		{"day after clamped boundary", date(2025, 3, 1), date(2025, 8, 31), 6, false},
		{"leap year clamp", date(2024, 2, 29), date(2024, 8, 31), 6, true},
		{"crosses a year boundary", date(2024, 11, 30), date(2025, 5, 30), 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newActiveAffiliate(t, tt.affiliated)
			assert.Equal(t, tt.expected, a.MeetsMinimumTenure(tt.minMonths, tt.today))
		})
	}
}

func TestAffiliate_MeetsMinimumTenure_MissingDate(t *testing.T) {
	a := model.ReconstructAffiliate("id-1", "123", "Ana", dec("100"), time.Time{},
		valueobject.AffiliateStatusActive, 1, time.Now(), time.Now())
	assert.False(t, a.MeetsMinimumTenure(6, time.Now()))
}

func TestAffiliate_MaxCreditAmount(t *testing.T) {
	a := newActiveAffiliate(t, date(2024, 1, 1))
	assert.True(t, a.MaxCreditAmount(3.0).Equal(dec("15000000")))
	assert.True(t, a.MaxCreditAmount(2.5).Equal(dec("12500000")))
}

func TestAffiliate_Update(t *testing.T) {
	a := newActiveAffiliate(t, date(2024, 1, 1))
	now := time.Now().UTC()

	updated, err := a.Update("999", "Ana María Torres", dec("6000000"), date(2023, 5, 1),
		valueobject.AffiliateStatusInactive, now)
	require.NoError(t, err)
	assert.Equal(t, a.ID(), updated.ID())
	assert.Equal(t, "999", updated.Document())
	assert.True(t, updated.Salary().Equal(dec("6000000")))
	assert.False(t, updated.IsActive())
	assert.Len(t, updated.DomainEvents(), 2)

	// original copy is untouched
	assert.Equal(t, "1234567890", a.Document())

	_, err = a.Update("999", "Ana", decimal.Zero, date(2023, 5, 1), valueobject.AffiliateStatusActive, now)
	assert.ErrorIs(t, err, model.ErrValidation)
}
