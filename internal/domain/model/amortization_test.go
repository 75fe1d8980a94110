package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopcredit/coopcredit/internal/domain/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		rate     string
		term     int
		expected string
	}{
		{name: "zero rate splits evenly", amount: "1200", rate: "0", term: 12, expected: "100.00"},
		{name: "zero rate rounds down", amount: "1000", rate: "0", term: 3, expected: "333.33"},
		{name: "zero rate rounds half up", amount: "2000", rate: "0", term: 3, expected: "666.67"},
		{name: "single term adds one month of interest", amount: "1000000", rate: "12", term: 1, expected: "1010000.00"},
		{name: "one year at twelve percent", amount: "10000", rate: "12", term: 12, expected: "888.49"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.MonthlyPayment(dec(tt.amount), dec(tt.rate), tt.term)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestMonthlyPayment_ThirtyYears(t *testing.T) {
	// $100,000 at 5.00% for 360 months is approximately $536.82.
	got := model.MonthlyPayment(decimal.NewFromInt(100_000), dec("5"), 360)
	assert.True(t,
		got.Sub(dec("536.82")).Abs().LessThanOrEqual(dec("0.01")),
		"payment should be approximately $536.82, got %s", got,
	)
	assert.Equal(t, int32(-2), got.Exponent(), "payment is kept at cent precision")
}

func TestMonthlyPayment_NonPositiveTerm(t *testing.T) {
	assert.True(t, model.MonthlyPayment(dec("1000"), dec("10"), 0).IsZero())
	assert.True(t, model.MonthlyPayment(dec("1000"), dec("0"), -1).IsZero())
}

func TestMonthlyPayment_Idempotent(t *testing.T) {
	a := model.MonthlyPayment(dec("15000000"), dec("12.5"), 12)
	b := model.MonthlyPayment(dec("15000000"), dec("12.5"), 12)
	assert.True(t, a.Equal(b))
}

func TestMonthlyRate(t *testing.T) {
	assert.True(t, model.MonthlyRate(dec("12")).Equal(dec("0.01")))
	// 12.5 / 12 = 1.0416666667 (10 dp) then / 100 = 0.0104166667 (10 dp).
	assert.True(t, model.MonthlyRate(dec("12.5")).Equal(dec("0.0104166667")))
}

func TestMonthlyPaymentOrZero(t *testing.T) {
	amount := decimal.NewNullDecimal(dec("1200"))
	rate := decimal.NewNullDecimal(dec("0"))

	t.Run("all present", func(t *testing.T) {
		got := model.MonthlyPaymentOrZero(amount, rate, 12)
		assert.True(t, got.Equal(dec("100")))
	})

	t.Run("missing amount", func(t *testing.T) {
		got := model.MonthlyPaymentOrZero(decimal.NullDecimal{}, rate, 12)
		assert.True(t, got.IsZero())
	})

	t.Run("missing rate", func(t *testing.T) {
		got := model.MonthlyPaymentOrZero(amount, decimal.NullDecimal{}, 12)
		assert.True(t, got.IsZero())
	})

	t.Run("missing term", func(t *testing.T) {
		got := model.MonthlyPaymentOrZero(amount, rate, 0)
		assert.True(t, got.IsZero())
	})
}

func TestPaymentToIncomeRatio(t *testing.T) {
	tests := []struct {
		name     string
		payment  string
		salary   string
		expected string
	}{
		{name: "rounds quotient to four places before scaling", payment: "888.49", salary: "2000", expected: "44.42"},
		{name: "half up on the fifth place", payment: "1", salary: "20000", expected: "0.01"},
		{name: "exact quarter", payment: "1250000", salary: "5000000", expected: "25"},
		{name: "zero salary", payment: "100", salary: "0", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.PaymentToIncomeRatio(dec(tt.payment), dec(tt.salary))
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPaymentToIncomeRatio_Monotonic(t *testing.T) {
	salary := dec("5000000")
	low := model.PaymentToIncomeRatio(dec("1000000"), salary)
	high := model.PaymentToIncomeRatio(dec("2000000"), salary)
	assert.True(t, high.GreaterThan(low), "ratio should grow with payment")

	payment := dec("1000000")
	richer := model.PaymentToIncomeRatio(payment, dec("8000000"))
	poorer := model.PaymentToIncomeRatio(payment, dec("4000000"))
	assert.True(t, poorer.GreaterThan(richer), "ratio should shrink as salary grows")
}

func TestGenerateAmortizationSchedule_ShortTerm(t *testing.T) {
	principal := decimal.NewFromInt(10_000)
	schedule := model.GenerateAmortizationSchedule(principal, dec("12"), 12,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, schedule, 12)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
	assert.True(t, first.Interest.Equal(dec("100")), "first interest should be $100, got %s", first.Interest)
	assert.True(t, first.Total.Equal(dec("888.49")), "first installment should be $888.49, got %s", first.Total)

	last := schedule[11]
	assert.Equal(t, 12, last.Period)
	assert.True(t, last.RemainingBalance.Equal(decimal.Zero))

	totalPrincipal := decimal.Zero
	for _, e := range schedule {
		totalPrincipal = totalPrincipal.Add(e.Principal)
	}
	assert.True(t, totalPrincipal.Equal(principal),
		"total principal should equal $10,000, got %s", totalPrincipal)
}

func TestGenerateAmortizationSchedule_ZeroRate(t *testing.T) {
	principal := decimal.NewFromInt(12_000)
	schedule := model.GenerateAmortizationSchedule(principal, decimal.Zero, 12,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, schedule, 12)

	for _, e := range schedule {
		assert.True(t, e.Interest.Equal(decimal.Zero), "interest should be zero at 0% rate")
		assert.True(t, e.Principal.Equal(decimal.NewFromInt(1000)),
			"each payment should be $1000, got %s", e.Principal)
	}
}

func TestGenerateAmortizationSchedule_InvalidInputs(t *testing.T) {
	t.Run("zero term", func(t *testing.T) {
		sched := model.GenerateAmortizationSchedule(decimal.NewFromInt(1000), dec("5"), 0, time.Now())
		assert.Nil(t, sched)
	})

	t.Run("zero principal", func(t *testing.T) {
		sched := model.GenerateAmortizationSchedule(decimal.Zero, dec("5"), 12, time.Now())
		assert.Nil(t, sched)
	})

	t.Run("negative principal", func(t *testing.T) {
		sched := model.GenerateAmortizationSchedule(decimal.NewFromInt(-1000), dec("5"), 12, time.Now())
		assert.Nil(t, sched)
	})
}
