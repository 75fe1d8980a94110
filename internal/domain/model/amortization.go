package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// monthlyRatePrecision is the scale kept at each division when turning
	// an annual percentage into a monthly rate.
	monthlyRatePrecision = 10
	moneyPrecision       = 2
	ratioPrecision       = 4
)

var (
	twelve     = decimal.NewFromInt(12)
	oneHundred = decimal.NewFromInt(100)
)

// AmortizationEntry is an immutable value object representing one period in an
// amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// MonthlyPayment computes the fixed installment of a French-style loan.
//
//	i       = annualRatePercent / 12 / 100    (10 dp, half-up, each step)
//	f       = (1+i)^termMonths                (exact)
//	payment = amount * i * f / (f - 1)        (2 dp, half-up)
//
// A zero rate splits the amount evenly. A degenerate f-1 of zero yields 0.
func MonthlyPayment(amount, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	if annualRatePercent.IsZero() {
		return amount.DivRound(decimal.NewFromInt(int64(termMonths)), moneyPrecision)
	}

	i := MonthlyRate(annualRatePercent)
	f := pow(decimal.NewFromInt(1).Add(i), termMonths)
	denominator := f.Sub(decimal.NewFromInt(1))
	if denominator.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(i.Mul(f)).DivRound(denominator, moneyPrecision)
}

// MonthlyPaymentOrZero is MonthlyPayment for inputs that may be missing. Any
// absent amount or rate, or a non-positive term, yields 0 instead of an error.
func MonthlyPaymentOrZero(amount, annualRatePercent decimal.NullDecimal, termMonths int) decimal.Decimal {
	if !amount.Valid || !annualRatePercent.Valid || termMonths <= 0 {
		return decimal.Zero
	}
	return MonthlyPayment(amount.Decimal, annualRatePercent.Decimal, termMonths)
}

// MonthlyRate converts an annual percentage to a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.
		DivRound(twelve, monthlyRatePrecision).
		DivRound(oneHundred, monthlyRatePrecision)
}

// PaymentToIncomeRatio returns payment/salary as a percentage. The quotient
// is rounded to 4 dp before scaling by 100. A zero salary yields 0.
func PaymentToIncomeRatio(monthlyPayment, salary decimal.Decimal) decimal.Decimal {
	if salary.IsZero() {
		return decimal.Zero
	}
	return monthlyPayment.DivRound(salary, ratioPrecision).Mul(oneHundred)
}

// GenerateAmortizationSchedule computes a fixed-payment amortization schedule
// using the same installment as MonthlyPayment. Interest per period is the
// remaining balance times the monthly rate, rounded to cents; the last period
// absorbs rounding so the balance reaches exactly zero.
func GenerateAmortizationSchedule(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	monthlyPayment := MonthlyPayment(principal, annualRatePercent, termMonths)
	monthlyRate := decimal.Zero
	if !annualRatePercent.IsZero() {
		monthlyRate = MonthlyRate(annualRatePercent)
	}

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		dueDate := startDate.AddDate(0, period, 0)

		interest := remaining.Mul(monthlyRate).Round(moneyPrecision)
		principalPart := monthlyPayment.Sub(interest)

		// Last period: adjust for rounding so balance reaches exactly zero.
		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          dueDate,
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
	}

	return schedule
}

// pow raises base to a non-negative integer exponent exactly, by squaring.
func pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}
