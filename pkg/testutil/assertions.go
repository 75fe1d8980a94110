package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimalEqual compares decimals by value, so 10 and 10.00 are equal.
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	assert.True(t, want.Equal(actual), "expected %s, got %s", want, actual)
}
