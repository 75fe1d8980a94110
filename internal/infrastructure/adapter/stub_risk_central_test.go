package adapter_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
	"github.com/coopcredit/coopcredit/internal/infrastructure/adapter"
)

func TestScoreDocument(t *testing.T) {
	tests := []struct {
		document string
		score    int
		level    valueobject.RiskLevel
	}{
		{"1017234567", 452, valueobject.RiskLevelHigh},
		{"52987654", 510, valueobject.RiskLevelMedium},
		{"12345678", 640, valueobject.RiskLevelMedium},
		{"1000000001", 916, valueobject.RiskLevelLow},
		{"", 800, valueobject.RiskLevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.document, func(t *testing.T) {
			v := adapter.ScoreDocument(tt.document)
			assert.Equal(t, tt.score, v.Score)
			assert.True(t, v.Level.Equal(tt.level), "got %s", v.Level)
			assert.NotEmpty(t, v.Detail)
		})
	}
}

func TestStubRiskCentral_Deterministic(t *testing.T) {
	stub := adapter.NewStubRiskCentral()
	ctx := context.Background()

	first, err := stub.EvaluateRisk(ctx, "12345678", decimal.NewFromInt(1000), 12)
	require.NoError(t, err)
	second, err := stub.EvaluateRisk(ctx, "12345678", decimal.NewFromInt(999999), 120)
	require.NoError(t, err)

	s1, _ := first.Score()
	s2, _ := second.Score()
	assert.Equal(t, s1, s2)
	assert.True(t, first.Level().Equal(second.Level()))
	assert.GreaterOrEqual(t, s1, adapter.MinStubScore)
	assert.LessOrEqual(t, s1, adapter.MaxStubScore)
}

func TestStubRiskCentral_RequiresDocument(t *testing.T) {
	_, err := adapter.NewStubRiskCentral().EvaluateRisk(context.Background(), "", decimal.Zero, 12)
	assert.Error(t, err)
}
