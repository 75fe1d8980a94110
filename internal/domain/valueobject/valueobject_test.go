package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

func TestRiskLevel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskLevel
		wantErr  bool
	}{
		{"LOW", valueobject.RiskLevelLow, false},
		{"MEDIUM", valueobject.RiskLevelMedium, false},
		{"HIGH", valueobject.RiskLevelHigh, false},
		{"CRITICAL", valueobject.RiskLevel{}, true},
		{"", valueobject.RiskLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskLevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result))
			}
		})
	}
}

func TestRiskLevel_FromScore(t *testing.T) {
	tests := []struct {
		score    int
		expected valueobject.RiskLevel
	}{
		{300, valueobject.RiskLevelHigh},
		{500, valueobject.RiskLevelHigh},
		{501, valueobject.RiskLevelMedium},
		{700, valueobject.RiskLevelMedium},
		{701, valueobject.RiskLevelLow},
		{950, valueobject.RiskLevelLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, valueobject.RiskLevelFromScore(tt.score), "score %d", tt.score)
	}
}

func TestApplicationStatus_Parse(t *testing.T) {
	s, err := valueobject.NewApplicationStatus("pending")
	require.NoError(t, err)
	assert.True(t, s.Equal(valueobject.ApplicationStatusPending))
	assert.False(t, s.IsTerminal())

	s, err = valueobject.NewApplicationStatus("APPROVED")
	require.NoError(t, err)
	assert.True(t, s.IsTerminal())

	_, err = valueobject.NewApplicationStatus("CANCELLED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application status")
}

func TestApplicationStatus_ZeroValue(t *testing.T) {
	var s valueobject.ApplicationStatus
	assert.True(t, s.IsZero())
	assert.False(t, s.IsTerminal())
	assert.Equal(t, "", s.String())
}

func TestAffiliateStatus_Parse(t *testing.T) {
	s, err := valueobject.NewAffiliateStatus(" inactive ")
	require.NoError(t, err)
	assert.Equal(t, valueobject.AffiliateStatusInactive, s)

	_, err = valueobject.NewAffiliateStatus("SUSPENDED")
	require.Error(t, err)
}
