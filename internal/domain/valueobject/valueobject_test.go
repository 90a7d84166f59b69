package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythribanda/ClaimWatch/internal/domain/valueobject"
)

func TestRiskStatus_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskStatus
		wantErr  bool
	}{
		{"Low Risk", valueobject.RiskStatusLow, false},
		{"Medium Risk", valueobject.RiskStatusMedium, false},
		{"High Risk", valueobject.RiskStatusHigh, false},
		{"Critical", valueobject.RiskStatusCritical, false},
		{"LOW", valueobject.RiskStatus{}, true},
		{"", valueobject.RiskStatus{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskStatusFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result))
		})
	}
}

func TestRiskStatus_FromProbability(t *testing.T) {
	tests := []struct {
		name     string
		p        float64
		expected valueobject.RiskStatus
	}{
		{"zero is low", 0, valueobject.RiskStatusLow},
		{"just under 0.2 is low", 0.19, valueobject.RiskStatusLow},
		{"0.2 is medium", 0.2, valueobject.RiskStatusMedium},
		{"0.5 is high", 0.5, valueobject.RiskStatusHigh},
		{"0.69 is high", 0.69, valueobject.RiskStatusHigh},
		{"0.7 is critical", 0.7, valueobject.RiskStatusCritical},
		{"1.0 is critical", 1, valueobject.RiskStatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, valueobject.RiskStatusFromProbability(tt.p))
		})
	}
}

func TestRiskStatus_IsElevated(t *testing.T) {
	assert.False(t, valueobject.RiskStatusLow.IsElevated())
	assert.False(t, valueobject.RiskStatusMedium.IsElevated())
	assert.True(t, valueobject.RiskStatusHigh.IsElevated())
	assert.True(t, valueobject.RiskStatusCritical.IsElevated())
	assert.True(t, valueobject.RiskStatus{}.IsZero())
}

func TestImpactTier_FromImportance(t *testing.T) {
	assert.Equal(t, valueobject.ImpactHigh, valueobject.ImpactTierFromImportance(0.25))
	assert.Equal(t, valueobject.ImpactMedium, valueobject.ImpactTierFromImportance(0.1))
	assert.Equal(t, valueobject.ImpactMedium, valueobject.ImpactTierFromImportance(0.06))
	assert.Equal(t, valueobject.ImpactLow, valueobject.ImpactTierFromImportance(0.05))

	_, err := valueobject.ImpactTierFromString("Severe")
	require.Error(t, err)

	tier, err := valueobject.ImpactTierFromString("Medium")
	require.NoError(t, err)
	assert.Equal(t, "Medium", tier.String())
}

func TestIntakeState_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    valueobject.IntakeState
		to      valueobject.IntakeState
		wantErr bool
	}{
		{"validating to normalized", valueobject.IntakeValidating, valueobject.IntakeNormalized, false},
		{"validating to rejected", valueobject.IntakeValidating, valueobject.IntakeRejected, false},
		{"normalized to scoring", valueobject.IntakeNormalized, valueobject.IntakeScoring, false},
		{"scoring to scored", valueobject.IntakeScoring, valueobject.IntakeScored, false},
		{"scoring to scoring failed", valueobject.IntakeScoring, valueobject.IntakeScoringFailed, false},
		{"scored to persisted", valueobject.IntakeScored, valueobject.IntakePersisted, false},
		{"scored to persist failed", valueobject.IntakeScored, valueobject.IntakePersistFailed, false},
		{"validating cannot skip to scoring", valueobject.IntakeValidating, valueobject.IntakeScoring, true},
		{"scoring failed is terminal", valueobject.IntakeScoringFailed, valueobject.IntakePersisted, true},
		{"persisted is terminal", valueobject.IntakePersisted, valueobject.IntakeScoring, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.from.TransitionTo(tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, next)
		})
	}
}

func TestIntakeState_Terminal(t *testing.T) {
	assert.True(t, valueobject.IntakePersisted.IsTerminal())
	assert.True(t, valueobject.IntakeRejected.IsTerminal())
	assert.False(t, valueobject.IntakeScored.IsTerminal())

	assert.True(t, valueobject.IntakePersistFailed.IsFailure())
	assert.False(t, valueobject.IntakePersisted.IsFailure())
}
