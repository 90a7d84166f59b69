package valueobject

import "fmt"

// RiskStatus is the qualitative label attached to a verdict.
type RiskStatus struct {
	value string
}

const (
	riskStatusLow      = "Low Risk"
	riskStatusMedium   = "Medium Risk"
	riskStatusHigh     = "High Risk"
	riskStatusCritical = "Critical"
)

var (
	RiskStatusLow      = RiskStatus{value: riskStatusLow}
	RiskStatusMedium   = RiskStatus{value: riskStatusMedium}
	RiskStatusHigh     = RiskStatus{value: riskStatusHigh}
	RiskStatusCritical = RiskStatus{value: riskStatusCritical}
)

var validRiskStatuses = map[string]RiskStatus{
	riskStatusLow:      RiskStatusLow,
	riskStatusMedium:   RiskStatusMedium,
	riskStatusHigh:     RiskStatusHigh,
	riskStatusCritical: RiskStatusCritical,
}

// RiskStatusFromString reconstructs a RiskStatus from its label.
func RiskStatusFromString(s string) (RiskStatus, error) {
	v, ok := validRiskStatuses[s]
	if !ok {
		return RiskStatus{}, fmt.Errorf("invalid risk status: %q", s)
	}
	return v, nil
}

// RiskStatusFromProbability buckets a fraud probability (0.0-1.0).
func RiskStatusFromProbability(p float64) RiskStatus {
	switch {
	case p < 0.2:
		return RiskStatusLow
	case p < 0.5:
		return RiskStatusMedium
	case p < 0.7:
		return RiskStatusHigh
	default:
		return RiskStatusCritical
	}
}

// String returns the label.
func (s RiskStatus) String() string { return s.value }

// IsZero returns true if the status has not been set.
func (s RiskStatus) IsZero() bool { return s.value == "" }

// Equal checks equality with another RiskStatus.
func (s RiskStatus) Equal(other RiskStatus) bool { return s.value == other.value }

// IsElevated reports whether the status is High Risk or Critical.
func (s RiskStatus) IsElevated() bool {
	return s.value == riskStatusHigh || s.value == riskStatusCritical
}
