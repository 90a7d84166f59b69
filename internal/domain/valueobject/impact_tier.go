package valueobject

import "fmt"

// ImpactTier grades how much a single feature contributed to a verdict.
type ImpactTier struct {
	value string
}

var (
	ImpactHigh   = ImpactTier{value: "High"}
	ImpactMedium = ImpactTier{value: "Medium"}
	ImpactLow    = ImpactTier{value: "Low"}
)

// ImpactTierFromString reconstructs an ImpactTier from its label.
func ImpactTierFromString(s string) (ImpactTier, error) {
	switch s {
	case "High":
		return ImpactHigh, nil
	case "Medium":
		return ImpactMedium, nil
	case "Low":
		return ImpactLow, nil
	default:
		return ImpactTier{}, fmt.Errorf("invalid impact tier: %q", s)
	}
}

// ImpactTierFromImportance derives the tier from an importance weight.
func ImpactTierFromImportance(importance float64) ImpactTier {
	switch {
	case importance > 0.1:
		return ImpactHigh
	case importance > 0.05:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func (t ImpactTier) String() string { return t.value }

func (t ImpactTier) IsZero() bool { return t.value == "" }

func (t ImpactTier) Equal(other ImpactTier) bool { return t.value == other.value }
