package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/valueobject"
)

const (
	heuristicModelVersion = "heuristic-1.0"
	heuristicMethod       = "Heuristic"
	maxFactors            = 5
	noIndicatorsReason    = "No strong fraud indicators"
)

var (
	elevatedCSL        = map[string]bool{"500/1000": true, "250/500": true}
	riskyOccupations   = map[string]bool{"exec-managerial": true, "prof-specialty": true, "sales": true, "armed-forces": true}
	riskyHobbies       = map[string]bool{"skydiving": true, "base-jumping": true, "bungie-jumping": true, "yachting": true, "polo": true, "cross-fit": true}
	severeIncidents    = map[string]bool{"Total Loss": true, "Major Damage": true}
	riskyIncidentTypes = map[string]bool{"Multi-vehicle Collision": true, "Vehicle Theft": true}
)

// HeuristicScorer is a rule-based stand-in for the external fraud model. It
// produces the same verdict shape the model does, so the intake pipeline can
// run without a scorer deployment.
type HeuristicScorer struct{}

// NewHeuristicScorer creates a new HeuristicScorer instance.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

type firedRule struct {
	feature string
	weight  int64
}

// Score evaluates a canonical claim. Every matching rule adds its weight to a
// score capped at 100; the probability is score/100 rounded to two places.
func (s *HeuristicScorer) Score(c model.CanonicalClaim) model.PredictionVerdict {
	var fired []firedRule
	var reasons []string
	add := func(feature string, weight int64) {
		fired = append(fired, firedRule{feature: feature, weight: weight})
	}

	if elevatedCSL[c.PolicyCSL] {
		add("policy_csl", 10)
	}
	if riskyOccupations[c.InsuredOccupation] {
		add("insured_occupation", 10)
	}
	if severeIncidents[c.IncidentSeverity] {
		add("incident_severity", 25)
		reasons = append(reasons, fmt.Sprintf("Incident severity is %s", c.IncidentSeverity))
	}
	if riskyHobbies[c.InsuredHobbies] {
		add("insured_hobbies", 15)
		reasons = append(reasons, fmt.Sprintf("Risky hobby: %s", c.InsuredHobbies))
	}
	if riskyIncidentTypes[c.IncidentType] {
		add("incident_type", 15)
		reasons = append(reasons, fmt.Sprintf("High-risk incident type: %s", c.IncidentType))
	}
	if c.CollisionType == "?" {
		add("collision_type", 10)
	}
	if c.PropertyDamage == "Yes" && c.PoliceReportAvailable == "No" {
		add("police_report_available", 15)
		reasons = append(reasons, "Property damage without police report")
	}
	if c.FraudReported == "Yes" {
		add("fraud_reported", 20)
		reasons = append(reasons, "Fraud already reported flag is Yes")
	}
	if greaterThan(c.TotalClaimAmount, 20000) {
		add("total_claim_amount", 20)
	}
	if c.Witnesses.Float() == 0 {
		add("witnesses", 5)
	}
	if greaterThan(c.NumberOfVehiclesInvolved, 2) {
		add("number_of_vehicles_involved", 5)
	}
	if greaterThan(c.InjuryClaim, 10000) || greaterThan(c.PropertyClaim, 10000) || greaterThan(c.VehicleClaim, 15000) {
		add("injury_claim", 10)
	}

	var score int64
	for _, r := range fired {
		score += r.weight
	}
	if score > 100 {
		score = 100
	}

	hundred := decimal.NewFromInt(100)
	prob := decimal.NewFromInt(score).Div(hundred).Round(2)
	probability, _ := prob.Float64()
	riskScore, _ := prob.Mul(hundred).Round(0).Float64()

	fraud := 0
	if prob.GreaterThanOrEqual(decimal.NewFromFloat(0.5)) {
		fraud = 1
	}

	confidence, _ := decimal.Max(prob, decimal.NewFromInt(1).Sub(prob)).Round(2).Float64()

	if len(reasons) == 0 {
		reasons = append(reasons, noIndicatorsReason)
	}

	status := valueobject.RiskStatusFromProbability(probability)
	version := heuristicModelVersion
	method := heuristicMethod
	anomaly := false
	anomalyScore := 0.0

	return model.PredictionVerdict{
		RiskScore:         riskScore,
		Fraud:             fraud,
		Probability:       probability,
		Status:            &status,
		Confidence:        &confidence,
		Reasons:           reasons,
		TopFactors:        rankFactors(fired),
		AnomalyScore:      &anomalyScore,
		IsAnomaly:         &anomaly,
		ModelVersion:      &version,
		ExplanationMethod: &method,
	}
}

// rankFactors turns fired rules into contributing factors, heaviest first.
func rankFactors(fired []firedRule) []model.ContributingFactor {
	ranked := make([]firedRule, len(fired))
	copy(ranked, fired)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].weight > ranked[j].weight
	})
	if len(ranked) > maxFactors {
		ranked = ranked[:maxFactors]
	}

	factors := make([]model.ContributingFactor, 0, len(ranked))
	for _, r := range ranked {
		importance, _ := decimal.NewFromInt(r.weight).Div(decimal.NewFromInt(100)).Float64()
		factors = append(factors, model.ContributingFactor{
			Feature:    r.feature,
			Importance: importance,
			Impact:     valueobject.ImpactTierFromImportance(importance),
		})
	}
	return factors
}

// greaterThan compares a claim amount against an integer threshold. NaN never
// exceeds a threshold.
func greaterThan(n model.Number, threshold int64) bool {
	f := n.Float()
	if math.IsNaN(f) {
		return false
	}
	if math.IsInf(f, 0) {
		return f > 0
	}
	return decimal.NewFromFloat(f).GreaterThan(decimal.NewFromInt(threshold))
}
