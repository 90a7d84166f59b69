package testutil

import "maps"

// validClaim is a fully populated claim form as the web client posts it:
// every value is a string.
var validClaim = map[string]any{
	"policy_state":                "OH",
	"policy_csl":                  "250/500",
	"insured_sex":                 "MALE",
	"insured_education_level":     "MD",
	"insured_occupation":          "craft-repair",
	"insured_hobbies":             "sleeping",
	"insured_relationship":        "husband",
	"incident_type":               "Single Vehicle Collision",
	"collision_type":              "Side Collision",
	"incident_severity":           "Minor Damage",
	"authorities_contacted":       "Police",
	"incident_state":              "SC",
	"incident_city":               "Columbus",
	"property_damage":             "YES",
	"police_report_available":     "YES",
	"fraud_reported":              "N",
	"auto_make":                   "Saab",
	"auto_model":                  "92x",
	"months_as_customer":          "328",
	"age":                         "48",
	"policy_number":               "521585",
	"policy_deductable":           "1000",
	"policy_annual_premium":       "1406.91",
	"umbrella_limit":              "0",
	"insured_zip":                 "466132",
	"capital_gains":               "53300",
	"capital_loss":                "0",
	"incident_hour_of_the_day":    "5",
	"number_of_vehicles_involved": "1",
	"bodily_injuries":             "1",
	"witnesses":                   "2",
	"total_claim_amount":          "7150",
	"injury_claim":                "650",
	"property_claim":              "1300",
	"vehicle_claim":               "5200",
	"auto_year":                   "2004",
	"policy_bind_date":            "2014-10-17",
	"incident_date":               "2015-01-25",
}

// ValidClaimPayload returns a fresh copy of a complete claim payload. Callers
// may mutate the result.
func ValidClaimPayload() map[string]any {
	return maps.Clone(validClaim)
}

// ClaimPayloadWith returns ValidClaimPayload with the given overrides applied.
// A nil override value deletes the key.
func ClaimPayloadWith(overrides map[string]any) map[string]any {
	p := ValidClaimPayload()
	for k, v := range overrides {
		if v == nil {
			delete(p, k)
			continue
		}
		p[k] = v
	}
	return p
}
