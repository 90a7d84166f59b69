package model

// FieldKind tells the normalizer how to coerce a claim field.
type FieldKind int

const (
	KindCategorical FieldKind = iota
	KindNumeric
	KindDate
)

func (k FieldKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "categorical"
	}
}

// ClaimField names one required input field.
type ClaimField struct {
	Name string
	Kind FieldKind
}

// ClaimFields is the required field set in validation order. The first
// missing entry is the one reported to the caller.
var ClaimFields = []ClaimField{
	{"policy_state", KindCategorical},
	{"policy_csl", KindCategorical},
	{"insured_sex", KindCategorical},
	{"insured_education_level", KindCategorical},
	{"insured_occupation", KindCategorical},
	{"insured_hobbies", KindCategorical},
	{"insured_relationship", KindCategorical},
	{"incident_type", KindCategorical},
	{"collision_type", KindCategorical},
	{"incident_severity", KindCategorical},
	{"authorities_contacted", KindCategorical},
	{"incident_state", KindCategorical},
	{"incident_city", KindCategorical},
	{"property_damage", KindCategorical},
	{"police_report_available", KindCategorical},
	{"fraud_reported", KindCategorical},
	{"auto_make", KindCategorical},
	{"auto_model", KindCategorical},
	{"months_as_customer", KindNumeric},
	{"age", KindNumeric},
	{"policy_number", KindNumeric},
	{"policy_deductable", KindNumeric},
	{"policy_annual_premium", KindNumeric},
	{"umbrella_limit", KindNumeric},
	{"insured_zip", KindNumeric},
	{"capital_gains", KindNumeric},
	{"capital_loss", KindNumeric},
	{"incident_hour_of_the_day", KindNumeric},
	{"number_of_vehicles_involved", KindNumeric},
	{"bodily_injuries", KindNumeric},
	{"witnesses", KindNumeric},
	{"total_claim_amount", KindNumeric},
	{"injury_claim", KindNumeric},
	{"property_claim", KindNumeric},
	{"vehicle_claim", KindNumeric},
	{"auto_year", KindNumeric},
	{"policy_bind_date", KindDate},
	{"incident_date", KindDate},
}

// FieldNames returns the required field names in validation order.
func FieldNames() []string {
	names := make([]string, len(ClaimFields))
	for i, f := range ClaimFields {
		names[i] = f.Name
	}
	return names
}

var recordKeys = func() map[string]struct{} {
	keys := map[string]struct{}{"id": {}, "_id": {}, "createdAt": {}}
	for _, f := range ClaimFields {
		keys[f.Name] = struct{}{}
	}
	return keys
}()

// IsRecordKey reports whether name is a claim field or one of the identity
// keys of a stored claim. Scorer extensions may not use these names.
func IsRecordKey(name string) bool {
	_, ok := recordKeys[name]
	return ok
}
