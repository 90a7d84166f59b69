package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ClaimRequest is the raw, caller-supplied claim payload keyed by field name.
type ClaimRequest map[string]any

// Number is a coerced numeric claim field. Non-finite values encode as JSON null.
type Number float64

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// IsFinite reports whether n is neither NaN nor infinite.
func (n Number) IsFinite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsFinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

var claimDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// ClaimDate keeps the caller's date text next to the parsed calendar day.
type ClaimDate struct {
	raw   string
	day   time.Time
	valid bool
}

// ParseClaimDate parses s using the accepted date layouts.
func ParseClaimDate(s string) (ClaimDate, error) {
	for _, layout := range claimDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return ClaimDate{raw: s, day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), valid: true}, nil
		}
	}
	return ClaimDate{}, fmt.Errorf("unrecognized date %q", s)
}

// UnparsedClaimDate keeps raw text that could not be parsed.
func UnparsedClaimDate(raw string) ClaimDate {
	return ClaimDate{raw: raw}
}

// ClaimDateFromTime builds a ClaimDate from a stored calendar day.
func ClaimDateFromTime(t time.Time) ClaimDate {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return ClaimDate{raw: day.Format("2006-01-02"), day: day, valid: true}
}

// Time returns the parsed day and whether parsing succeeded.
func (d ClaimDate) Time() (time.Time, bool) { return d.day, d.valid }

func (d ClaimDate) String() string { return d.raw }

func (d ClaimDate) MarshalJSON() ([]byte, error) {
	if d.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.raw)
}

func (d *ClaimDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = ClaimDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClaimDate(s)
	if err != nil {
		*d = UnparsedClaimDate(s)
		return nil
	}
	*d = parsed
	return nil
}

// CanonicalClaim is a validated claim with numeric fields coerced.
type CanonicalClaim struct {
	PolicyState           string `json:"policy_state"`
	PolicyCSL             string `json:"policy_csl"`
	InsuredSex            string `json:"insured_sex"`
	InsuredEducationLevel string `json:"insured_education_level"`
	InsuredOccupation     string `json:"insured_occupation"`
	InsuredHobbies        string `json:"insured_hobbies"`
	InsuredRelationship   string `json:"insured_relationship"`
	IncidentType          string `json:"incident_type"`
	CollisionType         string `json:"collision_type"`
	IncidentSeverity      string `json:"incident_severity"`
	AuthoritiesContacted  string `json:"authorities_contacted"`
	IncidentState         string `json:"incident_state"`
	IncidentCity          string `json:"incident_city"`
	PropertyDamage        string `json:"property_damage"`
	PoliceReportAvailable string `json:"police_report_available"`
	FraudReported         string `json:"fraud_reported"`
	AutoMake              string `json:"auto_make"`
	AutoModel             string `json:"auto_model"`

	MonthsAsCustomer         Number `json:"months_as_customer"`
	Age                      Number `json:"age"`
	PolicyNumber             Number `json:"policy_number"`
	PolicyDeductable         Number `json:"policy_deductable"`
	PolicyAnnualPremium      Number `json:"policy_annual_premium"`
	UmbrellaLimit            Number `json:"umbrella_limit"`
	InsuredZip               Number `json:"insured_zip"`
	CapitalGains             Number `json:"capital_gains"`
	CapitalLoss              Number `json:"capital_loss"`
	IncidentHourOfTheDay     Number `json:"incident_hour_of_the_day"`
	NumberOfVehiclesInvolved Number `json:"number_of_vehicles_involved"`
	BodilyInjuries           Number `json:"bodily_injuries"`
	Witnesses                Number `json:"witnesses"`
	TotalClaimAmount         Number `json:"total_claim_amount"`
	InjuryClaim              Number `json:"injury_claim"`
	PropertyClaim            Number `json:"property_claim"`
	VehicleClaim             Number `json:"vehicle_claim"`
	AutoYear                 Number `json:"auto_year"`

	PolicyBindDate ClaimDate `json:"policy_bind_date"`
	IncidentDate   ClaimDate `json:"incident_date"`
}

func (c *CanonicalClaim) textRefs() map[string]*string {
	return map[string]*string{
		"policy_state":            &c.PolicyState,
		"policy_csl":              &c.PolicyCSL,
		"insured_sex":             &c.InsuredSex,
		"insured_education_level": &c.InsuredEducationLevel,
		"insured_occupation":      &c.InsuredOccupation,
		"insured_hobbies":         &c.InsuredHobbies,
		"insured_relationship":    &c.InsuredRelationship,
		"incident_type":           &c.IncidentType,
		"collision_type":          &c.CollisionType,
		"incident_severity":       &c.IncidentSeverity,
		"authorities_contacted":   &c.AuthoritiesContacted,
		"incident_state":          &c.IncidentState,
		"incident_city":           &c.IncidentCity,
		"property_damage":         &c.PropertyDamage,
		"police_report_available": &c.PoliceReportAvailable,
		"fraud_reported":          &c.FraudReported,
		"auto_make":               &c.AutoMake,
		"auto_model":              &c.AutoModel,
	}
}

func (c *CanonicalClaim) numberRefs() map[string]*Number {
	return map[string]*Number{
		"months_as_customer":          &c.MonthsAsCustomer,
		"age":                         &c.Age,
		"policy_number":               &c.PolicyNumber,
		"policy_deductable":           &c.PolicyDeductable,
		"policy_annual_premium":       &c.PolicyAnnualPremium,
		"umbrella_limit":              &c.UmbrellaLimit,
		"insured_zip":                 &c.InsuredZip,
		"capital_gains":               &c.CapitalGains,
		"capital_loss":                &c.CapitalLoss,
		"incident_hour_of_the_day":    &c.IncidentHourOfTheDay,
		"number_of_vehicles_involved": &c.NumberOfVehiclesInvolved,
		"bodily_injuries":             &c.BodilyInjuries,
		"witnesses":                   &c.Witnesses,
		"total_claim_amount":          &c.TotalClaimAmount,
		"injury_claim":                &c.InjuryClaim,
		"property_claim":              &c.PropertyClaim,
		"vehicle_claim":               &c.VehicleClaim,
		"auto_year":                   &c.AutoYear,
	}
}

func (c *CanonicalClaim) dateRefs() map[string]*ClaimDate {
	return map[string]*ClaimDate{
		"policy_bind_date": &c.PolicyBindDate,
		"incident_date":    &c.IncidentDate,
	}
}

// SetText assigns a categorical field by name.
func (c *CanonicalClaim) SetText(name, v string) error {
	ref, ok := c.textRefs()[name]
	if !ok {
		return fmt.Errorf("unknown categorical field %q", name)
	}
	*ref = v
	return nil
}

// SetNumber assigns a numeric field by name.
func (c *CanonicalClaim) SetNumber(name string, v Number) error {
	ref, ok := c.numberRefs()[name]
	if !ok {
		return fmt.Errorf("unknown numeric field %q", name)
	}
	*ref = v
	return nil
}

// SetDate assigns a date field by name.
func (c *CanonicalClaim) SetDate(name string, v ClaimDate) error {
	ref, ok := c.dateRefs()[name]
	if !ok {
		return fmt.Errorf("unknown date field %q", name)
	}
	*ref = v
	return nil
}

// FieldValue returns the stored value of a field: a string, a float64, or a
// *time.Time that is nil for an unparsed date.
func (c *CanonicalClaim) FieldValue(name string) (any, bool) {
	if ref, ok := c.textRefs()[name]; ok {
		return *ref, true
	}
	if ref, ok := c.numberRefs()[name]; ok {
		return ref.Float(), true
	}
	if ref, ok := c.dateRefs()[name]; ok {
		if day, valid := ref.Time(); valid {
			return &day, true
		}
		return (*time.Time)(nil), true
	}
	return nil, false
}
