package service

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
)

// NormalizerConfig controls how strictly numeric and date fields are coerced.
type NormalizerConfig struct {
	// LenientNumbers keeps non-numeric values as NaN and unparseable dates
	// as unset instead of rejecting the claim.
	LenientNumbers bool
}

// Normalizer validates a raw claim and coerces it into a CanonicalClaim.
// It holds no state besides its configuration and is safe for concurrent use.
type Normalizer struct {
	cfg NormalizerConfig
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize checks presence of every required field in order, stopping at
// the first missing one, then coerces the values.
func (n *Normalizer) Normalize(req model.ClaimRequest) (model.CanonicalClaim, error) {
	for _, f := range model.ClaimFields {
		if !isPresent(req[f.Name]) {
			return model.CanonicalClaim{}, &model.MissingFieldError{Field: f.Name}
		}
	}

	var claim model.CanonicalClaim
	for _, f := range model.ClaimFields {
		raw := req[f.Name]

		switch f.Kind {
		case model.KindCategorical:
			s, ok := toText(raw)
			if !ok {
				return model.CanonicalClaim{}, &model.InvalidFieldError{Field: f.Name}
			}
			if err := claim.SetText(f.Name, s); err != nil {
				return model.CanonicalClaim{}, err
			}

		case model.KindNumeric:
			num := toNumber(raw)
			if !num.IsFinite() && !n.cfg.LenientNumbers {
				return model.CanonicalClaim{}, &model.NotANumberError{Field: f.Name, Value: raw}
			}
			if err := claim.SetNumber(f.Name, num); err != nil {
				return model.CanonicalClaim{}, err
			}

		case model.KindDate:
			d, err := n.toDate(f.Name, raw)
			if err != nil {
				return model.CanonicalClaim{}, err
			}
			if err := claim.SetDate(f.Name, d); err != nil {
				return model.CanonicalClaim{}, err
			}
		}
	}

	return claim, nil
}

func (n *Normalizer) toDate(field string, raw any) (model.ClaimDate, error) {
	if ms, ok := raw.(float64); ok {
		return model.ClaimDateFromTime(time.UnixMilli(int64(ms)).UTC()), nil
	}
	if num, ok := raw.(json.Number); ok {
		if ms, err := num.Float64(); err == nil {
			return model.ClaimDateFromTime(time.UnixMilli(int64(ms)).UTC()), nil
		}
	}

	s, _ := toText(raw)
	d, err := model.ParseClaimDate(s)
	if err == nil {
		return d, nil
	}
	if n.cfg.LenientNumbers {
		return model.UnparsedClaimDate(s), nil
	}
	return model.ClaimDate{}, &model.InvalidDateError{Field: field, Value: s}
}

// isPresent applies JavaScript truthiness: absent, null, false, "", 0 and NaN
// all count as missing. The string "0" is present.
func isPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func toText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber mirrors JavaScript Number() for the value kinds a JSON body can
// carry. Anything that does not convert yields NaN.
func toNumber(v any) model.Number {
	switch t := v.(type) {
	case float64:
		return model.Number(t)
	case json.Number:
		return parseNumeric(t.String())
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return parseNumeric(t)
	default:
		return model.Number(math.NaN())
	}
}

func parseNumeric(s string) model.Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return model.Number(math.Inf(1))
	case "-Infinity":
		return model.Number(math.Inf(-1))
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return model.Number(math.NaN())
			}
			return model.Number(float64(u))
		}
	}

	if !decimalLiteral.MatchString(s) {
		return model.Number(math.NaN())
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return model.Number(math.NaN())
	}
	return model.Number(f)
}
