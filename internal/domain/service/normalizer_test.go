package service_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
	"github.com/mythribanda/ClaimWatch/internal/domain/service"
	"github.com/mythribanda/ClaimWatch/pkg/testutil"
)

func strictNormalizer() *service.Normalizer {
	return service.NewNormalizer(service.NormalizerConfig{})
}

func TestNormalizer_ValidClaim(t *testing.T) {
	payload := testutil.ValidClaimPayload()

	claim, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
	require.NoError(t, err)

	assert.Equal(t, "OH", claim.PolicyState)
	assert.Equal(t, "250/500", claim.PolicyCSL)
	assert.Equal(t, "92x", claim.AutoModel)
	assert.Equal(t, model.Number(328), claim.MonthsAsCustomer)
	assert.Equal(t, model.Number(1406.91), claim.PolicyAnnualPremium)
	assert.Equal(t, model.Number(0), claim.UmbrellaLimit)
	assert.Equal(t, model.Number(2004), claim.AutoYear)

	day, ok := claim.IncidentDate.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2015, 1, 25, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, "2014-10-17", claim.PolicyBindDate.String())
}

func TestNormalizer_FieldsPreserved(t *testing.T) {
	payload := testutil.ValidClaimPayload()

	claim, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
	require.NoError(t, err)

	for _, f := range model.ClaimFields {
		got, ok := claim.FieldValue(f.Name)
		require.True(t, ok, f.Name)

		switch f.Kind {
		case model.KindCategorical:
			assert.Equal(t, payload[f.Name], got, f.Name)
		case model.KindNumeric:
			assert.InDelta(t, mustParse(t, payload[f.Name].(string)), got.(float64), 1e-9, f.Name)
		case model.KindDate:
			assert.NotNil(t, got, f.Name)
		}
	}
}

func mustParse(t *testing.T, s string) float64 {
	t.Helper()
	var f float64
	require.NoError(t, json.Unmarshal([]byte(s), &f))
	return f
}

func TestNormalizer_MissingField(t *testing.T) {
	for _, f := range model.ClaimFields {
		t.Run(f.Name, func(t *testing.T) {
			payload := testutil.ClaimPayloadWith(map[string]any{f.Name: nil})

			_, err := strictNormalizer().Normalize(model.ClaimRequest(payload))

			var missing *model.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, f.Name, missing.Field)
		})
	}
}

func TestNormalizer_ReportsFirstMissingInOrder(t *testing.T) {
	payload := testutil.ClaimPayloadWith(map[string]any{
		"incident_date": nil,
		"age":           "",
		"auto_make":     nil,
	})

	_, err := strictNormalizer().Normalize(model.ClaimRequest(payload))

	var missing *model.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "auto_make", missing.Field)
	assert.Equal(t, "Missing required field: auto_make", err.Error())
}

func TestNormalizer_Presence(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		present bool
	}{
		{"empty string", "", false},
		{"json null", nil, false},
		{"false", false, false},
		{"numeric zero", float64(0), false},
		{"json.Number zero", json.Number("0"), false},
		{"string zero", "0", true},
		{"whitespace", " ", true},
		{"numeric value", float64(12), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := testutil.ValidClaimPayload()
			payload["witnesses"] = tt.value

			_, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
			if tt.present {
				require.NoError(t, err)
				return
			}
			var missing *model.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "witnesses", missing.Field)
		})
	}
}

func TestNormalizer_NumericCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"integer string", "42", 42},
		{"decimal string", "1406.91", 1406.91},
		{"padded string", "  7 ", 7},
		{"whitespace only is zero", "   ", 0},
		{"exponent", "1e3", 1000},
		{"leading dot", ".5", 0.5},
		{"explicit sign", "-3", -3},
		{"hex", "0x1A", 26},
		{"binary", "0b101", 5},
		{"json number", float64(12.5), 12.5},
		{"json.Number", json.Number("99"), 99},
		{"true", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := testutil.ValidClaimPayload()
			payload["total_claim_amount"] = tt.value

			claim, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, claim.TotalClaimAmount.Float(), 1e-9)
		})
	}
}

func TestNormalizer_NotANumber(t *testing.T) {
	bad := []any{"abc", "12abc", "1,000", "Infinity", "-0x10", "NaN", json.Number("1e400"), []any{"1"}}

	for _, v := range bad {
		payload := testutil.ValidClaimPayload()
		payload["injury_claim"] = v

		t.Run("strict rejects", func(t *testing.T) {
			_, err := strictNormalizer().Normalize(model.ClaimRequest(payload))

			var nan *model.NotANumberError
			require.ErrorAs(t, err, &nan)
			assert.Equal(t, "injury_claim", nan.Field)
			assert.True(t, model.IsValidationError(err))
		})

		t.Run("lenient keeps NaN sentinel", func(t *testing.T) {
			n := service.NewNormalizer(service.NormalizerConfig{LenientNumbers: true})

			claim, err := n.Normalize(model.ClaimRequest(payload))
			require.NoError(t, err)
			assert.False(t, claim.InjuryClaim.IsFinite())

			b, err := json.Marshal(claim)
			require.NoError(t, err)
			assert.Contains(t, string(b), `"injury_claim":null`)
		})
	}
}

func TestNormalizer_Dates(t *testing.T) {
	t.Run("strict rejects unparseable date", func(t *testing.T) {
		payload := testutil.ClaimPayloadWith(map[string]any{"policy_bind_date": "someday"})

		_, err := strictNormalizer().Normalize(model.ClaimRequest(payload))

		var bad *model.InvalidDateError
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, "policy_bind_date", bad.Field)
	})

	t.Run("lenient keeps raw text without a day", func(t *testing.T) {
		payload := testutil.ClaimPayloadWith(map[string]any{"policy_bind_date": "someday"})
		n := service.NewNormalizer(service.NormalizerConfig{LenientNumbers: true})

		claim, err := n.Normalize(model.ClaimRequest(payload))
		require.NoError(t, err)
		_, ok := claim.PolicyBindDate.Time()
		assert.False(t, ok)
		assert.Equal(t, "someday", claim.PolicyBindDate.String())
	})

	t.Run("epoch milliseconds", func(t *testing.T) {
		ms := float64(time.Date(2015, 1, 25, 0, 0, 0, 0, time.UTC).UnixMilli())
		payload := testutil.ClaimPayloadWith(map[string]any{"incident_date": ms})

		claim, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
		require.NoError(t, err)
		assert.Equal(t, "2015-01-25", claim.IncidentDate.String())
	})

	t.Run("epoch milliseconds as json.Number", func(t *testing.T) {
		payload := testutil.ClaimPayloadWith(map[string]any{"incident_date": json.Number("1.4221440e12")})

		claim, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
		require.NoError(t, err)
		assert.Equal(t, "2015-01-25", claim.IncidentDate.String())
	})
}

func TestNormalizer_CategoricalCoercion(t *testing.T) {
	payload := testutil.ClaimPayloadWith(map[string]any{"auto_model": float64(95)})

	claim, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
	require.NoError(t, err)
	assert.Equal(t, "95", claim.AutoModel)

	payload = testutil.ClaimPayloadWith(map[string]any{"auto_model": json.Number("9.5e1")})
	claim, err = strictNormalizer().Normalize(model.ClaimRequest(payload))
	require.NoError(t, err)
	assert.Equal(t, "95", claim.AutoModel, "literal and decoded numbers agree")

	payload = testutil.ClaimPayloadWith(map[string]any{"auto_model": map[string]any{"a": 1}})
	_, err = strictNormalizer().Normalize(model.ClaimRequest(payload))
	var invalid *model.InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "auto_model", invalid.Field)
}

func TestNormalizer_DoesNotMutateInput(t *testing.T) {
	payload := testutil.ValidClaimPayload()
	before := testutil.ValidClaimPayload()

	_, err := strictNormalizer().Normalize(model.ClaimRequest(payload))
	require.NoError(t, err)
	assert.Equal(t, before, payload)
}
