package policy_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/policy-engine/policy"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func standardApp() policy.Application {
	return policy.Application{
		CustomerID: "cust-1",
		ProductID:  "WL-100",
		FaceAmount: dec("100000"),
		Age:        25,
		Risk:       policy.RiskStandard,
		Smoker:     false,
	}
}

// =============================================================================
// PREMIUM CALCULATION
// =============================================================================

func TestCalculatePremium_WorkedExample(t *testing.T) {
	// GIVEN: face 100000, age 25, standard risk, non-smoker
	// WHEN: pricing
	// THEN: 100000 × 0.001 = 100, × 0.8 (age) × 1.0 × 1.0 = 80.00

	premium, err := policy.CalculatePremium(standardApp())
	require.NoError(t, err)
	assert.True(t, premium.Equal(dec("80.00")), "got %s", premium)
}

func TestCalculatePremium_FactorTable(t *testing.T) {
	cases := []struct {
		name   string
		face   string
		age    int
		risk   policy.RiskClass
		smoker bool
		want   string
	}{
		{"age band 30-39", "100000", 30, policy.RiskStandard, false, "100.00"},
		{"age band 40-49", "100000", 45, policy.RiskStandard, false, "120.00"},
		{"age band 50-59", "100000", 59, policy.RiskStandard, false, "150.00"},
		{"age band 60+", "100000", 60, policy.RiskStandard, false, "200.00"},
		{"preferred discount", "100000", 60, policy.RiskPreferred, false, "180.00"},
		{"substandard load", "100000", 25, policy.RiskSubstandard, false, "104.00"},
		{"smoker load", "100000", 25, policy.RiskStandard, true, "120.00"},
		{"all loads stack", "100000", 45, policy.RiskSubstandard, true, "234.00"},
		{"round half up", "1125", 25, policy.RiskSubstandard, true, "1.76"}, // raw 1.755
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := standardApp()
			app.FaceAmount = dec(tc.face)
			app.Age = tc.age
			app.Risk = tc.risk
			app.Smoker = tc.smoker

			premium, err := policy.CalculatePremium(app)
			require.NoError(t, err)
			assert.True(t, premium.Equal(dec(tc.want)), "want %s, got %s", tc.want, premium)
		})
	}
}

func TestCalculatePremium_Deterministic(t *testing.T) {
	// Pricing the same application twice yields the same premium.
	app := standardApp()
	first, err := policy.CalculatePremium(app)
	require.NoError(t, err)
	second, err := policy.CalculatePremium(app)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestCalculatePremium_DeclinedRisk_AlwaysFails(t *testing.T) {
	// GIVEN: any application with declined risk class
	// WHEN: pricing
	// THEN: fails regardless of other fields, no premium computed

	for _, smoker := range []bool{true, false} {
		for _, age := range []int{18, 45, 85} {
			app := standardApp()
			app.Risk = policy.RiskDeclined
			app.Age = age
			app.Smoker = smoker

			_, err := policy.CalculatePremium(app)
			assert.ErrorIs(t, err, policy.ErrDeclinedRisk)
			assert.True(t, policy.IsClientError(err))
		}
	}
}

// =============================================================================
// APPLICATION VALIDATION
// =============================================================================

func TestApplication_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*policy.Application)
		field  string
	}{
		{"blank customer", func(a *policy.Application) { a.CustomerID = "  " }, "customer_id"},
		{"blank product", func(a *policy.Application) { a.ProductID = "" }, "product_id"},
		{"zero face amount", func(a *policy.Application) { a.FaceAmount = dec("0") }, "face_amount"},
		{"negative face amount", func(a *policy.Application) { a.FaceAmount = dec("-100") }, "face_amount"},
		{"under age", func(a *policy.Application) { a.Age = 17 }, "age"},
		{"over age", func(a *policy.Application) { a.Age = 86 }, "age"},
		{"unknown risk", func(a *policy.Application) { a.Risk = "platinum" }, "risk_class"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := standardApp()
			tc.mutate(&app)

			err := app.Validate()
			require.ErrorIs(t, err, policy.ErrInvalidApplication)

			var appErr *policy.InvalidApplicationError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestApplication_Validate_AgeBoundaries(t *testing.T) {
	// Ages 18 and 85 are inclusive bounds.
	for _, age := range []int{18, 85} {
		app := standardApp()
		app.Age = age
		assert.NoError(t, app.Validate(), "age %d should be valid", age)
	}
}
