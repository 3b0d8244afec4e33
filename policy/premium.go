/*
premium.go - Rating-factor premium pricing

PURPOSE:
  Derives a monthly premium from applicant attributes via multiplicative
  rating factors:

    premium = faceAmount × 0.001 × ageFactor × riskFactor × smokingFactor

  rounded half-up to 2 fractional digits. Pure and deterministic.

RATING FACTORS:
  Age:     <30 → 0.8   30-39 → 1.0   40-49 → 1.2   50-59 → 1.5   ≥60 → 2.0
  Risk:    preferred → 0.9   standard → 1.0   substandard → 1.3
           declined → no premium, pricing fails
  Smoking: smoker → 1.5   non-smoker → 1.0

EXAMPLE:
  face 100000, age 25, standard, non-smoker:
  100000 × 0.001 = 100, × 0.8 = 80, × 1.0 × 1.0 → 80.00
*/
package policy

import "github.com/shopspring/decimal"

// =============================================================================
// RATING TABLES
// =============================================================================

// baseRate converts face amount to the monthly base premium.
var baseRate = MustParseDecimal("0.001")

var riskFactors = map[RiskClass]decimal.Decimal{
	RiskPreferred:   MustParseDecimal("0.9"),
	RiskStandard:    MustParseDecimal("1.0"),
	RiskSubstandard: MustParseDecimal("1.3"),
	// RiskDeclined has no factor: pricing fails before lookup.
}

var (
	smokerFactor    = MustParseDecimal("1.5")
	nonSmokerFactor = MustParseDecimal("1.0")
)

// AgeFactor returns the multiplicative age band factor.
func AgeFactor(age int) decimal.Decimal {
	switch {
	case age < 30:
		return MustParseDecimal("0.8")
	case age < 40:
		return MustParseDecimal("1.0")
	case age < 50:
		return MustParseDecimal("1.2")
	case age < 60:
		return MustParseDecimal("1.5")
	default:
		return MustParseDecimal("2.0")
	}
}

// =============================================================================
// PREMIUM CALCULATION
// =============================================================================

// CalculatePremium prices an application. Fails with ErrDeclinedRisk before
// computing anything if the risk class is declined.
func CalculatePremium(app Application) (decimal.Decimal, error) {
	if app.Risk == RiskDeclined {
		return decimal.Zero, ErrDeclinedRisk
	}

	risk, ok := riskFactors[app.Risk]
	if !ok {
		return decimal.Zero, &InvalidApplicationError{Field: "risk_class", Reason: "unknown risk class"}
	}

	smoking := nonSmokerFactor
	if app.Smoker {
		smoking = smokerFactor
	}

	premium := app.FaceAmount.
		Mul(baseRate).
		Mul(AgeFactor(app.Age)).
		Mul(risk).
		Mul(smoking)

	return RoundMoney(premium), nil
}
