package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/policy-engine/policy"
)

func wholeLifePolicy(monthlyPremium string) policy.Policy {
	return policy.Policy{
		Number:     "POL-1",
		CustomerID: "cust-1",
		ProductID:  "WL-100",
		FaceAmount: dec("100000"),
		Premium:    dec(monthlyPremium),
		IssueDate:  time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:     policy.StatusActive,
	}
}

// =============================================================================
// CASH VALUE ACCRUAL
// =============================================================================

func TestCashValue_WorkedExample_OneYear(t *testing.T) {
	// GIVEN: whole-life policy with monthly premium 80.00, 1 year in force
	// WHEN: computing cash value
	// THEN: yearly 960.00, expenses 144.00, net 816.00, × 1.04 = 848.64

	cv := policy.CashValue(wholeLifePolicy("80.00"), 1)
	assert.True(t, cv.Equal(dec("848.64")), "got %s", cv)
}

func TestCashValue_TwoYears_CompoundsWholeBalance(t *testing.T) {
	// The running total compounds each year, not each cohort separately:
	// year 1: 816 × 1.04 = 848.64
	// year 2: (848.64 + 816) × 1.04 = 1731.2256 -> 1731.23

	cv := policy.CashValue(wholeLifePolicy("80.00"), 2)
	assert.True(t, cv.Equal(dec("1731.23")), "got %s", cv)
}

func TestCashValue_TermProduct_AlwaysZero(t *testing.T) {
	p := wholeLifePolicy("80.00")
	p.ProductID = "TERM-20"

	for _, years := range []int{0, 1, 10, 40} {
		cv := policy.CashValue(p, years)
		assert.True(t, cv.IsZero(), "term product should have zero cash value at %d years", years)
	}
}

func TestCashValue_ZeroOrNegativeYears(t *testing.T) {
	p := wholeLifePolicy("80.00")
	assert.True(t, policy.CashValue(p, 0).IsZero())
	assert.True(t, policy.CashValue(p, -3).IsZero())
}

func TestCashValue_MonotonicInYearsInForce(t *testing.T) {
	// With a positive premium, each extra year adds net premium and then
	// grows the whole balance, so cash value never decreases.
	p := wholeLifePolicy("123.45")

	prev := policy.CashValue(p, 0)
	for years := 1; years <= 30; years++ {
		cv := policy.CashValue(p, years)
		assert.True(t, cv.GreaterThanOrEqual(prev), "cash value decreased at year %d: %s -> %s", years, prev, cv)
		prev = cv
	}
}

// =============================================================================
// YEARS IN FORCE
// =============================================================================

func TestPolicy_YearsInForce_FloorsToWholeYears(t *testing.T) {
	p := wholeLifePolicy("80.00") // issued 2020-03-15

	cases := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"same day", time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), 0},
		{"day before anniversary", time.Date(2021, time.March, 14, 0, 0, 0, 0, time.UTC), 0},
		{"on anniversary", time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC), 1},
		{"mid second year", time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC), 1},
		{"five years later", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), 5},
		{"before issue", time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.YearsInForce(tc.asOf))
		})
	}
}

func TestCashValueAt_UsesWholeYears(t *testing.T) {
	// 11 months in force floors to 0 years: no accrual yet.
	p := wholeLifePolicy("80.00")
	cv := policy.CashValueAt(p, time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, cv.IsZero())
}
