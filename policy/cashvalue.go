/*
cashvalue.go - Year-by-year cash value accumulation

PURPOSE:
  Simulates how a whole-life policy's savings component grows: each policy
  year, the net premium (after expenses) is added to the running balance,
  and then the WHOLE balance compounds at the annual interest rate.

ORDER MATTERS:
  The loop is add-then-compound-the-entire-balance each iteration. This is
  not the same as compounding each year's contribution separately: prior
  years' balances earn interest again every year. Preserve the order.

EXAMPLE:
  monthly premium 80.00, 1 year in force:
  yearly = 960.00, expenses = 144.00, net = 816.00
  cash value = 816.00 × 1.04 = 848.64

Term products (no whole-life prefix) have no savings component; their cash
value is exactly zero regardless of years in force.
*/
package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCRUAL PARAMETERS
// =============================================================================

var (
	// expenseRatio is the share of each yearly premium consumed by expenses.
	expenseRatio = MustParseDecimal("0.15")

	// annualInterestRate credited on the whole accumulated balance each year.
	annualInterestRate = MustParseDecimal("0.04")

	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
)

// =============================================================================
// CASH VALUE
// =============================================================================

// CashValue computes the accumulated cash value after yearsInForce whole
// policy years. Non-cash-value products yield exactly zero. The final amount
// is rounded half-up to 2 fractional digits; the accumulator itself is never
// rounded mid-loop.
func CashValue(p Policy, yearsInForce int) decimal.Decimal {
	if !IsWholeLife(p.ProductID) {
		return decimal.Zero
	}

	yearlyPremium := p.Premium.Mul(monthsPerYear)
	expenses := yearlyPremium.Mul(expenseRatio)
	netPremium := yearlyPremium.Sub(expenses)
	growth := one.Add(annualInterestRate)

	accumulated := decimal.Zero
	for year := 1; year <= yearsInForce; year++ {
		accumulated = accumulated.Add(netPremium)
		accumulated = accumulated.Mul(growth)
	}

	return RoundMoney(accumulated)
}

// CashValueAt computes the cash value as of a given date, flooring the
// in-force span to whole years.
func CashValueAt(p Policy, asOf time.Time) decimal.Decimal {
	return CashValue(p, p.YearsInForce(asOf))
}
