/*
loan.go - Loan eligibility against cash value

PURPOSE:
  A policyholder may borrow up to 90% of the accrued cash value. The limit
  is a monetary amount and is rounded to 2 fractional digits before the
  comparison, so a request equal to the rounded limit succeeds.

  Approved loans carry a fixed 5.5% interest rate. Disbursement is the
  external collaborator's job; this is pure validation.
*/
package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LOAN PARAMETERS
// =============================================================================

var (
	// maxLoanRatio caps borrowing at this share of cash value.
	maxLoanRatio = MustParseDecimal("0.9")

	// LoanInterestRate is the fixed annual rate on policy loans.
	LoanInterestRate = MustParseDecimal("0.055")
)

// MaxLoan returns the borrowing limit for a given cash value, rounded to
// 2 fractional digits.
func MaxLoan(cashValue decimal.Decimal) decimal.Decimal {
	return RoundMoney(cashValue.Mul(maxLoanRatio))
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// ApproveLoan validates a requested loan amount against the policy's cash
// value. On success it returns an approved loan descriptor (without an ID;
// the orchestrator assigns one at disbursement). Fails with a LoanLimitError
// if the request is strictly greater than the limit.
func ApproveLoan(policyNumber string, requested, cashValue decimal.Decimal, asOf time.Time) (Loan, error) {
	limit := MaxLoan(cashValue)
	if requested.GreaterThan(limit) {
		return Loan{}, &LoanLimitError{Requested: requested, MaxLoan: limit, CashValue: cashValue}
	}

	return Loan{
		PolicyNumber: policyNumber,
		Amount:       requested,
		InterestRate: LoanInterestRate,
		Date:         asOf,
		Status:       LoanActive,
	}, nil
}
