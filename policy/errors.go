/*
errors.go - Centralized error types for the policy core

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Every failure here is a local, synchronous validation failure raised
  before any side effect; no partial state is ever written.

ERROR CATEGORIES:
  1. Issuance errors - Malformed applications, unpriceable risks
  2. Lifecycle errors - Illegal status transitions, inactive policies
  3. Loan errors - Requests over the borrowing limit
  4. Store errors - Missing policies, concurrent modification

USAGE:
  Callers match with errors.Is():

    if errors.Is(err, policy.ErrPolicyNotFound) {
        return http.StatusNotFound
    }

SEE ALSO:
  - service.go: Raises these before delegating side effects
  - status.go: Raises IllegalTransitionError
*/
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidApplication is returned when an issuance request is malformed.
	ErrInvalidApplication = errors.New("invalid application")

	// ErrDeclinedRisk is returned when a premium is requested for a declined
	// risk class. No premium is ever computed for declined risks.
	ErrDeclinedRisk = errors.New("declined risk class cannot be priced")

	// ErrPolicyNotFound is returned when a policy number is unknown.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrIllegalTransition is returned when a status change is not in the
	// lifecycle transition table.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrPolicyNotActive is returned when a premium payment targets a policy
	// that is not Active.
	ErrPolicyNotActive = errors.New("policy is not active")

	// ErrLoanExceedsLimit is returned when a loan request exceeds 90% of the
	// policy's cash value.
	ErrLoanExceedsLimit = errors.New("loan exceeds borrowing limit")

	// ErrInvalidPayment is returned when a payment amount is not positive.
	ErrInvalidPayment = errors.New("invalid payment amount")

	// ErrConcurrentModification is returned when a compare-and-swap save
	// detects that the stored policy changed underneath us.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidApplicationError names the offending field of an application.
type InvalidApplicationError struct {
	Field  string
	Reason string
}

func (e *InvalidApplicationError) Error() string {
	return fmt.Sprintf("invalid application: %s %s", e.Field, e.Reason)
}

func (e *InvalidApplicationError) Unwrap() error { return ErrInvalidApplication }

// IllegalTransitionError records the rejected edge.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

// NotActiveError records the actual status that blocked a payment.
type NotActiveError struct {
	PolicyNumber string
	Status       Status
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("policy %s is %s, premium payments require active status",
		e.PolicyNumber, e.Status)
}

func (e *NotActiveError) Unwrap() error { return ErrPolicyNotActive }

// LoanLimitError records the limit arithmetic for a rejected loan.
type LoanLimitError struct {
	Requested decimal.Decimal
	MaxLoan   decimal.Decimal
	CashValue decimal.Decimal
}

func (e *LoanLimitError) Error() string {
	return fmt.Sprintf("loan of %s exceeds limit %s (90%% of cash value %s)",
		e.Requested, e.MaxLoan, e.CashValue)
}

func (e *LoanLimitError) Unwrap() error { return ErrLoanExceedsLimit }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidApplication) ||
		errors.Is(err, ErrDeclinedRisk) ||
		errors.Is(err, ErrIllegalTransition) ||
		errors.Is(err, ErrPolicyNotActive) ||
		errors.Is(err, ErrLoanExceedsLimit) ||
		errors.Is(err, ErrInvalidPayment)
}

// IsNotFound returns true if the error indicates a missing policy.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
