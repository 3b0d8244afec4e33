/*
Package policy implements the financial core of a life insurance policy:
premium pricing, cash value accrual, loan eligibility, and the lifecycle
state machine.

PURPOSE:
  This package contains the pure calculation rules and the status guard
  that governs legal lifecycle changes. Everything with a side effect
  (persistence, payment settlement, loan disbursement, ID generation)
  lives behind the narrow collaborator interfaces in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Application: What an applicant submits before issuance
  - Policy: The issued contract (root entity, versioned for CAS saves)
  - Payment: One premium payment attempt (immutable; retries are new records)
  - Loan: A loan taken against the policy's cash value
  - RiskClass / Status / payment and loan enums

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Immutability: Payments are never modified; Policy mutates only
     through status transitions
  3. Determinism: Calculators are pure functions of their inputs;
     time and IDs come from injected collaborators

SEE ALSO:
  - premium.go: Rating-factor premium pricing
  - cashvalue.go: Year-by-year cash value accumulation
  - status.go: Lifecycle transition table
  - service.go: Orchestration of the four use cases
*/
package policy

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RISK CLASSIFICATION
// =============================================================================

type RiskClass string

const (
	RiskPreferred   RiskClass = "preferred"
	RiskStandard    RiskClass = "standard"
	RiskSubstandard RiskClass = "substandard"
	RiskDeclined    RiskClass = "declined"
)

// Valid reports whether r is one of the known risk classes.
func (r RiskClass) Valid() bool {
	switch r {
	case RiskPreferred, RiskStandard, RiskSubstandard, RiskDeclined:
		return true
	}
	return false
}

// =============================================================================
// APPLICATION - What an applicant submits before issuance
// =============================================================================

const (
	MinIssueAge = 18
	MaxIssueAge = 85
)

type Application struct {
	CustomerID string
	ProductID  string
	FaceAmount decimal.Decimal
	Age        int
	Risk       RiskClass
	Smoker     bool
}

// Validate checks issuance preconditions. A Declined risk class is caught
// later by the premium calculator, not here: an application carrying it is
// well-formed, just unpriceable.
func (a Application) Validate() error {
	if strings.TrimSpace(a.CustomerID) == "" {
		return &InvalidApplicationError{Field: "customer_id", Reason: "must not be blank"}
	}
	if strings.TrimSpace(a.ProductID) == "" {
		return &InvalidApplicationError{Field: "product_id", Reason: "must not be blank"}
	}
	if !a.FaceAmount.IsPositive() {
		return &InvalidApplicationError{Field: "face_amount", Reason: "must be positive"}
	}
	if a.Age < MinIssueAge || a.Age > MaxIssueAge {
		return &InvalidApplicationError{Field: "age", Reason: "must be between 18 and 85"}
	}
	if !a.Risk.Valid() {
		return &InvalidApplicationError{Field: "risk_class", Reason: "unknown risk class"}
	}
	return nil
}

// =============================================================================
// POLICY - Root entity, created once at issuance
// =============================================================================

// WholeLifePrefix marks product IDs that accrue cash value.
const WholeLifePrefix = "WL"

// IsWholeLife reports whether a product accrues cash value.
func IsWholeLife(productID string) bool {
	return strings.HasPrefix(productID, WholeLifePrefix)
}

// Policy is the issued contract. FaceAmount and Premium are immutable after
// issuance; Status and UpdatedAt change only through status transitions.
// Version supports compare-and-swap saves (see Store).
type Policy struct {
	Number     string
	CustomerID string
	ProductID  string
	FaceAmount decimal.Decimal
	Premium    decimal.Decimal // monthly, 2 fractional digits, set at issuance
	IssueDate  time.Time
	Status     Status
	UpdatedAt  time.Time
	Version    int
}

// YearsInForce returns the number of whole policy years elapsed between the
// issue date and asOf, floored. Negative spans floor to zero.
func (p Policy) YearsInForce(asOf time.Time) int {
	years := asOf.Year() - p.IssueDate.Year()
	anniversary := p.IssueDate.AddDate(years, 0, 0)
	if anniversary.After(asOf) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// =============================================================================
// PAYMENT - One premium payment attempt
// =============================================================================

type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodCheck        PaymentMethod = "check"
	MethodPayroll      PaymentMethod = "payroll_deduction"
)

type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// Payment records a single payment attempt. Never mutated after creation;
// a retry produces a fresh record with a fresh ID.
type Payment struct {
	ID           string
	PolicyNumber string
	Amount       decimal.Decimal
	Method       PaymentMethod
	Date         time.Time
	Status       PaymentStatus
}

// PaymentResult is what the external payment processor reports back.
type PaymentResult struct {
	PaymentID          string
	Status             PaymentStatus
	ConfirmationNumber string
}

// =============================================================================
// LOAN - Borrowing against accrued cash value
// =============================================================================

type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaidOff   LoanStatus = "paid_off"
	LoanDefaulted LoanStatus = "defaulted"
)

// Loan is created at disbursement. Repayment is out of scope here; status
// transitions belong to the servicing system.
type Loan struct {
	ID           string
	PolicyNumber string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	Date         time.Time
	Status       LoanStatus
}

// LoanResult is what the external disbursement service reports back.
type LoanResult struct {
	LoanID           string
	Status           LoanStatus
	DisbursementDate time.Time
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// MustParseDecimal parses s, returning zero on malformed input. Intended for
// constants and test fixtures where the input is known good.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds a monetary amount to 2 fractional digits, half up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
