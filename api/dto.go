/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Money travels
  as decimal strings, never as JSON floats.

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them before touching the domain. Domain-level rules (age bands, risk
  classes, transition table) still live in the policy package - the tags
  only reject structurally broken payloads early.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/policy-engine/policy"
)

// =============================================================================
// REQUESTS
// =============================================================================

// IssuePolicyRequest is the request to issue a new policy.
type IssuePolicyRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	FaceAmount string `json:"face_amount" validate:"required"`
	Age        int    `json:"age" validate:"required"`
	RiskClass  string `json:"risk_class" validate:"required,oneof=preferred standard substandard declined"`
	Smoker     bool   `json:"smoker"`
}

// ChangeStatusRequest is the request to move a policy through its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PayPremiumRequest is the request to pay a premium.
type PayPremiumRequest struct {
	Amount string `json:"amount" validate:"required"`
	Method string `json:"method" validate:"required,oneof=bank_transfer card check payroll_deduction"`
}

// BorrowRequest is the request to borrow against cash value.
type BorrowRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// QuoteRequest prices an application without issuing anything.
type QuoteRequest struct {
	FaceAmount string `json:"face_amount" validate:"required"`
	Age        int    `json:"age" validate:"required"`
	RiskClass  string `json:"risk_class" validate:"required,oneof=preferred standard substandard declined"`
	Smoker     bool   `json:"smoker"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// PolicyDTO represents a policy in API responses.
type PolicyDTO struct {
	Number     string `json:"number"`
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	FaceAmount string `json:"face_amount"`
	Premium    string `json:"premium"`
	IssueDate  string `json:"issue_date"`
	Status     string `json:"status"`
	UpdatedAt  string `json:"updated_at"`
	Version    int    `json:"version"`
}

func toPolicyDTO(p policy.Policy) PolicyDTO {
	return PolicyDTO{
		Number:     p.Number,
		CustomerID: p.CustomerID,
		ProductID:  p.ProductID,
		FaceAmount: p.FaceAmount.StringFixed(2),
		Premium:    p.Premium.StringFixed(2),
		IssueDate:  p.IssueDate.Format(time.RFC3339),
		Status:     string(p.Status),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
		Version:    p.Version,
	}
}

// PaymentResultDTO is the processor's answer to a premium payment.
type PaymentResultDTO struct {
	PaymentID          string `json:"payment_id"`
	Status             string `json:"status"`
	ConfirmationNumber string `json:"confirmation_number"`
}

// LoanResultDTO is the disburser's answer to a loan request.
type LoanResultDTO struct {
	LoanID           string `json:"loan_id"`
	Status           string `json:"status"`
	DisbursementDate string `json:"disbursement_date"`
}

// PaymentDTO represents a recorded payment attempt.
type PaymentDTO struct {
	ID           string `json:"id"`
	PolicyNumber string `json:"policy_number"`
	Amount       string `json:"amount"`
	Method       string `json:"method"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// LoanDTO represents a disbursed loan.
type LoanDTO struct {
	ID           string `json:"id"`
	PolicyNumber string `json:"policy_number"`
	Amount       string `json:"amount"`
	InterestRate string `json:"interest_rate"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// EventDTO represents one lifecycle history entry.
type EventDTO struct {
	ID           string `json:"id"`
	PolicyNumber string `json:"policy_number"`
	Type         string `json:"type"`
	FromStatus   string `json:"from_status,omitempty"`
	ToStatus     string `json:"to_status"`
	At           string `json:"at"`
}

// CashValueDTO reports the policy's current cash value and borrowing limit.
type CashValueDTO struct {
	PolicyNumber string `json:"policy_number"`
	CashValue    string `json:"cash_value"`
	MaxLoan      string `json:"max_loan"`
}

// QuoteDTO reports a premium quote.
type QuoteDTO struct {
	Premium string `json:"premium"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
