package store

import (
	"context"

	"github.com/warp/policy-engine/policy"
)

// =============================================================================
// INSTANT PROCESSORS - Dev/demo collaborators that always succeed
// =============================================================================
// Real deployments plug in gateway-backed implementations; the core only
// sees the interfaces.

// InstantPayments completes every payment immediately.
type InstantPayments struct {
	IDs policy.IDGenerator
}

func (p InstantPayments) Process(_ context.Context, payment policy.Payment) (policy.PaymentResult, error) {
	return policy.PaymentResult{
		PaymentID:          payment.ID,
		Status:             policy.PaymentCompleted,
		ConfirmationNumber: p.IDs.NextConfirmationNumber(),
	}, nil
}

// InstantLoans disburses every approved loan immediately.
type InstantLoans struct {
	Clock policy.Clock
}

func (d InstantLoans) Disburse(_ context.Context, loan policy.Loan) (policy.LoanResult, error) {
	return policy.LoanResult{
		LoanID:           loan.ID,
		Status:           policy.LoanActive,
		DisbursementDate: d.Clock.Now(),
	}, nil
}

var (
	_ policy.PaymentProcessor = InstantPayments{}
	_ policy.LoanDisburser    = InstantLoans{}
)
