/*
service.go - Orchestration of the four public use cases

PURPOSE:
  Composes the pure calculators and the transition guard against the
  collaborator interfaces. Each use case fails fast: every validation runs
  before the first side effect, so a failed request never leaves partial
  state behind.

USE CASES:
  Issue:               validate -> price -> assign number -> persist
  ChangeStatus:        find -> guard -> persist
  PayPremium:          find -> require active -> record attempt -> settle
  BorrowAgainstPolicy: find -> cash value -> eligibility -> record -> disburse

SEE ALSO:
  - premium.go, cashvalue.go, loan.go, status.go: The pure pieces
  - store.go: The collaborator contracts
*/
package policy

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service implements the policy use cases against injected collaborators.
type Service struct {
	store    Store
	payments PaymentArchive
	loans    LoanArchive
	events   EventLog
	ids      IDGenerator
	clock    Clock

	processor PaymentProcessor
	disburser LoanDisburser
}

// NewService wires a Service. All collaborators are required.
func NewService(
	store Store,
	payments PaymentArchive,
	loans LoanArchive,
	events EventLog,
	ids IDGenerator,
	clock Clock,
	processor PaymentProcessor,
	disburser LoanDisburser,
) *Service {
	return &Service{
		store:     store,
		payments:  payments,
		loans:     loans,
		events:    events,
		ids:       ids,
		clock:     clock,
		processor: processor,
		disburser: disburser,
	}
}

// =============================================================================
// ISSUE
// =============================================================================

// Issue validates an application, prices it, and persists a new policy.
// New policies go straight to active; underwriting review (pending) is a
// separate intake path not modeled here.
func (s *Service) Issue(ctx context.Context, app Application) (Policy, error) {
	if err := app.Validate(); err != nil {
		return Policy{}, err
	}

	premium, err := CalculatePremium(app)
	if err != nil {
		return Policy{}, err
	}

	now := s.clock.Now()
	p := Policy{
		Number:     s.ids.NextPolicyNumber(),
		CustomerID: app.CustomerID,
		ProductID:  app.ProductID,
		FaceAmount: app.FaceAmount,
		Premium:    premium,
		IssueDate:  now,
		Status:     StatusActive,
		UpdatedAt:  now,
	}

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return Policy{}, err
	}

	if err := s.events.AppendEvent(ctx, Event{
		ID:           s.ids.NextEventID(),
		PolicyNumber: saved.Number,
		Type:         EventIssued,
		ToStatus:     StatusActive,
		At:           now,
	}); err != nil {
		return Policy{}, err
	}

	return saved, nil
}

// =============================================================================
// CHANGE STATUS
// =============================================================================

// ChangeStatus applies a lifecycle transition if the table allows it.
func (s *Service) ChangeStatus(ctx context.Context, number string, next Status) (Policy, error) {
	p, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		return Policy{}, err
	}

	if err := Transition(p.Status, next); err != nil {
		return Policy{}, err
	}

	now := s.clock.Now()
	from := p.Status
	p.Status = next
	p.UpdatedAt = now

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return Policy{}, err
	}

	if err := s.events.AppendEvent(ctx, Event{
		ID:           s.ids.NextEventID(),
		PolicyNumber: saved.Number,
		Type:         EventStatusChanged,
		FromStatus:   from,
		ToStatus:     next,
		At:           now,
	}); err != nil {
		return Policy{}, err
	}

	return saved, nil
}

// =============================================================================
// PAY PREMIUM
// =============================================================================

// PayPremium records a payment attempt against an active policy and hands it
// to the external processor. The processor's result is returned as-is; retry
// policy belongs to the processor, and a retry shows up as a new Payment.
func (s *Service) PayPremium(ctx context.Context, number string, amount decimal.Decimal, method PaymentMethod) (PaymentResult, error) {
	if !amount.IsPositive() {
		return PaymentResult{}, ErrInvalidPayment
	}

	p, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		return PaymentResult{}, err
	}
	if p.Status != StatusActive {
		return PaymentResult{}, &NotActiveError{PolicyNumber: p.Number, Status: p.Status}
	}

	payment := Payment{
		ID:           s.ids.NextPaymentID(),
		PolicyNumber: p.Number,
		Amount:       amount,
		Method:       method,
		Date:         s.clock.Now(),
		Status:       PaymentProcessing,
	}

	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return PaymentResult{}, err
	}

	return s.processor.Process(ctx, payment)
}

// =============================================================================
// BORROW AGAINST POLICY
// =============================================================================

// BorrowAgainstPolicy validates a loan request against the policy's current
// cash value and delegates disbursement.
func (s *Service) BorrowAgainstPolicy(ctx context.Context, number string, requested decimal.Decimal) (LoanResult, error) {
	p, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		return LoanResult{}, err
	}

	now := s.clock.Now()
	cashValue := CashValueAt(p, now)

	loan, err := ApproveLoan(p.Number, requested, cashValue, now)
	if err != nil {
		return LoanResult{}, err
	}
	loan.ID = s.ids.NextLoanID()

	if err := s.loans.SaveLoan(ctx, loan); err != nil {
		return LoanResult{}, err
	}

	return s.disburser.Disburse(ctx, loan)
}

// =============================================================================
// READS
// =============================================================================

// Lookup returns a policy by number.
func (s *Service) Lookup(ctx context.Context, number string) (Policy, error) {
	return s.store.FindByNumber(ctx, number)
}

// CurrentCashValue returns the policy's cash value as of now.
func (s *Service) CurrentCashValue(ctx context.Context, number string) (decimal.Decimal, error) {
	p, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}
	return CashValueAt(p, s.clock.Now()), nil
}

// PaymentHistory lists recorded payment attempts for a policy.
func (s *Service) PaymentHistory(ctx context.Context, number string) ([]Payment, error) {
	if _, err := s.store.FindByNumber(ctx, number); err != nil {
		return nil, err
	}
	return s.payments.PaymentsByPolicy(ctx, number)
}

// LoanHistory lists disbursed loans for a policy.
func (s *Service) LoanHistory(ctx context.Context, number string) ([]Loan, error) {
	if _, err := s.store.FindByNumber(ctx, number); err != nil {
		return nil, err
	}
	return s.loans.LoansByPolicy(ctx, number)
}

// History lists lifecycle events for a policy.
func (s *Service) History(ctx context.Context, number string) ([]Event, error) {
	if _, err := s.store.FindByNumber(ctx, number); err != nil {
		return nil, err
	}
	return s.events.EventsByPolicy(ctx, number)
}
