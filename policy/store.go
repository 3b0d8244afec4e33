/*
store.go - Collaborator contracts consumed by the orchestrator

PURPOSE:
  Defines the interfaces between the policy core and the outside world.
  The core never touches a database, a payment rail, or a random number
  generator directly; everything side-effecting is behind one of these.

KEY INTERFACES:
  Store:            Policy persistence (find, compare-and-swap save)
  PaymentArchive:   Immutable record of payment attempts
  LoanArchive:      Immutable record of disbursed loans
  EventLog:         Append-only lifecycle history
  IDGenerator:      Unique identifiers (policy numbers, payment IDs, ...)
  PaymentProcessor: External settlement of a payment
  LoanDisburser:    External disbursement of an approved loan

CONCURRENCY:
  Save is a compare-and-swap: it matches on the policy's Version, bumps it,
  and fails with ErrConcurrentModification on mismatch. This keeps
  read-modify-write use cases (status change, payment) safe against lost
  updates without the core knowing anything about the store's engine.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - policy/store: In-memory for tests and dev, plus fake processors

SEE ALSO:
  - service.go: The only consumer of these interfaces
*/
package policy

import (
	"context"
	"time"
)

// =============================================================================
// PERSISTENCE
// =============================================================================

// Store persists policies.
type Store interface {
	// FindByNumber returns the policy, or ErrPolicyNotFound.
	FindByNumber(ctx context.Context, number string) (Policy, error)

	// Save upserts the policy and returns the persisted value with its
	// version bumped. An update whose Version does not match the stored
	// row fails with ErrConcurrentModification.
	Save(ctx context.Context, p Policy) (Policy, error)
}

// PaymentArchive records payment attempts. Append-only: a retry is a new
// record, never an update.
type PaymentArchive interface {
	SavePayment(ctx context.Context, p Payment) error
	PaymentsByPolicy(ctx context.Context, policyNumber string) ([]Payment, error)
}

// LoanArchive records disbursed loans. Append-only.
type LoanArchive interface {
	SaveLoan(ctx context.Context, l Loan) error
	LoansByPolicy(ctx context.Context, policyNumber string) ([]Loan, error)
}

// =============================================================================
// EVENT LOG - Append-only lifecycle history
// =============================================================================

type EventType string

const (
	EventIssued        EventType = "issued"
	EventStatusChanged EventType = "status_changed"
)

// Event is one entry in a policy's lifecycle history.
type Event struct {
	ID           string
	PolicyNumber string
	Type         EventType
	FromStatus   Status
	ToStatus     Status
	At           time.Time
}

// EventLog stores lifecycle events. Append-only; no Update, no Delete.
type EventLog interface {
	AppendEvent(ctx context.Context, e Event) error
	EventsByPolicy(ctx context.Context, policyNumber string) ([]Event, error)
}

// =============================================================================
// IDENTIFIERS AND TIME
// =============================================================================

// IDGenerator produces unique identifiers. Collision-freedom is the
// implementation's contract.
type IDGenerator interface {
	NextPolicyNumber() string
	NextPaymentID() string
	NextConfirmationNumber() string
	NextLoanID() string
	NextEventID() string
}

// Clock abstracts "now" so the core stays deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct{ At time.Time }

func (c FixedClock) Now() time.Time { return c.At }

// =============================================================================
// EXTERNAL PROCESSORS
// =============================================================================

// PaymentProcessor settles a payment. Transient failures and retry policy
// are the processor's responsibility, not the core's.
type PaymentProcessor interface {
	Process(ctx context.Context, p Payment) (PaymentResult, error)
}

// LoanDisburser pays out an approved loan.
type LoanDisburser interface {
	Disburse(ctx context.Context, l Loan) (LoanResult, error)
}
