/*
Package sqlite provides a SQLite-backed implementation of the policy
storage interfaces.

PURPOSE:
  Implements policy.Store, policy.PaymentArchive, policy.LoanArchive, and
  policy.EventLog using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  policies:      Current policy state, versioned for compare-and-swap saves
  payments:      Immutable record of payment attempts (no UPDATE/DELETE)
  loans:         Immutable record of disbursed loans (no UPDATE/DELETE)
  policy_events: Append-only lifecycle history (issued, status changes)

OPTIMISTIC CONCURRENCY:
  Save matches on the policy's version column:

    UPDATE policies SET ... , version = version + 1
    WHERE number = ? AND version = ?

  Zero rows affected on an existing policy means another writer got there
  first; the caller receives policy.ErrConcurrentModification and may retry
  from a fresh read.

MONEY:
  Decimal values are stored as TEXT and parsed back with shopspring/decimal,
  never as floating point.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/policies.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - policy/store.go: Interface definitions
  - policy/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/policy-engine/policy"
)

// Store implements the policy storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Policies (current state, versioned)
	CREATE TABLE IF NOT EXISTS policies (
		number TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		face_amount TEXT NOT NULL,
		premium TEXT NOT NULL,
		issue_date TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		version INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_policies_customer
		ON policies(customer_id);
	CREATE INDEX IF NOT EXISTS idx_policies_status
		ON policies(status);

	-- Payments (append-only: retries are new rows)
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		policy_number TEXT NOT NULL,
		amount TEXT NOT NULL,
		method TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_policy
		ON payments(policy_number, date);

	-- Loans (append-only)
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		policy_number TEXT NOT NULL,
		amount TEXT NOT NULL,
		interest_rate TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loans_policy
		ON loans(policy_number, date);

	-- Lifecycle events (append-only history)
	CREATE TABLE IF NOT EXISTS policy_events (
		id TEXT PRIMARY KEY,
		policy_number TEXT NOT NULL,
		event_type TEXT NOT NULL,
		from_status TEXT,
		to_status TEXT NOT NULL,
		at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_policy
		ON policy_events(policy_number, at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POLICY STORE (policy.Store interface)
// =============================================================================

// FindByNumber returns the policy, or policy.ErrPolicyNotFound.
func (s *Store) FindByNumber(ctx context.Context, number string) (policy.Policy, error) {
	query := `
		SELECT number, customer_id, product_id, face_amount, premium,
		       issue_date, status, updated_at, version
		FROM policies
		WHERE number = ?
	`

	var (
		p                    policy.Policy
		faceAmount, premium  string
		issueDate, updatedAt string
		status               string
	)
	err := s.db.QueryRowContext(ctx, query, number).Scan(
		&p.Number, &p.CustomerID, &p.ProductID, &faceAmount, &premium,
		&issueDate, &status, &updatedAt, &p.Version,
	)
	if err == sql.ErrNoRows {
		return policy.Policy{}, policy.ErrPolicyNotFound
	}
	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to query policy: %w", err)
	}

	p.Status = policy.Status(status)
	if p.FaceAmount, err = decimal.NewFromString(faceAmount); err != nil {
		return policy.Policy{}, fmt.Errorf("corrupt face_amount for %s: %w", number, err)
	}
	if p.Premium, err = decimal.NewFromString(premium); err != nil {
		return policy.Policy{}, fmt.Errorf("corrupt premium for %s: %w", number, err)
	}
	if p.IssueDate, err = time.Parse(time.RFC3339, issueDate); err != nil {
		return policy.Policy{}, fmt.Errorf("corrupt issue_date for %s: %w", number, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return policy.Policy{}, fmt.Errorf("corrupt updated_at for %s: %w", number, err)
	}

	return p, nil
}

// Save upserts with compare-and-swap on version. New policies carry
// version 0 and are inserted at version 1.
func (s *Store) Save(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	if p.Version == 0 {
		query := `
			INSERT INTO policies
			(number, customer_id, product_id, face_amount, premium,
			 issue_date, status, updated_at, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		`
		_, err := s.db.ExecContext(ctx, query,
			p.Number, p.CustomerID, p.ProductID,
			p.FaceAmount.String(), p.Premium.String(),
			p.IssueDate.Format(time.RFC3339), string(p.Status),
			p.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return policy.Policy{}, policy.ErrConcurrentModification
			}
			return policy.Policy{}, fmt.Errorf("failed to insert policy: %w", err)
		}
		p.Version = 1
		return p, nil
	}

	query := `
		UPDATE policies
		SET status = ?, updated_at = ?, version = version + 1
		WHERE number = ? AND version = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		string(p.Status), p.UpdatedAt.Format(time.RFC3339),
		p.Number, p.Version,
	)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to update policy: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or another writer bumped the version.
		if _, findErr := s.FindByNumber(ctx, p.Number); findErr != nil {
			return policy.Policy{}, findErr
		}
		return policy.Policy{}, policy.ErrConcurrentModification
	}

	p.Version++
	return p, nil
}

// =============================================================================
// PAYMENT ARCHIVE (policy.PaymentArchive interface)
// =============================================================================

// SavePayment appends a payment attempt. Append-only.
func (s *Store) SavePayment(ctx context.Context, p policy.Payment) error {
	query := `
		INSERT INTO payments (id, policy_number, amount, method, date, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.PolicyNumber, p.Amount.String(), string(p.Method),
		p.Date.Format(time.RFC3339), string(p.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *Store) PaymentsByPolicy(ctx context.Context, policyNumber string) ([]policy.Payment, error) {
	query := `
		SELECT id, policy_number, amount, method, date, status
		FROM payments
		WHERE policy_number = ?
		ORDER BY date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, policyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []policy.Payment
	for rows.Next() {
		var (
			p              policy.Payment
			amount, date   string
			method, status string
		)
		if err := rows.Scan(&p.ID, &p.PolicyNumber, &amount, &method, &date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt payment amount: %w", err)
		}
		if p.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("corrupt payment date: %w", err)
		}
		p.Method = policy.PaymentMethod(method)
		p.Status = policy.PaymentStatus(status)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// LOAN ARCHIVE (policy.LoanArchive interface)
// =============================================================================

// SaveLoan appends a disbursed loan. Append-only.
func (s *Store) SaveLoan(ctx context.Context, l policy.Loan) error {
	query := `
		INSERT INTO loans (id, policy_number, amount, interest_rate, date, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.PolicyNumber, l.Amount.String(), l.InterestRate.String(),
		l.Date.Format(time.RFC3339), string(l.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

func (s *Store) LoansByPolicy(ctx context.Context, policyNumber string) ([]policy.Loan, error) {
	query := `
		SELECT id, policy_number, amount, interest_rate, date, status
		FROM loans
		WHERE policy_number = ?
		ORDER BY date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, policyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []policy.Loan
	for rows.Next() {
		var (
			l                  policy.Loan
			amount, rate, date string
			status             string
		)
		if err := rows.Scan(&l.ID, &l.PolicyNumber, &amount, &rate, &date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if l.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt loan amount: %w", err)
		}
		if l.InterestRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("corrupt loan rate: %w", err)
		}
		if l.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("corrupt loan date: %w", err)
		}
		l.Status = policy.LoanStatus(status)
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// =============================================================================
// EVENT LOG (policy.EventLog interface)
// =============================================================================

// AppendEvent appends a lifecycle event. Append-only.
func (s *Store) AppendEvent(ctx context.Context, e policy.Event) error {
	query := `
		INSERT INTO policy_events (id, policy_number, event_type, from_status, to_status, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.PolicyNumber, string(e.Type),
		string(e.FromStatus), string(e.ToStatus),
		e.At.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (s *Store) EventsByPolicy(ctx context.Context, policyNumber string) ([]policy.Event, error) {
	query := `
		SELECT id, policy_number, event_type, from_status, to_status, at
		FROM policy_events
		WHERE policy_number = ?
		ORDER BY at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, policyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []policy.Event
	for rows.Next() {
		var (
			e                       policy.Event
			eventType, from, to, at string
		)
		if err := rows.Scan(&e.ID, &e.PolicyNumber, &eventType, &from, &to, &at); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = policy.EventType(eventType)
		e.FromStatus = policy.Status(from)
		e.ToStatus = policy.Status(to)
		if e.At, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("corrupt event time: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time interface checks
var (
	_ policy.Store          = (*Store)(nil)
	_ policy.PaymentArchive = (*Store)(nil)
	_ policy.LoanArchive    = (*Store)(nil)
	_ policy.EventLog       = (*Store)(nil)
)
