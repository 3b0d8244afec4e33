// Package store provides in-memory collaborator implementations for tests
// and local development, plus ID generators and instant processors.
package store

import (
	"context"
	"sync"

	"github.com/warp/policy-engine/policy"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements policy.Store, policy.PaymentArchive, policy.LoanArchive,
// and policy.EventLog with map-backed storage.
type Memory struct {
	mu       sync.RWMutex
	policies map[string]policy.Policy
	payments map[string][]policy.Payment
	loans    map[string][]policy.Loan
	events   map[string][]policy.Event
}

func NewMemory() *Memory {
	return &Memory{
		policies: make(map[string]policy.Policy),
		payments: make(map[string][]policy.Payment),
		loans:    make(map[string][]policy.Loan),
		events:   make(map[string][]policy.Event),
	}
}

func (m *Memory) FindByNumber(_ context.Context, number string) (policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.policies[number]
	if !ok {
		return policy.Policy{}, policy.ErrPolicyNotFound
	}
	return p, nil
}

// Save upserts with a compare-and-swap on Version. New policies must carry
// Version 0 and are stored at Version 1.
func (m *Memory) Save(_ context.Context, p policy.Policy) (policy.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.policies[p.Number]
	if exists && current.Version != p.Version {
		return policy.Policy{}, policy.ErrConcurrentModification
	}
	if !exists && p.Version != 0 {
		return policy.Policy{}, policy.ErrConcurrentModification
	}

	p.Version++
	m.policies[p.Number] = p
	return p, nil
}

// SavePayment appends a payment record. Append-only.
func (m *Memory) SavePayment(_ context.Context, p policy.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.PolicyNumber] = append(m.payments[p.PolicyNumber], p)
	return nil
}

func (m *Memory) PaymentsByPolicy(_ context.Context, policyNumber string) ([]policy.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]policy.Payment, len(m.payments[policyNumber]))
	copy(result, m.payments[policyNumber])
	return result, nil
}

// SaveLoan appends a loan record. Append-only.
func (m *Memory) SaveLoan(_ context.Context, l policy.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[l.PolicyNumber] = append(m.loans[l.PolicyNumber], l)
	return nil
}

func (m *Memory) LoansByPolicy(_ context.Context, policyNumber string) ([]policy.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]policy.Loan, len(m.loans[policyNumber]))
	copy(result, m.loans[policyNumber])
	return result, nil
}

// AppendEvent appends a lifecycle event. Append-only.
func (m *Memory) AppendEvent(_ context.Context, e policy.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.PolicyNumber] = append(m.events[e.PolicyNumber], e)
	return nil
}

func (m *Memory) EventsByPolicy(_ context.Context, policyNumber string) ([]policy.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]policy.Event, len(m.events[policyNumber]))
	copy(result, m.events[policyNumber])
	return result, nil
}

// Compile-time interface checks
var (
	_ policy.Store          = (*Memory)(nil)
	_ policy.PaymentArchive = (*Memory)(nil)
	_ policy.LoanArchive    = (*Memory)(nil)
	_ policy.EventLog       = (*Memory)(nil)
)
