package store

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/warp/policy-engine/policy"
)

// =============================================================================
// UUID GENERATOR - Production identifiers
// =============================================================================

// UUIDs generates collision-free identifiers backed by random UUIDs.
// Policy numbers get a readable POL- prefix; the rest are bare UUIDs.
type UUIDs struct{}

func NewUUIDs() UUIDs { return UUIDs{} }

func (UUIDs) NextPolicyNumber() string {
	return "POL-" + strings.ToUpper(uuid.NewString()[:8])
}

func (UUIDs) NextPaymentID() string          { return "PAY-" + uuid.NewString() }
func (UUIDs) NextConfirmationNumber() string { return "CONF-" + uuid.NewString() }
func (UUIDs) NextLoanID() string             { return "LOAN-" + uuid.NewString() }
func (UUIDs) NextEventID() string            { return uuid.NewString() }

// =============================================================================
// SEQUENCE GENERATOR - Deterministic identifiers for tests
// =============================================================================

// Sequence generates predictable identifiers (POL-1, PAY-2, ...) so tests
// can assert on exact values.
type Sequence struct {
	n atomic.Int64
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}

func (s *Sequence) NextPolicyNumber() string       { return s.next("POL") }
func (s *Sequence) NextPaymentID() string          { return s.next("PAY") }
func (s *Sequence) NextConfirmationNumber() string { return s.next("CONF") }
func (s *Sequence) NextLoanID() string             { return s.next("LOAN") }
func (s *Sequence) NextEventID() string            { return s.next("EVT") }

var (
	_ policy.IDGenerator = UUIDs{}
	_ policy.IDGenerator = (*Sequence)(nil)
)
