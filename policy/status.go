/*
status.go - Lifecycle transition table

PURPOSE:
  A finite-state machine over the policy lifecycle. The table below is the
  single source of truth for which status changes are legal; everything off
  the table (self-transitions included) is rejected.

LIFECYCLE:
  pending ──> active, declined
  active  ──> lapsed, surrendered, matured
  lapsed  ──> active (reinstatement), surrendered
  surrendered, matured, declined: terminal

Issuance sets a policy directly to active; the pending stage exists in the
table for applications routed through underwriting review.
*/
package policy

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPending     Status = "pending"
	StatusActive      Status = "active"
	StatusLapsed      Status = "lapsed"
	StatusSurrendered Status = "surrendered"
	StatusMatured     Status = "matured"
	StatusDeclined    Status = "declined"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// =============================================================================
// TRANSITION TABLE - Directed adjacency, exhaustively testable
// =============================================================================

var transitions = map[Status][]Status{
	StatusPending:     {StatusActive, StatusDeclined},
	StatusActive:      {StatusLapsed, StatusSurrendered, StatusMatured},
	StatusLapsed:      {StatusActive, StatusSurrendered},
	StatusSurrendered: {},
	StatusMatured:     {},
	StatusDeclined:    {},
}

// CanTransition reports whether the edge from -> to is in the table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a requested status change. Pure check; the caller
// applies the new status and refreshes the timestamp on success.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	return nil
}
