package policy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/policy-engine/policy"
	"github.com/warp/policy-engine/policy/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*policy.Service, *store.Memory, *store.Sequence) {
	t.Helper()
	mem := store.NewMemory()
	ids := store.NewSequence()
	clock := policy.FixedClock{At: testNow}

	svc := policy.NewService(
		mem, mem, mem, mem,
		ids,
		clock,
		store.InstantPayments{IDs: ids},
		store.InstantLoans{Clock: clock},
	)
	return svc, mem, ids
}

func issueStandard(t *testing.T, svc *policy.Service) policy.Policy {
	t.Helper()
	p, err := svc.Issue(context.Background(), standardApp())
	require.NoError(t, err)
	return p
}

// =============================================================================
// ISSUE
// =============================================================================

func TestIssue_HappyPath(t *testing.T) {
	// GIVEN: a valid standard application
	// WHEN: issuing
	// THEN: policy is active, priced at 80.00, numbered, and persisted

	svc, mem, _ := newTestService(t)
	p := issueStandard(t, svc)

	assert.Equal(t, "POL-1", p.Number)
	assert.Equal(t, policy.StatusActive, p.Status, "issuance bypasses pending")
	assert.True(t, p.Premium.Equal(dec("80.00")))
	assert.Equal(t, testNow, p.IssueDate)
	assert.Equal(t, 1, p.Version)

	stored, err := mem.FindByNumber(context.Background(), p.Number)
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}

func TestIssue_RecordsIssuedEvent(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := issueStandard(t, svc)

	events, err := svc.History(context.Background(), p.Number)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, policy.EventIssued, events[0].Type)
	assert.Equal(t, policy.StatusActive, events[0].ToStatus)
}

func TestIssue_InvalidApplication_NothingPersisted(t *testing.T) {
	svc, mem, _ := newTestService(t)

	app := standardApp()
	app.FaceAmount = dec("-5")

	_, err := svc.Issue(context.Background(), app)
	require.ErrorIs(t, err, policy.ErrInvalidApplication)

	_, err = mem.FindByNumber(context.Background(), "POL-1")
	assert.ErrorIs(t, err, policy.ErrPolicyNotFound, "no policy should be written")
}

func TestIssue_DeclinedRisk_NoPolicy(t *testing.T) {
	svc, mem, _ := newTestService(t)

	app := standardApp()
	app.Risk = policy.RiskDeclined

	_, err := svc.Issue(context.Background(), app)
	require.ErrorIs(t, err, policy.ErrDeclinedRisk)

	_, err = mem.FindByNumber(context.Background(), "POL-1")
	assert.ErrorIs(t, err, policy.ErrPolicyNotFound)
}

// =============================================================================
// CHANGE STATUS
// =============================================================================

func TestChangeStatus_LegalTransition(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := issueStandard(t, svc)

	updated, err := svc.ChangeStatus(context.Background(), p.Number, policy.StatusLapsed)
	require.NoError(t, err)
	assert.Equal(t, policy.StatusLapsed, updated.Status)
	assert.Equal(t, 2, updated.Version)

	events, err := svc.History(context.Background(), p.Number)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, policy.EventStatusChanged, events[1].Type)
	assert.Equal(t, policy.StatusActive, events[1].FromStatus)
	assert.Equal(t, policy.StatusLapsed, events[1].ToStatus)
}

func TestChangeStatus_IllegalTransition_NotPersisted(t *testing.T) {
	svc, mem, _ := newTestService(t)
	p := issueStandard(t, svc)

	_, err := svc.ChangeStatus(context.Background(), p.Number, policy.StatusPending)
	require.ErrorIs(t, err, policy.ErrIllegalTransition)

	stored, err := mem.FindByNumber(context.Background(), p.Number)
	require.NoError(t, err)
	assert.Equal(t, policy.StatusActive, stored.Status, "status must be unchanged")
	assert.Equal(t, 1, stored.Version)
}

func TestChangeStatus_UnknownPolicy(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ChangeStatus(context.Background(), "POL-missing", policy.StatusLapsed)
	assert.ErrorIs(t, err, policy.ErrPolicyNotFound)
}

func TestChangeStatus_TerminalState_Stuck(t *testing.T) {
	// Once surrendered, nothing moves the policy again.
	svc, _, _ := newTestService(t)
	p := issueStandard(t, svc)

	_, err := svc.ChangeStatus(context.Background(), p.Number, policy.StatusSurrendered)
	require.NoError(t, err)

	for _, next := range allStatuses {
		_, err := svc.ChangeStatus(context.Background(), p.Number, next)
		assert.ErrorIs(t, err, policy.ErrIllegalTransition, "surrendered -> %s should fail", next)
	}
}

// =============================================================================
// PAY PREMIUM
// =============================================================================

func TestPayPremium_ActivePolicy(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := issueStandard(t, svc)

	result, err := svc.PayPremium(context.Background(), p.Number, dec("80.00"), policy.MethodBankTransfer)
	require.NoError(t, err)
	assert.Equal(t, policy.PaymentCompleted, result.Status)
	assert.NotEmpty(t, result.PaymentID)
	assert.NotEmpty(t, result.ConfirmationNumber)

	payments, err := svc.PaymentHistory(context.Background(), p.Number)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, policy.PaymentProcessing, payments[0].Status, "recorded attempt is immutable; settlement result lives with the processor")
	assert.True(t, payments[0].Amount.Equal(dec("80.00")))
}

func TestPayPremium_LapsedPolicy_Rejected(t *testing.T) {
	// GIVEN: a lapsed policy
	// WHEN: paying a premium
	// THEN: rejected before any payment record is created

	svc, _, _ := newTestService(t)
	p := issueStandard(t, svc)

	_, err := svc.ChangeStatus(context.Background(), p.Number, policy.StatusLapsed)
	require.NoError(t, err)

	_, err = svc.PayPremium(context.Background(), p.Number, dec("80.00"), policy.MethodCard)
	require.ErrorIs(t, err, policy.ErrPolicyNotActive)

	var naErr *policy.NotActiveError
	require.ErrorAs(t, err, &naErr)
	assert.Equal(t, policy.StatusLapsed, naErr.Status)

	payments, err := svc.PaymentHistory(context.Background(), p.Number)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPayPremium_NonPositiveAmount(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := issueStandard(t, svc)

	for _, amount := range []string{"0", "-10"} {
		_, err := svc.PayPremium(context.Background(), p.Number, dec(amount), policy.MethodCard)
		assert.ErrorIs(t, err, policy.ErrInvalidPayment)
	}
}

func TestPayPremium_UnknownPolicy(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.PayPremium(context.Background(), "POL-missing", dec("80.00"), policy.MethodCheck)
	assert.ErrorIs(t, err, policy.ErrPolicyNotFound)
}

// =============================================================================
// BORROW AGAINST POLICY
// =============================================================================

// issueSeasoned issues a whole-life policy and backdates it so cash value
// has accrued by testNow.
func issueSeasoned(t *testing.T, svc *policy.Service, mem *store.Memory, years int) policy.Policy {
	t.Helper()
	p := issueStandard(t, svc)
	p.IssueDate = testNow.AddDate(-years, 0, 0)
	updated, err := mem.Save(context.Background(), p)
	require.NoError(t, err)
	return updated
}

func TestBorrow_WithinLimit(t *testing.T) {
	// GIVEN: 1 year in force at premium 80.00 -> cash value 848.64, limit 763.78
	// WHEN: borrowing 763.78
	// THEN: loan approved at 5.5% and disbursed

	svc, mem, _ := newTestService(t)
	p := issueSeasoned(t, svc, mem, 1)

	cv, err := svc.CurrentCashValue(context.Background(), p.Number)
	require.NoError(t, err)
	require.True(t, cv.Equal(dec("848.64")), "got %s", cv)

	result, err := svc.BorrowAgainstPolicy(context.Background(), p.Number, dec("763.78"))
	require.NoError(t, err)
	assert.Equal(t, policy.LoanActive, result.Status)
	assert.NotEmpty(t, result.LoanID)
	assert.Equal(t, testNow, result.DisbursementDate)

	loans, err := svc.LoanHistory(context.Background(), p.Number)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.True(t, loans[0].InterestRate.Equal(dec("0.055")))
}

func TestBorrow_OverLimit_NothingRecorded(t *testing.T) {
	svc, mem, _ := newTestService(t)
	p := issueSeasoned(t, svc, mem, 1)

	_, err := svc.BorrowAgainstPolicy(context.Background(), p.Number, dec("800.00"))
	require.ErrorIs(t, err, policy.ErrLoanExceedsLimit)

	loans, err := svc.LoanHistory(context.Background(), p.Number)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestBorrow_TermPolicy_NoCashValue(t *testing.T) {
	svc, _, _ := newTestService(t)

	app := standardApp()
	app.ProductID = "TERM-20"
	p, err := svc.Issue(context.Background(), app)
	require.NoError(t, err)

	_, err = svc.BorrowAgainstPolicy(context.Background(), p.Number, dec("1.00"))
	assert.ErrorIs(t, err, policy.ErrLoanExceedsLimit)
}

// =============================================================================
// OPTIMISTIC CONCURRENCY
// =============================================================================

func TestSave_StaleVersion_Conflicts(t *testing.T) {
	// Two readers of the same policy; the second writer loses.
	svc, mem, _ := newTestService(t)
	p := issueStandard(t, svc)

	stale := p
	fresh := p

	fresh.Status = policy.StatusLapsed
	_, err := mem.Save(context.Background(), fresh)
	require.NoError(t, err)

	stale.Status = policy.StatusSurrendered
	_, err = mem.Save(context.Background(), stale)
	require.ErrorIs(t, err, policy.ErrConcurrentModification)
	assert.True(t, policy.IsRetryable(err))
}
