/*
handlers.go - HTTP API handlers for the policy engine

PURPOSE:
  Exposes the four policy use cases plus read endpoints via REST. Handles
  HTTP request/response, JSON serialization, and delegates every decision
  to the policy service. This layer contains no business logic.

ENDPOINTS:
  Policies:
    POST   /api/policies                       Issue a policy
    GET    /api/policies/{number}              Get policy details
    POST   /api/policies/{number}/status       Change lifecycle status
    GET    /api/policies/{number}/events       Lifecycle history

  Payments:
    POST   /api/policies/{number}/payments     Pay a premium
    GET    /api/policies/{number}/payments     Payment history

  Loans:
    POST   /api/policies/{number}/loans        Borrow against cash value
    GET    /api/policies/{number}/loans        Loan history
    GET    /api/policies/{number}/cash-value   Current cash value + limit

  Quotes:
    POST   /api/quotes                         Price an application

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, bad decimals, failed struct validation
  - 404: Unknown policy number
  - 409: Optimistic concurrency conflict (safe to retry)
  - 422: Domain rule violations (illegal transition, loan limit, ...)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/policy-engine/policy"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *policy.Service
	validate *validator.Validate
}

// NewHandler creates a new handler around the policy service.
func NewHandler(svc *policy.Service) *Handler {
	return &Handler{
		Service:  svc,
		validate: validator.New(),
	}
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// IssuePolicy issues a new policy.
// POST /api/policies
func (h *Handler) IssuePolicy(w http.ResponseWriter, r *http.Request) {
	var req IssuePolicyRequest
	if !h.decode(w, r, &req) {
		return
	}

	faceAmount, ok := parseAmount(w, req.FaceAmount, "face_amount")
	if !ok {
		return
	}

	p, err := h.Service.Issue(r.Context(), policy.Application{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		FaceAmount: faceAmount,
		Age:        req.Age,
		Risk:       policy.RiskClass(req.RiskClass),
		Smoker:     req.Smoker,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPolicyDTO(p))
}

// GetPolicy returns a policy by number.
// GET /api/policies/{number}
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Lookup(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(p))
}

// ChangeStatus applies a lifecycle transition.
// POST /api/policies/{number}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.Service.ChangeStatus(r.Context(), chi.URLParam(r, "number"), policy.Status(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(p))
}

// GetEvents returns the lifecycle history of a policy.
// GET /api/policies/{number}/events
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.History(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = EventDTO{
			ID:           e.ID,
			PolicyNumber: e.PolicyNumber,
			Type:         string(e.Type),
			FromStatus:   string(e.FromStatus),
			ToStatus:     string(e.ToStatus),
			At:           e.At.Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// PayPremium records and settles a premium payment.
// POST /api/policies/{number}/payments
func (h *Handler) PayPremium(w http.ResponseWriter, r *http.Request) {
	var req PayPremiumRequest
	if !h.decode(w, r, &req) {
		return
	}

	amount, ok := parseAmount(w, req.Amount, "amount")
	if !ok {
		return
	}

	result, err := h.Service.PayPremium(r.Context(), chi.URLParam(r, "number"), amount, policy.PaymentMethod(req.Method))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PaymentResultDTO{
		PaymentID:          result.PaymentID,
		Status:             string(result.Status),
		ConfirmationNumber: result.ConfirmationNumber,
	})
}

// ListPayments returns the payment history of a policy.
// GET /api/policies/{number}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.PaymentHistory(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{
			ID:           p.ID,
			PolicyNumber: p.PolicyNumber,
			Amount:       p.Amount.StringFixed(2),
			Method:       string(p.Method),
			Date:         p.Date.Format(timeFormat),
			Status:       string(p.Status),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LOAN HANDLERS
// =============================================================================

// Borrow validates and disburses a loan against the policy's cash value.
// POST /api/policies/{number}/loans
func (h *Handler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req BorrowRequest
	if !h.decode(w, r, &req) {
		return
	}

	amount, ok := parseAmount(w, req.Amount, "amount")
	if !ok {
		return
	}

	result, err := h.Service.BorrowAgainstPolicy(r.Context(), chi.URLParam(r, "number"), amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, LoanResultDTO{
		LoanID:           result.LoanID,
		Status:           string(result.Status),
		DisbursementDate: result.DisbursementDate.Format(timeFormat),
	})
}

// ListLoans returns the loan history of a policy.
// GET /api/policies/{number}/loans
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.Service.LoanHistory(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]LoanDTO, len(loans))
	for i, l := range loans {
		dtos[i] = LoanDTO{
			ID:           l.ID,
			PolicyNumber: l.PolicyNumber,
			Amount:       l.Amount.StringFixed(2),
			InterestRate: l.InterestRate.String(), // rate keeps its natural precision
			Date:         l.Date.Format(timeFormat),
			Status:       string(l.Status),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCashValue returns the policy's current cash value and borrowing limit.
// GET /api/policies/{number}/cash-value
func (h *Handler) GetCashValue(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	cv, err := h.Service.CurrentCashValue(r.Context(), number)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CashValueDTO{
		PolicyNumber: number,
		CashValue:    cv.StringFixed(2),
		MaxLoan:      policy.MaxLoan(cv).StringFixed(2),
	})
}

// =============================================================================
// QUOTE HANDLERS
// =============================================================================

// Quote prices an application without persisting anything.
// POST /api/quotes
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	faceAmount, ok := parseAmount(w, req.FaceAmount, "face_amount")
	if !ok {
		return
	}

	premium, err := policy.CalculatePremium(policy.Application{
		FaceAmount: faceAmount,
		Age:        req.Age,
		Risk:       policy.RiskClass(req.RiskClass),
		Smoker:     req.Smoker,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuoteDTO{Premium: premium.StringFixed(2)})
}

// =============================================================================
// HELPERS
// =============================================================================

const timeFormat = "2006-01-02T15:04:05Z07:00" // RFC3339

// decode parses and validates a JSON request body. Writes the error response
// itself and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func parseAmount(w http.ResponseWriter, s, field string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid decimal for "+field, err)
		return decimal.Zero, false
	}
	return d, true
}

// writeDomainError maps policy errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case policy.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Policy not found", err)
	case policy.IsRetryable(err):
		writeError(w, http.StatusConflict, "Conflicting update, retry", err)
	case policy.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, "Request rejected", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
