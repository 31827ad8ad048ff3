package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
	"github.com/shiftwatch/timeclock-backend-go/internal/handler/http/response"
)

type ExtraPaymentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	EmployeeStats(w http.ResponseWriter, r *http.Request)
}

type extraPaymentHandlerImpl struct {
	paymentService extrapay.ExtraPaymentService
}

func NewExtraPaymentHandler(paymentService extrapay.ExtraPaymentService) ExtraPaymentHandler {
	return &extraPaymentHandlerImpl{
		paymentService: paymentService,
	}
}

// List implements ExtraPaymentHandler.
func (h *extraPaymentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := extrapay.PaymentFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	filter.Page = parseIntQuery(r, "page", 1)
	filter.Limit = parseIntQuery(r, "limit", 20)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.paymentService.ListPayments(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements ExtraPaymentHandler.
func (h *extraPaymentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.paymentService.GetPayment(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MarkPaid implements ExtraPaymentHandler.
func (h *extraPaymentHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req extrapay.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.paymentService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment marked as paid", result)
}

// Cancel implements ExtraPaymentHandler.
func (h *extraPaymentHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req extrapay.CancelPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.paymentService.CancelPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment cancelled", result)
}

// EmployeeStats implements ExtraPaymentHandler.
func (h *extraPaymentHandlerImpl) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.paymentService.GetEmployeeStats(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
