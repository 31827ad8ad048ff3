package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/handler/http/response"
)

type AnomalyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	anomalyService anomaly.AnomalyService
}

func NewAnomalyHandler(anomalyService anomaly.AnomalyService) AnomalyHandler {
	return &anomalyHandlerImpl{
		anomalyService: anomalyService,
	}
}

// List implements AnomalyHandler.
func (h *anomalyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := anomaly.AnomalyFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if anomalyType := r.URL.Query().Get("type"); anomalyType != "" {
		filter.Type = &anomalyType
	}

	if severity := r.URL.Query().Get("severity"); severity != "" {
		filter.Severity = &severity
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	filter.Page = parseIntQuery(r, "page", 1)
	filter.Limit = parseIntQuery(r, "limit", 20)

	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}

	if sortOrder := r.URL.Query().Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.anomalyService.ListAnomalies(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AnomalyHandler.
func (h *anomalyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.anomalyService.GetAnomaly(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Validate implements AnomalyHandler.
func (h *anomalyHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	req := anomaly.HandleAnomalyRequest{
		ID:        chi.URLParam(r, "id"),
		HandledBy: subjectFromContext(r),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.anomalyService.ValidateAnomaly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Anomaly validated successfully", result)
}

// Reject implements AnomalyHandler.
func (h *anomalyHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	req := anomaly.HandleAnomalyRequest{
		ID:        chi.URLParam(r, "id"),
		HandledBy: subjectFromContext(r),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.anomalyService.RejectAnomaly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Anomaly rejected successfully", result)
}
