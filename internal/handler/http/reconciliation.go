package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/handler/http/response"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/validator"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

type ReconciliationHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
}

type reconciliationHandlerImpl struct {
	reconcileService reconciliation.ReconcileService
}

func NewReconciliationHandler(reconcileService reconciliation.ReconcileService) ReconciliationHandler {
	return &reconciliationHandlerImpl{
		reconcileService: reconcileService,
	}
}

type runReconciliationRequest struct {
	EmployeeID string `json:"employee_id"`
	WorkDay    string `json:"work_day"` // YYYY-MM-DD
}

func (req *runReconciliationRequest) validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(req.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if _, ok := validator.IsValidDate(req.WorkDay); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_day",
			Message: "work_day must be YYYY-MM-DD",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type runReconciliationResponse struct {
	EmployeeID    string `json:"employee_id"`
	WorkDay       string `json:"work_day"`
	AnomalyCount  int    `json:"anomaly_count"`
	ExtraPayments int    `json:"extra_payment_count"`
}

// Run triggers reconciliation for one employee and work-day on demand,
// without waiting for a punch or the periodic sweep.
func (h *reconciliationHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req runReconciliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	day, err := time.Parse("2006-01-02", req.WorkDay)
	if err != nil {
		response.BadRequest(w, "work_day must be YYYY-MM-DD", nil)
		return
	}

	result, err := h.reconcileService.Reconcile(r.Context(), req.EmployeeID, workday.Date(day.Year(), day.Month(), day.Day()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runReconciliationResponse{
		EmployeeID:    result.EmployeeID,
		WorkDay:       result.WorkDay.Format("2006-01-02"),
		AnomalyCount:  len(result.Anomalies),
		ExtraPayments: len(result.ExtraPayments),
	})
}
