package response

import (
	"errors"
	"net/http"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/employee"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/shift"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftAlreadyExists):
		Conflict(w, "A shift already exists for this employee and date")
	case errors.Is(err, shift.ErrSegmentsOverlap):
		BadRequest(w, "Shift segments overlap", nil)
	case errors.Is(err, shift.ErrShiftHasOpenPayments):
		Conflict(w, "Shift has unsettled extra payments")

	// Punch domain errors
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, punch.ErrInvalidPunchKind):
		BadRequest(w, "Punch kind must be 'in' or 'out'", nil)

	// Anomaly domain errors
	case errors.Is(err, anomaly.ErrAnomalyNotFound):
		NotFound(w, "Anomaly not found")
	case errors.Is(err, anomaly.ErrAnomalyAlreadyHandled):
		Conflict(w, "Anomaly has already been validated or rejected")
	case errors.Is(err, anomaly.ErrAnomalyObsolete):
		Conflict(w, "Anomaly is obsolete and can no longer be handled")

	// Extra payment domain errors
	case errors.Is(err, extrapay.ErrPaymentNotFound):
		NotFound(w, "Extra payment not found")
	case errors.Is(err, extrapay.ErrPaymentAlreadyPaid):
		Conflict(w, "Extra payment has already been paid")
	case errors.Is(err, extrapay.ErrPaymentAlreadyCancelled):
		Conflict(w, "Extra payment has already been cancelled")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Reconciliation errors
	case errors.Is(err, reconciliation.ErrTransient):
		ServiceUnavailable(w, "Reconciliation inputs temporarily unavailable, retry later")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
