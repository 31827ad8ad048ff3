package anomaly

import (
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// ANOMALY DTOs
// ========================================

type AnomalyFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Type       *string `json:"type,omitempty"`
	Severity   *string `json:"severity,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // work_day, severity, status, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AnomalyFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Type != nil {
		validTypes := []string{
			TypeLateArrival, TypeEarlyDeparture, TypeOvertimePending,
			TypeBreakNotTaken, TypeBreakExceeded, TypeUnplannedPunch,
			TypeUnjustifiedAbsence,
		}
		if !validator.IsInSlice(*f.Type, validTypes) {
			errs = append(errs, validator.ValidationError{
				Field:   "type",
				Message: "type is not a known anomaly type",
			})
		}
	}

	if f.Severity != nil {
		validSeverities := []string{SeverityInfo, SeverityLow, SeverityMedium, SeverityCritical}
		if !validator.IsInSlice(*f.Severity, validSeverities) {
			errs = append(errs, validator.ValidationError{
				Field:   "severity",
				Message: "severity must be one of: info, low, medium, critical",
			})
		}
	}

	if f.Status != nil {
		validStatuses := []string{StatusPending, StatusValidated, StatusRejected, StatusObsolete}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, validated, rejected, obsolete",
			})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"work_day", "severity", "status", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: work_day, severity, status, created_at",
			})
		}
	} else {
		f.SortBy = "work_day" // Default sort
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HandleAnomalyRequest struct {
	ID        string `json:"-"`
	HandledBy string `json:"-"` // from the authenticated admin token
}

func (r *HandleAnomalyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.HandledBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "handled_by",
			Message: "handled_by is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AnomalyResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	WorkDay     string  `json:"work_day"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	Details     Details `json:"details"`
	HandledBy   *string `json:"handled_by,omitempty"`
	HandledAt   *string `json:"handled_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListAnomalyResponse struct {
	Anomalies  []AnomalyResponse `json:"anomalies"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
