package extrapay

import (
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// EXTRA PAYMENT DTOs
// ========================================

type MarkPaidRequest struct {
	ID     string  `json:"-"`
	Method string  `json:"method"`
	Note   *string `json:"note,omitempty"`
}

var validMethods = []string{"cash", "bank_transfer", "check", "other"}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if !validator.IsInSlice(r.Method, validMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of: cash, bank_transfer, check, other",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CancelPaymentRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

func (r *CancelPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PaymentFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PaymentFilter) Validate() error {
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

	if f.Status != nil {
		validStatuses := []string{StatusToPay, StatusPaid, StatusCancelled}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: to_pay, paid, cancelled",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ExtraPaymentResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	ShiftID         string          `json:"shift_id"`
	SegmentPosition int             `json:"segment_position"`
	Date            string          `json:"date"`
	HoursWorked     string          `json:"hours_worked"`
	HourlyRate      string          `json:"hourly_rate"`
	Amount          string          `json:"amount"`
	InitialHours    string          `json:"initial_hours_worked"`
	InitialAmount   string          `json:"initial_amount"`
	InitialSegment  SegmentSnapshot `json:"initial_segment"`
	Status          string          `json:"status"`
	Method          *string         `json:"method,omitempty"`
	Note            *string         `json:"note,omitempty"`
	PaidAt          *string         `json:"paid_at,omitempty"`
	CreatedAt       string          `json:"created_at"`
	LastModifiedAt  string          `json:"last_modified_at"`
}

type ListPaymentResponse struct {
	Payments   []ExtraPaymentResponse `json:"payments"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// StatusStats aggregates one status bucket for an employee.
type StatusStats struct {
	Count       int64  `json:"count"`
	TotalHours  string `json:"total_hours"`
	TotalAmount string `json:"total_amount"`
}

type PaymentStatsResponse struct {
	EmployeeID string                 `json:"employee_id"`
	ByStatus   map[string]StatusStats `json:"by_status"`
}
