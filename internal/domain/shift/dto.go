package shift

import (
	"strings"

	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/validator"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

// ========================================
// SHIFT DTOs
// ========================================

type SegmentPayload struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	IsExtra bool   `json:"is_extra"`
	Note    string `json:"note"`
}

type CreateShiftRequest struct {
	EmployeeID string           `json:"employee_id"`
	Date       string           `json:"date"` // YYYY-MM-DD
	Kind       string           `json:"kind"`
	Segments   []SegmentPayload `json:"segments"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	validKinds := []string{KindWork, KindRest, KindLeave, KindAbsence}
	if !validator.IsInSlice(strings.ToLower(r.Kind), validKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: work, rest, leave, absence",
		})
	}

	errs = append(errs, validateSegments(r.Segments)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateShiftRequest struct {
	ID       string           `json:"-"`
	Kind     string           `json:"kind"`
	Segments []SegmentPayload `json:"segments"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	validKinds := []string{KindWork, KindRest, KindLeave, KindAbsence}
	if !validator.IsInSlice(strings.ToLower(r.Kind), validKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: work, rest, leave, absence",
		})
	}

	errs = append(errs, validateSegments(r.Segments)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// validateSegments checks each window's clock values and the shift-level
// non-overlap invariant. Overlaps are rejected here, at save time, so the
// reconciliation engine never sees a malformed plan.
func validateSegments(segments []SegmentPayload) validator.ValidationErrors {
	var errs validator.ValidationErrors

	spans := make([]workday.Span, 0, len(segments))
	clocksOK := true
	for i, seg := range segments {
		if !validator.IsValidClock(seg.Start) {
			errs = append(errs, validator.ValidationError{
				Field:   "segments",
				Message: "segment start must be in HH:MM format",
			})
			clocksOK = false
			continue
		}
		if !validator.IsValidClock(seg.End) {
			errs = append(errs, validator.ValidationError{
				Field:   "segments",
				Message: "segment end must be in HH:MM format",
			})
			clocksOK = false
			continue
		}
		start, end, err := workday.NormalizeWindow(seg.Start, seg.End)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "segments",
				Message: err.Error(),
			})
			clocksOK = false
			continue
		}
		spans = append(spans, workday.Span{Index: i, StartMin: start, EndMin: end})
	}

	if clocksOK {
		if _, err := workday.ValidateSpans(spans); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "segments",
				Message: err.Error(),
			})
		}
	}

	return errs
}

type ShiftFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Kind       *string `json:"kind,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ShiftFilter) Validate() error {
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

	if f.Kind != nil {
		validKinds := []string{KindWork, KindRest, KindLeave, KindAbsence}
		if !validator.IsInSlice(*f.Kind, validKinds) {
			errs = append(errs, validator.ValidationError{
				Field:   "kind",
				Message: "kind must be one of: work, rest, leave, absence",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SegmentResponse struct {
	Position int    `json:"position"`
	Start    string `json:"start"`
	End      string `json:"end"`
	IsExtra  bool   `json:"is_extra"`
	Note     string `json:"note,omitempty"`
}

type ShiftResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employee_id"`
	Date       string            `json:"date"`
	Kind       string            `json:"kind"`
	Segments   []SegmentResponse `json:"segments"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

type ListShiftResponse struct {
	Shifts     []ShiftResponse `json:"shifts"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
