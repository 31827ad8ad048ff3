package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access methods for planned shifts.
type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)

	GetByID(ctx context.Context, id string) (Shift, error)

	// GetByEmployeeAndDate returns the shift planned for (employee, calendar
	// date), or nil when none exists. This is the reconciliation engine's
	// shift-lookup capability.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Shift, error)

	Update(ctx context.Context, shift Shift) error

	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)
}
