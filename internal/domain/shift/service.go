package shift

import (
	"context"
)

// ShiftService defines business logic for shift planning.
type ShiftService interface {
	// CreateShift saves a new planned day and reconciles every work-day its
	// segments touch.
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	// UpdateShift edits an existing shift and re-reconciles the touched
	// work-days, so anomalies reflecting the old plan go obsolete.
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)

	// DeleteShift removes a shift. Fails with ErrShiftHasOpenPayments while
	// any non-frozen extra payment still references it.
	DeleteShift(ctx context.Context, id string) error

	GetShift(ctx context.Context, id string) (ShiftResponse, error)

	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
}
