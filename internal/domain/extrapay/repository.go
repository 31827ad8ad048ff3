package extrapay

import (
	"context"
)

// ExtraPaymentRepository defines data access methods for the payment ledger.
type ExtraPaymentRepository interface {
	Create(ctx context.Context, payment ExtraPayment) (ExtraPayment, error)

	GetByID(ctx context.Context, id string) (ExtraPayment, error)

	// GetBySegment returns the ledger row for one (shift, segment position),
	// or nil when the segment has never been settled. The segment position is
	// the payment's natural key within a shift.
	GetBySegment(ctx context.Context, shiftID string, position int) (*ExtraPayment, error)

	ListByShift(ctx context.Context, shiftID string) ([]ExtraPayment, error)

	Update(ctx context.Context, payment ExtraPayment) error

	List(ctx context.Context, filter PaymentFilter) ([]ExtraPayment, int64, error)

	// StatsByEmployee aggregates count, hours and amount per status.
	StatsByEmployee(ctx context.Context, employeeID string) (map[string]StatusStats, error)
}
