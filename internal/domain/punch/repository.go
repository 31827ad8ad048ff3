package punch

import (
	"context"
	"time"
)

// PunchRepository defines data access methods for punch events.
type PunchRepository interface {
	Create(ctx context.Context, event PunchEvent) (PunchEvent, error)

	GetByID(ctx context.Context, id string) (PunchEvent, error)

	// ListByEmployeeAndRange returns all punches for an employee with
	// from <= timestamp < to, ordered by timestamp. This is the
	// reconciliation engine's punch-lookup capability.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]PunchEvent, error)

	List(ctx context.Context, filter PunchFilter) ([]PunchEvent, int64, error)
}
