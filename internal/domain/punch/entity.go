package punch

import (
	"time"
)

// Punch kinds
const (
	KindIn  = "in"
	KindOut = "out"
)

// PunchEvent is one clock action. Timestamps are stored and compared in UTC;
// the local civil timezone only matters when resolving the work-day.
type PunchEvent struct {
	ID         string
	EmployeeID string
	Kind       string
	Timestamp  time.Time
	CreatedAt  time.Time
}
