package extrapay

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	StatusToPay     = "to_pay"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// SegmentSnapshot preserves the originating planned window as it looked when
// the payment was first computed, so later shift edits never erase the audit
// trail.
type SegmentSnapshot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Note  string `json:"note,omitempty"`
}

// ExtraPayment is the ledger entry for one extra segment actually worked.
// The Initial* fields are written exactly once, on first computation; the
// current HoursWorked/Amount are recomputed on each reconciliation while the
// status is still to_pay and frozen afterwards.
type ExtraPayment struct {
	ID              string
	EmployeeID      string
	ShiftID         string
	SegmentPosition int
	Date            time.Time

	HoursWorked decimal.Decimal
	HourlyRate  decimal.Decimal
	Amount      decimal.Decimal

	InitialHoursWorked     decimal.Decimal
	InitialAmount          decimal.Decimal
	InitialSegmentSnapshot SegmentSnapshot

	Status         string
	Method         *string
	Note           *string
	PaidAt         *time.Time
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// Frozen reports whether the record is settled. Reconciliation must never
// touch a frozen record.
func (p *ExtraPayment) Frozen() bool {
	return p.Status == StatusPaid || p.Status == StatusCancelled
}
