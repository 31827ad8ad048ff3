package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
)

var sixty = decimal.NewFromInt(60)

// PayableHours converts matched minutes on an extra segment into ledger
// hours, kept at two decimal places. Money never goes through floats.
func PayableHours(workedMin int) decimal.Decimal {
	return decimal.NewFromInt(int64(workedMin)).Div(sixty).Round(2)
}

// PayableAmount is rate times hours, rounded to cents.
func PayableAmount(hours, hourlyRate decimal.Decimal) decimal.Decimal {
	return hours.Mul(hourlyRate).Round(2)
}

// Recompute overwrites a ledger row's current hours and amount from a fresh
// matched duration. The Initial* fields are never touched here. Calling this
// on a frozen row is a caller bug and fails loudly rather than masking a
// silent rewrite of a settled financial record.
func Recompute(p *extrapay.ExtraPayment, workedMin int, now time.Time) error {
	if p.Frozen() {
		return extrapay.ErrPaymentFrozen
	}
	p.HoursWorked = PayableHours(workedMin)
	p.Amount = PayableAmount(p.HoursWorked, p.HourlyRate)
	p.LastModifiedAt = now
	return nil
}
