package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the slice of the personnel record this service needs: identity,
// an optional per-employee timezone, and an optional extra-hours rate that
// overrides the configured default.
type Employee struct {
	ID              string
	FullName        string
	Timezone        *string
	ExtraHourlyRate *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
