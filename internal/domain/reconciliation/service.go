package reconciliation

import (
	"context"
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
)

// Result is what one reconciliation run produced for an employee-day: the
// currently-active anomalies and the ledger rows for the day's extra
// segments.
type Result struct {
	EmployeeID    string
	WorkDay       time.Time
	Anomalies     []anomaly.Anomaly
	ExtraPayments []extrapay.ExtraPayment
}

// ReconcileService confronts one employee-day's plan with its punches.
type ReconcileService interface {
	// Reconcile runs the full pipeline for (employeeID, workDay). Runs for
	// the same key are serialized; runs for different keys proceed in
	// parallel. Two calls with unchanged inputs produce identical output
	// sets and no duplicate rows.
	Reconcile(ctx context.Context, employeeID string, workDay time.Time) (Result, error)
}
