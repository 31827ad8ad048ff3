package anomaly

import (
	"time"
)

// Anomaly types
const (
	TypeLateArrival        = "late_arrival"
	TypeEarlyDeparture     = "early_departure"
	TypeOvertimePending    = "overtime_pending_validation"
	TypeBreakNotTaken      = "break_not_taken"
	TypeBreakExceeded      = "break_exceeded"
	TypeUnplannedPunch     = "unplanned_punch"
	TypeUnjustifiedAbsence = "unjustified_absence"
)

// Severities, ordered from least to most serious
const (
	SeverityInfo     = "info"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityCritical = "critical"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusRejected  = "rejected"
	StatusObsolete  = "obsolete"
)

// Details carries the structured evidence behind an anomaly. Times are
// "HH:MM" wall-clock on the work-day; DeltaMinutes is the signed gap between
// actual and expected.
type Details struct {
	ExpectedTime *string `json:"expected_time,omitempty"`
	ActualTime   *string `json:"actual_time,omitempty"`
	DeltaMinutes *int    `json:"delta_minutes,omitempty"`
}

// Anomaly is one detected discrepancy between plan and reality. At most one
// non-obsolete anomaly exists per (EmployeeID, WorkDay, Type).
type Anomaly struct {
	ID          string
	EmployeeID  string
	WorkDay     time.Time
	Type        string
	Severity    string
	Status      string
	Description string
	Details     Details
	HandledBy   *string
	HandledAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Handled reports whether an administrator already made a decision. Handled
// anomalies are sticky: re-detection never resets them.
func (a *Anomaly) Handled() bool {
	return a.Status == StatusValidated || a.Status == StatusRejected
}
