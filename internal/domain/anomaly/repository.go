package anomaly

import (
	"context"
	"time"
)

// AnomalyRepository defines data access methods for anomaly records.
type AnomalyRepository interface {
	Create(ctx context.Context, anomaly Anomaly) (Anomaly, error)

	GetByID(ctx context.Context, id string) (Anomaly, error)

	Update(ctx context.Context, anomaly Anomaly) error

	// ListActiveByEmployeeAndDay returns all non-obsolete anomalies for one
	// employee-day. The synthesizer diffs its fresh detections against this
	// set.
	ListActiveByEmployeeAndDay(ctx context.Context, employeeID string, workDay time.Time) ([]Anomaly, error)

	List(ctx context.Context, filter AnomalyFilter) ([]Anomaly, int64, error)
}
