package anomaly

import (
	"context"
)

// AnomalyService defines the administrator-facing anomaly workflow.
// Creation and obsolescence are reconciliation concerns, not exposed here.
type AnomalyService interface {
	ListAnomalies(ctx context.Context, filter AnomalyFilter) (ListAnomalyResponse, error)

	GetAnomaly(ctx context.Context, id string) (AnomalyResponse, error)

	// ValidateAnomaly confirms a pending anomaly. The decision is sticky.
	ValidateAnomaly(ctx context.Context, req HandleAnomalyRequest) (AnomalyResponse, error)

	// RejectAnomaly dismisses a pending anomaly. The decision is sticky.
	RejectAnomaly(ctx context.Context, req HandleAnomalyRequest) (AnomalyResponse, error)
}
