package punch

import (
	"context"
)

// PunchService defines business logic for punch ingestion.
type PunchService interface {
	// RecordPunch stores a clock action and synchronously reconciles the
	// punch's own work-day.
	RecordPunch(ctx context.Context, req RecordPunchRequest) (PunchResponse, error)

	ListPunches(ctx context.Context, filter PunchFilter) (ListPunchResponse, error)
}
