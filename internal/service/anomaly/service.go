package anomaly

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
)

type AnomalyServiceImpl struct {
	anomaly.AnomalyRepository

	now func() time.Time
}

func NewAnomalyService(anomalyRepo anomaly.AnomalyRepository) *AnomalyServiceImpl {
	return &AnomalyServiceImpl{
		AnomalyRepository: anomalyRepo,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// ListAnomalies implements anomaly.AnomalyService.
func (s *AnomalyServiceImpl) ListAnomalies(ctx context.Context, filter anomaly.AnomalyFilter) (anomaly.ListAnomalyResponse, error) {
	if err := filter.Validate(); err != nil {
		return anomaly.ListAnomalyResponse{}, err
	}

	anomalies, total, err := s.AnomalyRepository.List(ctx, filter)
	if err != nil {
		return anomaly.ListAnomalyResponse{}, fmt.Errorf("failed to list anomalies: %w", err)
	}

	responses := make([]anomaly.AnomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		responses = append(responses, toAnomalyResponse(a))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return anomaly.ListAnomalyResponse{
		Anomalies: responses,
		Pagination: anomaly.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetAnomaly implements anomaly.AnomalyService.
func (s *AnomalyServiceImpl) GetAnomaly(ctx context.Context, id string) (anomaly.AnomalyResponse, error) {
	a, err := s.AnomalyRepository.GetByID(ctx, id)
	if err != nil {
		return anomaly.AnomalyResponse{}, err
	}
	return toAnomalyResponse(a), nil
}

// ValidateAnomaly implements anomaly.AnomalyService.
func (s *AnomalyServiceImpl) ValidateAnomaly(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
	return s.handle(ctx, req, anomaly.StatusValidated)
}

// RejectAnomaly implements anomaly.AnomalyService.
func (s *AnomalyServiceImpl) RejectAnomaly(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
	return s.handle(ctx, req, anomaly.StatusRejected)
}

func (s *AnomalyServiceImpl) handle(ctx context.Context, req anomaly.HandleAnomalyRequest, status string) (anomaly.AnomalyResponse, error) {
	if err := req.Validate(); err != nil {
		return anomaly.AnomalyResponse{}, err
	}

	a, err := s.AnomalyRepository.GetByID(ctx, req.ID)
	if err != nil {
		return anomaly.AnomalyResponse{}, err
	}

	if a.Status == anomaly.StatusObsolete {
		return anomaly.AnomalyResponse{}, anomaly.ErrAnomalyObsolete
	}
	if a.Handled() {
		return anomaly.AnomalyResponse{}, anomaly.ErrAnomalyAlreadyHandled
	}

	now := s.now()
	a.Status = status
	a.HandledBy = &req.HandledBy
	a.HandledAt = &now
	a.UpdatedAt = now

	if err := s.AnomalyRepository.Update(ctx, a); err != nil {
		return anomaly.AnomalyResponse{}, fmt.Errorf("failed to update anomaly: %w", err)
	}

	return toAnomalyResponse(a), nil
}

func toAnomalyResponse(a anomaly.Anomaly) anomaly.AnomalyResponse {
	var handledAt *string
	if a.HandledAt != nil {
		v := a.HandledAt.Format(time.RFC3339)
		handledAt = &v
	}
	return anomaly.AnomalyResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		WorkDay:     a.WorkDay.Format("2006-01-02"),
		Type:        a.Type,
		Severity:    a.Severity,
		Status:      a.Status,
		Description: a.Description,
		Details:     a.Details,
		HandledBy:   a.HandledBy,
		HandledAt:   handledAt,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}
