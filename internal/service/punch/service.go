package punch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/employee"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/workday"
)

type PunchServiceImpl struct {
	punch.PunchRepository
	employee.EmployeeRepository

	reconciler reconciliation.ReconcileService
	cutoffHour int
	defaultLoc *time.Location
	logger     *slog.Logger
	now        func() time.Time
}

func NewPunchService(
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler reconciliation.ReconcileService,
	cutoffHour int,
	defaultLoc *time.Location,
	logger *slog.Logger,
) *PunchServiceImpl {
	return &PunchServiceImpl{
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		reconciler:         reconciler,
		cutoffHour:         cutoffHour,
		defaultLoc:         defaultLoc,
		logger:             logger,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// RecordPunch implements punch.PunchService.
func (s *PunchServiceImpl) RecordPunch(ctx context.Context, req punch.RecordPunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	ts := s.now()
	if req.Timestamp != nil && *req.Timestamp != "" {
		parsed, _ := time.Parse(time.RFC3339, *req.Timestamp)
		ts = parsed.UTC()
	}

	event := punch.PunchEvent{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		Kind:       strings.ToLower(req.Kind),
		Timestamp:  ts,
	}

	event, err = s.PunchRepository.Create(ctx, event)
	if err != nil {
		return punch.PunchResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	loc := s.defaultLoc
	if emp.Timezone != nil {
		if l, err := time.LoadLocation(*emp.Timezone); err == nil {
			loc = l
		}
	}
	day := workday.Resolve(event.Timestamp, loc, s.cutoffHour)

	// Reconcile the punch's own work-day synchronously. The punch itself is
	// already committed; a transient lookup failure here is retried by the
	// periodic sweep, never lost.
	if _, err := s.reconciler.Reconcile(ctx, event.EmployeeID, day); err != nil {
		s.logger.WarnContext(ctx, "reconciliation after punch failed",
			slog.String("employee_id", event.EmployeeID),
			slog.String("work_day", day.Format("2006-01-02")),
			slog.Any("error", err),
		)
	}

	return toPunchResponse(event, day), nil
}

// ListPunches implements punch.PunchService.
func (s *PunchServiceImpl) ListPunches(ctx context.Context, filter punch.PunchFilter) (punch.ListPunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.ListPunchResponse{}, err
	}

	punches, total, err := s.PunchRepository.List(ctx, filter)
	if err != nil {
		return punch.ListPunchResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	responses := make([]punch.PunchResponse, 0, len(punches))
	for _, p := range punches {
		day := workday.Resolve(p.Timestamp, s.defaultLoc, s.cutoffHour)
		responses = append(responses, toPunchResponse(p, day))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return punch.ListPunchResponse{
		Punches: responses,
		Pagination: punch.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

func toPunchResponse(p punch.PunchEvent, day time.Time) punch.PunchResponse {
	return punch.PunchResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Kind:       p.Kind,
		Timestamp:  p.Timestamp.Format(time.RFC3339),
		WorkDay:    day.Format("2006-01-02"),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
