package shift

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/reconciliation"
	"github.com/shiftwatch/timeclock-backend-go/internal/domain/shift"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/database"
	"github.com/shiftwatch/timeclock-backend-go/internal/repository/postgresql"
)

type ShiftServiceImpl struct {
	db *database.DB
	shift.ShiftRepository
	extrapay.ExtraPaymentRepository

	reconciler reconciliation.ReconcileService
	logger     *slog.Logger
}

func NewShiftService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	paymentRepo extrapay.ExtraPaymentRepository,
	reconciler reconciliation.ReconcileService,
	logger *slog.Logger,
) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		db:                     db,
		ShiftRepository:        shiftRepo,
		ExtraPaymentRepository: paymentRepo,
		reconciler:             reconciler,
		logger:                 logger,
	}
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	existing, err := s.ShiftRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to check existing shift: %w", err)
	}
	if existing != nil {
		return shift.ShiftResponse{}, shift.ErrShiftAlreadyExists
	}

	sh := shift.Shift{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		CalendarDate: date,
		Kind:         strings.ToLower(req.Kind),
		Segments:     toSegments(req.Segments),
	}

	sh, err = s.ShiftRepository.Create(ctx, sh)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	s.reconcileDay(ctx, sh.EmployeeID, sh.CalendarDate)

	return toShiftResponse(sh), nil
}

// UpdateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.ShiftRepository.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh.Kind = strings.ToLower(req.Kind)
	sh.Segments = toSegments(req.Segments)

	if err := s.ShiftRepository.Update(ctx, sh); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	// Re-run the day so anomalies reflecting the old plan go obsolete and
	// unsettled ledger rows follow the new windows.
	s.reconcileDay(ctx, sh.EmployeeID, sh.CalendarDate)

	sh, err = s.ShiftRepository.GetByID(ctx, sh.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return toShiftResponse(sh), nil
}

// DeleteShift implements shift.ShiftService. Non-frozen payments block the
// delete: the ledger's referential lifecycle requires settling them first.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	payments, err := s.ExtraPaymentRepository.ListByShift(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list shift payments: %w", err)
	}
	for _, p := range payments {
		if !p.Frozen() {
			return shift.ErrShiftHasOpenPayments
		}
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		return s.ShiftRepository.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.reconcileDay(ctx, sh.EmployeeID, sh.CalendarDate)

	return nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return toShiftResponse(sh), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftResponse{}, err
	}

	shifts, total, err := s.ShiftRepository.List(ctx, filter)
	if err != nil {
		return shift.ListShiftResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, toShiftResponse(sh))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return shift.ListShiftResponse{
		Shifts: responses,
		Pagination: shift.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// reconcileDay triggers reconciliation for the work-day a shift touches.
// Failures are logged, not propagated: the save already committed and the
// periodic sweep retries transient lookups.
func (s *ShiftServiceImpl) reconcileDay(ctx context.Context, employeeID string, day time.Time) {
	if _, err := s.reconciler.Reconcile(ctx, employeeID, day); err != nil {
		s.logger.WarnContext(ctx, "reconciliation after shift change failed",
			slog.String("employee_id", employeeID),
			slog.String("work_day", day.Format("2006-01-02")),
			slog.Any("error", err),
		)
	}
}

func toSegments(payloads []shift.SegmentPayload) []shift.Segment {
	segments := make([]shift.Segment, 0, len(payloads))
	for i, p := range payloads {
		segments = append(segments, shift.Segment{
			Position: i,
			Start:    p.Start,
			End:      p.End,
			IsExtra:  p.IsExtra,
			Note:     p.Note,
		})
	}
	return segments
}

func toShiftResponse(sh shift.Shift) shift.ShiftResponse {
	segments := make([]shift.SegmentResponse, 0, len(sh.Segments))
	for _, seg := range sh.Segments {
		segments = append(segments, shift.SegmentResponse{
			Position: seg.Position,
			Start:    seg.Start,
			End:      seg.End,
			IsExtra:  seg.IsExtra,
			Note:     seg.Note,
		})
	}
	return shift.ShiftResponse{
		ID:         sh.ID,
		EmployeeID: sh.EmployeeID,
		Date:       sh.CalendarDate.Format("2006-01-02"),
		Kind:       sh.Kind,
		Segments:   segments,
		CreatedAt:  sh.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  sh.UpdatedAt.Format(time.RFC3339),
	}
}
