package extrapay

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
)

type ExtraPaymentServiceImpl struct {
	extrapay.ExtraPaymentRepository

	now func() time.Time
}

func NewExtraPaymentService(paymentRepo extrapay.ExtraPaymentRepository) *ExtraPaymentServiceImpl {
	return &ExtraPaymentServiceImpl{
		ExtraPaymentRepository: paymentRepo,
		now:                    func() time.Time { return time.Now().UTC() },
	}
}

// ListPayments implements extrapay.ExtraPaymentService.
func (s *ExtraPaymentServiceImpl) ListPayments(ctx context.Context, filter extrapay.PaymentFilter) (extrapay.ListPaymentResponse, error) {
	if err := filter.Validate(); err != nil {
		return extrapay.ListPaymentResponse{}, err
	}

	payments, total, err := s.ExtraPaymentRepository.List(ctx, filter)
	if err != nil {
		return extrapay.ListPaymentResponse{}, fmt.Errorf("failed to list extra payments: %w", err)
	}

	responses := make([]extrapay.ExtraPaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, toPaymentResponse(p))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return extrapay.ListPaymentResponse{
		Payments: responses,
		Pagination: extrapay.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetPayment implements extrapay.ExtraPaymentService.
func (s *ExtraPaymentServiceImpl) GetPayment(ctx context.Context, id string) (extrapay.ExtraPaymentResponse, error) {
	p, err := s.ExtraPaymentRepository.GetByID(ctx, id)
	if err != nil {
		return extrapay.ExtraPaymentResponse{}, err
	}
	return toPaymentResponse(p), nil
}

// MarkPaid implements extrapay.ExtraPaymentService. The paid date is set
// here, not supplied by the caller, and the record freezes from this point.
func (s *ExtraPaymentServiceImpl) MarkPaid(ctx context.Context, req extrapay.MarkPaidRequest) (extrapay.ExtraPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return extrapay.ExtraPaymentResponse{}, err
	}

	p, err := s.ExtraPaymentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return extrapay.ExtraPaymentResponse{}, err
	}

	switch p.Status {
	case extrapay.StatusPaid:
		return extrapay.ExtraPaymentResponse{}, extrapay.ErrPaymentAlreadyPaid
	case extrapay.StatusCancelled:
		return extrapay.ExtraPaymentResponse{}, extrapay.ErrPaymentAlreadyCancelled
	}

	now := s.now()
	p.Status = extrapay.StatusPaid
	p.Method = &req.Method
	if req.Note != nil {
		p.Note = req.Note
	}
	p.PaidAt = &now
	p.LastModifiedAt = now

	if err := s.ExtraPaymentRepository.Update(ctx, p); err != nil {
		return extrapay.ExtraPaymentResponse{}, fmt.Errorf("failed to mark payment paid: %w", err)
	}

	return toPaymentResponse(p), nil
}

// CancelPayment implements extrapay.ExtraPaymentService.
func (s *ExtraPaymentServiceImpl) CancelPayment(ctx context.Context, req extrapay.CancelPaymentRequest) (extrapay.ExtraPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return extrapay.ExtraPaymentResponse{}, err
	}

	p, err := s.ExtraPaymentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return extrapay.ExtraPaymentResponse{}, err
	}

	switch p.Status {
	case extrapay.StatusPaid:
		return extrapay.ExtraPaymentResponse{}, extrapay.ErrPaymentAlreadyPaid
	case extrapay.StatusCancelled:
		return extrapay.ExtraPaymentResponse{}, extrapay.ErrPaymentAlreadyCancelled
	}

	now := s.now()
	p.Status = extrapay.StatusCancelled
	if req.Note != nil {
		p.Note = req.Note
	}
	p.LastModifiedAt = now

	if err := s.ExtraPaymentRepository.Update(ctx, p); err != nil {
		return extrapay.ExtraPaymentResponse{}, fmt.Errorf("failed to cancel payment: %w", err)
	}

	return toPaymentResponse(p), nil
}

// GetEmployeeStats implements extrapay.ExtraPaymentService.
func (s *ExtraPaymentServiceImpl) GetEmployeeStats(ctx context.Context, employeeID string) (extrapay.PaymentStatsResponse, error) {
	stats, err := s.ExtraPaymentRepository.StatsByEmployee(ctx, employeeID)
	if err != nil {
		return extrapay.PaymentStatsResponse{}, fmt.Errorf("failed to get payment stats: %w", err)
	}
	if stats == nil {
		stats = map[string]extrapay.StatusStats{}
	}
	return extrapay.PaymentStatsResponse{EmployeeID: employeeID, ByStatus: stats}, nil
}

func toPaymentResponse(p extrapay.ExtraPayment) extrapay.ExtraPaymentResponse {
	var paidAt *string
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		paidAt = &v
	}
	return extrapay.ExtraPaymentResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		ShiftID:         p.ShiftID,
		SegmentPosition: p.SegmentPosition,
		Date:            p.Date.Format("2006-01-02"),
		HoursWorked:     p.HoursWorked.StringFixed(2),
		HourlyRate:      p.HourlyRate.StringFixed(2),
		Amount:          p.Amount.StringFixed(2),
		InitialHours:    p.InitialHoursWorked.StringFixed(2),
		InitialAmount:   p.InitialAmount.StringFixed(2),
		InitialSegment:  p.InitialSegmentSnapshot,
		Status:          p.Status,
		Method:          p.Method,
		Note:            p.Note,
		PaidAt:          paidAt,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		LastModifiedAt:  p.LastModifiedAt.Format(time.RFC3339),
	}
}
