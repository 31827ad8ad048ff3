package extrapay

import (
	"context"
)

// ExtraPaymentService defines the administrator-facing payment workflow.
// Ledger rows are created and recomputed by reconciliation, never here.
type ExtraPaymentService interface {
	ListPayments(ctx context.Context, filter PaymentFilter) (ListPaymentResponse, error)

	GetPayment(ctx context.Context, id string) (ExtraPaymentResponse, error)

	// MarkPaid settles a to_pay record, freezing it. The paid date is set
	// automatically.
	MarkPaid(ctx context.Context, req MarkPaidRequest) (ExtraPaymentResponse, error)

	// CancelPayment cancels a to_pay record, freezing it.
	CancelPayment(ctx context.Context, req CancelPaymentRequest) (ExtraPaymentResponse, error)

	GetEmployeeStats(ctx context.Context, employeeID string) (PaymentStatsResponse, error)
}
