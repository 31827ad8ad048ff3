package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/extrapay"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/database"
)

type extraPaymentRepository struct {
	db *database.DB
}

func NewExtraPaymentRepository(db *database.DB) extrapay.ExtraPaymentRepository {
	return &extraPaymentRepository{db: db}
}

const paymentColumns = `
	id, employee_id, shift_id, segment_position, date,
	hours_worked, hourly_rate, amount,
	initial_hours_worked, initial_amount, initial_segment_snapshot,
	status, method, note, paid_at, created_at, last_modified_at
`

// Create implements extrapay.ExtraPaymentRepository.
func (r *extraPaymentRepository) Create(ctx context.Context, p extrapay.ExtraPayment) (extrapay.ExtraPayment, error) {
	q := GetQuerier(ctx, r.db)

	snapshot, err := json.Marshal(p.InitialSegmentSnapshot)
	if err != nil {
		return extrapay.ExtraPayment{}, fmt.Errorf("marshal segment snapshot: %w", err)
	}

	query := `
		INSERT INTO extra_payments (
			id, employee_id, shift_id, segment_position, date,
			hours_worked, hourly_rate, amount,
			initial_hours_worked, initial_amount, initial_segment_snapshot,
			status, method, note, paid_at, last_modified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.ShiftID, p.SegmentPosition, p.Date,
		p.HoursWorked, p.HourlyRate, p.Amount,
		p.InitialHoursWorked, p.InitialAmount, snapshot,
		p.Status, p.Method, p.Note, p.PaidAt, p.LastModifiedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return extrapay.ExtraPayment{}, fmt.Errorf("failed to create extra payment: %w", err)
	}

	return p, nil
}

// GetByID implements extrapay.ExtraPaymentRepository.
func (r *extraPaymentRepository) GetByID(ctx context.Context, id string) (extrapay.ExtraPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM extra_payments WHERE id = $1`

	p, err := scanPayment(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return extrapay.ExtraPayment{}, extrapay.ErrPaymentNotFound
		}
		return extrapay.ExtraPayment{}, fmt.Errorf("failed to get extra payment by ID: %w", err)
	}

	return p, nil
}

// GetBySegment implements extrapay.ExtraPaymentRepository.
func (r *extraPaymentRepository) GetBySegment(ctx context.Context, shiftID string, position int) (*extrapay.ExtraPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM extra_payments WHERE shift_id = $1 AND segment_position = $2`

	p, err := scanPayment(q.QueryRow(ctx, query, shiftID, position))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // segment never settled
		}
		return nil, fmt.Errorf("failed to get extra payment by segment: %w", err)
	}

	return &p, nil
}

// ListByShift implements extrapay.ExtraPaymentRepository.
func (r *extraPaymentRepository) ListByShift(ctx context.Context, shiftID string) ([]extrapay.ExtraPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM extra_payments WHERE shift_id = $1 ORDER BY segment_position ASC`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list extra payments by shift: %w", err)
	}
	defer rows.Close()

	var payments []extrapay.ExtraPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extra payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extra payments: %w", err)
	}

	return payments, nil
}

// Update implements extrapay.ExtraPaymentRepository. The initial_* columns
// are deliberately absent from the SET list: the snapshot is written once at
// insert and the database never overwrites it.
func (r *extraPaymentRepository) Update(ctx context.Context, p extrapay.ExtraPayment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE extra_payments
		SET hours_worked = $2, hourly_rate = $3, amount = $4,
			status = $5, method = $6, note = $7, paid_at = $8, last_modified_at = $9
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		p.ID, p.HoursWorked, p.HourlyRate, p.Amount,
		p.Status, p.Method, p.Note, p.PaidAt, p.LastModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update extra payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return extrapay.ErrPaymentNotFound
	}

	return nil
}

// List implements extrapay.ExtraPaymentRepository.
func (r *extraPaymentRepository) List(ctx context.Context, filter extrapay.PaymentFilter) ([]extrapay.ExtraPayment, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM extra_payments WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count extra payments: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s FROM extra_payments
		WHERE %s
		ORDER BY date DESC, segment_position ASC
		LIMIT $%d OFFSET $%d
	`, paymentColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list extra payments: %w", err)
	}
	defer rows.Close()

	var payments []extrapay.ExtraPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan extra payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate extra payments: %w", err)
	}

	return payments, total, nil
}

// StatsByEmployee implements extrapay.ExtraPaymentRepository.
func (r *extraPaymentRepository) StatsByEmployee(ctx context.Context, employeeID string) (map[string]extrapay.StatusStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*), COALESCE(SUM(hours_worked), 0), COALESCE(SUM(amount), 0)
		FROM extra_payments
		WHERE employee_id = $1
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate extra payments: %w", err)
	}
	defer rows.Close()

	stats := map[string]extrapay.StatusStats{}
	for rows.Next() {
		var status, hours, amount string
		var count int64
		if err := rows.Scan(&status, &count, &hours, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment stats: %w", err)
		}
		stats[status] = extrapay.StatusStats{Count: count, TotalHours: hours, TotalAmount: amount}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment stats: %w", err)
	}

	return stats, nil
}

func scanPayment(row pgx.Row) (extrapay.ExtraPayment, error) {
	var p extrapay.ExtraPayment
	var snapshot []byte
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.ShiftID, &p.SegmentPosition, &p.Date,
		&p.HoursWorked, &p.HourlyRate, &p.Amount,
		&p.InitialHoursWorked, &p.InitialAmount, &snapshot,
		&p.Status, &p.Method, &p.Note, &p.PaidAt, &p.CreatedAt, &p.LastModifiedAt,
	)
	if err != nil {
		return extrapay.ExtraPayment{}, err
	}
	if err := json.Unmarshal(snapshot, &p.InitialSegmentSnapshot); err != nil {
		return extrapay.ExtraPayment{}, fmt.Errorf("unmarshal segment snapshot: %w", err)
	}
	return p, nil
}
