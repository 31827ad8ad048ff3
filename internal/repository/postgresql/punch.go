package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/punch"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

// Create implements punch.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, event punch.PunchEvent) (punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_events (id, employee_id, kind, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query, event.ID, event.EmployeeID, event.Kind, event.Timestamp).
		Scan(&event.CreatedAt)
	if err != nil {
		return punch.PunchEvent{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return event, nil
}

// GetByID implements punch.PunchRepository.
func (r *punchRepository) GetByID(ctx context.Context, id string) (punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, timestamp, created_at
		FROM punch_events
		WHERE id = $1
	`

	var p punch.PunchEvent
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.EmployeeID, &p.Kind, &p.Timestamp, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return punch.PunchEvent{}, punch.ErrPunchNotFound
		}
		return punch.PunchEvent{}, fmt.Errorf("failed to get punch by ID: %w", err)
	}

	return p, nil
}

// ListByEmployeeAndRange implements punch.PunchRepository.
func (r *punchRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]punch.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, timestamp, created_at
		FROM punch_events
		WHERE employee_id = $1
		  AND timestamp >= $2
		  AND timestamp < $3
		ORDER BY timestamp ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches by range: %w", err)
	}
	defer rows.Close()

	var punches []punch.PunchEvent
	for rows.Next() {
		var p punch.PunchEvent
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Kind, &p.Timestamp, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}

	return punches, nil
}

// List implements punch.PunchRepository.
func (r *punchRepository) List(ctx context.Context, filter punch.PunchFilter) ([]punch.PunchEvent, int64, error) {
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
		baseWhere += fmt.Sprintf(" AND timestamp >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND timestamp < ($%d::date + 1)", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM punch_events WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punches: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, employee_id, kind, timestamp, created_at
		FROM punch_events
		WHERE %s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.PunchEvent
	for rows.Next() {
		var p punch.PunchEvent
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Kind, &p.Timestamp, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate punches: %w", err)
	}

	return punches, total, nil
}
