package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
	"github.com/shiftwatch/timeclock-backend-go/internal/pkg/database"
)

type anomalyRepository struct {
	db *database.DB
}

func NewAnomalyRepository(db *database.DB) anomaly.AnomalyRepository {
	return &anomalyRepository{db: db}
}

// Create implements anomaly.AnomalyRepository.
func (r *anomalyRepository) Create(ctx context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(a.Details)
	if err != nil {
		return anomaly.Anomaly{}, fmt.Errorf("marshal details: %w", err)
	}

	query := `
		INSERT INTO anomalies (
			id, employee_id, work_day, type, severity, status, description, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.WorkDay, a.Type, a.Severity, a.Status, a.Description, details,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return anomaly.Anomaly{}, fmt.Errorf("failed to create anomaly: %w", err)
	}

	return a, nil
}

// GetByID implements anomaly.AnomalyRepository.
func (r *anomalyRepository) GetByID(ctx context.Context, id string) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_day, type, severity, status, description, details,
			   handled_by, handled_at, created_at, updated_at
		FROM anomalies
		WHERE id = $1
	`

	a, err := scanAnomaly(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return anomaly.Anomaly{}, anomaly.ErrAnomalyNotFound
		}
		return anomaly.Anomaly{}, fmt.Errorf("failed to get anomaly by ID: %w", err)
	}

	return a, nil
}

// Update implements anomaly.AnomalyRepository.
func (r *anomalyRepository) Update(ctx context.Context, a anomaly.Anomaly) error {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	query := `
		UPDATE anomalies
		SET severity = $2, status = $3, description = $4, details = $5,
			handled_by = $6, handled_at = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		a.ID, a.Severity, a.Status, a.Description, details, a.HandledBy, a.HandledAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update anomaly: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return anomaly.ErrAnomalyNotFound
	}

	return nil
}

// ListActiveByEmployeeAndDay implements anomaly.AnomalyRepository.
func (r *anomalyRepository) ListActiveByEmployeeAndDay(ctx context.Context, employeeID string, workDay time.Time) ([]anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_day, type, severity, status, description, details,
			   handled_by, handled_at, created_at, updated_at
		FROM anomalies
		WHERE employee_id = $1
		  AND work_day = $2
		  AND status != 'obsolete'
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, workDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list active anomalies: %w", err)
	}
	defer rows.Close()

	var anomalies []anomaly.Anomaly
	for rows.Next() {
		a, err := scanAnomaly(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomalies: %w", err)
	}

	return anomalies, nil
}

// List implements anomaly.AnomalyRepository.
func (r *anomalyRepository) List(ctx context.Context, filter anomaly.AnomalyFilter) ([]anomaly.Anomaly, int64, error) {
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
		baseWhere += fmt.Sprintf(" AND work_day >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND work_day <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Severity != nil && *filter.Severity != "" {
		baseWhere += fmt.Sprintf(" AND severity = $%d", argIdx)
		args = append(args, *filter.Severity)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM anomalies WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count anomalies: %w", err)
	}

	orderByField := "work_day"
	switch filter.SortBy {
	case "severity":
		orderByField = "severity"
	case "status":
		orderByField = "status"
	case "created_at":
		orderByField = "created_at"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, employee_id, work_day, type, severity, status, description, details,
			   handled_by, handled_at, created_at, updated_at
		FROM anomalies
		WHERE %s
		ORDER BY %s %s, created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list anomalies: %w", err)
	}
	defer rows.Close()

	var anomalies []anomaly.Anomaly
	for rows.Next() {
		a, err := scanAnomaly(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		anomalies = append(anomalies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate anomalies: %w", err)
	}

	return anomalies, total, nil
}

func scanAnomaly(row pgx.Row) (anomaly.Anomaly, error) {
	var a anomaly.Anomaly
	var details []byte
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.WorkDay, &a.Type, &a.Severity, &a.Status,
		&a.Description, &details, &a.HandledBy, &a.HandledAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return anomaly.Anomaly{}, err
	}
	if err := json.Unmarshal(details, &a.Details); err != nil {
		return anomaly.Anomaly{}, fmt.Errorf("unmarshal details: %w", err)
	}
	return a, nil
}
