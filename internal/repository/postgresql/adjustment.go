package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/adjustment"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
)

type adjustmentRepository struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

const adjustmentColumns = `
	id, employee_id, start_date, end_date, reason, status, created_at, updated_at
`

func scanAdjustmentRequest(row pgx.Row) (adjustment.Request, error) {
	var r adjustment.Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.StartDate, &r.EndDate, &r.Reason, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// GetByIDAndEmployee implements adjustment.AdjustmentRepository.
func (a *adjustmentRepository) GetByIDAndEmployee(ctx context.Context, id, employeeID string) (adjustment.Request, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + adjustmentColumns + `FROM adjustment_requests WHERE id = $1 AND employee_id = $2`

	request, err := scanAdjustmentRequest(q.QueryRow(ctx, query, id, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.Request{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Request{}, fmt.Errorf("failed to get adjustment request: %w", err)
	}
	return request, nil
}

// ListActiveInPeriod implements adjustment.AdjustmentRepository.
func (a *adjustmentRepository) ListActiveInPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]adjustment.Request, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + adjustmentColumns + `
		FROM adjustment_requests
		WHERE employee_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustment requests: %w", err)
	}
	defer rows.Close()

	var requests []adjustment.Request
	for rows.Next() {
		request, err := scanAdjustmentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// Update implements adjustment.AdjustmentRepository.
func (a *adjustmentRepository) Update(ctx context.Context, request adjustment.Request) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE adjustment_requests SET
			status = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := q.Exec(ctx, query, request.Status, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update adjustment request: %w", err)
	}
	return nil
}
