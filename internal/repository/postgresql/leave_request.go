package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type, time_unit, start_date, end_date, days,
	status, reason, approver_id, rejection_comment, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var r leave.Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.TimeUnit, &r.StartDate, &r.EndDate, &r.Days,
		&r.Status, &r.Reason, &r.ApproverID, &r.RejectionComment, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, time_unit, start_date, end_date, days,
			status, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType, request.TimeUnit,
		request.StartDate, request.EndDate, request.Days, request.Status, request.Reason,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT` + leaveRequestColumns + `FROM leave_requests WHERE id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

// GetByIDAndEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByIDAndEmployee(ctx context.Context, id, employeeID string) (leave.Request, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT` + leaveRequestColumns + `FROM leave_requests WHERE id = $1 AND employee_id = $2`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

// HasOverlapping implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status NOT IN ('REJECTED', 'CANCELLED')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	return exists, nil
}

// ListPendingOnDate implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) ListPendingOnDate(ctx context.Context, employeeID string, leaveType leave.LeaveType, date time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND leave_type = $2
		  AND status = 'PENDING'
		  AND start_date <= $3
		  AND end_date >= $3
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, leaveType, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	defer rows.Close()

	return collectLeaveRequests(rows)
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		ORDER BY start_date DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	return collectLeaveRequests(rows)
}

// Update implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Update(ctx context.Context, request leave.Request) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_requests SET
			status = $1, approver_id = $2, rejection_comment = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := q.Exec(ctx, query, request.Status, request.ApproverID, request.RejectionComment, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.Request, error) {
	var requests []leave.Request
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
