package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
)

type leaveGrantRepository struct {
	db *database.DB
}

func NewLeaveGrantRepository(db *database.DB) leave.LeaveGrantRepository {
	return &leaveGrantRepository{db: db}
}

const leaveGrantColumns = `
	id, employee_id, leave_type, granted_days, granted_at, expires_at,
	granted_by, created_at
`

func scanLeaveGrant(row pgx.Row) (leave.Grant, error) {
	var g leave.Grant
	err := row.Scan(
		&g.ID, &g.EmployeeID, &g.LeaveType, &g.GrantedDays, &g.GrantedAt, &g.ExpiresAt,
		&g.GrantedBy, &g.CreatedAt,
	)
	return g, err
}

// Create implements leave.LeaveGrantRepository.
func (l *leaveGrantRepository) Create(ctx context.Context, grant leave.Grant) (leave.Grant, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_grants (id, employee_id, leave_type, granted_days, granted_at, expires_at, granted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		grant.ID, grant.EmployeeID, grant.LeaveType, grant.GrantedDays,
		grant.GrantedAt, grant.ExpiresAt, grant.GrantedBy,
	).Scan(&grant.CreatedAt)
	if err != nil {
		return leave.Grant{}, fmt.Errorf("failed to create leave grant: %w", err)
	}
	return grant, nil
}

// ListActive implements leave.LeaveGrantRepository.
func (l *leaveGrantRepository) ListActive(ctx context.Context, employeeID string, leaveType leave.LeaveType, asOf time.Time) ([]leave.Grant, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT` + leaveGrantColumns + `
		FROM leave_grants
		WHERE employee_id = $1
		  AND leave_type = $2
		  AND (granted_at IS NULL OR granted_at <= $3::date)
		  AND (expires_at IS NULL OR expires_at >= $3::date)
		ORDER BY created_at
	`

	return l.queryGrants(ctx, q, query, employeeID, leaveType, asOf)
}

// ListActiveAll implements leave.LeaveGrantRepository.
func (l *leaveGrantRepository) ListActiveAll(ctx context.Context, employeeID string, asOf time.Time) ([]leave.Grant, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT` + leaveGrantColumns + `
		FROM leave_grants
		WHERE employee_id = $1
		  AND (granted_at IS NULL OR granted_at <= $2::date)
		  AND (expires_at IS NULL OR expires_at >= $2::date)
		ORDER BY created_at
	`

	return l.queryGrants(ctx, q, query, employeeID, asOf)
}

func (l *leaveGrantRepository) queryGrants(ctx context.Context, q database.Querier, query string, args ...any) ([]leave.Grant, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave grants: %w", err)
	}
	defer rows.Close()

	var grants []leave.Grant
	for rows.Next() {
		grant, err := scanLeaveGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave grant: %w", err)
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}
