package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, leave_type, total_days, used_days, remaining_days,
	version, created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveType, &b.TotalDays, &b.UsedDays, &b.RemainingDays,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepository) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type, total_days, used_days, remaining_days, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.ID, balance.EmployeeID, balance.LeaveType,
		balance.TotalDays, balance.UsedDays, balance.RemainingDays,
	).Scan(&balance.Version, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return balance, nil
}

// GetByEmployeeAndType implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepository) GetByEmployeeAndType(ctx context.Context, employeeID string, leaveType leave.LeaveType) (*leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2
	`

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &balance, nil
}

// ListByEmployee implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		balance, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}

// Update implements leave.LeaveBalanceRepository. The version predicate makes
// the write a compare-and-swap; zero matched rows means another writer won.
func (l *leaveBalanceRepository) Update(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_balances SET
			total_days = $1, used_days = $2, remaining_days = $3,
			version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.TotalDays, balance.UsedDays, balance.RemainingDays,
		balance.ID, balance.Version,
	).Scan(&balance.Version, &balance.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrVersionConflict
		}
		return leave.Balance{}, fmt.Errorf("failed to update leave balance: %w", err)
	}
	return balance, nil
}
