package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leaveBalanceRowColumns = []string{
	"id", "employee_id", "leave_type", "total_days", "used_days", "remaining_days",
	"version", "created_at", "updated_at",
}

func newMockBalanceRepo(t *testing.T) (pgxmock.PgxPoolIface, leave.LeaveBalanceRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewLeaveBalanceRepository(database.NewFromPool(mock))
}

func testBalance() leave.Balance {
	return leave.Balance{
		ID:            "bal-1",
		EmployeeID:    "emp-1",
		LeaveType:     leave.TypePaidLeave,
		TotalDays:     decimal.NewFromInt(10),
		UsedDays:      decimal.NewFromInt(1),
		RemainingDays: decimal.NewFromInt(9),
		Version:       1,
	}
}

func TestLeaveBalanceRepository_Create_StartsAtVersionOne(t *testing.T) {
	mock, repo := newMockBalanceRepo(t)
	createdAt := time.Unix(10, 0)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO leave_balances")).
		WithArgs(anyArgs(6)...).
		WillReturnRows(mock.NewRows([]string{"version", "created_at", "updated_at"}).
			AddRow(int64(1), createdAt, createdAt))

	created, err := repo.Create(context.Background(), testBalance())

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBalanceRepository_Update_VersionConflict(t *testing.T) {
	mock, repo := newMockBalanceRepo(t)

	// Stale version matches no row, so RETURNING yields an empty result.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE leave_balances SET")).
		WithArgs(anyArgs(5)...).
		WillReturnRows(mock.NewRows([]string{"version", "updated_at"}))

	_, err := repo.Update(context.Background(), testBalance())

	assert.ErrorIs(t, err, leave.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBalanceRepository_Update_BumpsVersion(t *testing.T) {
	mock, repo := newMockBalanceRepo(t)
	updatedAt := time.Unix(99, 0)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE leave_balances SET")).
		WithArgs(anyArgs(5)...).
		WillReturnRows(mock.NewRows([]string{"version", "updated_at"}).AddRow(int64(2), updatedAt))

	updated, err := repo.Update(context.Background(), testBalance())

	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, updatedAt, updated.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveBalanceRepository_GetByEmployeeAndType_NoRowsIsNil(t *testing.T) {
	mock, repo := newMockBalanceRepo(t)

	mock.ExpectQuery(`SELECT(.|\n)+FROM leave_balances`).
		WithArgs("emp-1", leave.TypePaidLeave).
		WillReturnRows(mock.NewRows(leaveBalanceRowColumns))

	balance, err := repo.GetByEmployeeAndType(context.Background(), "emp-1", leave.TypePaidLeave)

	require.NoError(t, err)
	assert.Nil(t, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
