package postgresql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, database.NewFromPool(mock)
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	mock, db := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE id = $1")).
		WithArgs("rec-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		// The context now carries the transaction, so the querier must be
		// the transaction rather than the pool.
		_, err := GetQuerier(ctx, db).Exec(ctx, "DELETE FROM attendance_records WHERE id = $1", "rec-1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	mock, db := newMockDB(t)
	boom := errors.New("balance write failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), db, func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
