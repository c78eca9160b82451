package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-hq/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
)

type userAccountRepository struct {
	db *database.DB
}

func NewUserAccountRepository(db *database.DB) auth.UserAccountRepository {
	return &userAccountRepository{db: db}
}

// GetByUsername implements auth.UserAccountRepository.
func (u *userAccountRepository) GetByUsername(ctx context.Context, username string) (auth.UserAccount, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		SELECT id, username, password_hash, employee_id, is_admin, created_at, updated_at
		FROM user_accounts
		WHERE username = $1
	`

	var account auth.UserAccount
	err := q.QueryRow(ctx, query, username).Scan(
		&account.ID, &account.Username, &account.PasswordHash,
		&account.EmployeeID, &account.IsAdmin, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.UserAccount{}, auth.ErrInvalidCredentials
		}
		return auth.UserAccount{}, fmt.Errorf("failed to get user account: %w", err)
	}
	return account, nil
}
