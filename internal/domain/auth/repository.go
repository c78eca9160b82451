package auth

import (
	"context"
)

type UserAccountRepository interface {
	// GetByUsername returns ErrInvalidCredentials for unknown usernames so
	// the login path cannot leak which accounts exist.
	GetByUsername(ctx context.Context, username string) (UserAccount, error)
}
