package auth

import (
	"context"
	"fmt"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	auth.UserAccountRepository
	jwtService jwt.Service
}

func NewAuthService(userRepository auth.UserAccountRepository, jwtService jwt.Service) *AuthServiceImpl {
	return &AuthServiceImpl{
		UserAccountRepository: userRepository,
		jwtService:            jwtService,
	}
}

// Login implements auth.AuthService. Unknown usernames and wrong passwords
// yield the same error.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	account, err := a.UserAccountRepository.GetByUsername(ctx, req.Username)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(account.ID, account.Username, account.EmployeeID, account.IsAdmin)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		EmployeeID:  account.EmployeeID,
		Username:    account.Username,
		IsAdmin:     account.IsAdmin,
	}, nil
}
