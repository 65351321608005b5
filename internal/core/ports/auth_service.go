package ports

import (
	"context"

	"github.com/identihub/identity-service/internal/core/domain"
)

// TokenPair is issued on successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService handles registration, credential verification, and the token
// lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	// Authenticate verifies an email/password pair. It does not check the
	// active flag; that is the caller's concern.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
