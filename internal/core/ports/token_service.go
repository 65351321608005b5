package ports

import (
	"time"

	"github.com/identihub/identity-service/internal/core/domain"
)

// TokenClaims is the decoded payload of a verified token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
	Type      domain.TokenType
}

// TokenService creates and verifies signed bearer tokens.
//
// Verify fails closed: malformed structure, signature mismatch, expiry at or
// before now, and a type claim different from expected all yield
// domain.ErrInvalidToken, indistinguishably.
type TokenService interface {
	// IssueAccess creates an access token expiring at now+ttl. A non-positive
	// ttl falls back to the configured access lifetime.
	IssueAccess(subject string, now time.Time, ttl time.Duration) (string, error)
	// IssueRefresh creates a refresh token with the configured refresh lifetime.
	IssueRefresh(subject string, now time.Time) (string, error)
	Verify(token string, expected domain.TokenType, now time.Time) (*TokenClaims, error)
}
