package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

// IdentityService resolves bearer tokens into users. It is the first stage of
// the authorization chain: token verification, then subject lookup.
type IdentityService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewIdentityService(repo ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, tokens: tokens, log: log}
}

// Resolve verifies token as an access token and loads the subject's user
// record. A missing token, failed verification, and an unknown subject all
// return domain.ErrInvalidToken — "token valid, user gone" must not be
// distinguishable from "token invalid".
func (s *IdentityService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	claims, err := s.tokens.Verify(token, domain.TokenAccess, time.Now().UTC())
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

var _ ports.IdentityResolver = (*IdentityService)(nil)
