package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt store (Redis). Store failures
// are never fatal to a login; they only disable throttling for that call.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, credential verification, and the
// login/refresh token lifecycle.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle LoginThrottle
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	throttle LoginThrottle,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Register creates a new active account with the user role.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Enqueue(ports.AuthEventInput{
		Subject: created.Email,
		Action:  domain.AuditRegister,
		Outcome: domain.OutcomeSuccess,
	})
	return created, nil
}

// Authenticate verifies an email/password pair. Unknown email and password
// mismatch both yield ErrInvalidCredentials; callers cannot tell which.
// The active flag is deliberately not checked here.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("authenticate: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Debug().Str("email", email).Msg("authenticate: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates, enforces the active flag, and issues a token pair.
// Failed attempts are throttled per email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	blocked, err := s.throttle.TooManyAttempts(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, proceeding")
	} else if blocked {
		s.recordAuth(email, domain.AuditLogin, domain.OutcomeFailure, "throttled")
		return nil, nil, domain.ErrTooManyAttempts
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if tErr := s.throttle.RecordFailure(ctx, email); tErr != nil {
				s.log.Warn().Err(tErr).Msg("failed to record login failure")
			}
			s.recordAuth(email, domain.AuditLogin, domain.OutcomeFailure, "invalid credentials")
		}
		return nil, nil, err
	}

	if !user.IsActive {
		s.recordAuth(email, domain.AuditLogin, domain.OutcomeFailure, "account disabled")
		return nil, nil, domain.ErrAccountDisabled
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, nil, err
	}

	if tErr := s.throttle.Reset(ctx, email); tErr != nil {
		s.log.Warn().Err(tErr).Msg("failed to reset login throttle")
	}
	s.recordAuth(email, domain.AuditLogin, domain.OutcomeSuccess, "")

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The subject
// must still exist and be active; either failure is indistinguishable from an
// invalid token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenRefresh, time.Now().UTC())
	if err != nil {
		s.recordAuth("", domain.AuditRefresh, domain.OutcomeFailure, "invalid token")
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordAuth(claims.Subject, domain.AuditRefresh, domain.OutcomeFailure, "unknown subject")
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		s.recordAuth(user.Email, domain.AuditRefresh, domain.OutcomeFailure, "account disabled")
		return nil, domain.ErrInvalidToken
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, err
	}

	s.recordAuth(user.Email, domain.AuditRefresh, domain.OutcomeSuccess, "")
	return pair, nil
}

func (s *AuthService) issuePair(subject string) (*ports.TokenPair, error) {
	now := time.Now().UTC()
	access, err := s.tokens.IssueAccess(subject, now, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(subject, now)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) recordAuth(subject string, action domain.AuditAction, outcome domain.AuditOutcome, reason string) {
	s.audit.Enqueue(ports.AuthEventInput{
		Subject: subject,
		Action:  action,
		Outcome: outcome,
		Reason:  reason,
	})
}

var _ ports.AuthService = (*AuthService)(nil)
