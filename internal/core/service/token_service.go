package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// signingMethods maps the configured algorithm name to a jwt signing method.
// Only the HMAC family is supported; the service signs and verifies with a
// single symmetric secret.
var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// TokenService issues and verifies signed JWTs carrying sub, exp, and type
// claims. Expiry comparison is strict against the caller-supplied now; no
// clock skew is tolerated.
type TokenService struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

// NewTokenService builds a TokenService. An unrecognised algorithm falls back
// to HS256; non-positive lifetimes fall back to 30 minutes / 7 days.
func NewTokenService(secret, algorithm string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *TokenService {
	method, ok := signingMethods[algorithm]
	if !ok {
		method = jwt.SigningMethodHS256
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

func (s *TokenService) IssueAccess(subject string, now time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	return s.sign(subject, domain.TokenAccess, now.Add(ttl))
}

func (s *TokenService) IssueRefresh(subject string, now time.Time) (string, error) {
	return s.sign(subject, domain.TokenRefresh, now.Add(s.refreshTTL))
}

func (s *TokenService) sign(subject string, tokenType domain.TokenType, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"exp":  expiresAt.Unix(),
		"type": string(tokenType),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify parses and validates a token as expected type. Malformed structure,
// signature mismatch, expiry, and type mismatch all return
// domain.ErrInvalidToken; the actual cause is only logged at debug level.
func (s *TokenService) Verify(token string, expected domain.TokenType, now time.Time) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil || !parsed.Valid {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	tokenType, _ := claims["type"].(string)
	if sub == "" || tokenType != string(expected) {
		s.log.Debug().Str("expected", string(expected)).Msg("token type mismatch")
		return nil, domain.ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || !now.Before(exp.Time) {
		s.log.Debug().Msg("token expiry rejected")
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		Subject:   sub,
		ExpiresAt: exp.Time,
		Type:      expected,
	}, nil
}

var _ ports.TokenService = (*TokenService)(nil)
