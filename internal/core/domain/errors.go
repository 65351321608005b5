package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and password mismatch.
	// The two causes are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every token verification failure: malformed,
	// bad signature, expired, or wrong token type.
	ErrInvalidToken = errors.New("invalid token")

	ErrAccountDisabled = errors.New("account disabled")
	ErrForbidden       = errors.New("access forbidden")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidRole     = errors.New("invalid role")
	ErrTooManyAttempts = errors.New("too many login attempts")
)
