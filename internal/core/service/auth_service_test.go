package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("id-%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Password != nil {
		u.PasswordHash = *update.Password
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int64) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
	resets   int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) TooManyAttempts(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	t.resets++
	return nil
}

type stubSink struct {
	events []ports.AuthEventInput
}

func (s *stubSink) Enqueue(event ports.AuthEventInput) {
	s.events = append(s.events, event)
}

type authFixture struct {
	svc      *AuthService
	repo     *stubUserRepo
	tokens   *TokenService
	throttle *stubThrottle
	sink     *stubSink
}

func newAuthFixture() *authFixture {
	repo := newStubUserRepo()
	tokens := testTokenService()
	throttle := newStubThrottle(5)
	sink := &stubSink{}
	svc := NewAuthService(repo, NewBcryptHasher(4), tokens, throttle, sink, zerolog.Nop())
	return &authFixture{svc: svc, repo: repo, tokens: tokens, throttle: throttle, sink: sink}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), "alice@example.com", "secret1234", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "secret1234" || user.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "bob@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), "bob@example.com", "otherpass1", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Authenticate_UniformFailure(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "carol@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPass := f.svc.Authenticate(context.Background(), "carol@example.com", "badpass123")
	_, unknown := f.svc.Authenticate(context.Background(), "ghost@example.com", "secret1234")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
}

func TestAuthService_Authenticate_IgnoresActiveFlag(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), "dave@example.com", "secret1234", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	inactive := false
	if _, err := f.repo.Update(context.Background(), user.ID, ports.UserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := f.svc.Authenticate(context.Background(), "dave@example.com", "secret1234"); err != nil {
		t.Fatalf("authenticate should not check the active flag, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "erin@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, user, err := f.svc.Login(context.Background(), "erin@example.com", "secret1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user == nil || user.Email != "erin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("unexpected token type: %s", pair.TokenType)
	}

	now := time.Now().UTC()
	claims, err := f.tokens.Verify(pair.AccessToken, domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Subject != "erin@example.com" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if _, err := f.tokens.Verify(pair.RefreshToken, domain.TokenRefresh, now); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
}

func TestAuthService_Login_Disabled(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), "frank@example.com", "secret1234", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	inactive := false
	if _, err := f.repo.Update(context.Background(), user.ID, ports.UserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, _, err := f.svc.Login(context.Background(), "frank@example.com", "secret1234"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "grace@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, _, err := f.svc.Login(context.Background(), "grace@example.com", "badpass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Budget exhausted: even the correct password is rejected.
	if _, _, err := f.svc.Login(context.Background(), "grace@example.com", "secret1234"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ResetsThrottle(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "heidi@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, _ = f.svc.Login(context.Background(), "heidi@example.com", "badpass123")
	if _, _, err := f.svc.Login(context.Background(), "heidi@example.com", "secret1234"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if f.throttle.failures["heidi@example.com"] != 0 {
		t.Fatalf("expected throttle reset after successful login")
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "ivan@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, _, err := f.svc.Login(context.Background(), "ivan@example.com", "secret1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	next, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := f.tokens.Verify(next.AccessToken, domain.TokenAccess, time.Now().UTC())
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if claims.Subject != "ivan@example.com" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "judy@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, _, err := f.svc.Login(context.Background(), "judy@example.com", "secret1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := f.svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestAuthService_Refresh_DisabledSubject(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), "kate@example.com", "secret1234", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, _, err := f.svc.Login(context.Background(), "kate@example.com", "secret1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	inactive := false
	if _, err := f.repo.Update(context.Background(), user.ID, ports.UserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Disabled subject is indistinguishable from an invalid token.
	if _, err := f.svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_AuditTrail(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "leo@example.com", "secret1234", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, _ = f.svc.Login(context.Background(), "leo@example.com", "badpass123")
	_, _, _ = f.svc.Login(context.Background(), "leo@example.com", "secret1234")

	var actions []string
	for _, e := range f.sink.events {
		actions = append(actions, string(e.Action)+":"+string(e.Outcome))
	}
	want := []string{"register:success", "login:failure", "login:success"}
	if len(actions) != len(want) {
		t.Fatalf("unexpected audit events: %v", actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], actions[i])
		}
	}
}
