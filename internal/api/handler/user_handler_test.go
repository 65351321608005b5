package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identihub/identity-service/internal/api/middleware"
	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

type stubUserService struct {
	users      map[string]*domain.User
	lastUpdate ports.UserUpdate
	deleted    []string
}

func newStubUserService(users ...*domain.User) *stubUserService {
	s := &stubUserService{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserService) List(_ context.Context, _, _ int64) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *stubUserService) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	s.lastUpdate = update
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserService) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUserService) EnsureAdmin(_ context.Context, email, _, _ string) (*domain.User, error) {
	return &domain.User{ID: "admin-1", Email: email, IsActive: true, Role: domain.RoleAdmin}, nil
}

func userContext(e *echo.Echo, method, target, body string, current *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if current != nil {
		c.Set(middleware.UserContextKey, current)
	}
	return c, rec
}

func TestUserHandler_Me(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "alice@example.com", IsActive: true, Role: domain.RoleUser}
	h := NewUserHandler(newStubUserService(current))

	c, rec := userContext(e, http.MethodGet, "/users/me", "", current)

	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}
}

func TestUserHandler_Me_MissingUser(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newStubUserService())

	c, rec := userContext(e, http.MethodGet, "/users/me", "", nil)

	if err := h.Me(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_GetByID_Self(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "alice@example.com", IsActive: true, Role: domain.RoleUser}
	h := NewUserHandler(newStubUserService(current))

	c, rec := userContext(e, http.MethodGet, "/users/id-1", "", current)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.GetByID(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_GetByID_OtherAsUser(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "alice@example.com", IsActive: true, Role: domain.RoleUser}
	other := &domain.User{ID: "id-2", Email: "bob@example.com", IsActive: true, Role: domain.RoleUser}
	h := NewUserHandler(newStubUserService(current, other))

	c, rec := userContext(e, http.MethodGet, "/users/id-2", "", current)
	c.SetParamNames("id")
	c.SetParamValues("id-2")

	if err := h.GetByID(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUserHandler_GetByID_OtherAsModerator(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "mod@example.com", IsActive: true, Role: domain.RoleModerator}
	other := &domain.User{ID: "id-2", Email: "bob@example.com", IsActive: true, Role: domain.RoleUser}
	h := NewUserHandler(newStubUserService(current, other))

	c, rec := userContext(e, http.MethodGet, "/users/id-2", "", current)
	c.SetParamNames("id")
	c.SetParamValues("id-2")

	if err := h.GetByID(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Email != "bob@example.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}
}

func TestUserHandler_Update_SelfProfile(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "alice@example.com", IsActive: true, Role: domain.RoleUser}
	svc := newStubUserService(current)
	h := NewUserHandler(svc)

	c, rec := userContext(e, http.MethodPatch, "/users/id-1", `{"full_name":"Alice Updated"}`, current)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpdate.FullName == nil || *svc.lastUpdate.FullName != "Alice Updated" {
		t.Fatalf("full name not passed through: %+v", svc.lastUpdate)
	}
}

func TestUserHandler_Update_RoleChangeNeedsAdmin(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "alice@example.com", IsActive: true, Role: domain.RoleUser}
	h := NewUserHandler(newStubUserService(current))

	c, rec := userContext(e, http.MethodPatch, "/users/id-1", `{"role":"admin"}`, current)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUserHandler_Update_OtherNeedsAdmin(t *testing.T) {
	e := newTestEcho()
	current := &domain.User{ID: "id-1", Email: "alice@example.com", IsActive: true, Role: domain.RoleUser}
	other := &domain.User{ID: "id-2", Email: "bob@example.com", IsActive: true, Role: domain.RoleUser}
	h := NewUserHandler(newStubUserService(current, other))

	c, rec := userContext(e, http.MethodPatch, "/users/id-2", `{"full_name":"Bob"}`, current)
	c.SetParamNames("id")
	c.SetParamValues("id-2")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUserHandler_Update_AdminSetsRole(t *testing.T) {
	e := newTestEcho()
	admin := &domain.User{ID: "id-1", Email: "admin@example.com", IsActive: true, Role: domain.RoleAdmin}
	other := &domain.User{ID: "id-2", Email: "bob@example.com", IsActive: true, Role: domain.RoleUser}
	svc := newStubUserService(admin, other)
	h := NewUserHandler(svc)

	c, rec := userContext(e, http.MethodPatch, "/users/id-2", `{"role":"moderator","is_active":false}`, admin)
	c.SetParamNames("id")
	c.SetParamValues("id-2")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpdate.Role == nil || *svc.lastUpdate.Role != domain.RoleModerator {
		t.Fatalf("role not passed through: %+v", svc.lastUpdate)
	}
	if svc.lastUpdate.IsActive == nil || *svc.lastUpdate.IsActive {
		t.Fatalf("is_active not passed through: %+v", svc.lastUpdate)
	}
}

func TestUserHandler_Update_InvalidRole(t *testing.T) {
	e := newTestEcho()
	admin := &domain.User{ID: "id-1", Email: "admin@example.com", IsActive: true, Role: domain.RoleAdmin}
	h := NewUserHandler(newStubUserService(admin))

	c, rec := userContext(e, http.MethodPatch, "/users/id-1", `{"role":"superuser"}`, admin)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	admin := &domain.User{ID: "id-1", Email: "admin@example.com", IsActive: true, Role: domain.RoleAdmin}
	other := &domain.User{ID: "id-2", Email: "bob@example.com", IsActive: true, Role: domain.RoleUser}
	svc := newStubUserService(admin, other)
	h := NewUserHandler(svc)

	c, rec := userContext(e, http.MethodDelete, "/users/id-2", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("id-2")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "id-2" {
		t.Fatalf("unexpected deletions: %v", svc.deleted)
	}
}

func TestUserHandler_Delete_Self(t *testing.T) {
	e := newTestEcho()
	admin := &domain.User{ID: "id-1", Email: "admin@example.com", IsActive: true, Role: domain.RoleAdmin}
	h := NewUserHandler(newStubUserService(admin))

	c, rec := userContext(e, http.MethodDelete, "/users/id-1", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	e := newTestEcho()
	admin := &domain.User{ID: "id-1", Email: "admin@example.com", IsActive: true, Role: domain.RoleAdmin}
	h := NewUserHandler(newStubUserService(admin))

	c, rec := userContext(e, http.MethodDelete, "/users/missing", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
