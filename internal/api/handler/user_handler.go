package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's own profile.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns a page of users. Moderators and admins only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        skip   query     int  false  "Records to skip"
// @Param        limit  query     int  false  "Maximum records to return"
// @Success      200    {array}   domain.User
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query"})
	}

	users, err := h.userService.List(c.Request().Context(), q.Skip, q.Limit)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// GetByID returns a single user. Users may view themselves; moderators and
// admins may view anyone.
//
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	current, err := ctxUser(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if current.ID == id {
		return c.JSON(http.StatusOK, current)
	}

	if current.Role != domain.RoleAdmin && current.Role != domain.RoleModerator {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "not enough permissions to view other users"})
	}

	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update modifies a user. Users may update their own profile; only admins may
// update other users or touch role and active status.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	current, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id := c.Param("id")
	isSelf := current.ID == id
	isAdmin := current.Role == domain.RoleAdmin

	if !isSelf && !isAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "not enough permissions to update this user"})
	}
	if !isAdmin {
		if req.Role != nil {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "only admins can change user roles"})
		}
		if req.IsActive != nil {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "only admins can change account status"})
		}
	}

	update := ports.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
		}
		update.Role = &role
	}

	user, err := h.userService.Update(c.Request().Context(), id, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user. Admins only; deleting your own account is rejected
// to prevent lockout.
//
// @Summary      Delete user
// @Tags         users
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	current, err := ctxUser(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if current.ID == id {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot delete your own account"})
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
