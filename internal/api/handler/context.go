package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identihub/identity-service/internal/api/middleware"
	"github.com/identihub/identity-service/internal/core/domain"
)

// ctxUser extracts the user injected by the Auth middleware. Its presence
// proves the middleware chain ran; a protected handler reached without it is
// a wiring bug and is rejected with 401.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
