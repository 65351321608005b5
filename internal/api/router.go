package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identihub/identity-service/internal/api/handler"
	"github.com/identihub/identity-service/internal/api/middleware"
	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/ports"
)

// Dependencies carries the wired services the router needs. Construction
// happens in main so component lifecycles (dispatcher workers, connections)
// stay in one place.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Audit    ports.AuditService
	Resolver ports.IdentityResolver
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Role allow-sets are fixed here, per route, so authorization decisions are
// auditable in one screen of code.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	auditHandler := handler.NewAuditHandler(deps.Audit)

	// --- Auth routes (no token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- Protected routes: identity resolution, then per-route guards ---
	authn := middleware.Auth(deps.Resolver)

	users := e.Group("/users", authn)
	users.GET("/me", userHandler.Me, middleware.RBAC())
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleModerator, domain.RoleAdmin))
	users.GET("/:id", userHandler.GetByID, middleware.RBAC())
	users.PATCH("/:id", userHandler.Update, middleware.RBAC())
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	audit := e.Group("/audit", authn)
	audit.GET("/events", auditHandler.ListEvents, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
