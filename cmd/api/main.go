package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/identihub/identity-service/internal/api"
	"github.com/identihub/identity-service/internal/core/service"
	"github.com/identihub/identity-service/internal/infrastructure/config"
	mongodb "github.com/identihub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/identihub/identity-service/internal/infrastructure/db/redis"
	"github.com/identihub/identity-service/internal/infrastructure/queue"
	"github.com/identihub/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "identity-api",
		Pretty:  cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	auditRepo := mongodb.NewAuditRepository(db)

	// --- Core services ---
	hasher := service.NewBcryptHasher(0)
	tokens := service.NewTokenService(
		cfg.JWT.Secret,
		cfg.JWT.Algorithm,
		cfg.JWT.AccessTTL(),
		cfg.JWT.RefreshTTL(),
		log,
	)

	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	throttle := redisdb.NewLoginThrottle(rdb, 0, 0)
	authService := service.NewAuthService(userRepo, hasher, tokens, throttle, dispatcher, log)
	userService := service.NewUserService(userRepo, hasher, log)
	resolver := service.NewIdentityService(userRepo, tokens, log)

	// --- Bootstrap admin ---
	if cfg.Bootstrap.AdminPassword != "" {
		if _, err := userService.EnsureAdmin(ctx,
			cfg.Bootstrap.AdminEmail,
			cfg.Bootstrap.AdminPassword,
			cfg.Bootstrap.AdminName,
		); err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Users:    userService,
		Audit:    auditService,
		Resolver: resolver,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
