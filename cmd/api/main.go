// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/promptvault/internal/admin"
	"github.com/angelamos/promptvault/internal/auth"
	"github.com/angelamos/promptvault/internal/bootstrap"
	"github.com/angelamos/promptvault/internal/category"
	"github.com/angelamos/promptvault/internal/config"
	"github.com/angelamos/promptvault/internal/core"
	"github.com/angelamos/promptvault/internal/entry"
	"github.com/angelamos/promptvault/internal/health"
	"github.com/angelamos/promptvault/internal/middleware"
	"github.com/angelamos/promptvault/internal/retention"
	"github.com/angelamos/promptvault/internal/server"
	"github.com/angelamos/promptvault/internal/settings"
	"github.com/angelamos/promptvault/internal/tag"
	"github.com/angelamos/promptvault/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else if telemetry.Enabled() {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
			"sample_rate", cfg.Otel.SampleRate,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	authRepo := auth.NewRepository(db.DB)

	userSvc := user.NewService(user.NewRepository(db.DB), authRepo, logger)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		authRepo,
		jwtManager,
		userSvc,
		auth.NewRedisBlacklist(redis.Client),
		logger,
	)
	authHandler := auth.NewHandler(authSvc)

	entrySvc := entry.NewService(
		entry.NewRepository(db.DB),
		tag.NewRepository(db.DB),
		entry.NewTransactor(db.DB),
		logger,
	)
	entryHandler := entry.NewHandler(entrySvc)

	categorySvc := category.NewService(
		category.NewRepository(db.DB),
		category.NewTransactor(db.DB),
		logger,
	)
	categoryHandler := category.NewHandler(categorySvc)

	settingsSvc := settings.NewService(
		settings.NewRepository(db.DB),
		cfg.App,
		cfg.Database,
		logger,
	)
	settingsHandler := settings.NewHandler(settingsSvc)

	retentionSvc := retention.NewService(
		retention.NewRepository(db.DB),
		cfg.Retention,
		logger,
	)
	retentionHandler := retention.NewHandler(retentionSvc)

	seeded, err := bootstrap.New(
		userSvc,
		categorySvc,
		settingsSvc,
		cfg.Bootstrap,
		logger,
	).Run(ctx)
	if err != nil {
		return err
	}
	if seeded.Seeded {
		logger.Info("first-run data created", "admin_id", seeded.AdminID)
	}

	healthHandler := health.NewHandler().
		With("database", db).
		With("redis", redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		EntryCounts: entrySvc.Counts,
		Logger:      logger,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Policy: middleware.Policy{
				Name: "global",
				Limit: middleware.Per(
					cfg.RateLimit.Window,
					cfg.RateLimit.Requests,
					cfg.RateLimit.Burst,
				),
			},
			Bypass: isProbe,
			Logger: logger,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	purgeLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Policy:  middleware.Policy{Name: "purge", Limit: middleware.PerHour(10, 2)},
		Subject: middleware.SubjectUser,
		Logger:  logger,
	})

	authHandler.RegisterRoutes(router, authenticator)
	userHandler.RegisterRoutes(router, authenticator)
	categoryHandler.RegisterRoutes(router, authenticator)
	entryHandler.RegisterRoutes(router, authenticator)
	settingsHandler.RegisterRoutes(router)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		adminHandler.RegisterRoutes(r)
		userHandler.RegisterAdminRoutes(r)
		categoryHandler.RegisterAdminRoutes(r)
		settingsHandler.RegisterAdminRoutes(r)
		retentionHandler.RegisterRoutes(r, purgeLimiter.Handler)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry.Enabled() {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/.well-known/")
}
