// Package server implements the server CLI command.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	activationUC "github.com/keygate-app/keygate/internal/application/activation/usecases"
	adminUC "github.com/keygate-app/keygate/internal/application/admin/usecases"
	"github.com/keygate-app/keygate/internal/infrastructure/auth"
	"github.com/keygate-app/keygate/internal/infrastructure/config"
	"github.com/keygate-app/keygate/internal/infrastructure/database"
	"github.com/keygate-app/keygate/internal/infrastructure/migration"
	"github.com/keygate-app/keygate/internal/infrastructure/repository"
	"github.com/keygate-app/keygate/internal/infrastructure/services"
	httpRouter "github.com/keygate-app/keygate/internal/interfaces/http"
	"github.com/keygate-app/keygate/internal/interfaces/http/handlers"
	"github.com/keygate-app/keygate/internal/interfaces/http/middleware"
	"github.com/keygate-app/keygate/internal/shared/db"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Keygate HTTP server with the configured database and admin hub.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		manager := migration.NewManager(env, log)
		if err := manager.Migrate(database.Get()); err != nil {
			logger.Fatal("migration failed", "error", err)
		}
	}

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.TokenExpHours)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	hub := services.NewAdminHub(log)
	txManager := db.NewTransactionManager(database.Get())
	keyGen := activationUC.NewShortIDGenerator()

	// Repositories
	subscriptionRepo := repository.NewSubscriptionRepository(database.Get(), log)
	clientRepo := repository.NewClientRepository(database.Get(), log)
	adminRepo := repository.NewAdminRepository(database.Get(), log)
	ledgerRepo := repository.NewValidationLogRepository(database.Get(), log)

	// Use cases
	requestUC := activationUC.NewRequestActivationUseCase(subscriptionRepo, keyGen, hub, log)
	checkUC := activationUC.NewCheckStatusUseCase(subscriptionRepo)
	listPendingUC := activationUC.NewListPendingUseCase(subscriptionRepo)
	validateUC := activationUC.NewValidateSubscriptionUseCase(
		subscriptionRepo, clientRepo, ledgerRepo, adminRepo, txManager, keyGen, hub, log)
	clearPendingUC := activationUC.NewClearPendingUseCase(subscriptionRepo, log)
	listValidationsUC := activationUC.NewListValidationsUseCase(ledgerRepo)
	adminValidationsUC := activationUC.NewListAdminValidationsUseCase(ledgerRepo, adminRepo)
	listClientsUC := activationUC.NewListClientsUseCase(clientRepo)
	clientHistoryUC := activationUC.NewClientHistoryUseCase(clientRepo, ledgerRepo)
	loginUC := adminUC.NewLoginUseCase(adminRepo, hasher, jwtService, log)
	signupUC := adminUC.NewSignupUseCase(adminRepo, hasher, txManager, log)

	// Optional Redis-backed rate limiting on the mobile endpoints
	var rateLimiter *middleware.RateLimiter
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warnw("redis unreachable, rate limiting will fail open", "error", err)
		}
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute)
		defer redisClient.Close()
	}

	engine := httpRouter.NewRouter(httpRouter.RouterConfig{
		ActivationHandler: handlers.NewActivationHandler(requestUC, checkUC, log),
		AdminAuthHandler:  handlers.NewAdminAuthHandler(loginUC, signupUC, log),
		AdminHandler: handlers.NewAdminHandler(
			listPendingUC, validateUC, clearPendingUC,
			listValidationsUC, adminValidationsUC,
			listClientsUC, clientHistoryUC, log),
		AdminHubHandler: handlers.NewAdminHubHandler(hub, jwtService, log),
		AuthMiddleware:  middleware.NewAuthMiddleware(jwtService, log),
		RateLimiter:     rateLimiter,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
