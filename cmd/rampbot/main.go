package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/usecase/reconcile"
	transactionUseCase "github.com/amirhossein-jamali/rampbot/internal/domain/usecase/transaction"

	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/chain"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/switchapi"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/telegram"
	timeProvider "github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logger.Options{
		Production: cfg.Environment == config.Production || cfg.Logger.Format == "json",
		Level:      cfg.Logger.Level,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	defer func() { _ = appLogger.Flush() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Service terminated", map[string]any{
			"error": err.Error(),
		})
		_ = appLogger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger coreport.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := timeProvider.NewRealTimeProvider()

	// Database
	dbConfig, err := database.FromAppConfig(cfg.Database, cfg.Logger.Level)
	if err != nil {
		return fmt.Errorf("database configuration: %w", err)
	}
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), appLogger, tp)
	lockRepo := repository.NewReferenceLockRepository(dbManager.DB(), tp, appLogger)
	if _, err := lockRepo.CleanupExpiredLocks(ctx); err != nil {
		appLogger.Warn("Could not clean up expired reference locks", map[string]any{
			"error": err.Error(),
		})
	}

	// Gateways
	switchClient, err := switchapi.NewClient(switchapi.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	}, appLogger)
	if err != nil {
		return err
	}

	chainRouter, closeChains, err := chain.NewRouterFromConfig(ctx, cfg.Chains, appLogger)
	if err != nil {
		return err
	}
	defer closeChains()

	notifier, err := newNotifier(cfg, appLogger)
	if err != nil {
		return err
	}

	// Use cases
	statusService := reconcile.NewStatusService(transactionRepo, notifier, appLogger)
	transactionService := transactionUseCase.NewTransactionService(
		transactionRepo,
		switchClient,
		transactionUseCase.NewTransactionValidator(chainRouter.Chains()...),
		tp,
		appLogger,
	)

	scheduler := reconcile.NewScheduler(
		transactionRepo,
		lockRepo,
		switchClient,
		chainRouter,
		statusService,
		tp,
		appLogger.With(map[string]any{"component": "scheduler"}),
		reconcile.SchedulerConfig{
			Interval:        cfg.Scheduler.Interval,
			MinAge:          cfg.Scheduler.MinAge,
			MaxAge:          cfg.Scheduler.MaxAge,
			Concurrency:     cfg.Scheduler.Concurrency,
			LockTTL:         cfg.Scheduler.LockTTL,
			UpstreamTimeout: cfg.Upstream.Timeout,
			ChainTimeout:    longestChainTimeout(cfg.Chains),
		},
	)

	var reporter handler.CycleReporter
	if cfg.Scheduler.Enabled {
		scheduler.Start(ctx)
		defer scheduler.Stop()
		reporter = scheduler
	} else {
		appLogger.Warn("Recovery scheduler disabled; only webhooks will update transactions", nil)
	}

	// HTTP API
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp)
	routes.SetupRoutes(router, routes.Handlers{
		Webhook:     handler.NewWebhookHandler(statusService, appLogger),
		Transaction: handler.NewTransactionHandler(transactionService, statusService, appLogger),
		User:        handler.NewUserHandler(transactionService, appLogger),
		Health:      handler.NewHealthHandler(dbManager, reporter, tp, appLogger),
	}, routes.Security{
		WebhookSecret: cfg.Webhook.Secret,
		AdminToken:    cfg.Admin.Token,
	}, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"chains": chainRouter.Chains(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down server...", nil)
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	for op, stats := range transactionRepo.QueryStats() {
		appLogger.Info("Store query totals", map[string]any{
			"operation": op,
			"calls":     stats.Calls,
			"failures":  stats.Failures,
			"slow":      stats.Slow,
			"max_ms":    stats.Max.Milliseconds(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
	return nil
}

// longestChainTimeout bounds a whole scan; each chain still applies its own deadline
func longestChainTimeout(chains map[string]config.ChainConfig) time.Duration {
	var longest time.Duration
	for _, c := range chains {
		longest = max(longest, c.Timeout)
	}
	return longest
}

// newNotifier connects to Telegram, or logs messages when no token is configured outside production
func newNotifier(cfg *config.Config, appLogger coreport.Logger) (gateway.Notifier, error) {
	if cfg.Telegram.Token == "" {
		appLogger.Warn("No Telegram token configured, notifications are logged only", nil)
		return telegram.NewNotifier(telegram.NewLogSender(appLogger), cfg.Telegram.Explorers, appLogger), nil
	}
	return telegram.NewBotNotifier(telegram.Config{
		Token:     cfg.Telegram.Token,
		Debug:     cfg.Telegram.Debug,
		Explorers: cfg.Telegram.Explorers,
	}, appLogger)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Driver == database.DriverPostgres {
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or RB_DB_HOST)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or RB_DB_USERNAME)")
		}
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database")
	}

	if cfg.Upstream.APIKey == "" {
		missingConfigs = append(missingConfigs, "upstream.apiKey (or RB_UPSTREAM_API_KEY)")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Environment == config.Production {
		if cfg.Telegram.Token == "" {
			missingConfigs = append(missingConfigs, "telegram.token (or RB_TELEGRAM_TOKEN)")
		}
		if cfg.Webhook.Secret == "" {
			missingConfigs = append(missingConfigs, "webhook.secret (or RB_WEBHOOK_SECRET)")
		}
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver == database.DriverPostgres &&
			sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Admin.Token == "" {
			warnings = append(warnings, "admin.token is empty, admin endpoints are disabled")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
