package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/historical-data/internal/bootstrap"
	"github.com/muhammadchandra19/historical-data/pkg/config"
	"github.com/muhammadchandra19/historical-data/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/postgresql"
	"github.com/muhammadchandra19/historical-data/pkg/questdb"
	"github.com/muhammadchandra19/historical-data/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Interface) error {
	questdbClient, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		return fmt.Errorf("failed to initialize QuestDB client: %w", err)
	}
	defer questdbClient.Close()

	checkers := map[string]healthcheck.Checker{"questdb": questdbClient.Ping}
	bootstrapConfig := bootstrap.BootstrapConfig{
		Config:  cfg,
		Logger:  appLogger,
		QuestDB: questdbClient,
	}

	// Saved queries are optional; the pipeline keeps serving without them.
	if pgClient, err := postgresql.NewClient(ctx, cfg.Postgres); err != nil {
		appLogger.Warn("PostgreSQL unavailable, saved queries disabled", logger.NewField("error", err.Error()))
	} else {
		defer pgClient.Close()
		bootstrapConfig.Postgres = pgClient
		checkers["postgres"] = pgClient.Ping
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(appLogger, &cfg.Redis)
		if err := redisClient.Connect(ctx); err != nil {
			appLogger.Warn("Redis unavailable, cache stays local", logger.NewField("error", err.Error()))
		} else {
			defer redisClient.Disconnect(context.Background())
			bootstrapConfig.Redis = redisClient
			checkers["redis"] = redisClient.Ping
		}
	}

	app := (&bootstrap.Bootstrap{}).Init(bootstrapConfig)
	defer app.Close()

	app.Usecase.Cache.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           newHandler(app.Usecase.Pipeline, healthcheck.HealthCheck{Checkers: checkers}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	appLogger.Info("Historical data service started",
		logger.NewField("app", cfg.App.Name),
		logger.NewField("environment", cfg.App.Environment),
		logger.NewField("http_port", cfg.App.Port),
		logger.NewField("demo_mode", cfg.Fetcher.DemoMode),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	}

	appLogger.Info("Shutting down historical data service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	appLogger.Info("Historical data service stopped")
	return nil
}
