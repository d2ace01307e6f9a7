package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KimJesus22/LanaSync/internal/config"
	"github.com/KimJesus22/LanaSync/internal/database"
	"github.com/KimJesus22/LanaSync/internal/gateway"
	"github.com/KimJesus22/LanaSync/internal/handlers"
	"github.com/KimJesus22/LanaSync/internal/middleware"
	"github.com/KimJesus22/LanaSync/internal/repositories"
	"github.com/KimJesus22/LanaSync/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := config.Load()
	setupLogger(cfg)

	var scope uuid.UUID
	if cfg.Sync.Scope != "" {
		parsed, err := uuid.Parse(cfg.Sync.Scope)
		if err != nil {
			slog.Error("invalid SYNC_SCOPE", slog.String("value", cfg.Sync.Scope))
			os.Exit(1)
		}
		scope = parsed
	}

	db, err := database.Initialize(&cfg.Outbox)
	if err != nil {
		slog.Error("failed to initialize outbox store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	outboxRepo := repositories.NewOutboxRepository(db.DB)
	remoteGateway := gateway.NewRESTGateway(&cfg.Gateway)

	// The engine runs without a feed when the broker is down; push updates
	// resume on the next restart.
	feed, err := gateway.NewAMQPChangeFeed(&cfg.Feed)
	if err != nil {
		slog.Warn("change feed unavailable, continuing without push updates",
			slog.String("error", err.Error()),
		)
		feed = nil
	}

	monitor := services.NewConnectivityMonitor(remoteGateway, cfg.Sync.ProbeInterval, cfg.Sync.StartOnline)
	breaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	metrics := services.NewPrometheusMetrics()
	syncLogger := services.NewSyncLogger(slog.Default())
	aggregator := services.NewAggregationService()

	coordinator := services.NewSyncCoordinator(
		scope,
		cfg.Outbox.MaxRetries,
		remoteGateway,
		feed,
		outboxRepo,
		monitor,
		aggregator,
		breaker,
		syncLogger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := coordinator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("sync coordinator stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	go monitor.RunProber(ctx)

	// A failed initial load is not fatal: submissions queue durably and the
	// load is retried once connectivity returns.
	if err := coordinator.Bootstrap(ctx); err != nil {
		slog.Warn("initial load failed, starting offline", slog.String("error", err.Error()))
	}

	e := buildServer(cfg, db, coordinator, monitor)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		slog.Info("starting server", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", slog.String("error", err.Error()))
	}
}

func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

func buildServer(
	cfg *config.Config,
	db *database.DB,
	coordinator services.SyncCoordinatorInterface,
	monitor services.ConnectivityMonitorInterface,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()

	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.RateLimiterWithConfig(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst))

	healthHandler := handlers.NewHealthCheckHandler(db.DB)
	financeHandler := handlers.NewFinanceHandler(coordinator)
	syncHandler := handlers.NewSyncHandler(coordinator, monitor)

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.GET("/transactions", financeHandler.ListTransactions)
	api.POST("/transactions", financeHandler.SubmitTransaction)
	api.GET("/transactions/pending", financeHandler.ListPendingTransactions)
	api.DELETE("/transactions/:id", financeHandler.DeleteTransaction)
	api.DELETE("/transactions/pending/:key", financeHandler.CancelPendingTransaction)
	api.GET("/balances", financeHandler.GetBalances)
	api.GET("/categories/:category/total", financeHandler.GetCategoryTotal)
	api.GET("/projection", financeHandler.GetProjection)

	api.POST("/sync/now", syncHandler.SyncNow)
	api.PUT("/sync/scope", syncHandler.SetScope)
	api.PUT("/filter", syncHandler.SetFilter)
	api.GET("/sync/pending-count", syncHandler.GetPendingCount)
	api.GET("/sync/status", syncHandler.GetStatus)

	return e
}
