package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/api"
	"github.com/queueboard/queueboard/internal/config"
	"github.com/queueboard/queueboard/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to load config", zap.Error(err))
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var stores api.Stores
	dbURL := config.DatabaseURL()
	if dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		if config.SeedOnStart() {
			if err := store.EnsureSeeded(ctx, pool); err != nil {
				logger.Fatal("failed to seed sample data", zap.Error(err))
			}
			logger.Info("sample data seeded")
		}

		stores = api.Stores{
			Agents:      store.NewAgentStore(pool),
			Queues:      store.NewQueueStore(pool),
			Assignments: store.NewAssignmentStore(pool),
			Ping:        pool.Ping,
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		agents := store.NewMemoryAgentStore()
		stores = api.Stores{
			Agents:      agents,
			Queues:      store.NewMemoryQueueStore(),
			Assignments: store.NewMemoryAssignmentStore(agents),
			Ping:        func(context.Context) error { return nil },
		}
	}

	app := api.NewApp(stores, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
