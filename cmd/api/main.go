package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/akazwz/extract/internal/adapter/browserless"
	"github.com/akazwz/extract/internal/adapter/chromedp_extractor"
	postgres_adapter "github.com/akazwz/extract/internal/adapter/postgres"
	redis_adapter "github.com/akazwz/extract/internal/adapter/redis"
	"github.com/akazwz/extract/internal/delivery/http/handler"
	"github.com/akazwz/extract/internal/delivery/http/router"
	"github.com/akazwz/extract/internal/usecase"
	"github.com/akazwz/extract/pkg/config"
	"github.com/akazwz/extract/pkg/logger"
	"github.com/akazwz/extract/pkg/metrics"
)

const (
	queuePollInterval    = 2 * time.Second
	retrySweepInterval   = time.Minute
	retrySweepBatchLimit = 20
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connections ---
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	visitedRepo := redis_adapter.NewVisitedRepo(rdb)
	queueRepo := redis_adapter.NewQueueRepo(rdb)
	inventoryRepo := postgres_adapter.NewInventoryRepo(dbpool)
	failedURLRepo := postgres_adapter.NewFailedURLRepo(dbpool)

	var pool browserless.PoolClient
	if cfg.SessionPoolURL != "" {
		pool = browserless.NewClient(cfg.SessionPoolURL, cfg.SessionPoolToken)
	}
	sessionRepo := browserless.NewSessionAcquirer(pool, cfg.BrowserWSEndpoint)
	extractorRepo := chromedp_extractor.NewChromedpExtractor(cfg.PageLoadTimeout, cfg.DecodeTimeout)

	// --- Use Cases ---
	inventoryManager := usecase.NewInventoryManager(visitedRepo, queueRepo, inventoryRepo, failedURLRepo)
	extractionUC := usecase.NewExtractionUseCase(queueRepo, sessionRepo, extractorRepo, inventoryRepo, failedURLRepo)

	// --- Workers ---
	for i := 0; i < cfg.WorkerCount; i++ {
		go runWorker(ctx, i, extractionUC)
	}
	go runRetrySweeper(ctx, extractionUC)
	slog.Info("Extraction workers started", "count", cfg.WorkerCount)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(inventoryManager)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}

// runWorker polls the queue and processes one URL at a time until the
// context is cancelled.
func runWorker(ctx context.Context, id int, uc usecase.Extractor) {
	ticker := time.NewTicker(queuePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.ProcessURLFromQueue(ctx); err != nil {
				slog.Error("Worker failed to process URL", "worker", id, "error", err)
			}
		}
	}
}

// runRetrySweeper periodically moves failed URLs whose backoff has elapsed
// back onto the queue.
func runRetrySweeper(ctx context.Context, uc usecase.Extractor) {
	ticker := time.NewTicker(retrySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.RequeueDue(ctx, retrySweepBatchLimit); err != nil {
				slog.Error("Retry sweep failed", "error", err)
			}
		}
	}
}
