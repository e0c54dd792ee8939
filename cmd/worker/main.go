package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/cache"
	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/feed"
	"github.com/covernet/covernet/internal/tasks"
	"github.com/covernet/covernet/pkg/config"
	"github.com/covernet/covernet/pkg/logging"
	"github.com/covernet/covernet/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Covernet Worker")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Initialize database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Initialize Redis cache
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Initialize job queue; the worker cannot run without it
	queue, err := tasks.NewQueue(&cfg.Redis, &cfg.Worker)
	if err != nil {
		logger.Fatal("Failed to connect task queue", zap.Error(err))
	}
	defer queue.Close()

	repo := db.NewRepository(database.DB)
	taskRepo := db.NewTaskRepository(repo)
	postRepo := db.NewPostRepository(repo)
	userRepo := db.NewUserRepository(repo)
	feedSvc := feed.NewService(db.NewFeedRepository(repo), db.NewNotificationRepository(repo), redisCache)

	runner := tasks.NewRunner(queue, taskRepo, postRepo, userRepo, feedSvc, redisCache)

	// Cancel the runner's context on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down worker...")
		cancel()
	}()

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Worker failed", zap.Error(err))
	}

	logger.Info("Worker exited")
}
