package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appliance-alerts-backend/config"
	"appliance-alerts-backend/internal/api"
	"appliance-alerts-backend/internal/db"
	"appliance-alerts-backend/internal/ledger"
	"appliance-alerts-backend/internal/notification"
	"appliance-alerts-backend/internal/scheduler"
	"appliance-alerts-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "alertd ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("no configuration at %s, using defaults", configPath)
		cfg = config.Default()
		cfg.ApplyEnv()
	case err != nil:
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	default:
		logger.Printf("configuration loaded successfully from %s", configPath)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	shown, closer, err := ledger.New(cfg.Ledger, gormDB, logger)
	if err != nil {
		logger.Fatalf("failed to open %s ledger: %v", cfg.Ledger.Backend, err)
	}
	defer closer.Close()
	logger.Printf("%s ledger ready", cfg.Ledger.Backend)

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, notification.NewInbox(appStore), shown)
	workerPool.Start(ctx)

	sweeper, err := scheduler.NewService(cfg.Scheduler, cfg.Ledger.Retention, appStore, shown, workerPool)
	if err != nil {
		logger.Fatalf("failed to create scheduler: %v", err)
	}
	go sweeper.Run(ctx)

	// Initialize router
	router, err := api.NewRouter(appStore, cfg)
	if err != nil {
		logger.Fatalf("failed to create router: %v", err)
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
