package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"hallms-backend/internal/clock"
	"hallms-backend/internal/config"
	"hallms-backend/internal/jobs"
	"hallms-backend/internal/logger"
	"hallms-backend/internal/repository/postgres"
	"hallms-backend/internal/scheduler"
	"hallms-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expiry-cycle')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Hall Management Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	clk := clock.New()

	// Initialize Services
	ledger := service.NewRoomLedger(store.RoomRepository)
	allocSvc := service.NewAllocationService(
		store,
		ledger,
		store.AllocationRepository,
		store.ApplicationRepository,
		store.UserRepository,
		store.NotificationRepository,
		clk,
		cfg.Allocation.ResidencyYears,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, &jobs.Services{
		Allocation: allocSvc,
	}, cfg, clk)

	// Handle run-once mode
	if *runOnce != "" {
		switch *runOnce {
		case "expiry-cycle":
			jobRunner.RunExpiryCycle()
		default:
			logger.Error("Unknown job name", "job", *runOnce)
			os.Exit(1)
		}
		logger.Info("Run-once job finished", "job", *runOnce)
		return
	}

	// Start the scheduler
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down cronjob runner...")
	sched.Stop()
	logger.Info("Cronjob runner stopped")
}
