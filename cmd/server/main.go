package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "hallms-backend/internal/api/http"
	"hallms-backend/internal/clock"
	"hallms-backend/internal/config"
	"hallms-backend/internal/logger"
	"hallms-backend/internal/outbox"
	"hallms-backend/internal/repository/postgres"
	"hallms-backend/internal/security"
	"hallms-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Hall Management Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	clk := clock.New()

	// Initialize Services
	emailSvc := service.NewSendGridService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	hallSvc := service.NewHallService(store.HallRepository)
	roomSvc := service.NewRoomService(store, store.RoomRepository)
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
	waitlistSvc := service.NewWaitlistService(
		store,
		store.WaitlistRepository,
		store.ApplicationRepository,
		store.AllocationRepository,
		allocSvc,
		clk,
	)
	renewalSvc := service.NewRenewalService(
		store,
		store.RenewalRepository,
		store.AllocationRepository,
		store.UserRepository,
		store.NotificationRepository,
		clk,
		service.RenewalPolicy{
			WindowDays:          cfg.Allocation.RenewalWindowDays,
			DefaultExtendMonths: cfg.Allocation.DefaultExtendMonths,
			MaxExtendMonths:     cfg.Allocation.MaxExtendMonths,
			ResidencyYears:      cfg.Allocation.ResidencyYears,
		},
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Outbox dispatcher delivers committed notifications in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := outbox.NewDispatcher(
		store.NotificationRepository,
		store.UserRepository,
		emailSvc,
		time.Duration(cfg.Scheduler.OutboxInterval)*time.Second,
	)
	dispatcher.Start(ctx)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:         authSvc,
		Halls:        hallSvc,
		Rooms:        roomSvc,
		Allocations:  allocSvc,
		Waitlist:     waitlistSvc,
		Renewals:     renewalSvc,
		Notification: noteSvc,
	}, tokenManager, cfg.HTTP)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
