package jobs

import (
	"sync/atomic"

	"hallms-backend/internal/clock"
	"hallms-backend/internal/config"
	"hallms-backend/internal/logger"
	"hallms-backend/internal/repository/postgres"
	"hallms-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *postgres.Store
	services *Services
	config   *config.Config
	clock    clock.Clock

	expiryRunning atomic.Bool
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Allocation service.AllocationService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, services *Services, cfg *config.Config, clk clock.Clock) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		config:   cfg,
		clock:    clk,
	}
}

// Config exposes the runner's configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
