package jobs

import (
	"carrent-backend/internal/config"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"
	"carrent-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	cars    repository.CarRepository
	booking service.BookingService
	config  *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(cars repository.CarRepository, booking service.BookingService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		cars:    cars,
		booking: booking,
		config:  cfg,
	}
}

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

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ReconcileAvailability()
}
