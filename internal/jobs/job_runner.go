package jobs

import (
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/config"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// defaultJobTimeout bounds a single job run.
const defaultJobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Recommendation service.RecommendationService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      func() time.Time { return time.Now().UTC() },
		timeout:  defaultJobTimeout,
	}
}

// Config returns the configuration the jobs were built with.
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

	start := jr.now()
	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start))
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution). Overdue
// classification runs first so reminders see the fresh status.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueRecommendations()
	jr.SendRecommendationReminders()
}
