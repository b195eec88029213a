package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/jobs"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. It fails
// when a configured cron spec does not parse.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Classify overdue recommendation requests
	if _, err := s.cron.AddFunc(cfg.MarkOverdueRecommendations, s.jobs.MarkOverdueRecommendations); err != nil {
		logger.Error("Failed to register MarkOverdueRecommendations job", "error", err)
		return fmt.Errorf("register MarkOverdueRecommendations (%q): %w", cfg.MarkOverdueRecommendations, err)
	}

	// Remind recommenders
	if _, err := s.cron.AddFunc(cfg.SendRecommendationReminders, s.jobs.SendRecommendationReminders); err != nil {
		logger.Error("Failed to register SendRecommendationReminders job", "error", err)
		return fmt.Errorf("register SendRecommendationReminders (%q): %w", cfg.SendRecommendationReminders, err)
	}

	logger.Info("All cron jobs registered successfully", "count", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the registered jobs and their next run times.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
