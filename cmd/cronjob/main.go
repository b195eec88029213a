package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/config"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/jobs"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository/postgres"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/scheduler"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-overdue-recommendations', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Workbench Cronjob Runner...", "log_level", cfg.Log.Level)

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

	// Initialize Services
	emailService := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.DryRun)

	recommendationService := service.NewRecommendationService(
		store.ApplicationRepository,
		store.CampaignRepository,
		store.PathwayRepository,
		store.RecommendationRepository,
		store.ProfileRepository,
		emailService,
		cfg.Recommendation.TokenBytes,
		cfg.Recommendation.PublicBaseURL,
	)

	jobServices := &jobs.Services{
		Recommendation: recommendationService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	runs := map[string]func(){
		"mark-overdue-recommendations":  jobRunner.MarkOverdueRecommendations,
		"send-recommendation-reminders": jobRunner.SendRecommendationReminders,
		"all":                           jobRunner.RunAllNightlyJobs,
	}
	run, ok := runs[jobName]
	if !ok {
		logger.Error("Unknown job name", "job", jobName)
		names := make([]string, 0, len(runs))
		for name := range runs {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Available jobs:")
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
		os.Exit(1)
	}
	run()
}
