package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/api/grpc"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/api/grpc/interceptor"
	httpapi "github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/api/http"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/config"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/ratelimit"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository/postgres"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/security"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
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
	logger.Info("Starting Workbench Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "from", cfg.Email.FromAddress, "dry_run", cfg.Email.DryRun)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	authInterceptor := interceptor.NewAuthInterceptor(tokenManager)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.DryRun)

	// Initialize Services
	communicationSvc := service.NewCommunicationService(store.CommunicationRepository, store.CampaignRepository, store.ProfileRepository, emailSvc)
	pathwaySvc := service.NewPathwayService(store.PathwayRepository, store.CommunicationRepository)
	campaignSvc := service.NewCampaignService(store.CampaignRepository, store.ApplicationRepository, store.PathwayRepository, store.AssignmentRepository)
	progressionSvc := service.NewProgressionService(
		store.ApplicationRepository,
		store.CampaignRepository,
		store.PathwayRepository,
		store.AssignmentRepository,
		store.ReviewRepository,
		store.DecisionRepository,
		store.RecommendationRepository,
		store.SchedulingRepository,
		communicationSvc,
	)
	evaluationSvc := service.NewEvaluationService(
		store.ApplicationRepository,
		store.CampaignRepository,
		store.PathwayRepository,
		store.AssignmentRepository,
		store.ReviewRepository,
		store.DecisionRepository,
		store.ProfileRepository,
	)
	recommendationSvc := service.NewRecommendationService(
		store.ApplicationRepository,
		store.CampaignRepository,
		store.PathwayRepository,
		store.RecommendationRepository,
		store.ProfileRepository,
		emailSvc,
		cfg.Recommendation.TokenBytes,
		cfg.Recommendation.PublicBaseURL,
	)
	schedulingSvc := service.NewSchedulingService(store.ApplicationRepository, store.CampaignRepository, store.PathwayRepository, store.SchedulingRepository)
	authSvc := service.NewAuthService(store.ProfileRepository, tokenManager)

	// Initialize gRPC handler
	handler := &api.WorkbenchHandler{
		PathwayHandler:    api.NewPathwayHandler(pathwaySvc),
		CampaignHandler:   api.NewCampaignHandler(campaignSvc, progressionSvc),
		EvaluationHandler: api.NewEvaluationHandler(evaluationSvc),
		AncillaryHandler:  api.NewAncillaryHandler(recommendationSvc, schedulingSvc, communicationSvc),
		AuthHandler:       api.NewAuthHandler(authSvc),
	}

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
	)

	// Register services
	api.RegisterWorkbenchServer(s, handler)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Set up the public HTTP server for recommenders
	limiter, closeLimiter := newRecommendationLimiter(cfg)
	defer closeLimiter()

	router := mux.NewRouter()
	httpapi.RegisterRecommendationRoutes(router, recommendationSvc, limiter)
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	go func() {
		logger.Info("HTTP server for recommenders listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down servers...")
		healthSrv.Shutdown()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Warn("HTTP server shutdown", "error", err)
		}
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", cfg.GetServerAddress(), "codec", api.CodecName)
	if err := s.Serve(lis); err != nil {
		logger.Error("Failed to serve gRPC", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
	logger.Info("Workbench Backend stopped")
}

// newRecommendationLimiter uses redis when configured so the budget is shared by
// every replica, and an in-process limiter otherwise.
func newRecommendationLimiter(cfg *config.Config) (ratelimit.Limiter, func()) {
	window := time.Duration(cfg.Redis.RecommendationWindow) * time.Second
	if cfg.Redis.URL == "" {
		logger.Warn("Redis not configured, using in-process rate limiter")
		return ratelimit.NewMemoryLimiter(cfg.Redis.RecommendationLimit, window), func() {}
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid redis URL", "error", err)
		log.Fatalf("Invalid redis URL: %v", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, limiter will fail open until it recovers", "error", err)
	}
	logger.Info("Redis rate limiter configured", "addr", opts.Addr, "limit", cfg.Redis.RecommendationLimit, "window", window)
	return ratelimit.NewRedisLimiter(client, cfg.Redis.RecommendationLimit, window, "workbench:ratelimit:recommendation"), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
}
