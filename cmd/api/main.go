package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"go-interview-backend/config"
	_ "go-interview-backend/docs" // Important for Swagger
	"go-interview-backend/internal/app"
	v1 "go-interview-backend/internal/delivery/http/v1"
	"go-interview-backend/internal/repository/postgres"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/internal/worker"
	"go-interview-backend/pkg/auth"
	"go-interview-backend/pkg/database"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/redis"
	"go-interview-backend/pkg/security"
	"go-interview-backend/pkg/security/antivirus"
	"go-interview-backend/pkg/storage"
	"go-interview-backend/pkg/validation"
)

// @title           Interview Screening API
// @version         1.0
// @description     HR interview screening backend: candidate intake, resume resolution, AI question generation and token-based candidate interviews.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	secLogger := security.InitSecurityLogger("interview-backend", config.IsProduction())
	defer secLogger.Sync()
	logger.Log.Info("Starting interview backend", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, cfg.WorkerConcurrency)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Redis is optional; limiters fall back to memory or fail open
	var redisPing usecase.Pinger
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limits use in-memory counters", "error", err)
		} else {
			defer redis.Close()
		}
		redisPing = usecase.PingFunc(redis.HealthCheck)
	}

	// 5. Storage and scanning
	store, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialise file storage", "error", err)
		os.Exit(1)
	}
	scanner := antivirus.New(cfg.ClamAVAddress)
	if !scanner.Available(ctx) {
		logger.Log.Warn("Antivirus scanner not reachable, uploads will be rejected", "scanner", scanner.Name())
	}

	// 6. Pipeline and its worker pool
	pipeline := app.NewPipeline(ctx, cfg, dbPool, store)
	defer pipeline.Close()
	dispatcher := worker.NewDispatcher(pipeline.Processor, cfg.WorkerConcurrency)

	// 7. Setup Repositories
	jobRepo := postgres.NewJobRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	questionRepo := postgres.NewQuestionRepository(dbPool)
	answerRepo := postgres.NewAnswerRepository(dbPool)
	cheatingRepo := postgres.NewCheatingLogRepository(dbPool)

	// 8. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	loginTracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, secLogger)

	authUC := usecase.NewAuthUsecase(postgres.NewUserRepository(dbPool), tokens, loginTracker, secLogger, validate)
	jobUC := usecase.NewJobUsecase(jobRepo, candidateRepo, validate, cfg.FrontendURL)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, jobRepo, store, scanner, dispatcher, validate)
	reviewUC := usecase.NewReviewUsecase(usecase.ReviewDeps{
		Candidates:   candidateRepo,
		Jobs:         jobRepo,
		Resumes:      postgres.NewResumeRepository(dbPool),
		Sessions:     sessionRepo,
		Questions:    questionRepo,
		Answers:      answerRepo,
		Evaluations:  postgres.NewEvaluationRepository(dbPool),
		CheatingLogs: cheatingRepo,
		EmailLogs:    postgres.NewEmailLogRepository(dbPool),
	})
	interviewUC := usecase.NewInterviewUsecase(usecase.InterviewDeps{
		Links:        postgres.NewLinkRepository(dbPool),
		Sessions:     sessionRepo,
		Candidates:   candidateRepo,
		Jobs:         jobRepo,
		Questions:    questionRepo,
		Answers:      answerRepo,
		CheatingLogs: cheatingRepo,
		Store:        store,
		Scanner:      scanner,
		SecLogger:    secLogger,
		Validate:     validate,
	})
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": usecase.PingFunc(dbPool.Ping),
		"redis":    redisPing,
	})

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		JobUC:       jobUC,
		CandidateUC: candidateUC,
		ReviewUC:    reviewUC,
		InterviewUC: interviewUC,
		Notifier:    pipeline.Notifier,
		HealthUC:    healthUC,
		Tokens:      tokens,
		Uploads:     security.NewUploadLimiter(cfg.UploadsPerMinute, cfg.UploadsPerDay),
		Config:      cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	// In-flight pipeline units finish; new intake is already refused.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Pipeline units still running at exit", "error", err)
	}

	logger.Log.Info("Server exiting")
}
