package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-interview-backend/config"
	"go-interview-backend/internal/delivery/http/middleware"
	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/auth"
	"go-interview-backend/pkg/security"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	JobUC       domain.JobUsecase
	CandidateUC domain.CandidateUsecase
	ReviewUC    domain.ReviewUsecase
	InterviewUC domain.InterviewUsecase
	Notifier    domain.Notifier
	HealthUC    usecase.HealthUsecase
	Tokens      *auth.TokenManager
	Uploads     *security.UploadLimiter
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	production := config.IsProduction()
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, production)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", healthHandler(deps.HealthUC))
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	uploadLimit := middleware.UploadLimitMiddleware(deps.Uploads)
	loginLimit := middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window))

	// Candidate routes: the link token is the credential
	NewInterviewHandler(v1, deps.InterviewUC, uploadLimit)

	// HR routes
	protected := v1.Group("")
	protected.Use(middleware.HRAuth(deps.Tokens))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, loginLimit, production)
		NewJobHandler(protected, deps.JobUC)
		NewCandidateHandler(protected, deps.CandidateUC, uploadLimit)
		NewReviewHandler(protected, deps.ReviewUC)
		NewEmailLogHandler(protected, deps.Notifier)
	}

	return r
}
