package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AI provider names accepted in AI_PROVIDER.
const (
	AIProviderGemini = "gemini"
	AIProviderVertex = "vertex"
	AIProviderNone   = "none"
)

type Config struct {
	Port        string
	LogLevel    string
	DBUrl       string
	FrontendURL string
	// HR session tokens
	JWTSecret string
	JWTTTL    time.Duration
	// AI completion service
	AIProvider          string
	GeminiAPIKey        string
	GeminiModel         string
	GoogleCloudProject  string
	GoogleCloudLocation string
	// Pipeline
	ResumeFetchTimeout time.Duration
	InterviewLinkTTL   time.Duration
	WorkerConcurrency  int
	// Email delivery: "log" (default) or "smtp"
	EmailDelivery string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// File storage: "local" (default) or "s3"
	StorageDriver   string
	StorageLocalDir string
	S3Provider      string
	S3AccessKeyID   string
	S3SecretKey     string
	S3Region        string
	S3Bucket        string
	WasabiEndpoint  string
	// Antivirus (clamd address); empty disables scanning
	ClamAVAddress string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitLoginThreshold  int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	UploadsPerMinute         int
	UploadsPerDay            int
}

func LoadConfig() (*Config, error) {
	// .env is optional; production injects variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 12*time.Hour),

		AIProvider:          strings.ToLower(getEnv("AI_PROVIDER", "")),
		GeminiAPIKey:        strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GoogleCloudProject:  getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		ResumeFetchTimeout: getEnvDuration("RESUME_FETCH_TIMEOUT", 15*time.Second),
		InterviewLinkTTL:   getEnvDuration("INTERVIEW_LINK_TTL", 7*24*time.Hour),
		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 4),

		EmailDelivery: strings.ToLower(getEnv("EMAIL_DELIVERY", "log")),
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "no-reply@interviews.local"),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		StorageDriver:   strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		StorageLocalDir: getEnv("STORAGE_LOCAL_DIR", "./media"),
		S3Provider:      getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:   getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		WasabiEndpoint:  getEnv("WASABI_ENDPOINT", ""),

		ClamAVAddress: getEnv("CLAMAV_ADDRESS", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		UploadsPerMinute:         getEnvInt("UPLOADS_PER_MINUTE", 20),
		UploadsPerDay:            getEnvInt("UPLOADS_PER_DAY", 200),
	}

	cfg.AIProvider = resolveAIProvider(cfg)

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. HR login will be rejected.")
	}
	if cfg.AIProvider == AIProviderNone {
		log.Println("WARNING: no AI provider configured. Questions and metadata use deterministic fallbacks.")
	}

	return cfg, nil
}

// resolveAIProvider honours an explicit AI_PROVIDER and otherwise infers it
// from which credentials are present.
func resolveAIProvider(cfg *Config) string {
	switch cfg.AIProvider {
	case AIProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return AIProviderNone
		}
		return AIProviderGemini
	case AIProviderVertex:
		if cfg.GoogleCloudProject == "" {
			return AIProviderNone
		}
		return AIProviderVertex
	case AIProviderNone:
		return AIProviderNone
	}
	if cfg.GeminiAPIKey != "" {
		return AIProviderGemini
	}
	if cfg.GoogleCloudProject != "" {
		return AIProviderVertex
	}
	return AIProviderNone
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15s", "168h").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// IsProduction reports whether gin runs in release mode.
func IsProduction() bool {
	return getEnvBool("PRODUCTION", os.Getenv("GIN_MODE") == "release")
}
