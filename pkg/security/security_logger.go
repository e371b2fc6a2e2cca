package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventBlockCreated       EventType = "block_created"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventInvalidToken       EventType = "invalid_interview_token"
	EventUploadRejected     EventType = "upload_rejected"
	EventProctoringFlag     EventType = "proctoring_flag"
)

// Severity is derived from the event type, never supplied by callers.
type Severity string

const (
	SeverityInfo Severity = "INFO"
	SeverityWarn Severity = "WARN"
	SeverityHigh Severity = "HIGH"
)

var eventSeverity = map[EventType]Severity{
	EventLoginSuccess:       SeverityInfo,
	EventProctoringFlag:     SeverityInfo,
	EventLoginFailed:        SeverityWarn,
	EventRateLimitTriggered: SeverityWarn,
	EventInvalidToken:       SeverityWarn,
	EventUploadRejected:     SeverityWarn,
	EventLoginBlocked:       SeverityHigh,
	EventBlockCreated:       SeverityHigh,
	EventUnauthorizedAccess: SeverityHigh,
}

// SeverityOf returns the fixed severity of an event, WARN when unmapped.
func SeverityOf(e EventType) Severity {
	if s, ok := eventSeverity[e]; ok {
		return s
	}
	return SeverityWarn
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "email", "username", "ip", "token"
	SubjectValue string // masked or hashed before logging
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as JSON through zap, separately from
// the application slog stream.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *SecurityLogger

// InitSecurityLogger builds the process-wide security logger.
func InitSecurityLogger(serviceName string, production bool) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	env := "development"
	if production {
		env = "production"
	}
	defaultLogger = newSecurityLogger(logger, serviceName, env)
	return defaultLogger
}

func newSecurityLogger(z *zap.Logger, service, env string) *SecurityLogger {
	return &SecurityLogger{zapLogger: z, serviceName: service, environment: env}
}

// DefaultLogger returns the process-wide logger, building one on first use.
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return InitSecurityLogger("interview-backend", false)
	}
	return defaultLogger
}

func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	severity := SeverityOf(event.Event)
	level := zapcore.WarnLevel
	switch severity {
	case SeverityInfo:
		level = zapcore.InfoLevel
	case SeverityHigh:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(severity)),
		zap.Time("occurred_at", time.Now().UTC()),
	}
	if event.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", event.SubjectType),
			zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)),
		)
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, username, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  subjectTypeFor(username),
		SubjectValue: username,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, username, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  subjectTypeFor(username),
		SubjectValue: username,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": "too_many_failed_attempts"},
	})
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, username, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  subjectTypeFor(username),
		SubjectValue: username,
		IP:           ip,
		RequestID:    requestID,
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip, requestID string, durationMinutes int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: subjectValue,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"duration_minutes": durationMinutes},
	})
}

// LogInvalidToken records access with an unknown, used or expired interview token.
func (sl *SecurityLogger) LogInvalidToken(ctx context.Context, token, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventInvalidToken,
		SubjectType:  "token",
		SubjectValue: token,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, filename, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventUploadRejected,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"filename": filename, "reason": reason},
	})
}

// LogProctoringFlag mirrors a candidate cheating log into the security stream.
func (sl *SecurityLogger) LogProctoringFlag(ctx context.Context, sessionID int64, eventType string) {
	sl.Log(ctx, SecurityEvent{
		Event:   EventProctoringFlag,
		Details: map[string]interface{}{"session_id": sessionID, "event_type": eventType},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[at:]
}

// HashValue returns the first 16 hex chars of the SHA256 of value.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	}
	return HashValue(value)
}

func subjectTypeFor(login string) string {
	if strings.Contains(login, "@") {
		return "email"
	}
	return "username"
}
