package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/redis"
	"go-interview-backend/pkg/security"
)

// RateLimitConfig describes one fixed-window limit.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyPrefix namespaces the Redis counter ("rl:ip:", "rl:login:").
	KeyPrefix string
	// FailClosed rejects requests while a configured Redis is erroring.
	FailClosed bool
	KeyFunc    func(*gin.Context) string
}

// GlobalRateLimitConfig applies to every route.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:", KeyFunc: clientIP}
}

// LoginRateLimitConfig guards POST /auth/login.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:", FailClosed: true, KeyFunc: clientIP}
}

func clientIP(c *gin.Context) string { return c.ClientIP() }

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// memoryCounter is the fallback when Redis is not configured.
type memoryCounter struct {
	entries     sync.Map
	cleanupOnce sync.Once
}

var fallback = &memoryCounter{}

func (m *memoryCounter) incr(key string, ttl time.Duration, now time.Time) (int, time.Time) {
	m.cleanupOnce.Do(func() { go m.sweep(5 * time.Minute) })

	v, _ := m.entries.LoadOrStore(key, &window{resetAt: now.Add(ttl)})
	w := v.(*window)
	w.mu.Lock()
	defer w.mu.Unlock()
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(ttl)
	}
	w.count++
	return w.count, w.resetAt
}

func (m *memoryCounter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	for range ticker.C {
		now := time.Now()
		m.entries.Range(func(key, value any) bool {
			w := value.(*window)
			w.mu.Lock()
			if now.After(w.resetAt) {
				m.entries.Delete(key)
			}
			w.mu.Unlock()
			return true
		})
	}
}

func incrRedis(ctx context.Context, client *goredis.Client, key string, ttl time.Duration) (int, time.Time, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(ttl.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	remaining, _ := arr[1].(int64)
	return int(count), time.Now().Add(time.Duration(remaining) * time.Second), nil
}

// RateLimitMiddleware counts in Redis when available and in memory otherwise.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if client := redis.Client(); client != nil {
			count, resetAt, err = incrRedis(c.Request.Context(), client, key, cfg.Window)
			if err != nil {
				if cfg.FailClosed {
					logLimiterError(c, err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = fallback.incr(key, cfg.Window, time.Now())
			}
		} else {
			count, resetAt = fallback.incr(key, cfg.Window, time.Now())
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimited(c)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// UploadLimitMiddleware applies the per-IP and per-subject upload caps. The
// subject is the interview token on public routes and the HR user otherwise.
func UploadLimitMiddleware(limiter *security.UploadLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.Param("token")
		if subject == "" {
			if id, ok := c.Get(string(domain.KeyUserID)); ok {
				subject = fmt.Sprintf("hr:%v", id)
			}
		}

		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), subject)
		if err != nil && !allowed {
			logLimiterError(c, err)
			response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
			c.Abort()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimited(c)
			response.Error(c, http.StatusTooManyRequests, "Too many uploads. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func logRateLimited(c *gin.Context) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString(string(domain.KeyRequestID)),
		c.FullPath(),
	)
}

func logLimiterError(c *gin.Context, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString(string(domain.KeyRequestID)),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
