package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"go-interview-backend/pkg/redis"
)

// UploadLimiter caps uploads per client IP per minute and per subject (an
// HR user id or an interview token) per day using a Redis sliding window.
type UploadLimiter struct {
	maxPerMinute int
	maxPerDay    int
}

// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp
// Returns: 1 if allowed, 0 if rate limited
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter defaults to 20 uploads/min per IP and 200/day per subject.
// Interview sessions upload one recording per question plus snapshots, so the
// limits sit above what one honest session needs.
func NewUploadLimiter(perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 20
	}
	if perDay <= 0 {
		perDay = 200
	}
	return &UploadLimiter{maxPerMinute: perMin, maxPerDay: perDay}
}

// AllowUpload returns (allowed, retryAfterSeconds, error). It fails open when
// Redis is not configured and closed when a configured Redis errors.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, subject string) (bool, int, error) {
	client := redis.Client()
	if client == nil {
		return true, 0, fmt.Errorf("rate limiter unavailable - Redis not connected")
	}

	now := time.Now().Unix()

	allowed, err := ul.checkLimit(ctx, client, "ratelimit:upload:ip:"+ip, ul.maxPerMinute, 60, now)
	if err != nil {
		return false, 60, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if subject != "" {
		allowed, err = ul.checkLimit(ctx, client, "ratelimit:upload:subject:"+subject, ul.maxPerDay, 86400, now)
		if err != nil {
			return false, 3600, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}
	return true, 0, nil
}

func (ul *UploadLimiter) checkLimit(ctx context.Context, client *goredis.Client, key string, limit, window int, now int64) (bool, error) {
	result, err := client.Eval(ctx, uploadRateLimitScript, []string{key}, limit, window, now).Result()
	if err != nil {
		return false, err
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}
	return allowed == 1, nil
}
