package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-interview-backend/pkg/redis"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // window in which failures are counted
	BlockDuration time.Duration
	UseIPTracking bool
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed HR logins per login name and IP in Redis and
// blocks both once MaxAttempts is reached. Without Redis it tracks nothing.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger
}

func NewLoginTracker(config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultLoginTrackerConfig().MaxAttempts
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{config: config, logger: logger}
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// normalizeLogin makes "Alice" and "alice " share one counter.
func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// IsBlocked reports whether the login or IP is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, login, ip string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + normalizeLogin(login)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	n, err := client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailedAttempt returns (blocked, attempts, error).
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, login, ip, userAgent, requestID string) (bool, int, error) {
	lt.logger.LogLoginFailed(ctx, login, ip, userAgent, requestID, "invalid_credentials")

	client := redis.Client()
	if client == nil {
		return false, 0, errors.New("redis not available for login tracking")
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	login = normalizeLogin(login)

	count, err := lt.atomicIncrement(ctx, client, failLoginUserPrefix+login, ttlSeconds)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login counter: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.atomicIncrement(ctx, client, failLoginIPPrefix+ip, ttlSeconds)
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}
	if err := lt.createBlock(ctx, client, login, ip, requestID); err != nil {
		return true, count, fmt.Errorf("failed to create block: %w", err)
	}
	return true, count, nil
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, client *goredis.Client, login, ip, requestID string) error {
	ttl := lt.config.BlockDuration
	if err := client.Set(ctx, blockedLoginUserPrefix+login, "1", ttl).Err(); err != nil {
		return err
	}
	if lt.config.UseIPTracking && ip != "" {
		if err := client.Set(ctx, blockedLoginIPPrefix+ip, "1", ttl).Err(); err != nil {
			lt.logger.zapLogger.Warn("failed to set IP block", zap.Error(err))
		}
	}
	lt.logger.LogBlockCreated(ctx, subjectTypeFor(login), login, ip, requestID, int(ttl.Minutes()))
	return nil
}

// ClearAttempts resets the counters after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, login, ip string) error {
	client := redis.Client()
	if client == nil {
		return nil
	}
	keys := []string{failLoginUserPrefix + normalizeLogin(login)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	return client.Del(ctx, keys...).Err()
}

// GetRemainingAttempts returns how many attempts remain before a block.
func (lt *LoginTracker) GetRemainingAttempts(ctx context.Context, login string) (int, error) {
	client := redis.Client()
	if client == nil {
		return lt.config.MaxAttempts, nil
	}
	count, err := client.Get(ctx, failLoginUserPrefix+normalizeLogin(login)).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt count: %w", err)
	}
	return max(lt.config.MaxAttempts-count, 0), nil
}
