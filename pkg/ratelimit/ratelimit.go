package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter defines the interface for rate limiting operations.
type Limiter interface {
	// Allow checks if a request should be allowed based on rate limits.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// AllowN checks if N requests should be allowed.
	AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error)

	// Reset resets the current window's counter for a key.
	Reset(ctx context.Context, key string, window time.Duration) error
}

// FixedWindowLimiter implements rate limiting over fixed windows backed by
// Redis, so limits hold across replicas. If fallback is true, requests are
// allowed when Redis is unavailable (fail-open).
type FixedWindowLimiter struct {
	redisClient *redis.Client
	logger      *zap.Logger
	fallback    bool
}

func NewFixedWindowLimiter(redisClient *redis.Client, logger *zap.Logger, fallback bool) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		redisClient: redisClient,
		logger:      logger,
		fallback:    fallback,
	}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.AllowN(ctx, key, 1, limit, window)
}

func (l *FixedWindowLimiter) AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error) {
	bucketKey := l.bucketKey(key, time.Now(), window)

	pipe := l.redisClient.Pipeline()
	incrCmd := pipe.IncrBy(ctx, bucketKey, int64(n))
	pipe.Expire(ctx, bucketKey, window+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("rate limit check failed",
			zap.String("key", bucketKey),
			zap.Error(err),
		)
		if l.fallback {
			return true, nil
		}
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}

func (l *FixedWindowLimiter) Reset(ctx context.Context, key string, window time.Duration) error {
	bucketKey := l.bucketKey(key, time.Now(), window)
	return l.redisClient.Del(ctx, bucketKey).Err()
}

// bucketKey buckets time into fixed windows so all requests within the same
// window share one counter.
func (l *FixedWindowLimiter) bucketKey(key string, now time.Time, window time.Duration) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket)
}
