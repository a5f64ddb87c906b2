// Package ratelimit provides sliding-window admission control keyed by
// client IP, backed by Redis sorted sets. A limiter constructed without a
// Redis URL admits everything; that is the deliberate "not enabled" state,
// not a failure mode. When the backing store errors at runtime the caller
// is expected to fail open as well.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Admission policy: at most Limit accepted requests per Window per IP.
const (
	Limit  = 5
	Window = 60 * time.Second
)

// fallbackIP stands in when no forwarded-for header is present.
const fallbackIP = "127.0.0.1"

const keyPrefix = "tagforge-ratelimit:"

// Limiter is the sliding-window admission controller.
type Limiter struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects the limiter to Redis. An empty URL yields the disabled
// variant that allows every request.
func New(redisURL string, logger *slog.Logger) (*Limiter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if redisURL == "" {
		logger.Info("rate limiter disabled, no redis url configured")
		return &Limiter{logger: logger}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &Limiter{client: redis.NewClient(opts), logger: logger}, nil
}

// Enabled reports whether a backing store is configured.
func (l *Limiter) Enabled() bool {
	return l.client != nil
}

// Allow reports whether a request from ip should be admitted. The sliding
// window is kept as a sorted set of request timestamps per IP: expired
// members are trimmed, the survivors counted, and the current request
// recorded, all in one pipeline round trip.
func (l *Limiter) Allow(ctx context.Context, ip string) (bool, error) {
	if l.client == nil {
		return true, nil
	}

	key := keyPrefix + ip
	now := time.Now()
	windowStart := strconv.FormatInt(now.Add(-Window).UnixMilli(), 10)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", windowStart)
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, key, Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	return countCmd.Val() < Limit, nil
}

// ClientIP resolves the client address for rate limiting: the first entry
// of the X-Forwarded-For list when present, else a loopback fallback.
func ClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return fallbackIP
	}
	ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
	if ip == "" {
		return fallbackIP
	}
	return ip
}
