package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tagforge/tagforge/internal/domain"
)

// TTL bounds the lifetime of shared cache entries. The store enforces it at
// write time; reads never check expiry themselves.
const TTL = 24 * time.Hour

// Shared is the cross-client response cache. A Shared constructed without a
// Redis URL is deliberately disabled: Get always misses and Set is a no-op.
// That state is distinct from a runtime failure, which surfaces as an error
// for the caller to absorb.
type Shared struct {
	client *redis.Client
	logger *slog.Logger
}

// NewShared connects the shared cache to Redis. An empty URL yields the
// disabled variant rather than an error.
func NewShared(redisURL string, logger *slog.Logger) (*Shared, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if redisURL == "" {
		logger.Info("shared response cache disabled, no redis url configured")
		return &Shared{logger: logger}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &Shared{client: redis.NewClient(opts), logger: logger}, nil
}

// Enabled reports whether a backing store is configured.
func (s *Shared) Enabled() bool {
	return s.client != nil
}

// Get looks up a cached result. A missing key, a disabled cache, and an
// unparsable value all return (nil, nil); only store-level failures return
// an error.
func (s *Shared) Get(ctx context.Context, method domain.Method, title, text string) (*domain.GenerationResult, error) {
	if s.client == nil {
		return nil, nil
	}

	key := Key(SharedPrefix, method, title, text)
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("shared cache get: %w", err)
	}

	var result domain.GenerationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("discarding unparsable shared cache entry", "key", key, "error", err)
		return nil, nil
	}
	return &result, nil
}

// Set stores a result under its content address with the store-side TTL,
// overwriting any existing entry. Last writer wins; there is no locking.
func (s *Shared) Set(ctx context.Context, method domain.Method, title, text string, result *domain.GenerationResult) error {
	if s.client == nil {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("shared cache marshal: %w", err)
	}

	key := Key(SharedPrefix, method, title, text)
	if err := s.client.Set(ctx, key, payload, TTL).Err(); err != nil {
		return fmt.Errorf("shared cache set: %w", err)
	}
	return nil
}
