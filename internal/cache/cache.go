// Package cache memoizes computed results in memory or in Redis. Every
// calculation is a pure function of its inputs, so entries never go stale.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/finance-calculators/internal/config"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// keyPrefix namespaces keys in a shared Redis.
const keyPrefix = "fincalc"

// Cache stores encoded results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key derives a stable key for a calculation from its tool name and inputs.
func Key(tool string, inputs interface{}) (string, error) {
	raw, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key inputs: %w", err)
	}
	return fmt.Sprintf("%s:%s:%016x", keyPrefix, tool, xxhash.Sum64(raw)), nil
}

// Fetch returns the cached result for key, or computes, stores and returns it.
// A cache failure never loses the result: the computed value is returned along
// with the error.
func Fetch[T any](ctx context.Context, c Cache, key string, compute func() T) (result T, hit bool, err error) {
	raw, err := c.Get(ctx, key)
	if err == nil {
		if jsonErr := json.Unmarshal(raw, &result); jsonErr == nil {
			return result, true, nil
		}
	}

	result = compute()
	if err != nil && !errors.Is(err, ErrMiss) {
		return result, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return result, false, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.Set(ctx, key, encoded); err != nil {
		return result, false, fmt.Errorf("failed to store %s: %w", key, err)
	}
	return result, false, nil
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

// Set discards value.
func (Nop) Set(context.Context, string, []byte) error { return nil }

// New builds the cache selected by conf. A Redis backend is pinged first and
// an unreachable server is an error.
func New(ctx context.Context, conf config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch conf.Backend {
	case config.CacheRedis:
		ttl := time.Duration(conf.TTLSeconds) * time.Second
		rc := NewRedis(conf.RedisAddr, conf.RedisPassword, conf.RedisDB, ttl)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", conf.RedisAddr, err)
		}
		logger.Info("using redis result cache",
			zap.String("op", "cache.New"),
			zap.String("addr", conf.RedisAddr),
			zap.Duration("ttl", ttl),
		)
		return rc, nil
	case config.CacheMemory, "":
		logger.Info("using in-memory result cache",
			zap.String("op", "cache.New"),
			zap.Int("max_entries", conf.MaxEntries),
		)
		return NewMemory(conf.MaxEntries), nil
	case config.CacheNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", conf.Backend)
	}
}
