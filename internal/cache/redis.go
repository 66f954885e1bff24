package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisTimeout bounds every round trip so a slow Redis never stalls a request.
const redisTimeout = 500 * time.Millisecond

// Redis stores results in a Redis server with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis cache. A zero ttl keeps entries until evicted.
func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Get reads key, translating a missing key to ErrMiss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set writes key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Ping checks the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
