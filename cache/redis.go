package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyspace is prepended to every Redis key so Flush only touches ours.
const keyspace = "schedule-engine:"

// Redis implements Cache on a shared Redis instance, for when several
// server replicas sit behind one load balancer.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects lazily; errors surface as cache misses.
func NewRedis(addr, password string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &Redis{client: rdb, ttl: ttl}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, keyspace+key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.ttl
	}
	r.client.Set(ctx, keyspace+key, value, ttl)
}

func (r *Redis) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, keyspace+key)
}

// Flush deletes every key under the engine's keyspace.
func (r *Redis) Flush(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, keyspace+"*", 100).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
