package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis implements Cache on a Redis backend. All failures are logged and
// absorbed so that cache unavailability never breaks a request.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis instance described by url
// (redis://host:port/db). Connection failures are not fatal: the returned
// cache degrades to a no-op until the client reconnects.
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, cache degraded to no-op until reconnect")
	} else {
		log.Info().Msg("Connected to Redis")
	}

	return &Redis{client: client}, nil
}

// Get returns the value stored under key, or a miss on error
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		}
		return "", false
	}
	return value, true
}

// Set stores value under key with the given TTL
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache set failed, skipped")
	}
}

// Del removes the given keys
func (r *Redis) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Cache delete failed, skipped")
	}
}

// Keys returns the keys matching a glob pattern via incremental SCAN
func (r *Redis) Keys(ctx context.Context, pattern string) []string {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("Cache key scan failed, returning no matches")
		return nil
	}
	return keys
}

// Healthcheck reports whether Redis answers a ping
func (r *Redis) Healthcheck(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

// Close releases the underlying client
func (r *Redis) Close() error {
	return r.client.Close()
}
