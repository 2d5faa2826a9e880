package cache

import (
	"context"
	"time"
)

// DefaultTTL is the expiry applied to memoized aggregate query results.
const DefaultTTL = time.Hour

// Cache is a string key/value store with TTL used as a read accelerator,
// never as a source of truth. Implementations must absorb backend failures:
// when the backing store is unreachable, Get reports a miss, Keys reports no
// matches, and Set/Del are no-ops. Callers can therefore invoke every
// operation without error handling.
type Cache interface {
	// Get returns the value stored under key, or ok=false on miss
	Get(ctx context.Context, key string) (value string, ok bool)
	// Set stores value under key; a zero ttl stores without expiry
	Set(ctx context.Context, key, value string, ttl time.Duration)
	// Del removes the given keys
	Del(ctx context.Context, keys ...string)
	// Keys returns the keys matching a glob pattern. Only trailing-*
	// prefix patterns are used by callers.
	Keys(ctx context.Context, pattern string) []string
	// Healthcheck reports whether the backing store is reachable
	Healthcheck(ctx context.Context) bool
}

// Noop is a Cache that stores nothing, used when no cache backend is
// configured. Every read is a miss.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool)        { return "", false }
func (Noop) Set(ctx context.Context, key, value string, ttl time.Duration) {}
func (Noop) Del(ctx context.Context, keys ...string)                   {}
func (Noop) Keys(ctx context.Context, pattern string) []string         { return nil }
func (Noop) Healthcheck(ctx context.Context) bool                      { return false }
