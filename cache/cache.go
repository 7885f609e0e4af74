// Package cache memoizes rendered API responses. Schedules are pure functions
// of (catalog, selection, start, duration), so a cached body stays valid until
// the catalog changes, at which point the whole cache is flushed.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Cache stores encoded response bodies.
type Cache interface {
	// Get returns the value and whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes a key.
	Delete(ctx context.Context, key string)

	// Flush removes every key this cache owns.
	Flush(ctx context.Context)
}

// Key prefixes, versioned so a format change never reads stale bodies.
const (
	PrefixPrograms = "programs:v1:"
	PrefixSchedule = "schedule:v1:"
	PrefixTable    = "table:v1:"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// GenerateKey joins a prefix and parameters with colons. Parameters are
// query-escaped, so a colon inside a label cannot shift it into the next part.
func GenerateKey(prefix string, params ...any) string {
	parts := make([]string, len(params)+1)
	parts[0] = strings.TrimSuffix(prefix, ":")

	for i, param := range params {
		parts[i+1] = url.QueryEscape(fmt.Sprintf("%v", param))
	}

	return strings.Join(parts, ":")
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
}

// New builds the cache named by opts.Backend. An empty backend means memory.
func New(opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewInMemory(opts.TTL), nil
	case BackendRedis:
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.TTL), nil
	case BackendNone:
		return Noop{}, nil
	default:
		return nil, errors.Newf("unknown cache backend %q", opts.Backend)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
func (Noop) Delete(context.Context, string)                     {}
func (Noop) Flush(context.Context)                              {}
