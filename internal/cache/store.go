// Package cache provides the best-effort key/value substrate used by the
// aggregate cache and the rate limiter.
//
// Every operation is bounded by a short timeout. Get reports a miss on any
// failure and Set/Del/Expire report false rather than returning an error: the
// cache is an optimisation, never a correctness dependency. Incr and TTL do
// return errors so that callers counting on them (the rate limiter) can
// decide how to degrade.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Del(ctx context.Context, keys ...string) bool
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) bool
	// TTL returns the remaining lifetime; negative when the key has no expiry
	// or does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

const DefaultOpTimeout = 250 * time.Millisecond

// GetJSON decodes a cached JSON value into out. A decode failure counts as a
// miss and the broken key is dropped.
func GetJSON(ctx context.Context, s Store, log *logger.Logger, key string, out any) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if log != nil {
			log.Warn("cache value undecodable, dropping", "key", key, "error", err)
		}
		s.Del(ctx, key)
		return false
	}
	return true
}

func SetJSON(ctx context.Context, s Store, log *logger.Logger, key string, v any, ttl time.Duration) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		if log != nil {
			log.Warn("cache value unencodable", "key", key, "error", err)
		}
		return false
	}
	return s.Set(ctx, key, raw, ttl)
}
