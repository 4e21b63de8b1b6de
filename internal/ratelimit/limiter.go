package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/nutrilog-backend/internal/cache"
	"github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type Result struct {
	Allowed      bool `json:"allowed"`
	Count        int  `json:"count"`
	Limit        int  `json:"limit"`
	ResetSeconds int  `json:"reset_seconds"`
}

// Limiter is a fixed-window counter on top of the cache store's INCR/EXPIRE.
type Limiter struct {
	log      *logger.Logger
	store    cache.Store
	policies Policies
}

func NewLimiter(log *logger.Logger, store cache.Store, policies Policies) *Limiter {
	return &Limiter{
		log:      log.With("service", "RateLimiter"),
		store:    store,
		policies: policies,
	}
}

// Check counts one request against key. The first increment of a window arms
// the expiry. Any store failure fails open.
func (l *Limiter) Check(ctx context.Context, key string, limit int, window time.Duration) Result {
	count, err := l.store.Incr(ctx, key)
	if err != nil {
		l.log.Warn("rate limit counter unavailable, failing open", "key", key, "error", err)
		return Result{Allowed: true, Limit: limit}
	}
	if count == 1 {
		if !l.store.Expire(ctx, key, window) {
			l.log.Warn("rate limit expiry not armed", "key", key)
		}
	}

	res := Result{
		Allowed: count <= int64(limit),
		Count:   int(count),
		Limit:   limit,
	}

	ttl, err := l.store.TTL(ctx, key)
	switch {
	case err != nil:
		l.log.Warn("rate limit ttl unavailable", "key", key, "error", err)
	case ttl >= 0:
		res.ResetSeconds = ceilSeconds(ttl)
	case count > 1:
		// A counter that outlived its expiry (lost EXPIRE) would never reset.
		if l.store.Expire(ctx, key, window) {
			res.ResetSeconds = ceilSeconds(window)
		}
	}
	return res
}

// CheckUser applies the policy of an operation class to one user.
func (l *Limiter) CheckUser(ctx context.Context, userID uuid.UUID, class string) (Result, error) {
	p, ok := l.policies.Lookup(class)
	if !ok {
		return Result{}, nutrition.Validation("ratelimit.CheckUser", "unknown operation class %q", class)
	}
	res := l.Check(ctx, Key(p.Name, userID), p.Limit, p.Window())
	observability.Current().ObserveRateLimit(p.Name, res.Allowed)
	if !res.Allowed {
		l.log.Info("rate limit exceeded", "class", p.Name, "user_id", userID, "count", res.Count, "reset_seconds", res.ResetSeconds)
	}
	return res, nil
}

func (l *Limiter) Policies() Policies { return l.policies }

// Key scopes a counter by operation class and user.
func Key(class string, userID uuid.UUID) string {
	return "ratelimit:" + class + ":" + userID.String()
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
