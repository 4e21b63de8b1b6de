package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/nutrilog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	OpTimeout time.Duration
}

type RedisStore struct {
	log       *logger.Logger
	rdb       *goredis.Client
	prefix    string
	opTimeout time.Duration
}

func NewRedisStore(log *logger.Logger, cfg RedisConfig) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		log:       log.With("service", "RedisCacheStore"),
		rdb:       rdb,
		prefix:    cfg.KeyPrefix,
		opTimeout: opTimeout,
	}, nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.log.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	if err := s.rdb.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		s.log.Warn("cache set failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) bool {
	if len(keys) == 0 {
		return true
	}
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		s.log.Warn("cache del failed", "keys", keys, "error", err)
		return false
	}
	return true
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	n, err := s.rdb.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return n, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	ok, err := s.rdb.Expire(ctx, s.key(key), ttl).Result()
	if err != nil {
		s.log.Warn("cache expire failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	d, err := s.rdb.TTL(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl %s: %w", key, err)
	}
	return d, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := ctxutil.Bounded(ctx, s.opTimeout)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
