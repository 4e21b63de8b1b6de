package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/nutrilog-backend/internal/cache"
	"github.com/yungbote/nutrilog-backend/internal/data/db"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type Clients struct {
	DB    *gorm.DB
	Cache cache.Store
	redis *cache.RedisStore
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var theDB *gorm.DB
	switch cfg.DBDriver {
	case "sqlite":
		sq, err := db.OpenSQLite(cfg.SQLitePath, false)
		if err != nil {
			return Clients{}, fmt.Errorf("init sqlite: %w", err)
		}
		if err := db.AutoMigrateAll(sq); err != nil {
			return Clients{}, fmt.Errorf("sqlite automigrate: %w", err)
		}
		theDB = sq
	case "postgres", "":
		pg, err := db.NewPostgresService(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init postgres: %w", err)
		}
		if err := pg.AutoMigrateAll(); err != nil {
			return Clients{}, fmt.Errorf("postgres automigrate: %w", err)
		}
		theDB = pg.DB()
	default:
		return Clients{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	out := Clients{DB: theDB}
	switch cfg.CacheBackend {
	case "memory":
		out.Cache = cache.NewMemoryStore()
	case "redis", "":
		rs, err := cache.NewRedisStore(log, cfg.Redis)
		if err != nil {
			out.closeDB()
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		out.Cache = rs
		out.redis = rs
	default:
		out.closeDB()
		return Clients{}, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
	return out, nil
}

func (c *Clients) closeDB() {
	if c.DB == nil {
		return
	}
	if sqlDB, err := c.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	c.closeDB()
}
