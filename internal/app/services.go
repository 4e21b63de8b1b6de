package app

import (
	"github.com/yungbote/nutrilog-backend/internal/aggregation"
	"github.com/yungbote/nutrilog-backend/internal/logstore"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
	"github.com/yungbote/nutrilog-backend/internal/resolver"
	"github.com/yungbote/nutrilog-backend/internal/services"
)

type Services struct {
	Store     logstore.Store
	Resolver  *resolver.Resolver
	Engine    *aggregation.Engine
	Limiter   *ratelimit.Limiter
	Nutrition services.NutritionService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) Services {
	log.Info("Wiring services...")

	store := logstore.New(clients.DB, log, logstore.Config{OpTimeout: cfg.StoreOpTimeout})
	res := resolver.New(store, log)
	engine := aggregation.NewEngine(store, clients.Cache, log, aggregation.Config{
		DailyTTL:                cfg.DailyCacheTTL,
		WeeklyTTL:               cfg.WeeklyCacheTTL,
		InvalidateWeeklyOnWrite: cfg.InvalidateWeeklyOnWrite,
	})
	limiter := ratelimit.NewLimiter(log, clients.Cache, ratelimit.LoadPolicies(log, cfg.RateLimitPolicyPath))

	return Services{
		Store:     store,
		Resolver:  res,
		Engine:    engine,
		Limiter:   limiter,
		Nutrition: services.NewNutritionService(log, store, res, engine, limiter, nil),
	}
}
