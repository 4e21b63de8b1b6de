package app

import (
	"strings"
	"time"

	"github.com/yungbote/nutrilog-backend/internal/aggregation"
	"github.com/yungbote/nutrilog-backend/internal/cache"
	"github.com/yungbote/nutrilog-backend/internal/logstore"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
	"github.com/yungbote/nutrilog-backend/internal/utils"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	JWTIssuer      string
	AllowedOrigins []string

	DBDriver   string
	SQLitePath string

	CacheBackend   string
	Redis          cache.RedisConfig
	StoreOpTimeout time.Duration

	DailyCacheTTL           time.Duration
	WeeklyCacheTTL          time.Duration
	InvalidateWeeklyOnWrite bool

	RateLimitPolicyPath string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		JWTIssuer:      utils.GetEnv("JWT_ISSUER", "", log),
		AllowedOrigins: splitList(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),

		DBDriver:   strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log)),
		SQLitePath: utils.GetEnv("SQLITE_PATH", "nutrilog.db", log),

		CacheBackend: strings.ToLower(utils.GetEnv("CACHE_BACKEND", "redis", log)),
		Redis: cache.RedisConfig{
			Addr:      utils.GetEnv("REDIS_ADDR", "localhost:6379", log),
			Password:  utils.GetEnv("REDIS_PASSWORD", "", log),
			DB:        utils.GetEnvAsInt("REDIS_DB", 0, log),
			KeyPrefix: utils.GetEnv("CACHE_KEY_PREFIX", "", log),
			OpTimeout: utils.GetEnvAsDuration("CACHE_OP_TIMEOUT", cache.DefaultOpTimeout, log),
		},
		StoreOpTimeout: utils.GetEnvAsDuration("STORE_OP_TIMEOUT", logstore.DefaultOpTimeout, log),

		DailyCacheTTL:           utils.GetEnvAsDuration("DAILY_CACHE_TTL", aggregation.DefaultDailyTTL, log),
		WeeklyCacheTTL:          utils.GetEnvAsDuration("WEEKLY_CACHE_TTL", aggregation.DefaultWeeklyTTL, log),
		InvalidateWeeklyOnWrite: utils.GetEnvAsBool("INVALIDATE_WEEKLY_ON_WRITE", false, log),

		RateLimitPolicyPath: utils.GetEnv("RATE_LIMIT_POLICY_YAML", "", log),

		Otel: observability.OtelConfig{
			Enabled:     utils.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: utils.GetEnv("OTEL_SERVICE_NAME", "nutrilog-backend", log),
			Environment: utils.GetEnv("OTEL_ENVIRONMENT", "development", log),
			Version:     utils.GetEnv("OTEL_SERVICE_VERSION", "dev", log),
			Endpoint:    utils.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(utils.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    utils.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: float64(utils.GetEnvAsInt("OTEL_SAMPLE_PERCENT", 100, log)) / 100,
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
