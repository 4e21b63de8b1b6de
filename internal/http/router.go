package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/nutrilog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nutrilog-backend/internal/http/middleware"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
	"github.com/yungbote/nutrilog-backend/internal/ratelimit"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	RateLimiter    httpMW.RateLimitChecker

	EntryHandler   *httpH.EntryHandler
	SummaryHandler *httpH.SummaryHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	gate := func(class string) gin.HandlerFunc {
		if cfg.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return httpMW.RateLimit(cfg.RateLimiter, class)
	}

	// Entries
	if cfg.EntryHandler != nil {
		api.POST("/entries", cfg.EntryHandler.CreateEntry)
		api.PATCH("/entries/:id", cfg.EntryHandler.UpdateEntry)
		api.DELETE("/entries/:id", cfg.EntryHandler.DeleteEntry)
	}

	// Summaries
	if cfg.SummaryHandler != nil {
		api.GET("/summary/daily", gate(ratelimit.ClassDailySummary), cfg.SummaryHandler.Daily)
		api.GET("/summary/weekly", gate(ratelimit.ClassWeeklySummary), cfg.SummaryHandler.Weekly)
		api.GET("/trend", gate(ratelimit.ClassTrendAnalysis), cfg.SummaryHandler.Trend)
		api.GET("/rate-limit/:class", cfg.SummaryHandler.RateLimit)
	}

	return r
}
