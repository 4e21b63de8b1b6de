package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/nutrilog-backend/internal/http"
	httpH "github.com/yungbote/nutrilog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/nutrilog-backend/internal/http/middleware"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Entry   *httpH.EntryHandler
	Summary *httpH.SummaryHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(services.Store, clients.Cache),
		Entry:   httpH.NewEntryHandler(services.Nutrition),
		Summary: httpH.NewSummaryHandler(services.Nutrition),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, httpMW.NewTokenVerifier(cfg.JWTSecretKey, cfg.JWTIssuer)),
	}
}

func wireRouter(log *logger.Logger, cfg Config, services Services, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,
		AuthMiddleware: middleware.Auth,
		RateLimiter:    services.Nutrition,
		EntryHandler:   handlers.Entry,
		SummaryHandler: handlers.Summary,
		HealthHandler:  handlers.Health,
	})
}
