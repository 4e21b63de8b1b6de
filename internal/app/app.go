package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yungbote/nutrilog-backend/internal/http"
	"github.com/yungbote/nutrilog-backend/internal/observability"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Services Services

	server       *http.Server
	otelShutdown func(context.Context) error
}

// bootstrap loads an optional .env file and builds the process logger.
// Variables already present in the environment win over the file.
func bootstrap() (*logger.Logger, string, error) {
	envErr := godotenv.Load()
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn(".env file ignored", "error", envErr)
	}
	return log, logMode, nil
}

func New() (*App, error) {
	log, logMode, err := bootstrap()
	if err != nil {
		return nil, err
	}
	if logMode == "prod" || logMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init(log)

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	serviceset := wireServices(log, cfg, clients)
	handlerset := wireHandlers(log, serviceset, clients)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(log, cfg, serviceset, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		Router:       router,
		Cfg:          cfg,
		Clients:      clients,
		Services:     serviceset,
		server:       http.WrapEngine(router, ":"+cfg.Port),
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "port", a.Cfg.Port)
	return a.server.Run()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}

// Migrate opens the configured database, applies AutoMigrate and exits.
func Migrate() error {
	log, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	cfg := LoadConfig(log)
	cfg.CacheBackend = "memory"
	clients, err := wireClients(log, cfg)
	if err != nil {
		return err
	}
	clients.Close()
	log.Info("Migrations applied", "driver", cfg.DBDriver)
	return nil
}
