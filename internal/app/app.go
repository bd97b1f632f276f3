package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sbergsmann/lookingcom-backend/internal/analytics"
	"github.com/sbergsmann/lookingcom-backend/internal/capcorn"
	"github.com/sbergsmann/lookingcom-backend/internal/config"
	handlers "github.com/sbergsmann/lookingcom-backend/internal/http"
	"github.com/sbergsmann/lookingcom-backend/internal/obs"
	"github.com/sbergsmann/lookingcom-backend/internal/routes"
	"github.com/sbergsmann/lookingcom-backend/internal/search"
)

type App struct {
	Router      http.Handler
	Sweep       search.SweepService
	Cache       search.CacheService
	RateLimiter search.RateLimiter
	Recorder    *analytics.Recorder
	Metrics     *obs.Metrics
	Logger      *slog.Logger
}

// New wires the whole service from configuration: backend client, sweep
// orchestrator, cache, rate limiter, analytics recorder and router.
func New(cfg config.Config) *App {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	registry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(registry)

	client := capcorn.NewClient(cfg, logger)
	orchestrator := search.NewOrchestrator(client, client.HotelID(), metrics, logger)
	cache := search.NewCache(cfg.CacheTTL, metrics)
	sweep := search.NewService(orchestrator, cache, cfg.ComputeTimeout)
	rl := search.NewIPRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	recorder := analytics.NewRecorder(cfg.MaxAnalyticsEvents)

	h := handlers.NewHandler(sweep, client, recorder, rl, metrics)
	router := routes.GetRoutes(h, metrics, logger, cfg.CORSOrigins)

	return &App{
		Router:      router,
		Sweep:       sweep,
		Cache:       cache,
		RateLimiter: rl,
		Recorder:    recorder,
		Metrics:     metrics,
		Logger:      logger,
	}
}
