package routes

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	handlers "github.com/sbergsmann/lookingcom-backend/internal/http"
	mid "github.com/sbergsmann/lookingcom-backend/internal/middleware"
	"github.com/sbergsmann/lookingcom-backend/internal/obs"
)

func GetRoutes(h *handlers.Handler, metrics *obs.Metrics, logger *slog.Logger, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	// Useful built-in middlewares
	r.Use(middleware.RealIP)    // proper client IP extraction
	r.Use(middleware.RequestID) // sets request ID header
	r.Use(middleware.Recoverer) // built-in recoverer to avoid panics taking server down
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	// our custom middlewares: metrics & logging
	r.Use(mid.MetricsMiddleware(metrics))
	r.Use(mid.LoggingMiddleware(logger))

	// endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rooms/search", h.SweepSearch)
		r.Post("/rooms/availability", h.Availability)
		r.Post("/reservations", h.CreateReservation)
		r.Get("/analytics/summary", h.AnalyticsSummary)
	})
	r.Get("/", h.Root)
	r.Get("/healthz", h.Healthz)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}
