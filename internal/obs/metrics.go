package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SweepSearchesTotal  prometheus.Counter
	WindowQueriesTotal  prometheus.Counter
	WindowFailuresTotal prometheus.Counter
	CacheHitsTotal      prometheus.Counter
	RateLimitDropsTotal prometheus.Counter

	ReservationsTotal   *prometheus.CounterVec
	BackendErrors       *prometheus.CounterVec
	BackendLatency      *prometheus.HistogramVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	Registry            *prometheus.Registry
}

// Create Prometheus collectors and register them
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		SweepSearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_searches_total",
			Help: "Total number of flexible-duration room searches",
		}),
		WindowQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_window_queries_total",
			Help: "Backend availability queries dispatched across all sweeps",
		}),
		WindowFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_window_failures_total",
			Help: "Per-window backend queries that failed and contributed no options",
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "search_cache_hits_total",
			Help: "Number of cache hits for sweep search results",
		}),
		RateLimitDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "search_ratelimit_drops_total",
			Help: "Requests dropped due to rate limiting",
		}),
		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Reservation attempts by outcome",
		}, []string{"outcome"},
		),
		BackendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capcorn_errors_total",
			Help: "Errors returned by the reservation backend",
		}, []string{"operation"},
		),
		BackendLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "capcorn_request_duration_seconds",
				Help:    "Latency of calls to the reservation backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Registry: p,
	}

	// Register metrics with Prometheus
	p.MustRegister(
		m.SweepSearchesTotal,
		m.WindowQueriesTotal,
		m.WindowFailuresTotal,
		m.CacheHitsTotal,
		m.RateLimitDropsTotal,
		m.ReservationsTotal,
		m.BackendErrors,
		m.BackendLatency,
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
	)

	return m
}

func (m *Metrics) IncSweepSearches() { m.SweepSearchesTotal.Inc() }

func (m *Metrics) AddWindowQueries(n int) { m.WindowQueriesTotal.Add(float64(n)) }

func (m *Metrics) IncWindowFailures() { m.WindowFailuresTotal.Inc() }

func (m *Metrics) IncCacheHits() { m.CacheHitsTotal.Inc() }

func (m *Metrics) IncRateLimitDrops() { m.RateLimitDropsTotal.Inc() }

func (m *Metrics) IncReservations(outcome string) {
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncBackendError(operation string) {
	m.BackendErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveBackendLatency(operation string, seconds float64) {
	m.BackendLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
