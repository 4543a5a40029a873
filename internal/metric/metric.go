// Package metric owns the prometheus collectors exported on /metrics.
package metric

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.  A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	Mutations     *prometheus.CounterVec
	DBEmptyRead   prometheus.Gauge
	CacheLookups  *prometheus.CounterVec
	RateLimitDeny *prometheus.CounterVec
}

// New creates a registry with the Go runtime collectors and the fyyur
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyyur_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fyyur_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyyur_mutations_total",
			Help: "Create, update and delete outcomes by entity",
		}, []string{"entity", "action", "outcome"}),
		DBEmptyRead: f.NewGauge(prometheus.GaugeOpts{
			Name: "fyyur_database_empty_read_microsec",
			Help: "The latency of an empty database read in microseconds",
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyyur_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss, bypass)",
		}, []string{"result"}),
		RateLimitDeny: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fyyur_rate_limited_total",
			Help: "Write requests rejected by the rate limiter, by budget",
		}, []string{"budget"}),
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, status).Inc()
	m.Latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMutation records the outcome of one mutation.  outcome is "ok" or
// an error kind.
func (m *Metrics) ObserveMutation(entity, action, outcome string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(entity, action, outcome).Inc()
}

// ObserveCache records a response cache lookup.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts one request rejected by budget.
func (m *Metrics) ObserveRateLimited(budget string) {
	if m == nil {
		return
	}
	m.RateLimitDeny.WithLabelValues(budget).Inc()
}

// WatchDatabase pings db every interval and publishes the round trip until
// ctx is done.
func (m *Metrics) WatchDatabase(ctx context.Context, db *sql.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				latency, err := emptyRead(ctx, db)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				m.DBEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func emptyRead(ctx context.Context, db *sql.DB) (time.Duration, error) {
	start := time.Now()
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
