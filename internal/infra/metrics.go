package infra

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/boetepot/platform/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "boetepot"

// StatsSource is anything that can summarize the ledger.
type StatsSource interface {
	Stats(ctx context.Context) (domain.LedgerStats, error)
}

// Metrics owns a private Prometheus registry with HTTP and ledger metrics.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers request metrics plus gauges that read the ledger on every scrape.
func NewMetrics(source StatsSource, logger *slog.Logger) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)

	stat := func(pick func(domain.LedgerStats) float64) func() float64 {
		return func() float64 {
			s, err := source.Stats(context.Background())
			if err != nil {
				logger.Warn("ledger stats unavailable", "error", err)
				return 0
			}
			return pick(s)
		}
	}
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "fines",
			Help: "Number of fines in the current season.",
		}, stat(func(s domain.LedgerStats) float64 { return float64(s.Fines) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "players",
			Help: "Number of players on the roster.",
		}, stat(func(s domain.LedgerStats) float64 { return float64(s.Players) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "reasons",
			Help: "Number of configured fine reasons.",
		}, stat(func(s domain.LedgerStats) float64 { return float64(s.Reasons) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "fines_total_euros",
			Help: "Sum of all fines in the current season, in euros.",
		}, stat(func(s domain.LedgerStats) float64 { return s.Total.Float64() })),
	)

	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
