package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/scholarshield/internal/model"
)

// HTTPLatencyBuckets are latency buckets for the full request cycle.
// Scans are in-memory, so most requests land in the lowest buckets.
var HTTPLatencyBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	// ScansTotal counts finished scans by verdict level.
	ScansTotal *prometheus.CounterVec

	// ScanScore observes the combined risk score of every scan.
	ScanScore prometheus.Histogram

	// HTTPRequestDuration tracks full HTTP request duration.
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on a private
// registry so that several servers can live in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scholarshield_scans_total",
				Help: "Total scans by verdict level",
			},
			[]string{"level"},
		),
		ScanScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scholarshield_scan_score",
				Help:    "Combined risk score of scans",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scholarshield_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: HTTPLatencyBuckets,
			},
			[]string{"method", "route", "status"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.ScansTotal,
		m.ScanScore,
		m.HTTPRequestDuration,
	)

	// Pre-initialize labels so every level is exposed from the start
	for _, level := range []model.Level{model.LevelSafe, model.LevelWarning, model.LevelDanger} {
		m.ScansTotal.WithLabelValues(level.String())
	}

	return m
}

// ObserveScan records a completed scan.
func (m *Metrics) ObserveScan(report *model.ScanReport) {
	if report == nil || report.Verdict == nil {
		return
	}
	m.ScansTotal.WithLabelValues(report.Verdict.Level.String()).Inc()
	m.ScanScore.Observe(float64(report.Verdict.TotalScore))
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware tracks request duration labelled by the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.HTTPRequestDuration.WithLabelValues(
			r.Method,
			route,
			strconv.Itoa(wrapped.statusCode),
		).Observe(time.Since(start).Seconds())
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
