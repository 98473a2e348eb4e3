// Package metrics owns the prometheus collectors the api exports
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grantdir"

// Metrics groups every collector on a private registry
// a nil *Metrics is valid and records nothing
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	facetBuilds    *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	backendErrors  *prometheus.CounterVec
	warmRuns       *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	slowQueries    *prometheus.CounterVec
}

// New registers all collectors plus the go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Listing searches by kind and outcome",
		}, []string{"kind", "outcome"}),
		searchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Listing search latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"kind"}),
		facetBuilds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facet_builds_total",
			Help:      "Facet set computations against the backend",
		}, []string{"kind", "outcome"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Facet cache lookups by result",
		}, []string{"cache", "result"}),
		backendErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Errors reported by storage backends",
		}, []string{"backend", "op"}),
		warmRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_runs_total",
			Help:      "Scheduled job runs by job and outcome",
		}, []string{"job", "outcome"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Storage round trips by backend and outcome",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"backend", "outcome"}),
		slowQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_slow_queries_total",
			Help:      "Queries over the configured slow threshold",
		}, []string{"backend"}),
	}
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records request counts and latency by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Outcome labels
const (
	OK    = "ok"
	Error = "error"
	Empty = "empty"
	Hit   = "hit"
	Miss  = "miss"
)

// Search records one translator call
func (m *Metrics) Search(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(kind, outcome).Inc()
	m.searchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// FacetBuild records one facet computation
func (m *Metrics) FacetBuild(kind, outcome string) {
	if m == nil {
		return
	}
	m.facetBuilds.WithLabelValues(kind, outcome).Inc()
}

// CacheLookup records a cache hit or miss
func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	res := Miss
	if hit {
		res = Hit
	}
	m.cacheLookups.WithLabelValues(cache, res).Inc()
}

// BackendError records a failed backend call
func (m *Metrics) BackendError(backend, op string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(backend, op).Inc()
}

// ScheduledRun records one cron job execution
func (m *Metrics) ScheduledRun(job, outcome string) {
	if m == nil {
		return
	}
	m.warmRuns.WithLabelValues(job, outcome).Inc()
}

// Query records one storage round trip
func (m *Metrics) Query(backend string, err error, slow bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OK
	if err != nil {
		outcome = Error
	}
	m.queryDuration.WithLabelValues(backend, outcome).Observe(elapsed.Seconds())
	if slow {
		m.slowQueries.WithLabelValues(backend).Inc()
	}
}
