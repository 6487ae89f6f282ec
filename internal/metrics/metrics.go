// Package metrics exposes prometheus collectors for HTTP traffic, identity
// and catalog outcomes, and the database pool.
package metrics

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"palettefolio/internal/apperror"
)

const namespace = "palettefolio"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics owns every collector. The zero value is not usable; a nil *Metrics
// turns every method into a no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInflight *prometheus.GaugeVec

	authEvents  *prometheus.CounterVec
	themeEvents *prometheus.CounterVec
}

// New registers the collectors on registry, or on a fresh registry when nil.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "HTTP requests currently being served.",
		}, []string{"method", "path"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Register and login attempts, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		themeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "theme_operations_total",
			Help:      "Catalog operations, by operation and error kind.",
		}, []string{"operation", "result"}),
	}

	for _, collector := range []prometheus.Collector{
		m.httpRequests,
		m.httpDuration,
		m.httpInflight,
		m.authEvents,
		m.themeEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registerCollector(registry, collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RegisterDB exposes connection pool statistics for db.
func (m *Metrics) RegisterDB(db *sql.DB) error {
	if m == nil || db == nil {
		return nil
	}
	return registerCollector(m.registry, collectors.NewDBStatsCollector(db, namespace))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WithMetrics instruments next with request counts, latency and inflight
// gauges. The path label is the matched chi route when one is available.
func (m *Metrics) WithMetrics(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		inflightPath := normalizePath(r.URL.Path)

		m.httpInflight.WithLabelValues(method, inflightPath).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			m.httpInflight.WithLabelValues(method, inflightPath).Dec()

			pathLabel := inflightPath
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					pathLabel = pattern
				}
			}

			m.httpDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.httpRequests.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

// RecordAuth counts a register or login attempt.
func (m *Metrics) RecordAuth(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.authEvents.WithLabelValues(operation, outcome).Inc()
}

// RecordTheme counts a catalog operation, labelled "ok" or the error kind.
func (m *Metrics) RecordTheme(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = apperror.KindOf(err).String()
	}
	m.themeEvents.WithLabelValues(operation, result).Inc()
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

var uuidSegmentRE = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// normalizePath collapses id segments so unmatched paths keep label
// cardinality bounded.
func normalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if uuidSegmentRE.MatchString(seg) || len(seg) > 48 {
			out = append(out, ":id")
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			out = append(out, ":id")
			continue
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}
