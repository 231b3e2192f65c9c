// Package querymetrics records Prometheus metrics for store queries and
// HTTP requests.
package querymetrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/identityquery/internal/app/system/storeerr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identityquery_store_queries_total",
			Help: "Store queries by collection, operation and outcome.",
		},
		[]string{"collection", "op", "outcome"},
	)

	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identityquery_store_query_duration_seconds",
			Help:    "Store query latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "op"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identityquery_http_requests_total",
			Help: "HTTP requests by route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identityquery_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(queriesTotal, queryDuration, httpRequestsTotal, httpRequestDuration)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome labels a query result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case storeerr.IsNotFound(err):
		return "not_found"
	case storeerr.IsCancelled(err):
		return "cancelled"
	default:
		return "error"
	}
}

// Observe records one finished query. Typical use:
//
//	defer querymetrics.Observe("users", "find", time.Now(), &err)
func Observe(collection, op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	queryDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
	queriesTotal.WithLabelValues(collection, op, Outcome(err)).Inc()
}

// Instrument wraps a handler and records request count and latency. route
// returns the label to use, typically the chi route pattern, so ids in paths
// do not explode label cardinality.
func Instrument(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)

			label := route(r)
			httpRequestDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, label, strconv.Itoa(sw.code)).Inc()
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
