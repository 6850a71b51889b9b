package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"liquidfilters/filters"
)

// Outcome label values of filter_invocations_total.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	initOnce sync.Once

	// Filter metrics
	filterInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_invocations_total",
			Help: "Total number of filter invocations.",
		},
		[]string{"filter", "outcome", "error"},
	)

	filterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filter_duration_seconds",
			Help:    "Filter invocation duration in seconds.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"filter"},
	)

	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Init registers all collectors exactly once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(filterInvocationsTotal)
		prometheus.MustRegister(filterDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(httpRequestDuration)
	})
}

// Handler exposes the /metrics HTTP handler.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveFilter records one filter invocation. Its signature matches
// filters.Observer.
func ObserveFilter(filter string, elapsed time.Duration, err error) {
	Init()
	outcome, kind := OutcomeOK, ""
	if err != nil {
		outcome, kind = OutcomeError, errorLabel(err)
	}
	filterInvocationsTotal.WithLabelValues(filter, outcome, kind).Inc()
	filterDuration.WithLabelValues(filter).Observe(elapsed.Seconds())
}

// errorLabel keeps the label set bounded: one value per error kind.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, filters.ErrTypeCoercion):
		return "type_coercion"
	case errors.Is(err, filters.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, filters.ErrMalformedPattern):
		return "malformed_pattern"
	case errors.Is(err, filters.ErrUnknownFilter):
		return "unknown_filter"
	case errors.Is(err, filters.ErrArity):
		return "arity"
	case errors.Is(err, filters.ErrResultTooLarge):
		return "result_too_large"
	}
	return "other"
}

type statusCapturingWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusCapturingWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware captures request counts and latencies. route names
// the matched route pattern so that path parameters do not explode the
// label set.
func HTTPMetricsMiddleware(route string, next http.Handler) http.Handler {
	Init()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		scw := &statusCapturingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(scw, r)

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(scw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
