// Package server - HTTP routes configuration
package server

import (
	"context"
	"net/http"
	"net/netip"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"liquidfilters/constants"
	"liquidfilters/filters"
	"liquidfilters/handlers"
	"liquidfilters/logger"
	"liquidfilters/metrics"
	"liquidfilters/middleware"
)

// routes registers handlers on a router, wrapping each one with per route
// metrics and rate limiting.
type routes struct {
	router  *httprouter.Router
	limiter *middleware.Limiter
	log     *zerolog.Logger
	reject  http.HandlerFunc
}

func (rt *routes) handle(method, route string, h httprouter.Handle) {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r, httprouter.ParamsFromContext(r.Context()))
	})
	handler = middleware.RateLimit(rt.limiter, route, rt.log, rt.reject)(handler)
	rt.router.Handler(method, route, metrics.HTTPMetricsMiddleware(route, handler))
}

// Limits configures client rate limiting on the filter endpoints.
type Limits struct {
	// RateLimit is the request burst allowed per client; 0 disables
	// limiting.
	RateLimit int
	// TrustedProxies are the reverse proxies allowed to name the client
	// through X-Forwarded-For.
	TrustedProxies []netip.Prefix
}

// NewRouter builds the complete HTTP handler of the service. Filter
// invocations made through it are recorded in the Prometheus metrics.
func NewRouter(ctx context.Context, registry *filters.Registry, base *filters.Context, limits Limits) http.Handler {
	log := logger.Component("http")

	metrics.Init()
	registry.Observe(metrics.ObserveFilter)

	fh := handlers.NewFilterHandler(registry, base, log)
	hh := handlers.NewHealthHandler(registry)

	limiter := middleware.NewRateLimiter(ctx, constants.RateLimitCleanupInterval, constants.RateLimitStaleAfter)
	limiter.TrustProxies(limits.TrustedProxies...)
	if limits.RateLimit > 0 {
		rule := middleware.Rule{Capacity: limits.RateLimit, Refill: constants.RateLimitRefill}
		limiter.AddRule(http.MethodPost, "/api/filters/:name", rule)
		limiter.AddRule(http.MethodPost, "/api/pipeline", rule)
	}

	rt := &routes{
		router:  httprouter.New(),
		limiter: limiter,
		log:     log,
		reject:  hh.TooManyRequestsHandler,
	}

	rt.handle(http.MethodGet, "/health", hh.HealthCheckHandler)
	rt.handle(http.MethodGet, "/api/filters", fh.ListFiltersHandler)
	rt.handle(http.MethodPost, "/api/filters/:name", fh.ApplyFilterHandler)
	rt.handle(http.MethodPost, "/api/pipeline", fh.PipelineHandler)
	rt.router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	rt.router.NotFound = http.HandlerFunc(hh.NotFoundHandler)
	rt.router.MethodNotAllowed = http.HandlerFunc(hh.MethodNotAllowedHandler)
	rt.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, rcv any) {
		log.Error().Interface("panic", rcv).Str("path", r.URL.Path).Msg("Recovered from panic")
		handlers.RespondWithError(w, r, handlers.ErrInternalServer)
	}

	return middleware.Chain(rt.router, middleware.RequestID, middleware.Logging(log))
}
