package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"liquidfilters/constants"
	"liquidfilters/filters"
)

// HealthHandler serves liveness information.
type HealthHandler struct {
	registry *filters.Registry
}

// NewHealthHandler creates a new instance of HealthHandler
func NewHealthHandler(registry *filters.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// HealthCheckHandler reports the service status and the number of
// registered filters.
func (h *HealthHandler) HealthCheckHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": constants.AppVersion,
		"filters": len(h.registry.Names()),
	})
}

// NotFoundHandler answers unknown routes.
func (h *HealthHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, ErrNotFound)
}

// MethodNotAllowedHandler answers known routes called with the wrong method.
func (h *HealthHandler) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, ErrMethodNotAllowed)
}

// TooManyRequestsHandler answers requests rejected by the rate limiter.
func (h *HealthHandler) TooManyRequestsHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, ErrTooManyRequests)
}
