package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"liquidfilters/filters"
	"liquidfilters/i18n"
	"liquidfilters/logger"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int
	Key     string
	Message string
}

// Common error responses with i18n keys
var (
	ErrBadRequest = ErrorResponse{
		Code:    http.StatusBadRequest,
		Key:     "Error.BadRequest",
		Message: "Invalid request",
	}
	ErrNotFound = ErrorResponse{
		Code:    http.StatusNotFound,
		Key:     "Error.NotFound",
		Message: "Resource not found",
	}
	ErrMethodNotAllowed = ErrorResponse{
		Code:    http.StatusMethodNotAllowed,
		Key:     "Error.MethodNotAllowed",
		Message: "Method not allowed",
	}
	ErrTooManyRequests = ErrorResponse{
		Code:    http.StatusTooManyRequests,
		Key:     "Error.TooManyRequests",
		Message: "Too many requests",
	}
	ErrInternalServer = ErrorResponse{
		Code:    http.StatusInternalServerError,
		Key:     "Error.InternalServer",
		Message: "Internal server error",
	}
)

// errorBody is the JSON document sent for every failed request.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Key     string `json:"key"`
	Message string `json:"message"`
	Filter  string `json:"filter,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// StatusFor maps a filter failure to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, filters.ErrUnknownFilter):
		return http.StatusNotFound
	case errors.Is(err, filters.ErrArity):
		return http.StatusBadRequest
	case errors.Is(err, filters.ErrTypeCoercion),
		errors.Is(err, filters.ErrDivisionByZero),
		errors.Is(err, filters.ErrMalformedPattern),
		errors.Is(err, filters.ErrResultTooLarge):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// RespondWithError sends a standardized error response with i18n support
func RespondWithError(w http.ResponseWriter, r *http.Request, errResp ErrorResponse) {
	message := i18n.Localize(i18n.GetLocalizer(r), errResp.Key, nil)
	if message == "" || message == errResp.Key {
		message = errResp.Message
	}

	logger.Get().Warn().
		Int("status_code", errResp.Code).
		Str("error_key", errResp.Key).
		Str("path", r.URL.Path).
		Msg("Error response sent")

	writeJSON(w, errResp.Code, errorBody{Error: errorDetail{
		Code:    errResp.Code,
		Key:     errResp.Key,
		Message: message,
	}})
}

// RespondWithFilterError reports a failed filter invocation. The message
// is localized for the caller and names the failing filter.
func RespondWithFilterError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	key := filters.MessageKey(err)

	var fe *filters.Error
	name := ""
	if errors.As(err, &fe) {
		name = fe.Filter
	}

	message := i18n.Localize(i18n.GetLocalizer(r), key, map[string]any{"Filter": name})

	event := logger.Get().Warn()
	if code >= http.StatusInternalServerError {
		event = logger.Get().Error()
	}
	event.
		Err(err).
		Int("status_code", code).
		Str("error_key", key).
		Str("filter", name).
		Str("path", r.URL.Path).
		Msg("Filter error response sent")

	writeJSON(w, code, errorBody{Error: errorDetail{
		Code:    code,
		Key:     key,
		Message: message,
		Filter:  name,
		Detail:  err.Error(),
	}})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Get().Error().Err(err).Msg("Failed to encode JSON response")
	}
}
