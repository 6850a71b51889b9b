package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidfilters/filters"
)

func newRouter() *httprouter.Router {
	registry := filters.NewRegistry(nil)
	fh := NewFilterHandler(registry, nil, nil)
	hh := NewHealthHandler(registry)

	router := httprouter.New()
	router.GET("/health", hh.HealthCheckHandler)
	router.GET("/api/filters", fh.ListFiltersHandler)
	router.POST("/api/filters/:name", fh.ApplyFilterHandler)
	router.POST("/api/pipeline", fh.PipelineHandler)
	router.NotFound = http.HandlerFunc(hh.NotFoundHandler)
	router.MethodNotAllowed = http.HandlerFunc(hh.MethodNotAllowedHandler)
	return router
}

func do(t *testing.T, router http.Handler, method, target, body string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
	return rec, doc
}

func errorOf(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	e, ok := doc["error"].(map[string]any)
	require.True(t, ok, "no error object in %v", doc)
	return e
}

func TestApplyFilterHandler(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name   string
		filter string
		body   string
		want   any
	}{
		{"plus", "plus", `{"input": 1, "args": [2]}`, float64(3)},
		{"string plus", "plus", `{"input": "foo", "args": ["bar"]}`, "foobar"},
		{"big integers stay exact", "plus", `{"input": 9223372036854775807, "args": [1]}`, 9223372036854775808.0},
		{"divided_by", "divided_by", `{"input": 7, "args": [2]}`, 3.5},
		{"integer division", "divided_by", `{"input": 7, "args": [2], "integer_division": true}`, float64(3)},
		{"null operand", "minus", `{"input": null, "args": [2]}`, nil},
		{"map", "map", `{"input": [{"a": 1}, {"a": 2}], "args": ["a"]}`, []any{float64(1), float64(2)}},
		{"sort", "sort", `{"input": [{"a": 3}, {"b": 1}], "args": ["a"]}`, []any{map[string]any{"a": float64(3)}, map[string]any{"b": float64(1)}}},
		{"truncate defaults", "truncate", `{"input": "1234567890", "args": [5]}`, "12..."},
		{"localized date", "date", `{"input": "2024-03-05", "args": ["%B"], "locale": "fr"}`, "mars"},
		{"time zone", "date", `{"input": "2024-03-05T02:00:00Z", "args": ["%d"], "timezone": "America/New_York"}`, "04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, doc := do(t, router, "POST", "/api/filters/"+tt.filter, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, doc["result"])
		})
	}
}

func TestApplyFilterHandler_LocaleFromRequest(t *testing.T) {
	router := newRouter()

	_, doc := do(t, router, "POST", "/api/filters/date?lang=fr", `{"input": "2024-03-05", "args": ["%B"]}`)
	assert.Equal(t, "mars", doc["result"])

	_, doc = do(t, router, "POST", "/api/filters/date", `{"input": "2024-03-05", "args": ["%B"]}`, "Accept-Language", "fr-FR")
	assert.Equal(t, "mars", doc["result"])
}

func TestApplyFilterHandler_Errors(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name    string
		target  string
		body    string
		code    int
		key     string
		message string
	}{
		{"unknown filter", "/api/filters/nope", `{"input": 1}`, http.StatusNotFound, "Error.UnknownFilter", "Unknown filter nope"},
		{"missing argument", "/api/filters/plus", `{"input": 1}`, http.StatusBadRequest, "Error.Arity", "Wrong number of arguments for filter plus"},
		{"type coercion", "/api/filters/plus", `{"input": 1, "args": ["abc"]}`, http.StatusUnprocessableEntity, "Error.TypeCoercion", "Filter plus expects a number"},
		{"division by zero", "/api/filters/divided_by", `{"input": 1, "args": [0]}`, http.StatusUnprocessableEntity, "Error.DivisionByZero", "Filter divided_by cannot divide by zero"},
		{"malformed pattern", "/api/filters/replace", `{"input": "abc", "args": ["("]}`, http.StatusUnprocessableEntity, "Error.MalformedPattern", "Filter replace received an invalid regular expression"},
		{"localized message", "/api/filters/plus?lang=fr", `{"input": 1, "args": ["abc"]}`, http.StatusUnprocessableEntity, "Error.TypeCoercion", "Le filtre plus attend un nombre"},
		{"bad json", "/api/filters/plus", `{"input":`, http.StatusBadRequest, "Error.BadRequest", "Invalid request"},
		{"unknown field", "/api/filters/plus", `{"input": 1, "argz": [1]}`, http.StatusBadRequest, "Error.BadRequest", "Invalid request"},
		{"bad locale", "/api/filters/plus", `{"input": 1, "args": [1], "locale": "!!"}`, http.StatusBadRequest, "Error.BadRequest", "Invalid request"},
		{"bad timezone", "/api/filters/plus", `{"input": 1, "args": [1], "timezone": "Mars/Olympus"}`, http.StatusBadRequest, "Error.BadRequest", "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, doc := do(t, router, "POST", tt.target, tt.body)
			assert.Equal(t, tt.code, rec.Code)

			e := errorOf(t, doc)
			assert.EqualValues(t, tt.code, e["code"])
			assert.Equal(t, tt.key, e["key"])
			assert.Equal(t, tt.message, e["message"])
		})
	}
}

func TestPipelineHandler(t *testing.T) {
	router := newRouter()

	body := `{
		"input": [{"name": "banana", "price": 3}, {"name": "apple", "price": 1}],
		"filters": [
			{"name": "sort", "args": ["price"]},
			{"name": "map", "args": ["name"]},
			{"name": "join", "args": [", "]},
			{"name": "capitalize"}
		]
	}`
	rec, doc := do(t, router, "POST", "/api/pipeline", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Apple, Banana", doc["result"])

	rec, doc = do(t, router, "POST", "/api/pipeline", `{"input": 1, "filters": [{"name": "plus", "args": [1]}, {"name": "divided_by", "args": [0]}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := errorOf(t, doc)
	assert.Equal(t, "divided_by", e["filter"])
	assert.Contains(t, e["detail"], "step 2")
}

func TestPipelineHandler_TooManySteps(t *testing.T) {
	router := newRouter()
	steps := strings.Repeat(`{"name": "size"},`, 100)
	rec, _ := do(t, router, "POST", "/api/pipeline", `{"input": 1, "filters": [`+strings.TrimSuffix(steps, ",")+`]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFiltersHandler(t *testing.T) {
	rec, doc := do(t, newRouter(), "GET", "/api/filters", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	list, ok := doc["filters"].([]any)
	require.True(t, ok)

	byName := map[string]map[string]any{}
	for _, item := range list {
		m := item.(map[string]any)
		byName[m["name"].(string)] = m
	}
	require.Contains(t, byName, "truncate")
	assert.Equal(t, `truncate(length=50, suffix="...")`, byName["truncate"]["signature"])

	params := byName["truncate"]["params"].([]any)
	require.Len(t, params, 2)
	assert.Equal(t, float64(50), params[0].(map[string]any)["default"])
	assert.Equal(t, []any{}, byName["size"]["params"])
}

func TestHealthAndFallbacks(t *testing.T) {
	router := newRouter()

	rec, doc := do(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", doc["status"])
	assert.Greater(t, doc["filters"], float64(20))

	rec, doc = do(t, router, "GET", "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Error.NotFound", errorOf(t, doc)["key"])

	rec, doc = do(t, router, "GET", "/api/pipeline", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Error.MethodNotAllowed", errorOf(t, doc)["key"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(filters.ErrUnknownFilter))
	assert.Equal(t, http.StatusBadRequest, StatusFor(filters.ErrArity))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(filters.ErrResultTooLarge))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
