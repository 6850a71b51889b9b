package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"liquidfilters/constants"
	"liquidfilters/filters"
	"liquidfilters/i18n"
	"liquidfilters/value"
)

// FilterHandler exposes a filter registry over HTTP.
type FilterHandler struct {
	registry *filters.Registry
	base     filters.Context
	log      *zerolog.Logger
}

// NewFilterHandler serves registry. base supplies the locale, time zone and
// division mode used when a request does not override them.
func NewFilterHandler(registry *filters.Registry, base *filters.Context, log *zerolog.Logger) *FilterHandler {
	if base == nil {
		base = filters.DefaultContext()
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &FilterHandler{registry: registry, base: *base, log: log}
}

// contextOptions are the per request overrides of the filter context.
type contextOptions struct {
	Locale          string `json:"locale,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
	IntegerDivision *bool  `json:"integer_division,omitempty"`
}

type applyRequest struct {
	contextOptions
	Input value.Value   `json:"input"`
	Args  []value.Value `json:"args,omitempty"`
}

type pipelineRequest struct {
	contextOptions
	Input   value.Value    `json:"input"`
	Filters []filters.Step `json:"filters"`
}

type applyResponse struct {
	Result value.Value `json:"result"`
}

type filterInfo struct {
	Name        string          `json:"name"`
	Signature   string          `json:"signature"`
	Description string          `json:"description"`
	Params      []filters.Param `json:"params"`
}

// ListFiltersHandler lists the registered filters with their parameters.
func (h *FilterHandler) ListFiltersHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	specs := h.registry.Describe()
	out := make([]filterInfo, len(specs))
	for i, spec := range specs {
		params := spec.Params
		if params == nil {
			params = []filters.Param{}
		}
		out[i] = filterInfo{
			Name:        spec.Name,
			Signature:   spec.Signature(),
			Description: spec.Description,
			Params:      params,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"filters": out})
}

// ApplyFilterHandler applies the filter named in the path to the request
// input.
func (h *FilterHandler) ApplyFilterHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req applyRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx, err := h.context(r, req.contextOptions)
	if err != nil {
		h.log.Debug().Err(err).Msg("Invalid filter context")
		RespondWithError(w, r, ErrBadRequest)
		return
	}

	out, err := h.registry.Invoke(ctx, ps.ByName("name"), req.Input, req.Args...)
	if err != nil {
		RespondWithFilterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{Result: out})
}

// PipelineHandler runs the request input through a list of filters.
func (h *FilterHandler) PipelineHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req pipelineRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Filters) > constants.MaxPipelineSteps {
		h.log.Debug().Int("steps", len(req.Filters)).Msg("Pipeline too long")
		RespondWithError(w, r, ErrBadRequest)
		return
	}
	ctx, err := h.context(r, req.contextOptions)
	if err != nil {
		h.log.Debug().Err(err).Msg("Invalid filter context")
		RespondWithError(w, r, ErrBadRequest)
		return
	}

	out, err := h.registry.Apply(ctx, req.Input, req.Filters)
	if err != nil {
		RespondWithFilterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{Result: out})
}

func (h *FilterHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("Invalid request body")
		RespondWithError(w, r, ErrBadRequest)
		return false
	}
	return true
}

// context derives the filter context of a request. Without an explicit
// locale the language negotiated from the request is used.
func (h *FilterHandler) context(r *http.Request, opts contextOptions) (*filters.Context, error) {
	ctx := h.base

	locale := strings.TrimSpace(opts.Locale)
	if locale == "" && (r.URL.Query().Get(i18n.QueryParamLang) != "" || r.Header.Get(i18n.HeaderAcceptLanguage) != "") {
		locale = i18n.GetLanguage(r)
	}
	if locale != "" {
		tag, err := i18n.ParseTag(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		ctx.Locale = tag
	}

	if tz := strings.TrimSpace(opts.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		ctx.Location = loc
	}

	if opts.IntegerDivision != nil {
		ctx.IntegerDivision = *opts.IntegerDivision
	}
	return &ctx, nil
}
