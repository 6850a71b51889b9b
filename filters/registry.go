package filters

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"liquidfilters/numeric"
	"liquidfilters/value"
)

// Func is the uniform shape every registered filter is adapted to. args
// holds one value per declared parameter, defaults already applied.
type Func func(ctx *Context, input value.Value, args []value.Value) (value.Value, error)

// Param declares a positional filter argument.
type Param struct {
	Name     string      `json:"name"`
	Required bool        `json:"required"`
	Default  value.Value `json:"default"`
}

// Spec describes a registered filter.
type Spec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
	Func        Func    `json:"-"`
}

// Signature renders the filter as name(param=default, ...).
func (s Spec) Signature() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		switch {
		case p.Required:
			parts[i] = p.Name
		case p.Default.Kind() == value.KindString:
			parts[i] = fmt.Sprintf("%s=%q", p.Name, p.Default.String())
		case p.Default.IsNull():
			parts[i] = p.Name + "=null"
		default:
			parts[i] = p.Name + "=" + p.Default.String()
		}
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}

// bind checks args against the declared parameters and fills in defaults.
func (s Spec) bind(args []value.Value) ([]value.Value, error) {
	if len(args) > len(s.Params) {
		return nil, fmt.Errorf("%w: %s takes at most %d, got %d", ErrArity, s.Name, len(s.Params), len(args))
	}
	bound := make([]value.Value, len(s.Params))
	for i, p := range s.Params {
		if i < len(args) {
			bound[i] = args[i]
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("%w: %s requires %s", ErrArity, s.Name, p.Name)
		}
		bound[i] = p.Default
	}
	return bound, nil
}

// Observer is told about every invocation, successful or not.
type Observer func(filter string, elapsed time.Duration, err error)

// Step is one stage of a pipeline.
type Step struct {
	Name string        `json:"name"`
	Args []value.Value `json:"args,omitempty"`
}

// Registry maps filter names to their implementations. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	filters  map[string]Spec
	logger   *zerolog.Logger
	observer Observer
}

// NewRegistry returns a registry holding every standard filter. A nil
// logger discards output.
func NewRegistry(logger *zerolog.Logger) *Registry {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	r := &Registry{
		filters: make(map[string]Spec),
		logger:  logger,
	}
	for _, spec := range standardFilters() {
		r.Register(spec.Name, spec)
	}
	return r
}

// Register adds or replaces the filter called name.
func (r *Registry) Register(name string, spec Spec) {
	name = strings.ToLower(name)
	spec.Name = name

	r.mu.Lock()
	_, replaced := r.filters[name]
	r.filters[name] = spec
	r.mu.Unlock()

	r.logger.Debug().
		Str("filter", name).
		Bool("replaced", replaced).
		Msg("Filter registered")
}

// Observe installs o to be called after every invocation.
func (r *Registry) Observe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = o
}

// Lookup returns the filter called name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.filters[strings.ToLower(name)]
	return spec, ok
}

// Names lists the registered filters in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Describe returns the specs of every registered filter, sorted by name.
func (r *Registry) Describe() []Spec {
	names := r.Names()
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		if spec, ok := r.Lookup(name); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// Invoke applies the filter called name to input. Failures are returned
// as *Error.
func (r *Registry) Invoke(ctx *Context, name string, input value.Value, args ...value.Value) (value.Value, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return value.Null(), wrap(name, fmt.Errorf("%w: %q", ErrUnknownFilter, name))
	}

	start := time.Now()
	out, err := r.call(ctx, spec, input, args)
	elapsed := time.Since(start)

	r.mu.RLock()
	observer := r.observer
	r.mu.RUnlock()
	if observer != nil {
		observer(spec.Name, elapsed, err)
	}

	if err != nil {
		r.logger.Debug().
			Err(err).
			Str("filter", spec.Name).
			Msg("Filter invocation failed")
		return value.Null(), wrap(spec.Name, err)
	}
	return out, nil
}

func (r *Registry) call(ctx *Context, spec Spec, input value.Value, args []value.Value) (value.Value, error) {
	bound, err := spec.bind(args)
	if err != nil {
		return value.Null(), err
	}
	return spec.Func(ctx, input, bound)
}

// Apply runs input through steps in order and stops at the first failure.
func (r *Registry) Apply(ctx *Context, input value.Value, steps []Step) (value.Value, error) {
	out := input
	for i, step := range steps {
		var err error
		out, err = r.Invoke(ctx, step.Name, out, step.Args...)
		if err != nil {
			return value.Null(), fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
	}
	return out, nil
}

func stringArg(v value.Value) string {
	return v.String()
}

func intArg(v value.Value) (int, error) {
	n, err := numeric.Of(v)
	if err != nil {
		return 0, err
	}
	i, ok := n.Value().AsInt()
	if !ok {
		return 0, &TypeCoercionError{Value: v}
	}
	return int(i), nil
}
