// Package templates exposes the filter registry to Go's text/template and
// html/template packages.
package templates

import (
	"fmt"
	"io"
	"text/template"

	"liquidfilters/filters"
	"liquidfilters/value"
)

// FuncMap returns one template function per registered filter. Go templates
// pass the piped value as the last argument, so
//
//	{{ .price | plus 1 }}
//
// applies plus to .price with the operand 1. Results are value.Value and
// print in their textual form. The map converts to both text/template and
// html/template FuncMaps.
func FuncMap(registry *filters.Registry, ctx *filters.Context) map[string]any {
	names := registry.Names()
	funcs := make(map[string]any, len(names))
	for _, name := range names {
		funcs[name] = filterFunc(registry, ctx, name)
	}
	return funcs
}

func filterFunc(registry *filters.Registry, ctx *filters.Context, name string) func(args ...any) (value.Value, error) {
	return func(args ...any) (value.Value, error) {
		if len(args) == 0 {
			return value.Null(), &filters.Error{
				Filter: name,
				Err:    fmt.Errorf("%w: no input", filters.ErrArity),
			}
		}
		params := make([]value.Value, len(args)-1)
		for i, a := range args[:len(args)-1] {
			params[i] = value.FromAny(a)
		}
		return registry.Invoke(ctx, name, value.FromAny(args[len(args)-1]), params...)
	}
}

// Render parses text as a text/template with the filter functions installed
// and executes it with data.
func Render(w io.Writer, registry *filters.Registry, ctx *filters.Context, text string, data any) error {
	tmpl, err := template.New("inline").Funcs(FuncMap(registry, ctx)).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl.Execute(w, data)
}
