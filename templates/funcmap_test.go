package templates

import (
	"bytes"
	htmltemplate "html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidfilters/filters"
)

func TestRender(t *testing.T) {
	registry := filters.NewRegistry(nil)
	data := map[string]any{
		"price": 2,
		"title": "hello world",
		"items": []map[string]any{
			{"name": "pear", "price": 3},
			{"name": "fig", "price": 1},
		},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"operand first", `{{ .price | plus 1 }}`, "3"},
		{"division", `{{ 10 | divided_by 4 }}`, "2.5"},
		{"chain", `{{ .items | sort "price" | map "name" | join ", " | upcase }}`, "FIG, PEAR"},
		{"defaults", `{{ .title | truncate 8 }}`, "hello..."},
		{"two arguments", `{{ .title | replace "o" "0" }}`, "hell0 w0rld"},
		{"missing key", `{{ .missing | default "n/a" }}`, "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, registry, nil, tt.text, data))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRender_Errors(t *testing.T) {
	registry := filters.NewRegistry(nil)

	var buf bytes.Buffer
	err := Render(&buf, registry, nil, `{{ 1 | divided_by 0 }}`, nil)
	assert.ErrorIs(t, err, filters.ErrDivisionByZero)

	err = Render(&buf, registry, nil, `{{ 1 | nope }}`, nil)
	assert.Error(t, err)

	err = Render(&buf, registry, nil, `{{ upcase }}`, nil)
	assert.ErrorIs(t, err, filters.ErrArity)
}

func TestFuncMap_HTMLTemplate(t *testing.T) {
	registry := filters.NewRegistry(nil)
	tmpl, err := htmltemplate.New("page").Funcs(FuncMap(registry, nil)).Parse(`<p>{{ .name | append "!" }}</p>`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, map[string]any{"name": "<b>"}))
	assert.Equal(t, "<p>&lt;b&gt;!</p>", buf.String())
}
