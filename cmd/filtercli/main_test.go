package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidfilters/filters"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "sort and map records",
			doc: `
input:
  - {name: banana, price: 3}
  - {name: apple, price: 1}
filters:
  - {name: sort, args: [price]}
  - {name: map, args: [name]}
  - {name: join, args: [", "]}
`,
			want: `"apple, banana"`,
		},
		{
			name: "arithmetic",
			doc: `
input: 7
filters:
  - {name: divided_by, args: [2]}
`,
			want: `3.5`,
		},
		{
			name: "integer division",
			doc: `
integer_division: true
input: 7
filters:
  - {name: divided_by, args: [2]}
`,
			want: `3`,
		},
		{
			name: "localized date",
			doc: `
locale: fr
input: "2024-03-05"
filters:
  - {name: date, args: ["%d %B %Y"]}
`,
			want: `"05 mars 2024"`,
		},
		{
			name: "no filters",
			doc:  `input: {a: 1}`,
			want: `{"a":1}`,
		},
		{
			name: "empty document",
			doc:  ``,
			want: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run(nil, strings.NewReader(tt.doc), &out, false))
			assert.JSONEq(t, tt.want, out.String())
		})
	}
}

func TestRun_Template(t *testing.T) {
	doc := `
input: {name: ada, price: 2}
template: "{{ .name | capitalize }}: {{ .price | times 3 }} EUR"
`
	var out bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader(doc), &out, true))
	assert.Equal(t, "Ada: 6 EUR", out.String())
}

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [1, 2, 3]\nfilters:\n  - {name: reverse}\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{path}, strings.NewReader(""), &out, true))
	assert.Equal(t, "[\n  3,\n  2,\n  1\n]\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		doc  string
		is   error
	}{
		{"unknown filter", nil, "input: 1\nfilters: [{name: nope}]", filters.ErrUnknownFilter},
		{"division by zero", nil, "input: 1\nfilters: [{name: divided_by, args: [0]}]", filters.ErrDivisionByZero},
		{"bad timezone", nil, "timezone: Nowhere/Nothing\ninput: 1", nil},
		{"bad yaml", nil, "input: [1, 2", nil},
		{"missing file", []string{"/does/not/exist.yaml"}, "", os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, strings.NewReader(tt.doc), &bytes.Buffer{}, false)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestRun_List(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-list"}, strings.NewReader(""), &out, false))
	assert.Contains(t, out.String(), `truncate(length=50, suffix="...")`)
	assert.Contains(t, out.String(), "markdownify()")
}
