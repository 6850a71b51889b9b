package value

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type product struct {
	Title     string
	UnitPrice int `json:"unit_price"`
	internal  string
}

func (p product) Upper() string { return "UPPER " + p.Title }

func (p *product) Describe() (string, error) { return "a " + p.Title, nil }

func (p product) Broken() (string, error) { return "", errors.New("boom") }

type drop struct{ attrs map[string]any }

func (d drop) Attribute(name string) (any, bool) {
	v, ok := d.attrs[name]
	return v, ok
}

func records(values ...int64) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Record(map[string]Value{"a": Int(v)})
	}
	return out
}

func TestAttr_StructLookup(t *testing.T) {
	p := Opaque(&product{Title: "Shoe", UnitPrice: 30, internal: "x"})

	tests := []struct {
		name string
		prop string
		want Value
		ok   bool
	}{
		{"exact field", "Title", String("Shoe"), true},
		{"case insensitive field", "title", String("Shoe"), true},
		{"json tag", "unit_price", Int(30), true},
		{"snake case field", "unit_price", Int(30), true},
		{"value method", "upper", String("UPPER Shoe"), true},
		{"pointer method with error", "describe", String("a Shoe"), true},
		{"method returning error", "broken", Null(), false},
		{"unexported field", "internal", Null(), false},
		{"missing", "color", Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Attr(tt.prop)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttr_Attributer(t *testing.T) {
	d := Opaque(drop{attrs: map[string]any{"name": "widget"}})

	got, ok := d.Attr("name")
	assert.True(t, ok)
	assert.Equal(t, String("widget"), got)

	_, ok = d.Attr("Name")
	assert.False(t, ok)
}

func TestField_ByCapability(t *testing.T) {
	got, ok := Record(map[string]Value{"a": Int(1)}).Field("a")
	assert.True(t, ok)
	assert.Equal(t, Int(1), got)

	_, ok = Int(1).Field("a")
	assert.False(t, ok)
	assert.Equal(t, CapNone, String("x").Capability())
}

func TestProject_Strategies(t *testing.T) {
	t.Run("all records hold the key", func(t *testing.T) {
		out, s := Project(records(1, 2), "a")
		assert.Equal(t, ByKey, s)
		assert.Equal(t, []Value{Int(1), Int(2)}, out)
	})

	t.Run("every element exposes the attribute", func(t *testing.T) {
		items := []Value{Opaque(product{Title: "a"}), Opaque(&product{Title: "b"})}
		out, s := Project(items, "title")
		assert.Equal(t, ByAttribute, s)
		assert.Equal(t, []Value{String("a"), String("b")}, out)
	})

	t.Run("mixed shapes pass through", func(t *testing.T) {
		items := []Value{
			Record(map[string]Value{"a": Int(3)}),
			Record(map[string]Value{"b": Int(1)}),
		}
		out, s := Project(items, "a")
		assert.Equal(t, PassThrough, s)
		assert.Equal(t, items, out)
	})

	t.Run("records and structs mixed pass through", func(t *testing.T) {
		items := []Value{
			Record(map[string]Value{"title": String("x")}),
			Opaque(product{Title: "y"}),
		}
		_, s := Project(items, "title")
		assert.Equal(t, PassThrough, s)
	})

	t.Run("empty collection", func(t *testing.T) {
		out, s := Project(nil, "a")
		assert.Equal(t, PassThrough, s)
		assert.Empty(t, out)
	})

	t.Run("scalars pass through", func(t *testing.T) {
		assert.Equal(t, PassThrough, ResolveStrategy([]Value{Int(1)}, "a"))
	})
}

func TestExportedName(t *testing.T) {
	assert.Equal(t, "FirstName", exportedName("first_name"))
	assert.Equal(t, "Id", exportedName("id"))
	assert.Equal(t, "ZipCode", exportedName("zip-code"))
}
