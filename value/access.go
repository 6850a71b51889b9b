package value

import (
	"reflect"
	"strings"
	"unicode"
)

// Attributer is implemented by Go values that expose named attributes to
// templates without being records. It takes precedence over reflection.
type Attributer interface {
	Attribute(name string) (any, bool)
}

// Capability tags how a value answers a property lookup.
type Capability uint8

const (
	// CapNone is an element that neither holds keys nor exposes attributes.
	CapNone Capability = iota
	// CapKeyed is a Record.
	CapKeyed
	// CapAttributes is an Opaque value with readable attributes.
	CapAttributes
)

// Capability reports how v can be probed for properties.
func (v Value) Capability() Capability {
	switch v.kind {
	case KindRecord:
		return CapKeyed
	case KindOpaque:
		return CapAttributes
	}
	return CapNone
}

// Key looks name up in a Record.
func (v Value) Key(name string) (Value, bool) {
	m, ok := v.AsRecord()
	if !ok {
		return Null(), false
	}
	item, ok := m[name]
	return item, ok
}

// Attr reads the attribute name of an Opaque value. Lookup order is the
// Attributer interface, then exported struct fields (by Go name, json tag,
// case-insensitively or from snake_case), then exported methods taking no
// arguments and returning one value, or a value and an error.
func (v Value) Attr(name string) (Value, bool) {
	obj, ok := v.AsOpaque()
	if !ok || name == "" {
		return Null(), false
	}
	x, ok := lookupAttribute(obj, name)
	if !ok {
		return Null(), false
	}
	return FromAny(x), true
}

// Field resolves name on a single value using whichever capability it has.
func (v Value) Field(name string) (Value, bool) {
	switch v.Capability() {
	case CapKeyed:
		return v.Key(name)
	case CapAttributes:
		return v.Attr(name)
	}
	return Null(), false
}

func lookupAttribute(obj any, name string) (any, bool) {
	if a, ok := obj.(Attributer); ok {
		return a.Attribute(name)
	}

	rv := reflect.ValueOf(obj)
	base := rv
	for base.Kind() == reflect.Pointer || base.Kind() == reflect.Interface {
		if base.IsNil() {
			return nil, false
		}
		base = base.Elem()
	}

	switch base.Kind() {
	case reflect.Struct:
		if x, ok := structField(base, name); ok {
			return x, true
		}
	case reflect.Map:
		if base.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := base.MapIndex(reflect.ValueOf(name).Convert(base.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	}
	return callMethod(rv, name)
}

func structField(rv reflect.Value, name string) (any, bool) {
	goName := exportedName(name)
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if !matchesName(f.Name, name, goName) && jsonName(f) != name {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			return nil, false
		}
		return fv.Interface(), true
	}
	return nil, false
}

func callMethod(rv reflect.Value, name string) (any, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	goName := exportedName(name)
	t := rv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !matchesName(m.Name, name, goName) {
			continue
		}
		fn := rv.Method(i)
		ft := fn.Type()
		if ft.NumIn() != 0 {
			continue
		}
		switch ft.NumOut() {
		case 1:
			return fn.Call(nil)[0].Interface(), true
		case 2:
			if !ft.Out(1).Implements(errorType) {
				continue
			}
			out := fn.Call(nil)
			if !out[1].IsNil() {
				return nil, false
			}
			return out[0].Interface(), true
		}
	}
	return nil, false
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func matchesName(goField, name, goName string) bool {
	return goField == name || goField == goName || strings.EqualFold(goField, name)
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// exportedName turns a template property such as "first_name" into the Go
// identifier "FirstName".
func exportedName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Strategy is the lookup applied uniformly to every element of a collection.
type Strategy uint8

const (
	// PassThrough leaves elements unchanged.
	PassThrough Strategy = iota
	// ByKey reads the property as a Record key.
	ByKey
	// ByAttribute reads the property as an Opaque attribute.
	ByAttribute
)

func (s Strategy) String() string {
	switch s {
	case ByKey:
		return "key"
	case ByAttribute:
		return "attribute"
	}
	return "pass-through"
}

// ResolveStrategy decides once per collection how property is read. Key
// lookup is chosen when every element is a Record holding the key, attribute
// lookup when every element exposes the attribute, and pass-through
// otherwise, including for an empty collection or an empty property.
func ResolveStrategy(items []Value, property string) Strategy {
	_, strategy := Project(items, property)
	return strategy
}

// Project extracts property from every element with a single strategy (see
// ResolveStrategy). Under PassThrough the elements are returned unchanged.
// The result always has the same length and order as items.
func Project(items []Value, property string) ([]Value, Strategy) {
	if len(items) == 0 || property == "" {
		return items, PassThrough
	}
	if out, ok := projectWith(items, property, Value.Key); ok {
		return out, ByKey
	}
	if out, ok := projectWith(items, property, Value.Attr); ok {
		return out, ByAttribute
	}
	return items, PassThrough
}

func projectWith(items []Value, property string, lookup func(Value, string) (Value, bool)) ([]Value, bool) {
	out := make([]Value, len(items))
	for i, item := range items {
		v, ok := lookup(item, property)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
