package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"
)

// FromAny converts Go data into a Value. Integers of every width become Int
// (unsigned values beyond int64 become Decimal), floats become Float,
// big numbers become Decimal, maps with string keys become Record, slices,
// arrays and iterators become Seq, and structs or pointers to structs are
// wrapped as Opaque so their attributes can be probed later.
func FromAny(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case *Value:
		if v == nil {
			return Null()
		}
		return *v
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i)
		}
		if !strings.ContainsAny(v.String(), ".eE") {
			if r, ok := new(big.Rat).SetString(v.String()); ok {
				return Decimal(r)
			}
		}
		if f, err := v.Float64(); err == nil {
			return Float(f)
		}
		return String(v.String())
	case *big.Int:
		if v == nil {
			return Null()
		}
		if v.IsInt64() {
			return Int(v.Int64())
		}
		return Decimal(new(big.Rat).SetInt(v))
	case *big.Rat:
		return Decimal(v)
	case *big.Float:
		if v == nil {
			return Null()
		}
		if r, _ := v.Rat(nil); r != nil {
			return Decimal(r)
		}
		f, _ := v.Float64()
		return Float(f)
	case string:
		return String(v)
	case []byte:
		return String(string(v))
	case time.Time:
		return Time(v)
	case *time.Time:
		if v == nil {
			return Null()
		}
		return Time(*v)
	case []Value:
		return Seq(v...)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromAny(item)
		}
		return Seq(items...)
	case []string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = String(item)
		}
		return Seq(items...)
	case map[string]Value:
		return Record(v)
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			m[k] = FromAny(item)
		}
		return Record(m)
	case iter.Seq[Value]:
		return Lazy(v)
	case iter.Seq[any]:
		return Lazy(func(yield func(Value) bool) {
			for item := range v {
				if !yield(FromAny(item)) {
					return
				}
			}
		})
	}
	return fromReflect(reflect.ValueOf(x), x)
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Decimal(new(big.Rat).SetInt(new(big.Int).SetUint64(u)))
	}
	return Int(int64(u))
}

// fromReflect handles named types and containers not covered by the type
// switch in FromAny.
func fromReflect(rv reflect.Value, orig any) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null()
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		if rv.Elem().Kind() == reflect.Struct {
			return Opaque(orig)
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Seq()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return Seq(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Opaque(orig)
		}
		m := make(map[string]Value, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			m[it.Key().String()] = FromAny(it.Value().Interface())
		}
		return Record(m)
	}
	return Opaque(orig)
}

// Interface converts v back to plain Go data: nil, bool, int64, float64,
// *big.Rat, string, time.Time, []any, map[string]any or the wrapped Opaque
// value. Lazy sequences are materialized.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindDecimal:
		return new(big.Rat).Set(v.data.(*big.Rat))
	case KindSeq:
		out := []any{}
		for item := range v.Items() {
			out = append(out, item.Interface())
		}
		return out
	case KindRecord:
		m := v.data.(map[string]Value)
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = item.Interface()
		}
		return out
	}
	return v.data
}

// MarshalJSON encodes v as the JSON value a template author would expect.
// Decimals are written as plain numbers and Opaque values fall back to their
// string form when they cannot be encoded themselves.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindFloat:
		f := v.data.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return json.Marshal(formatFloat(f))
		}
		return json.Marshal(f)
	case KindDecimal:
		return []byte(formatDecimal(v.data.(*big.Rat))), nil
	case KindTime:
		return json.Marshal(v.data.(time.Time).Format(time.RFC3339))
	case KindSeq:
		items := []Value{}
		for item := range v.Items() {
			items = append(items, item)
		}
		return json.Marshal(items)
	case KindRecord:
		return json.Marshal(v.data.(map[string]Value))
	case KindOpaque:
		if b, err := json.Marshal(v.data); err == nil {
			return b, nil
		}
		return json.Marshal(formatOpaque(v.data))
	}
	return json.Marshal(v.data)
}

// UnmarshalJSON decodes any JSON document into a Value, keeping integers
// exact.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

func formatOpaque(x any) string {
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(x)
}
