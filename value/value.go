// Package value provides the loosely typed runtime representation used by the
// template filters. A Value is a small immutable tagged union; filters inspect
// its Kind at run time instead of relying on static Go types.
package value

import (
	"iter"
	"math"
	"math/big"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindTime
	KindSeq
	KindRecord
	KindOpaque
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindString:  "string",
	KindTime:    "time",
	KindSeq:     "seq",
	KindRecord:  "record",
	KindOpaque:  "opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the universal runtime value. The zero Value is Null.
type Value struct {
	kind Kind
	data any
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, data: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, data: i} }

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindFloat, data: f} }

// Decimal wraps an arbitrary precision rational. The rational is copied so
// later changes by the caller are not observed. A nil rational is Null.
func Decimal(r *big.Rat) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindDecimal, data: new(big.Rat).Set(r)}
}

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, data: s} }

// Time wraps a point in time.
func Time(t time.Time) Value { return Value{kind: KindTime, data: t} }

// Seq wraps an already materialized sequence.
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSeq, data: items}
}

// Lazy wraps a sequence produced on demand. Filters consume it at most once,
// in order.
func Lazy(seq iter.Seq[Value]) Value {
	if seq == nil {
		return Seq()
	}
	return Value{kind: KindSeq, data: seq}
}

// Record wraps a string keyed mapping.
func Record(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindRecord, data: m}
}

// Opaque wraps an arbitrary Go value whose attributes are resolved at run
// time (see Attributer).
func Opaque(x any) Value {
	if x == nil {
		return Null()
	}
	return Value{kind: KindOpaque, data: x}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumber reports whether v holds an Int, Float or Decimal.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat || v.kind == KindDecimal
}

// IsLazy reports whether v is a sequence that has not been materialized.
func (v Value) IsLazy() bool {
	_, ok := v.data.(iter.Seq[Value])
	return ok
}

func (v Value) AsBool() (bool, bool) {
	b, ok := v.data.(bool)
	return b, ok && v.kind == KindBool
}

// AsInt returns v as an int64 when it holds an Int, or a Float/Decimal with
// no fractional part that fits in an int64.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.data.(int64), true
	case KindFloat:
		f := v.data.(float64)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case KindDecimal:
		r := v.data.(*big.Rat)
		if !r.IsInt() || !r.Num().IsInt64() {
			return 0, false
		}
		return r.Num().Int64(), true
	}
	return 0, false
}

// AsFloat returns v as a float64 when it holds a number.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.data.(int64)), true
	case KindFloat:
		return v.data.(float64), true
	case KindDecimal:
		f, _ := v.data.(*big.Rat).Float64()
		return f, true
	}
	return 0, false
}

// AsDecimal returns a fresh rational for Int and Decimal values, and for
// finite Float values.
func (v Value) AsDecimal() (*big.Rat, bool) {
	switch v.kind {
	case KindInt:
		return new(big.Rat).SetInt64(v.data.(int64)), true
	case KindDecimal:
		return new(big.Rat).Set(v.data.(*big.Rat)), true
	case KindFloat:
		f := v.data.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(f), true
	}
	return nil, false
}

// AsString returns the string held by v. Unlike String it does not convert
// other kinds.
func (v Value) AsString() (string, bool) {
	s, ok := v.data.(string)
	return s, ok && v.kind == KindString
}

func (v Value) AsTime() (time.Time, bool) {
	t, ok := v.data.(time.Time)
	return t, ok && v.kind == KindTime
}

// AsRecord returns the mapping held by a Record. The map must not be modified.
func (v Value) AsRecord() (map[string]Value, bool) {
	m, ok := v.data.(map[string]Value)
	return m, ok && v.kind == KindRecord
}

// AsOpaque returns the Go value wrapped by an Opaque.
func (v Value) AsOpaque() (any, bool) {
	if v.kind != KindOpaque {
		return nil, false
	}
	return v.data, true
}

// Items iterates over the elements of a sequence. For any other kind it
// yields nothing. A lazy sequence is pulled from its producer.
func (v Value) Items() iter.Seq[Value] {
	switch d := v.data.(type) {
	case []Value:
		return slices.Values(d)
	case iter.Seq[Value]:
		return d
	}
	return func(func(Value) bool) {}
}

// Collect materializes a sequence into a new slice the caller owns. It
// returns nil, false when v is not a sequence.
func (v Value) Collect() ([]Value, bool) {
	switch d := v.data.(type) {
	case []Value:
		return slices.Clone(d), true
	case iter.Seq[Value]:
		return slices.Collect(d), true
	}
	return nil, false
}

// Len returns the number of runes of a String, the number of elements of a
// Seq (materializing a lazy one) or the number of keys of a Record.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindString:
		return utf8.RuneCountInString(v.data.(string)), true
	case KindSeq:
		if items, ok := v.data.([]Value); ok {
			return len(items), true
		}
		n := 0
		for range v.Items() {
			n++
		}
		return n, true
	case KindRecord:
		return len(v.data.(map[string]Value)), true
	}
	return 0, false
}

// String returns the textual form of v used when a filter needs text:
// concatenation, joining and string filters applied to non-string input.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.data.(bool))
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return formatFloat(v.data.(float64))
	case KindDecimal:
		return formatDecimal(v.data.(*big.Rat))
	case KindString:
		return v.data.(string)
	case KindTime:
		return v.data.(time.Time).Format(time.RFC3339)
	case KindSeq:
		var sb strings.Builder
		for item := range v.Items() {
			sb.WriteString(item.String())
		}
		return sb.String()
	case KindRecord:
		return formatRecord(v.data.(map[string]Value))
	case KindOpaque:
		return formatOpaque(v.data)
	}
	return ""
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decimalPlaces caps the digits printed for non-terminating rationals.
const decimalPlaces = 10

func formatDecimal(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	if n, exact := r.FloatPrec(); exact {
		return r.FloatString(n)
	}
	s := r.FloatString(decimalPlaces)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		// a tiny negative value rounded away
		return "0"
	}
	return s
}

func formatRecord(m map[string]Value) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(m[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
