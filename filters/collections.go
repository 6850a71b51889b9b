package filters

import (
	"slices"
	"strings"
	"unicode/utf8"

	"liquidfilters/value"
)

// elements returns the items of a sequence, or input itself as the only
// element when it is not one. Null has no elements.
func elements(input value.Value) []value.Value {
	if input.IsNull() {
		return nil
	}
	if items, ok := input.Collect(); ok {
		return items
	}
	return []value.Value{input}
}

// flatten unwraps one level of nested sequences.
func flatten(input value.Value) []value.Value {
	var out []value.Value
	for _, item := range elements(input) {
		if item.Kind() == value.KindSeq {
			for inner := range item.Items() {
				out = append(out, inner)
			}
			continue
		}
		out = append(out, item)
	}
	return out
}

// settle reads every lazy sequence inside v into an eager one so that
// repeated comparisons do not consume it again.
func settle(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindSeq:
		items, _ := v.Collect()
		for i, item := range items {
			items[i] = settle(item)
		}
		return value.Seq(items...)
	case value.KindRecord:
		m, _ := v.AsRecord()
		out := make(map[string]value.Value, len(m))
		for k, item := range m {
			out[k] = settle(item)
		}
		return value.Record(out)
	}
	return v
}

// Sort orders the elements of input, flattening one level of nesting first.
// Without a property elements are compared by value.Compare. With one, the
// property is read from every element through a single strategy and the
// elements are ordered by the extracted values; when no strategy fits the
// whole collection the elements keep their input order. The sort is stable.
func Sort(input value.Value, property string) value.Value {
	items := flatten(input)
	if len(items) < 2 {
		return value.Seq(items...)
	}

	for i, item := range items {
		items[i] = settle(item)
	}
	if property == "" {
		slices.SortStableFunc(items, value.Compare)
		return value.Seq(items...)
	}

	keys, strategy := value.Project(items, property)
	if strategy == value.PassThrough {
		return value.Seq(items...)
	}
	// attributes computed by methods may still be lazy
	for i, key := range keys {
		keys[i] = settle(key)
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return value.Compare(keys[i], keys[j])
	})

	sorted := make([]value.Value, len(items))
	for i, idx := range order {
		sorted[i] = items[idx]
	}
	return value.Seq(sorted...)
}

// Map projects property out of every element of input, in order. Elements
// are returned unchanged when the property cannot be read uniformly.
func Map(input value.Value, property string) value.Value {
	if input.IsNull() {
		return value.Null()
	}
	out, _ := value.Project(elements(input), property)
	return value.Seq(out...)
}

// Size returns the length of a string in characters, or the number of
// elements of a sequence or record. Anything else has size 0.
func Size(input value.Value) value.Value {
	n, ok := input.Len()
	if !ok {
		return value.Int(0)
	}
	return value.Int(int64(n))
}

// Join concatenates the string forms of the elements of input separated by
// glue.
func Join(input value.Value, glue string) value.Value {
	if input.IsNull() {
		return value.Null()
	}
	var sb strings.Builder
	for i, item := range elements(input) {
		if i > 0 {
			sb.WriteString(glue)
		}
		sb.WriteString(item.String())
	}
	return value.String(sb.String())
}

// First returns the first element of a sequence or the first character of a
// string. An empty sequence gives Null.
func First(input value.Value) value.Value {
	switch input.Kind() {
	case value.KindSeq:
		for item := range input.Items() {
			return item
		}
		return value.Null()
	case value.KindString:
		s, _ := input.AsString()
		if s == "" {
			return value.Null()
		}
		r, _ := utf8.DecodeRuneInString(s)
		return value.String(string(r))
	}
	return input
}

// Last returns the last element of a sequence or the last character of a
// string.
func Last(input value.Value) value.Value {
	switch input.Kind() {
	case value.KindSeq:
		last := value.Null()
		for item := range input.Items() {
			last = item
		}
		return last
	case value.KindString:
		s, _ := input.AsString()
		if s == "" {
			return value.Null()
		}
		r, _ := utf8.DecodeLastRuneInString(s)
		return value.String(string(r))
	}
	return input
}

// Reverse returns the elements of a sequence in reverse order.
func Reverse(input value.Value) value.Value {
	items, ok := input.Collect()
	if !ok {
		return input
	}
	slices.Reverse(items)
	return value.Seq(items...)
}

// Contains reports whether a sequence holds an element equal to needle, a
// string holds needle as a substring or a record holds needle as a key.
func Contains(input, needle value.Value) value.Value {
	switch input.Kind() {
	case value.KindSeq:
		for item := range input.Items() {
			if value.Equal(item, needle) {
				return value.Bool(true)
			}
		}
	case value.KindString:
		s, _ := input.AsString()
		return value.Bool(strings.Contains(s, needle.String()))
	case value.KindRecord:
		_, ok := input.Key(needle.String())
		return value.Bool(ok)
	}
	return value.Bool(false)
}
