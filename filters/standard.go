package filters

import (
	"liquidfilters/value"
)

func required(name string) Param {
	return Param{Name: name, Required: true}
}

func optional(name string, def value.Value) Param {
	return Param{Name: name, Default: def}
}

// arithmetic adapts a binary operator filter.
func arithmetic(fn func(*Context, value.Value, value.Value) (value.Value, error)) Func {
	return func(ctx *Context, input value.Value, args []value.Value) (value.Value, error) {
		return fn(ctx, input, args[0])
	}
}

// unary adapts a filter that only needs the input.
func unary(fn func(value.Value) value.Value) Func {
	return func(_ *Context, input value.Value, _ []value.Value) (value.Value, error) {
		return fn(input), nil
	}
}

// localized adapts a filter that only needs the input and the context.
func localized(fn func(*Context, value.Value) value.Value) Func {
	return func(ctx *Context, input value.Value, _ []value.Value) (value.Value, error) {
		return fn(ctx, input), nil
	}
}

// withString adapts a filter taking one string argument.
func withString(fn func(value.Value, string) value.Value) Func {
	return func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
		return fn(input, stringArg(args[0])), nil
	}
}

// pattern adapts the regular expression filters.
func pattern(fn func(value.Value, string, string) (value.Value, error)) Func {
	return func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
		return fn(input, stringArg(args[0]), stringArg(args[1]))
	}
}

// truncating adapts truncate and truncatewords.
func truncating(fn func(value.Value, int, string) value.Value) Func {
	return func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
		n, err := intArg(args[0])
		if err != nil {
			return value.Null(), err
		}
		return fn(input, n, stringArg(args[1])), nil
	}
}

func standardFilters() []Spec {
	ellipsis := value.String("...")

	return []Spec{
		{
			Name:        "plus",
			Description: "Adds two numbers, or appends to a string",
			Params:      []Param{required("operand")},
			Func:        arithmetic(Plus),
		},
		{
			Name:        "minus",
			Description: "Subtracts a number",
			Params:      []Param{required("operand")},
			Func:        arithmetic(Minus),
		},
		{
			Name:        "times",
			Description: "Multiplies two numbers, or repeats a string",
			Params:      []Param{required("operand")},
			Func:        arithmetic(Times),
		},
		{
			Name:        "divided_by",
			Description: "Divides by a number",
			Params:      []Param{required("operand")},
			Func:        arithmetic(DividedBy),
		},
		{
			Name:        "modulo",
			Description: "Remainder of a division",
			Params:      []Param{required("operand")},
			Func:        arithmetic(Modulo),
		},
		{
			Name:        "sort",
			Description: "Sorts a collection, optionally by a property of its elements",
			Params:      []Param{optional("property", value.Null())},
			Func: func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
				return Sort(input, stringArg(args[0])), nil
			},
		},
		{
			Name:        "map",
			Description: "Collects a property from every element",
			Params:      []Param{required("property")},
			Func:        withString(Map),
		},
		{
			Name:        "size",
			Description: "Length of a string or number of elements",
			Func:        unary(Size),
		},
		{
			Name:        "downcase",
			Description: "Converts to lower case",
			Func:        localized(Downcase),
		},
		{
			Name:        "upcase",
			Description: "Converts to upper case",
			Func:        localized(Upcase),
		},
		{
			Name:        "capitalize",
			Description: "Capitalizes every word",
			Func:        localized(Capitalize),
		},
		{
			Name:        "escape",
			Description: "Escapes HTML special characters",
			Func:        unary(Escape),
		},
		{
			Name:        "h",
			Description: "Alias of escape",
			Func:        unary(Escape),
		},
		{
			Name:        "truncate",
			Description: "Shortens a string to a number of characters",
			Params:      []Param{optional("length", value.Int(50)), optional("suffix", ellipsis)},
			Func:        truncating(Truncate),
		},
		{
			Name:        "truncatewords",
			Description: "Shortens a string to a number of words",
			Params:      []Param{optional("words", value.Int(15)), optional("suffix", ellipsis)},
			Func:        truncating(TruncateWords),
		},
		{
			Name:        "strip_html",
			Description: "Removes HTML tags",
			Func:        unary(StripHTML),
		},
		{
			Name:        "strip_newlines",
			Description: "Removes line breaks",
			Func:        unary(StripNewlines),
		},
		{
			Name:        "newline_to_br",
			Description: "Inserts <br /> before every line break",
			Func:        unary(NewlineToBr),
		},
		{
			Name:        "join",
			Description: "Joins the elements of a collection",
			Params:      []Param{optional("glue", value.String(" "))},
			Func: func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
				return Join(input, stringArg(args[0])), nil
			},
		},
		{
			Name:        "replace",
			Description: "Replaces every match of a regular expression",
			Params:      []Param{required("pattern"), optional("replacement", value.String(""))},
			Func:        pattern(Replace),
		},
		{
			Name:        "replace_first",
			Description: "Replaces the first match of a regular expression",
			Params:      []Param{required("pattern"), optional("replacement", value.String(""))},
			Func:        pattern(ReplaceFirst),
		},
		{
			Name:        "remove",
			Description: "Removes every occurrence of a substring",
			Params:      []Param{required("substring")},
			Func:        withString(Remove),
		},
		{
			Name:        "remove_first",
			Description: "Removes the first occurrence of a substring",
			Params:      []Param{required("substring")},
			Func:        withString(RemoveFirst),
		},
		{
			Name:        "append",
			Description: "Appends a string",
			Params:      []Param{required("suffix")},
			Func:        withString(Append),
		},
		{
			Name:        "prepend",
			Description: "Prepends a string",
			Params:      []Param{required("prefix")},
			Func:        withString(Prepend),
		},
		{
			Name:        "date",
			Description: "Formats a date with a strftime pattern or Go layout",
			Params:      []Param{required("format")},
			Func: func(ctx *Context, input value.Value, args []value.Value) (value.Value, error) {
				return Date(ctx, input, stringArg(args[0])), nil
			},
		},
		{
			Name:        "first",
			Description: "First element of a collection",
			Func:        unary(First),
		},
		{
			Name:        "last",
			Description: "Last element of a collection",
			Func:        unary(Last),
		},
		{
			Name:        "reverse",
			Description: "Reverses a collection",
			Func:        unary(Reverse),
		},
		{
			Name:        "contains",
			Description: "Whether a collection, string or record contains a value",
			Params:      []Param{required("value")},
			Func: func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
				return Contains(input, args[0]), nil
			},
		},
		{
			Name:        "default",
			Description: "Fallback for null, false or empty input",
			Params:      []Param{required("fallback")},
			Func: func(_ *Context, input value.Value, args []value.Value) (value.Value, error) {
				return Default(input, args[0]), nil
			},
		},
		{
			Name:        "json",
			Description: "Encodes as JSON",
			Func: func(_ *Context, input value.Value, _ []value.Value) (value.Value, error) {
				return JSON(input)
			},
		},
		{
			Name:        "markdownify",
			Description: "Renders Markdown as HTML",
			Func:        unary(Markdownify),
		},
	}
}
