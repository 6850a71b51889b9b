package filters

import (
	"errors"
	"strings"

	"liquidfilters/numeric"
	"liquidfilters/value"
)

// MaxRepeatLength bounds the size in bytes of a string built by times.
const MaxRepeatLength = 1 << 20

// ErrResultTooLarge is returned when times would build a string longer than
// MaxRepeatLength.
var ErrResultTooLarge = errors.New("result too large")

// Plus adds operand to input. A String input is concatenated with the
// string form of operand instead.
func Plus(ctx *Context, input, operand value.Value) (value.Value, error) {
	if s, ok := input.AsString(); ok {
		return value.String(s + operand.String()), nil
	}
	return numeric.Apply(numeric.Add, input, operand, ctx.numericOptions())
}

// Minus subtracts operand from input.
func Minus(ctx *Context, input, operand value.Value) (value.Value, error) {
	return numeric.Apply(numeric.Sub, input, operand, ctx.numericOptions())
}

// Times multiplies input by operand. A String input with an Int operand is
// repeated that many times; a negative count gives the empty string.
func Times(ctx *Context, input, operand value.Value) (value.Value, error) {
	if s, ok := input.AsString(); ok && operand.Kind() == value.KindInt {
		n, _ := operand.AsInt()
		if n <= 0 || s == "" {
			return value.String(""), nil
		}
		if n > int64(MaxRepeatLength/len(s)) {
			return value.Null(), ErrResultTooLarge
		}
		return value.String(strings.Repeat(s, int(n))), nil
	}
	return numeric.Apply(numeric.Mul, input, operand, ctx.numericOptions())
}

// DividedBy divides input by operand. Two integers yield a Float unless the
// context asks for integer division.
func DividedBy(ctx *Context, input, operand value.Value) (value.Value, error) {
	return numeric.Apply(numeric.Div, input, operand, ctx.numericOptions())
}

// Modulo returns the floored remainder of input divided by operand, with
// the sign of operand.
func Modulo(ctx *Context, input, operand value.Value) (value.Value, error) {
	return numeric.Apply(numeric.Mod, input, operand, ctx.numericOptions())
}
