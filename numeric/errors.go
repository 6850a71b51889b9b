package numeric

import (
	"errors"
	"fmt"

	"liquidfilters/value"
)

var (
	// ErrTypeCoercion matches every *TypeCoercionError through errors.Is.
	ErrTypeCoercion = errors.New("value is not numeric")
	// ErrDivisionByZero is returned by Div and Mod with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	errOverflow = errors.New("integer overflow")
)

// TypeCoercionError reports an operand that cannot be read as a number.
type TypeCoercionError struct {
	Value value.Value
	Op    Op
	hasOp bool
}

func (e *TypeCoercionError) Error() string {
	desc := e.Value.Kind().String()
	if s, ok := e.Value.AsString(); ok {
		desc = fmt.Sprintf("string %q", s)
	}
	if e.hasOp {
		return fmt.Sprintf("cannot %s: %s is not a number", e.Op, desc)
	}
	return fmt.Sprintf("%s is not a number", desc)
}

func (e *TypeCoercionError) Is(target error) bool {
	return target == ErrTypeCoercion
}
