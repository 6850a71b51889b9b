package filters

import (
	"errors"
	"fmt"

	"liquidfilters/numeric"
)

// Errors a filter invocation can fail with. Everything else is handled by
// returning the input unchanged.
var (
	ErrTypeCoercion     = numeric.ErrTypeCoercion
	ErrDivisionByZero   = numeric.ErrDivisionByZero
	ErrMalformedPattern = errors.New("malformed pattern")
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrArity            = errors.New("wrong number of arguments")
)

// TypeCoercionError is the error returned when an arithmetic operand is not
// a number.
type TypeCoercionError = numeric.TypeCoercionError

// MalformedPatternError reports a regular expression that does not compile.
type MalformedPatternError struct {
	Pattern string
	Err     error
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q: %v", e.Pattern, e.Err)
}

func (e *MalformedPatternError) Unwrap() error { return e.Err }

func (e *MalformedPatternError) Is(target error) bool {
	return target == ErrMalformedPattern
}

// Error wraps a failure with the filter that produced it and the message
// key used to localize it for template authors.
type Error struct {
	Filter string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("filter %s: %v", e.Filter, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message keys, one per error kind.
const (
	KeyTypeCoercion     = "Error.TypeCoercion"
	KeyDivisionByZero   = "Error.DivisionByZero"
	KeyMalformedPattern = "Error.MalformedPattern"
	KeyUnknownFilter    = "Error.UnknownFilter"
	KeyArity            = "Error.Arity"
	KeyResultTooLarge   = "Error.ResultTooLarge"
	KeyInternal         = "Error.Internal"
)

// MessageKey returns the i18n message id describing err.
func MessageKey(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Key != "" {
		return fe.Key
	}
	switch {
	case errors.Is(err, ErrTypeCoercion):
		return KeyTypeCoercion
	case errors.Is(err, ErrDivisionByZero):
		return KeyDivisionByZero
	case errors.Is(err, ErrMalformedPattern):
		return KeyMalformedPattern
	case errors.Is(err, ErrUnknownFilter):
		return KeyUnknownFilter
	case errors.Is(err, ErrArity):
		return KeyArity
	case errors.Is(err, ErrResultTooLarge):
		return KeyResultTooLarge
	}
	return KeyInternal
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	e := &Error{Filter: name, Err: err}
	e.Key = MessageKey(e)
	return e
}
