// Package numeric implements arithmetic between values whose numeric types
// are only known at run time. Each operand is classified into a Kind, both
// are promoted to their common kind and a single per-kind operator table
// computes the result. Adding a numeric kind means adding a rung to the
// promotion ladder and one entry to the table.
package numeric

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"liquidfilters/value"
)

// Kind is a rung of the promotion ladder. When two operands differ, the
// higher kind wins: Int < Decimal < Float.
type Kind uint8

const (
	Int Kind = iota
	Decimal
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Decimal:
		return "decimal"
	case Float:
		return "float"
	}
	return "unknown"
}

// Op is a binary arithmetic operator.
type Op uint8

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
)

func (o Op) String() string {
	switch o {
	case Add:
		return "add"
	case Sub:
		return "subtract"
	case Mul:
		return "multiply"
	case Div:
		return "divide"
	case Mod:
		return "modulo"
	}
	return "unknown"
}

// Number is a value known to be numeric, held in the representation of its
// Kind.
type Number struct {
	kind Kind
	i    int64
	r    *big.Rat
	f    float64
}

// Kind reports the representation of n.
func (n Number) Kind() Kind { return n.kind }

// Value converts n back to a runtime value.
func (n Number) Value() value.Value {
	switch n.kind {
	case Int:
		return value.Int(n.i)
	case Decimal:
		return value.Decimal(n.r)
	}
	return value.Float(n.f)
}

// To promotes n to kind k. Promotion only moves up the ladder; asking for a
// lower kind returns n unchanged.
func (n Number) To(k Kind) Number {
	if k <= n.kind {
		return n
	}
	switch k {
	case Decimal:
		return Number{kind: Decimal, r: new(big.Rat).SetInt64(n.i)}
	case Float:
		if n.kind == Decimal {
			f, _ := n.r.Float64()
			return Number{kind: Float, f: f}
		}
		return Number{kind: Float, f: float64(n.i)}
	}
	return n
}

// Of classifies v. Int, Float and Decimal values keep their kind; strings
// holding an integer become Int (Decimal when beyond int64) and strings in
// decimal or exponent notation become Float. Anything else fails with a
// *TypeCoercionError.
func Of(v value.Value) (Number, error) {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		return Number{kind: Int, i: i}, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return Number{kind: Float, f: f}, nil
	case value.KindDecimal:
		r, _ := v.AsDecimal()
		return Number{kind: Decimal, r: r}, nil
	case value.KindString:
		s, _ := v.AsString()
		if n, ok := parse(s); ok {
			return n, nil
		}
	}
	return Number{}, &TypeCoercionError{Value: v}
}

func parse(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return Number{kind: Int, i: i}, true
	}
	if errors.Is(err, strconv.ErrRange) {
		if r, ok := new(big.Rat).SetString(s); ok {
			return Number{kind: Decimal, r: r}, true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Number{}, false
	}
	return Number{kind: Float, f: f}, true
}

// commonKind is the single promotion rule shared by every operator.
func commonKind(a, b Kind) Kind {
	return max(a, b)
}

// arithmetic computes op for two operands already promoted to its kind.
type arithmetic func(op Op, a, b Number) (Number, error)

var table = map[Kind]arithmetic{
	Int:     intArithmetic,
	Decimal: decimalArithmetic,
	Float:   floatArithmetic,
}

// Options tunes the promotion rule.
type Options struct {
	// IntegerDivision keeps Int / Int as a truncating integer division.
	// By default dividing two integers yields a Float.
	IntegerDivision bool
}

// Apply computes a op b. A Null operand yields Null. Operands that cannot
// be read as numbers fail with *TypeCoercionError, and a zero divisor fails
// with ErrDivisionByZero. Int results that overflow int64 are recomputed as
// Decimal.
func Apply(op Op, a, b value.Value, opts Options) (value.Value, error) {
	if a.IsNull() || b.IsNull() {
		return value.Null(), nil
	}
	x, err := Of(a)
	if err != nil {
		return value.Null(), withOp(err, op)
	}
	y, err := Of(b)
	if err != nil {
		return value.Null(), withOp(err, op)
	}

	k := commonKind(x.kind, y.kind)
	if op == Div && k == Int && !opts.IntegerDivision {
		k = Float
	}

	n, err := table[k](op, x.To(k), y.To(k))
	if errors.Is(err, errOverflow) {
		k = Decimal
		n, err = table[k](op, x.To(k), y.To(k))
	}
	if err != nil {
		return value.Null(), err
	}
	return n.Value(), nil
}

func withOp(err error, op Op) error {
	var tce *TypeCoercionError
	if errors.As(err, &tce) {
		tce.Op = op
		tce.hasOp = true
	}
	return err
}

func intArithmetic(op Op, a, b Number) (Number, error) {
	x, y := a.i, b.i
	var r int64
	switch op {
	case Add:
		r = x + y
		if (r > x) != (y > 0) {
			return Number{}, errOverflow
		}
	case Sub:
		r = x - y
		if (r < x) != (y > 0) {
			return Number{}, errOverflow
		}
	case Mul:
		if x == 0 || y == 0 {
			return Number{kind: Int}, nil
		}
		r = x * y
		if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return Number{}, errOverflow
		}
	case Div:
		if y == 0 {
			return Number{}, ErrDivisionByZero
		}
		if x == math.MinInt64 && y == -1 {
			return Number{}, errOverflow
		}
		r = x / y
	case Mod:
		if y == 0 {
			return Number{}, ErrDivisionByZero
		}
		if y == -1 {
			return Number{kind: Int}, nil
		}
		r = x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
	}
	return Number{kind: Int, i: r}, nil
}

func decimalArithmetic(op Op, a, b Number) (Number, error) {
	r := new(big.Rat)
	switch op {
	case Add:
		r.Add(a.r, b.r)
	case Sub:
		r.Sub(a.r, b.r)
	case Mul:
		r.Mul(a.r, b.r)
	case Div:
		if b.r.Sign() == 0 {
			return Number{}, ErrDivisionByZero
		}
		r.Quo(a.r, b.r)
	case Mod:
		if b.r.Sign() == 0 {
			return Number{}, ErrDivisionByZero
		}
		// a - b*floor(a/b)
		q := new(big.Rat).Quo(a.r, b.r)
		fl := new(big.Int).Div(q.Num(), q.Denom())
		r.Sub(a.r, new(big.Rat).Mul(b.r, new(big.Rat).SetInt(fl)))
	}
	return Number{kind: Decimal, r: r}, nil
}

func floatArithmetic(op Op, a, b Number) (Number, error) {
	x, y := a.f, b.f
	var r float64
	switch op {
	case Add:
		r = x + y
	case Sub:
		r = x - y
	case Mul:
		r = x * y
	case Div:
		if y == 0 {
			return Number{}, ErrDivisionByZero
		}
		r = x / y
	case Mod:
		if y == 0 {
			return Number{}, ErrDivisionByZero
		}
		r = math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
	}
	return Number{kind: Float, f: r}, nil
}
