package value

import (
	"cmp"
	"math"
	"time"
)

// class groups kinds that are ordered against each other. Numbers of every
// kind share one class so 1 < 1.5 < 2 regardless of representation.
func (v Value) class() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat, KindDecimal:
		return 2
	case KindString:
		return 3
	case KindTime:
		return 4
	case KindSeq:
		return 5
	case KindRecord:
		return 6
	}
	return 7
}

// Compare defines the natural total order used by sort:
//
//	null < bool < number < string < time < seq < record < opaque
//
// Numbers compare by numeric value across Int, Float and Decimal, NaN sorting
// below every other number. Strings compare bytewise, times chronologically,
// sequences lexicographically, records by size and opaque values by their
// string form. Lazy sequences are consumed.
func Compare(a, b Value) int {
	if ca, cb := a.class(), b.class(); ca != cb {
		return cmp.Compare(ca, cb)
	}
	switch a.class() {
	case 0:
		return 0
	case 1:
		ab, bb := a.data.(bool), b.data.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	case 2:
		return compareNumbers(a, b)
	case 3:
		return cmp.Compare(a.data.(string), b.data.(string))
	case 4:
		return a.data.(time.Time).Compare(b.data.(time.Time))
	case 5:
		as, _ := a.Collect()
		bs, _ := b.Collect()
		for i := 0; i < len(as) && i < len(bs); i++ {
			if c := Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(as), len(bs))
	case 6:
		return cmp.Compare(len(a.data.(map[string]Value)), len(b.data.(map[string]Value)))
	}
	return cmp.Compare(a.String(), b.String())
}

func compareNumbers(a, b Value) int {
	if a.kind == KindInt && b.kind == KindInt {
		return cmp.Compare(a.data.(int64), b.data.(int64))
	}
	if a.kind == KindFloat || b.kind == KindFloat {
		// Finite floats convert exactly, so mixed comparisons stay exact.
		if ar, ok := a.AsDecimal(); ok {
			if br, ok := b.AsDecimal(); ok {
				return ar.Cmp(br)
			}
		}
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return cmp.Compare(af, bf)
	}
	ar, _ := a.AsDecimal()
	br, _ := b.AsDecimal()
	return ar.Cmp(br)
}

// Equal reports deep equality. Numbers are equal when numerically equal,
// sequences when their elements are pairwise equal and records when they have
// the same keys mapped to equal values.
func Equal(a, b Value) bool {
	if a.class() != b.class() {
		return false
	}
	switch a.class() {
	case 2:
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return false
		}
		return compareNumbers(a, b) == 0
	case 5:
		as, _ := a.Collect()
		bs, _ := b.Collect()
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	case 6:
		am, bm := a.data.(map[string]Value), b.data.(map[string]Value)
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case 7:
		return a.String() == b.String()
	}
	return Compare(a, b) == 0
}

// Truthy follows the template convention: only Null and false are falsy.
func (v Value) Truthy() bool {
	if v.kind == KindNull {
		return false
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	return true
}

// IsEmpty reports whether v is Null, an empty string, an empty sequence or
// an empty record. Lazy sequences are consumed.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString, KindSeq, KindRecord:
		n, _ := v.Len()
		return n == 0
	}
	return false
}
