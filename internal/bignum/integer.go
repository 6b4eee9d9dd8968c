package bignum

import (
	"math"

	"fortio.org/safecast"

	"precis/internal/rounding"
	"precis/internal/word"
)

// Int represents an unbounded signed integer as a sign and a Nat magnitude.
// Zero is never negative. The zero value is 0.
//
// As with Nat, non-Assign methods return values with storage of their own,
// while an Int copied by assignment shares its magnitude with the source.
// Clone a copy before calling an Assign method on it.
type Int[W word.Word] struct {
	neg bool
	abs Nat[W]
}

type (
	// Integer is an Int with 64-bit words.
	Integer = Int[uint64]
	// Integer32 is an Int with 32-bit words.
	Integer32 = Int[uint32]
)

// IntFromNat returns the integer with the given sign and magnitude. A zero
// magnitude always yields a non-negative zero.
func IntFromNat[W word.Word](neg bool, abs Nat[W]) Int[W] {
	return Int[W]{neg: neg && !abs.IsZero(), abs: abs}
}

// IntFromInt64 returns the Int holding v.
func IntFromInt64[W word.Word](v int64) Int[W] {
	u := uint64(v) //nolint:gosec // G115: two's-complement reinterpretation
	if v < 0 {
		u = -u
	}
	return IntFromNat(v < 0, NatFromUint64[W](u))
}

// IsZero reports whether x == 0.
func (x Int[W]) IsZero() bool { return x.abs.IsZero() }

// IsNeg reports whether x < 0.
func (x Int[W]) IsNeg() bool { return x.neg }

// Sign returns -1, 0 or +1.
func (x Int[W]) Sign() int {
	switch {
	case x.neg:
		return -1
	case x.abs.IsZero():
		return 0
	}
	return 1
}

// Abs returns the magnitude of x.
func (x Int[W]) Abs() Nat[W] { return x.abs.Clone() }

// Neg returns -x.
func (x Int[W]) Neg() Int[W] {
	return x.negated().Clone()
}

// negated returns -x sharing x's magnitude, for read-only use.
func (x Int[W]) negated() Int[W] {
	return IntFromNat(!x.neg, x.abs)
}

// NegAssign sets z = -z.
func (z *Int[W]) NegAssign() {
	z.neg = !z.neg && !z.abs.IsZero()
}

// Clone returns a copy of x that shares no storage with it.
func (x Int[W]) Clone() Int[W] {
	return Int[W]{neg: x.neg, abs: x.abs.Clone()}
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Int[W]) Cmp(y Int[W]) int {
	switch {
	case x.neg == y.neg:
		c := x.abs.Cmp(y.abs)
		if x.neg {
			c = -c
		}
		return c
	case x.neg:
		return -1
	}
	return 1
}

// CmpAbs compares |x| and |y|.
func (x Int[W]) CmpAbs(y Int[W]) int {
	return x.abs.Cmp(y.abs)
}

// Equal reports whether x == y.
func (x Int[W]) Equal(y Int[W]) bool {
	return x.neg == y.neg && x.abs.Equal(y.abs)
}

// Int64 returns x as an int64 if it fits.
func (x Int[W]) Int64() (int64, bool) {
	u, ok := x.abs.Uint64()
	if !ok {
		return 0, false
	}
	if x.neg && u == 1<<63 {
		return math.MinInt64, true
	}
	v, err := safecast.Conv[int64](u)
	if err != nil {
		return 0, false
	}
	if x.neg {
		v = -v
	}
	return v, true
}

// Add returns x + y.
//
// Operands of equal sign add magnitudes. Otherwise the smaller magnitude is
// subtracted from the larger and the result takes the larger one's sign.
func (x Int[W]) Add(y Int[W]) Int[W] {
	if x.neg == y.neg {
		return Int[W]{neg: x.neg, abs: x.abs.Add(y.abs)}
	}
	if x.abs.Cmp(y.abs) >= 0 {
		return IntFromNat(x.neg, x.abs.Sub(y.abs))
	}
	return IntFromNat(y.neg, y.abs.Sub(x.abs))
}

// Sub returns x - y.
func (x Int[W]) Sub(y Int[W]) Int[W] {
	return x.Add(y.negated())
}

// Mul returns x * y.
func (x Int[W]) Mul(y Int[W]) Int[W] {
	return IntFromNat(x.neg != y.neg, x.abs.Mul(y.abs))
}

// AddAssign sets z = z + y, reusing z's storage where possible.
func (z *Int[W]) AddAssign(y Int[W]) {
	switch {
	case z.neg == y.neg:
		z.abs.AddAssign(y.abs)
	case z.abs.Cmp(y.abs) >= 0:
		z.abs.SubAssign(y.abs)
	default:
		z.abs = y.abs.Sub(z.abs)
		z.neg = y.neg
	}
	z.neg = z.neg && !z.abs.IsZero()
}

// SubAssign sets z = z - y.
func (z *Int[W]) SubAssign(y Int[W]) {
	z.AddAssign(y.negated())
}

// MulAssign sets z = z * y.
func (z *Int[W]) MulAssign(y Int[W]) {
	z.abs.MulAssign(y.abs)
	z.neg = z.neg != y.neg && !z.abs.IsZero()
}

// Shl returns x << n, that is x * 2^n.
func (x Int[W]) Shl(n uint) Int[W] {
	return IntFromNat(x.neg, x.abs.Shl(n))
}

// ShlChecked returns x << n, or ErrMaxLimbs when the result would need more
// than MaxLimbs words.
func (x Int[W]) ShlChecked(n uint) (Int[W], error) {
	abs, err := x.abs.ShlChecked(n)
	if err != nil {
		return Int[W]{}, err
	}
	return IntFromNat(x.neg, abs), nil
}

// ShrRound returns x / 2^n rounded according to m.
func (x Int[W]) ShrRound(n uint, m rounding.Mode) (Int[W], rounding.Ordering, error) {
	if !x.neg {
		q, o, err := x.abs.ShrRound(n, m)
		return Int[W]{abs: q}, o, err
	}
	q, o, err := x.abs.ShrRound(n, m.Neg())
	if err != nil {
		return Int[W]{}, rounding.Equal, err
	}
	return IntFromNat(true, q), o.Reverse(), nil
}

func (x Int[W]) String() string {
	return x.Text(10)
}
