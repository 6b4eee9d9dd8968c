package bignum

import (
	"fmt"
	"math"

	"precis/internal/limbs"
	"precis/internal/rounding"
	"precis/internal/word"
)

// divMod returns the truncated quotient and remainder; d must be non-zero.
func (x Nat[W]) divMod(d Nat[W]) (q, r Nat[W]) {
	if x.big == nil && d.big == nil {
		return Nat[W]{small: x.small / d.small}, Nat[W]{small: x.small % d.small}
	}
	if d.big == nil {
		qv, rw := limbs.DivW(nil, x.vec(), d.small)
		return natFrom(qv), Nat[W]{small: rw}
	}
	qv, rv := limbs.DivMod(nil, x.vec(), d.big)
	return natFrom(qv), natFrom(rv)
}

// roundQuotient applies m to the truncated quotient q whose remainder r
// against d is non-zero. Nearest compares 2r with d.
func roundQuotient[W word.Word](q, r, d Nat[W], m rounding.Mode) (Nat[W], rounding.Ordering, error) {
	half := 0
	if m == rounding.Nearest {
		half = r.Shl(1).Cmp(d)
	}
	up, o, err := rounding.Decide(m, q.IsOdd(), half)
	if err != nil {
		return Nat[W]{}, rounding.Equal, err
	}
	if up {
		q = q.addWord(1)
	}
	return q, o, nil
}

// DivRound returns x / d rounded according to m, and how the returned
// quotient relates to the exact one. It fails with ErrDivByZero when d is
// zero and with rounding.ErrInexact when m is Exact and d does not divide x.
func (x Nat[W]) DivRound(d Nat[W], m rounding.Mode) (Nat[W], rounding.Ordering, error) {
	if d.IsZero() {
		return Nat[W]{}, rounding.Equal, ErrDivByZero
	}
	q, r := x.divMod(d)
	if r.IsZero() {
		return q, rounding.Equal, nil
	}
	q, o, err := roundQuotient(q, r, d, m)
	if err != nil {
		return Nat[W]{}, rounding.Equal, fmt.Errorf("divround: %w", err)
	}
	return q, o, nil
}

// DivRoundAssign sets z = z / d rounded according to m. On error z is
// unchanged.
func (z *Nat[W]) DivRoundAssign(d Nat[W], m rounding.Mode) (rounding.Ordering, error) {
	q, o, err := z.DivRound(d, m)
	if err != nil {
		return rounding.Equal, err
	}
	*z = q
	return o, nil
}

// DivMod returns the truncated quotient and the remainder of x / d.
func (x Nat[W]) DivMod(d Nat[W]) (q, r Nat[W], err error) {
	if d.IsZero() {
		return Nat[W]{}, Nat[W]{}, ErrDivByZero
	}
	q, r = x.divMod(d)
	return q, r, nil
}

// DivExact returns x / d when d divides x.
func (x Nat[W]) DivExact(d Nat[W]) (Nat[W], error) {
	q, _, err := x.DivRound(d, rounding.Exact)
	return q, err
}

// DivisibleBy reports whether x is a multiple of d. Zero is divisible by zero
// and nothing else is.
func (x Nat[W]) DivisibleBy(d Nat[W]) bool {
	switch {
	case d.IsZero():
		return x.IsZero()
	case d.big == nil && x.big != nil:
		return limbs.ModW(x.big, d.small) == 0
	}
	_, r := x.divMod(d)
	return r.IsZero()
}

// RoundToMultiple rounds x to a multiple of d according to m.
//
// The only multiple of zero is zero, so for d == 0 a non-zero x rounds down
// to (0, Less) under Down, Floor and Nearest and fails with ErrDivByZero
// under the modes that would round away from zero.
func (x Nat[W]) RoundToMultiple(d Nat[W], m rounding.Mode) (Nat[W], rounding.Ordering, error) {
	if d.IsZero() {
		if x.IsZero() {
			return Nat[W]{}, rounding.Equal, nil
		}
		switch m {
		case rounding.Down, rounding.Floor, rounding.Nearest:
			return Nat[W]{}, rounding.Less, nil
		default:
			return Nat[W]{}, rounding.Equal, fmt.Errorf("round to multiple of zero with %v: %w", m, ErrDivByZero)
		}
	}
	q, o, err := x.DivRound(d, m)
	if err != nil {
		return Nat[W]{}, rounding.Equal, err
	}
	return q.Mul(d), o, nil
}

// ShrRound returns x >> n rounded according to m.
func (x Nat[W]) ShrRound(n uint, m rounding.Mode) (Nat[W], rounding.Ordering, error) {
	if n == 0 || x.IsZero() {
		return x.Clone(), rounding.Equal, nil
	}
	v := x.vec()
	if !limbs.Sticky(v, n) {
		return x.shr(n), rounding.Equal, nil
	}
	q := x.shr(n)
	half := 0
	if m == rounding.Nearest {
		switch {
		case !limbs.Bit(v, n-1):
			half = -1
		case limbs.Sticky(v, n-1):
			half = 1
		}
	}
	up, o, err := rounding.Decide(m, q.IsOdd(), half)
	if err != nil {
		return Nat[W]{}, rounding.Equal, fmt.Errorf("shrround: %w", err)
	}
	if up {
		q = q.addWord(1)
	}
	return q, o, nil
}

// ShrRoundAssign sets z = z >> n rounded according to m. On error z is
// unchanged.
func (z *Nat[W]) ShrRoundAssign(n uint, m rounding.Mode) (rounding.Ordering, error) {
	q, o, err := z.ShrRound(n, m)
	if err != nil {
		return rounding.Equal, err
	}
	*z = q
	return o, nil
}

// RoundToMultipleOfPow2 rounds x to a multiple of 2^k according to m.
func (x Nat[W]) RoundToMultipleOfPow2(k uint, m rounding.Mode) (Nat[W], rounding.Ordering, error) {
	q, o, err := x.ShrRound(k, m)
	if err != nil {
		return Nat[W]{}, rounding.Equal, err
	}
	return q.Shl(k), o, nil
}

// Pow returns x**e. It fails with ErrMaxLimbs when the result would exceed
// MaxLimbs words.
func (x Nat[W]) Pow(e uint64) (Nat[W], error) {
	one := NatFromWord(W(1))
	switch {
	case e == 0:
		return one, nil
	case x.IsZero() || x.Equal(one) || e == 1:
		return x.Clone(), nil
	}
	bl := uint64(x.BitLen())
	if e > math.MaxUint64/bl {
		return Nat[W]{}, fmt.Errorf("pow: %w", ErrMaxLimbs)
	}
	if err := checkLimbs(bl*e/uint64(word.Size[W]()) + 1); err != nil {
		return Nat[W]{}, fmt.Errorf("pow: %w", err)
	}

	result := one
	base := x
	for {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		e >>= 1
		if e == 0 {
			break
		}
		base = base.Mul(base)
	}
	return result, nil
}

// Sqrt returns the floor of the square root of x.
func (x Nat[W]) Sqrt() Nat[W] {
	one := NatFromWord(W(1))
	if x.Cmp(one) <= 0 {
		return x
	}
	// Newton iteration from a starting point at or above the root; it
	// decreases monotonically until it reaches the floor.
	z1 := one.Shl((x.BitLen() + 1) / 2)
	for {
		q, _ := x.divMod(z1)
		z2 := q.Add(z1).shr(1)
		if z2.Cmp(z1) >= 0 {
			return z1
		}
		z1 = z2
	}
}

// Gcd returns the greatest common divisor of x and y; Gcd(0, 0) = 0.
func (x Nat[W]) Gcd(y Nat[W]) Nat[W] {
	for !y.IsZero() {
		_, r := x.divMod(y)
		x, y = y, r
	}
	return x.Clone()
}
