package bignum

import "precis/internal/rounding"

// DivRound returns x / d rounded according to m, and how the returned
// quotient relates to the exact one.
//
// The magnitude of a negative quotient is rounded with m.Neg(), so Floor
// and Ceiling keep their meaning relative to the number line, and the
// reported ordering is flipped back to the signed result.
func (x Int[W]) DivRound(d Int[W], m rounding.Mode) (Int[W], rounding.Ordering, error) {
	neg := x.neg != d.neg
	mm := m
	if neg {
		mm = m.Neg()
	}
	q, o, err := x.abs.DivRound(d.abs, mm)
	if err != nil {
		return Int[W]{}, rounding.Equal, err
	}
	if neg {
		o = o.Reverse()
	}
	return IntFromNat(neg, q), o, nil
}

// DivRoundAssign sets z = z / d rounded according to m. On error z is
// unchanged.
func (z *Int[W]) DivRoundAssign(d Int[W], m rounding.Mode) (rounding.Ordering, error) {
	q, o, err := z.DivRound(d, m)
	if err != nil {
		return rounding.Equal, err
	}
	*z = q
	return o, nil
}

// divModWith returns q = x / d rounded by m and r = x - q*d.
func (x Int[W]) divModWith(d Int[W], m rounding.Mode) (q, r Int[W], err error) {
	q, _, err = x.DivRound(d, m)
	if err != nil {
		return Int[W]{}, Int[W]{}, err
	}
	return q, x.Sub(q.Mul(d)), nil
}

// DivMod returns the floored quotient and the remainder, which has the sign
// of d.
func (x Int[W]) DivMod(d Int[W]) (q, r Int[W], err error) {
	return x.divModWith(d, rounding.Floor)
}

// DivRem returns the truncated quotient and the remainder, which has the sign
// of x.
func (x Int[W]) DivRem(d Int[W]) (q, r Int[W], err error) {
	return x.divModWith(d, rounding.Down)
}

// CeilDivMod returns the ceiling quotient and the remainder, which has the
// opposite sign of d.
func (x Int[W]) CeilDivMod(d Int[W]) (q, r Int[W], err error) {
	return x.divModWith(d, rounding.Ceiling)
}

// DivisibleBy reports whether x is a multiple of d.
func (x Int[W]) DivisibleBy(d Int[W]) bool {
	return x.abs.DivisibleBy(d.abs)
}

// RoundToMultiple rounds x to a multiple of d according to m. Only the
// magnitude of d matters.
func (x Int[W]) RoundToMultiple(d Int[W], m rounding.Mode) (Int[W], rounding.Ordering, error) {
	mm := m
	if x.neg {
		mm = m.Neg()
	}
	r, o, err := x.abs.RoundToMultiple(d.abs, mm)
	if err != nil {
		return Int[W]{}, rounding.Equal, err
	}
	if x.neg {
		o = o.Reverse()
	}
	return IntFromNat(x.neg, r), o, nil
}
