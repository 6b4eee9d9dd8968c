package bignum

import (
	"precis/internal/limbs"
	"precis/internal/word"
)

// Bit reports whether bit i of x is set. Bits beyond BitLen are zero.
func (x Nat[W]) Bit(i uint) bool {
	if x.big == nil {
		return word.Bit(x.small, i)
	}
	return limbs.Bit(x.big, i)
}

// SetBit returns x with bit i set. A Natural is zero-extended without bound,
// so setting a bit beyond BitLen grows the value.
func (x Nat[W]) SetBit(i uint) Nat[W] {
	if x.big == nil && i < word.Size[W]() {
		return Nat[W]{small: x.small | W(1)<<i}
	}
	return natFrom(limbs.SetBit(nil, x.vec(), i, true))
}

// ClearBit returns x with bit i cleared. Clearing beyond BitLen is a no-op.
func (x Nat[W]) ClearBit(i uint) Nat[W] {
	if x.big == nil {
		return Nat[W]{small: word.ClearBit(x.small, i)}
	}
	if i >= limbs.BitLen(x.big) {
		return x.Clone()
	}
	return natFrom(limbs.SetBit(nil, x.big, i, false))
}

// FlipBit returns x with bit i inverted.
func (x Nat[W]) FlipBit(i uint) Nat[W] {
	if x.Bit(i) {
		return x.ClearBit(i)
	}
	return x.SetBit(i)
}

// SetBitAssign sets bit i of z.
func (z *Nat[W]) SetBitAssign(i uint) {
	if z.big == nil {
		*z = z.SetBit(i)
		return
	}
	z.set(limbs.SetBit(z.scratch(), z.big, i, true))
}

// ClearBitAssign clears bit i of z.
func (z *Nat[W]) ClearBitAssign(i uint) {
	if z.big == nil {
		*z = z.ClearBit(i)
		return
	}
	z.set(limbs.SetBit(z.scratch(), z.big, i, false))
}

// FlipBitAssign inverts bit i of z.
func (z *Nat[W]) FlipBitAssign(i uint) {
	if z.Bit(i) {
		z.ClearBitAssign(i)
		return
	}
	z.SetBitAssign(i)
}

// And returns x & y.
func (x Nat[W]) And(y Nat[W]) Nat[W] {
	if x.big == nil || y.big == nil {
		return Nat[W]{small: x.Word(0) & y.Word(0)}
	}
	return natFrom(limbs.And(nil, x.big, y.big))
}

// AndNot returns x &^ y.
func (x Nat[W]) AndNot(y Nat[W]) Nat[W] {
	if x.big == nil {
		return Nat[W]{small: x.small &^ y.Word(0)}
	}
	return natFrom(limbs.AndNot(nil, x.big, y.vec()))
}

// Or returns x | y.
func (x Nat[W]) Or(y Nat[W]) Nat[W] {
	if x.big == nil && y.big == nil {
		return Nat[W]{small: x.small | y.small}
	}
	return natFrom(limbs.Or(nil, x.vec(), y.vec()))
}

// Xor returns x ^ y.
func (x Nat[W]) Xor(y Nat[W]) Nat[W] {
	if x.big == nil && y.big == nil {
		return Nat[W]{small: x.small ^ y.small}
	}
	return natFrom(limbs.Xor(nil, x.vec(), y.vec()))
}
