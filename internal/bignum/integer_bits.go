package bignum

import (
	"precis/internal/limbs"
	"precis/internal/word"
)

// The bitwise operations below treat an Int as an infinite two's-complement
// bit string: a non-negative value is its magnitude followed by zeros, and a
// negative value -m is ^(m-1), whose high bits are all ones. Only the finite
// part is ever computed, using identities such as -m = ^(m-1).

// Bit reports bit i of the two's-complement view of x. Beyond the stored
// width the result is the sign: false for non-negative x, true for negative.
func (x Int[W]) Bit(i uint) bool {
	if !x.neg {
		return x.abs.Bit(i)
	}
	return !x.abs.subOne().Bit(i)
}

// SetBit returns x with bit i set.
//
// On a non-negative value, setting a bit beyond the width grows the value.
// On a negative value those bits are already one, so it is a no-op.
func (x Int[W]) SetBit(i uint) Int[W] {
	if !x.neg {
		return Int[W]{abs: x.abs.SetBit(i)}
	}
	// bit i of -m is the complement of bit i of m-1
	t := x.abs.subOne().ClearBit(i)
	return IntFromNat(true, t.addWord(1))
}

// ClearBit returns x with bit i cleared.
//
// On a non-negative value, clearing beyond the width is a no-op. On a negative
// value it makes the value more negative.
func (x Int[W]) ClearBit(i uint) Int[W] {
	if !x.neg {
		return Int[W]{abs: x.abs.ClearBit(i)}
	}
	t := x.abs.subOne().SetBit(i)
	return IntFromNat(true, t.addWord(1))
}

// FlipBit returns x with bit i inverted.
func (x Int[W]) FlipBit(i uint) Int[W] {
	if x.Bit(i) {
		return x.ClearBit(i)
	}
	return x.SetBit(i)
}

// SetBitAssign sets bit i of z.
func (z *Int[W]) SetBitAssign(i uint) {
	if !z.neg {
		z.abs.SetBitAssign(i)
		return
	}
	*z = z.SetBit(i)
}

// ClearBitAssign clears bit i of z.
func (z *Int[W]) ClearBitAssign(i uint) {
	if !z.neg {
		z.abs.ClearBitAssign(i)
		return
	}
	*z = z.ClearBit(i)
}

// FlipBitAssign inverts bit i of z.
func (z *Int[W]) FlipBitAssign(i uint) {
	*z = z.FlipBit(i)
}

// And returns x & y.
func (x Int[W]) And(y Int[W]) Int[W] {
	if x.neg == y.neg {
		if x.neg {
			// (-x) & (-y) == ^(x-1) & ^(y-1) == ^((x-1) | (y-1)) == -(((x-1) | (y-1)) + 1)
			x1 := x.abs.subOne()
			y1 := y.abs.subOne()
			return IntFromNat(true, x1.Or(y1).addWord(1))
		}
		return Int[W]{abs: x.abs.And(y.abs)}
	}
	if x.neg {
		x, y = y, x
	}
	// x & (-y) == x & ^(y-1) == x &^ (y-1)
	y1 := y.abs.subOne()
	return Int[W]{abs: x.abs.AndNot(y1)}
}

// Or returns x | y.
func (x Int[W]) Or(y Int[W]) Int[W] {
	if x.neg == y.neg {
		if x.neg {
			// (-x) | (-y) == ^(x-1) | ^(y-1) == ^((x-1) & (y-1)) == -(((x-1) & (y-1)) + 1)
			x1 := x.abs.subOne()
			y1 := y.abs.subOne()
			return IntFromNat(true, x1.And(y1).addWord(1))
		}
		return Int[W]{abs: x.abs.Or(y.abs)}
	}
	if x.neg {
		x, y = y, x
	}
	// x | (-y) == x | ^(y-1) == ^((y-1) &^ x) == -(((y-1) &^ x) + 1)
	y1 := y.abs.subOne()
	return IntFromNat(true, y1.AndNot(x.abs).addWord(1))
}

// Xor returns x ^ y.
func (x Int[W]) Xor(y Int[W]) Int[W] {
	if x.neg == y.neg {
		if x.neg {
			// (-x) ^ (-y) == ^(x-1) ^ ^(y-1) == (x-1) ^ (y-1)
			x1 := x.abs.subOne()
			y1 := y.abs.subOne()
			return Int[W]{abs: x1.Xor(y1)}
		}
		return Int[W]{abs: x.abs.Xor(y.abs)}
	}
	if x.neg {
		x, y = y, x
	}
	// x ^ (-y) == x ^ ^(y-1) == ^(x ^ (y-1)) == -((x ^ (y-1)) + 1)
	y1 := y.abs.subOne()
	return IntFromNat(true, x.abs.Xor(y1).addWord(1))
}

// Not returns ^x, that is -x - 1.
func (x Int[W]) Not() Int[W] {
	if x.neg {
		return Int[W]{abs: x.abs.subOne()}
	}
	return Int[W]{neg: true, abs: x.abs.addWord(1)}
}

// TwosComplementWords returns the shortest little-endian two's-complement
// encoding of x whose top bit is the sign. Zero encodes as no words.
func (x Int[W]) TwosComplementWords() []W {
	ws := word.Size[W]()
	v := x.abs.Words()
	if !x.neg {
		if len(v) > 0 && v[len(v)-1]>>(ws-1) != 0 {
			v = append(v, 0)
		}
		return v
	}
	for i := range v {
		v[i] = ^v[i]
	}
	limbs.AddVW(v, v, 1)
	if v[len(v)-1]>>(ws-1) == 0 {
		v = append(v, word.Max[W]())
	}
	return v
}

// IntFromTwosComplementWords decodes a little-endian two's-complement word
// sequence; the top bit of the last word is the sign.
func IntFromTwosComplementWords[W word.Word](ws []W) Int[W] {
	if len(ws) == 0 {
		return Int[W]{}
	}
	if ws[len(ws)-1]>>(word.Size[W]()-1) == 0 {
		return Int[W]{abs: NatFromWords(ws)}
	}
	v := make([]W, len(ws))
	for i, w := range ws {
		v[i] = ^w
	}
	limbs.AddVW(v, v, 1)
	return IntFromNat(true, natFrom(v))
}
