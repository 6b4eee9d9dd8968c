package word

import "fmt"

// Signed is the set of fixed-width signed integers with bit access.
type Signed interface {
	~int32 | ~int64
}

func signedSize[S Signed]() uint {
	var x S
	x = ^x // -1
	n := uint(0)
	for x != 0 {
		x <<= 1
		n++
	}
	return n
}

// Bit reports whether bit i of x is set. Bits beyond the width are false.
func Bit[W Word](x W, i uint) bool {
	return i < Size[W]() && x&(W(1)<<i) != 0
}

// SetBit returns x with bit i set. Setting a bit beyond the width panics.
func SetBit[W Word](x W, i uint) W {
	if i >= Size[W]() {
		panic(fmt.Sprintf("word.SetBit: cannot set bit %d in value of width %d", i, Size[W]()))
	}
	return x | W(1)<<i
}

// ClearBit returns x with bit i cleared. Bits beyond the width are already
// zero, so clearing them does nothing.
func ClearBit[W Word](x W, i uint) W {
	if i >= Size[W]() {
		return x
	}
	return x &^ (W(1) << i)
}

// FlipBit returns x with bit i inverted. Flipping a bit beyond the width panics.
func FlipBit[W Word](x W, i uint) W {
	if i >= Size[W]() {
		panic(fmt.Sprintf("word.FlipBit: cannot flip bit %d in value of width %d", i, Size[W]()))
	}
	return x ^ W(1)<<i
}

// SignedBit reports bit i of the two's-complement representation of x,
// sign-extended beyond the width.
func SignedBit[S Signed](x S, i uint) bool {
	if i >= signedSize[S]() {
		return x < 0
	}
	return x&(S(1)<<i) != 0
}

// SetSignedBit returns x with bit i set.
//
// Bits at or above the sign bit are already one for negative values, so the
// call is a no-op there. For a non-negative value it panics, since the result
// would turn negative.
func SetSignedBit[S Signed](x S, i uint) S {
	w := signedSize[S]()
	if i < w-1 {
		return x | S(1)<<i
	}
	if x < 0 {
		return x
	}
	panic(fmt.Sprintf("word.SetSignedBit: cannot set bit %d in non-negative value of width %d", i, w))
}

// ClearSignedBit returns x with bit i cleared. It mirrors SetSignedBit: a
// no-op at or above the sign bit of a non-negative value, and a panic for a
// negative one.
func ClearSignedBit[S Signed](x S, i uint) S {
	w := signedSize[S]()
	if i < w-1 {
		return x &^ (S(1) << i)
	}
	if x >= 0 {
		return x
	}
	panic(fmt.Sprintf("word.ClearSignedBit: cannot clear bit %d in negative value of width %d", i, w))
}
