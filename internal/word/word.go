// Package word provides the fixed-width unsigned limb primitives the
// arbitrary-precision kernels are built on. Every function is generic over
// the limb width so the same kernel code serves 32- and 64-bit limbs.
package word

import "math/bits"

// Word is the set of limb types.
type Word interface {
	~uint32 | ~uint64
}

// Size returns the width of W in bits.
func Size[W Word]() uint {
	return uint(bits.Len64(uint64(^W(0))))
}

// Max returns the largest value of W.
func Max[W Word]() W {
	return ^W(0)
}

// Add returns x + y + carry and the outgoing carry. carry must be 0 or 1.
func Add[W Word](x, y, carry W) (sum, carryOut W) {
	sum = x + y + carry
	carryOut = ((x & y) | ((x | y) &^ sum)) >> (Size[W]() - 1)
	return sum, carryOut
}

// Sub returns x - y - borrow and the outgoing borrow. borrow must be 0 or 1.
func Sub[W Word](x, y, borrow W) (diff, borrowOut W) {
	diff = x - y - borrow
	borrowOut = ((^x & y) | (^(x ^ y) & diff)) >> (Size[W]() - 1)
	return diff, borrowOut
}

// Mul returns the double-width product x*y as (hi, lo).
func Mul[W Word](x, y W) (hi, lo W) {
	if Size[W]() == 64 {
		h, l := bits.Mul64(uint64(x), uint64(y))
		return W(h), W(l)
	}
	p := uint64(x) * uint64(y)
	return W(p >> 32), W(p)
}

// Div divides the double-width value (hi, lo) by y. It panics if hi >= y,
// since the quotient would not fit in one word.
func Div[W Word](hi, lo, y W) (q, r W) {
	if y == 0 {
		panic("word.Div: division by zero")
	}
	if hi >= y {
		panic("word.Div: quotient overflow")
	}
	if Size[W]() == 64 {
		qq, rr := bits.Div64(uint64(hi), uint64(lo), uint64(y))
		return W(qq), W(rr)
	}
	n := uint64(hi)<<32 | uint64(lo)
	return W(n / uint64(y)), W(n % uint64(y))
}

// Len returns the minimum number of bits needed to represent x.
func Len[W Word](x W) uint {
	return uint(bits.Len64(uint64(x)))
}

// LeadingZeros returns the number of leading zero bits in x; Size for x == 0.
func LeadingZeros[W Word](x W) uint {
	return Size[W]() - Len(x)
}

// TrailingZeros returns the number of trailing zero bits in x; Size for x == 0.
func TrailingZeros[W Word](x W) uint {
	if x == 0 {
		return Size[W]()
	}
	return uint(bits.TrailingZeros64(uint64(x)))
}

// OnesCount returns the number of one bits in x.
func OnesCount[W Word](x W) uint {
	return uint(bits.OnesCount64(uint64(x)))
}
