// Package limbs implements arithmetic on little-endian vectors of machine
// words. Vector primitives (the VV, VW and VU functions) operate on
// caller-provided slices of equal length. The remaining functions allocate as
// needed, accept a destination z whose storage they may reuse, and return
// normalized vectors: no most-significant zero words.
package limbs

import "precis/internal/word"

// AddVV sets z = x + y word-wise and returns the carry.
// len(x) and len(y) must be at least len(z).
func AddVV[W word.Word](z, x, y []W) (c W) {
	for i := range z {
		z[i], c = word.Add(x[i], y[i], c)
	}
	return c
}

// SubVV sets z = x - y word-wise and returns the borrow.
func SubVV[W word.Word](z, x, y []W) (c W) {
	for i := range z {
		z[i], c = word.Sub(x[i], y[i], c)
	}
	return c
}

// AddVW sets z = x + y and returns the carry.
func AddVW[W word.Word](z, x []W, y W) (c W) {
	c = y
	for i := range z {
		z[i], c = word.Add(x[i], c, 0)
	}
	return c
}

// SubVW sets z = x - y and returns the borrow.
func SubVW[W word.Word](z, x []W, y W) (c W) {
	c = y
	for i := range z {
		z[i], c = word.Sub(x[i], c, 0)
	}
	return c
}

// ShlVU sets z = x << s for 0 <= s < word size and returns the bits shifted
// out of the top word.
func ShlVU[W word.Word](z, x []W, s uint) (c W) {
	if s == 0 {
		copy(z, x)
		return 0
	}
	if len(z) == 0 {
		return 0
	}
	n := word.Size[W]()
	s &= n - 1
	ŝ := n - s
	c = x[len(z)-1] >> ŝ
	for i := len(z) - 1; i > 0; i-- {
		z[i] = x[i]<<s | x[i-1]>>ŝ
	}
	z[0] = x[0] << s
	return c
}

// ShrVU sets z = x >> s for 0 <= s < word size and returns the bits shifted
// out of the bottom word, left-aligned.
func ShrVU[W word.Word](z, x []W, s uint) (c W) {
	if s == 0 {
		copy(z, x)
		return 0
	}
	if len(z) == 0 {
		return 0
	}
	n := word.Size[W]()
	s &= n - 1
	ŝ := n - s
	c = x[0] << ŝ
	for i := 0; i < len(z)-1; i++ {
		z[i] = x[i]>>s | x[i+1]<<ŝ
	}
	z[len(z)-1] = x[len(z)-1] >> s
	return c
}

// MulAddVWW sets z = x*y + r and returns the high word.
func MulAddVWW[W word.Word](z, x []W, y, r W) (c W) {
	c = r
	for i := range z {
		hi, lo := word.Mul(x[i], y)
		var cc W
		z[i], cc = word.Add(lo, c, 0)
		c = hi + cc
	}
	return c
}

// AddMulVVW sets z += x*y and returns the high word.
func AddMulVVW[W word.Word](z, x []W, y W) (c W) {
	for i := range z {
		hi, lo := word.Mul(x[i], y)
		var cc W
		lo, cc = word.Add(lo, z[i], 0)
		hi += cc
		z[i], cc = word.Add(lo, c, 0)
		c = hi + cc
	}
	return c
}

// DivWVW sets z = (xn:x) / y and returns the remainder. xn must be less than y.
func DivWVW[W word.Word](z []W, xn W, x []W, y W) (r W) {
	r = xn
	for i := len(z) - 1; i >= 0; i-- {
		z[i], r = word.Div(r, x[i], y)
	}
	return r
}
