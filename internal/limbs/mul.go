package limbs

import "precis/internal/word"

// basicMul multiplies x and y into z[0 : len(x)+len(y)], not normalized.
func basicMul[W word.Word](z, x, y []W) {
	clear(z[0 : len(x)+len(y)])
	for i, d := range y {
		if d != 0 {
			z[len(x)+i] = AddMulVVW(z[i:i+len(x)], x, d)
		}
	}
}

// karatsubaAdd adds x to z[0:n] and propagates the carry into z[n:n+n/2].
func karatsubaAdd[W word.Word](z, x []W, n int) {
	if c := AddVV(z[0:n], z, x); c != 0 {
		AddVW(z[n:n+n>>1], z[n:], c)
	}
}

func karatsubaSub[W word.Word](z, x []W, n int) {
	if c := SubVV(z[0:n], z, x); c != 0 {
		SubVW(z[n:n+n>>1], z[n:], c)
	}
}

// karatsuba multiplies x and y of equal length n into z[0:2n].
// len(z) must be at least 6n.
//
//	x = x1*b + x0, y = y1*b + y0
//	x*y = z2*b² + (z2 + z0 + (x1-x0)(y0-y1))*b + z0
func karatsuba[W word.Word](z, x, y []W) {
	n := len(y)
	if n&1 != 0 || n < KaratsubaThreshold || n < 2 {
		basicMul(z, x, y)
		return
	}

	n2 := n >> 1
	x1, x0 := x[n2:], x[0:n2]
	y1, y0 := y[n2:], y[0:n2]

	// z = [z2 copy|z0 copy| xd*yd | yd:xd | x1*y1 | x0*y0 ]
	karatsuba(z, x0, y0)
	karatsuba(z[n:], x1, y1)

	s := 1
	xd := z[2*n : 2*n+n2]
	if SubVV(xd, x1, x0) != 0 {
		s = -s
		SubVV(xd, x0, x1)
	}
	yd := z[2*n+n2 : 3*n]
	if SubVV(yd, y0, y1) != 0 {
		s = -s
		SubVV(yd, y1, y0)
	}

	p := z[n*3:]
	karatsuba(p, xd, yd)

	r := z[n*4:]
	copy(r, z[:n*2])

	karatsubaAdd(z[n2:], r, n)
	karatsubaAdd(z[n2:], r[n:], n)
	if s > 0 {
		karatsubaAdd(z[n2:], p, n)
	} else {
		karatsubaSub(z[n2:], p, n)
	}
}

// addAt implements z += x << (i words) without normalizing z.
func addAt[W word.Word](z, x []W, i int) {
	if n := len(x); n > 0 {
		if c := AddVV(z[i:i+n], z[i:], x); c != 0 {
			j := i + n
			if j < len(z) {
				AddVW(z[j:], z[j:], c)
			}
		}
	}
}

// karatsubaLen returns the largest k <= n of the form p<<i with p <= threshold.
func karatsubaLen(n, threshold int) int {
	i := uint(0)
	for n > threshold {
		n >>= 1
		i++
	}
	return n << i
}

// Mul returns x * y. Operands shorter than KaratsubaThreshold words use the
// schoolbook algorithm.
func Mul[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	switch {
	case m < n:
		return Mul(z, y, x)
	case m == 0 || n == 0:
		return z[:0]
	case n == 1:
		return MulAddWW(z, x, y[0], 0)
	}

	if alias(z, x) || alias(z, y) {
		z = nil
	}

	if n < KaratsubaThreshold {
		z = Make(z, m+n)
		basicMul(z, x, y)
		return Norm(z)
	}

	k := karatsubaLen(n, KaratsubaThreshold)
	x0 := x[0:k]
	y0 := y[0:k]
	z = Make(z, max(6*k, m+n))
	karatsuba(z, x0, y0)
	z = z[0 : m+n]
	clear(z[2*k:])

	// add the terms karatsuba skipped: x0*y1*b and xi*y0*b^i, xi*y1*b^(i+1)
	if k < n || m != n {
		var t []W
		x0 := Norm(x0)
		y1 := y[k:]
		t = Mul(t, x0, y1)
		addAt(z, t, k)

		y0 := Norm(y0)
		for i := k; i < len(x); i += k {
			xi := x[i:]
			if len(xi) > k {
				xi = xi[:k]
			}
			xi = Norm(xi)
			t = Mul(t, xi, y0)
			addAt(z, t, i)
			t = Mul(t, xi, y1)
			addAt(z, t, i+k)
		}
	}
	return Norm(z)
}

// MulBasic returns x * y using only the schoolbook algorithm.
func MulBasic[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	if m == 0 || n == 0 {
		return z[:0]
	}
	if alias(z, x) || alias(z, y) {
		z = nil
	}
	z = Make(z, m+n)
	basicMul(z, x, y)
	return Norm(z)
}
