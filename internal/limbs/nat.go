package limbs

import "precis/internal/word"

// KaratsubaThreshold is the operand length in words at or above which Mul
// switches from schoolbook multiplication to Karatsuba. It must be at least 2.
var KaratsubaThreshold = 40

// Norm returns x without its most-significant zero words.
func Norm[W word.Word](x []W) []W {
	i := len(x)
	for i > 0 && x[i-1] == 0 {
		i--
	}
	return x[0:i]
}

// Make returns a slice of length n, reusing z's storage when it is large
// enough.
func Make[W word.Word](z []W, n int) []W {
	if n <= cap(z) {
		return z[:n]
	}
	if n == 1 {
		return make([]W, 1)
	}
	// extra capacity for the common case of a following carry word
	const e = 4
	return make([]W, n, n+e)
}

// Set copies x into z.
func Set[W word.Word](z, x []W) []W {
	z = Make(z, len(x))
	copy(z, x)
	return z
}

// SetWord sets z to the single word w.
func SetWord[W word.Word](z []W, w W) []W {
	if w == 0 {
		return z[:0]
	}
	z = Make(z, 1)
	z[0] = w
	return z
}

// Cmp compares normalized x and y and returns -1, 0 or +1.
func Cmp[W word.Word](x, y []W) int {
	m, n := len(x), len(y)
	if m != n {
		if m < n {
			return -1
		}
		return 1
	}
	i := m - 1
	for i >= 0 && x[i] == y[i] {
		i--
	}
	switch {
	case i < 0:
		return 0
	case x[i] < y[i]:
		return -1
	default:
		return 1
	}
}

// Add returns x + y.
func Add[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	switch {
	case m < n:
		return Add(z, y, x)
	case m == 0:
		return z[:0]
	case n == 0:
		return Set(z, x)
	}

	z = Make(z, m+1)
	c := AddVV(z[0:n], x, y)
	if m > n {
		c = AddVW(z[n:m], x[n:], c)
	}
	z[m] = c
	return Norm(z)
}

// AddWord returns x + y.
func AddWord[W word.Word](z, x []W, y W) []W {
	m := len(x)
	if m == 0 {
		return SetWord(z, y)
	}
	z = Make(z, m+1)
	z[m] = AddVW(z[0:m], x, y)
	return Norm(z)
}

// Sub returns x - y. It panics if x < y.
func Sub[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	switch {
	case m < n:
		panic("limbs.Sub: underflow")
	case m == 0:
		return z[:0]
	case n == 0:
		return Set(z, x)
	}

	z = Make(z, m)
	c := SubVV(z[0:n], x, y)
	if m > n {
		c = SubVW(z[n:], x[n:], c)
	}
	if c != 0 {
		panic("limbs.Sub: underflow")
	}
	return Norm(z)
}

// SubWord returns x - y. It panics if x < y.
func SubWord[W word.Word](z, x []W, y W) []W {
	m := len(x)
	if m == 0 {
		if y != 0 {
			panic("limbs.SubWord: underflow")
		}
		return z[:0]
	}
	z = Make(z, m)
	if SubVW(z, x, y) != 0 {
		panic("limbs.SubWord: underflow")
	}
	return Norm(z)
}

// MulAddWW returns x*y + r.
func MulAddWW[W word.Word](z, x []W, y, r W) []W {
	m := len(x)
	if m == 0 || y == 0 {
		return SetWord(z, r)
	}
	z = Make(z, m+1)
	z[m] = MulAddVWW(z[0:m], x, y, r)
	return Norm(z)
}

// alias reports whether x and y share the same base array.
func alias[W word.Word](x, y []W) bool {
	return cap(x) > 0 && cap(y) > 0 && &x[0:cap(x)][cap(x)-1] == &y[0:cap(y)][cap(y)-1]
}

// Shl returns x << s.
func Shl[W word.Word](z, x []W, s uint) []W {
	m := len(x)
	if m == 0 {
		return z[:0]
	}
	if s == 0 {
		return Set(z, x)
	}
	ws := word.Size[W]()
	n := m + int(s/ws) //nolint:gosec // G115: s/ws is far below MaxInt
	z = Make(z, n+1)
	z[n] = ShlVU(z[n-m:n], x, s%ws)
	clear(z[0 : n-m])
	return Norm(z)
}

// Shr returns x >> s, discarding the shifted-out bits.
func Shr[W word.Word](z, x []W, s uint) []W {
	m := len(x)
	ws := word.Size[W]()
	q := s / ws
	if q >= uint(m) {
		return z[:0]
	}
	n := m - int(q) //nolint:gosec // G115: q < m
	z = Make(z, n)
	ShrVU(z, x[m-n:], s%ws)
	return Norm(z)
}

// BitLen returns the length of x in bits.
func BitLen[W word.Word](x []W) uint {
	if i := len(x) - 1; i >= 0 {
		return uint(i)*word.Size[W]() + word.Len(x[i]) //nolint:gosec // G115: i >= 0
	}
	return 0
}

// TrailingZeros returns the number of consecutive low zero bits of x; 0 for x == 0.
func TrailingZeros[W word.Word](x []W) uint {
	for i, w := range x {
		if w != 0 {
			return uint(i)*word.Size[W]() + word.TrailingZeros(w) //nolint:gosec // G115: i >= 0
		}
	}
	return 0
}

// Bit returns bit i of x.
func Bit[W word.Word](x []W, i uint) bool {
	ws := word.Size[W]()
	j := i / ws
	if j >= uint(len(x)) {
		return false
	}
	return x[j]>>(i%ws)&1 != 0
}

// Sticky reports whether any of the low n bits of x is set.
func Sticky[W word.Word](x []W, n uint) bool {
	ws := word.Size[W]()
	j := n / ws
	if j >= uint(len(x)) {
		return len(Norm(x)) > 0
	}
	for _, w := range x[:j] {
		if w != 0 {
			return true
		}
	}
	return x[j]<<(ws-n%ws) != 0
}

// SetBit returns x with bit i set to b (0 or 1).
func SetBit[W word.Word](z, x []W, i uint, b bool) []W {
	ws := word.Size[W]()
	j := int(i / ws) //nolint:gosec // G115: bit index bounded by memory
	m := W(1) << (i % ws)
	n := len(x)
	if !b {
		z = Set(z, x)
		if j >= n {
			return z
		}
		z[j] &^= m
		return Norm(z)
	}
	if j < n {
		z = Set(z, x)
		z[j] |= m
		return z
	}
	z = Make(z, j+1)
	copy(z, x)
	clear(z[n:])
	z[j] |= m
	return z
}
