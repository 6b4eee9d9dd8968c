package limbs

import "precis/internal/word"

// And returns x & y.
func And[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	if m > n {
		m = n
	}
	z = Make(z, m)
	for i := 0; i < m; i++ {
		z[i] = x[i] & y[i]
	}
	return Norm(z)
}

// AndNot returns x &^ y.
func AndNot[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	if n > m {
		n = m
	}
	z = Make(z, m)
	for i := 0; i < n; i++ {
		z[i] = x[i] &^ y[i]
	}
	copy(z[n:m], x[n:m])
	return Norm(z)
}

// Or returns x | y.
func Or[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	s := x
	if m < n {
		n, m = m, n
		s = y
	}
	z = Make(z, m)
	for i := 0; i < n; i++ {
		z[i] = x[i] | y[i]
	}
	copy(z[n:m], s[n:m])
	return Norm(z)
}

// Xor returns x ^ y.
func Xor[W word.Word](z, x, y []W) []W {
	m, n := len(x), len(y)
	s := x
	if m < n {
		n, m = m, n
		s = y
	}
	z = Make(z, m)
	for i := 0; i < n; i++ {
		z[i] = x[i] ^ y[i]
	}
	copy(z[n:m], s[n:m])
	return Norm(z)
}
