package limbs

import "precis/internal/word"

// DivW returns q = x / y and r = x % y. It panics if y == 0.
func DivW[W word.Word](z, x []W, y W) (q []W, r W) {
	m := len(x)
	switch {
	case y == 0:
		panic("limbs.DivW: division by zero")
	case y == 1:
		q = Set(z, x)
		return q, 0
	case m == 0:
		return z[:0], 0
	}
	z = Make(z, m)
	r = DivWVW(z, 0, x, y)
	return Norm(z), r
}

// ModW returns x % y without producing the quotient.
func ModW[W word.Word](x []W, y W) (r W) {
	if y == 0 {
		panic("limbs.ModW: division by zero")
	}
	for i := len(x) - 1; i >= 0; i-- {
		_, r = word.Div(r, x[i], y)
	}
	return r
}

// DivMod returns q = u / v and r = u % v for normalized u and v. It panics
// if v is empty (zero).
func DivMod[W word.Word](z, u, v []W) (q, r []W) {
	if len(v) == 0 {
		panic("limbs.DivMod: division by zero")
	}
	if Cmp(u, v) < 0 {
		q = z[:0]
		r = Set(nil, u)
		return q, r
	}
	if len(v) == 1 {
		var rw W
		q, rw = DivW(z, u, v[0])
		r = SetWord(nil, rw)
		return q, r
	}
	return divLarge(z, u, v)
}

func greaterThan[W word.Word](x1, x2, y1, y2 W) bool {
	return x1 > y1 || x1 == y1 && x2 > y2
}

// divLarge is Knuth's Algorithm D (TAOCP vol. 2, 4.3.1) for len(v) >= 2 and
// u >= v.
func divLarge[W word.Word](z, uIn, v []W) (q, r []W) {
	n := len(v)
	m := len(uIn) - n

	if alias(z, uIn) || alias(z, v) {
		z = nil
	}
	q = Make(z, m+1)
	qhatv := make([]W, n+1)
	u := make([]W, len(uIn)+1)

	// D1: normalize so the top bit of the divisor is set. v is copied so the
	// caller's operand is never modified.
	shift := word.LeadingZeros(v[n-1])
	if shift > 0 {
		v1 := make([]W, n)
		ShlVU(v1, v, shift)
		v = v1
	}
	u[len(uIn)] = ShlVU(u[0:len(uIn)], uIn, shift)

	// D2
	vn1 := v[n-1]
	for j := m; j >= 0; j-- {
		// D3: estimate qhat from the top two words of the current remainder
		qhat := word.Max[W]()
		if ujn := u[j+n]; ujn != vn1 {
			var rhat W
			qhat, rhat = word.Div(ujn, u[j+n-1], vn1)

			vn2 := v[n-2]
			x1, x2 := word.Mul(qhat, vn2)
			ujn2 := u[j+n-2]
			for greaterThan(x1, x2, rhat, ujn2) {
				qhat--
				prevRhat := rhat
				rhat += vn1
				if rhat < prevRhat {
					break
				}
				x1, x2 = word.Mul(qhat, vn2)
			}
		}

		// D4: multiply and subtract; D6 adds back when qhat was one too large
		qhatv[n] = MulAddVWW(qhatv[0:n], v, qhat, 0)
		c := SubVV(u[j:j+len(qhatv)], u[j:], qhatv)
		if c != 0 {
			c := AddVV(u[j:j+n], u[j:], v)
			u[j+n] += c
			qhat--
		}
		q[j] = qhat
	}

	q = Norm(q)
	ShrVU(u, u, shift)
	r = Norm(u)
	return q, r
}
