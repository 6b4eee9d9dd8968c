package bignum

import (
	"encoding/binary"
	"math/big"

	"github.com/holiman/uint256"

	"precis/internal/word"
)

// Big returns x as a *big.Int.
func (x Nat[W]) Big() *big.Int {
	n := x.Len()
	if n == 0 {
		return new(big.Int)
	}
	wb := int(word.Size[W]() / 8)
	buf := make([]byte, n*wb)
	for i := range n {
		off := (n - 1 - i) * wb
		w := x.Word(i)
		if wb == 8 {
			binary.BigEndian.PutUint64(buf[off:], uint64(w))
		} else {
			binary.BigEndian.PutUint32(buf[off:], uint32(w))
		}
	}
	return new(big.Int).SetBytes(buf)
}

// NatFromBig converts a non-negative *big.Int. It fails with ErrUnderflow
// for negative input.
func NatFromBig[W word.Word](b *big.Int) (Nat[W], error) {
	if b.Sign() < 0 {
		return Nat[W]{}, ErrUnderflow
	}
	wb := int(word.Size[W]() / 8)
	be := b.Bytes()
	n := (len(be) + wb - 1) / wb
	if err := checkLimbs(uint64(n)); err != nil { //nolint:gosec // G115: n >= 0
		return Nat[W]{}, err
	}
	// left-pad to a whole number of words
	buf := make([]byte, n*wb)
	copy(buf[len(buf)-len(be):], be)
	v := make([]W, n)
	for i := range n {
		off := (n - 1 - i) * wb
		if wb == 8 {
			v[i] = W(binary.BigEndian.Uint64(buf[off:]))
		} else {
			v[i] = W(binary.BigEndian.Uint32(buf[off:]))
		}
	}
	return natFrom(v), nil
}

// Big returns x as a *big.Int.
func (x Int[W]) Big() *big.Int {
	b := x.abs.Big()
	if x.neg {
		b.Neg(b)
	}
	return b
}

// IntFromBig converts a *big.Int.
func IntFromBig[W word.Word](b *big.Int) (Int[W], error) {
	abs, err := NatFromBig[W](new(big.Int).Abs(b))
	if err != nil {
		return Int[W]{}, err
	}
	return IntFromNat(b.Sign() < 0, abs), nil
}

// ToUint256 converts x to a 256-bit word. ok is false when x does not fit.
func ToUint256(x Natural) (u *uint256.Int, ok bool) {
	if x.Len() > 4 {
		return nil, false
	}
	u = new(uint256.Int)
	for i := range x.Len() {
		u[i] = x.Word(i)
	}
	return u, true
}

// FromUint256 converts a 256-bit word to a Natural.
func FromUint256(u *uint256.Int) Natural {
	return NatFromWords(u[:])
}
