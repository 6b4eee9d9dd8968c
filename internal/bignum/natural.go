package bignum

import (
	"fmt"
	"math"
	"slices"

	"fortio.org/safecast"

	"precis/internal/limbs"
	"precis/internal/word"
)

// Nat represents an unbounded non-negative integer as little-endian words of
// type W. A value that fits in one word is held inline without allocation;
// larger values are expanded into a word vector.
//
// The zero value is 0. Every non-Assign method returns a value with storage of
// its own. A Nat copied by assignment still shares its word vector with the
// source, and Assign methods write into that vector, so Clone a copy before
// calling an Assign method on it.
type Nat[W word.Word] struct {
	// small is the value when big is nil.
	small W
	// big holds at least two words and never has a most-significant zero.
	big []W
}

type (
	// Natural is a Nat with 64-bit words.
	Natural = Nat[uint64]
	// Natural32 is a Nat with 32-bit words.
	Natural32 = Nat[uint32]
)

// natFrom wraps v in canonical form, taking ownership of its storage.
func natFrom[W word.Word](v []W) Nat[W] {
	v = limbs.Norm(v)
	switch len(v) {
	case 0:
		return Nat[W]{}
	case 1:
		return Nat[W]{small: v[0]}
	}
	return Nat[W]{big: v}
}

// vec returns x as a normalized word vector. Inline values are copied into a
// fresh one-word slice, so the result may be handed to a kernel as scratch.
func (x Nat[W]) vec() []W {
	if x.big != nil {
		return x.big
	}
	if x.small == 0 {
		return nil
	}
	return []W{x.small}
}

// scratch returns storage an Assign method may reuse for its result.
func (z *Nat[W]) scratch() []W {
	if z.big != nil {
		return z.big[:0]
	}
	return nil
}

// set stores v in z in canonical form.
func (z *Nat[W]) set(v []W) {
	*z = natFrom(v)
}

// NatFromWord returns the Nat holding w.
func NatFromWord[W word.Word](w W) Nat[W] {
	return Nat[W]{small: w}
}

// NatFromUint64 returns the Nat holding u, split into as many words as W needs.
func NatFromUint64[W word.Word](u uint64) Nat[W] {
	if word.Size[W]() == 64 || u <= uint64(word.Max[W]()) {
		return Nat[W]{small: W(u)}
	}
	return Nat[W]{big: []W{W(u), W(u >> 32)}}
}

// NatFromWords returns the Nat whose little-endian words are ws. The input is
// copied and trimmed; leading zero words are allowed.
func NatFromWords[W word.Word](ws []W) Nat[W] {
	return natFrom(slices.Clone(limbs.Norm(ws)))
}

// Len returns the number of words in the canonical representation; 0 for zero.
func (x Nat[W]) Len() int {
	if x.big != nil {
		return len(x.big)
	}
	if x.small == 0 {
		return 0
	}
	return 1
}

// Word returns word i, least significant first. Words beyond Len are zero.
func (x Nat[W]) Word(i int) W {
	if x.big != nil {
		if i < len(x.big) {
			return x.big[i]
		}
		return 0
	}
	if i == 0 {
		return x.small
	}
	return 0
}

// Words returns a copy of the canonical little-endian words of x.
func (x Nat[W]) Words() []W {
	return slices.Clone(x.vec())
}

// IsInline reports whether x is stored without a word vector.
func (x Nat[W]) IsInline() bool { return x.big == nil }

// Clone returns a copy of x that shares no storage with it.
func (x Nat[W]) Clone() Nat[W] {
	if x.big == nil {
		return x
	}
	return Nat[W]{big: slices.Clone(x.big)}
}

// IsZero reports whether x == 0.
func (x Nat[W]) IsZero() bool {
	return x.big == nil && x.small == 0
}

// IsOdd reports whether x is odd.
func (x Nat[W]) IsOdd() bool {
	return x.Word(0)&1 == 1
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Nat[W]) Cmp(y Nat[W]) int {
	switch {
	case x.big == nil && y.big == nil:
		switch {
		case x.small < y.small:
			return -1
		case x.small > y.small:
			return 1
		}
		return 0
	case x.big == nil:
		return -1
	case y.big == nil:
		return 1
	}
	return limbs.Cmp(x.big, y.big)
}

// Equal reports whether x == y.
func (x Nat[W]) Equal(y Nat[W]) bool {
	return x.Cmp(y) == 0
}

// BitLen returns the number of bits needed to represent x; 0 for zero.
func (x Nat[W]) BitLen() uint {
	if x.big == nil {
		return word.Len(x.small)
	}
	return limbs.BitLen(x.big)
}

// TrailingZeros returns the number of trailing zero bits. ok is false for zero,
// which has no lowest set bit.
func (x Nat[W]) TrailingZeros() (n uint, ok bool) {
	if x.IsZero() {
		return 0, false
	}
	if x.big == nil {
		return word.TrailingZeros(x.small), true
	}
	return limbs.TrailingZeros(x.big), true
}

// LeadingZeros returns the number of zero bits above the highest set bit
// within the most significant word. Zero has no words and reports 0.
func (x Nat[W]) LeadingZeros() uint {
	if x.IsZero() {
		return 0
	}
	return uint(x.Len())*word.Size[W]() - x.BitLen() //nolint:gosec // G115: Len >= 0
}

// Uint64 returns x as a uint64 if it fits.
func (x Nat[W]) Uint64() (uint64, bool) {
	switch {
	case x.big == nil:
		return uint64(x.small), true
	case word.Size[W]() == 32 && len(x.big) == 2:
		return uint64(x.big[0]) | uint64(x.big[1])<<32, true
	}
	return 0, false
}

// Int64 returns x as an int64 if it fits.
func (x Nat[W]) Int64() (int64, bool) {
	u, ok := x.Uint64()
	if !ok {
		return 0, false
	}
	v, err := safecast.Conv[int64](u)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (x Nat[W]) addWord(w W) Nat[W] {
	if x.big == nil {
		s, c := word.Add(x.small, w, 0)
		if c == 0 {
			return Nat[W]{small: s}
		}
		return Nat[W]{big: []W{s, c}}
	}
	return natFrom(limbs.AddWord(nil, x.big, w))
}

// subOne returns x - 1 for x > 0.
func (x Nat[W]) subOne() Nat[W] {
	if x.big == nil {
		if x.small == 0 {
			panic("bignum: Natural subtraction underflow")
		}
		return Nat[W]{small: x.small - 1}
	}
	return natFrom(limbs.SubWord(nil, x.big, 1))
}

// Add returns x + y.
func (x Nat[W]) Add(y Nat[W]) Nat[W] {
	if y.big == nil {
		return x.addWord(y.small)
	}
	if x.big == nil {
		return y.addWord(x.small)
	}
	return natFrom(limbs.Add(nil, x.big, y.big))
}

// Sub returns x - y. It panics if x < y, since the difference is not a
// Natural; use CheckedSub when the ordering is not known.
func (x Nat[W]) Sub(y Nat[W]) Nat[W] {
	if x.Cmp(y) < 0 {
		panic("bignum: Natural subtraction underflow")
	}
	if x.big == nil {
		return Nat[W]{small: x.small - y.small}
	}
	return natFrom(limbs.Sub(nil, x.big, y.vec()))
}

// CheckedSub returns x - y, or ErrUnderflow if x < y.
func (x Nat[W]) CheckedSub(y Nat[W]) (Nat[W], error) {
	if x.Cmp(y) < 0 {
		return Nat[W]{}, ErrUnderflow
	}
	return x.Sub(y), nil
}

// Mul returns x * y.
func (x Nat[W]) Mul(y Nat[W]) Nat[W] {
	if x.big == nil && y.big == nil {
		hi, lo := word.Mul(x.small, y.small)
		if hi == 0 {
			return Nat[W]{small: lo}
		}
		return Nat[W]{big: []W{lo, hi}}
	}
	return natFrom(limbs.Mul(nil, x.vec(), y.vec()))
}

// AddMul returns x + a*b.
func (x Nat[W]) AddMul(a, b Nat[W]) Nat[W] {
	return x.Add(a.Mul(b))
}

// SubMul returns x - a*b. It panics if a*b > x.
func (x Nat[W]) SubMul(a, b Nat[W]) Nat[W] {
	return x.Sub(a.Mul(b))
}

// Shl returns x << n.
func (x Nat[W]) Shl(n uint) Nat[W] {
	if x.IsZero() || n == 0 {
		return x.Clone()
	}
	if x.big == nil && n < word.Size[W]() && word.LeadingZeros(x.small) >= n {
		return Nat[W]{small: x.small << n}
	}
	return natFrom(limbs.Shl(nil, x.vec(), n))
}

// shr returns x >> n, truncating.
func (x Nat[W]) shr(n uint) Nat[W] {
	if x.big == nil {
		if n >= word.Size[W]() {
			return Nat[W]{}
		}
		return Nat[W]{small: x.small >> n}
	}
	return natFrom(limbs.Shr(nil, x.big, n))
}

// AddAssign sets z = z + y.
func (z *Nat[W]) AddAssign(y Nat[W]) {
	if z.big == nil {
		*z = z.Add(y)
		return
	}
	z.set(limbs.Add(z.scratch(), z.big, y.vec()))
}

// SubAssign sets z = z - y. It panics, leaving z unchanged, if z < y.
func (z *Nat[W]) SubAssign(y Nat[W]) {
	if z.Cmp(y) < 0 {
		panic("bignum: Natural subtraction underflow")
	}
	if z.big == nil {
		z.small -= y.small
		return
	}
	z.set(limbs.Sub(z.scratch(), z.big, y.vec()))
}

// MulAssign sets z = z * y.
func (z *Nat[W]) MulAssign(y Nat[W]) {
	if z.big == nil {
		*z = z.Mul(y)
		return
	}
	z.set(limbs.Mul(z.scratch(), z.big, y.vec()))
}

// ShlAssign sets z = z << n.
func (z *Nat[W]) ShlAssign(n uint) {
	if z.big == nil {
		*z = z.Shl(n)
		return
	}
	z.set(limbs.Shl(z.scratch(), z.big, n))
}

func (x Nat[W]) String() string {
	return x.Text(10)
}

// checkLimbs reports ErrMaxLimbs when a result would need more than
// MaxLimbs words.
func checkLimbs(n uint64) error {
	if n > uint64(MaxLimbs) { //nolint:gosec // G115: MaxLimbs is positive
		return fmt.Errorf("%w: %d words", ErrMaxLimbs, n)
	}
	return nil
}

// CheckBits reports ErrMaxLimbs when a value bits long would need more than
// MaxLimbs words of type W.
func CheckBits[W word.Word](bits uint64) error {
	ws := uint64(word.Size[W]())
	n := bits / ws
	if bits%ws != 0 {
		n++
	}
	return checkLimbs(n)
}

// ShlChecked returns x << n, or ErrMaxLimbs when the result would need more
// than MaxLimbs words.
func (x Nat[W]) ShlChecked(n uint) (Nat[W], error) {
	if !x.IsZero() {
		bits := uint64(x.BitLen())
		if uint64(n) > math.MaxUint64-bits {
			return Nat[W]{}, fmt.Errorf("shl: %w", ErrMaxLimbs)
		}
		if err := CheckBits[W](bits + uint64(n)); err != nil {
			return Nat[W]{}, fmt.Errorf("shl: %w", err)
		}
	}
	return x.Shl(n), nil
}
