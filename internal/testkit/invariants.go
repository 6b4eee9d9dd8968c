package testkit

import (
	"fmt"
	"math/big"

	"fortio.org/safecast"

	"precis/internal/bignum"
	"precis/internal/rounding"
	"precis/internal/word"
)

// CheckNat runs the representation invariants of a Nat:
// 1) an inline value spans at most one word
// 2) an expanded value spans at least two words and its top word is non-zero
// 3) BitLen agrees with the word count
func CheckNat[W word.Word](x bignum.Nat[W]) error {
	n := x.Len()
	if x.IsInline() && n > 1 {
		return fmt.Errorf("inline value reports %d words", n)
	}
	if !x.IsInline() {
		if n < 2 {
			return fmt.Errorf("expanded value with %d words", n)
		}
		if x.Word(n-1) == 0 {
			return fmt.Errorf("expanded value has a zero top word: %v", x.Words())
		}
	}
	un, err := safecast.Conv[uint](n)
	if err != nil {
		return fmt.Errorf("word count overflow: %w", err)
	}
	size := word.Size[W]()
	bl := x.BitLen()
	if n == 0 {
		if bl != 0 {
			return fmt.Errorf("zero reports bit length %d", bl)
		}
		return nil
	}
	if bl <= (un-1)*size || bl > un*size {
		return fmt.Errorf("bit length %d does not fit %d words of %d bits", bl, n, size)
	}
	return nil
}

// CheckInt runs the Nat invariants on the magnitude and rejects negative zero.
func CheckInt[W word.Word](x bignum.Int[W]) error {
	if x.IsZero() && x.IsNeg() {
		return fmt.Errorf("negative zero")
	}
	want := 0
	switch {
	case x.IsNeg():
		want = -1
	case !x.IsZero():
		want = 1
	}
	if x.Sign() != want {
		return fmt.Errorf("sign %d, want %d", x.Sign(), want)
	}
	if err := CheckNat(x.Abs()); err != nil {
		return fmt.Errorf("magnitude: %w", err)
	}
	return nil
}

// CheckQuotient verifies q as the result of rounding x/d with mode m, given
// the reported ordering o. It checks against math/big:
// 1) o is the sign of q*d - x
// 2) q is within one unit of the exact quotient
// 3) the direction matches the mode, with Nearest ties going to the even q
func CheckQuotient(x, d, q *big.Int, m rounding.Mode, o rounding.Ordering) error {
	if d.Sign() == 0 {
		return fmt.Errorf("zero divisor")
	}
	// diff = q*d - x, compared in units of |d|
	diff := new(big.Int).Mul(q, d)
	diff.Sub(diff, x)
	if d.Sign() < 0 {
		diff.Neg(diff)
	}
	ad := new(big.Int).Abs(d)

	if got := rounding.OrderingOf(diff.Sign()); got != o {
		return fmt.Errorf("ordering %v, want %v for %s / %s -> %s", o, got, x, d, q)
	}
	if new(big.Int).Abs(diff).Cmp(ad) >= 0 {
		return fmt.Errorf("quotient %s is not within one unit of %s / %s", q, x, d)
	}
	if diff.Sign() == 0 {
		return nil
	}
	// away reports whether q moved away from zero.
	away := (q.Sign() < 0) == (diff.Sign() < 0) && q.Sign() != 0
	switch m {
	case rounding.Down:
		if away {
			return fmt.Errorf("rounding down moved %s away from zero", q)
		}
	case rounding.Up:
		if !away {
			return fmt.Errorf("rounding up moved %s toward zero", q)
		}
	case rounding.Floor:
		if diff.Sign() > 0 {
			return fmt.Errorf("floor result %s exceeds %s / %s", q, x, d)
		}
	case rounding.Ceiling:
		if diff.Sign() < 0 {
			return fmt.Errorf("ceiling result %s is below %s / %s", q, x, d)
		}
	case rounding.Nearest:
		twice := new(big.Int).Lsh(new(big.Int).Abs(diff), 1)
		switch twice.Cmp(ad) {
		case 1:
			return fmt.Errorf("nearest result %s is more than half a unit off", q)
		case 0:
			if q.Bit(0) != 0 {
				return fmt.Errorf("nearest tie resolved to odd %s", q)
			}
		}
	case rounding.Exact:
		return fmt.Errorf("exact mode returned inexact %s", q)
	}
	return nil
}
