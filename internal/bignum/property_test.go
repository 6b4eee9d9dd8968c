package bignum_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"precis/internal/bignum"
	"precis/internal/rounding"
	"precis/internal/testkit"
)

// natGen draws words from a mix of dense, sparse and saturated patterns so
// carries and borrows cross word boundaries often.
func natGen() *rapid.Generator[bignum.Natural] {
	return rapid.Custom(func(t *rapid.T) bignum.Natural {
		n := rapid.IntRange(0, 6).Draw(t, "words")
		ws := make([]uint64, n)
		for i := range ws {
			ws[i] = rapid.OneOf(
				rapid.Uint64(),
				rapid.SampledFrom([]uint64{0, 1, 1 << 63, ^uint64(0)}),
			).Draw(t, "word")
		}
		return bignum.NatFromWords(ws)
	})
}

func nat32Gen() *rapid.Generator[bignum.Natural32] {
	return rapid.Custom(func(t *rapid.T) bignum.Natural32 {
		ws := rapid.SliceOfN(rapid.OneOf(
			rapid.Uint32(),
			rapid.SampledFrom([]uint32{0, 1, 1 << 31, ^uint32(0)}),
		), 0, 10).Draw(t, "words")
		return bignum.NatFromWords(ws)
	})
}

func intGen() *rapid.Generator[bignum.Integer32] {
	return rapid.Custom(func(t *rapid.T) bignum.Integer32 {
		return bignum.IntFromNat(rapid.Bool().Draw(t, "neg"), nat32Gen().Draw(t, "abs"))
	})
}

func modeGen() *rapid.Generator[rounding.Mode] {
	return rapid.SampledFrom(rounding.Modes())
}

func TestPropertyNormalization(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := natGen().Draw(t, "a")
		b := natGen().Draw(t, "b")
		require.NoError(t, testkit.CheckNat(a))
		require.NoError(t, testkit.CheckNat(a.Add(b)))
		require.NoError(t, testkit.CheckNat(a.Mul(b)))
		if a.Cmp(b) >= 0 {
			require.NoError(t, testkit.CheckNat(a.Sub(b)))
		}
		s := rapid.UintRange(0, 200).Draw(t, "shift")
		require.NoError(t, testkit.CheckNat(a.Shl(s)))
		q, _, err := a.ShrRound(s, modeGen().Draw(t, "mode"))
		if err == nil {
			require.NoError(t, testkit.CheckNat(q))
		}
	})
}

func TestPropertyAdditiveInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := nat32Gen().Draw(t, "a")
		b := nat32Gen().Draw(t, "b")
		require.True(t, a.Add(b).Sub(b).Equal(a), "(a+b)-b != a for a=%s b=%s", a, b)

		x := intGen().Draw(t, "x")
		y := intGen().Draw(t, "y")
		require.True(t, x.Add(y).Sub(y).Equal(x))
		require.True(t, x.Sub(x).IsZero())
		require.NoError(t, testkit.CheckInt(x.Add(y)))
		require.NoError(t, testkit.CheckInt(x.Mul(y)))
	})
}

func TestPropertyArithmeticMatchesBig(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := intGen().Draw(t, "x")
		y := intGen().Draw(t, "y")
		bx, by := x.Big(), y.Big()
		require.Zero(t, x.Add(y).Big().Cmp(new(big.Int).Add(bx, by)))
		require.Zero(t, x.Sub(y).Big().Cmp(new(big.Int).Sub(bx, by)))
		require.Zero(t, x.Mul(y).Big().Cmp(new(big.Int).Mul(bx, by)))
		require.Zero(t, x.And(y).Big().Cmp(new(big.Int).And(bx, by)))
		require.Zero(t, x.Or(y).Big().Cmp(new(big.Int).Or(bx, by)))
		require.Zero(t, x.Xor(y).Big().Cmp(new(big.Int).Xor(bx, by)))
		require.Equal(t, bx.Cmp(by), x.Cmp(y))
	})
}

func TestPropertyDivRound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := intGen().Draw(t, "x")
		d := intGen().Draw(t, "d")
		m := modeGen().Draw(t, "mode")
		q, o, err := x.DivRound(d, m)
		if d.IsZero() {
			require.ErrorIs(t, err, bignum.ErrDivByZero)
			return
		}
		if err != nil {
			require.Equal(t, rounding.Exact, m)
			require.ErrorIs(t, err, rounding.ErrInexact)
			require.False(t, x.DivisibleBy(d))
			return
		}
		require.NoError(t, testkit.CheckInt(q))
		require.NoError(t, testkit.CheckQuotient(x.Big(), d.Big(), q.Big(), m, o))
	})
}

func TestPropertyShrRoundIsDivByPow2(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := intGen().Draw(t, "x")
		n := rapid.UintRange(0, 400).Draw(t, "n")
		m := modeGen().Draw(t, "mode")
		q1, o1, err1 := x.ShrRound(n, m)
		q2, o2, err2 := x.DivRound(bignum.IntFromInt64[uint32](1).Shl(n), m)
		require.Equal(t, err1 == nil, err2 == nil)
		if err1 != nil {
			require.True(t, errors.Is(err1, rounding.ErrInexact))
			return
		}
		require.True(t, q1.Equal(q2), "ShrRound=%s DivRound=%s", q1, q2)
		require.Equal(t, o2, o1)
	})
}

func TestPropertyBitsBeyondWidthAreSign(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := intGen().Draw(t, "x")
		extra := rapid.UintRange(0, 500).Draw(t, "extra")
		i := x.Abs().BitLen() + 1 + extra
		require.Equal(t, x.IsNeg(), x.Bit(i))

		j := rapid.UintRange(0, 400).Draw(t, "j")
		require.Equal(t, x.Big().Bit(int(j)) == 1, x.Bit(j))
		require.Zero(t, x.SetBit(j).Big().Cmp(new(big.Int).SetBit(x.Big(), int(j), 1)))
		require.Zero(t, x.ClearBit(j).Big().Cmp(new(big.Int).SetBit(x.Big(), int(j), 0)))
		require.NoError(t, testkit.CheckInt(x.ClearBit(j)))
	})
}

func TestPropertyTextRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := intGen().Draw(t, "x")
		base := rapid.IntRange(2, 36).Draw(t, "base")
		back, err := bignum.ParseInt[uint32](x.Text(base), base)
		require.NoError(t, err)
		require.True(t, back.Equal(x))
	})
}

func TestPropertyWidthsAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := natGen().Draw(t, "a")
		b := natGen().Draw(t, "b")
		a32, err := bignum.NatFromBig[uint32](a.Big())
		require.NoError(t, err)
		b32, err := bignum.NatFromBig[uint32](b.Big())
		require.NoError(t, err)
		require.Equal(t, a.Mul(b).String(), a32.Mul(b32).String())
		if !b.IsZero() {
			q, r, err := a.DivMod(b)
			require.NoError(t, err)
			q32, r32, err := a32.DivMod(b32)
			require.NoError(t, err)
			require.Equal(t, q.String(), q32.String())
			require.Equal(t, r.String(), r32.String())
		}
	})
}
