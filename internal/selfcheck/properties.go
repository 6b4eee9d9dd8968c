package selfcheck

import (
	"errors"
	"fmt"
	"math/big"

	"fortio.org/safecast"
	"github.com/holiman/uint256"

	"precis/internal/bignum"
	"precis/internal/limbs"
	"precis/internal/rounding"
	"precis/internal/testkit"
	"precis/internal/word"
)

// Property is one law checked over generated inputs at both word widths.
type Property struct {
	Name  string
	Doc   string
	Arity int
	// Long operands are wide enough to take the Karatsuba path.
	Long bool

	check32 func(*Input[uint32]) error
	check64 func(*Input[uint64]) error
}

var properties = []Property{
	{
		Name: "normalization", Doc: "every result is in canonical form", Arity: 2,
		check32: checkNormalization[uint32], check64: checkNormalization[uint64],
	},
	{
		Name: "additive-inverse", Doc: "(a+b)-b == a and a-a == 0", Arity: 2,
		check32: checkAdditiveInverse[uint32], check64: checkAdditiveInverse[uint64],
	},
	{
		Name: "div-round", Doc: "rounded quotients obey their mode and ordering", Arity: 2,
		check32: checkDivRound[uint32], check64: checkDivRound[uint64],
	},
	{
		Name: "ties-to-even", Doc: "nearest resolves exact halves to the even quotient", Arity: 2,
		check32: checkTiesToEven[uint32], check64: checkTiesToEven[uint64],
	},
	{
		Name: "bits-beyond-width", Doc: "bit access follows the infinite two's complement", Arity: 1,
		check32: checkBitsBeyondWidth[uint32], check64: checkBitsBeyondWidth[uint64],
	},
	{
		Name: "zero-sign", Doc: "zero is never negative", Arity: 2,
		check32: checkZeroSign[uint32], check64: checkZeroSign[uint64],
	},
	{
		Name: "karatsuba", Doc: "Karatsuba products match the schoolbook product", Arity: 2, Long: true,
		check32: checkKaratsuba[uint32], check64: checkKaratsuba[uint64],
	},
	{
		Name: "shr-round", Doc: "shr_round(a, n) == div_round(a, 2^n)", Arity: 1,
		check32: checkShrRound[uint32], check64: checkShrRound[uint64],
	},
	{
		Name: "bitwise", Doc: "and, or, xor and not match math/big", Arity: 2,
		check32: checkBitwise[uint32], check64: checkBitwise[uint64],
	},
	{
		Name: "text", Doc: "text output parses back to the same value", Arity: 1,
		check32: checkText[uint32], check64: checkText[uint64],
	},
	{
		Name: "uint256", Doc: "arithmetic mod 2^256 matches holiman/uint256", Arity: 2,
		check32: checkUint256[uint32], check64: checkUint256[uint64],
	},
}

// Properties returns every registered property in run order.
func Properties() []Property {
	return append([]Property(nil), properties...)
}

// Lookup finds a property by name.
func Lookup(name string) (Property, bool) {
	for _, p := range properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func sameBig(what string, got, want *big.Int) error {
	if got.Cmp(want) != 0 {
		return fmt.Errorf("%s = %s, want %s", what, got, want)
	}
	return nil
}

func checkNormalization[W word.Word](in *Input[W]) error {
	x, y := in.Ops[0], in.Ops[1]
	type named struct {
		name string
		v    bignum.Int[W]
	}
	results := []named{
		{"a+b", x.Add(y)},
		{"a-b", x.Sub(y)},
		{"a*b", x.Mul(y)},
		{"a<<s", x.Shl(in.Shift)},
		{"a&b", x.And(y)},
		{"a|b", x.Or(y)},
		{"a^b", x.Xor(y)},
		{"setbit", x.SetBit(in.Shift)},
		{"clearbit", x.ClearBit(in.Shift)},
	}
	if q, _, err := x.ShrRound(in.Shift, in.Mode); err == nil {
		results = append(results, named{"shr_round", q})
	}
	if q, _, err := x.DivRound(y, in.Mode); err == nil {
		results = append(results, named{"div_round", q})
	}
	for _, r := range results {
		if err := testkit.CheckInt(r.v); err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
	}

	a, b := x.Abs(), y.Abs()
	if a.Cmp(b) < 0 {
		a, b = b, a
	}
	for name, v := range map[string]bignum.Nat[W]{
		"|a|-|b|": a.Sub(b),
		"|a|&|b|": a.And(b),
		"|a|^|a|": a.Xor(a),
	} {
		if err := testkit.CheckNat(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func checkAdditiveInverse[W word.Word](in *Input[W]) error {
	x, y := in.Ops[0], in.Ops[1]
	if got := x.Add(y).Sub(y); !got.Equal(x) {
		return fmt.Errorf("(a+b)-b = %s, want %s", got, x)
	}
	if got := x.Sub(x); !got.IsZero() {
		return fmt.Errorf("a-a = %s", got)
	}
	a, b := x.Abs(), y.Abs()
	if got := a.Add(b).Sub(b); !got.Equal(a) {
		return fmt.Errorf("(|a|+|b|)-|b| = %s, want %s", got, a)
	}
	z := x.Clone()
	z.AddAssign(y)
	z.SubAssign(y)
	if !z.Equal(x) {
		return fmt.Errorf("in-place (a+b)-b = %s, want %s", z, x)
	}
	return nil
}

func checkDivRound[W word.Word](in *Input[W]) error {
	x, d := in.Ops[0], in.Ops[1]
	q, o, err := x.DivRound(d, in.Mode)
	if d.IsZero() {
		if !errors.Is(err, bignum.ErrDivByZero) {
			return fmt.Errorf("division by zero returned %v", err)
		}
		return nil
	}
	if in.Mode == rounding.Exact {
		divisible := x.DivisibleBy(d)
		if divisible != (err == nil) {
			return fmt.Errorf("exact division: divisible=%v err=%v", divisible, err)
		}
		if err != nil {
			if !errors.Is(err, rounding.ErrInexact) {
				return fmt.Errorf("exact division failed with %w", err)
			}
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return testkit.CheckQuotient(x.Big(), d.Big(), q.Big(), in.Mode, o)
}

// checkTiesToEven builds x = k*d ± d/2 for an even d so x/d is an exact
// half, then checks the rounded quotient.
func checkTiesToEven[W word.Word](in *Input[W]) error {
	k := in.Ops[0]
	halfAbs := in.Ops[1].Abs().Add(bignum.NatFromWord[W](1))
	half := bignum.IntFromNat(false, halfAbs)
	d := bignum.IntFromNat(false, halfAbs.Shl(1))
	x := k.Mul(d)
	if k.IsNeg() {
		x = x.Sub(half)
	} else {
		x = x.Add(half)
	}

	q, o, err := x.DivRound(d, rounding.Nearest)
	if err != nil {
		return fmt.Errorf("nearest: %w", err)
	}
	if q.Abs().IsOdd() {
		return fmt.Errorf("tie %s / %s rounded to odd %s", x, d, q)
	}
	if err := testkit.CheckQuotient(x.Big(), d.Big(), q.Big(), rounding.Nearest, o); err != nil {
		return err
	}
	if _, _, err := x.DivRound(d, rounding.Exact); !errors.Is(err, rounding.ErrInexact) {
		return fmt.Errorf("exact on a tie returned %v", err)
	}

	// the same tie through a shift: (2k+1) / 2
	odd := k.Shl(1).Add(bignum.IntFromInt64[W](1))
	s, _, err := odd.ShrRound(1, rounding.Nearest)
	if err != nil {
		return fmt.Errorf("shr_round nearest: %w", err)
	}
	if s.Abs().IsOdd() {
		return fmt.Errorf("shr_round tie %s >> 1 rounded to odd %s", odd, s)
	}
	return nil
}

func checkBitsBeyondWidth[W word.Word](in *Input[W]) error {
	x := in.Ops[0]
	i := x.Abs().BitLen() + in.Shift
	if x.Bit(i) != x.IsNeg() {
		return fmt.Errorf("bit %d of %s = %v", i, x, x.Bit(i))
	}

	j := in.Shift
	bj, err := safecast.Conv[int](j)
	if err != nil {
		return err
	}
	bx := x.Big()
	if x.Bit(j) != (bx.Bit(bj) == 1) {
		return fmt.Errorf("bit %d of %s = %v", j, x, x.Bit(j))
	}
	if err := sameBig("setbit", x.SetBit(j).Big(), new(big.Int).SetBit(bx, bj, 1)); err != nil {
		return err
	}
	if err := sameBig("clearbit", x.ClearBit(j).Big(), new(big.Int).SetBit(bx, bj, 0)); err != nil {
		return err
	}
	flip := new(big.Int).SetBit(bx, bj, bx.Bit(bj)^1)
	if err := sameBig("flipbit", x.FlipBit(j).Big(), flip); err != nil {
		return err
	}

	back := bignum.IntFromTwosComplementWords(x.TwosComplementWords())
	if !back.Equal(x) {
		return fmt.Errorf("two's complement round trip of %s gave %s", x, back)
	}
	return nil
}

func checkZeroSign[W word.Word](in *Input[W]) error {
	x, y := in.Ops[0], in.Ops[1]
	var zero bignum.Int[W]
	zeros := map[string]bignum.Int[W]{
		"a-a":       x.Sub(x),
		"-a+a":      x.Neg().Add(x),
		"a*0":       x.Mul(zero),
		"0*b":       zero.Mul(y),
		"-0":        zero.Neg(),
		"a&^a":      x.And(x.Not()),
		"a^a":       x.Xor(x),
		"-(0)":      bignum.IntFromNat(true, bignum.Nat[W]{}),
		"b<<s-b<<s": y.Shl(in.Shift).Sub(y.Shl(in.Shift)),
	}
	// |a| < 2^n, so truncating a >> n is always zero
	if q, _, err := x.ShrRound(x.Abs().BitLen()+in.Shift+1, rounding.Down); err == nil {
		zeros["a>>n"] = q
	} else {
		return fmt.Errorf("shr_round down: %w", err)
	}
	if !y.IsZero() {
		q, _, err := zero.DivRound(y, in.Mode)
		if err != nil {
			return fmt.Errorf("0 / b: %w", err)
		}
		zeros["0/b"] = q
	}
	for name, z := range zeros {
		if !z.IsZero() || z.IsNeg() || z.Sign() != 0 || z.String() != "0" {
			return fmt.Errorf("%s = %s (neg=%v)", name, z, z.IsNeg())
		}
	}
	return nil
}

func checkKaratsuba[W word.Word](in *Input[W]) error {
	a, b := in.Ops[0].Abs().Words(), in.Ops[1].Abs().Words()
	got := limbs.Mul(nil, a, b)
	want := limbs.MulBasic(nil, a, b)
	if limbs.Cmp(got, want) != 0 {
		return fmt.Errorf("karatsuba product of %d x %d words differs from schoolbook", len(a), len(b))
	}
	return sameBig("product", bignum.NatFromWords(got).Big(),
		new(big.Int).Mul(in.Ops[0].Abs().Big(), in.Ops[1].Abs().Big()))
}

func checkShrRound[W word.Word](in *Input[W]) error {
	x, n, m := in.Ops[0], in.Shift, in.Mode
	pow := bignum.IntFromInt64[W](1).Shl(n)
	q1, o1, err1 := x.ShrRound(n, m)
	q2, o2, err2 := x.DivRound(pow, m)
	if (err1 == nil) != (err2 == nil) {
		return fmt.Errorf("shr_round err=%v, div_round err=%v", err1, err2)
	}
	if err1 != nil {
		if !errors.Is(err1, rounding.ErrInexact) {
			return fmt.Errorf("shr_round failed with %w", err1)
		}
		return nil
	}
	if !q1.Equal(q2) || o1 != o2 {
		return fmt.Errorf("shr_round = (%s, %v), div_round = (%s, %v)", q1, o1, q2, o2)
	}

	a := x.Abs()
	n1, no1, nerr1 := a.ShrRound(n, m)
	n2, no2, nerr2 := a.DivRound(pow.Abs(), m)
	if (nerr1 == nil) != (nerr2 == nil) || (nerr1 == nil && (!n1.Equal(n2) || no1 != no2)) {
		return fmt.Errorf("natural shr_round = (%s, %v, %v), div_round = (%s, %v, %v)", n1, no1, nerr1, n2, no2, nerr2)
	}
	return nil
}

type bigCheck struct {
	name      string
	got, want *big.Int
}

func checkBitwise[W word.Word](in *Input[W]) error {
	x, y := in.Ops[0], in.Ops[1]
	bx, by := x.Big(), y.Big()
	a, b := x.Abs(), y.Abs()
	ba, bb := a.Big(), b.Big()
	for _, c := range []bigCheck{
		{"a&b", x.And(y).Big(), new(big.Int).And(bx, by)},
		{"a|b", x.Or(y).Big(), new(big.Int).Or(bx, by)},
		{"a^b", x.Xor(y).Big(), new(big.Int).Xor(bx, by)},
		{"^a", x.Not().Big(), new(big.Int).Not(bx)},
		{"|a|&|b|", a.And(b).Big(), new(big.Int).And(ba, bb)},
		{"|a|&^|b|", a.AndNot(b).Big(), new(big.Int).AndNot(ba, bb)},
		{"|a| or |b|", a.Or(b).Big(), new(big.Int).Or(ba, bb)},
		{"|a|^|b|", a.Xor(b).Big(), new(big.Int).Xor(ba, bb)},
	} {
		if err := sameBig(c.name, c.got, c.want); err != nil {
			return err
		}
	}
	return nil
}

func checkText[W word.Word](in *Input[W]) error {
	x := in.Ops[0]
	base := 2 + int(in.Shift%35)
	s := x.Text(base)
	back, err := bignum.ParseInt[W](s, base)
	if err != nil {
		return fmt.Errorf("parse %q base %d: %w", s, base, err)
	}
	if !back.Equal(x) {
		return fmt.Errorf("base %d round trip of %s gave %s", base, x, back)
	}
	if want := x.Big().Text(base); s != want {
		return fmt.Errorf("base %d text = %q, want %q", base, s, want)
	}
	return nil
}

var (
	mask256 = bignum.NatFromWords([]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)})
	two256  = bignum.NatFromWord[uint64](1).Shl(256)
)

// low256 returns |x| mod 2^256 with 64-bit words.
func low256[W word.Word](x bignum.Int[W]) (bignum.Natural, error) {
	n, err := bignum.NatFromBig[uint64](x.Abs().Big())
	if err != nil {
		return bignum.Natural{}, err
	}
	return n.And(mask256), nil
}

func checkUint256[W word.Word](in *Input[W]) error {
	a, err := low256(in.Ops[0])
	if err != nil {
		return err
	}
	b, err := low256(in.Ops[1])
	if err != nil {
		return err
	}
	ua, ok := bignum.ToUint256(a)
	if !ok {
		return fmt.Errorf("ToUint256(%s) does not fit", a)
	}
	ub, ok := bignum.ToUint256(b)
	if !ok {
		return fmt.Errorf("ToUint256(%s) does not fit", b)
	}
	if back := bignum.FromUint256(ua); !back.Equal(a) {
		return fmt.Errorf("FromUint256(ToUint256(a)) = %s, want %s", back, a)
	}

	tests := []struct {
		name string
		got  bignum.Natural
		want *uint256.Int
	}{
		{"a+b", a.Add(b), new(uint256.Int).Add(ua, ub)},
		{"a-b", a.Add(two256).Sub(b), new(uint256.Int).Sub(ua, ub)},
		{"a*b", a.Mul(b), new(uint256.Int).Mul(ua, ub)},
		{"a&b", a.And(b), new(uint256.Int).And(ua, ub)},
		{"a|b", a.Or(b), new(uint256.Int).Or(ua, ub)},
		{"a^b", a.Xor(b), new(uint256.Int).Xor(ua, ub)},
	}
	for _, tt := range tests {
		got, ok := bignum.ToUint256(tt.got.And(mask256))
		if !ok {
			return fmt.Errorf("%s: masked result does not fit 256 bits", tt.name)
		}
		if !got.Eq(tt.want) {
			return fmt.Errorf("%s mod 2^256 = %s, uint256 gives %s", tt.name, got.Hex(), tt.want.Hex())
		}
	}
	return nil
}
