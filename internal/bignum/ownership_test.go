package bignum

import (
	"errors"
	"testing"

	"precis/internal/rounding"
)

// Each result is produced by a pure method on an Expanded value, then mutated
// in place. The receiver must keep its value.
func TestPureResultsOwnTheirStorage(t *testing.T) {
	x := NatFromWords([]uint64{5, 7, 9})
	want := x.Clone()

	shr := func(n Natural) Natural {
		q, _, err := n.ShrRound(0, rounding.Nearest)
		if err != nil {
			t.Fatalf("ShrRound: %v", err)
		}
		return q
	}
	pow := func(n Natural) Natural {
		p, err := n.Pow(1)
		if err != nil {
			t.Fatalf("Pow: %v", err)
		}
		return p
	}
	pow2 := func(n Natural) Natural {
		r, _, err := n.RoundToMultipleOfPow2(0, rounding.Floor)
		if err != nil {
			t.Fatalf("RoundToMultipleOfPow2: %v", err)
		}
		return r
	}
	tests := []struct {
		name string
		f    func(Natural) Natural
	}{
		{"Shl(0)", func(n Natural) Natural { return n.Shl(0) }},
		{"ShrRound(0)", shr},
		{"Pow(1)", pow},
		{"RoundToMultipleOfPow2(0)", pow2},
		{"ClearBit beyond length", func(n Natural) Natural { return n.ClearBit(500) }},
		{"FlipBit of a clear bit above", func(n Natural) Natural { return n.FlipBit(300).ClearBit(300) }},
		{"Gcd(0)", func(n Natural) Natural { return n.Gcd(Natural{}) }},
		{"zero Gcd", func(n Natural) Natural { return Natural{}.Gcd(n) }},
		{"Add(0)", func(n Natural) Natural { return n.Add(Natural{}) }},
		{"Sub(0)", func(n Natural) Natural { return n.Sub(Natural{}) }},
	}
	for _, tt := range tests {
		y := tt.f(x)
		y.SubAssign(NatFromWord[uint64](1))
		y.SetBitAssign(1)
		y.ShlAssign(0)
		if !x.Equal(want) {
			t.Fatalf("%s: receiver changed to %v, want %v", tt.name, x.Words(), want.Words())
		}
	}
}

func TestIntPureResultsOwnTheirStorage(t *testing.T) {
	i := IntFromNat(true, NatFromWords([]uint64{5, 7, 9}))
	want := i.Clone()
	one := i64(1)

	a := i.Abs()
	a.SubAssign(NatFromWord[uint64](1))
	if !i.Equal(want) {
		t.Fatalf("Abs result shares storage: i = %s", i)
	}

	tests := []struct {
		name string
		f    func(Integer) Integer
	}{
		{"Neg", func(v Integer) Integer { return v.Neg() }},
		{"Shl(0)", func(v Integer) Integer { return v.Shl(0) }},
		{"Sub(0)", func(v Integer) Integer { return v.Sub(Integer{}) }},
		{"Neg().Neg()", func(v Integer) Integer { return v.Neg().Neg() }},
		{"Clone", func(v Integer) Integer { return v.Clone() }},
	}
	for _, tt := range tests {
		k := tt.f(i)
		k.SubAssign(one)
		k.AddAssign(i64(3))
		if !i.Equal(want) {
			t.Fatalf("%s: receiver changed to %s, want %s", tt.name, i, want)
		}
	}

	pos := i.Neg()
	wantPos := pos.Clone()
	q, _, err := pos.ShrRound(0, rounding.Floor)
	if err != nil {
		t.Fatalf("ShrRound: %v", err)
	}
	q.SetBitAssign(2)
	q.SubAssign(one)
	if !pos.Equal(wantPos) {
		t.Fatalf("ShrRound(0) result shares storage: %s", pos)
	}
	c := pos.ClearBit(400)
	c.SubAssign(one)
	if !pos.Equal(wantPos) {
		t.Fatalf("ClearBit result shares storage: %s", pos)
	}
}

func TestAssignmentCopySharesUntilCloned(t *testing.T) {
	j := IntFromNat(true, NatFromWords([]uint64{5, 7, 9}))
	want := j.Clone()
	k := j.Clone()
	k.SubAssign(i64(1))
	if !j.Equal(want) {
		t.Fatalf("Clone shares storage: j = %s", j)
	}
	if k.Equal(j) {
		t.Fatalf("SubAssign on the clone did nothing")
	}
}

func TestShlChecked(t *testing.T) {
	old := MaxLimbs
	MaxLimbs = 4
	defer func() { MaxLimbs = old }()

	if _, err := NatFromWord[uint64](1).ShlChecked(4 * 64); !errors.Is(err, ErrMaxLimbs) {
		t.Fatalf("1 << 256 with 4 words: err = %v", err)
	}
	z, err := NatFromWord[uint64](1).ShlChecked(4*64 - 1)
	if err != nil || z.BitLen() != 256 {
		t.Fatalf("1 << 255 = %v, %v", z, err)
	}
	if _, err := i32(-1).ShlChecked(1 << 30); !errors.Is(err, ErrMaxLimbs) {
		t.Fatalf("-1 << 2^30: err = %v", err)
	}
	if _, err := NatFromWord[uint32](3).ShlChecked(^uint(0)); !errors.Is(err, ErrMaxLimbs) {
		t.Fatalf("shift by MaxUint: err = %v", err)
	}
	if v, err := (Integer{}).ShlChecked(^uint(0)); err != nil || !v.IsZero() {
		t.Fatalf("0 << MaxUint = %s, %v", v, err)
	}
}

func TestCheckBits(t *testing.T) {
	old := MaxLimbs
	MaxLimbs = 2
	defer func() { MaxLimbs = old }()

	tests := []struct {
		bits uint64
		ok32 bool
		ok64 bool
	}{
		{0, true, true},
		{64, true, true},
		{65, false, true},
		{128, false, true},
		{129, false, false},
		{^uint64(0), false, false},
	}
	for _, tt := range tests {
		if err := CheckBits[uint32](tt.bits); (err == nil) != tt.ok32 {
			t.Fatalf("CheckBits[uint32](%d) = %v", tt.bits, err)
		}
		if err := CheckBits[uint64](tt.bits); (err == nil) != tt.ok64 {
			t.Fatalf("CheckBits[uint64](%d) = %v", tt.bits, err)
		}
	}
}

func TestDivisibleByOneWordDivisor(t *testing.T) {
	x := mustNat[uint32](t, "0x1000000000000000000000000") // 2^96
	tests := []struct {
		d    uint32
		want bool
	}{
		{1, true},
		{2, true},
		{1 << 31, true},
		{3, false},
		{0xffffffff, false},
	}
	for _, tt := range tests {
		if got := x.DivisibleBy(NatFromWord(tt.d)); got != tt.want {
			t.Fatalf("2^96 DivisibleBy(%d) = %v, want %v", tt.d, got, tt.want)
		}
	}
	y := mustNat[uint64](t, "0xffffffffffffffffffffffffffffffff") // 2^128-1 = (2^64-1)(2^64+1)
	if !y.DivisibleBy(NatFromWord(^uint64(0))) || y.DivisibleBy(NatFromWord[uint64](2)) {
		t.Fatalf("2^128-1 divisibility wrong")
	}
	if !y.DivisibleBy(NatFromWord[uint64](3)) || !y.DivisibleBy(NatFromWord[uint64](5)) {
		t.Fatalf("2^128-1 is a multiple of 3 and 5")
	}
}
