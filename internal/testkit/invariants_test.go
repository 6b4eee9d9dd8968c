package testkit

import (
	"math/big"
	"testing"

	"precis/internal/bignum"
	"precis/internal/rounding"
)

func TestCheckNatAcceptsCanonical(t *testing.T) {
	for _, x := range []bignum.Natural32{
		{},
		bignum.NatFromWord[uint32](7),
		bignum.NatFromWords([]uint32{1, 2, 3}),
		bignum.NatFromWords([]uint32{9, 0, 0}),
	} {
		if err := CheckNat(x); err != nil {
			t.Fatalf("CheckNat(%v): %v", x.Words(), err)
		}
	}
	if err := CheckInt(bignum.IntFromInt64[uint64](-42)); err != nil {
		t.Fatalf("CheckInt(-42): %v", err)
	}
}

func TestCheckQuotient(t *testing.T) {
	b := big.NewInt
	tests := []struct {
		x, d, q int64
		m       rounding.Mode
		o       rounding.Ordering
		ok      bool
	}{
		{7, 2, 3, rounding.Floor, rounding.Less, true},
		{7, 2, 4, rounding.Floor, rounding.Greater, false},
		{-7, 2, -4, rounding.Floor, rounding.Less, true},
		{-7, 2, -3, rounding.Down, rounding.Greater, true},
		{-7, 2, -4, rounding.Down, rounding.Less, false},
		{-7, 2, -4, rounding.Up, rounding.Less, true},
		{5, 2, 2, rounding.Nearest, rounding.Less, true},
		{5, 2, 3, rounding.Nearest, rounding.Greater, false},
		{7, 3, 3, rounding.Nearest, rounding.Greater, false},
		{8, 2, 4, rounding.Exact, rounding.Equal, true},
		{7, 2, 3, rounding.Floor, rounding.Equal, false},
		{7, 2, 1, rounding.Floor, rounding.Less, false},
		{-7, -2, 4, rounding.Ceiling, rounding.Greater, true},
	}
	for _, tt := range tests {
		err := CheckQuotient(b(tt.x), b(tt.d), b(tt.q), tt.m, tt.o)
		if (err == nil) != tt.ok {
			t.Fatalf("CheckQuotient(%d/%d -> %d, %v, %v) = %v, want ok=%v", tt.x, tt.d, tt.q, tt.m, tt.o, err, tt.ok)
		}
	}
}
