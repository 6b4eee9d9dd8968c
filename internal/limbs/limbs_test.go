package limbs

import (
	"math/big"
	"testing"

	"pgregory.net/rapid"

	"precis/internal/word"
)

func toBig[W word.Word](x []W) *big.Int {
	z := new(big.Int)
	ws := word.Size[W]()
	for i := len(x) - 1; i >= 0; i-- {
		z.Lsh(z, ws)
		z.Or(z, new(big.Int).SetUint64(uint64(x[i])))
	}
	return z
}

func fromBig[W word.Word](b *big.Int) []W {
	var out []W
	t := new(big.Int).Set(b)
	mask := new(big.Int).SetUint64(uint64(word.Max[W]()))
	ws := word.Size[W]()
	for t.Sign() > 0 {
		out = append(out, W(new(big.Int).And(t, mask).Uint64()))
		t.Rsh(t, ws)
	}
	return out
}

func bigFromString(s string) *big.Int {
	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic("bad literal " + s)
	}
	return b
}

type pairCase struct {
	x, y string
}

var pairs = []pairCase{
	{"0", "0"},
	{"0", "1"},
	{"1", "1"},
	{"0xffffffff", "1"},
	{"0xffffffffffffffff", "1"},
	{"0xffffffffffffffffffffffffffffffff", "0xffffffffffffffffffffffffffffffff"},
	{"1000000000000", "999999999999"},
	{"0x123456789abcdef0123456789abcdef0123456789", "0xfedcba9876543210"},
	{"340282366920938463463374607431768211457", "18446744073709551617"},
}

func checkPairs[W word.Word](t *testing.T) {
	t.Helper()
	for _, p := range pairs {
		bx, by := bigFromString(p.x), bigFromString(p.y)
		x, y := fromBig[W](bx), fromBig[W](by)

		if got, want := toBig(Add(nil, x, y)), new(big.Int).Add(bx, by); got.Cmp(want) != 0 {
			t.Fatalf("Add(%s, %s) = %s, want %s", p.x, p.y, got, want)
		}
		if got, want := toBig(Mul(nil, x, y)), new(big.Int).Mul(bx, by); got.Cmp(want) != 0 {
			t.Fatalf("Mul(%s, %s) = %s, want %s", p.x, p.y, got, want)
		}
		if c := Cmp(x, y); c != bx.Cmp(by) {
			t.Fatalf("Cmp(%s, %s) = %d", p.x, p.y, c)
		}
		hi, lo := x, y
		bhi, blo := bx, by
		if Cmp(hi, lo) < 0 {
			hi, lo = lo, hi
			bhi, blo = blo, bhi
		}
		if got, want := toBig(Sub(nil, hi, lo)), new(big.Int).Sub(bhi, blo); got.Cmp(want) != 0 {
			t.Fatalf("Sub = %s, want %s", got, want)
		}
		if len(lo) > 0 {
			q, r := DivMod(nil, hi, lo)
			wq, wr := new(big.Int).QuoRem(bhi, blo, new(big.Int))
			if toBig(q).Cmp(wq) != 0 || toBig(r).Cmp(wr) != 0 {
				t.Fatalf("DivMod(%s, %s) = (%s, %s), want (%s, %s)", bhi, blo, toBig(q), toBig(r), wq, wr)
			}
		}
	}
}

func TestPairs32(t *testing.T) { checkPairs[uint32](t) }
func TestPairs64(t *testing.T) { checkPairs[uint64](t) }

func TestSubUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Sub(nil, []uint64{1}, []uint64{2})
}

func TestNormAndMakeReuse(t *testing.T) {
	x := []uint32{1, 2, 0, 0}
	if n := Norm(x); len(n) != 2 {
		t.Fatalf("Norm len = %d", len(n))
	}
	buf := make([]uint64, 0, 8)
	z := Make(buf, 5)
	if &z[0] != &buf[:1][0] {
		t.Fatalf("Make did not reuse storage")
	}
}

func TestShifts(t *testing.T) {
	x := fromBig[uint32](bigFromString("0x1234567890abcdef1234"))
	for _, s := range []uint{0, 1, 31, 32, 33, 64, 95, 200} {
		bx := toBig(x)
		if got, want := toBig(Shl(nil, x, s)), new(big.Int).Lsh(bx, s); got.Cmp(want) != 0 {
			t.Fatalf("Shl(%d) = %s, want %s", s, got, want)
		}
		if got, want := toBig(Shr(nil, x, s)), new(big.Int).Rsh(bx, s); got.Cmp(want) != 0 {
			t.Fatalf("Shr(%d) = %s, want %s", s, got, want)
		}
	}
}

func TestSticky(t *testing.T) {
	x := []uint32{0, 0x10}
	if Sticky(x, 36) || !Sticky(x, 37) || !Sticky(x, 500) || Sticky(x, 32) {
		t.Fatalf("Sticky wrong")
	}
	if Sticky([]uint64(nil), 10) {
		t.Fatalf("Sticky of zero")
	}
}

func TestBitsAndSetBit(t *testing.T) {
	x := fromBig[uint64](big.NewInt(260))
	if !Bit(x, 8) || !Bit(x, 2) || Bit(x, 3) || Bit(x, 1000) {
		t.Fatalf("Bit wrong")
	}
	y := SetBit(nil, x, 130, true)
	if BitLen(y) != 131 {
		t.Fatalf("BitLen after SetBit = %d", BitLen(y))
	}
	y = SetBit(nil, y, 130, false)
	if Cmp(y, x) != 0 {
		t.Fatalf("clearing the top bit did not normalize")
	}
	if TrailingZeros(x) != 2 {
		t.Fatalf("TrailingZeros = %d", TrailingZeros(x))
	}
}

func TestLogic(t *testing.T) {
	a, b := bigFromString("0xff00ff00ff00ff00ff00"), bigFromString("0x0ff0")
	x, y := fromBig[uint32](a), fromBig[uint32](b)
	if toBig(And(nil, x, y)).Cmp(new(big.Int).And(a, b)) != 0 {
		t.Fatalf("And")
	}
	if toBig(Or(nil, y, x)).Cmp(new(big.Int).Or(a, b)) != 0 {
		t.Fatalf("Or")
	}
	if toBig(Xor(nil, x, y)).Cmp(new(big.Int).Xor(a, b)) != 0 {
		t.Fatalf("Xor")
	}
	if toBig(AndNot(nil, x, y)).Cmp(new(big.Int).AndNot(a, b)) != 0 {
		t.Fatalf("AndNot")
	}
}

func genVec[W word.Word](maxLen int) *rapid.Generator[[]W] {
	return rapid.Custom(func(t *rapid.T) []W {
		n := rapid.IntRange(0, maxLen).Draw(t, "len")
		v := make([]W, n)
		for i := range v {
			v[i] = W(rapid.Uint64().Draw(t, "w"))
		}
		return Norm(v)
	})
}

func TestKaratsubaMatchesBasecase(t *testing.T) {
	saved := KaratsubaThreshold
	KaratsubaThreshold = 4
	defer func() { KaratsubaThreshold = saved }()

	rapid.Check(t, func(t *rapid.T) {
		x := genVec[uint32](60).Draw(t, "x")
		y := genVec[uint32](60).Draw(t, "y")
		fast := Mul(nil, x, y)
		slow := MulBasic(nil, x, y)
		if Cmp(fast, slow) != 0 {
			t.Fatalf("karatsuba and basecase disagree for %v * %v", x, y)
		}
	})
}

func TestDivModReconstructs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genVec[uint64](12).Draw(t, "u")
		v := genVec[uint64](6).Draw(t, "v")
		if len(v) == 0 {
			return
		}
		q, r := DivMod(nil, u, v)
		if Cmp(r, v) >= 0 {
			t.Fatalf("remainder not reduced")
		}
		back := Add(nil, Mul(nil, q, v), r)
		if Cmp(back, u) != 0 {
			t.Fatalf("q*v + r != u")
		}
	})
}
