package bignum

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMsgpackRoundTrip(t *testing.T) {
	for _, s := range bitValues {
		x := mustInt[uint64](t, s)
		data, err := msgpack.Marshal(x)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", s, err)
		}
		var back Integer
		if err := msgpack.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", s, err)
		}
		if !back.Equal(x) {
			t.Fatalf("round trip of %s = %s", s, back)
		}
	}

	type record struct {
		Name  string
		Value Natural
	}
	in := record{Name: "p", Value: mustNat[uint64](t, "0xffffffffffffffffffffffffffffffff")}
	data, err := msgpack.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal(record): %v", err)
	}
	var out record
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal(record): %v", err)
	}
	if out.Name != "p" || !out.Value.Equal(in.Value) {
		t.Fatalf("record round trip = %+v", out)
	}
}

func TestMsgpackDecodeNormalizes(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	// [true, [5, 0, 0]]: negative with high zero words
	if err := enc.EncodeArrayLen(2); err != nil {
		t.Fatal(err)
	}
	if err := enc.EncodeBool(true); err != nil {
		t.Fatal(err)
	}
	if err := enc.EncodeArrayLen(3); err != nil {
		t.Fatal(err)
	}
	for _, w := range []uint64{5, 0, 0} {
		if err := enc.EncodeUint(w); err != nil {
			t.Fatal(err)
		}
	}
	var x Integer
	if err := msgpack.Unmarshal(buf.Bytes(), &x); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if x.String() != "-5" || !x.Abs().IsInline() {
		t.Fatalf("decoded %s inline=%v", x, x.Abs().IsInline())
	}

	// negative zero
	data, err := msgpack.Marshal([]any{true, []uint64{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := msgpack.Unmarshal(data, &x); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !x.IsZero() || x.IsNeg() {
		t.Fatalf("decoded negative zero as %s neg=%v", x, x.IsNeg())
	}
}

func TestMsgpackRejectsWideWords(t *testing.T) {
	data, err := msgpack.Marshal([]uint64{1 << 40})
	if err != nil {
		t.Fatal(err)
	}
	var x Natural32
	if err := msgpack.Unmarshal(data, &x); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v", err)
	}
	data, err = msgpack.Marshal([]any{true})
	if err != nil {
		t.Fatal(err)
	}
	var y Integer
	if err := msgpack.Unmarshal(data, &y); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v", err)
	}
}

func TestBigInterop(t *testing.T) {
	for _, s := range bitValues {
		b := bigOf(t, s)
		x, err := IntFromBig[uint32](b)
		if err != nil {
			t.Fatalf("IntFromBig(%s): %v", s, err)
		}
		if x.Big().Cmp(b) != 0 || x.String() != b.String() {
			t.Fatalf("IntFromBig(%s) = %s", s, x)
		}
		checkCanonical(t, x.Abs())
	}
	if _, err := NatFromBig[uint64](big.NewInt(-1)); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("NatFromBig(-1) err = %v", err)
	}
	z, err := NatFromBig[uint64](new(big.Int))
	if err != nil || !z.IsZero() {
		t.Fatalf("NatFromBig(0) = %s, %v", z, err)
	}
}

func TestUint256Interop(t *testing.T) {
	u, overflow := uint256.FromBig(bigOf(t, "0xfedcba9876543210fedcba9876543210fedcba9876543210"))
	if overflow {
		t.Fatalf("overflow")
	}
	x := FromUint256(u)
	if x.Len() != 3 || x.Big().Cmp(u.ToBig()) != 0 {
		t.Fatalf("FromUint256 = %s", x)
	}
	back, ok := ToUint256(x)
	if !ok || !back.Eq(u) {
		t.Fatalf("ToUint256 = %v, %v", back, ok)
	}
	if _, ok := ToUint256(NatFromWord[uint64](1).Shl(256)); ok {
		t.Fatalf("2^256 should not fit")
	}
	small := FromUint256(uint256.NewInt(7))
	if !small.IsInline() || small.Word(0) != 7 {
		t.Fatalf("FromUint256(7) = %v", small.Words())
	}
}
