package word

import "testing"

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestUnsignedBitAccess(t *testing.T) {
	var x uint32
	x = SetBit(x, 2)
	x = SetBit(x, 5)
	x = SetBit(x, 6)
	if x != 100 {
		t.Fatalf("SetBit chain = %d, want 100", x)
	}
	if !Bit(x, 5) || Bit(x, 4) || Bit(x, 40) {
		t.Fatalf("Bit wrong for %d", x)
	}
	if ClearBit(x, 5) != 68 {
		t.Fatalf("ClearBit wrong")
	}
	if ClearBit(x, 99) != x {
		t.Fatalf("ClearBit beyond width must be a no-op")
	}
	if FlipBit(FlipBit(x, 10), 10) != x {
		t.Fatalf("FlipBit is not an involution")
	}
	expectPanic(t, "SetBit(32)", func() { SetBit[uint32](0, 32) })
	expectPanic(t, "FlipBit(64)", func() { FlipBit[uint64](0, 64) })
}

func TestSignedBitGet(t *testing.T) {
	if !SignedBit(int32(-1611), 4) {
		t.Fatalf("bit 4 of -1611 should be set")
	}
	if !SignedBit(int64(-1), 200) || SignedBit(int64(1), 200) {
		t.Fatalf("sign extension wrong")
	}
}

// The asymmetry below is intentional: bits at or above the sign bit already
// read as one on negative values, so setting them is a no-op, while on a
// non-negative value they cannot be set without changing the sign.
func TestSignedSetBitAsymmetry(t *testing.T) {
	if got := SetSignedBit(int32(0), 30); got != 1<<30 {
		t.Fatalf("SetSignedBit(0, 30) = %d", got)
	}
	if got := SetSignedBit(int32(-8), 31); got != -8 {
		t.Fatalf("SetSignedBit on sign bit of negative = %d, want -8", got)
	}
	if got := SetSignedBit(int64(-8), 100); got != -8 {
		t.Fatalf("SetSignedBit beyond width of negative = %d, want -8", got)
	}
	expectPanic(t, "SetSignedBit(5, 31)", func() { SetSignedBit(int32(5), 31) })
	expectPanic(t, "SetSignedBit(0, 64)", func() { SetSignedBit(int64(0), 64) })
}

func TestSignedClearBitAsymmetry(t *testing.T) {
	if got := ClearSignedBit(int32(-1), 0); got != -2 {
		t.Fatalf("ClearSignedBit(-1, 0) = %d", got)
	}
	if got := ClearSignedBit(int32(7), 31); got != 7 {
		t.Fatalf("ClearSignedBit on sign bit of non-negative = %d", got)
	}
	if got := ClearSignedBit(int64(7), 100); got != 7 {
		t.Fatalf("ClearSignedBit beyond width of non-negative = %d", got)
	}
	expectPanic(t, "ClearSignedBit(-1, 31)", func() { ClearSignedBit(int32(-1), 31) })
	expectPanic(t, "ClearSignedBit(-1, 80)", func() { ClearSignedBit(int64(-1), 80) })
}
