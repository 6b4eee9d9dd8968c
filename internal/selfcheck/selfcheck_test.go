package selfcheck

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"precis/internal/bignum"
	"precis/internal/corpus"
	"precis/internal/rounding"
	"precis/internal/trace"
)

func TestRunPasses(t *testing.T) {
	rep, err := Run(context.Background(), Options{Cases: 60, Jobs: 4, Seed: 7, MaxWords: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.OK() {
		for _, f := range rep.Failures() {
			t.Errorf("%v", f)
		}
		t.FailNow()
	}
	if len(rep.Results) != 2*len(Properties()) {
		t.Fatalf("results = %d, want %d", len(rep.Results), 2*len(Properties()))
	}
	if rep.Cases() != 60*len(rep.Results) || rep.Seed != 7 {
		t.Fatalf("cases = %d seed = %d", rep.Cases(), rep.Seed)
	}
	for i, res := range rep.Results {
		if res.Property != properties[i/2].Name {
			t.Fatalf("result %d is %s, want %s", i, res.Task(), properties[i/2].Name)
		}
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	var inputs [2][]string
	for i := range inputs {
		g := &gen[uint64]{r: rand.New(rand.NewPCG(42, 1)), maxWords: 4}
		p, _ := Lookup("div-round")
		for range 20 {
			inputs[i] = append(inputs[i], g.input(&p).String())
		}
	}
	if strings.Join(inputs[0], "\n") != strings.Join(inputs[1], "\n") {
		t.Fatalf("same seed produced different inputs")
	}
}

func TestStripedWordsHaveRuns(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		ws := striped[uint32](r, 4)
		if len(ws) != 4 {
			t.Fatalf("len = %d", len(ws))
		}
	}
	// a run longer than one word must appear somewhere in enough draws
	found := false
	for range 200 {
		for _, w := range striped[uint32](r, 3) {
			if w == 0 || w == ^uint32(0) {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("no full-word runs generated")
	}
}

func TestPlanErrors(t *testing.T) {
	if _, err := Tasks(Options{Properties: []string{"nope"}}); err == nil {
		t.Fatalf("expected unknown property error")
	}
	if _, err := Tasks(Options{Widths: []uint8{16}}); err == nil {
		t.Fatalf("expected width error")
	}
	names, err := Tasks(Options{Properties: []string{"karatsuba"}, Widths: []uint8{64}})
	if err != nil || len(names) != 1 || names[0] != "karatsuba/64" {
		t.Fatalf("Tasks = %v, %v", names, err)
	}
	if _, err := Run(context.Background(), Options{Cases: -1}); err == nil {
		t.Fatalf("expected negative case error")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Cases: 1000, Jobs: 2, Seed: 3})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestProgressEventsAndClose(t *testing.T) {
	ch := make(chan Progress, 256)
	_, err := Run(context.Background(), Options{
		Cases: 40, Jobs: 2, Seed: 9, Properties: []string{"additive-inverse"}, Progress: ch,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	final := map[string]Status{}
	for p := range ch {
		final[p.Task] = p.Status
	}
	if len(final) != 2 || final["additive-inverse/32"] != StatusPassed || final["additive-inverse/64"] != StatusPassed {
		t.Fatalf("final statuses = %v", final)
	}
}

func TestFailuresArePersistedAndReplayed(t *testing.T) {
	store, err := corpus.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	saved := properties
	t.Cleanup(func() { properties = saved })
	properties = append(Properties(), Property{
		Name: "always-fails", Arity: 1,
		check32: func(*Input[uint32]) error { return errors.New("broken") },
		check64: func(*Input[uint64]) error { return errors.New("broken") },
	})

	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelError, trace.FormatNDJSON))
	opts := Options{Cases: 10, Jobs: 1, Seed: 5, Widths: []uint8{64}, Properties: []string{"always-fails"}, Corpus: store}
	rep, err := Run(ctx, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	fs := rep.Failures()
	if len(fs) != maxFailures || fs[0].Key == "" || fs[0].Replayed {
		t.Fatalf("failures = %+v", fs)
	}
	if strings.Count(buf.String(), `"kind":"failure"`) != maxFailures {
		t.Fatalf("trace:\n%s", buf.String())
	}

	stored, err := store.List("always-fails")
	if err != nil || len(stored) == 0 {
		t.Fatalf("stored = %d, %v", len(stored), err)
	}

	rep, err = Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if rep.Results[0].Replayed != len(stored) || !rep.Failures()[0].Replayed {
		t.Fatalf("replay result = %+v", rep.Results[0])
	}
}

func TestSafeCheckRecoversPanics(t *testing.T) {
	err := safeCheck(func(*Input[uint64]) error { panic("boom") }, &Input[uint64]{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
}

func TestCaseRoundTrip(t *testing.T) {
	in := &Input[uint32]{
		Ops:   []bignum.Integer32{bignum.IntFromInt64[uint32](-9), bignum.IntFromInt64[uint32](1 << 40)},
		Mode:  rounding.Ceiling,
		Shift: 77,
	}
	c := caseOf("div-round", in, errors.New("x"))
	if c.Width != 32 || len(c.Ops32) != 2 || c.Ops64 != nil {
		t.Fatalf("case = %+v", c)
	}
	back, ok := inputOf[uint32](c)
	if !ok || back.String() != in.String() {
		t.Fatalf("inputOf = %v, %v", back, ok)
	}
	if _, ok := inputOf[uint64](c); ok {
		t.Fatalf("32-bit case accepted at 64 bits")
	}
}

func TestPropertiesOnEdgeInputs(t *testing.T) {
	max64 := bignum.IntFromNat(false, bignum.NatFromWord(^uint64(0)))
	inputs := []*Input[uint64]{
		{Ops: []bignum.Integer{{}, {}}, Mode: rounding.Exact},
		{Ops: []bignum.Integer{max64, bignum.IntFromInt64[uint64](-1)}, Mode: rounding.Nearest, Shift: 64},
		{Ops: []bignum.Integer{max64.Neg(), max64}, Mode: rounding.Floor, Shift: 63},
		{Ops: []bignum.Integer{bignum.IntFromInt64[uint64](-5), bignum.IntFromInt64[uint64](2)}, Mode: rounding.Ceiling, Shift: 1},
	}
	for _, p := range Properties() {
		if p.Long {
			continue
		}
		for _, in := range inputs {
			in := &Input[uint64]{Ops: in.Ops[:p.Arity], Mode: in.Mode, Shift: in.Shift}
			if err := p.check64(in); err != nil {
				t.Errorf("%s on %s: %v", p.Name, in, err)
			}
		}
	}
}

func TestKaratsubaPropertyOnSaturatedOperands(t *testing.T) {
	ws := make([]uint32, 90)
	for i := range ws {
		ws[i] = ^uint32(0)
	}
	x := bignum.IntFromNat(false, bignum.NatFromWords(ws))
	p, _ := Lookup("karatsuba")
	if err := p.check32(&Input[uint32]{Ops: []bignum.Integer32{x, x}}); err != nil {
		t.Fatalf("karatsuba: %v", err)
	}
}

func TestUint256PropertyTruncatesWideOperands(t *testing.T) {
	ws := make([]uint32, 11)
	for i := range ws {
		ws[i] = 0x9e3779b9 * uint32(i+1)
	}
	wide := bignum.IntFromNat(true, bignum.NatFromWords(ws))
	p, ok := Lookup("uint256")
	if !ok {
		t.Fatalf("uint256 property not registered")
	}
	for _, ops := range [][]bignum.Integer32{
		{wide, wide.Neg()},
		{wide, bignum.IntFromInt64[uint32](1)},
		{{}, wide},
	} {
		if err := p.check32(&Input[uint32]{Ops: ops}); err != nil {
			t.Fatalf("uint256 on %v: %v", ops, err)
		}
	}
}
