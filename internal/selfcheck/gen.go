package selfcheck

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"precis/internal/bignum"
	"precis/internal/limbs"
	"precis/internal/rounding"
	"precis/internal/word"
)

// Input is one generated case: the operands a property consumes plus the
// rounding mode and shift count it may use.
type Input[W word.Word] struct {
	Ops   []bignum.Int[W]
	Mode  rounding.Mode
	Shift uint
}

func (in *Input[W]) String() string {
	var sb strings.Builder
	for i, x := range in.Ops {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%c=%#x", 'a'+rune(i), x)
	}
	fmt.Fprintf(&sb, " mode=%v shift=%d", in.Mode, in.Shift)
	return sb.String()
}

type gen[W word.Word] struct {
	r        *rand.Rand
	maxWords int
}

// striped returns n words made of alternating runs of ones and zeros with
// random run lengths. Such operands reach long carry and borrow chains far
// more often than uniform words do.
func striped[W word.Word](r *rand.Rand, n int) []W {
	ws := make([]W, n)
	size := word.Size[W]()
	total := uint(n) * size
	ones := r.IntN(2) == 1
	for i := uint(0); i < total; {
		run := uint(r.UintN(uint(2*size))) + 1
		end := min(i+run, total)
		if ones {
			for j := i; j < end; j++ {
				ws[j/size] |= W(1) << (j % size)
			}
		}
		i = end
		ones = !ones
	}
	return ws
}

func (g *gen[W]) words(n int) []W {
	switch g.r.IntN(4) {
	case 0:
		ws := make([]W, n)
		for i := range ws {
			ws[i] = W(g.r.Uint64())
		}
		return ws
	case 1:
		// edge words only
		edges := [...]W{0, 1, 2, word.Max[W](), word.Max[W]() - 1, W(1) << (word.Size[W]() - 1)}
		ws := make([]W, n)
		for i := range ws {
			ws[i] = edges[g.r.IntN(len(edges))]
		}
		return ws
	default:
		return striped[W](g.r, n)
	}
}

func (g *gen[W]) nat() bignum.Nat[W] {
	return bignum.NatFromWords(g.words(g.r.IntN(g.maxWords + 1)))
}

// longNat returns a value wide enough to take the Karatsuba path.
func (g *gen[W]) longNat() bignum.Nat[W] {
	t := max(limbs.KaratsubaThreshold, 2)
	return bignum.NatFromWords(g.words(t + g.r.IntN(2*t)))
}

func (g *gen[W]) int(long bool) bignum.Int[W] {
	abs := g.nat()
	if long {
		abs = g.longNat()
	}
	return bignum.IntFromNat(g.r.IntN(2) == 1, abs)
}

func (g *gen[W]) input(p *Property) *Input[W] {
	in := &Input[W]{
		Ops:  make([]bignum.Int[W], p.Arity),
		Mode: rounding.Modes()[g.r.IntN(len(rounding.Modes()))],
	}
	for i := range in.Ops {
		in.Ops[i] = g.int(p.Long)
	}
	// shifts reach past every generated operand
	limit := uint(g.maxWords+2) * word.Size[W]() * 2
	in.Shift = g.r.UintN(limit)
	return in
}
