package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"precis/internal/bignum"
	"precis/internal/limbs"
	"precis/internal/trace"
	"precis/internal/word"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time schoolbook against Karatsuba multiplication",
	Long: `Time schoolbook and Karatsuba multiplication and long division over a
range of operand sizes, to help pick [kernel].karatsuba_threshold.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntSlice("sizes", []int{8, 16, 32, 64, 128, 256, 512}, "operand lengths in words")
	f.Duration("min-time", 100*time.Millisecond, "minimum measuring time per cell")
	f.Int("width", 64, "limb width in bits (32|64)")
	f.Uint64("seed", 1, "random seed for operands")
}

type benchRow struct {
	words     int
	basic     time.Duration
	karatsuba time.Duration
	div       time.Duration
}

func runBench(cmd *cobra.Command, _ []string) error {
	env, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	flags := cmd.Flags()
	sizes, _ := flags.GetIntSlice("sizes")
	minTime, _ := flags.GetDuration("min-time")
	width, _ := flags.GetInt("width")
	seed, _ := flags.GetUint64("seed")
	for _, n := range sizes {
		if n < 1 {
			return fmt.Errorf("invalid size %d", n)
		}
	}

	ctx := cmd.Context()
	r := rand.New(rand.NewPCG(seed, uint64(width)))
	rows := make([]benchRow, 0, len(sizes))
	for _, n := range sizes {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, span := trace.Start(ctx, trace.ScopeProperty, fmt.Sprintf("bench:%d", n))
		idx := env.timer.Begin(fmt.Sprintf("bench %d words", n))
		var row benchRow
		switch width {
		case 32:
			row = benchSize[uint32](r, n, minTime)
		case 64:
			row = benchSize[uint64](r, n, minTime)
		default:
			return fmt.Errorf("invalid --width %d (expected 32 or 64)", width)
		}
		env.timer.End(idx, "")
		span.End(row.karatsuba.String())
		rows = append(rows, row)
	}

	printBench(cmd.OutOrStdout(), rows, width, limbs.KaratsubaThreshold)
	env.printTimings(cmd)
	return nil
}

func randomWords[W word.Word](r *rand.Rand, n int) []W {
	ws := make([]W, n)
	for i := range ws {
		ws[i] = W(r.Uint64())
	}
	ws[n-1] |= 1 // keep the length
	return ws
}

// measure runs fn until minTime has passed and returns the mean duration.
func measure(minTime time.Duration, fn func()) time.Duration {
	iters := 1
	for {
		start := time.Now()
		for range iters {
			fn()
		}
		elapsed := time.Since(start)
		if elapsed >= minTime || iters >= 1<<30 {
			return elapsed / time.Duration(iters)
		}
		iters *= 2
	}
}

func benchSize[W word.Word](r *rand.Rand, n int, minTime time.Duration) benchRow {
	x := randomWords[W](r, n)
	y := randomWords[W](r, n)
	var z []W
	row := benchRow{words: n}
	row.basic = measure(minTime, func() { z = limbs.MulBasic(z, x, y) })
	row.karatsuba = measure(minTime, func() { z = limbs.Mul(z, x, y) })

	num := bignum.NatFromWords(limbs.Mul(nil, x, y))
	den := bignum.NatFromWords(y)
	row.div = measure(minTime, func() { _, _, _ = num.DivMod(den) })
	return row
}

func printBench(out io.Writer, rows []benchRow, width, threshold int) {
	p := message.NewPrinter(language.English)
	faster := color.New(color.FgGreen).SprintFunc()
	head := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(out, head(fmt.Sprintf("%d-bit limbs, karatsuba threshold %d words", width, threshold)))
	fmt.Fprintln(out, head(fmt.Sprintf("%8s %16s %16s %16s", "words", "schoolbook ns", "mul ns", "divmod ns")))
	for _, r := range rows {
		mul := p.Sprintf("%16d", r.karatsuba.Nanoseconds())
		if r.words >= threshold && r.karatsuba < r.basic {
			mul = faster(mul)
		}
		fmt.Fprintf(out, "%8s %s %s %s\n",
			p.Sprintf("%d", r.words),
			p.Sprintf("%16d", r.basic.Nanoseconds()),
			mul,
			p.Sprintf("%16d", r.div.Nanoseconds()))
	}
}
