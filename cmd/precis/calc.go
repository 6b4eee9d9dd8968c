package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"precis/internal/bignum"
	"precis/internal/rounding"
	"precis/internal/trace"
	"precis/internal/word"
)

var calcCmd = &cobra.Command{
	Use:   "calc [flags] <op> <a> [b]",
	Short: "Evaluate one kernel operation",
	Long: `Evaluate one kernel operation on arbitrary-precision operands.

Flags go before the op; everything after it is an operand, so negative
values need no quoting (precis calc sub -123 -456). Operands accept 0x, 0o
and 0b prefixes and underscores. Ops:
  add sub mul cmp and or xor     two operands
  divround divmod                 dividend and divisor
  shl shr                         value and shift count
  bit setbit clearbit flipbit     value and bit index
  pow                             base and exponent
  not sqrt                        one operand
  gcd                             two operands`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCalc,
}

func init() {
	// stop at the op so "-123" is an operand, not a shorthand flag
	calcCmd.Flags().SetInterspersed(false)
	calcCmd.Flags().String("mode", "", "rounding mode for divround and shr (down|up|floor|ceiling|nearest|exact)")
	calcCmd.Flags().Int("base", 0, "output base 2-36 (default from [format].base)")
	calcCmd.Flags().Int("width", 64, "limb width in bits (32|64)")
}

type calcOp struct {
	arity int
}

var calcOps = map[string]calcOp{
	"add": {2}, "sub": {2}, "mul": {2}, "cmp": {2},
	"and": {2}, "or": {2}, "xor": {2}, "not": {1},
	"divround": {2}, "divmod": {2},
	"shl": {2}, "shr": {2},
	"bit": {2}, "setbit": {2}, "clearbit": {2}, "flipbit": {2},
	"pow": {2}, "sqrt": {1}, "gcd": {2},
}

// calcRequest is one parsed calc invocation.
type calcRequest struct {
	op    string
	args  []string
	mode  rounding.Mode
	base  int
	upper bool
}

func runCalc(cmd *cobra.Command, args []string) error {
	env, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	req := calcRequest{
		op:    strings.ToLower(args[0]),
		args:  args[1:],
		mode:  env.cfg.Rounding.Mode,
		base:  env.cfg.Format.Base,
		upper: env.cfg.Format.Uppercase,
	}
	if cmd.Flags().Changed("mode") {
		v, _ := cmd.Flags().GetString("mode")
		if req.mode, err = rounding.ParseMode(v); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("base") {
		req.base, _ = cmd.Flags().GetInt("base")
		if req.base < 2 || req.base > 36 {
			return fmt.Errorf("invalid --base %d (expected 2-36)", req.base)
		}
	}
	width, _ := cmd.Flags().GetInt("width")

	_, span := trace.Start(cmd.Context(), trace.ScopeSuite, "calc:"+req.op)
	idx := env.timer.Begin("calc " + req.op)
	var lines []string
	switch width {
	case 32:
		lines, err = evalCalc[uint32](req)
	case 64:
		lines, err = evalCalc[uint64](req)
	default:
		err = fmt.Errorf("invalid --width %d (expected 32 or 64)", width)
	}
	env.timer.End(idx, fmt.Sprintf("%d-bit limbs", width))
	if err != nil {
		span.End(err.Error())
		return err
	}
	span.End("")

	out := cmd.OutOrStdout()
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	env.printTimings(cmd)
	return nil
}

func evalCalc[W word.Word](req calcRequest) ([]string, error) {
	op, ok := calcOps[req.op]
	if !ok {
		return nil, fmt.Errorf("unknown op %q", req.op)
	}
	if len(req.args) != op.arity {
		return nil, fmt.Errorf("%s takes %d operand(s), got %d", req.op, op.arity, len(req.args))
	}
	xs := make([]bignum.Int[W], len(req.args))
	for i, s := range req.args {
		v, err := bignum.ParseInt[W](s, 0)
		if err != nil {
			return nil, fmt.Errorf("operand %q: %w", s, err)
		}
		xs[i] = v
	}
	text := func(v bignum.Int[W]) string {
		if req.upper {
			return strings.ToUpper(v.Text(req.base))
		}
		return v.Text(req.base)
	}
	withOrdering := func(v bignum.Int[W], o rounding.Ordering) []string {
		return []string{text(v), "ordering: " + o.String()}
	}

	x := xs[0]
	var y bignum.Int[W]
	if len(xs) > 1 {
		y = xs[1]
	}

	switch req.op {
	case "add":
		return []string{text(x.Add(y))}, nil
	case "sub":
		return []string{text(x.Sub(y))}, nil
	case "mul":
		return []string{text(x.Mul(y))}, nil
	case "cmp":
		return []string{fmt.Sprint(x.Cmp(y))}, nil
	case "and":
		return []string{text(x.And(y))}, nil
	case "or":
		return []string{text(x.Or(y))}, nil
	case "xor":
		return []string{text(x.Xor(y))}, nil
	case "not":
		return []string{text(x.Not())}, nil
	case "divround":
		q, o, err := x.DivRound(y, req.mode)
		if err != nil {
			return nil, err
		}
		return withOrdering(q, o), nil
	case "divmod":
		q, r, err := x.DivMod(y)
		if err != nil {
			return nil, err
		}
		return []string{text(q), text(r)}, nil
	case "sqrt":
		if x.IsNeg() {
			return nil, errors.New("sqrt: negative operand")
		}
		return []string{text(bignum.IntFromNat(false, x.Abs().Sqrt()))}, nil
	case "gcd":
		return []string{text(bignum.IntFromNat(false, x.Abs().Gcd(y.Abs())))}, nil
	}

	// the remaining ops take a small non-negative second operand
	n, err := smallOperand(y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}
	switch req.op {
	case "shl":
		v, err := x.ShlChecked(n)
		if err != nil {
			return nil, err
		}
		return []string{text(v)}, nil
	case "shr":
		q, o, err := x.ShrRound(n, req.mode)
		if err != nil {
			return nil, err
		}
		return withOrdering(q, o), nil
	case "setbit", "clearbit", "flipbit":
		if err := checkBitIndex[W](n); err != nil {
			return nil, fmt.Errorf("%s: %w", req.op, err)
		}
	}
	switch req.op {
	case "bit":
		if x.Bit(n) {
			return []string{"1"}, nil
		}
		return []string{"0"}, nil
	case "setbit":
		return []string{text(x.SetBit(n))}, nil
	case "clearbit":
		return []string{text(x.ClearBit(n))}, nil
	case "flipbit":
		return []string{text(x.FlipBit(n))}, nil
	case "pow":
		p, err := x.Abs().Pow(uint64(n))
		if err != nil {
			return nil, err
		}
		return []string{text(bignum.IntFromNat(x.IsNeg() && n&1 == 1, p))}, nil
	}
	return nil, fmt.Errorf("unknown op %q", req.op)
}

// checkBitIndex rejects bit indexes whose value would exceed MaxLimbs words.
func checkBitIndex[W word.Word](i uint) error {
	if uint64(i) == math.MaxUint64 {
		return bignum.ErrMaxLimbs
	}
	return bignum.CheckBits[W](uint64(i) + 1)
}

func smallOperand[W word.Word](y bignum.Int[W]) (uint, error) {
	if y.IsNeg() {
		return 0, fmt.Errorf("negative count %s", y)
	}
	u, ok := y.Abs().Uint64()
	if !ok {
		return 0, fmt.Errorf("count %s out of range", y)
	}
	return safecast.Conv[uint](u)
}
