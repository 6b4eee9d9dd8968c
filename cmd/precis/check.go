package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"precis/internal/corpus"
	"precis/internal/selfcheck"
	"precis/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the kernel's laws over random operands",
	Long: `Run every property at both limb widths over seeded random operands.

Counterexamples are stored in the corpus directory and replayed first on
the next run.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.Int("cases", 0, "cases per property and width (default from [check].cases)")
	f.Int("jobs", 0, "parallel workers (default from [check].jobs)")
	f.Uint64("seed", 0, "random seed (0 picks one)")
	f.Int("max-words", 0, "maximum operand length in words")
	f.StringSlice("property", nil, "run only these properties")
	f.IntSlice("width", nil, "run only these limb widths (32, 64)")
	f.String("corpus", "", "corpus directory (default from [check].corpus_dir or the user cache)")
	f.Bool("no-corpus", false, "neither replay nor store counterexamples")
	f.Bool("drop-corpus", false, "delete stored counterexamples before running")
	f.Bool("list", false, "list properties and exit")
	f.String("ui", "auto", "progress UI (auto|on|off)")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	env, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer env.close()
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	if list, _ := flags.GetBool("list"); list {
		for _, p := range selfcheck.Properties() {
			fmt.Fprintf(out, "%-20s %s\n", p.Name, p.Doc)
		}
		return nil
	}

	cc := env.cfg.Check
	opts := selfcheck.Options{
		Cases:    cc.Cases,
		Jobs:     cc.Jobs,
		Seed:     cc.Seed,
		MaxWords: cc.MaxWords,
	}
	if flags.Changed("cases") {
		opts.Cases, _ = flags.GetInt("cases")
	}
	if flags.Changed("jobs") {
		opts.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("seed") {
		opts.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("max-words") {
		opts.MaxWords, _ = flags.GetInt("max-words")
	}
	opts.Properties, _ = flags.GetStringSlice("property")
	widths, _ := flags.GetIntSlice("width")
	for _, w := range widths {
		if w != 32 && w != 64 {
			return fmt.Errorf("invalid --width %d (expected 32 or 64)", w)
		}
		opts.Widths = append(opts.Widths, uint8(w))
	}

	root := cmd.Root().PersistentFlags()
	if root.Changed("trace-heartbeat") {
		opts.Heartbeat, _ = root.GetDuration("trace-heartbeat")
	} else if cc.Heartbeat != "" {
		if opts.Heartbeat, err = time.ParseDuration(cc.Heartbeat); err != nil {
			return fmt.Errorf("[check].heartbeat: %w", err)
		}
	}

	if noCorpus, _ := flags.GetBool("no-corpus"); !noCorpus {
		dir := cc.CorpusDir
		if flags.Changed("corpus") {
			dir, _ = flags.GetString("corpus")
		}
		store, err := corpus.Open(dir)
		if err != nil {
			return fmt.Errorf("corpus: %w", err)
		}
		if drop, _ := flags.GetBool("drop-corpus"); drop {
			if err := store.DropAll(); err != nil {
				return fmt.Errorf("corpus: %w", err)
			}
		}
		opts.Corpus = store
	}

	uiValue, _ := flags.GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	idx := env.timer.Begin("check")
	var rep *selfcheck.Report
	if !env.quiet && shouldUseTUI(mode) {
		rep, err = runCheckWithUI(ctx, "precis check", opts)
	} else {
		rep, err = selfcheck.Run(ctx, opts)
	}
	if rep != nil {
		env.timer.End(idx, fmt.Sprintf("%d cases, seed %d", rep.Cases(), rep.Seed))
		for _, r := range rep.Results {
			env.timer.Add("  "+r.Task(), r.Elapsed, fmt.Sprintf("%d cases", r.Cases+r.Replayed))
		}
	}
	if err != nil {
		return err
	}

	printCheckReport(out, rep, env.quiet)
	env.printTimings(cmd)
	if rep.OK() {
		return nil
	}
	if ring, ok := trace.Ring(trace.FromContext(ctx)); ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "recent trace events:")
		if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
		}
	}
	return fmt.Errorf("%w: %d failing case(s), seed %d", selfcheck.ErrFailed, len(rep.Failures()), rep.Seed)
}

func printCheckReport(out io.Writer, rep *selfcheck.Report, quiet bool) {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if !quiet {
		for _, r := range rep.Results {
			status := pass("ok  ")
			if len(r.Failures) > 0 {
				status = fail("FAIL")
			}
			fmt.Fprintf(out, "%s %-24s %6d cases %s\n", status, r.Task(), r.Cases+r.Replayed,
				dim(fmt.Sprintf("(%d replayed, %s)", r.Replayed, r.Elapsed.Round(time.Microsecond))))
		}
	}
	for _, f := range rep.Failures() {
		replay := ""
		if f.Replayed {
			replay = dim(" [replayed]")
		}
		fmt.Fprintf(out, "%s %s/%d: %v%s\n    %s\n", fail("✗"), f.Property, f.Width, f.Err, replay, f.Input)
		if f.Key != "" {
			fmt.Fprintf(out, "    %s\n", dim("corpus key "+f.Key))
		}
	}

	summary := fmt.Sprintf("%d cases in %s, seed %d", rep.Cases(), rep.Elapsed.Round(time.Millisecond), rep.Seed)
	if rep.OK() {
		fmt.Fprintln(out, pass("passed: ")+summary)
	} else {
		fmt.Fprintln(out, fail(fmt.Sprintf("failed: %d failing case(s); ", len(rep.Failures())))+summary)
	}
}

