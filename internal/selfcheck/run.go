// Package selfcheck runs the kernel's algebraic laws over seeded random
// operands at both word widths, replaying stored counterexamples first.
package selfcheck

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"precis/internal/bignum"
	"precis/internal/corpus"
	"precis/internal/rounding"
	"precis/internal/trace"
	"precis/internal/word"
)

// maxFailures stops a task after this many failing cases.
const maxFailures = 5

// ErrFailed is returned by callers that treat failing cases as an error.
var ErrFailed = errors.New("self-check failed")

// Options controls a check run. Zero values pick defaults.
type Options struct {
	Cases    int
	Jobs     int
	Seed     uint64
	MaxWords int
	// Widths restricts the run to 32 and/or 64; empty means both.
	Widths []uint8
	// Properties restricts the run by name; empty means all.
	Properties []string
	Corpus     *corpus.Store
	Heartbeat  time.Duration
	// Progress receives status updates and is closed when Run returns.
	Progress chan<- Progress
}

type Status uint8

const (
	StatusQueued Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress reports the state of one property at one width.
type Progress struct {
	Task   string // e.g. "div-round/64"
	Status Status
	Done   int
	Total  int
	Failed int
}

// Failure is one case that violated a property.
type Failure struct {
	Property string
	Width    uint8
	Input    string
	Err      error
	Key      string // corpus key, empty when no corpus is attached
	Replayed bool
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s/%d: %v [%s]", f.Property, f.Width, f.Err, f.Input)
}

// Result summarizes one property at one width.
type Result struct {
	Property string
	Width    uint8
	Cases    int
	Replayed int
	Failures []Failure
	Elapsed  time.Duration
}

// Task returns the "property/width" label used in progress and trace events.
func (r Result) Task() string { return taskName(r.Property, r.Width) }

// Report is the outcome of a run.
type Report struct {
	Seed    uint64
	Results []Result
	Elapsed time.Duration
}

// Failures returns every failure in task order.
func (r *Report) Failures() []Failure {
	var out []Failure
	for _, res := range r.Results {
		out = append(out, res.Failures...)
	}
	return out
}

// Cases returns the number of cases run, replays included.
func (r *Report) Cases() int {
	n := 0
	for _, res := range r.Results {
		n += res.Cases + res.Replayed
	}
	return n
}

// OK reports whether no case failed.
func (r *Report) OK() bool { return len(r.Failures()) == 0 }

func taskName(property string, width uint8) string {
	return fmt.Sprintf("%s/%d", property, width)
}

type task struct {
	prop  Property
	width uint8
}

// Tasks lists the "property/width" labels opts selects, in run order.
func Tasks(opts Options) ([]string, error) {
	ts, err := plan(opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = taskName(t.prop.Name, t.width)
	}
	return names, nil
}

func plan(opts Options) ([]task, error) {
	props := properties
	if len(opts.Properties) > 0 {
		props = nil
		for _, name := range opts.Properties {
			p, ok := Lookup(name)
			if !ok {
				return nil, fmt.Errorf("unknown property %q", name)
			}
			props = append(props, p)
		}
	}
	widths := opts.Widths
	if len(widths) == 0 {
		widths = []uint8{32, 64}
	}
	for _, w := range widths {
		if w != 32 && w != 64 {
			return nil, fmt.Errorf("unsupported word width %d (expected 32 or 64)", w)
		}
	}
	var ts []task
	for _, p := range props {
		for _, w := range widths {
			ts = append(ts, task{prop: p, width: w})
		}
	}
	return ts, nil
}

// Run checks every selected property. It returns a report even when some
// cases fail; the error is non-nil only when the run itself could not
// complete.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Progress != nil {
		defer close(opts.Progress)
	}
	if opts.Cases < 0 {
		return nil, fmt.Errorf("negative case count %d", opts.Cases)
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = 12
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	tasks, err := plan(opts)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopeSuite, "selfcheck")
	span.WithExtra("seed", fmt.Sprint(opts.Seed))

	var done atomic.Int64
	total := len(tasks) * opts.Cases
	hb := trace.StartHeartbeat(trace.FromContext(ctx), opts.Heartbeat, func() string {
		return fmt.Sprintf("%d/%d cases", done.Load(), total)
	})
	defer hb.Stop()

	started := time.Now()
	report := &Report{Seed: opts.Seed, Results: make([]Result, len(tasks))}
	for _, t := range tasks {
		send(ctx, opts.Progress, Progress{Task: taskName(t.prop.Name, t.width), Status: StatusQueued, Total: opts.Cases})
	}

	jobs := min(opts.Jobs, len(tasks))
	workers := make(chan int, max(jobs, 1))
	for i := range jobs {
		workers <- i
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, t := range tasks {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w := <-workers
			defer func() { workers <- w }()

			r := &runner{opts: opts, prop: t.prop, width: t.width, done: &done}
			tctx := trace.WithWorker(gctx, w)
			res, err := r.run(tctx)
			report.Results[i] = res
			return err
		})
	}
	err = g.Wait()
	report.Elapsed = time.Since(started)
	span.WithExtra("cases", fmt.Sprint(report.Cases())).
		WithExtra("failures", fmt.Sprint(len(report.Failures()))).
		End(report.Elapsed.String())
	return report, err
}

func send(ctx context.Context, ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	case <-ctx.Done():
	}
}

type runner struct {
	opts  Options
	prop  Property
	width uint8
	done  *atomic.Int64
}

func (r *runner) seed() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(taskName(r.prop.Name, r.width)))
	return h.Sum64()
}

func (r *runner) run(ctx context.Context) (Result, error) {
	switch r.width {
	case 32:
		return runWidth(ctx, r, r.prop.check32)
	default:
		return runWidth(ctx, r, r.prop.check64)
	}
}

func runWidth[W word.Word](ctx context.Context, r *runner, check func(*Input[W]) error) (Result, error) {
	name := taskName(r.prop.Name, r.width)
	ctx, span := trace.Start(ctx, trace.ScopeProperty, name)
	started := time.Now()
	res := Result{Property: r.prop.Name, Width: r.width}
	progress := func(status Status) {
		send(ctx, r.opts.Progress, Progress{
			Task: name, Status: status, Done: res.Cases, Total: r.opts.Cases, Failed: len(res.Failures),
		})
	}
	progress(StatusRunning)

	fail := func(in *Input[W], err error, replayed bool) error {
		f := Failure{Property: r.prop.Name, Width: r.width, Input: in.String(), Err: err, Replayed: replayed}
		if r.opts.Corpus != nil && !replayed {
			key, perr := r.opts.Corpus.Put(caseOf(r.prop.Name, in, err))
			if perr != nil {
				return fmt.Errorf("%s: %w", name, perr)
			}
			f.Key = key
		}
		trace.Failure(ctx, name, err.Error(), map[string]string{"input": f.Input, "key": f.Key})
		res.Failures = append(res.Failures, f)
		return nil
	}

	stored, err := r.opts.Corpus.List(r.prop.Name)
	if err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	for _, c := range stored {
		in, ok := inputOf[W](c)
		if !ok {
			continue
		}
		res.Replayed++
		if cerr := safeCheck(check, in); cerr != nil {
			if err := fail(in, cerr, true); err != nil {
				return res, err
			}
		}
	}

	g := &gen[W]{r: rand.New(rand.NewPCG(r.opts.Seed, r.seed())), maxWords: r.opts.MaxWords}
	step := max(r.opts.Cases/20, 1)
	for res.Cases < r.opts.Cases && len(res.Failures) < maxFailures {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(started)
			span.End("cancelled")
			return res, err
		}
		in := g.input(&r.prop)
		if tr := trace.FromContext(ctx); tr.Level().ShouldEmit(trace.ScopeCase) {
			trace.Point(ctx, trace.ScopeCase, "case", in.String())
		}
		if cerr := safeCheck(check, in); cerr != nil {
			if err := fail(in, cerr, false); err != nil {
				return res, err
			}
		}
		res.Cases++
		r.done.Add(1)
		if res.Cases%step == 0 {
			progress(StatusRunning)
		}
	}

	res.Elapsed = time.Since(started)
	status := StatusPassed
	if len(res.Failures) > 0 {
		status = StatusFailed
	}
	progress(status)
	span.WithExtra("cases", fmt.Sprint(res.Cases)).
		WithExtra("replayed", fmt.Sprint(res.Replayed)).
		End(status.String())
	return res, nil
}

// safeCheck turns a panic inside the kernel into a failure of the case.
func safeCheck[W word.Word](check func(*Input[W]) error, in *Input[W]) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return check(in)
}

func caseOf[W word.Word](property string, in *Input[W], err error) *corpus.Case {
	c := &corpus.Case{
		Property: property,
		Width:    uint8(word.Size[W]()),
		Mode:     uint8(in.Mode),
		Shift:    uint64(in.Shift),
		Detail:   err.Error(),
		Found:    time.Now().UTC(),
	}
	switch ops := any(slices.Clone(in.Ops)).(type) {
	case []bignum.Integer32:
		c.Ops32 = ops
	case []bignum.Integer:
		c.Ops64 = ops
	}
	return c
}

func inputOf[W word.Word](c *corpus.Case) (*Input[W], bool) {
	if uint(c.Width) != word.Size[W]() {
		return nil, false
	}
	var ops any = c.Ops64
	if c.Width == 32 {
		ops = c.Ops32
	}
	xs, ok := ops.([]bignum.Int[W])
	if !ok {
		return nil, false
	}
	m := rounding.Mode(c.Mode)
	if !slices.Contains(rounding.Modes(), m) {
		return nil, false
	}
	shift, err := safecast.Conv[uint](c.Shift)
	if err != nil {
		return nil, false
	}
	p, ok := Lookup(c.Property)
	if !ok || len(xs) != p.Arity {
		return nil, false
	}
	return &Input[W]{Ops: xs, Mode: m, Shift: shift}, true
}
