package wfc

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lodeb/tilewave/grid"
)

// State names the collapser's position in its solve loop. Exposed for
// diagnostics; callers drive the loop only through Solve.
type State uint8

const (
	StateReady State = iota
	StateSelecting
	StatePropagating
	StateContradiction
	StateRetracing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSelecting:
		return "selecting"
	case StatePropagating:
		return "propagating"
	case StateContradiction:
		return "contradiction"
	case StateRetracing:
		return "retracing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "invalid"
}

// SolveError is the terminal failure surface: the retrace budget or the undo
// log ran out, or the caller cancelled. Cell is the coordinate of the last
// unrecoverable contradiction.
type SolveError struct {
	Cell     grid.Point
	Retraces uint32
	Err      error
}

func (e *SolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wfc: solve aborted after %d retraces: %v", e.Retraces, e.Err)
	}
	return fmt.Sprintf("wfc: solve failed at (%d, %d) after %d retraces",
		e.Cell.X, e.Cell.Y, e.Retraces)
}

func (e *SolveError) Unwrap() error { return e.Err }

// Config tunes one solve. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// RetraceStrength is how many collapse decisions are undone per
	// contradiction. Small values (1) retrace gently.
	RetraceStrength uint32
	// MaxRetraceCount caps total retraces per solve; exhausting it fails
	// the solve.
	MaxRetraceCount uint32
	// MaxHistory bounds the undo log. Oldest entries are evicted beyond it;
	// a retrace that needs evicted depth fails rather than guessing.
	MaxHistory uint32
	// Seed fixes the random stream. 0 picks a time-based seed.
	Seed int64
	// Sampler picks the concrete option when a cell collapses. Nil selects
	// weighted sampling when the rule set carries weights, uniform otherwise.
	Sampler Sampler
	// Initial seeds every cell with a subset of the option space instead of
	// the full set. Nil means all options.
	Initial Domain
}

// DefaultConfig returns the recommended solve parameters.
func DefaultConfig() Config {
	return Config{
		RetraceStrength: 1,
		MaxRetraceCount: 64,
		MaxHistory:      256,
	}
}

// Result is a fully collapsed region: one concrete option per cell.
type Result struct {
	region grid.Rect
	opts   []Option
}

func (r *Result) Region() grid.Rect { return r.region }

// At returns the solved option at p; p must lie inside Region.
func (r *Result) At(p grid.Point) Option {
	return r.opts[(p.Y-r.region.Min.Y)*r.region.Width()+(p.X-r.region.Min.X)]
}

// Each visits solved cells row-major.
func (r *Result) Each(fn func(grid.Point, Option)) {
	r.region.Each(func(p grid.Point) { fn(p, r.At(p)) })
}

// Collapser runs one WFC solve over a region. It owns its wavefunction,
// history and random stream; nothing is shared between collapsers, so
// independent solves may run concurrently against the same RuleSet.
type Collapser struct {
	rules *RuleSet
	cfg   Config
	wf    *Wavefunction
	hist  *history
	rng   *rand.Rand

	state    State
	retraces uint32
	ops      int
}

// NewCollapser prepares a solve over region with the given rule set.
func NewCollapser(rules *RuleSet, region grid.Rect, cfg Config) *Collapser {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sampler := cfg.Sampler
	if sampler == nil {
		if rules.Weighted() {
			sampler = WeightedSampler{}
		} else {
			sampler = UniformSampler{}
		}
	}
	cfg.Sampler = sampler
	return &Collapser{
		rules: rules,
		cfg:   cfg,
		wf:    NewWavefunction(region, rules, cfg.Initial),
		hist:  newHistory(int(cfg.MaxHistory)),
		rng:   rand.New(rand.NewSource(seed)),
		state: StateReady,
	}
}

// State returns the collapser's current loop state.
func (c *Collapser) State() State { return c.state }

// Retraces returns how many retraces have been spent so far.
func (c *Collapser) Retraces() uint32 { return c.retraces }

// PropagationOps returns the total worklist operations across the solve;
// bounded by grid size times option count, which tests assert.
func (c *Collapser) PropagationOps() int { return c.ops }

// Solve drives the collapse loop to completion. Cancellation is honored
// between collapse steps, never mid-propagation, so an abandoned solve is
// simply discarded rather than left half-propagated. On success every cell of
// the region is collapsed; otherwise the error is a *SolveError.
func (c *Collapser) Solve(ctx context.Context) (*Result, error) {
	if c.state != StateReady {
		return nil, fmt.Errorf("wfc: collapser already ran (state %s)", c.state)
	}

	for {
		if err := ctx.Err(); err != nil {
			c.state = StateFailed
			return nil, &SolveError{Retraces: c.retraces, Err: err}
		}

		c.state = StateSelecting
		cell, ok := c.wf.SelectMin()
		if !ok {
			c.state = StateDone
			return c.result(), nil
		}

		dom := c.wf.Possibilities(cell)
		choice := c.cfg.Sampler.Sample(c.rng, dom, c.rules)
		entry := historyEntry{
			cell:    cell,
			choice:  choice,
			touched: []snapshot{{cell: cell, prior: dom}},
		}
		c.wf.CollapseTo(cell, choice)

		c.state = StatePropagating
		rec := propagation{}
		err := propagate(c.wf, c.rules, cell, &rec)
		c.ops += rec.ops
		entry.touched = append(entry.touched, rec.touched...)
		c.hist.push(entry)

		if err == nil {
			continue
		}

		c.state = StateContradiction
		cerr, _ := err.(*contradiction)
		if c.retraces >= c.cfg.MaxRetraceCount {
			c.state = StateFailed
			return nil, &SolveError{Cell: cerr.cell, Retraces: c.retraces}
		}
		c.retraces++

		c.state = StateRetracing
		popped, starved := c.hist.popN(int(c.cfg.RetraceStrength))
		for _, e := range popped {
			// Snapshots restore in reverse record order so the earliest
			// (pre-entry) domain of a cell wins.
			for i := len(e.touched) - 1; i >= 0; i-- {
				c.wf.restore(e.touched[i].cell, e.touched[i].prior)
			}
		}
		if starved {
			c.state = StateFailed
			return nil, &SolveError{Cell: cerr.cell, Retraces: c.retraces}
		}
	}
}

func (c *Collapser) result() *Result {
	res := &Result{
		region: c.wf.Region(),
		opts:   make([]Option, c.wf.Region().Area()),
	}
	c.wf.EachCollapsed(func(p grid.Point, o Option) {
		res.opts[(p.Y-res.region.Min.Y)*res.region.Width()+(p.X-res.region.Min.X)] = o
	})
	return res
}
