package wfc

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// SolveHandle tracks a solve dispatched to a background goroutine. Callers
// poll Done or block on Wait; cancelling discards the in-flight state, it is
// never reused.
type SolveHandle struct {
	done   chan struct{}
	cancel context.CancelFunc
	res    *Result
	err    error
}

// SolveAsync runs the collapser on its own goroutine. The collapser must not
// be touched by the caller until the handle completes.
func SolveAsync(ctx context.Context, c *Collapser) *SolveHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &SolveHandle{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(h.done)
		defer cancel()
		h.res, h.err = c.Solve(ctx)
	}()
	return h
}

// Done is closed when the solve finishes for any reason.
func (h *SolveHandle) Done() <-chan struct{} { return h.done }

// Cancel aborts the solve; it stops at the next collapse-step boundary.
func (h *SolveHandle) Cancel() { h.cancel() }

// Wait blocks until completion and returns the outcome.
func (h *SolveHandle) Wait() (*Result, error) {
	<-h.done
	return h.res, h.err
}

// SolveAll runs independent collapsers concurrently, at most maxParallel at a
// time, and returns one result slot per collapser. Each collapser owns its
// wavefunction and history; only the immutable rule set is shared. The first
// failure cancels the remaining solves and is returned; results[i] is nil for
// solves that failed or never ran.
func SolveAll(ctx context.Context, collapsers []*Collapser, maxParallel int) ([]*Result, error) {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(maxParallel))
	results := make([]*Result, len(collapsers))

	for i, c := range collapsers {
		i, c := i, c
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			res, err := c.Solve(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
