package wfc

import (
	"context"
	"errors"
	"testing"

	"github.com/lodeb/tilewave/grid"
)

func TestSolveAsyncCompletes(t *testing.T) {
	rs, _ := NewRuleSet(checkerRules(), nil)
	region := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 7, Y: 7})
	cfg := DefaultConfig()
	cfg.Seed = 11

	h := SolveAsync(context.Background(), NewCollapser(rs, region, cfg))
	<-h.Done()
	res, err := h.Wait()
	if err != nil {
		t.Fatalf("Expected async solve to succeed, got %v", err)
	}
	if res.Region() != region {
		t.Errorf("Expected region %v, got %v", region, res.Region())
	}
}

func TestSolveAsyncCancel(t *testing.T) {
	// An unsatisfiable solve with an unbounded budget would spin forever;
	// cancellation must stop it at a step boundary.
	region := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 3, Y: 3})
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.MaxRetraceCount = 1 << 30

	h := SolveAsync(context.Background(), NewCollapser(deadEndRules(), region, cfg))
	h.Cancel()
	_, err := h.Wait()
	if err == nil {
		t.Fatal("Expected cancelled solve to fail")
	}
	var se *SolveError
	if !errors.As(err, &se) {
		t.Errorf("Expected *SolveError, got %v", err)
	}
}

func TestSolveAllIndependence(t *testing.T) {
	rs, _ := NewRuleSet(checkerRules(), nil)

	build := func() []*Collapser {
		var cs []*Collapser
		for i := 0; i < 4; i++ {
			region := grid.NewRect(grid.Point{X: i * 8, Y: 0}, grid.Point{X: i*8 + 7, Y: 7})
			cfg := DefaultConfig()
			cfg.Seed = int64(i + 1)
			cs = append(cs, NewCollapser(rs, region, cfg))
		}
		return cs
	}

	parallel, err := SolveAll(context.Background(), build(), 4)
	if err != nil {
		t.Fatalf("Expected parallel solves to succeed, got %v", err)
	}
	serial, err := SolveAll(context.Background(), build(), 1)
	if err != nil {
		t.Fatalf("Expected serial solves to succeed, got %v", err)
	}

	for i := range parallel {
		p, s := parallel[i], serial[i]
		p.Region().Each(func(pt grid.Point) {
			if p.At(pt) != s.At(pt) {
				t.Errorf("Solve %d cell %v: parallel %d vs serial %d", i, pt, p.At(pt), s.At(pt))
			}
		})
	}
}

func TestSolveAllPropagatesFailure(t *testing.T) {
	region := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 1, Y: 0})
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.MaxRetraceCount = 2

	cs := []*Collapser{NewCollapser(deadEndRules(), region, cfg)}
	_, err := SolveAll(context.Background(), cs, 2)
	var se *SolveError
	if !errors.As(err, &se) {
		t.Errorf("Expected *SolveError from SolveAll, got %v", err)
	}
}
