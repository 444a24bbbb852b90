package navigation

import (
	"testing"

	"github.com/lodeb/tilewave/grid"
)

func TestFlowFieldDescendsToTarget(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 7, Y: 7})
	field := openField(r)
	f := NewFlowField(r)
	target := grid.Point{X: 4, Y: 4}
	f.Compute(field, target)

	if !f.Valid() {
		t.Fatal("Expected field valid after compute")
	}
	if !f.AtTarget(target) {
		t.Error("Expected target cell flagged")
	}

	// Following Next from any corner must reach the target.
	p := grid.Point{X: 0, Y: 0}
	for i := 0; i < 64; i++ {
		if f.AtTarget(p) {
			break
		}
		next, ok := f.Next(p)
		if !ok {
			t.Fatalf("Expected a step from %v", p)
		}
		dCur, _ := f.Distance(p)
		dNext, okNext := f.Distance(next)
		if f.AtTarget(next) {
			dNext, okNext = 0, true
		}
		if !okNext || dNext >= dCur {
			t.Fatalf("Expected distance to drop from %v (%d) to %v (%d)", p, dCur, next, dNext)
		}
		p = next
	}
	if !f.AtTarget(p) {
		t.Errorf("Expected walk to end on the target, ended at %v", p)
	}
}

func TestFlowFieldUnreachableCells(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 4, Y: 4})
	field := openField(r)
	// Seal off the right column.
	for y := 0; y <= 4; y++ {
		delete(field, grid.Point{X: 3, Y: y})
	}

	f := NewFlowField(r)
	f.Compute(field, grid.Point{X: 0, Y: 2})

	if _, ok := f.Distance(grid.Point{X: 4, Y: 2}); ok {
		t.Error("Expected sealed-off cell to be unreachable")
	}
	if _, ok := f.Next(grid.Point{X: 4, Y: 2}); ok {
		t.Error("Expected no step from an unreachable cell")
	}
	if _, ok := f.Distance(grid.Point{X: 2, Y: 2}); !ok {
		t.Error("Expected open cell reachable")
	}
}

func TestFlowFieldNoCornerCutting(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 2, Y: 2})
	field := openField(r)
	// Block the orthogonal cells around (1, 1) so the diagonal from
	// (0, 0) to (1, 1) would squeeze between walls.
	delete(field, grid.Point{X: 1, Y: 0})
	delete(field, grid.Point{X: 0, Y: 1})

	f := NewFlowField(r)
	f.Compute(field, grid.Point{X: 1, Y: 1})

	if _, ok := f.Next(grid.Point{X: 0, Y: 0}); ok {
		t.Error("Expected no route that cuts between blocked corners")
	}
}

func TestFlowFieldNearestOfManyTargets(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 9, Y: 0})
	field := openField(r)
	f := NewFlowField(r)
	f.Compute(field, grid.Point{X: 0, Y: 0}, grid.Point{X: 9, Y: 0})

	// Cell 2 is nearer the left target, cell 7 the right one.
	left, _ := f.Distance(grid.Point{X: 2, Y: 0})
	right, _ := f.Distance(grid.Point{X: 7, Y: 0})
	if left != 20 || right != 20 {
		t.Errorf("Expected distance 20 to the nearest target, got %d and %d", left, right)
	}
	if next, _ := f.Next(grid.Point{X: 2, Y: 0}); next != (grid.Point{X: 1, Y: 0}) {
		t.Errorf("Expected step left toward the near target, got %v", next)
	}
	if next, _ := f.Next(grid.Point{X: 7, Y: 0}); next != (grid.Point{X: 8, Y: 0}) {
		t.Errorf("Expected step right toward the near target, got %v", next)
	}
}

func TestFlowFieldNoTargetStaysInvalid(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 3, Y: 3})
	field := openField(r)
	delete(field, grid.Point{X: 1, Y: 1})

	f := NewFlowField(r)
	f.Compute(field, grid.Point{X: 1, Y: 1}, grid.Point{X: 10, Y: 10})
	if f.Valid() {
		t.Error("Expected field invalid when every target is blocked or outside")
	}
}

func TestFlowFieldPatchFillsOpenedCells(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 4, Y: 0})
	field := openField(r)
	delete(field, grid.Point{X: 2, Y: 0})

	f := NewFlowField(r)
	f.Compute(field, grid.Point{X: 0, Y: 0})
	if _, ok := f.Next(grid.Point{X: 2, Y: 0}); ok {
		t.Fatal("Expected blocked cell to have no direction")
	}

	field[grid.Point{X: 2, Y: 0}] = 1
	f.Patch(field)
	next, ok := f.Next(grid.Point{X: 2, Y: 0})
	if !ok || next != (grid.Point{X: 1, Y: 0}) {
		t.Errorf("Expected patched cell to route left, got (%v, %v)", next, ok)
	}
}

func TestFlowFieldCacheThrottles(t *testing.T) {
	r := grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 7, Y: 7})
	field := openField(r)
	c := NewFlowFieldCache(r, 3, 2)
	targets := []grid.Point{{X: 4, Y: 4}}

	if !c.Update(field, targets) {
		t.Fatal("Expected first update to compute")
	}
	for i := 0; i < 2; i++ {
		if c.Update(field, targets) {
			t.Error("Expected steady target below min ticks to skip recompute")
		}
	}

	// A small drift stays below the dirty distance.
	if c.Update(field, []grid.Point{{X: 5, Y: 4}}) {
		t.Error("Expected one-cell drift to stay cached")
	}
	// A big jump recomputes immediately.
	if !c.Update(field, []grid.Point{{X: 0, Y: 0}}) {
		t.Error("Expected far target move to force recompute")
	}

	c.MarkDirty()
	for i := 0; i < 2; i++ {
		if c.Update(field, []grid.Point{{X: 0, Y: 0}}) {
			t.Error("Expected dirty flag to wait out the tick gap")
		}
	}
	if !c.Update(field, []grid.Point{{X: 0, Y: 0}}) {
		t.Error("Expected dirty recompute once the gap passed")
	}
}
