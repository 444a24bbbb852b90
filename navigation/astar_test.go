package navigation

import (
	"errors"
	"testing"

	"github.com/lodeb/tilewave/grid"
)

// mapCost is a test CostMap over an explicit cell set.
type mapCost map[grid.Point]uint32

func (m mapCost) Cost(p grid.Point) (uint32, bool) {
	c, ok := m[p]
	return c, ok
}

// openField returns a uniform-cost rectangle of walkable cells.
func openField(r grid.Rect) mapCost {
	m := make(mapCost)
	r.Each(func(p grid.Point) { m[p] = 1 })
	return m
}

func TestFindPathStraightLine(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 9, Y: 0}))
	path, err := FindPath(field, Options{
		Origin: grid.Point{X: 0, Y: 0},
		Dest:   grid.Point{X: 9, Y: 0},
	})
	if err != nil {
		t.Fatalf("Expected a path, got %v", err)
	}
	if path.Len() != 10 {
		t.Errorf("Expected 10 waypoints, got %d", path.Len())
	}
	if path.Points()[0] != (grid.Point{X: 0, Y: 0}) {
		t.Errorf("Expected path to start at origin, got %v", path.Points()[0])
	}
	if path.Points()[path.Len()-1] != (grid.Point{X: 9, Y: 0}) {
		t.Errorf("Expected path to end at destination, got %v", path.Points()[path.Len()-1])
	}
}

func TestFindPathDetoursAroundWall(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 4, Y: 4}))
	// Wall across x=2 with a gap at the top.
	delete(field, grid.Point{X: 2, Y: 0})
	delete(field, grid.Point{X: 2, Y: 1})
	delete(field, grid.Point{X: 2, Y: 2})
	delete(field, grid.Point{X: 2, Y: 3})

	path, err := FindPath(field, Options{
		Origin: grid.Point{X: 0, Y: 2},
		Dest:   grid.Point{X: 4, Y: 2},
	})
	if err != nil {
		t.Fatalf("Expected a detour path, got %v", err)
	}
	// Manhattan distance is 4; the detour through (2, 4) costs 4 extra.
	if path.Len() != 9 {
		t.Errorf("Expected 9 waypoints through the gap, got %d", path.Len())
	}
	for _, p := range path.Points() {
		if _, ok := field[p]; !ok {
			t.Errorf("Path crosses blocked cell %v", p)
		}
	}
}

func TestFindPathRespectsCosts(t *testing.T) {
	// A 3-wide corridor where the middle row is cheap and the others pricey.
	field := make(mapCost)
	for x := 0; x <= 6; x++ {
		field[grid.Point{X: x, Y: 0}] = 10
		field[grid.Point{X: x, Y: 1}] = 1
		field[grid.Point{X: x, Y: 2}] = 10
	}
	path, err := FindPath(field, Options{
		Origin: grid.Point{X: 0, Y: 0},
		Dest:   grid.Point{X: 6, Y: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	onCheap := 0
	for _, p := range path.Points() {
		if p.Y == 1 {
			onCheap++
		}
	}
	if onCheap < 5 {
		t.Errorf("Expected the path to hug the cheap row, only %d cells did", onCheap)
	}
}

func TestFindPathNotFound(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 3, Y: 3}))
	_, err := FindPath(field, Options{
		Origin: grid.Point{X: 0, Y: 0},
		Dest:   grid.Point{X: 10, Y: 10},
	})
	if !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}
}

func TestFindPathStepLimit(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 20, Y: 20}))
	_, err := FindPath(field, Options{
		Origin:   grid.Point{X: 0, Y: 0},
		Dest:     grid.Point{X: 20, Y: 20},
		MaxSteps: 5,
	})
	if !errors.Is(err, ErrStepLimit) {
		t.Errorf("Expected ErrStepLimit, got %v", err)
	}
}

func TestDiagonalShortensPath(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 5, Y: 5}))
	opts := Options{Origin: grid.Point{X: 0, Y: 0}, Dest: grid.Point{X: 5, Y: 5}}

	straight, err := FindPath(field, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.AllowDiagonal = true
	diag, err := FindPath(field, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diag.Len() >= straight.Len() {
		t.Errorf("Expected diagonal path (%d) shorter than orthogonal (%d)",
			diag.Len(), straight.Len())
	}
	if diag.Len() != 6 {
		t.Errorf("Expected 6 waypoints along the diagonal, got %d", diag.Len())
	}
}

func TestHexTopologyPath(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 4, Y: 4}))
	path, err := FindPath(field, Options{
		Origin:   grid.Point{X: 0, Y: 0},
		Dest:     grid.Point{X: 3, Y: 3},
		Topology: grid.Hexagonal,
	})
	if err != nil {
		t.Fatal(err)
	}
	// (1,1) is a single hex step, so the walk is 3 steps long.
	if path.Len() != 4 {
		t.Errorf("Expected 4 waypoints on the hex diagonal, got %d", path.Len())
	}
}

func TestResumableSearchMatchesFindPath(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 9, Y: 9}))
	opts := Options{Origin: grid.Point{X: 0, Y: 0}, Dest: grid.Point{X: 9, Y: 9}}

	oneShot, err := FindPath(field, opts)
	if err != nil {
		t.Fatal(err)
	}

	s := NewSearch(field, opts)
	ticks := 0
	for !s.Step(3) {
		ticks++
		if ticks > 10000 {
			t.Fatal("Resumable search failed to terminate")
		}
	}
	if ticks == 0 {
		t.Error("Expected a budget of 3 to need multiple ticks")
	}
	budgeted, err := s.Result()
	if err != nil {
		t.Fatal(err)
	}
	if budgeted.Len() != oneShot.Len() {
		t.Errorf("Expected identical path length, got %d vs %d", budgeted.Len(), oneShot.Len())
	}
	for i := range oneShot.Points() {
		if budgeted.Points()[i] != oneShot.Points()[i] {
			t.Errorf("Waypoint %d differs: %v vs %v", i, budgeted.Points()[i], oneShot.Points()[i])
		}
	}
}

func TestPathCursor(t *testing.T) {
	field := openField(grid.NewRect(grid.Point{X: 0, Y: 0}, grid.Point{X: 2, Y: 0}))
	path, err := FindPath(field, Options{Origin: grid.Point{X: 0, Y: 0}, Dest: grid.Point{X: 2, Y: 0}})
	if err != nil {
		t.Fatal(err)
	}
	visited := []grid.Point{}
	for !path.Arrived() {
		visited = append(visited, path.Current())
		path.Step()
	}
	if len(visited) != 3 {
		t.Errorf("Expected to visit 3 waypoints, got %d", len(visited))
	}
	// Stepping past the end stays arrived.
	path.Step()
	if !path.Arrived() {
		t.Error("Expected cursor to remain arrived")
	}
}
