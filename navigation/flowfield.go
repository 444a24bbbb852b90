package navigation

import "github.com/lodeb/tilewave/grid"

// Flow direction encoding: an index into flowVectors, or a sentinel.
const (
	flowNone   int8 = -1 // blocked or unreachable
	flowTarget int8 = -2 // at a target cell
)

// Four cardinals then four diagonals, +Y up.
var flowVectors = [8]grid.Point{
	{X: 0, Y: 1}, {X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// Cardinal = 10, diagonal = 14 (~10√2). The skew keeps descent directions
// Euclidean-ish instead of producing Chebyshev staircase artifacts.
var flowBase = [8]uint64{10, 10, 10, 10, 14, 14, 14, 14}

const distUnreachable = uint64(1) << 62

type flowEntry struct {
	idx  int
	dist uint64
}

type flowHeap []flowEntry

func (h *flowHeap) push(e flowEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *flowHeap) pop() flowEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// FlowField stores a precomputed per-cell step toward the nearest target.
// One Compute serves any number of agents inside the region, which is the
// trade against per-agent A*: pay one Dijkstra, then every lookup is O(1).
type FlowField struct {
	region grid.Rect
	width  int
	dirs   []int8
	dist   []uint64
	valid  bool

	// Reused across recomputes.
	heap flowHeap
}

// NewFlowField creates an invalid field covering region; call Compute before
// reading from it.
func NewFlowField(region grid.Rect) *FlowField {
	size := region.Area()
	return &FlowField{
		region: region,
		width:  region.Width(),
		dirs:   make([]int8, size),
		dist:   make([]uint64, size),
		heap:   make(flowHeap, 0, size/4),
	}
}

// Resize re-targets the field at a new region and invalidates it.
func (f *FlowField) Resize(region grid.Rect) {
	size := region.Area()
	if cap(f.dirs) < size {
		f.dirs = make([]int8, size)
		f.dist = make([]uint64, size)
	} else {
		f.dirs = f.dirs[:size]
		f.dist = f.dist[:size]
	}
	f.region = region
	f.width = region.Width()
	f.valid = false
}

// Invalidate marks the field for recomputation.
func (f *FlowField) Invalidate() { f.valid = false }

// Valid reports whether the field holds computed data.
func (f *FlowField) Valid() bool { return f.valid }

// Region returns the covered area.
func (f *FlowField) Region() grid.Rect { return f.region }

func (f *FlowField) index(p grid.Point) int {
	return (p.Y-f.region.Min.Y)*f.width + (p.X - f.region.Min.X)
}

// Next returns the adjacent cell one step closer to the nearest target.
// ok is false at a target cell, off the field, or where no route exists.
func (f *FlowField) Next(p grid.Point) (grid.Point, bool) {
	if !f.valid || !f.region.Contains(p) {
		return grid.Point{}, false
	}
	d := f.dirs[f.index(p)]
	if d < 0 {
		return grid.Point{}, false
	}
	return p.Add(flowVectors[d]), true
}

// AtTarget reports whether p is one of the cells Compute was aimed at.
func (f *FlowField) AtTarget(p grid.Point) bool {
	return f.valid && f.region.Contains(p) && f.dirs[f.index(p)] == flowTarget
}

// Distance returns the weighted distance to the nearest target (cardinal
// steps scaled by 10, diagonal by 14, times the entered cell's cost).
// ok is false for unreachable or off-field cells.
func (f *FlowField) Distance(p grid.Point) (uint64, bool) {
	if !f.valid || !f.region.Contains(p) {
		return 0, false
	}
	d := f.dist[f.index(p)]
	if d >= distUnreachable {
		return 0, false
	}
	return d, true
}

// Compute runs a multi-source weighted Dijkstra from the targets outward,
// then derives per-cell directions by steepest descent. Targets that are
// blocked or outside the region are skipped; with no usable target the field
// stays invalid. Diagonal steps never cut corners past a blocked cell.
func (f *FlowField) Compute(cost CostMap, targets ...grid.Point) {
	for i := range f.dirs {
		f.dirs[i] = flowNone
		f.dist[i] = distUnreachable
	}

	f.heap = f.heap[:0]
	seeded := false
	for _, t := range targets {
		if !f.region.Contains(t) {
			continue
		}
		if _, ok := cost.Cost(t); !ok {
			continue
		}
		idx := f.index(t)
		f.dist[idx] = 0
		f.dirs[idx] = flowTarget
		f.heap.push(flowEntry{idx: idx, dist: 0})
		seeded = true
	}
	if !seeded {
		f.valid = false
		return
	}

	for len(f.heap) > 0 {
		entry := f.heap.pop()
		if entry.dist > f.dist[entry.idx] {
			continue // stale
		}
		cur := grid.Point{
			X: f.region.Min.X + entry.idx%f.width,
			Y: f.region.Min.Y + entry.idx/f.width,
		}
		// Walking from a neighbor into cur enters cur, so the edge pays
		// cur's traversal cost.
		curCost, ok := cost.Cost(cur)
		if !ok {
			continue
		}

		for d := 0; d < 8; d++ {
			nb := cur.Add(flowVectors[d])
			if !f.region.Contains(nb) {
				continue
			}
			if _, ok := cost.Cost(nb); !ok {
				continue
			}
			if d >= 4 && f.cutsCorner(cost, cur, d) {
				continue
			}
			nIdx := f.index(nb)
			newDist := entry.dist + flowBase[d]*uint64(curCost)
			if newDist < f.dist[nIdx] {
				f.dist[nIdx] = newDist
				f.heap.push(flowEntry{idx: nIdx, dist: newDist})
			}
		}
	}

	f.descend(cost)
	f.valid = true
}

// descend assigns each reachable cell the direction of its lowest-distance
// neighbor.
func (f *FlowField) descend(cost CostMap) {
	f.region.Each(func(p grid.Point) {
		idx := f.index(p)
		dist := f.dist[idx]
		if dist >= distUnreachable || dist == 0 {
			return
		}

		best := flowNone
		bestDist := dist
		for d := 0; d < 8; d++ {
			nb := p.Add(flowVectors[d])
			if !f.region.Contains(nb) {
				continue
			}
			nDist := f.dist[f.index(nb)]
			if nDist >= bestDist {
				continue
			}
			if d >= 4 && f.cutsCorner(cost, p, d) {
				continue
			}
			bestDist = nDist
			best = int8(d)
		}
		f.dirs[idx] = best
	})
}

// cutsCorner reports whether the diagonal step d from p squeezes between
// blocked orthogonal cells.
func (f *FlowField) cutsCorner(cost CostMap, p grid.Point, d int) bool {
	v := flowVectors[d]
	if _, ok := cost.Cost(grid.Point{X: p.X + v.X, Y: p.Y}); !ok {
		return true
	}
	if _, ok := cost.Cost(grid.Point{X: p.X, Y: p.Y + v.Y}); !ok {
		return true
	}
	return false
}

// Patch repairs cells that became walkable since the last Compute without a
// full recompute, by adopting the cheapest already-routed neighbor. Cells
// that became blocked still require Compute; Patch only fills gaps.
func (f *FlowField) Patch(cost CostMap) {
	if !f.valid {
		return
	}
	f.region.Each(func(p grid.Point) {
		idx := f.index(p)
		if f.dirs[idx] != flowNone {
			return
		}
		if _, ok := cost.Cost(p); !ok {
			return
		}

		best := flowNone
		bestDist := distUnreachable
		for d := 0; d < 8; d++ {
			nb := p.Add(flowVectors[d])
			if !f.region.Contains(nb) {
				continue
			}
			nbCost, ok := cost.Cost(nb)
			if !ok || f.dist[f.index(nb)] >= distUnreachable {
				continue
			}
			if d >= 4 && f.cutsCorner(cost, p, d) {
				continue
			}
			through := f.dist[f.index(nb)] + flowBase[d]*uint64(nbCost)
			if through < bestDist {
				bestDist = through
				best = int8(d)
			}
		}
		if best != flowNone {
			f.dirs[idx] = best
			f.dist[idx] = bestDist
		}
	})
}
