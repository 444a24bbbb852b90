// Package navigation provides A* pathfinding over tile cost layers, with a
// resumable search for callers that spread work across scheduler ticks.
package navigation

import (
	"container/heap"
	"errors"

	"github.com/lodeb/tilewave/grid"
)

var (
	ErrPathNotFound = errors.New("navigation: no path between origin and destination")
	ErrStepLimit    = errors.New("navigation: step limit exceeded")
)

// CostMap supplies per-tile traversal costs. ok=false marks a cell that
// cannot be entered (absent from the walkable layer).
type CostMap interface {
	Cost(p grid.Point) (uint32, bool)
}

// Options parameterizes one search.
type Options struct {
	Origin, Dest grid.Point
	Topology     grid.Topology
	// AllowDiagonal adds the four diagonal neighbors on square/isometric
	// maps. Ignored for hexagonal topology.
	AllowDiagonal bool
	// Weights multiply the g and h cost terms; the zero value means (1, 1).
	// Weighting h above g trades optimality for speed.
	Weights [2]uint32
	// MaxSteps caps expanded nodes; 0 is unlimited. Exceeding it fails the
	// search with ErrStepLimit.
	MaxSteps uint32
}

// Path is an ordered walk from origin to destination with a consumption
// cursor for movement systems.
type Path struct {
	points []grid.Point
	step   int
}

// Points returns the full walk, origin first.
func (p *Path) Points() []grid.Point { return p.points }

func (p *Path) Len() int { return len(p.points) }

// Step advances to the next waypoint; does nothing once arrived.
func (p *Path) Step() {
	if p.step < len(p.points) {
		p.step++
	}
}

// Current returns the active waypoint.
func (p *Path) Current() grid.Point { return p.points[p.step] }

// Arrived reports whether the cursor has consumed the whole path.
func (p *Path) Arrived() bool { return p.step >= len(p.points) }

type node struct {
	p       grid.Point
	g, h    uint32
	parent  *node
	openIdx int // heap position, -1 once expanded
}

func (n *node) weight(w [2]uint32) uint32 { return n.g*w[0] + n.h*w[1] }

type openHeap struct {
	nodes   []*node
	weights [2]uint32
}

func (h *openHeap) Len() int { return len(h.nodes) }
func (h *openHeap) Less(i, j int) bool {
	wi, wj := h.nodes[i].weight(h.weights), h.nodes[j].weight(h.weights)
	if wi != wj {
		return wi < wj
	}
	// Row-major tie-break keeps expansion order deterministic.
	return h.nodes[i].p.Less(h.nodes[j].p)
}
func (h *openHeap) Swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.nodes[i].openIdx, h.nodes[j].openIdx = i, j
}
func (h *openHeap) Push(x any) {
	n := x.(*node)
	n.openIdx = len(h.nodes)
	h.nodes = append(h.nodes, n)
}
func (h *openHeap) Pop() any {
	old := h.nodes
	n := old[len(old)-1]
	h.nodes = old[:len(old)-1]
	n.openIdx = -1
	return n
}

// Search is a resumable A* run. Each Step call expands up to budget nodes so
// a caller can amortize long searches across frames; FindPath drives it to
// completion in one call.
type Search struct {
	cost  CostMap
	opts  Options
	open  *openHeap
	seen  map[grid.Point]*node
	steps uint32

	finished bool
	path     *Path
	err      error

	scratch []grid.Point
}

// NewSearch prepares a search; it performs no work until Step.
func NewSearch(cost CostMap, opts Options) *Search {
	if opts.Weights == [2]uint32{} {
		opts.Weights = [2]uint32{1, 1}
	}
	s := &Search{
		cost: cost,
		opts: opts,
		open: &openHeap{weights: opts.Weights},
		seen: make(map[grid.Point]*node),
	}
	start := &node{p: opts.Origin, h: s.heuristic(opts.Origin)}
	s.seen[opts.Origin] = start
	heap.Push(s.open, start)
	return s
}

// Step expands up to budget nodes (0 = no bound) and reports whether the
// search has finished. Call Result once it has.
func (s *Search) Step(budget uint32) bool {
	if s.finished {
		return true
	}
	expanded := uint32(0)
	for s.open.Len() > 0 {
		if budget > 0 && expanded >= budget {
			return false
		}
		if s.opts.MaxSteps > 0 && s.steps >= s.opts.MaxSteps {
			return s.finish(nil, ErrStepLimit)
		}
		cur := heap.Pop(s.open).(*node)
		s.steps++
		expanded++

		if cur.p == s.opts.Dest {
			return s.finish(reconstruct(cur), nil)
		}
		s.expand(cur)
	}
	return s.finish(nil, ErrPathNotFound)
}

func (s *Search) expand(cur *node) {
	s.scratch = s.opts.Topology.Neighbors(s.scratch[:0], cur.p, s.allowDiagonal())
	for _, nb := range s.scratch {
		costToPass, ok := s.cost.Cost(nb)
		if !ok {
			continue
		}
		ng := cur.g + costToPass
		if old, ok := s.seen[nb]; ok {
			if old.openIdx < 0 || ng >= old.g {
				continue
			}
			old.g = ng
			old.parent = cur
			heap.Fix(s.open, old.openIdx)
			continue
		}
		n := &node{p: nb, g: ng, h: s.heuristic(nb), parent: cur}
		s.seen[nb] = n
		heap.Push(s.open, n)
	}
}

func (s *Search) allowDiagonal() bool {
	return s.opts.AllowDiagonal && s.opts.Topology != grid.Hexagonal
}

func (s *Search) finish(path *Path, err error) bool {
	s.finished = true
	s.path = path
	s.err = err
	return true
}

// Result returns the outcome of a finished search.
func (s *Search) Result() (*Path, error) {
	if !s.finished {
		return nil, errors.New("navigation: search not finished")
	}
	return s.path, s.err
}

// Steps returns nodes expanded so far.
func (s *Search) Steps() uint32 { return s.steps }

func (s *Search) heuristic(p grid.Point) uint32 {
	dx := p.X - s.opts.Dest.X
	dy := p.Y - s.opts.Dest.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	switch {
	case s.opts.Topology == grid.Hexagonal:
		// Axial distance for the (1,1)/(−1,−1) diagonal neighbor set.
		sameSign := (p.X-s.opts.Dest.X >= 0) == (p.Y-s.opts.Dest.Y >= 0)
		if sameSign {
			if dx > dy {
				return uint32(dx)
			}
			return uint32(dy)
		}
		return uint32(dx + dy)
	case s.allowDiagonal():
		// Chebyshev under uniform diagonal cost.
		if dx > dy {
			return uint32(dx)
		}
		return uint32(dy)
	default:
		return uint32(dx + dy)
	}
}

func reconstruct(goal *node) *Path {
	var rev []grid.Point
	for n := goal; n != nil; n = n.parent {
		rev = append(rev, n.p)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return &Path{points: rev}
}

// FindPath runs a search to completion.
func FindPath(cost CostMap, opts Options) (*Path, error) {
	s := NewSearch(cost, opts)
	s.Step(0)
	return s.Result()
}
