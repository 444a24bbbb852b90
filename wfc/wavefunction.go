package wfc

import (
	"fmt"

	"github.com/lodeb/tilewave/grid"
)

// RestrictResult reports the outcome of intersecting a cell's domain.
type RestrictResult uint8

const (
	Unchanged RestrictResult = iota
	Changed
	Contradicted
)

type wfCell struct {
	dom       Domain
	entropy   float64
	choice    Option
	collapsed bool
	heapIdx   int // index into the entropy heap, -1 when not queued
}

// Wavefunction holds the per-cell superposition state for one solve region.
// Each cell starts with the initial domain and only ever shrinks under
// Restrict; the sole exception is restore, used by retrace rollback.
//
// Cells are kept in a binary min-heap keyed by entropy (ties broken by
// row-major coordinate) so the lowest-entropy cell is found in O(log n).
type Wavefunction struct {
	region      grid.Rect
	rules       *RuleSet
	cells       []wfCell
	heap        []int // heap of cell indices
	uncollapsed int
}

// NewWavefunction initializes every cell of region to initial. A nil initial
// domain means the rule set's full option set.
func NewWavefunction(region grid.Rect, rules *RuleSet, initial Domain) *Wavefunction {
	if initial == nil {
		initial = rules.FullDomain()
	}
	n := region.Area()
	wf := &Wavefunction{
		region:      region,
		rules:       rules,
		cells:       make([]wfCell, n),
		heap:        make([]int, 0, n),
		uncollapsed: n,
	}
	h := rules.entropy(initial)
	for i := range wf.cells {
		wf.cells[i] = wfCell{
			dom:     initial.Clone(),
			entropy: h,
			heapIdx: -1,
		}
		wf.heapPush(i)
	}
	return wf
}

// Region returns the solve area.
func (wf *Wavefunction) Region() grid.Rect { return wf.region }

// Contains reports whether p is inside the solve area.
func (wf *Wavefunction) Contains(p grid.Point) bool { return wf.region.Contains(p) }

func (wf *Wavefunction) index(p grid.Point) int {
	return (p.Y-wf.region.Min.Y)*wf.region.Width() + (p.X - wf.region.Min.X)
}

func (wf *Wavefunction) point(i int) grid.Point {
	w := wf.region.Width()
	return grid.Point{X: wf.region.Min.X + i%w, Y: wf.region.Min.Y + i/w}
}

// Possibilities returns a copy of the remaining option set at p.
func (wf *Wavefunction) Possibilities(p grid.Point) Domain {
	return wf.cells[wf.index(p)].dom.Clone()
}

// Entropy returns the cached selection key for p.
func (wf *Wavefunction) Entropy(p grid.Point) float64 {
	return wf.cells[wf.index(p)].entropy
}

// Collapsed returns the chosen option at p, ok when the cell has collapsed.
func (wf *Wavefunction) Collapsed(p grid.Point) (Option, bool) {
	c := &wf.cells[wf.index(p)]
	return c.choice, c.collapsed
}

// Done reports whether every cell has collapsed.
func (wf *Wavefunction) Done() bool { return wf.uncollapsed == 0 }

// Restrict intersects p's domain with allowed. It never grows a domain.
func (wf *Wavefunction) Restrict(p grid.Point, allowed Domain) RestrictResult {
	c := &wf.cells[wf.index(p)]
	if !c.dom.IntersectWith(allowed) {
		return Unchanged
	}
	if c.dom.Empty() {
		return Contradicted
	}
	c.entropy = wf.rules.entropy(c.dom)
	if c.heapIdx >= 0 {
		wf.heapFix(c.heapIdx)
	}
	return Changed
}

// CollapseTo forces p to the single option opt and removes it from the
// selection heap. The caller is responsible for opt being in p's domain.
func (wf *Wavefunction) CollapseTo(p grid.Point, opt Option) {
	c := &wf.cells[wf.index(p)]
	c.dom.Clear()
	c.dom.Add(opt)
	c.choice = opt
	c.entropy = 0
	if !c.collapsed {
		c.collapsed = true
		wf.uncollapsed--
	}
	if c.heapIdx >= 0 {
		wf.heapRemove(c.heapIdx)
	}
}

// restore rewinds p to a prior domain snapshot. Only the retrace path calls
// this; all other mutation is shrink-only.
func (wf *Wavefunction) restore(p grid.Point, dom Domain) {
	c := &wf.cells[wf.index(p)]
	c.dom.CopyFrom(dom)
	c.entropy = wf.rules.entropy(c.dom)
	if c.collapsed {
		c.collapsed = false
		wf.uncollapsed++
	}
	if c.heapIdx >= 0 {
		wf.heapFix(c.heapIdx)
	} else {
		wf.heapPush(wf.index(p))
	}
}

// SelectMin returns the uncollapsed cell with the lowest entropy, ties broken
// by lowest row-major coordinate. ok is false when every cell has collapsed.
func (wf *Wavefunction) SelectMin() (grid.Point, bool) {
	if len(wf.heap) == 0 {
		return grid.Point{}, false
	}
	return wf.point(wf.heap[0]), true
}

// EachCollapsed visits every collapsed cell row-major with its option.
func (wf *Wavefunction) EachCollapsed(fn func(grid.Point, Option)) {
	for i := range wf.cells {
		if wf.cells[i].collapsed {
			fn(wf.point(i), wf.cells[i].choice)
		}
	}
}

// --- entropy heap ---
// Binary min-heap over cell indices with per-cell backpointers, so a cell's
// position can be re-keyed in place after a restrict or restore.

func (wf *Wavefunction) heapLess(a, b int) bool {
	ca, cb := &wf.cells[wf.heap[a]], &wf.cells[wf.heap[b]]
	if ca.entropy != cb.entropy {
		return ca.entropy < cb.entropy
	}
	return wf.heap[a] < wf.heap[b]
}

func (wf *Wavefunction) heapSwap(a, b int) {
	wf.heap[a], wf.heap[b] = wf.heap[b], wf.heap[a]
	wf.cells[wf.heap[a]].heapIdx = a
	wf.cells[wf.heap[b]].heapIdx = b
}

func (wf *Wavefunction) heapPush(ci int) {
	wf.heap = append(wf.heap, ci)
	wf.cells[ci].heapIdx = len(wf.heap) - 1
	wf.siftUp(len(wf.heap) - 1)
}

func (wf *Wavefunction) heapRemove(i int) {
	last := len(wf.heap) - 1
	wf.cells[wf.heap[i]].heapIdx = -1
	if i != last {
		wf.heap[i] = wf.heap[last]
		wf.cells[wf.heap[i]].heapIdx = i
	}
	wf.heap = wf.heap[:last]
	if i < last {
		wf.heapFix(i)
	}
}

func (wf *Wavefunction) heapFix(i int) {
	if !wf.siftDown(i) {
		wf.siftUp(i)
	}
}

func (wf *Wavefunction) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !wf.heapLess(i, parent) {
			break
		}
		wf.heapSwap(i, parent)
		i = parent
	}
}

func (wf *Wavefunction) siftDown(i int) bool {
	moved := false
	n := len(wf.heap)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		least := left
		if right := left + 1; right < n && wf.heapLess(right, left) {
			least = right
		}
		if !wf.heapLess(least, i) {
			break
		}
		wf.heapSwap(i, least)
		i = least
		moved = true
	}
	return moved
}

// checkHeap validates backpointers; used by tests.
func (wf *Wavefunction) checkHeap() error {
	for i, ci := range wf.heap {
		if wf.cells[ci].heapIdx != i {
			return fmt.Errorf("wfc: heap backpointer mismatch at %d", i)
		}
	}
	return nil
}
