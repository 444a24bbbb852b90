package wfc

import (
	"fmt"

	"github.com/lodeb/tilewave/grid"
)

// contradiction is the internal control-flow signal raised when propagation
// empties a cell's domain. It never surfaces to callers; the collapser always
// converts it to a retrace or, past the budget, a *SolveError.
type contradiction struct {
	cell grid.Point
}

func (c *contradiction) Error() string {
	return fmt.Sprintf("wfc: contradiction at (%d, %d)", c.cell.X, c.cell.Y)
}

// propagation accumulates the side record of one propagation pass: prior
// domains of every cell whose possibilities shrank (for exact rollback) and a
// queue-operation counter (for the termination bound).
type propagation struct {
	touched []snapshot
	ops     int
}

// propagate enforces adjacency consistency outward from seed, whose domain
// just shrank. FIFO worklist: each dequeued cell restricts its in-region
// neighbors to the union of allowed sets over the cell's remaining options;
// a changed neighbor is enqueued in turn. Terminates because domains only
// shrink. On contradiction it aborts immediately with no rollback of its own;
// undo is the collapser's job via the recorded snapshots.
func propagate(wf *Wavefunction, rules *RuleSet, seed grid.Point, rec *propagation) error {
	queue := []grid.Point{seed}
	support := NewDomain(rules.Len())

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		rec.ops++

		curDom := wf.cells[wf.index(cur)].dom

		for d := grid.Direction(0); d < grid.DirCount; d++ {
			nb := cur.Add(d.Offset())
			if !wf.Contains(nb) {
				continue
			}

			support.Clear()
			curDom.Each(func(o Option) {
				support.UnionWith(rules.Allowed(o, d))
			})

			prior := wf.cells[wf.index(nb)].dom.Clone()
			switch wf.Restrict(nb, support) {
			case Unchanged:
				// Not re-enqueued by this event.
			case Changed:
				rec.touched = append(rec.touched, snapshot{cell: nb, prior: prior})
				queue = append(queue, nb)
			case Contradicted:
				rec.touched = append(rec.touched, snapshot{cell: nb, prior: prior})
				return &contradiction{cell: nb}
			}
		}
	}
	return nil
}
