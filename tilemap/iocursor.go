package tilemap

import "github.com/lodeb/tilewave/grid"

// ChunkOp is one pending persistence action.
type ChunkOp uint8

const (
	OpSave ChunkOp = iota
	OpLoad
	OpUnload
)

type pendingOp struct {
	op    ChunkOp
	chunk grid.Point
}

// IOCursor is a resumable queue of chunk save/load/unload work. Callers
// enqueue operations and invoke Step once per tick with a budget, amortizing
// disk I/O across frames instead of blocking a whole save behind one call.
// Not safe for concurrent use; it is a single caller's backpressure tool.
type IOCursor struct {
	m       *Tilemap
	store   *Store
	pending []pendingOp
}

// NewIOCursor creates a cursor over m backed by store.
func NewIOCursor(m *Tilemap, store *Store) *IOCursor {
	return &IOCursor{m: m, store: store}
}

// QueueSave schedules a chunk save.
func (c *IOCursor) QueueSave(cp grid.Point) {
	c.pending = append(c.pending, pendingOp{op: OpSave, chunk: cp})
}

// QueueLoad schedules a chunk load.
func (c *IOCursor) QueueLoad(cp grid.Point) {
	c.pending = append(c.pending, pendingOp{op: OpLoad, chunk: cp})
}

// QueueUnload schedules a save-and-evict.
func (c *IOCursor) QueueUnload(cp grid.Point) {
	c.pending = append(c.pending, pendingOp{op: OpUnload, chunk: cp})
}

// QueueSaveDirty schedules a save for every currently dirty chunk of every
// layer, deduplicated.
func (c *IOCursor) QueueSaveDirty() {
	seen := make(map[grid.Point]bool)
	add := func(cps []grid.Point) {
		for _, cp := range cps {
			if !seen[cp] {
				seen[cp] = true
				c.QueueSave(cp)
			}
		}
	}
	for _, name := range c.m.LayerNames() {
		add(c.m.layers[name].DirtyChunks())
	}
	if c.m.path != nil {
		add(c.m.path.cells.DirtyChunks())
	}
}

// Pending returns the number of queued operations.
func (c *IOCursor) Pending() int { return len(c.pending) }

// Step performs up to budget queued operations (0 = drain everything) and
// returns how many remain. The first failing operation stops the step; the
// failed operation is not retried.
func (c *IOCursor) Step(budget uint32) (int, error) {
	done := uint32(0)
	for len(c.pending) > 0 {
		if budget > 0 && done >= budget {
			break
		}
		op := c.pending[0]
		c.pending = c.pending[1:]
		done++

		var err error
		switch op.op {
		case OpSave:
			err = c.m.SaveChunk(c.store, op.chunk)
		case OpLoad:
			err = c.m.LoadChunk(c.store, op.chunk)
		case OpUnload:
			err = c.m.UnloadChunk(c.store, op.chunk)
		}
		if err != nil {
			return len(c.pending), err
		}
	}
	return len(c.pending), nil
}
