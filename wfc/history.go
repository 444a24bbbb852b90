package wfc

import "github.com/lodeb/tilewave/grid"

// snapshot is one cell's domain before a mutation.
type snapshot struct {
	cell  grid.Point
	prior Domain
}

// historyEntry records everything needed to undo one collapse decision: the
// coordinate and option chosen, plus the prior domain of every cell touched
// by the propagation that followed.
type historyEntry struct {
	cell    grid.Point
	choice  Option
	touched []snapshot
}

// history is an append-only bounded undo log. When entries exceed maxRetained
// the oldest are dropped; a later retrace that would have needed them is
// reported as starved rather than silently weakened.
type history struct {
	entries     []historyEntry
	maxRetained int
}

func newHistory(maxRetained int) *history {
	return &history{maxRetained: maxRetained}
}

func (h *history) push(e historyEntry) {
	h.entries = append(h.entries, e)
	if h.maxRetained > 0 && len(h.entries) > h.maxRetained {
		drop := len(h.entries) - h.maxRetained
		h.entries = append(h.entries[:0], h.entries[drop:]...)
	}
}

func (h *history) len() int { return len(h.entries) }

// popN removes up to n newest entries and returns them in pop order (newest
// first). starved is true when fewer than n were available; the caller must
// treat a starved retrace as unrecoverable, never invent history.
func (h *history) popN(n int) (popped []historyEntry, starved bool) {
	avail := len(h.entries)
	take := n
	if take > avail {
		take = avail
	}
	popped = make([]historyEntry, 0, take)
	for i := 0; i < take; i++ {
		last := len(h.entries) - 1
		popped = append(popped, h.entries[last])
		h.entries = h.entries[:last]
	}
	return popped, take < n
}
