package navigation

import "github.com/lodeb/tilewave/grid"

// FlowFieldCache throttles flow field recomputation for a host that calls
// Update every tick. Recompute happens when the target set changes, when a
// target drifts far enough, or when the caller marks costs dirty, and never
// more often than minTicks.
type FlowFieldCache struct {
	Field *FlowField

	lastTargets   []grid.Point
	ticksSince    int
	minTicks      int
	dirtyDistance int

	// Latches on any state change, cleared after compute.
	pending bool
}

// NewFlowFieldCache creates a cache over region. minTicks is the minimum
// tick gap between recomputes; dirtyDistance is how far (Manhattan) a target
// must move to force one.
func NewFlowFieldCache(region grid.Rect, minTicks, dirtyDistance int) *FlowFieldCache {
	return &FlowFieldCache{
		Field:         NewFlowField(region),
		lastTargets:   make([]grid.Point, 0, 8),
		ticksSince:    minTicks, // allow immediate first compute
		minTicks:      minTicks,
		dirtyDistance: dirtyDistance,
		pending:       true,
	}
}

// Resize re-targets the field and forces recomputation.
func (c *FlowFieldCache) Resize(region grid.Rect) {
	c.Field.Resize(region)
	c.lastTargets = c.lastTargets[:0]
	c.pending = true
}

// MarkDirty forces recomputation on the next eligible tick. Call it when the
// cost layer changes under the field.
func (c *FlowFieldCache) MarkDirty() {
	c.pending = true
}

// Update advances one tick and recomputes the field if due, reporting
// whether it did.
func (c *FlowFieldCache) Update(cost CostMap, targets []grid.Point) bool {
	c.ticksSince++

	if len(targets) != len(c.lastTargets) {
		c.pending = true
		c.ticksSince = c.minTicks
	} else {
		for i, t := range targets {
			d := t.Sub(c.lastTargets[i])
			if d.X < 0 {
				d.X = -d.X
			}
			if d.Y < 0 {
				d.Y = -d.Y
			}
			if d.X+d.Y >= c.dirtyDistance {
				c.pending = true
				c.ticksSince = c.minTicks
				break
			}
		}
	}

	if (c.pending && c.ticksSince >= c.minTicks) || !c.Field.Valid() {
		c.Field.Compute(cost, targets...)
		c.lastTargets = append(c.lastTargets[:0], targets...)
		c.ticksSince = 0
		c.pending = false
		return true
	}
	return false
}
