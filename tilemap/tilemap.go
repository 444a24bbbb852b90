package tilemap

import (
	"context"
	"sort"

	"github.com/lodeb/tilewave/grid"
	"github.com/lodeb/tilewave/wfc"
)

// Tilemap is a named, layered, chunked 2D tile grid. Layers share the map's
// chunk size and topology and are created lazily on first use.
type Tilemap struct {
	name      string
	topology  grid.Topology
	chunkSize int
	layers    map[string]*grid.Chunked[Tile]
	path      *PathLayer
}

// New creates an empty map. chunkSize <= 0 selects grid.DefaultChunkSize.
func New(name string, topology grid.Topology, chunkSize int) *Tilemap {
	if chunkSize <= 0 {
		chunkSize = grid.DefaultChunkSize
	}
	return &Tilemap{
		name:      name,
		topology:  topology,
		chunkSize: chunkSize,
		layers:    make(map[string]*grid.Chunked[Tile]),
	}
}

func (m *Tilemap) Name() string            { return m.name }
func (m *Tilemap) Topology() grid.Topology { return m.topology }
func (m *Tilemap) ChunkSize() int          { return m.chunkSize }

// Layer returns the named tile layer, creating it on first access.
func (m *Tilemap) Layer(name string) *grid.Chunked[Tile] {
	l, ok := m.layers[name]
	if !ok {
		l = grid.NewChunked[Tile](m.chunkSize)
		m.layers[name] = l
	}
	return l
}

// LayerNames returns existing layer names in sorted order.
func (m *Tilemap) LayerNames() []string {
	names := make([]string, 0, len(m.layers))
	for n := range m.layers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Paths returns the map's traversal-cost layer, creating it on first access.
// It satisfies navigation.CostMap.
func (m *Tilemap) Paths() *PathLayer {
	if m.path == nil {
		m.path = &PathLayer{cells: grid.NewChunked[uint32](m.chunkSize)}
	}
	return m.path
}

// SetTile writes a tile on a layer.
func (m *Tilemap) SetTile(layer string, p grid.Point, t Tile) {
	m.Layer(layer).Set(p, t)
}

// GetTile reads a tile from a layer.
func (m *Tilemap) GetTile(layer string, p grid.Point) (Tile, bool) {
	return m.Layer(layer).Get(p)
}

// RemoveTile clears a cell on a layer.
func (m *Tilemap) RemoveTile(layer string, p grid.Point) {
	m.Layer(layer).Remove(p)
}

// Fill writes t to every cell of r on a layer.
func (m *Tilemap) Fill(layer string, r grid.Rect, t Tile) {
	m.Layer(layer).FillRect(r, t)
}

// FillFunc writes gen(p) to every cell of r on a layer.
func (m *Tilemap) FillFunc(layer string, r grid.Rect, gen func(grid.Point) Tile) {
	m.Layer(layer).FillRectFunc(r, gen)
}

// ApplyResult writes a solved WFC region back as concrete tiles on a layer,
// marking the touched chunks dirty for downstream re-render or re-save.
func (m *Tilemap) ApplyResult(layer string, res *wfc.Result) {
	l := m.Layer(layer)
	res.Each(func(p grid.Point, o wfc.Option) {
		l.Set(p, Tile{Texture: o})
	})
}

// CapturePattern copies the tiles of r across all layers into a reusable
// pattern anchored at r.Min.
func (m *Tilemap) CapturePattern(r grid.Rect) *Pattern {
	pat := &Pattern{
		Size:   grid.Point{X: r.Width(), Y: r.Height()},
		Layers: make(map[string][]PatternCell),
	}
	for _, name := range m.LayerNames() {
		l := m.layers[name]
		var cells []PatternCell
		r.Each(func(p grid.Point) {
			if t, ok := l.Get(p); ok {
				cells = append(cells, PatternCell{Offset: p.Sub(r.Min), Tile: t})
			}
		})
		if len(cells) > 0 {
			pat.Layers[name] = cells
		}
	}
	return pat
}

// ApplyPattern stamps a pattern with its anchor at origin.
func (m *Tilemap) ApplyPattern(pat *Pattern, origin grid.Point) {
	for name, cells := range pat.Layers {
		l := m.Layer(name)
		for _, c := range cells {
			l.Set(origin.Add(c.Offset), c.Tile)
		}
	}
}

// Collapse runs a WFC solve over region and writes the result onto layer.
// Cancellation follows the collapser contract: checked between collapse
// steps, partial output discarded.
func (m *Tilemap) Collapse(ctx context.Context, rules *wfc.RuleSet, region grid.Rect, cfg wfc.Config, layer string) error {
	res, err := wfc.NewCollapser(rules, region, cfg).Solve(ctx)
	if err != nil {
		return err
	}
	m.ApplyResult(layer, res)
	return nil
}

// CollapseChunks solves each chunk-sized region independently in parallel
// (bounded by maxParallel) and applies every result on success. Each solve
// owns its state; only the rule set is shared. Seeds derive from cfg.Seed so
// a fixed seed still reproduces the whole map.
func (m *Tilemap) CollapseChunks(ctx context.Context, rules *wfc.RuleSet, chunks []grid.Point, cfg wfc.Config, layer string, maxParallel int) error {
	collapsers := make([]*wfc.Collapser, len(chunks))
	for i, cp := range chunks {
		region := grid.Rect{
			Min: grid.Point{X: cp.X * m.chunkSize, Y: cp.Y * m.chunkSize},
			Max: grid.Point{X: cp.X*m.chunkSize + m.chunkSize - 1, Y: cp.Y*m.chunkSize + m.chunkSize - 1},
		}
		sub := cfg
		if sub.Seed != 0 {
			sub.Seed = cfg.Seed + int64(i)*0x9e3779b9
		}
		collapsers[i] = wfc.NewCollapser(rules, region, sub)
	}
	results, err := wfc.SolveAll(ctx, collapsers, maxParallel)
	if err != nil {
		return err
	}
	for _, res := range results {
		m.ApplyResult(layer, res)
	}
	return nil
}

// PathLayer stores per-cell traversal costs for pathfinding. Cells without an
// entry are impassable.
type PathLayer struct {
	cells *grid.Chunked[uint32]
}

// Cost implements navigation.CostMap.
func (l *PathLayer) Cost(p grid.Point) (uint32, bool) {
	return l.cells.Get(p)
}

// SetCost marks p walkable with the given traversal cost.
func (l *PathLayer) SetCost(p grid.Point, cost uint32) {
	l.cells.Set(p, cost)
}

// Remove makes p impassable.
func (l *PathLayer) Remove(p grid.Point) {
	l.cells.Remove(p)
}

// FillCost marks every cell of r walkable at the given cost.
func (l *PathLayer) FillCost(r grid.Rect, cost uint32) {
	l.cells.FillRect(r, cost)
}

// Grid exposes the underlying chunked storage for persistence.
func (l *PathLayer) Grid() *grid.Chunked[uint32] { return l.cells }
