package grid

import "sort"

// DefaultChunkSize is the edge length of a chunk in cells.
const DefaultChunkSize = 16

type chunk[T any] struct {
	cells   []T
	present []bool
	count   int
	dirty   bool
}

// ChunkData is the raw payload of one chunk, handed out on unload and accepted
// back on load. The storage treats it as opaque cell state; persistence layers
// decide how to serialize it.
type ChunkData[T any] struct {
	Cells   []T
	Present []bool
}

// Chunked is a sparse 2D grid partitioned into fixed-size square chunks.
// Chunks are created lazily on first write and can be loaded/unloaded
// independently. A cell belongs to exactly one chunk, found by floor-dividing
// its coordinate by the chunk size.
//
// Chunked is not safe for concurrent mutation; callers coordinating chunk
// load/unload across goroutines must serialize per chunk.
type Chunked[T any] struct {
	chunkSize int
	chunks    map[Point]*chunk[T]

	bounds    Rect
	hasBounds bool
}

// NewChunked creates an empty grid. chunkSize <= 0 selects DefaultChunkSize.
func NewChunked[T any](chunkSize int) *Chunked[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Chunked[T]{
		chunkSize: chunkSize,
		chunks:    make(map[Point]*chunk[T]),
	}
}

func (g *Chunked[T]) ChunkSize() int { return g.chunkSize }

// ChunkCoord returns the index of the chunk owning p.
func (g *Chunked[T]) ChunkCoord(p Point) Point {
	return Point{divFloor(p.X, g.chunkSize), divFloor(p.Y, g.chunkSize)}
}

func (g *Chunked[T]) cellIndex(p Point) int {
	return modFloor(p.Y, g.chunkSize)*g.chunkSize + modFloor(p.X, g.chunkSize)
}

// Get returns the value at p and whether the cell is occupied.
func (g *Chunked[T]) Get(p Point) (T, bool) {
	var zero T
	c, ok := g.chunks[g.ChunkCoord(p)]
	if !ok {
		return zero, false
	}
	i := g.cellIndex(p)
	if !c.present[i] {
		return zero, false
	}
	return c.cells[i], true
}

// Set writes v at p, creating the owning chunk if needed and marking it dirty.
func (g *Chunked[T]) Set(p Point, v T) {
	cp := g.ChunkCoord(p)
	c, ok := g.chunks[cp]
	if !ok {
		c = g.newChunk()
		g.chunks[cp] = c
	}
	i := g.cellIndex(p)
	if !c.present[i] {
		c.present[i] = true
		c.count++
	}
	c.cells[i] = v
	c.dirty = true
	g.extendBounds(p)
}

// Remove clears the cell at p. Removing an absent cell is a no-op.
func (g *Chunked[T]) Remove(p Point) {
	c, ok := g.chunks[g.ChunkCoord(p)]
	if !ok {
		return
	}
	i := g.cellIndex(p)
	if !c.present[i] {
		return
	}
	var zero T
	c.cells[i] = zero
	c.present[i] = false
	c.count--
	c.dirty = true
}

// FillRect writes v to every cell of r.
func (g *Chunked[T]) FillRect(r Rect, v T) {
	r.Each(func(p Point) { g.Set(p, v) })
}

// FillRectFunc writes gen(p) to every cell of r.
func (g *Chunked[T]) FillRectFunc(r Rect, gen func(Point) T) {
	r.Each(func(p Point) { g.Set(p, gen(p)) })
}

func (g *Chunked[T]) newChunk() *chunk[T] {
	n := g.chunkSize * g.chunkSize
	return &chunk[T]{
		cells:   make([]T, n),
		present: make([]bool, n),
	}
}

func (g *Chunked[T]) extendBounds(p Point) {
	if !g.hasBounds {
		g.bounds = Rect{Min: p, Max: p}
		g.hasBounds = true
		return
	}
	if p.X < g.bounds.Min.X {
		g.bounds.Min.X = p.X
	}
	if p.Y < g.bounds.Min.Y {
		g.bounds.Min.Y = p.Y
	}
	if p.X > g.bounds.Max.X {
		g.bounds.Max.X = p.X
	}
	if p.Y > g.bounds.Max.Y {
		g.bounds.Max.Y = p.Y
	}
}

// Bounds returns the extent touched by writes so far. Removals do not shrink
// it. ok is false for a grid that has never been written.
func (g *Chunked[T]) Bounds() (Rect, bool) {
	return g.bounds, g.hasBounds
}

// Len returns the number of occupied cells.
func (g *Chunked[T]) Len() int {
	n := 0
	for _, c := range g.chunks {
		n += c.count
	}
	return n
}

// Each visits occupied cells. The order is unspecified but stable within a
// call: chunks in sorted index order, cells row-major inside each chunk.
// Returning false stops the walk.
func (g *Chunked[T]) Each(fn func(Point, T) bool) {
	for _, cp := range g.sortedChunkCoords() {
		c := g.chunks[cp]
		base := Point{cp.X * g.chunkSize, cp.Y * g.chunkSize}
		for i, ok := range c.present {
			if !ok {
				continue
			}
			p := Point{base.X + i%g.chunkSize, base.Y + i/g.chunkSize}
			if !fn(p, c.cells[i]) {
				return
			}
		}
	}
}

func (g *Chunked[T]) sortedChunkCoords() []Point {
	coords := make([]Point, 0, len(g.chunks))
	for cp := range g.chunks {
		coords = append(coords, cp)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// LoadedChunks returns the indices of resident chunks in sorted order.
func (g *Chunked[T]) LoadedChunks() []Point {
	return g.sortedChunkCoords()
}

// HasChunk reports whether the chunk at cp is resident.
func (g *Chunked[T]) HasChunk(cp Point) bool {
	_, ok := g.chunks[cp]
	return ok
}

// LoadChunk installs a previously unloaded payload at chunk index cp.
// Loading an already resident chunk is a no-op and returns false. A nil
// payload creates an empty chunk. Loaded chunks start clean.
func (g *Chunked[T]) LoadChunk(cp Point, data *ChunkData[T]) bool {
	if _, ok := g.chunks[cp]; ok {
		return false
	}
	c := g.newChunk()
	if data != nil {
		copy(c.cells, data.Cells)
		for i, ok := range data.Present {
			if i >= len(c.present) {
				break
			}
			if ok {
				c.present[i] = true
				c.count++
			}
		}
	}
	g.chunks[cp] = c
	return true
}

// SnapshotChunk returns a copy of the chunk payload at cp without evicting
// it, for save-while-resident persistence.
func (g *Chunked[T]) SnapshotChunk(cp Point) (*ChunkData[T], bool) {
	c, ok := g.chunks[cp]
	if !ok {
		return nil, false
	}
	data := &ChunkData[T]{
		Cells:   make([]T, len(c.cells)),
		Present: make([]bool, len(c.present)),
	}
	copy(data.Cells, c.cells)
	copy(data.Present, c.present)
	return data, true
}

// UnloadChunk evicts the chunk at cp and returns its payload. Unloading a
// non-resident chunk is a no-op, not an error.
func (g *Chunked[T]) UnloadChunk(cp Point) (*ChunkData[T], bool) {
	c, ok := g.chunks[cp]
	if !ok {
		return nil, false
	}
	delete(g.chunks, cp)
	return &ChunkData[T]{Cells: c.cells, Present: c.present}, true
}

// DirtyChunks returns the indices of chunks mutated since their dirty flag was
// last cleared, in sorted order.
func (g *Chunked[T]) DirtyChunks() []Point {
	var coords []Point
	for cp, c := range g.chunks {
		if c.dirty {
			coords = append(coords, cp)
		}
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// ClearDirty resets the dirty flag on the chunk at cp, typically after the
// chunk has been re-rendered or saved.
func (g *Chunked[T]) ClearDirty(cp Point) {
	if c, ok := g.chunks[cp]; ok {
		c.dirty = false
	}
}
