// Package tilemap ties chunked tile storage, pattern stamping, WFC fill and
// chunk persistence into one map facade for a host engine to consume.
package tilemap

import (
	"github.com/lodeb/tilewave/grid"
	"github.com/lodeb/tilewave/wfc"
)

// Tile is the render-facing cell payload. The engine stores it; mesh and
// atlas concerns belong to the host renderer.
type Tile struct {
	// Texture is the atlas index, shared with the WFC option space.
	Texture wfc.Option
	// Flip packs horizontal (bit 0) and vertical (bit 1) mirroring.
	Flip uint8
	// Tint is a linear RGBA multiplier; the zero value means untinted.
	Tint [4]float32
}

const (
	FlipHorizontal uint8 = 1 << iota
	FlipVertical
)

// PatternCell is one tile of a pattern, positioned relative to the pattern
// origin (its lower-left corner).
type PatternCell struct {
	Offset grid.Point
	Tile   Tile
}

// Pattern is a pre-authored multi-layer block of tiles that can be stamped
// onto a map, the pattern-fill counterpart to single-tile writes.
type Pattern struct {
	// Size is the pattern extent in cells.
	Size grid.Point
	// Layers maps layer name to the occupied cells of that layer.
	Layers map[string][]PatternCell
}
