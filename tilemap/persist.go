package tilemap

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lodeb/tilewave/grid"
)

// ChunkRecord is the persisted payload of one chunk coordinate: every tile
// layer's cells plus the path-cost cells, kept opaque to the grid layer.
type ChunkRecord struct {
	Layers map[string]*grid.ChunkData[Tile]
	Costs  *grid.ChunkData[uint32]
}

// Store persists chunk records as one file per (map name, chunk coordinate)
// under a base directory. Concurrent use is safe for distinct chunks; callers
// must serialize operations on the same chunk.
type Store struct {
	base string
}

// NewStore roots a store at base, creating it if needed.
func NewStore(base string) (*Store, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("tilemap: create store dir: %w", err)
	}
	return &Store{base: base}, nil
}

func (s *Store) chunkPath(mapName string, cp grid.Point) string {
	return filepath.Join(s.base, mapName, fmt.Sprintf("%d_%d.chunk", cp.X, cp.Y))
}

// Save writes a chunk record, replacing any previous payload.
func (s *Store) Save(mapName string, cp grid.Point, rec *ChunkRecord) error {
	path := s.chunkPath(mapName, cp)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tilemap: create map dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tilemap: create chunk file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(rec); err != nil {
		f.Close()
		return fmt.Errorf("tilemap: encode chunk %v: %w", cp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("tilemap: close chunk file: %w", err)
	}
	return nil
}

// Load reads a chunk record. ok is false when the chunk was never saved.
func (s *Store) Load(mapName string, cp grid.Point) (*ChunkRecord, bool, error) {
	f, err := os.Open(s.chunkPath(mapName, cp))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tilemap: open chunk file: %w", err)
	}
	defer f.Close()
	var rec ChunkRecord
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return nil, false, fmt.Errorf("tilemap: decode chunk %v: %w", cp, err)
	}
	return &rec, true, nil
}

// Delete removes a saved chunk; deleting an unsaved chunk is a no-op.
func (s *Store) Delete(mapName string, cp grid.Point) error {
	err := os.Remove(s.chunkPath(mapName, cp))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// SaveChunk snapshots the resident chunk at cp across all layers into the
// store and clears its dirty flags. Saving a non-resident chunk is a no-op.
func (m *Tilemap) SaveChunk(store *Store, cp grid.Point) error {
	rec := &ChunkRecord{Layers: make(map[string]*grid.ChunkData[Tile])}
	occupied := false
	for _, name := range m.LayerNames() {
		if data, ok := m.layers[name].SnapshotChunk(cp); ok {
			rec.Layers[name] = data
			occupied = true
		}
	}
	if m.path != nil {
		if data, ok := m.path.cells.SnapshotChunk(cp); ok {
			rec.Costs = data
			occupied = true
		}
	}
	if !occupied {
		return nil
	}
	if err := store.Save(m.name, cp, rec); err != nil {
		return err
	}
	for _, name := range m.LayerNames() {
		m.layers[name].ClearDirty(cp)
	}
	if m.path != nil {
		m.path.cells.ClearDirty(cp)
	}
	return nil
}

// UnloadChunk saves the chunk at cp and evicts it from every layer.
// Unloading a non-resident chunk is a no-op.
func (m *Tilemap) UnloadChunk(store *Store, cp grid.Point) error {
	if err := m.SaveChunk(store, cp); err != nil {
		return err
	}
	for _, name := range m.LayerNames() {
		m.layers[name].UnloadChunk(cp)
	}
	if m.path != nil {
		m.path.cells.UnloadChunk(cp)
	}
	return nil
}

// LoadChunk restores the chunk at cp from the store. Loading an already
// resident chunk (or one never saved) is a no-op.
func (m *Tilemap) LoadChunk(store *Store, cp grid.Point) error {
	rec, ok, err := store.Load(m.name, cp)
	if err != nil || !ok {
		return err
	}
	for name, data := range rec.Layers {
		m.Layer(name).LoadChunk(cp, data)
	}
	if rec.Costs != nil {
		m.Paths().cells.LoadChunk(cp, rec.Costs)
	}
	return nil
}
