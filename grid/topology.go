package grid

// Direction indexes the four compass neighbors in rule-file order.
// The order is fixed: up, right, left, down.
type Direction uint8

const (
	Up Direction = iota
	Right
	Left
	Down
	DirCount = 4
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	}
	return "invalid"
}

// Opposite returns the reverse direction (Up<->Down, Right<->Left).
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Left:
		return Right
	case Down:
		return Up
	}
	return d
}

// Offset is the cell offset one step in d on a square grid.
// +Y is up to match the rule-file convention.
func (d Direction) Offset() Point {
	switch d {
	case Up:
		return Point{0, 1}
	case Right:
		return Point{1, 0}
	case Left:
		return Point{-1, 0}
	case Down:
		return Point{0, -1}
	}
	return Point{}
}

// Topology selects the neighbor-offset set for a map shape. It affects only
// which cells count as adjacent, not any algorithm built on top.
type Topology uint8

const (
	Square Topology = iota
	Isometric
	Hexagonal
)

func (t Topology) String() string {
	switch t {
	case Square:
		return "square"
	case Isometric:
		return "isometric"
	case Hexagonal:
		return "hexagonal"
	}
	return "invalid"
}

// Square and isometric diamond share cell adjacency; isometric differs only in
// screen projection, which is not a storage concern.
var squareOrtho = [4]Point{
	{0, 1}, {1, 0}, {-1, 0}, {0, -1},
}

var squareDiag = [4]Point{
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// Axial hex neighbors.
var hexOffsets = [6]Point{
	{1, 1}, {-1, -1}, {1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// Neighbors appends the adjacent cells of p to dst and returns it.
// For Square/Isometric the first four results follow Direction order;
// diagonal expansion only applies to those shapes.
func (t Topology) Neighbors(dst []Point, p Point, diagonal bool) []Point {
	switch t {
	case Hexagonal:
		for _, o := range hexOffsets {
			dst = append(dst, p.Add(o))
		}
	default:
		for _, o := range squareOrtho {
			dst = append(dst, p.Add(o))
		}
		if diagonal {
			for _, o := range squareDiag {
				dst = append(dst, p.Add(o))
			}
		}
	}
	return dst
}
