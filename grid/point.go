package grid

// Point is a signed 2D cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Less orders points row-major (Y first, then X). Used for deterministic
// tie-breaking and iteration order.
func (p Point) Less(q Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// Rect is an inclusive axis-aligned cell region.
type Rect struct {
	Min, Max Point
}

// NewRect normalizes the corners so Min <= Max on both axes.
func NewRect(a, b Point) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

func (r Rect) Width() int  { return r.Max.X - r.Min.X + 1 }
func (r Rect) Height() int { return r.Max.Y - r.Min.Y + 1 }
func (r Rect) Area() int   { return r.Width() * r.Height() }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Each visits every cell in the region in row-major order.
func (r Rect) Each(fn func(Point)) {
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			fn(Point{x, y})
		}
	}
}

// divFloor divides rounding toward negative infinity, so chunk indices are
// correct for negative coordinates.
func divFloor(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// modFloor is the remainder matching divFloor; always in [0, b).
func modFloor(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
