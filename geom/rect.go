// Package geom holds the integer coordinate types and the row-major grid
// shared by every editing layer.
package geom

// Coord is a cell position.
type Coord struct {
	X, Y int
}

// Add returns c+o.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y} }

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y} }

// Div divides both components by n.
func (c Coord) Div(n int) Coord { return Coord{c.X / n, c.Y / n} }

// Dimen is a width/height pair.
type Dimen struct {
	W, H int
}

// Area returns W*H, or 0 for a degenerate dimension.
func (d Dimen) Area() int {
	if d.W <= 0 || d.H <= 0 {
		return 0
	}
	return d.W * d.H
}

// Div divides both sides by n.
func (d Dimen) Div(n int) Dimen { return Dimen{d.W / n, d.H / n} }

// Empty reports whether the dimension covers no cells.
func (d Dimen) Empty() bool { return d.Area() == 0 }

// Contains reports whether c lies in [0,W)x[0,H).
func (d Dimen) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < d.W && c.Y < d.H
}

// Rect is an origin plus a dimension. The zero Rect is empty.
type Rect struct {
	C Coord
	D Dimen
}

// RectOf returns the rect covering all of d.
func RectOf(d Dimen) Rect { return Rect{D: d} }

// RectFromCoords returns the smallest rect containing both a and b (inclusive).
func RectFromCoords(a, b Coord) Rect {
	minX, maxX := minmax(a.X, b.X)
	minY, maxY := minmax(a.Y, b.Y)
	return Rect{C: Coord{minX, minY}, D: Dimen{maxX - minX + 1, maxY - minY + 1}}
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.D.Empty() }

// End returns the exclusive bottom-right corner.
func (r Rect) End() Coord { return Coord{r.C.X + r.D.W, r.C.Y + r.D.H} }

// Contains reports whether c lies inside r.
func (r Rect) Contains(c Coord) bool {
	e := r.End()
	return c.X >= r.C.X && c.Y >= r.C.Y && c.X < e.X && c.Y < e.Y
}

// Union returns the smallest rect containing r and o. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	re, oe := r.End(), o.End()
	c := Coord{min(r.C.X, o.C.X), min(r.C.Y, o.C.Y)}
	e := Coord{max(re.X, oe.X), max(re.Y, oe.Y)}
	return Rect{C: c, D: Dimen{e.X - c.X, e.Y - c.Y}}
}

// Grow returns the smallest rect containing r and the cell c.
func (r Rect) Grow(c Coord) Rect {
	return r.Union(Rect{C: c, D: Dimen{1, 1}})
}

// Crop clips r to [0,d). The result is the zero Rect when nothing remains.
func (r Rect) Crop(d Dimen) Rect {
	if r.Empty() {
		return Rect{}
	}
	e := r.End()
	c := Coord{max(r.C.X, 0), max(r.C.Y, 0)}
	e = Coord{min(e.X, d.W), min(e.Y, d.H)}
	if e.X <= c.X || e.Y <= c.Y {
		return Rect{}
	}
	return Rect{C: c, D: Dimen{e.X - c.X, e.Y - c.Y}}
}

// ForEach calls fn for every cell of r in row-major order.
func (r Rect) ForEach(fn func(Coord)) {
	if r.Empty() {
		return
	}
	e := r.End()
	for y := r.C.Y; y < e.Y; y++ {
		for x := r.C.X; x < e.X; x++ {
			fn(Coord{x, y})
		}
	}
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
