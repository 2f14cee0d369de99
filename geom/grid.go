package geom

// Grid stores a 2D grid of values in row-major order.
type Grid[T comparable] struct {
	d    Dimen
	data []T
}

// NewGrid allocates a grid with the given dimensions. Negative sizes are
// treated as zero.
func NewGrid[T comparable](d Dimen) *Grid[T] {
	d = clampDimen(d)
	return &Grid[T]{d: d, data: make([]T, d.Area())}
}

// GridFrom wraps values as a w*h grid. It copies the slice and pads or
// truncates it to fit.
func GridFrom[T comparable](d Dimen, values []T) *Grid[T] {
	g := NewGrid[T](d)
	copy(g.data, values)
	return g
}

// Dimen returns the grid size.
func (g *Grid[T]) Dimen() Dimen {
	if g == nil {
		return Dimen{}
	}
	return g.d
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T {
	if g == nil {
		return nil
	}
	return g.data
}

// Index returns the linear slice index for c.
func (g *Grid[T]) Index(c Coord) int { return c.Y*g.d.W + c.X }

// InBounds reports whether c addresses a cell.
func (g *Grid[T]) InBounds(c Coord) bool { return g != nil && g.d.Contains(c) }

// At returns the value at c, or the zero value when c is out of bounds.
func (g *Grid[T]) At(c Coord) T {
	var zero T
	if !g.InBounds(c) {
		return zero
	}
	return g.data[g.Index(c)]
}

// Set stores v at c. Out-of-bounds writes are ignored.
func (g *Grid[T]) Set(c Coord, v T) {
	if !g.InBounds(c) {
		return
	}
	g.data[g.Index(c)] = v
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Resize changes the grid size, keeping the overlapping top-left region.
// New cells hold the zero value.
func (g *Grid[T]) Resize(d Dimen) {
	d = clampDimen(d)
	if d == g.d {
		return
	}
	data := make([]T, d.Area())
	for y := 0; y < min(d.H, g.d.H); y++ {
		copy(data[y*d.W:y*d.W+min(d.W, g.d.W)], g.data[y*g.d.W:])
	}
	g.d = d
	g.data = data
}

// Clone returns a deep copy.
func (g *Grid[T]) Clone() *Grid[T] {
	if g == nil {
		return nil
	}
	c := &Grid[T]{d: g.d, data: make([]T, len(g.data))}
	copy(c.data, g.data)
	return c
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if g.Dimen() != o.Dimen() {
		return false
	}
	if g == nil || o == nil {
		return true
	}
	for i := range g.data {
		if g.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func clampDimen(d Dimen) Dimen {
	if d.W < 0 || d.H < 0 {
		return Dimen{}
	}
	return d
}
