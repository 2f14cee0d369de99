package layer

import "github.com/milk9111/mapfab/geom"

// SelectionMap is a boolean grid with a bounding rectangle kept in sync with
// the selected cells. Selecting grows the rect; deselecting rescans it.
type SelectionMap struct {
	cells *geom.Grid[bool]
	rect  geom.Rect
}

// NewSelectionMap returns an empty selection over d.
func NewSelectionMap(d geom.Dimen) *SelectionMap {
	return &SelectionMap{cells: geom.NewGrid[bool](d)}
}

// Dimen returns the selection domain.
func (s *SelectionMap) Dimen() geom.Dimen { return s.cells.Dimen() }

// Rect returns the minimal rect covering every selected cell.
func (s *SelectionMap) Rect() geom.Rect { return s.rect }

// Empty reports whether no cell is selected.
func (s *SelectionMap) Empty() bool { return s.rect.Empty() }

// Selected reports whether c is selected. Out-of-domain cells never are.
func (s *SelectionMap) Selected(c geom.Coord) bool { return s.cells.At(c) }

// SelectAll selects or clears the whole domain.
func (s *SelectionMap) SelectAll(selected bool) {
	s.cells.Fill(selected)
	if selected {
		s.rect = geom.RectOf(s.Dimen()).Crop(s.Dimen())
	} else {
		s.rect = geom.Rect{}
	}
}

// Select sets a single cell. Cells outside the domain are ignored.
func (s *SelectionMap) Select(c geom.Coord, selected bool) {
	if !s.cells.InBounds(c) {
		return
	}
	s.cells.Set(c, selected)
	if selected {
		s.rect = s.rect.Grow(c)
	} else {
		s.recalc(s.rect)
	}
}

// SelectRect sets every cell of r, cropped to the domain.
func (s *SelectionMap) SelectRect(r geom.Rect, selected bool) {
	r = r.Crop(s.Dimen())
	if r.Empty() {
		return
	}
	r.ForEach(func(c geom.Coord) { s.cells.Set(c, selected) })
	if selected {
		s.rect = s.rect.Union(r)
	} else {
		s.recalc(s.rect)
	}
}

// Invert flips every cell of the domain.
func (s *SelectionMap) Invert() {
	cells := s.cells.Cells()
	for i := range cells {
		cells[i] = !cells[i]
	}
	s.recalc(geom.RectOf(s.Dimen()))
}

// Resize truncates or extends the domain; new cells start unselected.
func (s *SelectionMap) Resize(d geom.Dimen) {
	s.cells.Resize(d)
	s.recalc(geom.RectOf(s.Dimen()))
}

// ForEachSelected calls fn for every selected cell in row-major order.
func (s *SelectionMap) ForEachSelected(fn func(geom.Coord)) {
	s.rect.ForEach(func(c geom.Coord) {
		if s.cells.At(c) {
			fn(c)
		}
	})
}

// recalc rebuilds the bounding rect from the selected cells inside within.
// Every selected cell must lie inside within.
func (s *SelectionMap) recalc(within geom.Rect) {
	var r geom.Rect
	within.Crop(s.Dimen()).ForEach(func(c geom.Coord) {
		if s.cells.At(c) {
			r = r.Grow(c)
		}
	})
	s.rect = r
}
