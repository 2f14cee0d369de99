// Package layer implements the selection-driven editing surfaces: palette
// colors, CHR tiles with attributes, collision codes, level metatiles and
// level objects.
package layer

import "github.com/milk9111/mapfab/geom"

// TileLayer is a grid of codes edited through a picker selection over a fixed
// source grid and a canvas selection over the destination grid.
type TileLayer interface {
	Kind() Kind
	CanvasDimen() geom.Dimen
	Get(c geom.Coord) uint16
	Set(c geom.Coord, code uint16)
	Reset(c geom.Coord)
	ToTile(pick geom.Coord) uint16
	ToPick(code uint16) geom.Coord
	Picker() *SelectionMap
	Canvas() *SelectionMap
}

// Snapshot holds the codes of a canvas rect. The zero Snapshot is empty and
// restoring it does nothing.
type Snapshot struct {
	Rect  geom.Rect
	Codes []uint16
}

// Empty reports whether the snapshot covers no cells.
func (s Snapshot) Empty() bool { return s.Rect.Empty() }

type selections struct {
	picker *SelectionMap
	canvas *SelectionMap
}

func newSelections(picker, canvas geom.Dimen) selections {
	return selections{picker: NewSelectionMap(picker), canvas: NewSelectionMap(canvas)}
}

func (s selections) Picker() *SelectionMap { return s.picker }
func (s selections) Canvas() *SelectionMap { return s.canvas }

// Save captures r, cropped to the canvas.
func Save(l TileLayer, r geom.Rect) Snapshot {
	r = r.Crop(l.CanvasDimen())
	if r.Empty() {
		return Snapshot{}
	}
	codes := make([]uint16, 0, r.D.Area())
	r.ForEach(func(c geom.Coord) { codes = append(codes, l.Get(c)) })
	return Snapshot{Rect: r, Codes: codes}
}

// Restore writes s back and returns a snapshot of what it overwrote.
func Restore(l TileLayer, s Snapshot) Snapshot {
	if s.Empty() {
		return Snapshot{}
	}
	inverse := Save(l, s.Rect)
	d := l.CanvasDimen()
	i := 0
	s.Rect.ForEach(func(c geom.Coord) {
		if i < len(s.Codes) && d.Contains(c) {
			l.Set(c, s.Codes[i])
		}
		i++
	})
	return inverse
}

func canvasRect(l TileLayer) geom.Rect {
	return l.Canvas().Rect().Crop(l.CanvasDimen())
}

// Copy returns the canvas selection's bounding rect as a payload. Unselected
// cells inside the rect hold Empty. When cut is set the selected cells are
// reset and the snapshot taken before the reset is returned.
func Copy(l TileLayer, cut bool) (Payload, Snapshot) {
	r := canvasRect(l)
	tiles := geom.NewGrid[uint16](r.D)
	tiles.Fill(Empty)

	var snap Snapshot
	if cut {
		snap = Save(l, r)
	}
	r.ForEach(func(c geom.Coord) {
		if !l.Canvas().Selected(c) {
			return
		}
		tiles.Set(c.Sub(r.C), l.Get(c))
		if cut {
			l.Reset(c)
		}
	})
	return Payload{Kind: l.Kind(), Tiles: tiles}, snap
}

// PasteRect returns the canvas rect Paste would touch.
func PasteRect(p Payload, at geom.Coord) geom.Rect {
	return geom.Rect{C: at, D: p.Tiles.Dimen()}
}

// Paste writes every non-Empty payload cell with its top-left at at.
func Paste(l TileLayer, p Payload, at geom.Coord) {
	if p.Kind != l.Kind() || p.Tiles == nil {
		return
	}
	d := l.CanvasDimen()
	geom.RectOf(p.Tiles.Dimen()).ForEach(func(c geom.Coord) {
		code := p.Tiles.At(c)
		dst := at.Add(c)
		if code == Empty || !d.Contains(dst) {
			return
		}
		l.Set(dst, code)
	})
}

// tile repeats a pattern of size pd over the selected canvas cells, anchored
// at the canvas selection's top-left corner.
func tile(l TileLayer, pd geom.Dimen, code func(geom.Coord) uint16) Snapshot {
	r := canvasRect(l)
	if r.Empty() || pd.Empty() {
		return Snapshot{}
	}
	snap := Save(l, r)
	l.Canvas().ForEachSelected(func(c geom.Coord) {
		o := c.Sub(r.C)
		v := code(geom.Coord{X: o.X % pd.W, Y: o.Y % pd.H})
		if v != Empty {
			l.Set(c, v)
		}
	})
	return snap
}

// Fill tiles the picker pattern over the canvas selection.
func Fill(l TileLayer) Snapshot {
	pr := l.Picker().Rect()
	return tile(l, pr.D, func(o geom.Coord) uint16 {
		return l.ToTile(o.Add(pr.C))
	})
}

// FillPaste tiles a payload over the canvas selection, skipping Empty cells.
func FillPaste(l TileLayer, p Payload) Snapshot {
	if p.Kind != l.Kind() || p.Tiles == nil {
		return Snapshot{}
	}
	return tile(l, p.Tiles.Dimen(), p.Tiles.At)
}

// Dropper selects the picker cell that produces the code under c.
func Dropper(l TileLayer, c geom.Coord) {
	if !l.CanvasDimen().Contains(c) {
		return
	}
	l.Picker().SelectAll(false)
	l.Picker().Select(l.ToPick(l.Get(c)), true)
}

// Stamp writes the selected picker cells with the picker rect's top-left at
// at.
func Stamp(l TileLayer, at geom.Coord) Snapshot {
	pr := l.Picker().Rect()
	if pr.Empty() {
		return Snapshot{}
	}
	snap := Save(l, geom.Rect{C: at, D: pr.D})
	if snap.Empty() {
		return snap
	}
	d := l.CanvasDimen()
	l.Picker().ForEachSelected(func(p geom.Coord) {
		dst := at.Add(p.Sub(pr.C))
		if d.Contains(dst) {
			l.Set(dst, l.ToTile(p))
		}
	})
	return snap
}
