package layer

import "github.com/milk9111/mapfab/geom"

const (
	MetatilePickerSize = 16
	MaxLevelSize       = 256
)

// MetatileLayer places metatiles on a level grid of 1..256 cells per side.
type MetatileLayer struct {
	selections
	tiles *geom.Grid[uint8]
}

func NewMetatileLayer(d geom.Dimen) *MetatileLayer {
	d = clampLevel(d)
	return &MetatileLayer{
		selections: newSelections(geom.Dimen{W: MetatilePickerSize, H: MetatilePickerSize}, d),
		tiles:      geom.NewGrid[uint8](d),
	}
}

func (l *MetatileLayer) Kind() Kind { return KindMetatiles }

func (l *MetatileLayer) CanvasDimen() geom.Dimen { return l.tiles.Dimen() }

func (l *MetatileLayer) Get(c geom.Coord) uint16 { return uint16(l.tiles.At(c)) }

func (l *MetatileLayer) Set(c geom.Coord, code uint16) { l.tiles.Set(c, uint8(code)) }

func (l *MetatileLayer) Reset(c geom.Coord) { l.tiles.Set(c, 0) }

func (l *MetatileLayer) ToTile(p geom.Coord) uint16 {
	return uint16(p.X + p.Y*MetatilePickerSize)
}

func (l *MetatileLayer) ToPick(code uint16) geom.Coord {
	t := int(code & 0xFF)
	return geom.Coord{X: t % MetatilePickerSize, Y: t / MetatilePickerSize}
}

// Resize changes the level size, keeping the overlapping top-left region.
func (l *MetatileLayer) Resize(d geom.Dimen) {
	d = clampLevel(d)
	l.tiles.Resize(d)
	l.canvas.Resize(d)
}

// Tiles exposes the level grid.
func (l *MetatileLayer) Tiles() *geom.Grid[uint8] { return l.tiles }

// SetTiles replaces the level grid wholesale, resizing the canvas selection
// to match.
func (l *MetatileLayer) SetTiles(g *geom.Grid[uint8]) {
	if g == nil {
		return
	}
	l.tiles = g.Clone()
	l.canvas.Resize(l.tiles.Dimen())
}

func clampLevel(d geom.Dimen) geom.Dimen {
	return geom.Dimen{
		W: max(1, min(d.W, MaxLevelSize)),
		H: max(1, min(d.H, MaxLevelSize)),
	}
}
