package layer

import "github.com/milk9111/mapfab/geom"

const (
	CHRCanvasSize = 32
	CHRPickerSize = 16
)

// CHRLayer edits the 32x32 CHR tiles of a metatile set. Every 2x2 block of
// tiles shares one 2-bit attribute, packed into bits 8-9 of each code.
type CHRLayer struct {
	selections
	tiles      *geom.Grid[uint8]
	attributes *geom.Grid[uint8]

	// Active is the attribute folded into picked codes.
	Active uint8
}

func NewCHRLayer() *CHRLayer {
	canvas := geom.Dimen{W: CHRCanvasSize, H: CHRCanvasSize}
	return &CHRLayer{
		selections: newSelections(geom.Dimen{W: CHRPickerSize, H: CHRPickerSize}, canvas),
		tiles:      geom.NewGrid[uint8](canvas),
		attributes: geom.NewGrid[uint8](canvas.Div(2)),
	}
}

func (l *CHRLayer) Kind() Kind { return KindCHR }

func (l *CHRLayer) CanvasDimen() geom.Dimen { return l.tiles.Dimen() }

func (l *CHRLayer) Get(c geom.Coord) uint16 {
	return uint16(l.tiles.At(c)) | uint16(l.attributes.At(c.Div(2)))<<8
}

func (l *CHRLayer) Set(c geom.Coord, code uint16) {
	if !l.tiles.InBounds(c) {
		return
	}
	l.tiles.Set(c, uint8(code))
	l.attributes.Set(c.Div(2), uint8(code>>8)&3)
}

// Reset clears the tile; the block attribute is left alone.
func (l *CHRLayer) Reset(c geom.Coord) { l.tiles.Set(c, 0) }

func (l *CHRLayer) ToTile(p geom.Coord) uint16 {
	return uint16(p.X+p.Y*CHRPickerSize) | uint16(l.Active&3)<<8
}

func (l *CHRLayer) ToPick(code uint16) geom.Coord {
	t := int(code & 0xFF)
	return geom.Coord{X: t % CHRPickerSize, Y: t / CHRPickerSize}
}

// FillAttribute sets the attribute of every block holding a selected cell to
// Active.
func (l *CHRLayer) FillAttribute() Snapshot {
	r := canvasRect(l)
	if r.Empty() {
		return Snapshot{}
	}
	snap := Save(l, r)
	l.canvas.ForEachSelected(func(c geom.Coord) {
		l.attributes.Set(c.Div(2), l.Active&3)
	})
	return snap
}

// Tiles exposes the 32x32 tile grid.
func (l *CHRLayer) Tiles() *geom.Grid[uint8] { return l.tiles }

// Attributes exposes the 16x16 attribute grid.
func (l *CHRLayer) Attributes() *geom.Grid[uint8] { return l.attributes }
