package layer

import "github.com/milk9111/mapfab/geom"

const (
	CollisionCanvasSize = 16
	CollisionPickerSize = 8
)

// CollisionLayer assigns one of 64 collision codes to each metatile of a set.
type CollisionLayer struct {
	selections
	tiles *geom.Grid[uint8]
}

func NewCollisionLayer() *CollisionLayer {
	canvas := geom.Dimen{W: CollisionCanvasSize, H: CollisionCanvasSize}
	return &CollisionLayer{
		selections: newSelections(geom.Dimen{W: CollisionPickerSize, H: CollisionPickerSize}, canvas),
		tiles:      geom.NewGrid[uint8](canvas),
	}
}

func (l *CollisionLayer) Kind() Kind { return KindCollision }

func (l *CollisionLayer) CanvasDimen() geom.Dimen { return l.tiles.Dimen() }

func (l *CollisionLayer) Get(c geom.Coord) uint16 { return uint16(l.tiles.At(c)) }

func (l *CollisionLayer) Set(c geom.Coord, code uint16) { l.tiles.Set(c, uint8(code)) }

func (l *CollisionLayer) Reset(c geom.Coord) { l.tiles.Set(c, 0) }

func (l *CollisionLayer) ToTile(p geom.Coord) uint16 {
	return uint16(p.X + p.Y*CollisionPickerSize)
}

func (l *CollisionLayer) ToPick(code uint16) geom.Coord {
	code %= CollisionPickerSize * CollisionPickerSize
	return geom.Coord{X: int(code) % CollisionPickerSize, Y: int(code) / CollisionPickerSize}
}

// Tiles exposes the 16x16 collision grid.
func (l *CollisionLayer) Tiles() *geom.Grid[uint8] { return l.tiles }
