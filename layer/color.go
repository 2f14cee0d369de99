package layer

import "github.com/milk9111/mapfab/geom"

const (
	// PaletteColumns is the number of color slots in one palette row: 8
	// sub-palettes of 3 followed by the shared background color.
	PaletteColumns = 25
	MaxPalettes    = 256

	// UnusedColor is the NES black used for fresh and reset slots.
	UnusedColor = 0x0F
)

var colorPicker = geom.Dimen{W: 4, H: 16}

// ColorLayer edits palette rows. The backing grid always holds MaxPalettes
// rows; only the first Count are visible.
type ColorLayer struct {
	selections
	colors *geom.Grid[uint8]
	count  int
}

func NewColorLayer() *ColorLayer {
	colors := geom.NewGrid[uint8](geom.Dimen{W: PaletteColumns, H: MaxPalettes})
	colors.Fill(UnusedColor)
	return &ColorLayer{
		selections: newSelections(colorPicker, geom.Dimen{W: PaletteColumns, H: 1}),
		colors:     colors,
		count:      1,
	}
}

func (l *ColorLayer) Kind() Kind { return KindColors }

func (l *ColorLayer) CanvasDimen() geom.Dimen {
	return geom.Dimen{W: PaletteColumns, H: l.count}
}

func (l *ColorLayer) Get(c geom.Coord) uint16 {
	if !l.CanvasDimen().Contains(c) {
		return UnusedColor
	}
	return uint16(l.colors.At(c))
}

func (l *ColorLayer) Set(c geom.Coord, code uint16) {
	if !l.CanvasDimen().Contains(c) {
		return
	}
	l.colors.Set(c, uint8(code))
}

func (l *ColorLayer) Reset(c geom.Coord) { l.Set(c, UnusedColor) }

// The picker shows the 64 system colors transposed: each column is one
// 16-color row of the hardware table.
func (l *ColorLayer) ToTile(p geom.Coord) uint16 { return uint16(p.Y + p.X*16) }

func (l *ColorLayer) ToPick(code uint16) geom.Coord {
	code %= 64
	return geom.Coord{X: int(code / 16), Y: int(code % 16)}
}

// Count returns the number of palettes in use.
func (l *ColorLayer) Count() int { return l.count }

// SetCount changes the number of palettes, clamped to 1..MaxPalettes. Hidden
// rows keep their colors.
func (l *ColorLayer) SetCount(n int) {
	l.count = max(1, min(n, MaxPalettes))
	l.canvas.Resize(l.CanvasDimen())
}

// Colors exposes the full MaxPalettes-row backing grid.
func (l *ColorLayer) Colors() *geom.Grid[uint8] { return l.colors }

// PaletteArray returns palette row i in hardware order: 8 groups of 4, each
// led by the shared background color stored in the last column.
func (l *ColorLayer) PaletteArray(i int) [32]uint8 {
	var ret [32]uint8
	bg := l.colors.At(geom.Coord{X: PaletteColumns - 1, Y: i})
	for g := 0; g < 8; g++ {
		ret[g*4] = bg
		for j := 0; j < 3; j++ {
			ret[g*4+j+1] = l.colors.At(geom.Coord{X: g*3 + j, Y: i})
		}
	}
	return ret
}
