package layer

import "github.com/milk9111/mapfab/geom"

// MaxMetatiles is the number of metatiles in a set.
const MaxMetatiles = 256

// ValidShift reports whether rotating the metatiles from..to by num moves
// anything.
func ValidShift(from, to, num int) bool {
	if from < 0 || to >= MaxMetatiles || from > to {
		return false
	}
	return num%(to-from+1) != 0
}

// ShiftIndex returns where metatile i lands when the run from..to is rotated
// by num places. Indices outside the run are unchanged.
func ShiftIndex(i, from, to, num int) int {
	if i < from || i > to {
		return i
	}
	n := to - from + 1
	return from + ((i-from+num)%n+n)%n
}

func metatileCoord(i int) geom.Coord {
	return geom.Coord{X: i % MetatilePickerSize, Y: i / MetatilePickerSize}
}

// shiftBlocks moves each size x size block of g belonging to a metatile in
// from..to to its rotated place.
func shiftBlocks(g *geom.Grid[uint8], size, from, to, num int) {
	src := g.Clone()
	for i := from; i <= to; i++ {
		s := metatileCoord(i)
		d := metatileCoord(ShiftIndex(i, from, to, num))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				g.Set(geom.Coord{X: d.X*size + x, Y: d.Y*size + y},
					src.At(geom.Coord{X: s.X*size + x, Y: s.Y*size + y}))
			}
		}
	}
}

// ShiftMetatiles rotates the CHR tiles and attributes of metatiles from..to
// by num places.
func (l *CHRLayer) ShiftMetatiles(from, to, num int) {
	if !ValidShift(from, to, num) {
		return
	}
	shiftBlocks(l.tiles, 2, from, to, num)
	shiftBlocks(l.attributes, 1, from, to, num)
}

// ShiftMetatiles rotates the collision codes of metatiles from..to by num
// places.
func (l *CollisionLayer) ShiftMetatiles(from, to, num int) {
	if !ValidShift(from, to, num) {
		return
	}
	shiftBlocks(l.tiles, 1, from, to, num)
}

// ShiftMetatiles rewrites every placed metatile in from..to to its rotated
// index.
func (l *MetatileLayer) ShiftMetatiles(from, to, num int) {
	if !ValidShift(from, to, num) {
		return
	}
	geom.RectOf(l.tiles.Dimen()).ForEach(func(c geom.Coord) {
		l.tiles.Set(c, uint8(ShiftIndex(int(l.tiles.At(c)), from, to, num)))
	})
}
