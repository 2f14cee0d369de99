package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mapfab/geom"
)

func c(x, y int) geom.Coord { return geom.Coord{X: x, Y: y} }

func rect(x, y, w, h int) geom.Rect {
	return geom.Rect{C: c(x, y), D: geom.Dimen{W: w, H: h}}
}

func TestFillTilesPickerPattern(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 6, H: 6})
	l.Picker().SelectRect(rect(3, 5, 2, 2), true)
	l.Canvas().SelectAll(true)

	snap := Fill(l)
	require.False(t, snap.Empty())
	assert.Equal(t, rect(0, 0, 6, 6), snap.Rect)

	geom.RectOf(l.CanvasDimen()).ForEach(func(p geom.Coord) {
		want := l.ToTile(c(3+p.X%2, 5+p.Y%2))
		assert.Equal(t, want, l.Get(p), "cell %v", p)
	})
}

func TestFillAnchorsAtCanvasSelection(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 8, H: 8})
	l.Picker().SelectRect(rect(0, 0, 3, 1), true)
	l.Canvas().SelectRect(rect(2, 3, 5, 1), true)

	Fill(l)
	row := make([]uint16, 8)
	for x := range row {
		row[x] = l.Get(c(x, 3))
	}
	assert.Equal(t, []uint16{0, 0, 0, 1, 2, 0, 1, 0}, row)
}

func TestFillNeedsBothSelections(t *testing.T) {
	l := NewCollisionLayer()
	l.Canvas().SelectAll(true)
	assert.True(t, Fill(l).Empty())

	l.Canvas().SelectAll(false)
	l.Picker().Select(c(1, 1), true)
	assert.True(t, Fill(l).Empty())
}

func TestCopyCutPaste(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 4, H: 4})
	for i, p := range []geom.Coord{c(0, 0), c(1, 0), c(0, 1), c(1, 1)} {
		l.Set(p, uint16(10+i))
	}
	l.Canvas().Select(c(0, 0), true)
	l.Canvas().Select(c(1, 1), true)

	p, snap := Copy(l, true)
	require.Equal(t, KindMetatiles, p.Kind)
	assert.Equal(t, []uint16{10, Empty, Empty, 13}, p.Tiles.Cells())
	assert.Equal(t, []uint16{10, 11, 12, 13}, snap.Codes)
	assert.Equal(t, uint16(0), l.Get(c(0, 0)))
	assert.Equal(t, uint16(11), l.Get(c(1, 0)))

	l.Set(c(3, 3), 5)
	Paste(l, p, c(2, 2))
	assert.Equal(t, uint16(10), l.Get(c(2, 2)))
	assert.Equal(t, uint16(0), l.Get(c(3, 2)))
	assert.Equal(t, uint16(13), l.Get(c(3, 3)))

	Restore(l, snap)
	assert.Equal(t, uint16(10), l.Get(c(0, 0)))
	assert.Equal(t, uint16(13), l.Get(c(1, 1)))
}

func TestPasteSkipsOutOfBoundsAndWrongKind(t *testing.T) {
	l := NewCollisionLayer()
	tiles := geom.GridFrom(geom.Dimen{W: 2, H: 2}, []uint16{1, 2, 3, 4})

	Paste(l, Payload{Kind: KindCollision, Tiles: tiles}, c(15, 15))
	assert.Equal(t, uint16(1), l.Get(c(15, 15)))

	Paste(l, Payload{Kind: KindMetatiles, Tiles: tiles}, c(0, 0))
	assert.Equal(t, uint16(0), l.Get(c(0, 0)))
}

func TestFillPasteRepeatsPayload(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 8, H: 8})
	l.Canvas().SelectRect(rect(1, 1, 6, 6), true)
	p := Payload{Kind: KindMetatiles, Tiles: geom.GridFrom(geom.Dimen{W: 2, H: 2}, []uint16{1, 2, 3, 4})}

	FillPaste(l, p)
	for y := 1; y < 7; y++ {
		row := make([]uint16, 6)
		for x := range row {
			row[x] = l.Get(c(x+1, y))
		}
		if (y-1)%2 == 0 {
			assert.Equal(t, []uint16{1, 2, 1, 2, 1, 2}, row, "row %d", y)
		} else {
			assert.Equal(t, []uint16{3, 4, 3, 4, 3, 4}, row, "row %d", y)
		}
	}
	assert.Equal(t, uint16(0), l.Get(c(0, 0)))
	assert.Equal(t, uint16(0), l.Get(c(7, 7)))
}

func TestFillPasteSkipsEmpty(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 4, H: 2})
	for x := 0; x < 4; x++ {
		l.Set(c(x, 0), 9)
	}
	l.Canvas().SelectRect(rect(0, 0, 4, 1), true)
	p := Payload{Kind: KindMetatiles, Tiles: geom.GridFrom(geom.Dimen{W: 2, H: 1}, []uint16{7, Empty})}

	snap := FillPaste(l, p)
	assert.Equal(t, rect(0, 0, 4, 1), snap.Rect)
	assert.Equal(t, []uint16{7, 9, 7, 9}, []uint16{l.Get(c(0, 0)), l.Get(c(1, 0)), l.Get(c(2, 0)), l.Get(c(3, 0))})
}

func TestDropper(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 4, H: 4})
	l.Set(c(2, 2), 0x35)
	l.Picker().SelectAll(true)

	Dropper(l, c(2, 2))
	assert.Equal(t, rect(5, 3, 1, 1), l.Picker().Rect())

	Dropper(l, c(9, 9))
	assert.Equal(t, rect(5, 3, 1, 1), l.Picker().Rect())
}

func TestStamp(t *testing.T) {
	l := NewCollisionLayer()
	l.Picker().Select(c(1, 0), true)
	l.Picker().Select(c(2, 1), true)

	snap := Stamp(l, c(14, 5))
	assert.Equal(t, rect(14, 5, 2, 2), snap.Rect)
	assert.Equal(t, uint16(1), l.Get(c(14, 5)))
	assert.Equal(t, uint16(0), l.Get(c(15, 5)))
	assert.Equal(t, uint16(10), l.Get(c(15, 6)))

	inverse := Restore(l, snap)
	assert.Equal(t, uint16(0), l.Get(c(15, 6)))
	Restore(l, inverse)
	assert.Equal(t, uint16(10), l.Get(c(15, 6)))
}

func TestSaveCropsToCanvas(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 3, H: 3})
	snap := Save(l, rect(1, 1, 5, 5))
	assert.Equal(t, rect(1, 1, 2, 2), snap.Rect)
	assert.Len(t, snap.Codes, 4)
	assert.True(t, Save(l, rect(4, 4, 2, 2)).Empty())
}

func TestColorLayerMapping(t *testing.T) {
	l := NewColorLayer()
	cases := []struct {
		pick geom.Coord
		code uint16
	}{
		{c(0, 0), 0x00},
		{c(0, 15), 0x0F},
		{c(1, 0), 0x10},
		{c(3, 13), 0x3D},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, l.ToTile(tc.pick))
		assert.Equal(t, tc.pick, l.ToPick(tc.code))
	}
}

func TestColorLayerCount(t *testing.T) {
	l := NewColorLayer()
	assert.Equal(t, uint16(UnusedColor), l.Get(c(0, 0)))

	l.SetCount(3)
	l.Set(c(4, 2), 0x21)
	l.SetCount(1)
	assert.Equal(t, geom.Dimen{W: PaletteColumns, H: 1}, l.Canvas().Dimen())
	assert.Equal(t, uint16(UnusedColor), l.Get(c(4, 2)))

	l.SetCount(3)
	assert.Equal(t, uint16(0x21), l.Get(c(4, 2)))

	l.SetCount(0)
	assert.Equal(t, 1, l.Count())
	l.SetCount(1000)
	assert.Equal(t, MaxPalettes, l.Count())
}

func TestColorLayerPaletteArray(t *testing.T) {
	l := NewColorLayer()
	l.Set(c(PaletteColumns-1, 0), 0x0D)
	l.Set(c(0, 0), 0x01)
	l.Set(c(4, 0), 0x15)

	a := l.PaletteArray(0)
	assert.Equal(t, uint8(0x0D), a[0])
	assert.Equal(t, uint8(0x01), a[1])
	assert.Equal(t, uint8(0x0D), a[4])
	assert.Equal(t, uint8(0x15), a[6])
}

func TestCHRLayerAttributes(t *testing.T) {
	l := NewCHRLayer()
	l.Active = 2
	code := l.ToTile(c(3, 1))
	assert.Equal(t, uint16(19|2<<8), code)
	assert.Equal(t, c(3, 1), l.ToPick(code))

	l.Set(c(5, 7), code)
	assert.Equal(t, uint8(19), l.Tiles().At(c(5, 7)))
	assert.Equal(t, uint8(2), l.Attributes().At(c(2, 3)))
	assert.Equal(t, uint16(2<<8), l.Get(c(4, 6)))

	l.Reset(c(5, 7))
	assert.Equal(t, uint16(2<<8), l.Get(c(5, 7)))
}

func TestCHRLayerFillAttribute(t *testing.T) {
	l := NewCHRLayer()
	l.Set(c(0, 0), 7)
	l.Canvas().Select(c(0, 0), true)
	l.Canvas().Select(c(3, 2), true)
	l.Active = 3

	snap := l.FillAttribute()
	assert.Equal(t, uint8(3), l.Attributes().At(c(0, 0)))
	assert.Equal(t, uint8(3), l.Attributes().At(c(1, 1)))
	assert.Equal(t, uint8(0), l.Attributes().At(c(1, 0)))
	assert.Equal(t, uint16(7|3<<8), l.Get(c(0, 0)))

	Restore(l, snap)
	assert.Equal(t, uint8(0), l.Attributes().At(c(0, 0)))
	assert.Equal(t, uint8(0), l.Attributes().At(c(1, 1)))
	assert.Equal(t, uint16(7), l.Get(c(0, 0)))
}

func TestMetatileLayerResize(t *testing.T) {
	l := NewMetatileLayer(geom.Dimen{W: 4, H: 4})
	l.Set(c(1, 1), 3)
	l.Set(c(3, 3), 4)

	l.Resize(geom.Dimen{W: 2, H: 8})
	assert.Equal(t, geom.Dimen{W: 2, H: 8}, l.CanvasDimen())
	assert.Equal(t, geom.Dimen{W: 2, H: 8}, l.Canvas().Dimen())
	assert.Equal(t, uint16(3), l.Get(c(1, 1)))

	l.Resize(geom.Dimen{W: 0, H: 300})
	assert.Equal(t, geom.Dimen{W: 1, H: MaxLevelSize}, l.CanvasDimen())
}
