package chr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

var identity = Palette{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}

func pattern(seed int) Tile {
	var t Tile
	for i := range t {
		t[i] = uint8((i*7 + seed + i/8) % 4)
	}
	return t
}

func paletted(w, h int, at func(x, y int) uint8) *image.Paletted {
	pal := color.Palette{color.Black, color.Gray{0x55}, color.Gray{0xAA}, color.White}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetColorIndex(x, y, at(x, y))
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTileRoundTrip(t *testing.T) {
	for seed := 0; seed < 4; seed++ {
		tile := pattern(seed)
		enc := EncodeTile(tile)
		assert.Equal(t, tile, DecodeTile(enc[:]))
	}
}

func TestEncodeTilePlanes(t *testing.T) {
	var tile Tile
	tile[0] = 1
	tile[7] = 2
	tile[8] = 3
	enc := EncodeTile(tile)
	assert.Equal(t, byte(0x80), enc[0])
	assert.Equal(t, byte(0x01), enc[8])
	assert.Equal(t, byte(0x80), enc[1])
	assert.Equal(t, byte(0x80), enc[9])
}

func TestFromPNGIdentity(t *testing.T) {
	img := paletted(8, 8, func(x, y int) uint8 { return uint8((x + y) % 4) })
	data, err := FromPNG(encodePNG(t, img), false)
	require.NoError(t, err)
	require.Len(t, data, TileBytes)

	bms := Bitmaps(data, identity)
	require.Len(t, bms, 1)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, NESColors[(x+y)%4], bms[0][0].RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestFromImageCHR16Order(t *testing.T) {
	// Two 8x16 columns; each 8x8 tile is filled with its own index.
	img := paletted(16, 16, func(x, y int) uint8 { return uint8(x/8 + 2*(y/8)) })

	data, err := FromImage(img, true)
	require.NoError(t, err)
	require.Len(t, data, 4*TileBytes)

	var got []uint8
	for i := 0; i < 4; i++ {
		got = append(got, DecodeTile(data[i*TileBytes:])[0])
	}
	assert.Equal(t, []uint8{0, 2, 1, 3}, got)

	data, err = FromImage(img, false)
	require.NoError(t, err)
	got = got[:0]
	for i := 0; i < 4; i++ {
		got = append(got, DecodeTile(data[i*TileBytes:])[0])
	}
	assert.Equal(t, []uint8{0, 1, 2, 3}, got)
}

func TestFromImageBadSize(t *testing.T) {
	cases := []struct {
		name  string
		w, h  int
		chr16 bool
		err   error
	}{
		{"width", 12, 8, false, ErrBadWidth},
		{"height", 8, 12, false, ErrBadHeight},
		{"height16", 8, 8, true, ErrBadHeight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img := image.NewGray(image.Rect(0, 0, tc.w, tc.h))
			_, err := FromImage(img, tc.chr16)
			assert.ErrorIs(t, err, tc.err)

			_, err = FromPNG(encodePNG(t, img), tc.chr16)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFromPNGRejectsGarbage(t *testing.T) {
	_, err := FromPNG([]byte("not a png"), false)
	assert.Error(t, err)
}

func TestIndexerGreyAndAlpha(t *testing.T) {
	grey := image.NewGray(image.Rect(0, 0, 8, 8))
	grey.SetGray(0, 0, color.Gray{0xFF})
	grey.SetGray(1, 0, color.Gray{0x80})
	grey.SetGray(2, 0, color.Gray{0x3F})

	data, err := FromImage(grey, false)
	require.NoError(t, err)
	tile := DecodeTile(data)
	assert.Equal(t, []uint8{3, 2, 0}, tile[:3])

	alpha := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	alpha.SetNRGBA(0, 0, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF})
	alpha.SetNRGBA(1, 0, color.NRGBA{0xFF, 0xFF, 0xFF, 0x80})
	alpha.SetNRGBA(2, 0, color.NRGBA{0xFF, 0xFF, 0xFF, 0x00})

	data, err = FromImage(alpha, false)
	require.NoError(t, err)
	tile = DecodeTile(data)
	assert.Equal(t, []uint8{3, 2, 0}, tile[:3])
}

func TestBitmapsLimits(t *testing.T) {
	assert.Len(t, Bitmaps(make([]byte, 5000), Greyscale), MaxTiles)
	assert.Len(t, Bitmaps(make([]byte, 40), Greyscale), 2)
	assert.Empty(t, Bitmaps(nil, Greyscale))
}

func TestBitmapsAttributes(t *testing.T) {
	enc := EncodeTile(Tile{3})
	pal := Palette{0, 1, 2, 3, 0, 5, 6, 7, 0, 9, 10, 11, 0, 13, 14, 0x47}
	bms := Bitmaps(enc[:], pal)
	for attr, want := range []uint8{3, 7, 11, 0x07} {
		assert.Equal(t, NESColors[want], bms[0][attr].RGBAAt(0, 0))
	}
}

func TestSheet(t *testing.T) {
	data := make([]byte, 17*TileBytes)
	enc := EncodeTile(Tile{1})
	copy(data[16*TileBytes:], enc[:])

	sheet := Sheet(data, identity, 0)
	assert.Equal(t, image.Rect(0, 0, SheetSize, SheetSize), sheet.Bounds())
	assert.Equal(t, NESColors[1], sheet.RGBAAt(0, 8))
	assert.Equal(t, color.RGBA{}, sheet.RGBAAt(8, 8))
}

func TestCollisionTiles(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}

	tiles := CollisionTiles(src)
	require.Len(t, tiles, 64)
	assert.Equal(t, color.RGBA{5, 7, 0, 255}, tiles[0].RGBAAt(5, 7))
	assert.Equal(t, color.RGBA{20, 3, 0, 255}, tiles[1].RGBAAt(4, 3))
	assert.Equal(t, colornames.Magenta, tiles[1].RGBAAt(8, 3))
	assert.Equal(t, colornames.Magenta, tiles[63].RGBAAt(0, 0))

	for _, tile := range CollisionTiles(nil) {
		assert.Equal(t, colornames.Magenta, tile.RGBAAt(15, 15))
	}
}

func TestQuantize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	shades := []color.RGBA{{200, 40, 40, 255}, {10, 10, 10, 255}, {250, 250, 250, 255}, {90, 90, 200, 255}}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, shades[(x/2)%4])
		}
	}

	q := Quantize(src)
	require.LessOrEqual(t, len(q.Palette), 4)
	for i := 1; i < len(q.Palette); i++ {
		assert.LessOrEqual(t, grey(q.Palette[i-1]), grey(q.Palette[i]))
	}

	_, err := FromImage(q, false)
	require.NoError(t, err)
}
