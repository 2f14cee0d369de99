// Package chr converts between NES CHR pattern data and images.
//
// A tile is 8x8 pixels of 2-bit color indices stored as two 8-byte bit
// planes: bit 0 of every pixel first, then bit 1. The most significant bit of
// each byte is the leftmost pixel.
package chr

import (
	"errors"
	"image"
	"image/draw"
)

const (
	TileBytes = 16
	TileSize  = 8
	MaxTiles  = 256
	MaxBytes  = MaxTiles * TileBytes

	// SheetSize is the width and height in pixels of a 16x16 tile sheet.
	SheetSize = 16 * TileSize
)

var (
	ErrBadWidth  = errors.New("chr: image width must be a multiple of 8")
	ErrBadHeight = errors.New("chr: image height must be a multiple of the tile height")
)

// Tile is the 64 color indices of one tile in row-major order.
type Tile [TileSize * TileSize]uint8

// DecodeTile unpacks one 16-byte tile. Short input decodes as zero bits.
func DecodeTile(data []byte) Tile {
	var planes [TileBytes]byte
	copy(planes[:], data)

	var t Tile
	for y := 0; y < TileSize; y++ {
		lo, hi := planes[y], planes[y+TileSize]
		for x := 0; x < TileSize; x++ {
			shift := 7 - x
			t[y*TileSize+x] = (lo>>shift)&1 | ((hi>>shift)&1)<<1
		}
	}
	return t
}

// EncodeTile packs 64 color indices into 16 bytes. Only the low two bits of
// each index are kept.
func EncodeTile(t Tile) [TileBytes]byte {
	var out [TileBytes]byte
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			p := t[y*TileSize+x]
			shift := 7 - x
			out[y] |= (p & 1) << shift
			out[y+TileSize] |= ((p >> 1) & 1) << shift
		}
	}
	return out
}

// TileBitmaps holds one tile rendered under each of the four attributes.
type TileBitmaps [4]*image.RGBA

// Bitmaps renders every whole tile in the first MaxBytes of data under all
// four sub-palettes of pal.
func Bitmaps(data []byte, pal Palette) []TileBitmaps {
	n := min(len(data), MaxBytes) / TileBytes
	out := make([]TileBitmaps, n)
	for i := range out {
		t := DecodeTile(data[i*TileBytes:])
		for attr := range out[i] {
			out[i][attr] = render(t, pal, attr)
		}
	}
	return out
}

func render(t Tile, pal Palette, attr int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	for i, p := range t {
		img.SetRGBA(i%TileSize, i/TileSize, Color(pal[attr*4+int(p)]))
	}
	return img
}

// Sheet lays the tiles of data out 16 per row on a 128x128 image, rendered
// with sub-palette attr. Missing tiles are left transparent.
func Sheet(data []byte, pal Palette, attr int) *image.RGBA {
	attr &= 3
	sheet := image.NewRGBA(image.Rect(0, 0, SheetSize, SheetSize))
	for i, bm := range Bitmaps(data, pal) {
		at := image.Pt((i%16)*TileSize, (i/16)*TileSize)
		draw.Draw(sheet, bm[attr].Bounds().Add(at), bm[attr], image.Point{}, draw.Src)
	}
	return sheet
}
