package chr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// FromPNG converts PNG data to CHR. With chr16 set, tiles are taken in 8x16
// pairs: the top tile followed by the one below it.
func FromPNG(data []byte, chr16 bool) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("chr: png decoder error: %w", err)
	}
	if err := checkSize(cfg.Width, cfg.Height, chr16); err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("chr: png decoder error: %w", err)
	}
	return FromImage(img, chr16)
}

func checkSize(w, h int, chr16 bool) error {
	if w%TileSize != 0 {
		return fmt.Errorf("%w: got %d", ErrBadWidth, w)
	}
	if h%tileHeight(chr16) != 0 {
		return fmt.Errorf("%w: got %d", ErrBadHeight, h)
	}
	return nil
}

func tileHeight(chr16 bool) int {
	if chr16 {
		return 2 * TileSize
	}
	return TileSize
}

// FromImage converts img to CHR, reading a 2-bit index per pixel:
// paletted images use the index, grey and opaque images the top two bits of
// intensity, and images with alpha fold the alpha into the intensity.
func FromImage(img image.Image, chr16 bool) ([]byte, error) {
	b := img.Bounds()
	if err := checkSize(b.Dx(), b.Dy(), chr16); err != nil {
		return nil, err
	}
	index := indexer(img)
	th := tileHeight(chr16)

	out := make([]byte, 0, b.Dx()*b.Dy()/4)
	for ty := 0; ty < b.Dy(); ty += th {
		for tx := 0; tx < b.Dx(); tx += TileSize {
			for sub := 0; sub < th; sub += TileSize {
				var t Tile
				for y := 0; y < TileSize; y++ {
					for x := 0; x < TileSize; x++ {
						t[y*TileSize+x] = index(b.Min.X+tx+x, b.Min.Y+ty+sub+y)
					}
				}
				enc := EncodeTile(t)
				out = append(out, enc[:]...)
			}
		}
	}
	return out, nil
}

func indexer(img image.Image) func(x, y int) uint8 {
	switch m := img.(type) {
	case *image.Paletted:
		return func(x, y int) uint8 { return m.ColorIndexAt(x, y) & 3 }
	case *image.Gray:
		return func(x, y int) uint8 { return m.GrayAt(x, y).Y >> 6 }
	case *image.Gray16:
		return func(x, y int) uint8 { return uint8(m.Gray16At(x, y).Y >> 14) }
	case *image.RGBA, *image.RGBA64, *image.YCbCr, *image.CMYK:
		return func(x, y int) uint8 { return grey(img.At(x, y)) >> 6 }
	}
	return func(x, y int) uint8 {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		g := grey(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		return uint8((uint32(g) * (uint32(c.A) + 1)) >> 14)
	}
}

func grey(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}
