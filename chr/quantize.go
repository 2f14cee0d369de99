package chr

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// Quantize reduces img to at most four colors ordered dark to light, so the
// result converts with FromImage as if it had been drawn with NES indices.
func Quantize(img image.Image) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 4), img)
	sort.SliceStable(p, func(i, j int) bool { return grey(p[i]) < grey(p[j]) })

	b := img.Bounds()
	out := image.NewPaletted(b, p)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}
