package chr

import (
	"image"

	"golang.org/x/image/colornames"
	xdraw "golang.org/x/image/draw"
)

const (
	CollisionTileSize = 16
	CollisionGrid     = 8
)

// CollisionTiles slices img into the 64 16x16 tiles of an 8x8 grid. Pixels the
// source does not cover are magenta.
func CollisionTiles(img image.Image) []*image.RGBA {
	tiles := make([]*image.RGBA, 0, CollisionGrid*CollisionGrid)
	bounds := image.Rect(0, 0, CollisionTileSize, CollisionTileSize)
	for y := 0; y < CollisionGrid; y++ {
		for x := 0; x < CollisionGrid; x++ {
			dst := image.NewRGBA(bounds)
			xdraw.Draw(dst, bounds, image.NewUniform(colornames.Magenta), image.Point{}, xdraw.Src)
			if img != nil {
				sr := bounds.Add(image.Pt(x*CollisionTileSize, y*CollisionTileSize)).Add(img.Bounds().Min)
				xdraw.Copy(dst, image.Point{}, img, sr, xdraw.Src, nil)
			}
			tiles = append(tiles, dst)
		}
	}
	return tiles
}
