package project

import (
	"strconv"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mapfab/chr"
)

// renderCache memoizes CHR bitmaps per (CHR file, palette row). A nil cache
// renders every time.
type renderCache struct {
	tiles *ristretto.Cache[string, []chr.TileBitmaps]
}

func newRenderCache() (*renderCache, error) {
	tiles, err := ristretto.NewCache(&ristretto.Config[string, []chr.TileBitmaps]{
		NumCounters: 10000,
		MaxCost:     64 * chr.MaxTiles,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &renderCache{tiles: tiles}, nil
}

func cacheKey(name string, palette int) string {
	return name + "|" + strconv.Itoa(palette)
}

func (c *renderCache) get(key string) ([]chr.TileBitmaps, bool) {
	if c == nil {
		return nil, false
	}
	return c.tiles.Get(key)
}

func (c *renderCache) set(key string, v []chr.TileBitmaps) {
	if c == nil {
		return
	}
	c.tiles.Set(key, v, int64(max(1, len(v))))
}

func (c *renderCache) clear() {
	if c == nil {
		return
	}
	c.tiles.Clear()
}

func (c *renderCache) close() {
	if c == nil {
		return
	}
	c.tiles.Close()
}

// PaletteFor returns background palette row i as a codec palette.
func (d *Document) PaletteFor(i int) chr.Palette {
	return chr.PaletteFrom(d.Palette.PaletteArray(i))
}

// CHRBitmaps renders the named CHR file under palette row palette. A missing
// CHR file yields no bitmaps.
func (d *Document) CHRBitmaps(name string, palette int) ([]chr.TileBitmaps, bool) {
	key := cacheKey(name, palette)
	if bms, ok := d.cache.get(key); ok {
		return bms, true
	}
	f, ok := d.CHR(name)
	if !ok {
		d.log.WithFields(logrus.Fields{"chr": name}).Debug("render of missing chr")
		return nil, false
	}
	bms := chr.Bitmaps(f.Data, d.PaletteFor(palette))
	d.cache.set(key, bms)
	return bms, true
}

// MetatileSetBitmaps renders the CHR file of a metatile set with its palette.
func (d *Document) MetatileSetBitmaps(id ID) ([]chr.TileBitmaps, bool) {
	ms, ok := d.metatileSets.get(id)
	if !ok {
		return nil, false
	}
	return d.CHRBitmaps(ms.CHRName, int(ms.Palette))
}
