package project

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/mapfab/geom"
	"github.com/milk9111/mapfab/layer"
)

// Record is an undoable edit. Applying a record to a Document returns its
// exact inverse. The set of records is closed.
type Record interface {
	Empty() bool
	record()
}

// LayerRef names a tile layer: the palette, the CHR or collision layer of a
// metatile set, or the metatile layer of a level.
type LayerRef struct {
	Kind layer.Kind
	ID   ID
}

// PaletteRef is the palette color layer.
var PaletteRef = LayerRef{Kind: layer.KindColors}

// TileSnapshot restores saved codes into a tile layer.
type TileSnapshot struct {
	Layer    LayerRef
	Snapshot layer.Snapshot
}

// PaletteCount restores the number of palettes.
type PaletteCount struct {
	Count int
}

// LevelDimensions restores a level's whole metatile grid, size included.
type LevelDimensions struct {
	Level ID
	Tiles *geom.Grid[uint8]
}

// ObjectsInserted removes the objects at Indices, which are in descending
// order.
type ObjectsInserted struct {
	Level   ID
	Indices []int
}

// ObjectsRemoved reinserts objects at their indices, in ascending order.
type ObjectsRemoved struct {
	Level   ID
	Objects []layer.IndexedObject
}

// ObjectEdited restores one object.
type ObjectEdited struct {
	Level  ID
	Index  int
	Object layer.Object
}

// ObjectsMoved restores object positions.
type ObjectsMoved struct {
	Level     ID
	Indices   []int
	Positions []geom.Coord
}

// MetatilesShifted rotates the metatiles From..To of a set by Num places and
// rewrites the levels that were bound to the set when it was recorded.
type MetatilesShifted struct {
	Set      ID
	Levels   []ID
	From, To int
	Num      int
}

// noop is what a stale record applies to.
type noop struct{}

func (r TileSnapshot) Empty() bool     { return r.Snapshot.Empty() }
func (r PaletteCount) Empty() bool     { return r.Count <= 0 }
func (r LevelDimensions) Empty() bool  { return r.Tiles == nil }
func (r ObjectsInserted) Empty() bool  { return len(r.Indices) == 0 }
func (r ObjectsRemoved) Empty() bool   { return len(r.Objects) == 0 }
func (r ObjectEdited) Empty() bool     { return r.Index < 0 }
func (r ObjectsMoved) Empty() bool     { return len(r.Indices) == 0 }
func (r MetatilesShifted) Empty() bool { return !layer.ValidShift(r.From, r.To, r.Num) }
func (noop) Empty() bool               { return true }

func (TileSnapshot) record()     {}
func (PaletteCount) record()     {}
func (LevelDimensions) record()  {}
func (ObjectsInserted) record()  {}
func (ObjectsRemoved) record()   {}
func (ObjectEdited) record()     {}
func (ObjectsMoved) record()     {}
func (MetatilesShifted) record() {}
func (noop) record()             {}

// TileLayer resolves a layer reference.
func (d *Document) TileLayer(ref LayerRef) (layer.TileLayer, bool) {
	switch ref.Kind {
	case layer.KindColors:
		return d.Palette, true
	case layer.KindCHR, layer.KindCollision:
		ms, ok := d.metatileSets.get(ref.ID)
		if !ok {
			return nil, false
		}
		if ref.Kind == layer.KindCHR {
			return ms.CHR, true
		}
		return ms.Collisions, true
	case layer.KindMetatiles:
		l, ok := d.levels.get(ref.ID)
		if !ok {
			return nil, false
		}
		return l.Metatiles, true
	}
	return nil, false
}

// apply performs r and returns its inverse. Records whose target no longer
// exists apply as no-ops.
func (d *Document) apply(r Record) Record {
	switch r := r.(type) {
	case TileSnapshot:
		l, ok := d.TileLayer(r.Layer)
		if !ok {
			return d.stale(r, r.Layer.ID)
		}
		if r.Layer.Kind == layer.KindColors {
			d.cache.clear()
		}
		return TileSnapshot{Layer: r.Layer, Snapshot: layer.Restore(l, r.Snapshot)}

	case PaletteCount:
		old := d.Palette.Count()
		d.Palette.SetCount(r.Count)
		return PaletteCount{Count: old}

	case LevelDimensions:
		l, ok := d.levels.get(r.Level)
		if !ok {
			return d.stale(r, r.Level)
		}
		old := l.Metatiles.Tiles().Clone()
		l.Metatiles.SetTiles(r.Tiles)
		return LevelDimensions{Level: r.Level, Tiles: old}

	case ObjectsInserted:
		l, ok := d.levels.get(r.Level)
		if !ok {
			return d.stale(r, r.Level)
		}
		return ObjectsRemoved{Level: r.Level, Objects: l.Objects.Remove(r.Indices)}

	case ObjectsRemoved:
		l, ok := d.levels.get(r.Level)
		if !ok {
			return d.stale(r, r.Level)
		}
		indices := l.Objects.Insert(r.Objects)
		slices.Reverse(indices)
		return ObjectsInserted{Level: r.Level, Indices: indices}

	case ObjectEdited:
		l, ok := d.levels.get(r.Level)
		if !ok {
			return d.stale(r, r.Level)
		}
		old, ok := l.Objects.Replace(r.Index, r.Object)
		if !ok {
			return d.stale(r, r.Level)
		}
		return ObjectEdited{Level: r.Level, Index: r.Index, Object: old}

	case ObjectsMoved:
		l, ok := d.levels.get(r.Level)
		if !ok {
			return d.stale(r, r.Level)
		}
		valid, old := l.Objects.Positions(r.Indices)
		if len(valid) != len(r.Indices) || len(r.Positions) != len(r.Indices) {
			return d.stale(r, r.Level)
		}
		l.Objects.SetPositions(r.Indices, r.Positions)
		return ObjectsMoved{Level: r.Level, Indices: slices.Clone(r.Indices), Positions: old}

	case MetatilesShifted:
		ms, ok := d.metatileSets.get(r.Set)
		if !ok {
			return d.stale(r, r.Set)
		}
		ms.CHR.ShiftMetatiles(r.From, r.To, r.Num)
		ms.Collisions.ShiftMetatiles(r.From, r.To, r.Num)
		for _, id := range r.Levels {
			if l, ok := d.levels.get(id); ok {
				l.Metatiles.ShiftMetatiles(r.From, r.To, r.Num)
			}
		}
		return MetatilesShifted{Set: r.Set, Levels: slices.Clone(r.Levels), From: r.From, To: r.To, Num: -r.Num}

	case noop:
		return r
	}
	panic("project: unknown record type")
}

func (d *Document) stale(r Record, id ID) Record {
	d.log.WithFields(logrus.Fields{"record": recordName(r), "id": id}).Warn("dropping undo record for deleted target")
	return noop{}
}

func recordName(r Record) string {
	switch r.(type) {
	case TileSnapshot:
		return "tile_snapshot"
	case PaletteCount:
		return "palette_count"
	case LevelDimensions:
		return "level_dimensions"
	case ObjectsInserted:
		return "objects_inserted"
	case ObjectsRemoved:
		return "objects_removed"
	case ObjectEdited:
		return "object_edited"
	case ObjectsMoved:
		return "objects_moved"
	case MetatilesShifted:
		return "metatiles_shifted"
	}
	return "noop"
}
