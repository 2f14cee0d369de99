package project

import (
	"github.com/milk9111/mapfab/geom"
	"github.com/milk9111/mapfab/history"
	"github.com/milk9111/mapfab/layer"
)

// Push records an edit that has already been applied.
func (d *Document) Push(r Record) bool {
	if r == nil {
		return false
	}
	return d.history.Push(r)
}

// Undo reverts the newest edit.
func (d *Document) Undo() bool { return d.history.Undo(d.apply) }

// Redo reapplies the newest undone edit.
func (d *Document) Redo() bool { return d.history.Redo(d.apply) }

// History exposes the undo and redo stacks.
func (d *Document) History() *history.History[Record] { return d.history }

func (d *Document) pushTiles(ref LayerRef, snap layer.Snapshot) bool {
	if snap.Empty() {
		return false
	}
	if ref.Kind == layer.KindColors {
		d.cache.clear()
	}
	return d.Push(TileSnapshot{Layer: ref, Snapshot: snap})
}

// Fill tiles the picker selection over the canvas selection of ref.
func (d *Document) Fill(ref LayerRef) bool {
	l, ok := d.TileLayer(ref)
	if !ok {
		return false
	}
	return d.pushTiles(ref, layer.Fill(l))
}

// FillPaste tiles a clipboard payload over the canvas selection of ref.
func (d *Document) FillPaste(ref LayerRef, p layer.Payload) bool {
	l, ok := d.TileLayer(ref)
	if !ok {
		return false
	}
	return d.pushTiles(ref, layer.FillPaste(l, p))
}

// Copy returns the canvas selection of ref as a payload.
func (d *Document) Copy(ref LayerRef) (layer.Payload, bool) {
	l, ok := d.TileLayer(ref)
	if !ok || l.Canvas().Empty() {
		return layer.Payload{}, false
	}
	p, _ := layer.Copy(l, false)
	return p, true
}

// Cut copies the canvas selection of ref and resets it.
func (d *Document) Cut(ref LayerRef) (layer.Payload, bool) {
	l, ok := d.TileLayer(ref)
	if !ok || l.Canvas().Empty() {
		return layer.Payload{}, false
	}
	p, snap := layer.Copy(l, true)
	d.pushTiles(ref, snap)
	return p, true
}

// Paste writes a payload with its top-left at at.
func (d *Document) Paste(ref LayerRef, p layer.Payload, at geom.Coord) bool {
	l, ok := d.TileLayer(ref)
	if !ok || p.Kind != l.Kind() || p.Tiles == nil {
		return false
	}
	snap := layer.Save(l, layer.PasteRect(p, at))
	layer.Paste(l, p, at)
	return d.pushTiles(ref, snap)
}

// Stamp writes the picker selection of ref at at.
func (d *Document) Stamp(ref LayerRef, at geom.Coord) bool {
	l, ok := d.TileLayer(ref)
	if !ok {
		return false
	}
	return d.pushTiles(ref, layer.Stamp(l, at))
}

// Dropper picks the code under c.
func (d *Document) Dropper(ref LayerRef, c geom.Coord) {
	if l, ok := d.TileLayer(ref); ok {
		layer.Dropper(l, c)
	}
}

// FillAttribute paints the active attribute of a metatile set over its CHR
// canvas selection.
func (d *Document) FillAttribute(set ID) bool {
	ms, ok := d.metatileSets.get(set)
	if !ok {
		return false
	}
	return d.pushTiles(LayerRef{Kind: layer.KindCHR, ID: set}, ms.CHR.FillAttribute())
}

// SetPaletteCount changes the number of palettes. A run of count changes
// records only the first.
func (d *Document) SetPaletteCount(n int) {
	old := d.Palette.Count()
	d.Palette.SetCount(n)
	if d.Palette.Count() == old {
		return
	}
	if top, ok := d.history.Top(history.Undo); ok {
		if _, same := top.(PaletteCount); same {
			d.history.ClearRedo()
			return
		}
	}
	d.Push(PaletteCount{Count: old})
}

// ResizeLevel changes a level's size, keeping the overlapping tiles. A run of
// resizes of the same level records only the first.
func (d *Document) ResizeLevel(id ID, size geom.Dimen) bool {
	l, ok := d.levels.get(id)
	if !ok {
		return false
	}
	old := l.Metatiles.Tiles().Clone()
	l.Metatiles.Resize(size)
	if l.Metatiles.CanvasDimen() == old.Dimen() {
		return false
	}
	if top, ok := d.history.Top(history.Undo); ok {
		if r, same := top.(LevelDimensions); same && r.Level == id {
			d.history.ClearRedo()
			return true
		}
	}
	return d.Push(LevelDimensions{Level: id, Tiles: old})
}

// ShiftMetatiles rotates the metatiles from..to of a set by num places and
// rewrites every level using the set so it still shows the same metatiles.
func (d *Document) ShiftMetatiles(set ID, from, to, num int) bool {
	ms, ok := d.metatileSets.get(set)
	if !ok || !layer.ValidShift(from, to, num) {
		return false
	}
	var levels []ID
	d.levels.each(func(id ID, l *Level) {
		if l.MetatileSet == ms.Name {
			levels = append(levels, id)
		}
	})
	r := MetatilesShifted{Set: set, Levels: levels, From: from, To: to, Num: num}
	return d.Push(d.apply(r))
}

// PlaceObject appends o to a level and returns its index.
func (d *Document) PlaceObject(id ID, o layer.Object) (int, bool) {
	l, ok := d.levels.get(id)
	if !ok {
		return 0, false
	}
	i := l.Objects.Append(o)
	d.Push(ObjectsInserted{Level: id, Indices: []int{i}})
	return i, true
}

// DeleteSelectedObjects removes the selected objects of a level.
func (d *Document) DeleteSelectedObjects(id ID) bool {
	l, ok := d.levels.get(id)
	if !ok {
		return false
	}
	pairs := l.Objects.Remove(l.Objects.Selected())
	return d.Push(ObjectsRemoved{Level: id, Objects: pairs})
}

// EditObject replaces object i. Nothing is recorded when o equals the
// current object.
func (d *Document) EditObject(id ID, i int, o layer.Object) bool {
	l, ok := d.levels.get(id)
	if !ok {
		return false
	}
	cur, ok := l.Objects.At(i)
	if !ok || cur.Equal(o) {
		return false
	}
	old, _ := l.Objects.Replace(i, o)
	return d.Push(ObjectEdited{Level: id, Index: i, Object: old})
}

// MoveSelectedObjects offsets the selected objects of a level by delta.
func (d *Document) MoveSelectedObjects(id ID, delta geom.Coord) bool {
	l, ok := d.levels.get(id)
	if !ok || delta == (geom.Coord{}) {
		return false
	}
	indices, old := l.Objects.Positions(l.Objects.Selected())
	l.Objects.Move(indices, delta)
	return d.Push(ObjectsMoved{Level: id, Indices: indices, Positions: old})
}

// CopyObjects returns the selected objects of a level as a payload, with
// positions relative to their average position. Cutting also removes them.
func (d *Document) CopyObjects(id ID, cut bool) (layer.Payload, bool) {
	l, ok := d.levels.get(id)
	if !ok {
		return layer.Payload{}, false
	}
	selected := l.Objects.Selected()
	if len(selected) == 0 {
		return layer.Payload{}, false
	}

	objects := make([]layer.Object, 0, len(selected))
	var sum geom.Coord
	for _, i := range selected {
		o, _ := l.Objects.At(i)
		sum = sum.Add(o.Position)
		objects = append(objects, o)
	}
	avg := sum.Div(len(objects))
	for i := range objects {
		objects[i].Position = objects[i].Position.Sub(avg)
	}

	if cut {
		d.Push(ObjectsRemoved{Level: id, Objects: l.Objects.Remove(selected)})
	}
	return layer.Payload{Kind: layer.KindObjects, Objects: objects}, true
}

// PasteObjects appends the payload's objects offset by at and selects them.
func (d *Document) PasteObjects(id ID, p layer.Payload, at geom.Coord) bool {
	l, ok := d.levels.get(id)
	if !ok || p.Kind != layer.KindObjects || len(p.Objects) == 0 {
		return false
	}
	l.Objects.SelectAll(false)
	indices := make([]int, len(p.Objects))
	for k, o := range p.Objects {
		o = o.Clone()
		o.Position = o.Position.Add(at)
		i := l.Objects.Append(o)
		l.Objects.Select(i, true)
		indices[len(indices)-1-k] = i
	}
	return d.Push(ObjectsInserted{Level: id, Indices: indices})
}
