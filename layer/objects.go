package layer

import (
	"maps"
	"slices"

	"github.com/milk9111/mapfab/geom"
)

// Object is a named, classed entity placed in a level. Fields holds one value
// per field of its class.
type Object struct {
	Position geom.Coord
	Name     string
	Class    string
	Fields   map[string]string
}

// Clone returns a copy that shares no field map with o.
func (o Object) Clone() Object {
	o.Fields = maps.Clone(o.Fields)
	return o
}

// Equal compares every attribute. A nil field map equals an empty one.
func (o Object) Equal(p Object) bool {
	return o.Position == p.Position && o.Name == p.Name && o.Class == p.Class &&
		maps.Equal(o.Fields, p.Fields)
}

// IndexedObject pairs an object with its position in the level's list.
type IndexedObject struct {
	Index  int
	Object Object
}

// ObjectLayer is the ordered object list of a level plus a selection of
// indices.
type ObjectLayer struct {
	objects  []Object
	selected map[int]struct{}
}

func NewObjectLayer(objects ...Object) *ObjectLayer {
	l := &ObjectLayer{selected: make(map[int]struct{})}
	for _, o := range objects {
		l.objects = append(l.objects, o.Clone())
	}
	return l
}

func (l *ObjectLayer) Len() int { return len(l.objects) }

// At returns a copy of object i.
func (l *ObjectLayer) At(i int) (Object, bool) {
	if i < 0 || i >= len(l.objects) {
		return Object{}, false
	}
	return l.objects[i].Clone(), true
}

// Objects returns copies of every object in order.
func (l *ObjectLayer) Objects() []Object {
	out := make([]Object, len(l.objects))
	for i, o := range l.objects {
		out[i] = o.Clone()
	}
	return out
}

// Append adds o at the end and returns its index.
func (l *ObjectLayer) Append(o Object) int {
	l.objects = append(l.objects, o.Clone())
	return len(l.objects) - 1
}

// Insert places each pair at its index, in the order given, and returns the
// indices actually used. Indices past the end append. The selection is
// cleared.
func (l *ObjectLayer) Insert(pairs []IndexedObject) []int {
	indices := make([]int, 0, len(pairs))
	for _, p := range pairs {
		i := max(0, min(p.Index, len(l.objects)))
		l.objects = slices.Insert(l.objects, i, p.Object.Clone())
		indices = append(indices, i)
	}
	clear(l.selected)
	return indices
}

// Remove erases the given indices and returns the removed objects in
// ascending index order. Invalid and duplicate indices are skipped. The
// selection is cleared.
func (l *ObjectLayer) Remove(indices []int) []IndexedObject {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	pairs := make([]IndexedObject, 0, len(sorted))
	for _, i := range sorted {
		if i < 0 || i >= len(l.objects) {
			continue
		}
		pairs = append(pairs, IndexedObject{Index: i, Object: l.objects[i]})
	}
	for k := len(pairs) - 1; k >= 0; k-- {
		i := pairs[k].Index
		l.objects = slices.Delete(l.objects, i, i+1)
	}
	clear(l.selected)
	return pairs
}

// Replace swaps object i for o and returns the previous value.
func (l *ObjectLayer) Replace(i int, o Object) (Object, bool) {
	if i < 0 || i >= len(l.objects) {
		return Object{}, false
	}
	old := l.objects[i]
	l.objects[i] = o.Clone()
	return old, true
}

// Positions returns the positions of the given objects. Invalid indices are
// dropped.
func (l *ObjectLayer) Positions(indices []int) ([]int, []geom.Coord) {
	valid := make([]int, 0, len(indices))
	positions := make([]geom.Coord, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(l.objects) {
			continue
		}
		valid = append(valid, i)
		positions = append(positions, l.objects[i].Position)
	}
	return valid, positions
}

// SetPositions moves each object to the matching position.
func (l *ObjectLayer) SetPositions(indices []int, positions []geom.Coord) {
	for k, i := range indices {
		if k >= len(positions) || i < 0 || i >= len(l.objects) {
			continue
		}
		l.objects[i].Position = positions[k]
	}
}

// Move offsets the given objects by delta.
func (l *ObjectLayer) Move(indices []int, delta geom.Coord) {
	for _, i := range indices {
		if i < 0 || i >= len(l.objects) {
			continue
		}
		l.objects[i].Position = l.objects[i].Position.Add(delta)
	}
}

// RenameClass rewrites the class of every object of class from.
func (l *ObjectLayer) RenameClass(from, to string) {
	for i := range l.objects {
		if l.objects[i].Class == from {
			l.objects[i].Class = to
		}
	}
}

// RenameField moves the value stored under from to to on every object of
// class.
func (l *ObjectLayer) RenameField(class, from, to string) {
	for i := range l.objects {
		o := &l.objects[i]
		if o.Class != class {
			continue
		}
		v, ok := o.Fields[from]
		if !ok {
			continue
		}
		delete(o.Fields, from)
		o.Fields[to] = v
	}
}

// DropField deletes the value stored under name on every object of class.
func (l *ObjectLayer) DropField(class, name string) {
	for i := range l.objects {
		if l.objects[i].Class == class {
			delete(l.objects[i].Fields, name)
		}
	}
}

func (l *ObjectLayer) Select(i int, selected bool) {
	if i < 0 || i >= len(l.objects) {
		return
	}
	if selected {
		l.selected[i] = struct{}{}
	} else {
		delete(l.selected, i)
	}
}

func (l *ObjectLayer) SelectAll(selected bool) {
	clear(l.selected)
	if !selected {
		return
	}
	for i := range l.objects {
		l.selected[i] = struct{}{}
	}
}

// SelectIn selects every object whose position lies inside r.
func (l *ObjectLayer) SelectIn(r geom.Rect) {
	for i, o := range l.objects {
		if r.Contains(o.Position) {
			l.selected[i] = struct{}{}
		}
	}
}

func (l *ObjectLayer) IsSelected(i int) bool {
	_, ok := l.selected[i]
	return ok
}

// Selected returns the selected indices in ascending order.
func (l *ObjectLayer) Selected() []int {
	return slices.Sorted(maps.Keys(l.selected))
}
