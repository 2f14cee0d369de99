package project

import "slices"

// ID identifies a metatile set, level or object class for the lifetime of a
// Document. IDs are never reused.
type ID uint32

// arena owns values by ID and remembers insertion order for saving.
type arena[T any] struct {
	next  ID
	order []ID
	items map[ID]*T
}

func newArena[T any]() arena[T] {
	return arena[T]{next: 1, items: make(map[ID]*T)}
}

func (a *arena[T]) add(v *T) ID {
	id := a.next
	a.next++
	a.items[id] = v
	a.order = append(a.order, id)
	return id
}

func (a *arena[T]) get(id ID) (*T, bool) {
	v, ok := a.items[id]
	return v, ok
}

func (a *arena[T]) remove(id ID) bool {
	if _, ok := a.items[id]; !ok {
		return false
	}
	delete(a.items, id)
	a.order = slices.DeleteFunc(a.order, func(o ID) bool { return o == id })
	return true
}

func (a *arena[T]) ids() []ID { return slices.Clone(a.order) }

func (a *arena[T]) len() int { return len(a.order) }

func (a *arena[T]) find(match func(*T) bool) (ID, *T, bool) {
	for _, id := range a.order {
		if v := a.items[id]; match(v) {
			return id, v, true
		}
	}
	return 0, nil, false
}

func (a *arena[T]) each(fn func(ID, *T)) {
	for _, id := range a.order {
		fn(id, a.items[id])
	}
}
