// Package history is a bounded two-stack undo/redo log.
package history

// Limit is the default number of records kept per stack.
const Limit = 256

// Record is an undoable edit. Empty records are never stored.
type Record interface {
	Empty() bool
}

// Direction selects the undo or redo stack.
type Direction int

const (
	Undo Direction = iota
	Redo
)

// History keeps the most recent records first. Applying a record must return
// its exact inverse.
type History[T Record] struct {
	stacks [2][]T
	limit  int
}

// New returns a history that keeps at most limit records per stack. A
// non-positive limit uses Limit.
func New[T Record](limit int) *History[T] {
	if limit <= 0 {
		limit = Limit
	}
	return &History[T]{limit: limit}
}

// Push stores r as the newest undo record and clears redo.
func (h *History[T]) Push(r T) bool {
	if r.Empty() {
		return false
	}
	h.ClearRedo()
	h.push(Undo, r)
	return true
}

// Undo applies the newest undo record and stores its inverse for redo.
func (h *History[T]) Undo(apply func(T) T) bool { return h.step(Undo, apply) }

// Redo applies the newest redo record and stores its inverse for undo.
func (h *History[T]) Redo(apply func(T) T) bool { return h.step(Redo, apply) }

func (h *History[T]) step(dir Direction, apply func(T) T) bool {
	s := h.stacks[dir]
	if len(s) == 0 {
		return false
	}
	r := s[len(s)-1]
	var zero T
	s[len(s)-1] = zero
	h.stacks[dir] = s[:len(s)-1]

	if inverse := apply(r); !inverse.Empty() {
		h.push(1-dir, inverse)
	}
	return true
}

func (h *History[T]) push(dir Direction, r T) {
	s := append(h.stacks[dir], r)
	if over := len(s) - h.limit; over > 0 {
		s = append(s[:0], s[over:]...)
	}
	h.stacks[dir] = s
}

// Top returns the newest record of dir without removing it.
func (h *History[T]) Top(dir Direction) (T, bool) {
	s := h.stacks[dir]
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	return s[len(s)-1], true
}

// Len returns the number of records on dir.
func (h *History[T]) Len(dir Direction) int { return len(h.stacks[dir]) }

// Records returns the records of dir, newest first.
func (h *History[T]) Records(dir Direction) []T {
	s := h.stacks[dir]
	out := make([]T, len(s))
	for i, r := range s {
		out[len(s)-1-i] = r
	}
	return out
}

// ClearRedo drops the redo records. Callers that fold an edit into the
// newest undo record use it in place of Push.
func (h *History[T]) ClearRedo() {
	clear(h.stacks[Redo])
	h.stacks[Redo] = h.stacks[Redo][:0]
}

// Clear drops every record.
func (h *History[T]) Clear() {
	h.stacks[Undo] = nil
	h.stacks[Redo] = nil
}
