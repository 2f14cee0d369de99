package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter records set a shared value; the inverse restores the previous one.
type counter struct {
	value int
	set   bool
}

func (c counter) Empty() bool { return !c.set }

func set(v int) counter { return counter{value: v, set: true} }

func TestPushTruncatesOldest(t *testing.T) {
	h := New[counter](0)
	for i := 0; i < 300; i++ {
		h.Push(set(i))
	}
	require.Equal(t, Limit, h.Len(Undo))

	records := h.Records(Undo)
	assert.Equal(t, 299, records[0].value)
	assert.Equal(t, 300-Limit, records[Limit-1].value)
}

func TestUndoRedo(t *testing.T) {
	state := 0
	apply := func(r counter) counter {
		old := state
		state = r.value
		return set(old)
	}
	h := New[counter](4)

	for _, v := range []int{1, 2, 3} {
		h.Push(set(state))
		state = v
	}
	require.True(t, h.Undo(apply))
	require.True(t, h.Undo(apply))
	assert.Equal(t, 1, state)
	assert.Equal(t, 2, h.Len(Redo))

	require.True(t, h.Redo(apply))
	assert.Equal(t, 2, state)

	h.Push(set(state))
	assert.Equal(t, 0, h.Len(Redo))
	assert.False(t, h.Redo(apply))

	top, ok := h.Top(Undo)
	require.True(t, ok)
	assert.Equal(t, 2, top.value)
}

func TestEmptyRecordsIgnored(t *testing.T) {
	h := New[counter](0)
	assert.False(t, h.Push(counter{}))
	assert.Equal(t, 0, h.Len(Undo))

	h.Push(set(1))
	h.Undo(func(counter) counter { return counter{} })
	assert.Equal(t, 0, h.Len(Redo))
	assert.Equal(t, 0, h.Len(Undo))
}

func TestClear(t *testing.T) {
	h := New[counter](0)
	h.Push(set(1))
	h.Push(set(2))
	h.Undo(func(r counter) counter { return r })
	h.Clear()
	assert.Equal(t, 0, h.Len(Undo))
	assert.Equal(t, 0, h.Len(Redo))
	_, ok := h.Top(Redo)
	assert.False(t, ok)
}

func TestClearRedoKeepsUndo(t *testing.T) {
	h := New[counter](0)
	h.Push(set(1))
	h.Push(set(2))
	h.Undo(func(r counter) counter { return r })
	require.Equal(t, 1, h.Len(Redo))

	h.ClearRedo()
	assert.Equal(t, 0, h.Len(Redo))
	assert.Equal(t, 1, h.Len(Undo))
	assert.False(t, h.Redo(func(r counter) counter { return r }))
}
