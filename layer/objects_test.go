package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(names ...string) *ObjectLayer {
	l := NewObjectLayer()
	for _, n := range names {
		l.Append(Object{Name: n, Class: "c"})
	}
	return l
}

func names(l *ObjectLayer) []string {
	var out []string
	for _, o := range l.Objects() {
		out = append(out, o.Name)
	}
	return out
}

func TestObjectRemoveInsertRoundTrip(t *testing.T) {
	l := named("a", "b", "c", "d", "e")

	pairs := l.Remove([]int{3, 1, 3, 9})
	require.Len(t, pairs, 2)
	assert.Equal(t, 1, pairs[0].Index)
	assert.Equal(t, "b", pairs[0].Object.Name)
	assert.Equal(t, []string{"a", "c", "e"}, names(l))

	indices := l.Insert(pairs)
	assert.Equal(t, []int{1, 3}, indices)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(l))
}

func TestObjectSelection(t *testing.T) {
	l := named("a", "b", "c")
	l.Select(2, true)
	l.Select(0, true)
	l.Select(7, true)
	assert.Equal(t, []int{0, 2}, l.Selected())

	l.Remove([]int{1})
	assert.Empty(t, l.Selected())

	l.SelectAll(true)
	assert.Equal(t, []int{0, 1}, l.Selected())
}

func TestObjectMoveAndRename(t *testing.T) {
	l := NewObjectLayer(
		Object{Name: "a", Class: "enemy", Fields: map[string]string{"hp": "3"}},
		Object{Name: "b", Class: "item", Fields: map[string]string{"hp": "1"}},
	)
	l.Move([]int{0, 1}, c(4, -2))
	_, pos := l.Positions([]int{0, 1, 5})
	assert.Equal(t, c(4, -2), pos[0])
	assert.Len(t, pos, 2)

	l.RenameField("enemy", "hp", "health")
	a, _ := l.At(0)
	b, _ := l.At(1)
	assert.Equal(t, map[string]string{"health": "3"}, a.Fields)
	assert.Equal(t, map[string]string{"hp": "1"}, b.Fields)

	l.RenameClass("enemy", "foe")
	a, _ = l.At(0)
	assert.Equal(t, "foe", a.Class)
}

func TestObjectAtReturnsCopy(t *testing.T) {
	l := NewObjectLayer(Object{Name: "a", Fields: map[string]string{"k": "v"}})
	o, ok := l.At(0)
	require.True(t, ok)
	o.Fields["k"] = "changed"

	again, _ := l.At(0)
	assert.Equal(t, "v", again.Fields["k"])

	_, ok = l.At(1)
	assert.False(t, ok)
}
