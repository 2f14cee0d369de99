package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/mapfab/geom"
)

func TestShiftIndex(t *testing.T) {
	cases := []struct {
		name           string
		i, from, to, n int
		want           int
	}{
		{"before_run", 2, 5, 10, 3, 2},
		{"after_run", 11, 5, 10, 3, 11},
		{"forward", 5, 5, 10, 3, 8},
		{"wraps", 9, 5, 10, 3, 6},
		{"backward", 5, 5, 10, -1, 10},
		{"larger_than_run", 5, 5, 10, 13, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShiftIndex(tc.i, tc.from, tc.to, tc.n))
		})
	}
}

func TestValidShift(t *testing.T) {
	assert.True(t, ValidShift(0, 255, 1))
	assert.False(t, ValidShift(0, 255, 256))
	assert.False(t, ValidShift(0, 255, 0))
	assert.False(t, ValidShift(-1, 4, 1))
	assert.False(t, ValidShift(4, 256, 1))
	assert.False(t, ValidShift(5, 4, 1))
}

func TestShiftMetatilesRoundTrip(t *testing.T) {
	l := NewCHRLayer()
	col := NewCollisionLayer()
	m := NewMetatileLayer(geom.Dimen{W: 4, H: 1})
	for i := 0; i < 4; i++ {
		l.Set(c(i*2+1, 1), uint16(i+1)|uint16(i%4)<<8)
		col.Set(c(i, 0), uint16(i+10))
		m.Set(c(i, 0), uint16(i))
	}
	before := l.Tiles().Clone()
	attrs := l.Attributes().Clone()

	l.ShiftMetatiles(1, 3, 1)
	col.ShiftMetatiles(1, 3, 1)
	m.ShiftMetatiles(1, 3, 1)

	// Metatile 3 wraps to 1; 1 and 2 move up by one.
	assert.Equal(t, uint16(4|3<<8), l.Get(c(3, 1)))
	assert.Equal(t, uint16(2|1<<8), l.Get(c(5, 1)))
	assert.Equal(t, uint16(1), l.Get(c(1, 1)))
	assert.Equal(t, []uint16{10, 13, 11, 12}, []uint16{col.Get(c(0, 0)), col.Get(c(1, 0)), col.Get(c(2, 0)), col.Get(c(3, 0))})
	assert.Equal(t, []uint8{0, 2, 3, 1}, m.Tiles().Cells())

	l.ShiftMetatiles(1, 3, -1)
	assert.True(t, before.Equal(l.Tiles()))
	assert.True(t, attrs.Equal(l.Attributes()))
}
