package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mapfab/geom"
)

func TestWireTiles(t *testing.T) {
	p := Payload{
		Kind:  KindCHR,
		Tiles: geom.GridFrom(geom.Dimen{W: 3, H: 2}, []uint16{1, Empty, 0x203, 4, 5, Empty}),
	}
	words := p.Wire()
	assert.Equal(t, []uint16{uint16(KindCHR), 3, 2, 1, Empty, 0x203, 4, 5, Empty}, words)

	got, err := FromWire(words)
	require.NoError(t, err)
	assert.Equal(t, p.Kind, got.Kind)
	assert.True(t, p.Tiles.Equal(got.Tiles))
	assert.True(t, got.Valid())
}

func TestWireObjects(t *testing.T) {
	p := Payload{Kind: KindObjects, Objects: []Object{
		{Position: c(-16, 40), Name: "door", Class: "warp", Fields: map[string]string{"to": "level_2", "x": "8"}},
		{Position: c(3, -1), Name: "", Class: "coin"},
		{Position: c(0, 0), Name: "sign", Class: "text", Fields: map[string]string{"msg": "héllo"}},
	}}

	got, err := FromWire(p.Wire())
	require.NoError(t, err)
	require.Len(t, got.Objects, len(p.Objects))
	for i := range p.Objects {
		assert.True(t, p.Objects[i].Equal(got.Objects[i]), "object %d: %+v", i, got.Objects[i])
	}
}

func TestWireErrors(t *testing.T) {
	cases := []struct {
		name  string
		words []uint16
		err   error
	}{
		{"empty", nil, ErrWireTruncated},
		{"short_tiles", []uint16{uint16(KindMetatiles), 2, 2, 1, 2, 3}, ErrWireTruncated},
		{"missing_dimen", []uint16{uint16(KindColors), 4}, ErrWireTruncated},
		{"unterminated_name", []uint16{uint16(KindObjects), 1, 0, 0, 'a', 'b'}, ErrWireTruncated},
		{"unknown_kind", []uint16{42, 0, 0}, ErrWireKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromWire(tc.words)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
