package layer

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf16"

	"github.com/milk9111/mapfab/geom"
)

// Kind tags which editing surface produced a payload.
type Kind uint16

const (
	KindColors Kind = iota
	KindCHR
	KindCollision
	KindMetatiles
	KindObjects
)

func (k Kind) String() string {
	switch k {
	case KindColors:
		return "colors"
	case KindCHR:
		return "chr"
	case KindCollision:
		return "collision"
	case KindMetatiles:
		return "metatiles"
	case KindObjects:
		return "objects"
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// Empty marks a payload cell that paste operations leave untouched.
const Empty uint16 = 0xFFFF

var (
	ErrWireTruncated = errors.New("layer: clipboard data truncated")
	ErrWireKind      = errors.New("layer: unknown clipboard kind")
)

// Payload is a clipboard entry. Tile kinds carry Tiles; KindObjects carries
// Objects.
type Payload struct {
	Kind    Kind
	Tiles   *geom.Grid[uint16]
	Objects []Object
}

// Valid reports whether the data variant matches the kind.
func (p Payload) Valid() bool {
	if p.Kind == KindObjects {
		return p.Tiles == nil
	}
	return p.Kind < KindObjects && p.Tiles != nil
}

// Wire flattens the payload into 16-bit words.
func (p Payload) Wire() []uint16 {
	if p.Kind != KindObjects {
		d := p.Tiles.Dimen()
		words := make([]uint16, 0, 3+d.Area())
		words = append(words, uint16(p.Kind), uint16(d.W), uint16(d.H))
		return append(words, p.Tiles.Cells()...)
	}

	words := []uint16{uint16(KindObjects), uint16(len(p.Objects))}
	for _, o := range p.Objects {
		words = append(words, uint16(int16(o.Position.X)), uint16(int16(o.Position.Y)))
		words = appendString(words, o.Name)
		words = appendString(words, o.Class)

		keys := make([]string, 0, len(o.Fields))
		for k := range o.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		words = append(words, uint16(len(keys)))
		for _, k := range keys {
			words = appendString(words, k)
			words = appendString(words, o.Fields[k])
		}
	}
	return words
}

// FromWire decodes words produced by Payload.Wire.
func FromWire(words []uint16) (Payload, error) {
	r := wireReader{words: words}
	kind := Kind(r.next())
	if r.err != nil {
		return Payload{}, r.err
	}

	switch {
	case kind < KindObjects:
		d := geom.Dimen{W: int(r.next()), H: int(r.next())}
		if r.err != nil {
			return Payload{}, r.err
		}
		if len(r.words)-r.pos < d.Area() {
			return Payload{}, ErrWireTruncated
		}
		tiles := geom.GridFrom(d, r.words[r.pos:r.pos+d.Area()])
		return Payload{Kind: kind, Tiles: tiles}, nil
	case kind == KindObjects:
		n := int(r.next())
		objects := make([]Object, 0, n)
		for i := 0; i < n && r.err == nil; i++ {
			o := Object{
				Position: geom.Coord{X: int(int16(r.next())), Y: int(int16(r.next()))},
				Name:     r.string(),
				Class:    r.string(),
			}
			fields := int(r.next())
			for j := 0; j < fields && r.err == nil; j++ {
				k := r.string()
				v := r.string()
				if o.Fields == nil {
					o.Fields = make(map[string]string, fields)
				}
				o.Fields[k] = v
			}
			objects = append(objects, o)
		}
		if r.err != nil {
			return Payload{}, r.err
		}
		return Payload{Kind: KindObjects, Objects: objects}, nil
	}
	return Payload{}, fmt.Errorf("%w: %d", ErrWireKind, uint16(kind))
}

func appendString(words []uint16, s string) []uint16 {
	words = append(words, utf16.Encode([]rune(s))...)
	return append(words, 0)
}

type wireReader struct {
	words []uint16
	pos   int
	err   error
}

func (r *wireReader) next() uint16 {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.words) {
		r.err = ErrWireTruncated
		return 0
	}
	w := r.words[r.pos]
	r.pos++
	return w
}

func (r *wireReader) string() string {
	start := r.pos
	for {
		w := r.next()
		if r.err != nil {
			return ""
		}
		if w == 0 {
			return string(utf16.Decode(r.words[start : r.pos-1]))
		}
	}
}
