package project

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/milk9111/mapfab/geom"
	"github.com/milk9111/mapfab/layer"
)

const (
	Magic = "MapFab\x00"

	// Version is the binary format written by this package. Version 1 files
	// store collection counts in one byte with 0 meaning 256 and class field
	// counts in a plain byte; version 2 widens both to 16 bits.
	Version = 2
)

var (
	ErrBadMagic     = errors.New("project: not a MapFab file")
	ErrNewerVersion = errors.New("project: file was written by a newer version")
	ErrTruncated    = errors.New("project: unexpected end of file")
)

type binWriter struct {
	w   *bufio.Writer
	err error
}

func (w *binWriter) bytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *binWriter) u8(v int) { w.bytes([]byte{byte(v)}) }

func (w *binWriter) u16(v int) {
	w.bytes(binary.LittleEndian.AppendUint16(nil, uint16(v)))
}

// biased writes 1..256 in one byte, 256 as 0.
func (w *binWriter) biased(v int) { w.u8(v & 0xFF) }

func (w *binWriter) str(s string) {
	w.bytes([]byte(s))
	w.u8(0)
}

// WriteBinary encodes the document in the .mapfab format. Source paths are
// written relative to Dir.
func (d *Document) WriteBinary(out io.Writer) error {
	w := &binWriter{w: bufio.NewWriter(out)}
	w.bytes([]byte(Magic))
	w.u8(Version)
	w.str(d.relative(d.CollisionPath))

	w.u16(len(d.chrs))
	for _, f := range d.chrs {
		w.str(f.Name)
		w.str(d.relative(f.Path))
	}

	w.biased(d.Palette.Count())
	for _, c := range d.Palette.Colors().Cells() {
		w.u8(int(c))
	}

	w.u16(d.metatileSets.len())
	d.metatileSets.each(func(_ ID, ms *MetatileSet) {
		w.str(ms.Name)
		w.str(ms.CHRName)
		w.u8(int(ms.Palette))
		w.biased(ms.Num)
		w.bytes(ms.CHR.Tiles().Cells())
		w.bytes(ms.CHR.Attributes().Cells())
		w.bytes(ms.Collisions.Tiles().Cells())
	})

	w.u16(d.classes.len())
	d.classes.each(func(_ ID, c *ObjectClass) {
		w.str(c.Name)
		w.bytes([]byte{c.Color.R, c.Color.G, c.Color.B})
		w.u16(len(c.Fields))
		for _, f := range c.Fields {
			w.str(f.Name)
			w.str(f.Type)
		}
	})

	w.u16(d.levels.len())
	d.levels.each(func(_ ID, l *Level) {
		w.str(l.Name)
		w.str(l.Macro)
		w.str(l.CHRName)
		w.u8(int(l.Palette))
		w.str(l.MetatileSet)
		size := l.Metatiles.CanvasDimen()
		w.biased(size.W)
		w.biased(size.H)
		w.bytes(l.Metatiles.Tiles().Cells())

		objects := l.Objects.Objects()
		w.u16(len(objects))
		for _, o := range objects {
			w.str(o.Name)
			w.str(o.Class)
			w.u16(int(int16(o.Position.X)))
			w.u16(int(int16(o.Position.Y)))
			if _, c, ok := d.ClassByName(o.Class); ok {
				for _, f := range c.Fields {
					w.str(o.Fields[f.Name])
				}
			}
		}
	})

	if w.err != nil {
		return fmt.Errorf("project: write: %w", w.err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("project: write: %w", err)
	}
	return nil
}

type binReader struct {
	data []byte
	pos  int
	err  error
}

func (r *binReader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if len(r.data)-r.pos < n {
		r.err = ErrTruncated
		r.pos = len(r.data)
		return make([]byte, n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *binReader) u8() int { return int(r.bytes(1)[0]) }

func (r *binReader) u16() int { return int(binary.LittleEndian.Uint16(r.bytes(2))) }

// biased reads a one-byte value where 0 means 256.
func (r *binReader) biased() int {
	v := r.u8()
	if v == 0 {
		return 256
	}
	return v
}

func (r *binReader) str() string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		r.err = ErrTruncated
		r.pos = len(r.data)
		return ""
	}
	s := string(r.data[r.pos : r.pos+i])
	r.pos += i + 1
	return s
}

// DecodeBinary reads a .mapfab file. Source paths are resolved against the
// directory given with WithDir but not loaded; see LoadSources.
func DecodeBinary(in io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("project: read: %w", err)
	}
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return nil, ErrBadMagic
	}
	r := &binReader{data: data, pos: len(Magic)}
	version := r.u8()
	if r.err != nil {
		return nil, r.err
	}
	if version > Version {
		return nil, fmt.Errorf("%w: version %d", ErrNewerVersion, version)
	}
	count, fieldCount := r.u16, r.u16
	if version < 2 {
		count, fieldCount = r.biased, r.u8
	}

	d := New(opts...)
	d.CollisionPath = d.resolve(r.str())

	for i, n := 0, count(); i < n && r.err == nil; i++ {
		name := r.str()
		path := r.str()
		d.chrs = append(d.chrs, &CHRFile{Name: name, Path: d.resolve(path)})
	}

	d.Palette.SetCount(r.biased())
	copy(d.Palette.Colors().Cells(), r.bytes(layer.PaletteColumns*layer.MaxPalettes))

	for i, n := 0, count(); i < n && r.err == nil; i++ {
		ms := NewMetatileSet(r.str())
		ms.CHRName = r.str()
		ms.Palette = uint8(r.u8())
		ms.Num = r.biased()
		copy(ms.CHR.Tiles().Cells(), r.bytes(len(ms.CHR.Tiles().Cells())))
		copy(ms.CHR.Attributes().Cells(), r.bytes(len(ms.CHR.Attributes().Cells())))
		copy(ms.Collisions.Tiles().Cells(), r.bytes(len(ms.Collisions.Tiles().Cells())))
		d.metatileSets.add(ms)
	}

	for i, n := 0, count(); i < n && r.err == nil; i++ {
		c := &ObjectClass{Name: r.str()}
		rgb := r.bytes(3)
		c.Color = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}
		for j, m := 0, fieldCount(); j < m && r.err == nil; j++ {
			c.Fields = append(c.Fields, Field{Name: r.str(), Type: r.str()})
		}
		d.classes.add(c)
	}

	for i, n := 0, count(); i < n && r.err == nil; i++ {
		l := NewLevel(r.str())
		l.Macro = r.str()
		l.CHRName = r.str()
		l.Palette = uint8(r.u8())
		l.MetatileSet = r.str()
		size := geom.Dimen{W: r.biased(), H: r.biased()}
		l.Metatiles.SetTiles(geom.GridFrom(size, r.bytes(size.Area())))

		objects := make([]layer.Object, r.u16())
		for k := range objects {
			o := layer.Object{Name: r.str(), Class: r.str()}
			o.Position = geom.Coord{X: int(int16(r.u16())), Y: int(int16(r.u16()))}
			if _, c, ok := d.ClassByName(o.Class); ok && len(c.Fields) > 0 {
				o.Fields = make(map[string]string, len(c.Fields))
				for _, f := range c.Fields {
					o.Fields[f.Name] = r.str()
				}
			}
			objects[k] = o
		}
		l.Objects = layer.NewObjectLayer(objects...)
		d.levels.add(l)
	}

	if r.err != nil {
		d.Close()
		return nil, fmt.Errorf("project: decode: %w", r.err)
	}
	return d, nil
}
