package project

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	// Register BMP so CHR and collision sources can be bitmaps.
	_ "golang.org/x/image/bmp"

	"github.com/milk9111/mapfab/chr"
	"github.com/milk9111/mapfab/geom"
	"github.com/milk9111/mapfab/layer"
)

// CHRFile is a named CHR source. Data holds at most chr.MaxBytes.
type CHRFile struct {
	Name string
	Path string
	Data []byte
}

// Load reads Path into Data. PNG and BMP images are converted to CHR;
// anything else is taken as raw pattern data.
func (f *CHRFile) Load(quantize bool) error {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("project: read chr %s: %w", f.Path, err)
	}
	data, err := decodeCHR(raw, filepath.Ext(f.Path), quantize)
	if err != nil {
		return fmt.Errorf("project: convert chr %s: %w", f.Path, err)
	}
	f.Data = data
	return nil
}

func decodeCHR(raw []byte, ext string, quantize bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch ext = strings.ToLower(ext); {
	case ext == ".png" && !quantize:
		data, err = chr.FromPNG(raw, false)
	case ext == ".png" || ext == ".bmp":
		data, err = imageToCHR(raw, quantize)
	default:
		data = raw
	}
	if err != nil {
		return nil, err
	}
	if len(data) > chr.MaxBytes {
		data = data[:chr.MaxBytes]
	}
	return data, nil
}

func imageToCHR(raw []byte, quantize bool) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if quantize {
		img = chr.Quantize(img)
	}
	return chr.FromImage(img, false)
}

// MetatileSet is 256 metatiles built from one CHR file: 32x32 CHR tiles with
// attributes plus a 16x16 collision grid.
type MetatileSet struct {
	Name    string
	CHRName string
	Palette uint8

	// Num is how many metatiles are in use, 1..256.
	Num int

	CHR        *layer.CHRLayer
	Collisions *layer.CollisionLayer
}

func NewMetatileSet(name string) *MetatileSet {
	return &MetatileSet{
		Name:       name,
		Num:        256,
		CHR:        layer.NewCHRLayer(),
		Collisions: layer.NewCollisionLayer(),
	}
}

// Field is one typed attribute of an object class.
type Field struct {
	Name string
	Type string
}

// ObjectClass is the schema shared by objects of one kind.
type ObjectClass struct {
	Name   string
	Color  color.RGBA
	Fields []Field
}

func (c *ObjectClass) fieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// schemaFields returns the value of each field of o's class, "" where o has
// none. Fields outside the class are dropped. Objects of an unknown class or
// a class without fields get nil.
func (d *Document) schemaFields(o layer.Object) map[string]string {
	_, c, ok := d.ClassByName(o.Class)
	if !ok || len(c.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(c.Fields))
	for _, f := range c.Fields {
		m[f.Name] = o.Fields[f.Name]
	}
	return m
}

// DefaultLevelSize is the size of a new level: one NES screen of metatiles.
var DefaultLevelSize = geom.Dimen{W: 16, H: 15}

// Level is a metatile grid plus its objects. MetatileSet and CHRName refer to
// entries of the owning Document by name.
type Level struct {
	Name        string
	Macro       string
	CHRName     string
	Palette     uint8
	MetatileSet string

	Metatiles *layer.MetatileLayer
	Objects   *layer.ObjectLayer
}

func NewLevel(name string) *Level {
	return &Level{
		Name:      name,
		Metatiles: layer.NewMetatileLayer(DefaultLevelSize),
		Objects:   layer.NewObjectLayer(),
	}
}
