package project

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"github.com/milk9111/mapfab/geom"
	"github.com/milk9111/mapfab/layer"
)

type jsonCHR struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type jsonPalettes struct {
	Num  int   `json:"num"`
	Data []int `json:"data"`
}

type jsonMetatileSet struct {
	Name       string `json:"name"`
	CHR        string `json:"chr"`
	Palette    int    `json:"palette"`
	Num        int    `json:"num"`
	Tiles      []int  `json:"tiles"`
	Attributes []int  `json:"attributes"`
	Collisions []int  `json:"collisions"`
}

type jsonField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type jsonClass struct {
	Name   string      `json:"name"`
	Color  [3]uint8    `json:"color"`
	Fields []jsonField `json:"fields"`
}

type jsonObject struct {
	Name   string            `json:"name"`
	Class  string            `json:"object_class"`
	Fields map[string]string `json:"fields"`
	X      int               `json:"x"`
	Y      int               `json:"y"`
}

type jsonLevel struct {
	Name        string       `json:"name"`
	Macro       string       `json:"macro"`
	CHR         string       `json:"chr"`
	Palette     int          `json:"palette"`
	MetatileSet string       `json:"metatile_set"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Tiles       []int        `json:"tiles"`
	Objects     []jsonObject `json:"objects"`
}

type jsonProject struct {
	Version       int               `json:"version"`
	CollisionPath string            `json:"collision_path"`
	CHR           []jsonCHR         `json:"chr"`
	Palettes      jsonPalettes      `json:"palettes"`
	MetatileSets  []jsonMetatileSet `json:"metatile_sets"`
	ObjectClasses []jsonClass       `json:"object_classes"`
	Levels        []jsonLevel       `json:"levels"`
}

func ints(b []uint8) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func fillBytes(dst []uint8, src []int) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		dst[i] = uint8(src[i])
	}
}

// WriteJSON encodes the document as indented JSON. Source paths are written
// relative to Dir.
func (d *Document) WriteJSON(out io.Writer) error {
	p := jsonProject{
		Version:       Version,
		CollisionPath: d.relative(d.CollisionPath),
		CHR:           []jsonCHR{},
		Palettes:      jsonPalettes{Num: d.Palette.Count(), Data: ints(d.Palette.Colors().Cells())},
		MetatileSets:  []jsonMetatileSet{},
		ObjectClasses: []jsonClass{},
		Levels:        []jsonLevel{},
	}
	for _, f := range d.chrs {
		p.CHR = append(p.CHR, jsonCHR{Name: f.Name, Path: d.relative(f.Path)})
	}
	d.metatileSets.each(func(_ ID, ms *MetatileSet) {
		p.MetatileSets = append(p.MetatileSets, jsonMetatileSet{
			Name:       ms.Name,
			CHR:        ms.CHRName,
			Palette:    int(ms.Palette),
			Num:        ms.Num,
			Tiles:      ints(ms.CHR.Tiles().Cells()),
			Attributes: ints(ms.CHR.Attributes().Cells()),
			Collisions: ints(ms.Collisions.Tiles().Cells()),
		})
	})
	d.classes.each(func(_ ID, c *ObjectClass) {
		jc := jsonClass{Name: c.Name, Color: [3]uint8{c.Color.R, c.Color.G, c.Color.B}, Fields: []jsonField{}}
		for _, f := range c.Fields {
			jc.Fields = append(jc.Fields, jsonField{Name: f.Name, Type: f.Type})
		}
		p.ObjectClasses = append(p.ObjectClasses, jc)
	})
	d.levels.each(func(_ ID, l *Level) {
		size := l.Metatiles.CanvasDimen()
		jl := jsonLevel{
			Name:        l.Name,
			Macro:       l.Macro,
			CHR:         l.CHRName,
			Palette:     int(l.Palette),
			MetatileSet: l.MetatileSet,
			Width:       size.W,
			Height:      size.H,
			Tiles:       ints(l.Metatiles.Tiles().Cells()),
			Objects:     []jsonObject{},
		}
		for _, o := range l.Objects.Objects() {
			fields := d.schemaFields(o)
			if fields == nil {
				fields = map[string]string{}
			}
			jl.Objects = append(jl.Objects, jsonObject{
				Name:   o.Name,
				Class:  o.Class,
				Fields: fields,
				X:      o.Position.X,
				Y:      o.Position.Y,
			})
		}
		p.Levels = append(p.Levels, jl)
	})

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("project: encode json: %w", err)
	}
	return nil
}

// DecodeJSON reads a JSON project. Source paths are resolved against the
// directory given with WithDir but not loaded; see LoadSources.
func DecodeJSON(in io.Reader, opts ...Option) (*Document, error) {
	var p jsonProject
	if err := json.NewDecoder(in).Decode(&p); err != nil {
		return nil, fmt.Errorf("project: decode json: %w", err)
	}
	if p.Version > Version {
		return nil, fmt.Errorf("%w: version %d", ErrNewerVersion, p.Version)
	}

	d := New(opts...)
	d.CollisionPath = d.resolve(p.CollisionPath)
	for _, f := range p.CHR {
		d.chrs = append(d.chrs, &CHRFile{Name: f.Name, Path: d.resolve(f.Path)})
	}
	d.Palette.SetCount(p.Palettes.Num)
	fillBytes(d.Palette.Colors().Cells(), p.Palettes.Data)

	for _, jm := range p.MetatileSets {
		ms := NewMetatileSet(jm.Name)
		ms.CHRName = jm.CHR
		ms.Palette = uint8(jm.Palette)
		ms.Num = max(1, min(jm.Num, 256))
		fillBytes(ms.CHR.Tiles().Cells(), jm.Tiles)
		fillBytes(ms.CHR.Attributes().Cells(), jm.Attributes)
		fillBytes(ms.Collisions.Tiles().Cells(), jm.Collisions)
		d.metatileSets.add(ms)
	}

	for _, jc := range p.ObjectClasses {
		c := &ObjectClass{
			Name:  jc.Name,
			Color: color.RGBA{R: jc.Color[0], G: jc.Color[1], B: jc.Color[2], A: 0xFF},
		}
		for _, f := range jc.Fields {
			c.Fields = append(c.Fields, Field{Name: f.Name, Type: f.Type})
		}
		d.classes.add(c)
	}

	for _, jl := range p.Levels {
		l := NewLevel(jl.Name)
		l.Macro = jl.Macro
		l.CHRName = jl.CHR
		l.Palette = uint8(jl.Palette)
		l.MetatileSet = jl.MetatileSet
		l.Metatiles.Resize(geom.Dimen{W: jl.Width, H: jl.Height})
		fillBytes(l.Metatiles.Tiles().Cells(), jl.Tiles)

		objects := make([]layer.Object, 0, len(jl.Objects))
		for _, jo := range jl.Objects {
			o := layer.Object{
				Position: geom.Coord{X: jo.X, Y: jo.Y},
				Name:     jo.Name,
				Class:    jo.Class,
				Fields:   jo.Fields,
			}
			o.Fields = d.schemaFields(o)
			objects = append(objects, o)
		}
		l.Objects = layer.NewObjectLayer(objects...)
		d.levels.add(l)
	}
	return d, nil
}
