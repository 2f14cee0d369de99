// Package project holds the MapFab document: the palette, CHR sources,
// metatile sets, object classes and levels of one project, the undo history
// over all of them, and the binary and JSON file formats.
package project

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/mapfab/chr"
	"github.com/milk9111/mapfab/history"
	"github.com/milk9111/mapfab/layer"
)

var (
	ErrNotFound      = errors.New("project: not found")
	ErrDuplicateName = errors.New("project: name already in use")
	ErrEmptyName     = errors.New("project: empty name")
)

// Document is one MapFab project. It is not safe for concurrent use.
type Document struct {
	// Dir is the project directory; relative source paths resolve against it.
	Dir           string
	CollisionPath string
	Palette       *layer.ColorLayer

	chrs         []*CHRFile
	metatileSets arena[MetatileSet]
	levels       arena[Level]
	classes      arena[ObjectClass]

	history   *history.History[Record]
	cache     *renderCache
	collision []*image.RGBA

	log          logrus.FieldLogger
	quantize     bool
	historyLimit int
}

type Option func(*Document)

// WithLogger sets the logger. Documents log nothing by default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Document) { d.log = l }
}

// WithQuantize reduces PNG and BMP sources to four colors before converting
// them to CHR.
func WithQuantize(q bool) Option {
	return func(d *Document) { d.quantize = q }
}

// WithDir sets the project directory used to resolve relative source paths.
func WithDir(dir string) Option {
	return func(d *Document) { d.Dir = dir }
}

// WithHistoryLimit caps the undo and redo stacks.
func WithHistoryLimit(n int) Option {
	return func(d *Document) { d.historyLimit = n }
}

func New(opts ...Option) *Document {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	d := &Document{
		Palette:      layer.NewColorLayer(),
		metatileSets: newArena[MetatileSet](),
		levels:       newArena[Level](),
		classes:      newArena[ObjectClass](),
		log:          discard,
		historyLimit: history.Limit,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.history = history.New[Record](d.historyLimit)

	cache, err := newRenderCache()
	if err != nil {
		d.log.WithError(err).Warn("render cache disabled")
	}
	d.cache = cache
	return d
}

// Close releases the render cache.
func (d *Document) Close() {
	d.cache.close()
}

// Logger returns the document's logger.
func (d *Document) Logger() logrus.FieldLogger { return d.log }

func (d *Document) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || d.Dir == "" {
		return path
	}
	return filepath.Join(d.Dir, filepath.FromSlash(path))
}

func (d *Document) relative(path string) string {
	if path == "" || d.Dir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(d.Dir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// CHRFiles returns the CHR table in order.
func (d *Document) CHRFiles() []*CHRFile { return slices.Clone(d.chrs) }

func (d *Document) CHR(name string) (*CHRFile, bool) {
	for _, f := range d.chrs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// AddCHR registers path under name and loads it. The entry is kept even when
// loading fails so it can be reloaded once the file is fixed.
func (d *Document) AddCHR(name, path string) (*CHRFile, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := d.CHR(name); ok {
		return nil, fmt.Errorf("%w: chr %q", ErrDuplicateName, name)
	}
	f := &CHRFile{Name: name, Path: d.resolve(path)}
	d.chrs = append(d.chrs, f)
	if err := f.Load(d.quantize); err != nil {
		return f, err
	}
	d.log.WithFields(logrus.Fields{"chr": name, "path": f.Path, "bytes": len(f.Data)}).Debug("chr loaded")
	d.cache.clear()
	return f, nil
}

// ReloadCHR rereads a CHR source from disk.
func (d *Document) ReloadCHR(name string) error {
	f, ok := d.CHR(name)
	if !ok {
		return fmt.Errorf("%w: chr %q", ErrNotFound, name)
	}
	defer d.cache.clear()
	return f.Load(d.quantize)
}

// DeleteCHR removes a CHR entry. Metatile sets and levels keep referring to
// the name and render blank until a file with that name is added again.
func (d *Document) DeleteCHR(name string) bool {
	n := len(d.chrs)
	d.chrs = slices.DeleteFunc(d.chrs, func(f *CHRFile) bool { return f.Name == name })
	if len(d.chrs) == n {
		return false
	}
	d.cache.clear()
	return true
}

func (d *Document) RenameCHR(from, to string) error {
	f, ok := d.CHR(from)
	if !ok {
		return fmt.Errorf("%w: chr %q", ErrNotFound, from)
	}
	if err := d.checkName(to, from, func(n string) bool { _, ok := d.CHR(n); return ok }); err != nil {
		return err
	}
	f.Name = to
	d.propagateRename(refCHR, "", from, to)
	d.cache.clear()
	return nil
}

func (d *Document) checkName(to, from string, taken func(string) bool) error {
	if to == "" {
		return ErrEmptyName
	}
	if to != from && taken(to) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, to)
	}
	return nil
}

// MetatileSets returns metatile set IDs in order.
func (d *Document) MetatileSets() []ID { return d.metatileSets.ids() }

func (d *Document) MetatileSet(id ID) (*MetatileSet, bool) { return d.metatileSets.get(id) }

func (d *Document) MetatileSetByName(name string) (ID, *MetatileSet, bool) {
	return d.metatileSets.find(func(ms *MetatileSet) bool { return ms.Name == name })
}

func (d *Document) AddMetatileSet(ms *MetatileSet) (ID, error) {
	if ms.Name == "" {
		return 0, ErrEmptyName
	}
	if _, _, ok := d.MetatileSetByName(ms.Name); ok {
		return 0, fmt.Errorf("%w: metatile set %q", ErrDuplicateName, ms.Name)
	}
	return d.metatileSets.add(ms), nil
}

// DeleteMetatileSet removes a set. Undo records that refer to it become
// no-ops.
func (d *Document) DeleteMetatileSet(id ID) bool { return d.metatileSets.remove(id) }

func (d *Document) RenameMetatileSet(id ID, to string) error {
	ms, ok := d.metatileSets.get(id)
	if !ok {
		return fmt.Errorf("%w: metatile set %d", ErrNotFound, id)
	}
	from := ms.Name
	if err := d.checkName(to, from, func(n string) bool { _, _, ok := d.MetatileSetByName(n); return ok }); err != nil {
		return err
	}
	ms.Name = to
	d.propagateRename(refMetatileSet, "", from, to)
	return nil
}

// Levels returns level IDs in order.
func (d *Document) Levels() []ID { return d.levels.ids() }

func (d *Document) Level(id ID) (*Level, bool) { return d.levels.get(id) }

func (d *Document) LevelByName(name string) (ID, *Level, bool) {
	return d.levels.find(func(l *Level) bool { return l.Name == name })
}

func (d *Document) AddLevel(l *Level) (ID, error) {
	if l.Name == "" {
		return 0, ErrEmptyName
	}
	if _, _, ok := d.LevelByName(l.Name); ok {
		return 0, fmt.Errorf("%w: level %q", ErrDuplicateName, l.Name)
	}
	return d.levels.add(l), nil
}

// DeleteLevel removes a level. Undo records that refer to it become no-ops.
func (d *Document) DeleteLevel(id ID) bool { return d.levels.remove(id) }

func (d *Document) RenameLevel(id ID, to string) error {
	l, ok := d.levels.get(id)
	if !ok {
		return fmt.Errorf("%w: level %d", ErrNotFound, id)
	}
	if err := d.checkName(to, l.Name, func(n string) bool { _, _, ok := d.LevelByName(n); return ok }); err != nil {
		return err
	}
	l.Name = to
	return nil
}

// Classes returns object class IDs in order.
func (d *Document) Classes() []ID { return d.classes.ids() }

func (d *Document) Class(id ID) (*ObjectClass, bool) { return d.classes.get(id) }

func (d *Document) ClassByName(name string) (ID, *ObjectClass, bool) {
	return d.classes.find(func(c *ObjectClass) bool { return c.Name == name })
}

func (d *Document) AddClass(c *ObjectClass) (ID, error) {
	if c.Name == "" {
		return 0, ErrEmptyName
	}
	if _, _, ok := d.ClassByName(c.Name); ok {
		return 0, fmt.Errorf("%w: class %q", ErrDuplicateName, c.Name)
	}
	return d.classes.add(c), nil
}

// DeleteClass removes a class. Objects of that class keep their class name
// and field values.
func (d *Document) DeleteClass(id ID) bool { return d.classes.remove(id) }

func (d *Document) RenameClass(id ID, to string) error {
	c, ok := d.classes.get(id)
	if !ok {
		return fmt.Errorf("%w: class %d", ErrNotFound, id)
	}
	from := c.Name
	if err := d.checkName(to, from, func(n string) bool { _, _, ok := d.ClassByName(n); return ok }); err != nil {
		return err
	}
	c.Name = to
	d.propagateRename(refClass, "", from, to)
	return nil
}

// AddClassField appends a field to a class.
func (d *Document) AddClassField(id ID, f Field) error {
	c, ok := d.classes.get(id)
	if !ok {
		return fmt.Errorf("%w: class %d", ErrNotFound, id)
	}
	if f.Name == "" {
		return ErrEmptyName
	}
	if c.fieldIndex(f.Name) >= 0 {
		return fmt.Errorf("%w: field %q", ErrDuplicateName, f.Name)
	}
	c.Fields = append(c.Fields, f)
	return nil
}

// RemoveClassField drops a field from the schema. Objects keep their value
// until the project is saved.
func (d *Document) RemoveClassField(id ID, name string) bool {
	c, ok := d.classes.get(id)
	if !ok {
		return false
	}
	i := c.fieldIndex(name)
	if i < 0 {
		return false
	}
	c.Fields = slices.Delete(c.Fields, i, i+1)
	d.levels.each(func(_ ID, l *Level) { l.Objects.DropField(c.Name, name) })
	return true
}

// RenameClassField renames a field and moves each object's value to the new
// key.
func (d *Document) RenameClassField(id ID, from, to string) error {
	c, ok := d.classes.get(id)
	if !ok {
		return fmt.Errorf("%w: class %d", ErrNotFound, id)
	}
	i := c.fieldIndex(from)
	if i < 0 {
		return fmt.Errorf("%w: field %q", ErrNotFound, from)
	}
	if err := d.checkName(to, from, func(n string) bool { return c.fieldIndex(n) >= 0 }); err != nil {
		return err
	}
	c.Fields[i].Name = to
	d.propagateRename(refClassField, c.Name, from, to)
	return nil
}

// LoadCollision reads the collision tile sheet.
func (d *Document) LoadCollision(path string) error {
	path = d.resolve(path)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("project: open collision %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("project: decode collision %s: %w", path, err)
	}
	d.CollisionPath = path
	d.collision = chr.CollisionTiles(img)
	d.log.WithField("path", path).Debug("collision tiles loaded")
	return nil
}

// CollisionBitmaps returns the 64 collision tiles, all magenta when no sheet
// is loaded.
func (d *Document) CollisionBitmaps() []*image.RGBA {
	if d.collision == nil {
		d.collision = chr.CollisionTiles(nil)
	}
	return d.collision
}
