package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format is a project file encoding.
type Format int

const (
	FormatBinary Format = iota
	FormatJSON
)

// FormatOf picks the encoding from a file name: .json is JSON, anything else
// is binary.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatBinary
}

// Decode reads a project in format f.
func Decode(in io.Reader, f Format, opts ...Option) (*Document, error) {
	if f == FormatJSON {
		return DecodeJSON(in, opts...)
	}
	return DecodeBinary(in, opts...)
}

// Encode writes the project in format f.
func (d *Document) Encode(out io.Writer, f Format) error {
	if f == FormatJSON {
		return d.WriteJSON(out)
	}
	return d.WriteBinary(out)
}

// Open reads a project file and loads its CHR and collision sources. Sources
// that fail to load are logged and left empty.
func Open(path string, opts ...Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("project: open %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("project: open %s: %w", path, err)
	}
	defer f.Close()

	opts = append(opts, WithDir(filepath.Dir(abs)))
	d, err := Decode(f, FormatOf(abs), opts...)
	if err != nil {
		return nil, err
	}
	if err := d.LoadSources(); err != nil {
		d.log.WithError(err).WithField("path", abs).Warn("some sources failed to load")
	}
	return d, nil
}

// Save writes the project to path, choosing the format from the extension.
// Dir moves to the file's directory so source paths are stored relative to
// it.
func (d *Document) Save(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	d.Dir = filepath.Dir(abs)

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	if err := d.Encode(f, FormatOf(abs)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("project: save %s: %w", path, err)
	}
	d.log.WithField("path", abs).Info("project saved")
	return nil
}

// LoadSources reads every CHR file and the collision sheet from disk.
func (d *Document) LoadSources() error {
	var errs []error
	for _, f := range d.chrs {
		if err := f.Load(d.quantize); err != nil {
			errs = append(errs, err)
			continue
		}
		d.log.WithFields(logrus.Fields{"chr": f.Name, "path": f.Path}).Debug("chr loaded")
	}
	if d.CollisionPath != "" {
		if err := d.LoadCollision(d.CollisionPath); err != nil {
			errs = append(errs, err)
		}
	}
	d.cache.clear()
	return errors.Join(errs...)
}
