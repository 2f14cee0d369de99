// Package config loads mapfab.yaml and builds the logger.
package config

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/mapfab/project"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "mapfab.yaml"

type Config struct {
	LogLevel      string        `yaml:"log_level"`
	CHR16         bool          `yaml:"chr16"`
	Quantize      bool          `yaml:"quantize"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	Classes       []ClassSpec   `yaml:"classes"`
}

// ClassSpec is an object class preset added to new projects.
type ClassSpec struct {
	Name   string      `yaml:"name"`
	Color  string      `yaml:"color"`
	Fields []FieldSpec `yaml:"fields"`
}

type FieldSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func Default() Config {
	return Config{
		LogLevel:      "info",
		WatchDebounce: project.DefaultDebounce,
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// NewLogger builds a text logger on stderr at the named level.
func NewLogger(level string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	l.SetLevel(lvl)
	return l, nil
}

// ParseColor reads "#rrggbb". Anything else yields the default class color.
func ParseColor(s string) color.RGBA {
	var r, g, b uint8 = 0x3c, 0x78, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r, g, b = uint8(ri), uint8(gi), uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ObjectClass converts the preset to a document class.
func (s ClassSpec) ObjectClass() *project.ObjectClass {
	c := &project.ObjectClass{Name: s.Name, Color: ParseColor(s.Color)}
	for _, f := range s.Fields {
		c.Fields = append(c.Fields, project.Field{Name: f.Name, Type: f.Type})
	}
	return c
}

// ApplyClasses adds every preset class the document does not have yet.
func (c Config) ApplyClasses(d *project.Document) error {
	for _, spec := range c.Classes {
		if _, _, ok := d.ClassByName(spec.Name); ok {
			continue
		}
		if _, err := d.AddClass(spec.ObjectClass()); err != nil {
			return fmt.Errorf("config: class %q: %w", spec.Name, err)
		}
	}
	return nil
}
