package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mapfab/project"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	yml := `
log_level: debug
quantize: true
watch_debounce: 250ms
classes:
  - name: enemy
    color: "#ff0000"
    fields:
      - {name: hp, type: U8}
  - name: coin
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Quantize)
	assert.False(t, cfg.CHR16)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
	require.Len(t, cfg.Classes, 2)

	d := project.New()
	defer d.Close()
	require.NoError(t, cfg.ApplyClasses(d))
	require.NoError(t, cfg.ApplyClasses(d))
	assert.Len(t, d.Classes(), 2)

	_, enemy, ok := d.ClassByName("enemy")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, enemy.Color)
	assert.Equal(t, []project.Field{{Name: "hp", Type: "U8"}}, enemy.Fields)
}

func TestLoadMissingKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Default(), cfg)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("warn")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l, err = NewLogger("")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, color.RGBA{0x12, 0x34, 0x56, 0xff}, ParseColor("#123456"))
	assert.Equal(t, color.RGBA{0x3c, 0x78, 0xff, 0xff}, ParseColor("blue"))
}
