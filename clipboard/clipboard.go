// Package clipboard moves layer payloads through the system clipboard as
// text, so copies survive between editor instances.
package clipboard

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.design/x/clipboard"

	"github.com/milk9111/mapfab/layer"
)

// Prefix marks clipboard text that holds a payload.
const Prefix = "mapfab-clipboard:"

var ErrNoPayload = errors.New("clipboard: no mapfab data on the clipboard")

// Transport stores and retrieves clipboard text.
type Transport interface {
	ReadText() ([]byte, error)
	WriteText([]byte) error
}

// Encode turns a payload into clipboard text.
func Encode(p layer.Payload) []byte {
	words := p.Wire()
	raw := make([]byte, 0, 2*len(words))
	for _, w := range words {
		raw = binary.LittleEndian.AppendUint16(raw, w)
	}
	return []byte(Prefix + base64.StdEncoding.EncodeToString(raw))
}

// Decode parses clipboard text written by Encode.
func Decode(text []byte) (layer.Payload, error) {
	s, ok := strings.CutPrefix(strings.TrimSpace(string(text)), Prefix)
	if !ok {
		return layer.Payload{}, ErrNoPayload
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return layer.Payload{}, fmt.Errorf("clipboard: decode: %w", err)
	}
	if len(raw)%2 != 0 {
		return layer.Payload{}, layer.ErrWireTruncated
	}
	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return layer.FromWire(words)
}

// Copy puts p on t.
func Copy(t Transport, p layer.Payload) error {
	return t.WriteText(Encode(p))
}

// Paste reads a payload from t.
func Paste(t Transport) (layer.Payload, error) {
	text, err := t.ReadText()
	if err != nil {
		return layer.Payload{}, err
	}
	return Decode(text)
}

// System is the desktop clipboard.
type System struct{}

var (
	initOnce sync.Once
	initErr  error
)

// NewSystem initializes the desktop clipboard. It fails on hosts without
// one, such as a headless Linux box without X11.
func NewSystem() (*System, error) {
	initOnce.Do(func() { initErr = clipboard.Init() })
	if initErr != nil {
		return nil, fmt.Errorf("clipboard: init: %w", initErr)
	}
	return &System{}, nil
}

func (*System) ReadText() ([]byte, error) {
	return clipboard.Read(clipboard.FmtText), nil
}

func (*System) WriteText(b []byte) error {
	clipboard.Write(clipboard.FmtText, b)
	return nil
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text []byte
}

func (m *Memory) ReadText() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.text...), nil
}

func (m *Memory) WriteText(b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = append(m.text[:0], b...)
	return nil
}
