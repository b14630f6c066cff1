// Package badge renders shields.io-style SVG status badges, sizing each
// half from measured glyph advances.
package badge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultSize is the point size badges are measured at.
const DefaultSize = 11

// FontMetrics holds measured glyph widths for one font at one size.
type FontMetrics struct {
	name     string
	size     float64
	data     []byte
	advances map[rune]float64 // printable ASCII only
	fallback float64
}

// TextWidth returns the pixel width of s.
func (m *FontMetrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if adv, ok := m.advances[r]; ok {
			w += adv
		} else {
			w += m.fallback
		}
	}
	return w
}

func (m *FontMetrics) FontName() string  { return m.name }
func (m *FontMetrics) FontSize() float64 { return m.size }

// GoRegular measures the Go Regular font shipped with x/image.
func GoRegular(size float64) (*FontMetrics, error) {
	return LoadFont("Go", goregular.TTF, size)
}

// LoadFontFile loads a TTF/OTF from disk.
func LoadFontFile(path string, size float64) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadFont(name, data, size)
}

// LoadFont parses font data and measures printable ASCII advances at size.
func LoadFont(name string, data []byte, size float64) (*FontMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", name, err)
	}
	defer face.Close()

	advances := make(map[rune]float64, 95)
	var total float64
	for r := rune(32); r <= 126; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		px := float64(adv) / 64.0
		advances[r] = px
		total += px
	}

	fallback := size * 0.6
	if len(advances) > 0 {
		fallback = total / float64(len(advances))
	}

	family := name
	if n, err := f.Name(&sfnt.Buffer{}, sfnt.NameIDFamily); err == nil && n != "" {
		family = n
	}

	return &FontMetrics{
		name:     family,
		size:     size,
		data:     data,
		advances: advances,
		fallback: fallback,
	}, nil
}
