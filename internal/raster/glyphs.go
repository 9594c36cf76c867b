package raster

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// GlyphSet owns the font used for stickers and caches one face per pixel size.
// Export renders at several sizes, so faces are built lazily.
type GlyphSet struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewGlyphSet parses a TrueType/OpenType font. An empty slice selects the
// bundled Go Regular face.
func NewGlyphSet(ttf []byte) (*GlyphSet, error) {
	if len(ttf) == 0 {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse glyph font: %w", err)
	}
	return &GlyphSet{font: f, faces: make(map[float64]font.Face)}, nil
}

// LoadGlyphSet reads the font at path. An empty path falls back to Go Regular,
// which has no emoji; point this at a monochrome emoji font for real stickers.
func LoadGlyphSet(path string) (*GlyphSet, error) {
	if path == "" {
		return NewGlyphSet(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glyph font %s: %w", path, err)
	}
	return NewGlyphSet(data)
}

// Face returns the face for a pixel size.
func (g *GlyphSet) Face(size float64) (font.Face, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if face, ok := g.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph face %.1fpx: %w", size, err)
	}
	g.faces[size] = face
	return face, nil
}
