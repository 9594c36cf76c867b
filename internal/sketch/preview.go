package sketch

import "image/color"

// PreviewColor is the translucent ink used for tool previews.
var PreviewColor = color.NRGBA{A: 128}

// Preview shows where the active tool would act next. It is never stored in
// the history and is replaced, not mutated, on every hover.
type Preview interface {
	Render(s Surface, scale float64)

	preview()
}

var (
	_ Preview = Ring{}
	_ Preview = GlyphPreview{}
)

// Ring outlines the marker tip.
type Ring struct {
	Center Point
	Radius float64
}

// NewRing returns the preview for a marker of the given thickness.
func NewRing(x, y int, thickness float64) Ring {
	return Ring{Center: Point{X: x, Y: y}, Radius: thickness / 2}
}

func (r Ring) Render(s Surface, scale float64) {
	c := Vec{X: float64(r.Center.X) * scale, Y: float64(r.Center.Y) * scale}
	s.StrokeCircle(c, r.Radius*scale, scale, PreviewColor)
}

func (Ring) preview() {}

// GlyphPreview shows a pending sticker at its pending rotation.
type GlyphPreview struct {
	Glyph    string
	Position Point
	Rotation float64
}

// NewGlyphPreview returns the preview for a sticker tool.
func NewGlyphPreview(glyph string, x, y int, rotation float64) GlyphPreview {
	return GlyphPreview{Glyph: glyph, Position: Point{X: x, Y: y}, Rotation: NormalizeRotation(rotation)}
}

func (g GlyphPreview) Render(s Surface, scale float64) {
	c := Vec{X: float64(g.Position.X) * scale, Y: float64(g.Position.Y) * scale}
	s.FillGlyph(g.Glyph, c, StickerSize*scale, g.Rotation, PreviewColor)
}

func (GlyphPreview) preview() {}
