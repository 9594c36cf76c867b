// Package raster paints sketch commands into an RGBA image. Strokes and rings
// go through rasterx; sticker glyphs are drawn with x/image fonts and rotated
// with an affine transform.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/melikestuff/CMPM121-D2/internal/sketch"
)

// ErrNoSurface is returned when a render surface cannot be created.
var ErrNoSurface = errors.New("no usable render surface")

// miterLimit only matters for non-round joins; strokes here are always round.
const miterLimit = 4 << 6

// Surface is an offscreen RGBA render target.
type Surface struct {
	img     *image.RGBA
	stroker *rasterx.Stroker
	glyphs  *GlyphSet
}

var _ sketch.Surface = (*Surface)(nil)

// NewSurface allocates a width×height surface. glyphs may be nil, in which
// case stickers are drawn with the bundled Go Regular face.
func NewSurface(width, height int, glyphs *GlyphSet) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoSurface, width, height)
	}
	if glyphs == nil {
		var err error
		if glyphs, err = NewGlyphSet(nil); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSurface, err)
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Surface{
		img:     img,
		stroker: rasterx.NewStroker(width, height, scanner),
		glyphs:  glyphs,
	}, nil
}

// Image returns the backing image. It is overwritten by the next paint.
func (s *Surface) Image() *image.RGBA { return s.img }

// Bounds returns the pixel bounds of the surface.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// StrokePath strokes an open polyline with round caps and joins.
func (s *Surface) StrokePath(pts []sketch.Vec, width float64, c color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	s.stroker.Clear()
	s.stroker.SetStroke(fixed.Int26_6(width*64), miterLimit,
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	s.stroker.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		s.stroker.Line(rasterx.ToFixedP(p.X, p.Y))
	}
	s.stroker.Stop(false)
	s.fill(c)
}

// StrokeCircle outlines a circle.
func (s *Surface) StrokeCircle(center sketch.Vec, radius, width float64, c color.Color) {
	if radius <= 0 || width <= 0 {
		return
	}
	s.stroker.Clear()
	s.stroker.SetStroke(fixed.Int26_6(width*64), miterLimit,
		rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.Round)
	rasterx.AddCircle(center.X, center.Y, radius, s.stroker)
	s.fill(c)
}

func (s *Surface) fill(c color.Color) {
	s.stroker.SetColor(c)
	s.stroker.Draw()
	s.stroker.Clear()
}

// FillGlyph draws text centered on center, size pixels tall, rotated
// clockwise by rotation degrees about its center.
func (s *Surface) FillGlyph(text string, center sketch.Vec, size, rotation float64, c color.Color) {
	if text == "" || size <= 0 {
		return
	}
	face, err := s.glyphs.Face(size)
	if err != nil {
		log.Printf("[RASTER] skipping glyph %q: %v", text, err)
		return
	}

	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()
	advance := font.MeasureString(face, text).Ceil()
	pad := int(math.Ceil(size/8)) + 1

	tile := image.NewNRGBA(image.Rect(0, 0, advance+2*pad, ascent+descent+2*pad))
	d := font.Drawer{
		Dst:  tile,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(pad, pad+ascent),
	}
	d.DrawString(text)

	// Middle of the em box, matching a centered/middle text alignment.
	tx := float64(tile.Bounds().Dx()) / 2
	ty := float64(pad) + float64(ascent+descent)/2

	sin, cos := math.Sincos(rotation * math.Pi / 180)
	s2d := f64.Aff3{
		cos, -sin, center.X - cos*tx + sin*ty,
		sin, cos, center.Y - sin*tx - cos*ty,
	}
	draw.BiLinear.Transform(s.img, s2d, tile, tile.Bounds(), draw.Over, nil)
}
