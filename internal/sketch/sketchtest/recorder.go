// Package sketchtest provides a Surface that records paint calls instead of
// rasterizing them.
package sketchtest

import (
	"image"
	"image/color"

	"github.com/melikestuff/CMPM121-D2/internal/sketch"
)

// Op is one recorded paint call.
type Op struct {
	Kind     string // "path", "circle", "glyph" or "clear"
	Points   []sketch.Vec
	Width    float64
	Radius   float64
	Text     string
	Size     float64
	Rotation float64
	Color    color.Color
}

// Recorder implements sketch.Surface and render.Target.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) StrokePath(pts []sketch.Vec, width float64, c color.Color) {
	cp := make([]sketch.Vec, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{Kind: "path", Points: cp, Width: width, Color: c})
}

func (r *Recorder) StrokeCircle(center sketch.Vec, radius, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "circle", Points: []sketch.Vec{center}, Radius: radius, Width: width, Color: c})
}

func (r *Recorder) FillGlyph(text string, center sketch.Vec, size, rotation float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "glyph", Points: []sketch.Vec{center}, Text: text, Size: size, Rotation: rotation, Color: c})
}

// Clear records a clear and keeps the earlier ops so tests can see ordering.
func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: "clear"})
}

func (r *Recorder) Image() *image.RGBA { return nil }

// Kinds lists the recorded op kinds in order.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}
