// Package render repaints a whole surface from the committed history.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/melikestuff/CMPM121-D2/internal/sketch"
)

// ExportScale is the resolution multiplier used for downloadable renders.
const ExportScale = 4

// MaxExportScale caps the multiplier so a single export stays allocatable.
const MaxExportScale = 16

// ErrExportScale is returned for multipliers outside [1, MaxExportScale].
var ErrExportScale = errors.New("export scale out of range")

// CheckExportScale reports whether scale is a usable export multiplier.
func CheckExportScale(scale int) error {
	if scale < 1 || scale > MaxExportScale {
		return fmt.Errorf("%w: %d not in 1..%d", ErrExportScale, scale, MaxExportScale)
	}
	return nil
}

// Target is a surface the pipeline can wipe and read back.
type Target interface {
	sketch.Surface
	Clear()
	Image() *image.RGBA
}

// NewTarget allocates an offscreen target of the given pixel size.
type NewTarget func(width, height int) (Target, error)

// Options controls a single paint.
type Options struct {
	// Scale multiplies every coordinate and width.
	Scale float64
	// Interactive marks the on-screen surface; only it shows the preview.
	Interactive bool
}

// Paint clears t and draws committed in order, later commands on top. The
// preview, if any, is drawn last at scale 1 and only for interactive paints.
// Paint only reads the commands.
func Paint(t Target, committed []sketch.Command, preview sketch.Preview, opts Options) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	t.Clear()
	for _, cmd := range committed {
		switch c := cmd.(type) {
		case *sketch.Stroke:
			c.Render(t, scale)
		case *sketch.Sticker:
			c.Render(t, scale)
		default:
			panic(fmt.Sprintf("render: unknown command %T", cmd))
		}
	}

	if !opts.Interactive || preview == nil {
		return
	}
	switch p := preview.(type) {
	case sketch.Ring:
		p.Render(t, 1)
	case sketch.GlyphPreview:
		p.Render(t, 1)
	default:
		panic(fmt.Sprintf("render: unknown preview %T", preview))
	}
}

// Export paints committed onto a fresh target of (width*scale)×(height*scale)
// and returns its pixels. Previews never appear in exports.
func Export(committed []sketch.Command, width, height, scale int, newTarget NewTarget) (*image.RGBA, error) {
	if err := CheckExportScale(scale); err != nil {
		return nil, err
	}
	t, err := newTarget(width*scale, height*scale)
	if err != nil {
		return nil, fmt.Errorf("export surface: %w", err)
	}
	Paint(t, committed, nil, Options{Scale: float64(scale)})
	return t.Image(), nil
}
