package render_test

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melikestuff/CMPM121-D2/internal/raster"
	"github.com/melikestuff/CMPM121-D2/internal/render"
	"github.com/melikestuff/CMPM121-D2/internal/sketch"
	"github.com/melikestuff/CMPM121-D2/internal/sketch/sketchtest"
)

func line(x0, y0, x1, y1 int, thickness float64) *sketch.Stroke {
	s := sketch.NewStroke(x0, y0, thickness, color.NRGBA{A: 255})
	s.Extend(x1, y1)
	return s
}

func rasterTarget(w, h int) (render.Target, error) {
	s, err := raster.NewSurface(w, h, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func TestPaintOrderAndPreview(t *testing.T) {
	rec := &sketchtest.Recorder{}
	committed := []sketch.Command{
		line(0, 0, 5, 5, 2),
		sketch.NewSticker("⭐", 20, 20, 0),
	}

	render.Paint(rec, committed, sketch.NewRing(3, 3, 6), render.Options{Scale: 1, Interactive: true})
	assert.Equal(t, []string{"clear", "path", "glyph", "circle"}, rec.Kinds())
}

func TestPaintPreviewAlwaysAtScaleOne(t *testing.T) {
	rec := &sketchtest.Recorder{}
	render.Paint(rec, nil, sketch.NewRing(10, 10, 6), render.Options{Scale: 2, Interactive: true})

	require.Len(t, rec.Ops, 2)
	assert.Equal(t, 3.0, rec.Ops[1].Radius)
	assert.Equal(t, sketch.Vec{X: 10, Y: 10}, rec.Ops[1].Points[0])
}

func TestPaintSkipsPreviewWhenNotInteractive(t *testing.T) {
	rec := &sketchtest.Recorder{}
	render.Paint(rec, []sketch.Command{line(0, 0, 1, 1, 2)}, sketch.NewRing(1, 1, 2), render.Options{Scale: 1})
	assert.Equal(t, []string{"clear", "path"}, rec.Kinds())
}

func TestPaintDoesNotMutateCommands(t *testing.T) {
	a := line(0, 0, 5, 5, 2)
	b := sketch.NewSticker("🔥", 7, 8, 30)
	committed := []sketch.Command{a, b}

	rec := &sketchtest.Recorder{}
	render.Paint(rec, committed, nil, render.Options{Scale: 4})

	assert.Equal(t, []sketch.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, a.Points)
	assert.Equal(t, sketch.Point{X: 7, Y: 8}, b.Position)
	assert.Same(t, a, committed[0])
}

func TestExportScaleLinearity(t *testing.T) {
	img, err := render.Export([]sketch.Command{line(0, 0, 10, 0, 2)}, 16, 4, render.ExportScale, rasterTarget)
	require.NoError(t, err)

	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
	// Width 8 centered on y=2, running from x=2 to x=42.
	assert.GreaterOrEqual(t, img.RGBAAt(20, 2).A, uint8(250))
	assert.GreaterOrEqual(t, img.RGBAAt(20, 5).A, uint8(250))
	assert.Equal(t, uint8(0), img.RGBAAt(20, 7).A)
	assert.Equal(t, uint8(0), img.RGBAAt(50, 2).A)
}

func TestRenderingPurity(t *testing.T) {
	committed := []sketch.Command{
		line(0, 0, 40, 30, 6),
		sketch.NewSticker("A", 20, 20, 45),
		line(5, 30, 30, 5, 2),
	}
	first, err := render.Export(committed, 64, 64, 1, rasterTarget)
	require.NoError(t, err)
	firstPix := bytes.Clone(first.Pix)

	second, err := render.Export(committed, 64, 64, 1, rasterTarget)
	require.NoError(t, err)
	assert.Equal(t, firstPix, second.Pix)
}

func TestExportErrors(t *testing.T) {
	_, err := render.Export(nil, 16, 16, 0, rasterTarget)
	assert.ErrorIs(t, err, render.ErrExportScale)

	called := false
	huge := func(w, h int) (render.Target, error) {
		called = true
		return rasterTarget(w, h)
	}
	_, err = render.Export(nil, 16, 16, 100000000, huge)
	assert.ErrorIs(t, err, render.ErrExportScale)
	_, err = render.Export(nil, 16, 16, render.MaxExportScale+1, huge)
	assert.ErrorIs(t, err, render.ErrExportScale)
	assert.False(t, called)

	img, err := render.Export(nil, 4, 4, render.MaxExportScale, rasterTarget)
	require.NoError(t, err)
	assert.Equal(t, 4*render.MaxExportScale, img.Bounds().Dx())

	_, err = render.Export(nil, 0, 16, 4, rasterTarget)
	require.Error(t, err)
	assert.True(t, errors.Is(err, raster.ErrNoSurface))
}
