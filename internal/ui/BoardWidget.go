package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/melikestuff/CMPM121-D2/internal/engine"
)

// BoardWidget shows the engine's interactive frame and feeds it pointer
// input in canvas units.
type BoardWidget struct {
	widget.BaseWidget
	engine *engine.Engine
	tools  *ToolState
	raster *canvas.Raster

	unsubscribe func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(e *engine.Engine, tools *ToolState) *BoardWidget {
	b := &BoardWidget{engine: e, tools: tools}
	b.raster = canvas.NewRaster(func(w, h int) image.Image {
		return b.engine.Frame()
	})
	b.raster.ScaleMode = canvas.ImageScalePixels
	width, height := e.Size()
	b.raster.SetMinSize(fyne.NewSize(float32(width), float32(height)))
	b.unsubscribe = e.Subscribe(func(engine.Change) {
		b.raster.Refresh()
	})
	b.ExtendBaseWidget(b)
	return b
}

// Detach stops repainting on engine changes.
func (b *BoardWidget) Detach() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// toCanvas maps a widget position to rounded canvas units.
func (b *BoardWidget) toCanvas(pos fyne.Position) (int, int) {
	width, height := b.engine.Size()
	size := b.Size()
	sx, sy := float64(1), float64(1)
	if size.Width > 0 && size.Height > 0 {
		sx = float64(width) / float64(size.Width)
		sy = float64(height) / float64(size.Height)
	}
	return int(math.Round(float64(pos.X) * sx)), int(math.Round(float64(pos.Y) * sy))
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := b.toCanvas(e.Position)
	b.engine.Press(x, y, b.tools.Tool())
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.engine.Release()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	x, y := b.toCanvas(e.Position)
	b.engine.MoveTo(x, y, b.tools.Tool())
}

func (b *BoardWidget) DragEnd() {
	b.engine.Release()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	x, y := b.toCanvas(e.Position)
	b.engine.MoveTo(x, y, b.tools.Tool())
}

func (b *BoardWidget) MouseOut() {
	b.engine.Leave()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.White)
	return widget.NewSimpleRenderer(container.NewStack(background, b.raster))
}
