package ui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/melikestuff/CMPM121-D2/internal/config"
	"github.com/melikestuff/CMPM121-D2/internal/engine"
	"github.com/melikestuff/CMPM121-D2/internal/export"
)

const customStickerHint = "🧽"

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

type toolButton struct {
	btn      *widget.Button
	selected func(engine.Tool) bool
}

// Toolbar holds the history, tool, color and export controls.
type Toolbar struct {
	win    fyne.Window
	engine *engine.Engine
	tools  *ToolState
	cfg    config.Config

	undo, redo *widget.Button
	presets    *fyne.Container
	swatches   *fyne.Container
	buttons    []toolButton

	root fyne.CanvasObject
}

func NewToolbar(win fyne.Window, e *engine.Engine, tools *ToolState, cfg config.Config) *Toolbar {
	tb := &Toolbar{win: win, engine: e, tools: tools, cfg: cfg}

	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), e.Clear)
	tb.undo = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), e.Undo)
	tb.redo = widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), e.Redo)
	e.Subscribe(func(c engine.Change) {
		if c == engine.ContentChanged {
			tb.syncHistory()
		}
	})
	tb.syncHistory()

	tb.presets = container.NewHBox()
	tb.swatches = container.NewHBox()
	tb.rebuild()
	tools.OnChange(func(engine.Tool) { tb.syncSelection() })

	// --- Rotation Slider ---
	rotLabel := widget.NewLabel("0°")
	rotation := widget.NewSlider(0, 359)
	rotation.Step = 1
	rotation.OnChanged = func(deg float64) {
		rotLabel.SetText(fmt.Sprintf("%.0f°", deg))
		tools.SetRotation(deg)
	}
	rotBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), rotation)

	exportPNG := widget.NewButtonWithIcon("PNG", theme.DownloadIcon(), func() {
		showExportDialog(win, e, tb.cfg.Export.Scale, export.FormatPNG)
	})
	exportPDF := widget.NewButtonWithIcon("PDF", theme.DocumentPrintIcon(), func() {
		showExportDialog(win, e, tb.cfg.Export.Scale, export.FormatPDF)
	})

	tb.root = container.NewVBox(
		container.NewHBox(
			clearBtn, tb.undo, tb.redo,
			widget.NewSeparator(),
			tb.presets,
			layout.NewSpacer(),
		),
		container.NewHBox(
			widget.NewLabel("Rotate:"), rotBox, rotLabel,
			widget.NewSeparator(),
			widget.NewLabel("Color:"), tb.swatches,
			layout.NewSpacer(),
			widget.NewLabel("Export:"), exportPNG, exportPDF,
		),
	)
	return tb
}

// Object is the toolbar's canvas object.
func (tb *Toolbar) Object() fyne.CanvasObject { return tb.root }

// Config is the settings the toolbar currently uses.
func (tb *Toolbar) Config() config.Config { return tb.cfg }

// Reload rebuilds the presets and swatches from a new config.
func (tb *Toolbar) Reload(cfg config.Config) {
	tb.cfg = cfg
	tb.tools.Reload(cfg)
	tb.rebuild()
}

func (tb *Toolbar) rebuild() {
	tb.buttons = tb.buttons[:0]
	objects := []fyne.CanvasObject{}

	for i, th := range tb.tools.Thicknesses() {
		btn := widget.NewButton(thicknessLabel(i, th), func() { tb.tools.SelectMarker(th) })
		tb.buttons = append(tb.buttons, toolButton{btn: btn, selected: func(t engine.Tool) bool {
			return t.Mode == engine.ModeStroke && t.Thickness == th
		}})
		objects = append(objects, btn)
	}
	objects = append(objects, widget.NewSeparator())
	for _, glyph := range tb.tools.Stickers() {
		btn := widget.NewButton(glyph, func() { tb.tools.SelectSticker(glyph) })
		tb.buttons = append(tb.buttons, toolButton{btn: btn, selected: func(t engine.Tool) bool {
			return t.Mode == engine.ModeSticker && t.Glyph == glyph
		}})
		objects = append(objects, btn)
	}
	objects = append(objects, widget.NewButton("+ Custom", tb.askCustomSticker))
	tb.presets.Objects = objects
	tb.presets.Refresh()

	swatches := []fyne.CanvasObject{}
	for _, hex := range tb.cfg.Tools.Colors {
		c, err := config.ParseColor(hex)
		if err != nil {
			log.Printf("[UI] skipping swatch %q: %v", hex, err)
			continue
		}
		swatches = append(swatches, newColorSwatch(c, tb.tools.SetColor))
	}
	tb.swatches.Objects = swatches
	tb.swatches.Refresh()

	tb.syncSelection()
}

func (tb *Toolbar) askCustomSticker() {
	entry := widget.NewEntry()
	entry.SetText(customStickerHint)
	items := []*widget.FormItem{widget.NewFormItem("Sticker text", entry)}
	dialog.ShowForm("Custom sticker", "Add", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if err := tb.tools.AddSticker(entry.Text); err != nil {
			dialog.ShowError(err, tb.win)
			return
		}
		tb.rebuild()
	}, tb.win)
}

func (tb *Toolbar) syncSelection() {
	current := tb.tools.Tool()
	for _, b := range tb.buttons {
		importance := widget.MediumImportance
		if b.selected(current) {
			importance = widget.HighImportance
		}
		if b.btn.Importance != importance {
			b.btn.Importance = importance
			b.btn.Refresh()
		}
	}
}

func (tb *Toolbar) syncHistory() {
	hist := tb.engine.History()
	setEnabled(tb.undo, hist.CanUndo())
	setEnabled(tb.redo, hist.CanRedo())
}

func setEnabled(btn *widget.Button, on bool) {
	if on {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

func thicknessLabel(i int, th float64) string {
	switch i {
	case 0:
		return "Thin"
	case 1:
		return "Thick"
	}
	return fmt.Sprintf("%gpx", th)
}
