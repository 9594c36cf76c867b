package ui

import (
	"fmt"
	"io"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/melikestuff/CMPM121-D2/internal/engine"
	"github.com/melikestuff/CMPM121-D2/internal/export"
)

// writeExport renders the committed content at scale and encodes it.
func writeExport(w io.Writer, e *engine.Engine, scale int, format export.Format) error {
	img, err := e.RenderAt(scale)
	if err != nil {
		return err
	}
	return export.Write(w, img, format)
}

// showExportDialog asks where to save and writes the artifact there.
func showExportDialog(win fyne.Window, e *engine.Engine, scale int, format export.Format) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[EXPORT] closing %s: %v", writer.URI(), err)
			}
		}()
		if err := writeExport(writer, e, scale, format); err != nil {
			log.Printf("[EXPORT] %s: %v", writer.URI(), err)
			dialog.ShowError(err, win)
			return
		}
		log.Printf("[EXPORT] saved %s", writer.URI())
	}, win)
	d.SetFileName(export.FileName(format, time.Now()))
	d.Show()
}

// quickSave writes a PNG into dir without asking.
func quickSave(win fyne.Window, e *engine.Engine, scale int, dir string) {
	img, err := e.RenderAt(scale)
	if err != nil {
		dialog.ShowError(err, win)
		return
	}
	path, err := export.SaveFile(dir, img, export.FormatPNG, time.Now())
	if err != nil {
		dialog.ShowError(err, win)
		return
	}
	log.Printf("[EXPORT] saved %s", path)
	dialog.ShowInformation("Exported", fmt.Sprintf("Saved %s", path), win)
}
