package ui

import (
	"context"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/melikestuff/CMPM121-D2/internal/config"
	"github.com/melikestuff/CMPM121-D2/internal/engine"
)

// RunApp opens the desktop sketchpad and blocks until the window closes.
// When configPath is set, edits to it are applied to the toolbar live.
func RunApp(e *engine.Engine, cfg config.Config, configPath string) {
	myApp := app.New()
	myWindow := myApp.NewWindow("Sticker Sketchpad")

	tools := NewToolState(cfg)
	board := NewBoardWidget(e, tools)
	defer board.Detach()
	toolbar := NewToolbar(myWindow, e, tools, cfg)

	content := container.NewBorder(toolbar.Object(), nil, nil, nil, container.NewCenter(board))
	myWindow.SetContent(content)
	addShortcuts(myWindow, e, toolbar)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if configPath != "" {
		err := config.Watch(ctx, configPath, func(next config.Config) {
			fyne.Do(func() {
				if next.Canvas != toolbar.Config().Canvas {
					log.Printf("[CONFIG] canvas size change takes effect on restart")
				}
				toolbar.Reload(next)
			})
		})
		if err != nil {
			log.Printf("[CONFIG] live reload disabled: %v", err)
		}
	}

	myWindow.ShowAndRun()
}

func addShortcuts(win fyne.Window, e *engine.Engine, toolbar *Toolbar) {
	c := win.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { e.Undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { e.Redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) {
			cfg := toolbar.Config()
			quickSave(win, e, cfg.Export.Scale, cfg.Export.Dir)
		})
}
