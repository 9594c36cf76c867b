// Package engine routes pointer input into the command history, owns the
// tool preview and tells the host when to repaint.
//
// An Engine is driven from a single goroutine. Every handler runs to
// completion and notifies subscribers synchronously before returning.
package engine

import (
	"fmt"
	"image"
	"log"

	"github.com/melikestuff/CMPM121-D2/internal/raster"
	"github.com/melikestuff/CMPM121-D2/internal/render"
	"github.com/melikestuff/CMPM121-D2/internal/sketch"
	"github.com/melikestuff/CMPM121-D2/internal/state"
)

// Change tells subscribers what kind of repaint is needed.
type Change int

const (
	// ContentChanged follows commit, undo, redo, clear, drags and leave.
	ContentChanged Change = iota + 1
	// PreviewChanged follows idle hovers and the end of a press.
	PreviewChanged
)

func (c Change) String() string {
	switch c {
	case ContentChanged:
		return "content-changed"
	case PreviewChanged:
		return "preview-changed"
	default:
		return fmt.Sprintf("Change(%d)", int(c))
	}
}

type subscriber struct {
	id int
	fn func(Change)
}

// Engine is the sketch surface: history, in-progress command, preview and
// the on-screen render target.
type Engine struct {
	width, height int

	history *state.History
	active  sketch.Command // non-nil between press and release/leave
	preview sketch.Preview

	screen *raster.Surface
	glyphs *raster.GlyphSet

	subs   []subscriber
	nextID int
}

// New creates an engine for a width×height canvas. It fails if the
// on-screen surface cannot be allocated.
func New(width, height int, glyphs *raster.GlyphSet) (*Engine, error) {
	if glyphs == nil {
		var err error
		if glyphs, err = raster.NewGlyphSet(nil); err != nil {
			return nil, err
		}
	}
	screen, err := raster.NewSurface(width, height, glyphs)
	if err != nil {
		return nil, fmt.Errorf("engine setup: %w", err)
	}
	return &Engine{
		width:   width,
		height:  height,
		history: state.NewHistory(),
		screen:  screen,
		glyphs:  glyphs,
	}, nil
}

// Size returns the canvas size in canvas units.
func (e *Engine) Size() (width, height int) { return e.width, e.height }

// History exposes the committed/undone lists for read-only use.
func (e *Engine) History() *state.History { return e.history }

// Drawing reports whether a press is in progress.
func (e *Engine) Drawing() bool { return e.active != nil }

// Preview returns the current tool preview, or nil while drawing or after a leave.
func (e *Engine) Preview() sketch.Preview {
	if e.active != nil {
		return nil
	}
	return e.preview
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (e *Engine) Subscribe(fn func(Change)) (unsubscribe func()) {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify(c Change) {
	subs := e.subs
	for _, s := range subs {
		s.fn(c)
	}
}

// Press creates a command from tool at (x, y) and commits it immediately;
// subsequent moves extend it until Release or Leave.
func (e *Engine) Press(x, y int, tool Tool) {
	cmd := tool.newCommand(x, y)
	e.history.Commit(cmd)
	e.active = cmd
	log.Printf("[ENGINE] press %s %s at (%d,%d)", cmd.Kind(), cmd.CommandID(), x, y)
	e.notify(ContentChanged)
}

// MoveTo extends the in-progress command, or, when idle, replaces the
// preview with one built from tool.
func (e *Engine) MoveTo(x, y int, tool Tool) {
	if e.active != nil {
		e.active.Extend(x, y)
		e.notify(ContentChanged)
		return
	}
	e.preview = tool.preview(x, y)
	e.notify(PreviewChanged)
}

// Release freezes the in-progress command. It is a no-op when idle.
func (e *Engine) Release() {
	if e.active == nil {
		return
	}
	e.active = nil
	e.notify(PreviewChanged)
}

// Leave ends the press without rolling anything back and drops the preview.
func (e *Engine) Leave() {
	if e.active != nil {
		log.Printf("[ENGINE] pointer left during %s %s, keeping it", e.active.Kind(), e.active.CommandID())
	}
	e.active = nil
	e.preview = nil
	e.notify(ContentChanged)
}

// Commit appends an already-built command, dropping the redo stack.
func (e *Engine) Commit(cmd sketch.Command) {
	e.history.Commit(cmd)
	e.notify(ContentChanged)
}

// Undo moves the newest command to the redo stack. Nothing happens, and
// nobody is notified, when there is nothing to undo.
func (e *Engine) Undo() {
	cmd, ok := e.history.Undo()
	if !ok {
		return
	}
	e.active = nil
	log.Printf("[HISTORY] undo %s %s", cmd.Kind(), cmd.CommandID())
	e.notify(ContentChanged)
}

// Redo restores the most recently undone command.
func (e *Engine) Redo() {
	cmd, ok := e.history.Redo()
	if !ok {
		return
	}
	e.active = nil
	log.Printf("[HISTORY] redo %s %s", cmd.Kind(), cmd.CommandID())
	e.notify(ContentChanged)
}

// Clear empties the history.
func (e *Engine) Clear() {
	e.history.Clear()
	e.active = nil
	log.Println("[HISTORY] cleared")
	e.notify(ContentChanged)
}

// Draw paints the interactive view onto t: every committed command plus the
// preview when no press is in progress.
func (e *Engine) Draw(t render.Target) {
	render.Paint(t, e.history.Committed(), e.Preview(), render.Options{Scale: 1, Interactive: true})
}

// Frame repaints the engine's own on-screen surface and returns it. The
// image is reused by the next call.
func (e *Engine) Frame() *image.RGBA {
	e.Draw(e.screen)
	return e.screen.Image()
}

// RenderAt renders the committed content only at scale× the canvas size.
func (e *Engine) RenderAt(scale int) (*image.RGBA, error) {
	img, err := render.Export(e.history.Committed(), e.width, e.height, scale, e.newTarget)
	if err != nil {
		return nil, err
	}
	log.Printf("[EXPORT] rendered %d commands at %dx (%dx%d)", e.history.Len(), scale, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

func (e *Engine) newTarget(width, height int) (render.Target, error) {
	s, err := raster.NewSurface(width, height, e.glyphs)
	if err != nil {
		return nil, err
	}
	return s, nil
}
