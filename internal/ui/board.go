package ui

import (
	"errors"
	"image/color"
	"slices"
	"strings"

	"github.com/melikestuff/CMPM121-D2/internal/config"
	"github.com/melikestuff/CMPM121-D2/internal/engine"
)

// ErrEmptySticker is returned when a custom sticker has no text.
var ErrEmptySticker = errors.New("sticker text is empty")

// ToolState is the desktop host's current tool plus the presets offered in
// the toolbar. Selecting a tool does not repaint; the preview follows on
// the next pointer move.
type ToolState struct {
	tool        engine.Tool
	thicknesses []float64
	stickers    []string
	custom      []string

	listeners []func(engine.Tool)
}

// NewToolState starts on the thinnest marker in the default ink.
func NewToolState(cfg config.Config) *ToolState {
	s := &ToolState{
		tool:        engine.DefaultTool(),
		thicknesses: slices.Clone(cfg.Tools.Thicknesses),
		stickers:    slices.Clone(cfg.Tools.Stickers),
	}
	s.tool.Color = cfg.DefaultInk()
	if len(s.thicknesses) > 0 {
		s.tool.Thickness = s.thicknesses[0]
	}
	if len(s.stickers) > 0 {
		s.tool.Glyph = s.stickers[0]
	}
	return s
}

// Tool returns the tool to hand to the engine.
func (s *ToolState) Tool() engine.Tool { return s.tool }

// Thicknesses lists the marker presets.
func (s *ToolState) Thicknesses() []float64 { return s.thicknesses }

// Stickers lists the sticker buttons, custom ones last.
func (s *ToolState) Stickers() []string {
	out := slices.Clone(s.stickers)
	for _, glyph := range s.custom {
		if !slices.Contains(out, glyph) {
			out = append(out, glyph)
		}
	}
	return out
}

// OnChange registers fn to run after every selection.
func (s *ToolState) OnChange(fn func(engine.Tool)) {
	s.listeners = append(s.listeners, fn)
}

func (s *ToolState) set(t engine.Tool) {
	s.tool = t
	for _, fn := range s.listeners {
		fn(t)
	}
}

func (s *ToolState) SelectMarker(thickness float64) {
	s.set(s.tool.Marker(thickness))
}

func (s *ToolState) SelectSticker(glyph string) {
	s.set(s.tool.Sticker(glyph))
}

// AddSticker appends a custom sticker and selects it.
func (s *ToolState) AddSticker(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptySticker
	}
	if !slices.Contains(s.Stickers(), text) {
		s.custom = append(s.custom, text)
	}
	s.SelectSticker(text)
	return nil
}

func (s *ToolState) SetColor(c color.NRGBA) {
	t := s.tool
	t.Color = c
	s.set(t)
}

// SetRotation sets the rotation applied to new stickers and their preview.
func (s *ToolState) SetRotation(deg float64) {
	t := s.tool
	t.Rotation = deg
	s.set(t)
}

// Reload swaps in presets from a reloaded config. The selected tool is kept,
// as are custom stickers added during the session.
func (s *ToolState) Reload(cfg config.Config) {
	s.thicknesses = slices.Clone(cfg.Tools.Thicknesses)
	s.stickers = slices.Clone(cfg.Tools.Stickers)
}
