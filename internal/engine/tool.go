package engine

import (
	"fmt"
	"image/color"

	"github.com/melikestuff/CMPM121-D2/internal/sketch"
)

// Mode selects what a press creates.
type Mode int

const (
	ModeStroke Mode = iota
	ModeSticker
)

func (m Mode) String() string {
	switch m {
	case ModeStroke:
		return "stroke"
	case ModeSticker:
		return "sticker"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "stroke" (or "marker") and "sticker".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "stroke", "marker":
		return ModeStroke, nil
	case "sticker":
		return ModeSticker, nil
	}
	return 0, fmt.Errorf("unknown tool mode %q", s)
}

// Tool is the host-owned tool record. It is passed by value into Press and
// MoveTo; the engine keeps no tool state of its own.
type Tool struct {
	Mode      Mode
	Thickness float64
	Color     color.NRGBA
	Glyph     string
	Rotation  float64
}

// DefaultTool is a thin black marker with a star queued as the sticker.
func DefaultTool() Tool {
	return Tool{
		Mode:      ModeStroke,
		Thickness: 2,
		Color:     color.NRGBA{A: 255},
		Glyph:     "⭐",
	}
}

// Marker switches to stroke mode with the given thickness.
func (t Tool) Marker(thickness float64) Tool {
	t.Mode = ModeStroke
	t.Thickness = thickness
	return t
}

// Sticker switches to sticker mode with the given glyph.
func (t Tool) Sticker(glyph string) Tool {
	t.Mode = ModeSticker
	t.Glyph = glyph
	return t
}

// Validate checks the invariants hosts must uphold before handing a tool over.
func (t Tool) Validate() error {
	switch t.Mode {
	case ModeStroke:
		if t.Thickness <= 0 {
			return fmt.Errorf("stroke thickness %v: must be positive", t.Thickness)
		}
	case ModeSticker:
		if t.Glyph == "" {
			return fmt.Errorf("sticker glyph is empty")
		}
	default:
		return fmt.Errorf("unknown tool mode %v", t.Mode)
	}
	return nil
}

func (t Tool) newCommand(x, y int) sketch.Command {
	if t.Mode == ModeSticker {
		return sketch.NewSticker(t.Glyph, x, y, t.Rotation)
	}
	return sketch.NewStroke(x, y, t.Thickness, t.Color)
}

func (t Tool) preview(x, y int) sketch.Preview {
	if t.Mode == ModeSticker {
		return sketch.NewGlyphPreview(t.Glyph, x, y, t.Rotation)
	}
	return sketch.NewRing(x, y, t.Thickness)
}
