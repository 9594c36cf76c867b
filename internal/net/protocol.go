package net

import (
	"fmt"

	"github.com/melikestuff/CMPM121-D2/internal/config"
	"github.com/melikestuff/CMPM121-D2/internal/engine"
)

// Message types sent by the client.
const (
	MsgTool    = "tool"
	MsgPress   = "press"
	MsgMove    = "move"
	MsgRelease = "release"
	MsgLeave   = "leave"
	MsgUndo    = "undo"
	MsgRedo    = "redo"
	MsgClear   = "clear"
	MsgExport  = "export"
)

// Reply types sent by the server. Change notifications use the engine's
// Change names ("content-changed", "preview-changed").
const (
	ReplyHello  = "hello"
	ReplyFrame  = "frame"
	ReplyExport = "export"
	ReplyError  = "error"
)

// Message is one client event. X and Y are canvas units.
type Message struct {
	Type   string       `json:"type"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Tool   *ToolMessage `json:"tool,omitempty"`
	Scale  int          `json:"scale,omitempty"`
	Format string       `json:"format,omitempty"`
}

// ToolMessage is the wire form of engine.Tool. Zero fields keep the
// session's current value.
type ToolMessage struct {
	Mode      string   `json:"mode,omitempty"`
	Thickness float64  `json:"thickness,omitempty"`
	Color     string   `json:"color,omitempty"`
	Glyph     string   `json:"glyph,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
}

// apply overlays m on base and validates the result.
func (m *ToolMessage) apply(base engine.Tool) (engine.Tool, error) {
	t := base
	if m.Mode != "" {
		mode, err := engine.ParseMode(m.Mode)
		if err != nil {
			return base, err
		}
		t.Mode = mode
	}
	if m.Thickness != 0 {
		t.Thickness = m.Thickness
	}
	if m.Color != "" {
		c, err := config.ParseColor(m.Color)
		if err != nil {
			return base, err
		}
		t.Color = c
	}
	if m.Glyph != "" {
		t.Glyph = m.Glyph
	}
	if m.Rotation != nil {
		t.Rotation = *m.Rotation
	}
	if err := t.Validate(); err != nil {
		return base, fmt.Errorf("tool: %w", err)
	}
	return t, nil
}

// Reply is one server event.
type Reply struct {
	Type      string `json:"type"`
	Session   string `json:"session,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Committed int    `json:"committed"`
	Undone    int    `json:"undone"`
	Revision  uint64 `json:"revision"`
	ID        string `json:"id,omitempty"` // newest committed command
	PNG       string `json:"png,omitempty"`
	Format    string `json:"format,omitempty"`
	Data      string `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}
