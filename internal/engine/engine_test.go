package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melikestuff/CMPM121-D2/internal/raster"
	"github.com/melikestuff/CMPM121-D2/internal/sketch"
	"github.com/melikestuff/CMPM121-D2/internal/sketch/sketchtest"
)

func newEngine(t *testing.T) (*Engine, *[]Change) {
	t.Helper()
	e, err := New(64, 64, nil)
	require.NoError(t, err)
	var changes []Change
	e.Subscribe(func(c Change) { changes = append(changes, c) })
	return e, &changes
}

func TestNewRequiresSurface(t *testing.T) {
	_, err := New(0, 256, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrNoSurface)
}

func TestPressCommitsAndDragExtends(t *testing.T) {
	e, changes := newEngine(t)
	tool := DefaultTool()

	e.Press(1, 1, tool)
	require.Equal(t, 1, e.History().Len())
	assert.True(t, e.Drawing())

	e.MoveTo(2, 3, tool)
	e.MoveTo(4, 5, tool)
	e.Release()
	assert.False(t, e.Drawing())

	s, ok := e.History().Last().(*sketch.Stroke)
	require.True(t, ok)
	assert.Equal(t, []sketch.Point{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 4, Y: 5}}, s.Points)
	assert.Equal(t, 2.0, s.Thickness)

	// Moves after release only touch the preview.
	e.MoveTo(9, 9, tool)
	assert.Len(t, s.Points, 3)

	assert.Equal(t, []Change{ContentChanged, ContentChanged, ContentChanged, PreviewChanged, PreviewChanged}, *changes)
}

func TestPressClearsRedo(t *testing.T) {
	e, _ := newEngine(t)
	tool := DefaultTool()
	e.Press(0, 0, tool)
	e.Release()
	e.Undo()
	require.True(t, e.History().CanRedo())

	e.Press(5, 5, tool.Sticker("🔥"))
	e.Release()
	assert.False(t, e.History().CanRedo())
	_, isSticker := e.History().Last().(*sketch.Sticker)
	assert.True(t, isSticker)
}

func TestStickerDragMovesPosition(t *testing.T) {
	e, _ := newEngine(t)
	tool := DefaultTool().Sticker("🌸")
	tool.Rotation = 400

	e.Press(10, 10, tool)
	e.MoveTo(20, 25, tool)
	e.Release()

	st := e.History().Last().(*sketch.Sticker)
	assert.Equal(t, sketch.Point{X: 20, Y: 25}, st.Position)
	assert.Equal(t, 40.0, st.Rotation)
	assert.Equal(t, "🌸", st.Glyph)
}

func TestPreviewFollowsIdlePointer(t *testing.T) {
	e, changes := newEngine(t)

	e.MoveTo(10, 10, DefaultTool().Marker(6))
	ring, ok := e.Preview().(sketch.Ring)
	require.True(t, ok)
	assert.Equal(t, 3.0, ring.Radius)

	e.MoveTo(12, 12, DefaultTool().Sticker("⭐"))
	glyph, ok := e.Preview().(sketch.GlyphPreview)
	require.True(t, ok)
	assert.Equal(t, sketch.Point{X: 12, Y: 12}, glyph.Position)

	assert.Equal(t, []Change{PreviewChanged, PreviewChanged}, *changes)
	assert.Zero(t, e.History().Len())
}

func TestPreviewSuppressedWhileDrawing(t *testing.T) {
	e, _ := newEngine(t)
	tool := DefaultTool()
	e.MoveTo(5, 5, tool)
	require.NotNil(t, e.Preview())

	e.Press(5, 5, tool)
	assert.Nil(t, e.Preview())

	rec := &sketchtest.Recorder{}
	e.MoveTo(6, 6, tool)
	e.Draw(rec)
	assert.Equal(t, []string{"clear", "path"}, rec.Kinds())

	e.Release()
	rec = &sketchtest.Recorder{}
	e.Draw(rec)
	assert.Equal(t, []string{"clear", "path", "circle"}, rec.Kinds())
}

func TestLeaveKeepsPartialStroke(t *testing.T) {
	e, changes := newEngine(t)
	tool := DefaultTool()
	e.MoveTo(0, 0, tool)
	e.Press(0, 0, tool)
	e.MoveTo(3, 3, tool)
	*changes = nil

	e.Leave()
	assert.False(t, e.Drawing())
	assert.Nil(t, e.Preview())
	assert.Equal(t, 1, e.History().Len())
	assert.Len(t, e.History().Last().(*sketch.Stroke).Points, 2)
	assert.Equal(t, []Change{ContentChanged}, *changes)

	// Further moves no longer extend the stroke.
	e.MoveTo(9, 9, tool)
	assert.Len(t, e.History().Last().(*sketch.Stroke).Points, 2)
}

func TestUndoRedoClearNotifyOnlyOnChange(t *testing.T) {
	e, changes := newEngine(t)
	e.Undo()
	e.Redo()
	assert.Empty(t, *changes)

	e.Commit(sketch.NewSticker("⭐", 1, 1, 0))
	e.Undo()
	e.Redo()
	e.Clear()
	assert.Equal(t, []Change{ContentChanged, ContentChanged, ContentChanged, ContentChanged}, *changes)
	assert.Zero(t, e.History().Len())
	assert.False(t, e.History().CanRedo())
}

func TestUndoEndsActivePress(t *testing.T) {
	e, _ := newEngine(t)
	tool := DefaultTool()
	e.Press(0, 0, tool)
	e.Undo()
	assert.False(t, e.Drawing())

	e.MoveTo(4, 4, tool)
	undone := e.History().Undone()
	require.Len(t, undone, 1)
	assert.Len(t, undone[0].(*sketch.Stroke).Points, 1)
}

func TestUnsubscribe(t *testing.T) {
	e, err := New(16, 16, nil)
	require.NoError(t, err)
	calls := 0
	cancel := e.Subscribe(func(Change) { calls++ })
	e.MoveTo(1, 1, DefaultTool())
	cancel()
	e.MoveTo(2, 2, DefaultTool())
	assert.Equal(t, 1, calls)
}

func TestRenderAtExcludesPreview(t *testing.T) {
	e, _ := newEngine(t)
	tool := DefaultTool()

	empty, err := e.RenderAt(4)
	require.NoError(t, err)
	assert.Equal(t, 256, empty.Bounds().Dx())
	blank := bytes.Clone(empty.Pix)

	// A hover preview alone must not show up in the export.
	e.MoveTo(30, 30, tool.Marker(6))
	img, err := e.RenderAt(4)
	require.NoError(t, err)
	assert.Equal(t, blank, img.Pix)

	e.Press(0, 0, tool)
	e.MoveTo(10, 0, tool)
	e.Release()
	img, err = e.RenderAt(4)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.RGBAAt(20, 2).A, uint8(250))

	_, err = e.RenderAt(0)
	assert.Error(t, err)
}

func TestFrameShowsPreview(t *testing.T) {
	e, _ := newEngine(t)
	e.MoveTo(32, 32, DefaultTool().Marker(12))
	frame := e.Frame()
	assert.Equal(t, 64, frame.Bounds().Dx())
	assert.Greater(t, frame.RGBAAt(38, 32).A, uint8(0))
	assert.Equal(t, uint8(0), frame.RGBAAt(32, 32).A)
}

func TestToolValidate(t *testing.T) {
	assert.NoError(t, DefaultTool().Validate())
	assert.Error(t, DefaultTool().Marker(0).Validate())
	assert.Error(t, DefaultTool().Sticker("").Validate())
	assert.Error(t, Tool{Mode: Mode(7)}.Validate())

	m, err := ParseMode("marker")
	require.NoError(t, err)
	assert.Equal(t, ModeStroke, m)
	_, err = ParseMode("eraser")
	assert.Error(t, err)
}
