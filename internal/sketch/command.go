package sketch

import (
	"image/color"
	"math"

	"github.com/google/uuid"
)

// PixelCenter moves stroke coordinates onto pixel centers.
const PixelCenter = 0.5

// StickerSize is the glyph height in pixels at scale 1.
const StickerSize = 24

// Point is a canvas-space coordinate, already rounded by the host.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec is a device-space coordinate handed to a Surface.
type Vec struct {
	X, Y float64
}

// Surface is anything a command can paint itself onto.
type Surface interface {
	StrokePath(pts []Vec, width float64, c color.Color)
	StrokeCircle(center Vec, radius, width float64, c color.Color)
	FillGlyph(text string, center Vec, size, rotation float64, c color.Color)
}

// Command is a drawn object held in the history. The only implementations
// are *Stroke and *Sticker.
type Command interface {
	// Extend advances the trailing point (Stroke) or moves the position (Sticker).
	Extend(x, y int)
	// Render paints the command at the given uniform scale. It never
	// modifies the command.
	Render(s Surface, scale float64)
	CommandID() string
	Kind() string

	command()
}

var (
	_ Command = (*Stroke)(nil)
	_ Command = (*Sticker)(nil)
)

// Stroke is a freehand marker line.
type Stroke struct {
	ID        string      `json:"id"`
	Points    []Point     `json:"points"`
	Thickness float64     `json:"thickness"`
	Color     color.NRGBA `json:"color"`
}

// NewStroke starts a stroke at (x, y).
func NewStroke(x, y int, thickness float64, c color.NRGBA) *Stroke {
	return &Stroke{
		ID:        uuid.NewString(),
		Points:    []Point{{X: x, Y: y}},
		Thickness: thickness,
		Color:     c,
	}
}

func (s *Stroke) Extend(x, y int) {
	s.Points = append(s.Points, Point{X: x, Y: y})
}

func (s *Stroke) Render(surface Surface, scale float64) {
	if len(s.Points) < 2 {
		return
	}
	pts := make([]Vec, len(s.Points))
	for i, p := range s.Points {
		pts[i] = Vec{
			X: (float64(p.X) + PixelCenter) * scale,
			Y: (float64(p.Y) + PixelCenter) * scale,
		}
	}
	surface.StrokePath(pts, s.Thickness*scale, s.Color)
}

func (s *Stroke) CommandID() string { return s.ID }
func (s *Stroke) Kind() string      { return "stroke" }
func (s *Stroke) command()          {}

// Sticker is a single glyph placed on the canvas.
type Sticker struct {
	ID       string  `json:"id"`
	Glyph    string  `json:"glyph"`
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"`
}

// NewSticker places glyph at (x, y). Rotation is in degrees and is
// normalized into [0, 360).
func NewSticker(glyph string, x, y int, rotation float64) *Sticker {
	return &Sticker{
		ID:       uuid.NewString(),
		Glyph:    glyph,
		Position: Point{X: x, Y: y},
		Rotation: NormalizeRotation(rotation),
	}
}

func (s *Sticker) Extend(x, y int) {
	s.Position = Point{X: x, Y: y}
}

func (s *Sticker) Render(surface Surface, scale float64) {
	center := Vec{X: float64(s.Position.X) * scale, Y: float64(s.Position.Y) * scale}
	surface.FillGlyph(s.Glyph, center, StickerSize*scale, s.Rotation, color.Black)
}

func (s *Sticker) CommandID() string { return s.ID }
func (s *Sticker) Kind() string      { return "sticker" }
func (s *Sticker) command()          {}

// NormalizeRotation folds any angle in degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}
