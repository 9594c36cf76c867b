// Package config loads the sketchpad settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/melikestuff/CMPM121-D2/internal/render"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Canvas struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Export struct {
	Scale int    `toml:"scale"`
	Dir   string `toml:"dir"`
}

// Tools holds the presets offered by the hosts.
type Tools struct {
	Thicknesses  []float64 `toml:"thicknesses"`
	Stickers     []string  `toml:"stickers"`
	Colors       []string  `toml:"colors"`
	DefaultColor string    `toml:"default_color"`
}

type Font struct {
	// Path to a TTF/OTF used for sticker glyphs. Empty uses Go Regular.
	Path string `toml:"path"`
}

type Server struct {
	Addr string `toml:"addr"`
	MDNS bool   `toml:"mdns"`
}

// Config is the full settings tree.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Export Export `toml:"export"`
	Tools  Tools  `toml:"tools"`
	Font   Font   `toml:"font"`
	Server Server `toml:"server"`
}

// Default is a 256×256 canvas with thin/thick
// markers, three stickers and 4× exports.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 256, Height: 256},
		Export: Export{Scale: 4, Dir: "."},
		Tools: Tools{
			Thicknesses:  []float64{2, 6},
			Stickers:     []string{"⭐", "🌸", "🔥"},
			Colors:       []string{"#000000", "#ff0000", "#00ff00", "#0000ff", "#ffff00"},
			DefaultColor: "#000000",
		},
		Server: Server{Addr: ":8888"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas %dx%d must be positive", c.Canvas.Width, c.Canvas.Height))
	}
	if err := render.CheckExportScale(c.Export.Scale); err != nil {
		errs = append(errs, err)
	}
	if len(c.Tools.Thicknesses) == 0 {
		errs = append(errs, errors.New("at least one marker thickness is required"))
	}
	for _, th := range c.Tools.Thicknesses {
		if th <= 0 {
			errs = append(errs, fmt.Errorf("marker thickness %v must be positive", th))
		}
	}
	for i, s := range c.Tools.Stickers {
		if s == "" {
			errs = append(errs, fmt.Errorf("sticker %d is empty", i))
		}
	}
	for _, hex := range append([]string{c.Tools.DefaultColor}, c.Tools.Colors...) {
		if _, err := ParseColor(hex); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// DefaultInk returns the parsed default stroke color.
func (c Config) DefaultInk() color.NRGBA {
	ink, err := ParseColor(c.Tools.DefaultColor)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return ink
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
