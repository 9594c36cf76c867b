package config

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Canvas.Width)
	assert.Equal(t, 4, cfg.Export.Scale)
	assert.Equal(t, []float64{2, 6}, cfg.Tools.Thicknesses)
	assert.Equal(t, []string{"⭐", "🌸", "🔥"}, cfg.Tools.Stickers)
	assert.Equal(t, color.NRGBA{A: 255}, cfg.DefaultInk())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[canvas]
width = 512

[tools]
thicknesses = [1, 3.5]
stickers = ["🧽"]

[server]
addr = "127.0.0.1:9999"
mdns = true
`))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Canvas.Width)
	assert.Equal(t, 256, cfg.Canvas.Height)
	assert.Equal(t, []float64{1, 3.5}, cfg.Tools.Thicknesses)
	assert.Equal(t, []string{"🧽"}, cfg.Tools.Stickers)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.True(t, cfg.Server.MDNS)
	assert.Equal(t, 4, cfg.Export.Scale)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad toml":      `[canvas`,
		"unknown key":   "[canvas]\ndepth = 3",
		"zero width":    "[canvas]\nwidth = 0",
		"zero scale":    "[export]\nscale = 0",
		"huge scale":    "[export]\nscale = 17",
		"neg thickness": "[tools]\nthicknesses = [-2]",
		"empty sticker": "[tools]\nstickers = [\"\"]",
		"bad color":     "[tools]\ndefault_color = \"blue\"",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("[canvas]\nwidth = -1"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#f00")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)

	c, err = ParseColor("00ff0080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 128}, c)
	assert.Equal(t, "#00ff0080", FormatColor(c))
	assert.Equal(t, "#0000ff", FormatColor(color.NRGBA{B: 255, A: 255}))

	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketchpad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nwidth = 100\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 16)
	require.NoError(t, Watch(ctx, path, func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nwidth = 300\n"), 0o644))

	// A truncating write can surface an intermediate empty file first.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Canvas.Width == 300 {
				return
			}
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
}
