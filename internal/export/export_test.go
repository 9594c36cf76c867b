package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		img.Set(x, 10, color.Black)
	}
	return img
}

func TestPNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sample()))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), decoded.Bounds())
	_, _, _, a := decoded.At(5, 10).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sample(), "test"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	_, err = ParseFormat("svg")
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	path, err := SaveFile(dir, sample(), FormatPNG, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sketchpad-20240102-150405.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = SaveFile(filepath.Join(dir, "missing"), sample(), FormatPDF, at)
	assert.Error(t, err)
}
