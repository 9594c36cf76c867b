// Package export turns rendered sketches into downloadable artifacts.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format is an export file type.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "png" and "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatPDF:
		return f, nil
	case "":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "image/png"
}

// PNG encodes img losslessly.
func PNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Write encodes img in format f.
func Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPDF:
		return PDF(w, img, "Sticker Sketchpad")
	case FormatPNG:
		return PNG(w, img)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// FileName builds a timestamped artifact name such as sketchpad-20240102-150405.png.
func FileName(f Format, at time.Time) string {
	return fmt.Sprintf("sketchpad-%s.%s", at.Format("20060102-150405"), f)
}

// SaveFile writes img into dir under a timestamped name and returns the path.
func SaveFile(dir string, img image.Image, f Format, at time.Time) (string, error) {
	path := filepath.Join(dir, FileName(f, at))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := Write(file, img, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	return path, nil
}
