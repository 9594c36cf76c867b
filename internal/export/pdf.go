package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfImageName = "sketch"

// PDF writes img as the only content of a single page sized to the image,
// one point per pixel. The page holds the raster render, not vector paths.
func PDF(w io.Writer, img image.Image, title string) error {
	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return err
	}

	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetTitle(title, true)
	p.SetCreator("Sticker Sketchpad", true)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(pdfImageName, opts, &buf)
	p.ImageOptions(pdfImageName, 0, 0, wd, ht, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
