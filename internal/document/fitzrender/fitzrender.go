// Package fitzrender implements document.Rasterizer on top of MuPDF via
// go-fitz. It is the only package that links the rendering library; the rest
// of the program sees document.Rasterizer.
package fitzrender

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/halcyonix/inkpdf/internal/document"
)

// pointsPerInch is the PDF user-space unit density; page bounds come back in
// points and DPI is derived from them to hit the target pixel height.
const pointsPerInch = 72.0

// Rasterizer opens PDF documents with MuPDF.
type Rasterizer struct{}

// New returns a MuPDF-backed rasterizer.
func New() *Rasterizer {
	return &Rasterizer{}
}

// Open parses the PDF at path.
func (*Rasterizer) Open(path string) (document.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("not a readable pdf: %w", err)
	}
	return &pdfDocument{doc: doc}, nil
}

type pdfDocument struct {
	doc *fitz.Document
}

func (d *pdfDocument) PageCount() int {
	return d.doc.NumPage()
}

// RenderPage rasterizes one page as PNG, scaled so the output is
// targetHeight pixels tall.
func (d *pdfDocument) RenderPage(index, targetHeight int) (document.RenderedPage, error) {
	bounds, err := d.doc.Bound(index)
	if err != nil {
		return document.RenderedPage{}, fmt.Errorf("page bounds: %w", err)
	}
	heightPts := bounds.Dy()
	if heightPts <= 0 {
		return document.RenderedPage{}, fmt.Errorf("page %d has degenerate bounds %v", index, bounds)
	}

	dpi := pointsPerInch * float64(targetHeight) / float64(heightPts)

	data, err := d.doc.ImagePNG(index, dpi)
	if err != nil {
		return document.RenderedPage{}, fmt.Errorf("rasterize: %w", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return document.RenderedPage{}, fmt.Errorf("decode rendered page header: %w", err)
	}

	return document.RenderedPage{
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

func (d *pdfDocument) Close() error {
	return d.doc.Close()
}
