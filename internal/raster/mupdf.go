// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gen2brain/go-fitz"
)

// MuPDFRasterizer renders pages with MuPDF through go-fitz.
type MuPDFRasterizer struct {
	log *slog.Logger
}

// NewMuPDFRasterizer creates a MuPDF-backed rasterizer. Documents are opened
// and closed per call, so the rasterizer itself holds no resources.
func NewMuPDFRasterizer(opts Options) *MuPDFRasterizer {
	return &MuPDFRasterizer{log: opts.logger()}
}

func (r *MuPDFRasterizer) Name() string { return BackendMuPDF }

func (r *MuPDFRasterizer) Rasterize(pdfPath string, dpi int) ([]image.Image, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	r.log.Debug("mupdf opened document", "path", pdfPath, "pages", n, "dpi", dpi)

	pages := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("rendering page %d of %s: %w", i+1, pdfPath, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

func (r *MuPDFRasterizer) Close() error { return nil }
