// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

const pdfiumInstanceTimeout = 30 * time.Second

// PDFiumRasterizer renders pages with PDFium running as WebAssembly, so it
// works without cgo or any system library. One instance serves the whole run.
type PDFiumRasterizer struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
	log      *slog.Logger
}

// NewPDFiumRasterizer starts a single-worker PDFium WebAssembly pool.
func NewPDFiumRasterizer(opts Options) (*PDFiumRasterizer, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(pdfiumInstanceTimeout)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("getting PDFium instance: %w", err)
	}

	return &PDFiumRasterizer{pool: pool, instance: instance, log: opts.logger()}, nil
}

func (r *PDFiumRasterizer) Name() string { return BackendPDFium }

func (r *PDFiumRasterizer) Rasterize(pdfPath string, dpi int) ([]image.Image, error) {
	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", pdfPath, err)
	}

	doc, err := r.instance.OpenDocument(&requests.OpenDocument{File: &pdfBytes})
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})

	count, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: doc.Document})
	if err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", pdfPath, err)
	}
	r.log.Debug("pdfium opened document", "path", pdfPath, "pages", count.PageCount, "dpi", dpi)

	pages := make([]image.Image, 0, count.PageCount)
	for i := 0; i < count.PageCount; i++ {
		render, err := r.instance.RenderPageInDPI(&requests.RenderPageInDPI{
			DPI: dpi,
			Page: requests.Page{
				ByIndex: &requests.PageByIndex{
					Document: doc.Document,
					Index:    i,
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("rendering page %d of %s: %w", i+1, pdfPath, err)
		}
		// The render buffer lives in WebAssembly memory until Cleanup.
		pages = append(pages, imaging.Clone(render.Result.Image))
		render.Cleanup()
	}
	return pages, nil
}

func (r *PDFiumRasterizer) Close() error {
	if r.instance != nil {
		r.instance.Close()
		r.instance = nil
	}
	if r.pool != nil {
		err := r.pool.Close()
		r.pool = nil
		return err
	}
	return nil
}
