// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster turns PDF files into page images. Rendering is delegated to
// one of several backends: PDFium compiled to WebAssembly, MuPDF through cgo,
// or Poppler's pdftoppm (installed locally or run in a container).
package raster

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
)

// Backend names accepted by New.
const (
	BackendPDFium           = "pdfium"
	BackendMuPDF            = "mupdf"
	BackendPoppler          = "poppler"
	BackendPopplerContainer = "poppler-container"
)

// DefaultBackend needs neither cgo nor external binaries.
const DefaultBackend = BackendPDFium

// DefaultContainerImage is the image used by the poppler-container backend.
const DefaultContainerImage = "minidocks/poppler:latest"

// ErrUnknownBackend is returned by New for unrecognised backend names.
var ErrUnknownBackend = errors.New("unknown rasterizer backend")

// Rasterizer renders every page of a PDF file, in document order.
type Rasterizer interface {
	// Name returns the backend name.
	Name() string

	// Rasterize renders all pages of the PDF at pdfPath at the given
	// resolution. A failure on any page fails the whole document.
	Rasterize(pdfPath string, dpi int) ([]image.Image, error)

	// Close releases resources held by the backend.
	Close() error
}

// Options configures backend construction.
type Options struct {
	// ContainerImage overrides DefaultContainerImage for poppler-container.
	ContainerImage string

	// PullImage lets poppler-container pull a missing image instead of
	// failing.
	PullImage bool

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o Options) containerImage() string {
	if o.ContainerImage != "" {
		return o.ContainerImage
	}
	return DefaultContainerImage
}

// Backends lists the backend names New accepts.
func Backends() []string {
	return []string{BackendPDFium, BackendMuPDF, BackendPoppler, BackendPopplerContainer}
}

// New constructs the named backend.
func New(name string, opts Options) (Rasterizer, error) {
	switch name {
	case "", BackendPDFium:
		return NewPDFiumRasterizer(opts)
	case BackendMuPDF:
		return NewMuPDFRasterizer(opts), nil
	case BackendPoppler:
		return NewPopplerRasterizer(opts)
	case BackendPopplerContainer:
		return NewPopplerContainerRasterizer(opts)
	}
	return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownBackend, name, Backends())
}

// Check reports whether the named backend can run on this host without
// constructing it. A nil error means the backend is usable.
func Check(name string, opts Options) error {
	switch name {
	case BackendPDFium, BackendMuPDF:
		return nil
	case BackendPoppler:
		return checkPdftoppm()
	case BackendPopplerContainer:
		opts.PullImage = false
		_, err := popplerContainerRuntime(opts)
		return err
	}
	return fmt.Errorf("%w %q", ErrUnknownBackend, name)
}
