// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slides turns PDF files into slide records: it rasterizes each
// document, derives thumbnails, and either writes image assets to the output
// directory or encodes them as data URIs.
package slides

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/slideview/internal/codec"
	"github.com/pdiddy/slideview/internal/raster"
	"github.com/pdiddy/slideview/pkg/types"
)

const (
	// ImagesDir holds full-resolution page images in file mode.
	ImagesDir = "images"
	// ThumbnailsDir holds downsampled page images in file mode.
	ThumbnailsDir = "thumbnails"
)

// outcome classifies how one input fared.
type outcome int

const (
	outcomeConverted outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Extractor renders PDFs into slides using one rasterizer and one
// configuration for the whole run.
type Extractor struct {
	rasterizer raster.Rasterizer
	cfg        types.ViewerConfig
	out        io.Writer

	// Progress receives a per-document page progress bar. Nil disables it.
	Progress io.Writer

	// Log receives debug diagnostics. Nil disables them.
	Log *slog.Logger
}

// NewExtractor creates an Extractor that prints status lines to w.
func NewExtractor(r raster.Rasterizer, cfg types.ViewerConfig, w io.Writer) *Extractor {
	return &Extractor{rasterizer: r, cfg: cfg, out: w}
}

func (e *Extractor) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.New(slog.DiscardHandler)
}

// PresentationName derives a presentation name from a PDF path: the base
// file name without its extension.
func PresentationName(pdfPath string) string {
	return strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
}

// AssetNames returns the file names of a page's full image and thumbnail.
func AssetNames(presentation string, page int, format types.ImageFormat) (image, thumbnail string) {
	ext := format.Ext()
	image = fmt.Sprintf("%s_page_%03d.%s", presentation, page, ext)
	thumbnail = fmt.Sprintf("%s_page_%03d_thumb.%s", presentation, page, ext)
	return image, thumbnail
}

// extract converts the PDF at pdfPath into slides named after presentation.
// Invalid paths and processing failures are reported to the status writer
// and yield no slides; nothing is left on disk for a failed document.
func (e *Extractor) extract(pdfPath, presentation string) ([]types.Slide, outcome) {
	info, err := os.Stat(pdfPath)
	if err != nil || !info.Mode().IsRegular() || !IsPDFPath(pdfPath) {
		fmt.Fprintf(e.out, "Skipping %s: not a valid PDF file\n", pdfPath)
		return nil, outcomeSkipped
	}

	name := filepath.Base(pdfPath)
	fmt.Fprintf(e.out, "Processing %s...\n", name)

	slides, err := e.render(pdfPath, presentation)
	if err != nil {
		fmt.Fprintf(e.out, "Error processing %s: %v\n", pdfPath, err)
		e.log().Debug("extraction failed", "path", pdfPath, "backend", e.rasterizer.Name(), "error", err)
		return nil, outcomeFailed
	}

	fmt.Fprintf(e.out, "  Converted %d slides from %s\n", len(slides), name)
	return slides, outcomeConverted
}

// pendingFile is an encoded asset waiting to be written.
type pendingFile struct {
	path string
	data []byte
}

// render produces the slides of one PDF. Every page is encoded before the
// output directory is touched, so a failure part-way through writes nothing.
func (e *Extractor) render(pdfPath, presentation string) ([]types.Slide, error) {
	pages, err := e.rasterize(pdfPath, presentation)
	if err != nil {
		return nil, err
	}

	var pending []pendingFile
	slides := make([]types.Slide, 0, len(pages))
	for i, p := range pages {
		n := i + 1
		if e.cfg.SingleFile() {
			slides = append(slides, types.NewSlide(presentation, n,
				codec.DataURI(p.Image, e.cfg.Format), codec.DataURI(p.Thumbnail, e.cfg.Format)))
			continue
		}
		imgName, thumbName := AssetNames(presentation, n, e.cfg.Format)
		pending = append(pending,
			pendingFile{path: filepath.Join(e.cfg.OutputDir, ImagesDir, imgName), data: p.Image},
			pendingFile{path: filepath.Join(e.cfg.OutputDir, ThumbnailsDir, thumbName), data: p.Thumbnail},
		)
		slides = append(slides, types.NewSlide(presentation, n,
			path.Join(ImagesDir, imgName), path.Join(ThumbnailsDir, thumbName)))
	}

	if err := writeAll(pending); err != nil {
		return nil, err
	}
	return slides, nil
}

// rasterize renders and encodes every page of pdfPath. A panic inside the
// rasterizer becomes an error for this document only.
func (e *Extractor) rasterize(pdfPath, presentation string) (encoded []types.EncodedPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			encoded, err = nil, fmt.Errorf("rasterizer panic: %v", r)
		}
	}()

	pages, err := e.rasterizer.Rasterize(pdfPath, e.cfg.DPI)
	if err != nil {
		return nil, err
	}

	bar := e.progressBar(len(pages), presentation)

	encoded = make([]types.EncodedPage, 0, len(pages))
	for i, page := range pages {
		n := i + 1
		thumb := codec.Thumbnail(page, e.cfg.Thumbnail)

		full, err := codec.Encode(page, e.cfg.Format, e.cfg.Quality)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		small, err := codec.Encode(thumb, e.cfg.Format, e.cfg.Quality)
		if err != nil {
			return nil, fmt.Errorf("page %d thumbnail: %w", n, err)
		}
		pages[i] = nil
		encoded = append(encoded, types.EncodedPage{Image: full, Thumbnail: small})

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return encoded, nil
}

// writeAll writes every pending file, removing the ones already written if
// any write fails.
func writeAll(files []pendingFile) error {
	for i, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			for _, done := range files[:i] {
				os.Remove(done.path)
			}
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}

func (e *Extractor) progressBar(total int, description string) *progressbar.ProgressBar {
	if e.Progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.Progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}
