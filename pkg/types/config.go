// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Defaults applied by the CLI when neither a flag, a config file entry, nor
// an environment variable sets a value.
const (
	DefaultOutputDir     = "slide_viewer"
	DefaultThumbnailSize = "300x200"
	DefaultQuality       = 85
	DefaultDPI           = 150
	DefaultTitle         = "PDF Slide Viewer"
)

var (
	// ErrInvalidThumbnailSize is returned by ParseThumbnailBox for values
	// that are not of the form WIDTHxHEIGHT with positive integers.
	ErrInvalidThumbnailSize = errors.New("thumbnail-size must be in format WIDTHxHEIGHT (e.g., 300x200)")

	// ErrInvalidQuality is returned by ViewerConfig.Validate when the quality
	// hint is outside 1..100.
	ErrInvalidQuality = errors.New("quality must be between 1 and 100")

	// ErrInvalidDPI is returned by ViewerConfig.Validate for a non-positive
	// rasterization resolution.
	ErrInvalidDPI = errors.New("dpi must be a positive integer")
)

// OutputMode selects where slide imagery ends up.
type OutputMode string

const (
	// ModeFiles writes images/ and thumbnails/ next to index.html.
	ModeFiles OutputMode = "files"
	// ModeInline embeds every image as a base64 data URI in index.html.
	ModeInline OutputMode = "inline"
)

// ImageFormat is the encoding used for full-size images and thumbnails.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// Ext returns the file extension (without dot) used for assets in this format.
func (f ImageFormat) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ParseImageFormat maps a user-supplied format name to an ImageFormat.
// "jpg" is accepted as an alias for jpeg.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported image format %q (want png or jpeg)", s)
}

// ThumbnailBox is the bounding box a thumbnail must fit inside.
type ThumbnailBox struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String renders the box in the same WIDTHxHEIGHT form ParseThumbnailBox accepts.
func (b ThumbnailBox) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

// ParseThumbnailBox parses a WIDTHxHEIGHT string such as "300x200".
func ParseThumbnailBox(s string) (ThumbnailBox, error) {
	parts := strings.Split(strings.TrimSpace(s), "x")
	if len(parts) != 2 {
		return ThumbnailBox{}, fmt.Errorf("%w: got %q", ErrInvalidThumbnailSize, s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return ThumbnailBox{}, fmt.Errorf("%w: got %q", ErrInvalidThumbnailSize, s)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return ThumbnailBox{}, fmt.Errorf("%w: got %q", ErrInvalidThumbnailSize, s)
	}
	if w <= 0 || h <= 0 {
		return ThumbnailBox{}, fmt.Errorf("%w: got %q", ErrInvalidThumbnailSize, s)
	}
	return ThumbnailBox{Width: w, Height: h}, nil
}

// ViewerConfig holds every setting of one generation run.
type ViewerConfig struct {
	// OutputDir is the root directory for index.html and, in file mode,
	// the images/ and thumbnails/ subdirectories.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Mode selects file or inline output.
	Mode OutputMode `json:"mode" yaml:"mode"`

	// Thumbnail bounds the downsampled rendering of each page.
	Thumbnail ThumbnailBox `json:"thumbnail" yaml:"thumbnail"`

	// Quality is the 1..100 encoder hint. It drives JPEG quality; PNG
	// output is always lossless and maximally compressed.
	Quality int `json:"quality" yaml:"quality"`

	// DPI is the rasterization resolution (default 150).
	DPI int `json:"dpi" yaml:"dpi"`

	// Format is the asset encoding (default png).
	Format ImageFormat `json:"format" yaml:"format"`

	// Backend names the rasterizer (pdfium, mupdf, poppler, poppler-container).
	Backend string `json:"backend" yaml:"backend"`

	// Manifest enables writing slides.yaml next to index.html.
	Manifest bool `json:"manifest" yaml:"manifest"`

	// Title is the heading shown in the generated page.
	Title string `json:"title" yaml:"title"`
}

// SingleFile reports whether imagery is embedded into index.html.
func (c ViewerConfig) SingleFile() bool {
	return c.Mode == ModeInline
}

// Validate checks the numeric settings. It does not touch the filesystem.
func (c ViewerConfig) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, c.Quality)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDPI, c.DPI)
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidThumbnailSize, c.Thumbnail)
	}
	return nil
}
