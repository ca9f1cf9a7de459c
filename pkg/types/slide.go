// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared between the extraction, rendering
// and CLI layers.
package types

import "fmt"

// Slide is one rendered PDF page.
type Slide struct {
	// Presentation groups slides from one source PDF; it is derived from the
	// file's base name without extension.
	Presentation string `json:"presentation" yaml:"presentation"`

	// Page is the 1-based page index within the source PDF.
	Page int `json:"page" yaml:"page"`

	// Image references the full-resolution rendering: a path relative to the
	// output directory in file mode, a data URI in inline mode.
	Image string `json:"image" yaml:"image,omitempty"`

	// Thumbnail references the downsampled rendering, same representation
	// as Image.
	Thumbnail string `json:"thumbnail" yaml:"thumbnail,omitempty"`

	// ID is the lookup key used by the viewer script.
	ID string `json:"id" yaml:"id"`
}

// SlideID returns the viewer key for a presentation page.
func SlideID(presentation string, page int) string {
	return fmt.Sprintf("%s_page_%d", presentation, page)
}

// NewSlide builds a Slide with its ID derived from presentation and page.
func NewSlide(presentation string, page int, image, thumbnail string) Slide {
	return Slide{
		Presentation: presentation,
		Page:         page,
		Image:        image,
		Thumbnail:    thumbnail,
		ID:           SlideID(presentation, page),
	}
}

// EncodedPage holds one page's encoded full image and thumbnail, ready to be
// written to disk or wrapped in a data URI.
type EncodedPage struct {
	Image     []byte
	Thumbnail []byte
}
