// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codec encodes rasterized pages: it downsamples thumbnails, encodes
// images to PNG or JPEG, and wraps encoded bytes as data URIs.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/pdiddy/slideview/pkg/types"
)

// ErrUnknownFormat is returned for image formats the codec cannot encode.
var ErrUnknownFormat = errors.New("unknown image format")

// ErrInvalidDataURI is returned by ParseDataURI for strings that are not
// base64 data URIs.
var ErrInvalidDataURI = errors.New("invalid data URI")

// Thumbnail returns a copy of img scaled down with a Lanczos filter to fit
// inside box, preserving aspect ratio. Images already inside the box are
// cloned unchanged; they are never enlarged.
func Thumbnail(img image.Image, box types.ThumbnailBox) *image.NRGBA {
	return imaging.Fit(img, box.Width, box.Height, imaging.Lanczos)
}

// Encode compresses img in the given format. PNG output uses the best
// compression level; quality only applies to JPEG.
func Encode(img image.Image, format types.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case types.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case types.FormatJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// MIMEType returns the media type for an image format.
func MIMEType(format types.ImageFormat) string {
	return "image/" + string(format)
}

// DataURI wraps encoded image bytes as a base64 data URI.
func DataURI(data []byte, format types.ImageFormat) string {
	return "data:" + MIMEType(format) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its media type and decoded payload.
func ParseDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURI)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}

// Decode decodes encoded image bytes of any format registered with imaging.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}
