// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slideview/pkg/types"
)

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}

func TestThumbnail(t *testing.T) {
	box := types.ThumbnailBox{Width: 300, Height: 200}
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "landscape slide bounded by width", w: 1650, h: 1275, wantW: 259, wantH: 200},
		{name: "wide slide bounded by width", w: 2000, h: 1125, wantW: 300, wantH: 169},
		{name: "portrait page bounded by height", w: 1275, h: 1650, wantW: 155, wantH: 200},
		{name: "small image kept", w: 120, h: 80, wantW: 120, wantH: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(solidImage(tt.w, tt.h), box)
			b := thumb.Bounds()

			assert.LessOrEqual(t, b.Dx(), box.Width)
			assert.LessOrEqual(t, b.Dy(), box.Height)
			assert.InDelta(t, tt.wantW, b.Dx(), 1)
			assert.InDelta(t, tt.wantH, b.Dy(), 1)

			srcRatio := float64(tt.w) / float64(tt.h)
			gotRatio := float64(b.Dx()) / float64(b.Dy())
			assert.InDelta(t, srcRatio, gotRatio, 0.02)
		})
	}
}

func TestThumbnail_DoesNotModifySource(t *testing.T) {
	src := solidImage(800, 600)
	_ = Thumbnail(src, types.ThumbnailBox{Width: 100, Height: 100})
	assert.Equal(t, 800, src.Bounds().Dx())
	assert.Equal(t, 600, src.Bounds().Dy())
}

func TestEncodeAndDataURI(t *testing.T) {
	for _, format := range []types.ImageFormat{types.FormatPNG, types.FormatJPEG} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(solidImage(64, 48), format, 85)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			uri := DataURI(data, format)
			assert.True(t, strings.HasPrefix(uri, "data:image/"+string(format)+";base64,"))

			mediaType, decoded, err := ParseDataURI(uri)
			require.NoError(t, err)
			assert.Equal(t, MIMEType(format), mediaType)
			assert.Equal(t, data, decoded)

			img, err := Decode(decoded)
			require.NoError(t, err)
			assert.Equal(t, 64, img.Bounds().Dx())
			assert.Equal(t, 48, img.Bounds().Dy())
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(solidImage(4, 4), types.ImageFormat("tiff"), 85)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseDataURI_Invalid(t *testing.T) {
	tests := []string{
		"images/a.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,@@@",
	}
	for _, uri := range tests {
		t.Run(uri, func(t *testing.T) {
			_, _, err := ParseDataURI(uri)
			assert.ErrorIs(t, err, ErrInvalidDataURI)
		})
	}
}
