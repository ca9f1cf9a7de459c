// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThumbnailBox(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ThumbnailBox
		wantErr bool
	}{
		{name: "default", input: "300x200", want: ThumbnailBox{Width: 300, Height: 200}},
		{name: "surrounding whitespace", input: " 640x480 ", want: ThumbnailBox{Width: 640, Height: 480}},
		{name: "single number", input: "300", wantErr: true},
		{name: "letters", input: "abcxdef", wantErr: true},
		{name: "three parts", input: "1x2x3", wantErr: true},
		{name: "zero width", input: "0x200", wantErr: true},
		{name: "negative height", input: "300x-1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "uppercase separator", input: "300X200", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThumbnailBox(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidThumbnailSize))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestParseImageFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ImageFormat
		ext     string
		wantErr bool
	}{
		{input: "", want: FormatPNG, ext: "png"},
		{input: "PNG", want: FormatPNG, ext: "png"},
		{input: "jpg", want: FormatJPEG, ext: "jpg"},
		{input: "jpeg", want: FormatJPEG, ext: "jpg"},
		{input: "webp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseImageFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ext, got.Ext())
		})
	}
}

func TestViewerConfigValidate(t *testing.T) {
	valid := ViewerConfig{
		OutputDir: DefaultOutputDir,
		Mode:      ModeFiles,
		Thumbnail: ThumbnailBox{Width: 300, Height: 200},
		Quality:   DefaultQuality,
		DPI:       DefaultDPI,
		Format:    FormatPNG,
	}
	require.NoError(t, valid.Validate())
	assert.False(t, valid.SingleFile())

	lowQuality := valid
	lowQuality.Quality = 0
	assert.ErrorIs(t, lowQuality.Validate(), ErrInvalidQuality)

	highQuality := valid
	highQuality.Quality = 101
	assert.ErrorIs(t, highQuality.Validate(), ErrInvalidQuality)

	noDPI := valid
	noDPI.DPI = 0
	assert.ErrorIs(t, noDPI.Validate(), ErrInvalidDPI)

	inline := valid
	inline.Mode = ModeInline
	assert.True(t, inline.SingleFile())
}

func TestNewSlide(t *testing.T) {
	s := NewSlide("Quarterly Review", 3, "images/a.png", "thumbnails/a_thumb.png")
	assert.Equal(t, "Quarterly Review_page_3", s.ID)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, "Quarterly Review", s.Presentation)
}
