// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package viewer

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slideview/pkg/types"
)

// ManifestFile is the name of the slide index written next to index.html.
const ManifestFile = "slides.yaml"

// Manifest is a machine-readable record of one generation run.
type Manifest struct {
	RunID         string             `yaml:"run_id"`
	GeneratedAt   time.Time          `yaml:"generated_at"`
	Mode          types.OutputMode   `yaml:"mode"`
	Format        types.ImageFormat  `yaml:"format"`
	Thumbnail     types.ThumbnailBox `yaml:"thumbnail"`
	DPI           int                `yaml:"dpi"`
	Backend       string             `yaml:"backend"`
	Presentations []ManifestGroup    `yaml:"presentations"`
	Slides        []types.Slide      `yaml:"slides"`
}

// ManifestGroup names a presentation and its slide count.
type ManifestGroup struct {
	Name   string `yaml:"name"`
	Slides int    `yaml:"slides"`
}

// NewManifest builds the manifest for slides produced under cfg. In inline
// mode the image payloads live only in index.html and are left out.
func NewManifest(cfg types.ViewerConfig, slides []types.Slide, now time.Time) Manifest {
	m := Manifest{
		RunID:       ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		GeneratedAt: now.UTC(),
		Mode:        cfg.Mode,
		Format:      cfg.Format,
		Thumbnail:   cfg.Thumbnail,
		DPI:         cfg.DPI,
		Backend:     cfg.Backend,
		Slides:      make([]types.Slide, len(slides)),
	}
	for _, g := range Group(slides) {
		m.Presentations = append(m.Presentations, ManifestGroup{Name: g.Name, Slides: len(g.Slides)})
	}
	for i, s := range slides {
		if cfg.SingleFile() {
			s.Image, s.Thumbnail = "", ""
		}
		m.Slides[i] = s
	}
	return m
}

// Encode writes the manifest as YAML.
func (m Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return enc.Close()
}

// WriteManifest writes outDir/slides.yaml atomically and returns its path.
func WriteManifest(outDir string, m Manifest) (string, error) {
	path := filepath.Join(outDir, ManifestFile)
	if err := writeAtomic(path, m.Encode); err != nil {
		return "", err
	}
	return path, nil
}
