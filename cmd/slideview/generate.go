// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/slideview/internal/raster"
	"github.com/pdiddy/slideview/internal/slides"
	"github.com/pdiddy/slideview/internal/viewer"
	"github.com/pdiddy/slideview/pkg/types"
)

// registerFlags declares the generation flags on fs.
func registerFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", types.DefaultOutputDir, "output directory")
	fs.String("thumbnail-size", types.DefaultThumbnailSize, "thumbnail size as WIDTHxHEIGHT")
	fs.Int("quality", types.DefaultQuality, "image quality 1-100")
	fs.Bool("single-file", false, "create a single HTML file with embedded images (larger file, easier to share)")
	fs.Int("dpi", types.DefaultDPI, "rasterization resolution")
	fs.String("format", string(types.FormatPNG), "image format: png or jpeg")
	fs.String("backend", raster.DefaultBackend, "rasterizer: pdfium, mupdf, poppler, or poppler-container")
	fs.Bool("pull-image", false, "pull the container image if it is missing (poppler-container only)")
	fs.Bool("manifest", false, "also write slides.yaml describing the generated slides")
	fs.String("title", types.DefaultTitle, "page title")
	fs.Bool("no-progress", false, "disable per-document progress bars")
}

// registerPersistentFlags declares flags shared by generation and the
// backends subcommand.
func registerPersistentFlags(fs *pflag.FlagSet) {
	fs.String("container-image", raster.DefaultContainerImage, "image used by the poppler-container backend")
}

// settings are the resolved generation options from flags, config file and
// environment.
type settings struct {
	Output         string
	ThumbnailSize  string
	Quality        int
	SingleFile     bool
	DPI            int
	Format         string
	Backend        string
	ContainerImage string
	PullImage      bool
	Manifest       bool
	Title          string
	NoProgress     bool
	LogLevel       string
}

func settingsFrom(v *viper.Viper) settings {
	return settings{
		Output:         v.GetString("output"),
		ThumbnailSize:  v.GetString("thumbnail-size"),
		Quality:        v.GetInt("quality"),
		SingleFile:     v.GetBool("single-file"),
		DPI:            v.GetInt("dpi"),
		Format:         v.GetString("format"),
		Backend:        v.GetString("backend"),
		ContainerImage: v.GetString("container-image"),
		PullImage:      v.GetBool("pull-image"),
		Manifest:       v.GetBool("manifest"),
		Title:          v.GetString("title"),
		NoProgress:     v.GetBool("no-progress"),
		LogLevel:       v.GetString("log-level"),
	}
}

// viewerConfig validates s and converts it. It never touches the filesystem.
func (s settings) viewerConfig() (types.ViewerConfig, error) {
	box, err := types.ParseThumbnailBox(s.ThumbnailSize)
	if err != nil {
		return types.ViewerConfig{}, err
	}
	format, err := types.ParseImageFormat(s.Format)
	if err != nil {
		return types.ViewerConfig{}, err
	}
	backend := s.Backend
	if backend == "" {
		backend = raster.DefaultBackend
	}
	if !knownBackend(backend) {
		return types.ViewerConfig{}, fmt.Errorf("%w %q (available: %v)", raster.ErrUnknownBackend, backend, raster.Backends())
	}

	cfg := types.ViewerConfig{
		OutputDir: s.Output,
		Mode:      types.ModeFiles,
		Thumbnail: box,
		Quality:   s.Quality,
		DPI:       s.DPI,
		Format:    format,
		Backend:   backend,
		Manifest:  s.Manifest,
		Title:     s.Title,
	}
	if s.SingleFile {
		cfg.Mode = types.ModeInline
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = types.DefaultOutputDir
	}
	if err := cfg.Validate(); err != nil {
		return types.ViewerConfig{}, err
	}
	return cfg, nil
}

func knownBackend(name string) bool {
	for _, b := range raster.Backends() {
		if b == name {
			return true
		}
	}
	return false
}

// rasterFactory constructs a rasterizer; raster.New in production.
type rasterFactory func(name string, opts raster.Options) (raster.Rasterizer, error)

// generator runs one generation from resolved settings.
type generator struct {
	settings      settings
	newRasterizer rasterFactory
	out           io.Writer
	progress      io.Writer
	log           *slog.Logger
	now           func() time.Time
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s := settingsFrom(viper.GetViper())
	g := generator{
		settings:      s,
		newRasterizer: raster.New,
		out:           os.Stdout,
		progress:      os.Stderr,
		log:           newLogger(s.LogLevel, os.Stderr),
		now:           time.Now,
	}
	return g.run(args)
}

func (g generator) run(args []string) error {
	cfg, err := g.settings.viewerConfig()
	if err != nil {
		return err
	}

	pdfPaths := slides.ResolveInputs(args, g.out)
	if len(pdfPaths) == 0 {
		fmt.Fprintln(g.out, "No PDF files found!")
		return slides.ErrNoInputs
	}
	fmt.Fprintf(g.out, "Found %d PDF files\n", len(pdfPaths))

	r, err := g.newRasterizer(cfg.Backend, raster.Options{
		ContainerImage: g.settings.ContainerImage,
		PullImage:      g.settings.PullImage,
		Logger:         g.log,
	})
	if err != nil {
		return fmt.Errorf("starting %s rasterizer: %w", cfg.Backend, err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			g.log.Warn("closing rasterizer", "backend", r.Name(), "error", cerr)
		}
	}()
	g.log.Debug("generating viewer", "backend", r.Name(), "output", cfg.OutputDir, "mode", cfg.Mode, "dpi", cfg.DPI)

	ex := slides.NewExtractor(r, cfg, g.out)
	ex.Log = g.log
	if !g.settings.NoProgress {
		ex.Progress = g.progress
	}

	result, err := ex.ExtractBatch(pdfPaths)
	if err != nil {
		return err
	}
	if len(result.Slides) == 0 {
		fmt.Fprintln(g.out, "No slides were processed successfully!")
		return slides.ErrNoSlides
	}
	if result.HasFailures() {
		g.log.Warn("some inputs produced no slides", "skipped", result.Skipped, "failed", result.Failed)
	}

	htmlPath, size, err := viewer.WriteIndex(cfg.OutputDir, result.Slides, viewer.Options{
		Title:      cfg.Title,
		SingleFile: cfg.SingleFile(),
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("writing viewer: %w", err)
	}

	fmt.Fprintf(g.out, "\nHTML viewer generated: %s\n", htmlPath)
	fmt.Fprintf(g.out, "Total slides processed: %d\n", len(result.Slides))
	fmt.Fprintf(g.out, "Presentations: %d\n", result.Presentations())
	if cfg.SingleFile() {
		fmt.Fprintf(g.out, "Single file size: %s\n", humanize.Bytes(uint64(size)))
		fmt.Fprintln(g.out, "Self-contained HTML file ready for sharing!")
	} else {
		fmt.Fprintln(g.out, "Multi-file viewer with separate image assets")
	}

	if cfg.Manifest {
		path, err := viewer.WriteManifest(cfg.OutputDir, viewer.NewManifest(cfg, result.Slides, g.now()))
		if err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		fmt.Fprintf(g.out, "Manifest written: %s\n", path)
	}

	fmt.Fprintf(g.out, "Open %s in your browser to view slides\n", htmlPath)
	return nil
}
